// Package paths resolves the directories ccm keeps its own state in.
//
// The package wraps github.com/adrg/xdg so that locations follow the XDG
// Base Directory conventions on Linux and the platform equivalents on macOS
// and Windows:
//
//	paths.ConfigDir()   // ~/.config/ccm
//	paths.ConfigFile()  // ~/.config/ccm/config.yaml
//	paths.RemotesFile() // ~/.config/ccm/remotes.json
//	paths.CacheDir()    // ~/.cache/ccm
//
// Project-level locations (.mcp.json, .claude/) belong to store.Store, not
// to this package.
package paths
