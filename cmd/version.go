// Package cmd holds build metadata for the ccm binary.
package cmd

// Set via -ldflags "-X github.com/thoreinstein/ccm/cmd.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
