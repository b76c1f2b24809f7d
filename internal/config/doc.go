// Package config provides configuration management for the ccm CLI.
//
// This package handles loading and validating ccm's own settings. It is
// distinct from the project configuration (.mcp.json, .claude/) that ccm
// manages.
//
// # Configuration File
//
// config.yaml is searched for in the current directory and then in
// ~/.config/ccm. Every key can be overridden with a CCM_ environment
// variable (CCM_PROBE_TIMEOUT=10s):
//
//	version: 1
//	catalog_path: ~/profiles.yaml   # optional
//	probe_timeout: 5s
//	remotes_file: ~/.config/ccm/remotes.json
//	default_strategy: overwrite
//	default_profile: full
//
// # Loading Configuration
//
//	config.Init()
//	cfg, err := config.Load("")
//
// [Load] validates the result; failures are marked errors.ErrInvalidConfig.
package config
