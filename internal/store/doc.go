// Package store provides typed access to one project's configuration tree.
//
// A project's configuration consists of:
//
//	<project>/
//	├── .mcp.json              server registry
//	├── .env.example           environment template
//	└── .claude/
//	    ├── skills/<name>/     one directory per skill
//	    ├── hooks/<file>       automation hooks
//	    └── output-styles/<file>
//
// A [Store] exclusively owns the subtree rooted at its project path. Every
// mutation of the registry is atomic. [Store.Backup] copies the registry,
// the .claude tree and the environment template into a new
// .backup-claude-<label> directory together with a manifest of SHA256
// hashes, which [Store.Restore] verifies before touching the live tree.
package store
