// Package mcp defines the server registry stored in a project's .mcp.json.
//
// The file has a single top-level key, "mcpServers", mapping a server name to
// its launch definition:
//
//	{
//	  "mcpServers": {
//	    "github": {
//	      "command": "npx",
//	      "args": ["-y", "@modelcontextprotocol/server-github"],
//	      "env": {"GITHUB_TOKEN": "${GITHUB_TOKEN}"}
//	    }
//	  }
//	}
//
// A server's identity is its map key; the [Server] value carries no name.
// Servers are replaced wholesale on merge, so the types expose [Server.Clone]
// and [Registry.Clone] rather than field-level update helpers.
//
// Fields this package does not know about are preserved on individual
// servers. Unknown top-level keys are rejected by the parser subpackage.
package mcp
