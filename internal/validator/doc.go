// Package validator checks the integrity of a project's assistant
// configuration.
//
// A [Validator] runs a fixed, ordered set of [Check]s against a
// store.Store and collects their outcomes into a [Report]. Checks never
// return errors: every failure, including an unreadable file, is reported
// as a failed [Result].
//
// # Checks
//
//   - MCP Configuration: .mcp.json exists and parses.
//   - Environment Variables: ${NAME} references without a default are
//     looked up in an explicit environment snapshot. Always passes.
//   - Skills: every skill directory holds a recognized content file
//     directly or one level down.
//   - Hooks: extensionless, .sh and .bash hooks have the owner-execute bit.
//   - Skill Dependencies: every server an installed skill needs is in the
//     registry.
//
// The environment is passed in as an [Env] rather than read from the
// process, so checks are deterministic under test.
package validator
