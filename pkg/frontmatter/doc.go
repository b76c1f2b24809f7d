// Package frontmatter reads the YAML header of Markdown files such as a
// skill's SKILL.md.
//
// The header is delimited by lines containing only "---" at the start of
// the file:
//
//	---
//	name: code-review
//	description: Review pull requests for correctness and style
//	---
//
//	# Code review
//
// Only the header is read; the body is never loaded. Both LF and CRLF line
// endings are accepted.
package frontmatter
