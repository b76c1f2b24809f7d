// Package merge applies configuration from one project, a bundle or a
// profile onto a target project.
//
// Every mutating operation takes a backup of the target through
// store.Store.Backup before writing anything. Once writing has started the
// steps are not transactional: a failing step returns a *PartialMergeError
// that carries the backup so the caller can restore it.
//
// The registry follows a fixed precedence rule. Under StrategyOverwrite the
// target registry becomes the filtered source registry; under StrategyMerge
// the two are combined and the source wins on every name collision. Skills
// are replaced wholesale. Hooks, output styles and the environment template
// are only created when the target lacks them.
package merge
