// Package resolver computes which servers a set of skills needs.
//
// Resolution is advisory: merges may produce configurations with missing
// dependencies, and the validator reports them.
package resolver

import (
	"maps"
	"slices"
)

// Resolver answers dependency questions against a skill-to-server table.
type Resolver struct {
	deps map[string][]string
}

// New returns a Resolver over deps. The map is not copied and must not be
// modified afterwards.
func New(deps map[string][]string) *Resolver {
	if deps == nil {
		deps = map[string][]string{}
	}
	return &Resolver{deps: deps}
}

// RequiredServersFor returns the sorted union of the servers each skill
// depends on. Skills without an entry contribute nothing.
func (r *Resolver) RequiredServersFor(skills []string) []string {
	set := make(map[string]struct{})
	for _, skill := range skills {
		for _, server := range r.deps[skill] {
			set[server] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// MissingServers returns the servers required by selectedSkills that are
// not in selectedServers, sorted.
func (r *Resolver) MissingServers(selectedServers, selectedSkills []string) []string {
	var missing []string
	for _, server := range r.RequiredServersFor(selectedSkills) {
		if !slices.Contains(selectedServers, server) {
			missing = append(missing, server)
		}
	}
	return missing
}

// Gap is one unmet dependency of an installed skill.
type Gap struct {
	Skill  string
	Server string
}

// String formats the gap as "<skill> -> <server>".
func (g Gap) String() string {
	return g.Skill + " -> " + g.Server
}

// Gaps returns, for each skill in order, every dependency absent from
// servers. Within a skill the table's order is kept.
func (r *Resolver) Gaps(servers, skills []string) []Gap {
	var gaps []Gap
	for _, skill := range skills {
		for _, server := range r.deps[skill] {
			if !slices.Contains(servers, server) {
				gaps = append(gaps, Gap{Skill: skill, Server: server})
			}
		}
	}
	return gaps
}
