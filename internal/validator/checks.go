package validator

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/thoreinstein/ccm/internal/mcp"
	mcpvalidator "github.com/thoreinstein/ccm/internal/mcp/validator"
	"github.com/thoreinstein/ccm/internal/resolver"
	"github.com/thoreinstein/ccm/internal/store"
	"github.com/thoreinstein/ccm/pkg/fileutil"
)

// contentExts are the file extensions that make a skill directory valid.
var contentExts = []string{".md", ".txt", ".yaml", ".yml", ".json"}

// scriptExts are hook extensions that must be executable. The empty string
// stands for hooks without an extension.
var scriptExts = []string{"", ".sh", ".bash"}

// ext returns the extension of a file name. A name whose only dot is the
// leading one, such as ".pre-commit", has none.
func ext(name string) string {
	if strings.LastIndex(name, ".") <= 0 {
		return ""
	}
	return filepath.Ext(name)
}

// mcpConfigCheck verifies that .mcp.json exists, parses and holds
// well-formed server entries. Warnings are appended to the details.
type mcpConfigCheck struct {
	store       *store.Store
	strictTypes bool
}

func (c *mcpConfigCheck) Name() string { return CategoryMCP }

func (c *mcpConfigCheck) Run() *Result {
	if !c.store.HasRegistry() {
		return fail(CategoryMCP, ".mcp.json not found")
	}
	reg, err := c.store.ReadRegistry()
	if err != nil {
		return fail(CategoryMCP, fmt.Sprintf("Invalid .mcp.json: %v", err))
	}

	issues := mcpvalidator.New(mcpvalidator.WithStrictTypes(c.strictTypes)).Validate(reg)
	if mcpvalidator.HasErrors(issues) {
		errs := mcpvalidator.Errors(issues)
		return fail(CategoryMCP, fmt.Sprintf("%d invalid MCP server entries", len(errs)), issueMessages(errs)...)
	}
	details := append(reg.Names(), issueMessages(mcpvalidator.Warnings(issues))...)
	return pass(CategoryMCP, fmt.Sprintf("Valid configuration with %d MCP servers", reg.Len()), details...)
}

func issueMessages(issues []*mcpvalidator.ValidationError) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Error()
	}
	return out
}

// envRef matches ${NAME}, ${NAME:-default} and other ${NAME:...} forms.
// NAME is anything up to the first ':' or '}'.
var envRef = regexp.MustCompile(`\$\{([^}:]+)(:[^}]*)?\}`)

// envCheck reports referenced variables missing from the snapshot. Missing
// variables are informational; the check always passes.
type envCheck struct {
	store *store.Store
	env   Env
}

func (c *envCheck) Name() string { return CategoryEnv }

func (c *envCheck) Run() *Result {
	reg, err := c.store.ReadRegistry()
	if err != nil {
		return pass(CategoryEnv, "Skipped: .mcp.json could not be read")
	}

	required := RequiredVars(reg)
	var missing, set []string
	for _, name := range required {
		if c.env[name] == "" {
			missing = append(missing, name)
		} else {
			set = append(set, name)
		}
	}

	if len(missing) > 0 {
		return pass(CategoryEnv,
			fmt.Sprintf("%d optional environment variables not set (configure in .env)", len(missing)),
			missing...)
	}
	return pass(CategoryEnv, fmt.Sprintf("All %d required environment variables are set", len(set)), set...)
}

// RequiredVars returns the sorted names referenced as ${NAME} in server env
// values and args. References with a default (${NAME:-x}) are satisfied and
// not returned.
func RequiredVars(reg *mcp.Registry) []string {
	seen := map[string]bool{}
	scan := func(s string) {
		for _, m := range envRef.FindAllStringSubmatch(s, -1) {
			if !strings.HasPrefix(m[2], ":-") {
				seen[m[1]] = true
			}
		}
	}
	for _, name := range reg.Names() {
		s := reg.Servers[name]
		for _, v := range s.Env {
			scan(v)
		}
		for _, a := range s.Args {
			scan(a)
		}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// skillsCheck verifies that each skill carries recognizable content.
type skillsCheck struct {
	store *store.Store
}

func (c *skillsCheck) Name() string { return CategorySkills }

func (c *skillsCheck) Run() *Result {
	if !c.store.HasSkillsDir() {
		return fail(CategorySkills, "Skills directory not found")
	}
	skills, err := c.store.ListSkills()
	if err != nil {
		return fail(CategorySkills, fmt.Sprintf("Cannot list skills: %v", err))
	}
	if len(skills) == 0 {
		return pass(CategorySkills, "No skills installed")
	}

	var valid, invalid []string
	for _, name := range skills {
		if hasSkillContent(c.store.SkillPath(name)) {
			valid = append(valid, name)
		} else {
			invalid = append(invalid, name)
		}
	}
	if len(invalid) > 0 {
		return fail(CategorySkills, fmt.Sprintf("%d skills missing content", len(invalid)), invalid...)
	}
	return pass(CategorySkills, fmt.Sprintf("%d skills configured correctly", len(valid)), valid...)
}

// hasSkillContent reports whether dir, or one of its immediate
// subdirectories, holds a file with a content extension.
func hasSkillContent(dir string) bool {
	if hasContentFile(dir) {
		return true
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		sub := filepath.Join(dir, e.Name())
		if fileutil.IsDir(sub) && hasContentFile(sub) {
			return true
		}
	}
	return false
}

func hasContentFile(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !slices.Contains(contentExts, ext(e.Name())) {
			continue
		}
		if info, err := os.Stat(filepath.Join(dir, e.Name())); err == nil && info.Mode().IsRegular() {
			return true
		}
	}
	return false
}

// hooksCheck verifies that script hooks are executable by their owner.
type hooksCheck struct {
	store *store.Store
}

func (c *hooksCheck) Name() string { return CategoryHooks }

func (c *hooksCheck) Run() *Result {
	if !c.store.HasHooksDir() {
		return pass(CategoryHooks, "No hooks directory (optional)")
	}
	hooks, err := c.store.ListHooks()
	if err != nil {
		return fail(CategoryHooks, fmt.Sprintf("Cannot list hooks: %v", err))
	}
	if len(hooks) == 0 {
		return pass(CategoryHooks, "No hooks configured")
	}

	var nonExec []string
	for _, name := range hooks {
		if !slices.Contains(scriptExts, ext(name)) {
			continue
		}
		info, err := os.Stat(filepath.Join(c.store.HooksPath(), name))
		if err != nil || info.Mode().Perm()&0o100 == 0 {
			nonExec = append(nonExec, name)
		}
	}
	if len(nonExec) > 0 {
		return fail(CategoryHooks, fmt.Sprintf("%d hooks are not executable", len(nonExec)), nonExec...)
	}
	return pass(CategoryHooks, fmt.Sprintf("%d hooks configured correctly", len(hooks)), hooks...)
}

// dependencyCheck verifies that every installed skill's servers are
// registered.
type dependencyCheck struct {
	store *store.Store
	deps  map[string][]string
}

func (c *dependencyCheck) Name() string { return CategoryDependencies }

func (c *dependencyCheck) Run() *Result {
	skills, err := c.store.ListSkills()
	if err != nil {
		return fail(CategoryDependencies, fmt.Sprintf("Cannot list skills: %v", err))
	}
	reg, err := c.store.ReadRegistry()
	if err != nil {
		return fail(CategoryDependencies, fmt.Sprintf("Cannot read .mcp.json: %v", err))
	}

	gaps := resolver.New(c.deps).Gaps(reg.Names(), skills)
	if len(gaps) > 0 {
		details := make([]string, len(gaps))
		for i, g := range gaps {
			details[i] = g.String()
		}
		return fail(CategoryDependencies, fmt.Sprintf("%d missing MCP server dependencies", len(gaps)), details...)
	}
	return pass(CategoryDependencies, "All skill dependencies satisfied")
}
