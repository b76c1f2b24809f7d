package validator

import (
	"fmt"
	"time"
)

// Check categories, in report order.
const (
	CategoryMCP          = "MCP Configuration"
	CategoryEnv          = "Environment Variables"
	CategorySkills       = "Skills"
	CategoryHooks        = "Hooks"
	CategoryDependencies = "Skill Dependencies"
)

// Result is the outcome of one check.
type Result struct {
	Passed   bool     `json:"passed"`
	Category string   `json:"category"`
	Message  string   `json:"message"`
	Details  []string `json:"details,omitempty"`
}

func pass(category, message string, details ...string) *Result {
	return &Result{Passed: true, Category: category, Message: message, Details: details}
}

func fail(category, message string, details ...string) *Result {
	return &Result{Passed: false, Category: category, Message: message, Details: details}
}

// Report aggregates check results in run order.
type Report struct {
	ProjectPath string    `json:"project_path"`
	Timestamp   time.Time `json:"timestamp"`
	Results     []*Result `json:"results"`
}

// Passed reports whether every check passed.
func (r *Report) Passed() bool {
	return r.ErrorCount() == 0
}

// ErrorCount returns the number of failed checks.
func (r *Report) ErrorCount() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, res := range r.Results {
		if !res.Passed {
			n++
		}
	}
	return n
}

// SuccessCount returns the number of passed checks.
func (r *Report) SuccessCount() int {
	if r == nil {
		return 0
	}
	return len(r.Results) - r.ErrorCount()
}

// Summary returns a one-line count of passed and failed checks.
func (r *Report) Summary() string {
	return fmt.Sprintf("Validation: %d passed, %d failed", r.SuccessCount(), r.ErrorCount())
}

// Result returns the result for category, or nil.
func (r *Report) Result(category string) *Result {
	if r == nil {
		return nil
	}
	for _, res := range r.Results {
		if res.Category == category {
			return res
		}
	}
	return nil
}
