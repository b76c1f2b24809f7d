package validator

import (
	"fmt"
	"time"
)

// Check is a single validation step.
type Check interface {
	// Name returns the category the check reports under.
	Name() string

	// Run executes the check. It must not return nil.
	Run() *Result
}

// Runner executes checks in registration order.
type Runner struct {
	checks []Check
	now    func() time.Time
}

// NewRunner creates an empty runner.
func NewRunner() *Runner {
	return &Runner{
		checks: make([]Check, 0),
		now:    time.Now,
	}
}

// AddCheck registers c.
func (r *Runner) AddCheck(c Check) {
	r.checks = append(r.checks, c)
}

// Run executes every check and returns the report. A check that panics or
// returns nil is recorded as failed; the remaining checks still run.
func (r *Runner) Run(projectPath string) *Report {
	report := &Report{
		ProjectPath: projectPath,
		Timestamp:   r.now().UTC(),
		Results:     make([]*Result, 0, len(r.checks)),
	}
	for _, c := range r.checks {
		report.Results = append(report.Results, runCheck(c))
	}
	return report
}

func runCheck(c Check) (res *Result) {
	defer func() {
		if p := recover(); p != nil {
			res = fail(c.Name(), fmt.Sprintf("check aborted: %v", p))
		}
	}()
	res = c.Run()
	if res == nil {
		res = fail(c.Name(), "check produced no result")
	}
	return res
}
