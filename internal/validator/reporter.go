package validator

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/thoreinstein/ccm/internal/errors"
)

// Format specifies the output format for validation reports.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// maxDetails caps the details printed under a failed check.
const maxDetails = 5

// Reporter formats and writes validation reports.
type Reporter struct {
	out    io.Writer
	format Format
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{
		out:    out,
		format: format,
	}
}

// Report writes report to the output.
func (r *Reporter) Report(report *Report) error {
	if report == nil {
		return nil
	}

	switch r.format {
	case FormatJSON:
		return r.reportJSON(report)
	default:
		return r.reportText(report)
	}
}

type jsonReport struct {
	*Report
	Passed       bool `json:"passed"`
	SuccessCount int  `json:"success_count"`
	ErrorCount   int  `json:"error_count"`
}

func (r *Reporter) reportJSON(report *Report) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	out := jsonReport{
		Report:       report,
		Passed:       report.Passed(),
		SuccessCount: report.SuccessCount(),
		ErrorCount:   report.ErrorCount(),
	}
	return errors.Wrap(encoder.Encode(out), "encoding JSON report")
}

func (r *Reporter) reportText(report *Report) error {
	for _, res := range report.Results {
		if res.Passed {
			fmt.Fprintln(r.out, color.GreenString("[✓] %s", res.Category))
		} else {
			fmt.Fprintln(r.out, color.RedString("[✗] %s", res.Category))
		}
		fmt.Fprintf(r.out, "    %s\n", res.Message)

		if res.Passed || len(res.Details) == 0 {
			continue
		}
		for _, d := range res.Details[:min(len(res.Details), maxDetails)] {
			fmt.Fprintln(r.out, color.YellowString("      - %s", d))
		}
		if extra := len(res.Details) - maxDetails; extra > 0 {
			fmt.Fprintf(r.out, "      ... and %d more\n", extra)
		}
	}

	fmt.Fprintln(r.out)
	if report.Passed() {
		fmt.Fprintln(r.out, color.GreenString("✓ All validations passed!"))
	} else {
		fmt.Fprintln(r.out, color.RedString("✗ %d validation(s) failed", report.ErrorCount()))
	}
	return nil
}
