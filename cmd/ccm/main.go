// Package main is the entry point for the ccm CLI.
package main

import (
	"fmt"
	"os"

	"github.com/thoreinstein/ccm/cmd/ccm/commands"
	"github.com/thoreinstein/ccm/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	var exitErr *errors.ExitError
	if !errors.As(err, &exitErr) {
		exitErr = errors.NewSystemError(err, "")
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if exitErr.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "  %s\n", exitErr.Suggestion)
	}
	os.Exit(exitErr.Code)
}
