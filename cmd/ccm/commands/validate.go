package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/ccm/cmd/ccm/commands/flags"
	"github.com/thoreinstein/ccm/internal/cli"
	"github.com/thoreinstein/ccm/internal/errors"
	"github.com/thoreinstein/ccm/internal/logging"
	"github.com/thoreinstein/ccm/internal/probe"
	"github.com/thoreinstein/ccm/internal/store"
	"github.com/thoreinstein/ccm/internal/validator"
)

var (
	validateJSON   bool
	validateProbe  bool
	validateStrict bool
)

// errValidationFailed is returned when at least one check failed so that
// the process exits non-zero.
var errValidationFailed = errors.New("validation failed")

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output in JSON format")
	validateCmd.Flags().BoolVar(&validateProbe, "probe", false, "also run each MCP server's command with --version")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "treat unrecognized MCP server types as errors")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate project configuration integrity",
	Long: `Validate the configuration of the source directory.

Checks that .mcp.json parses, that environment variables referenced by
servers are set, that every skill has content, that hooks are executable,
and that skills have the MCP servers they depend on. With --probe each
server's command is started with --version to check it is installed.

Unrecognized server types are reported as warnings. --strict, or
strict_types in the config file, turns them into failures.`,
	Example: `  # Validate the current directory
  ccm validate

  # Validate another project as JSON
  ccm validate -s ~/src/api --json

  See Also: ccm info`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, _ []string) error {
	return runValidateWithWriter(cmd.Context(), cmd.OutOrStdout(), validator.EnvFromList(os.Environ()))
}

func runValidateWithWriter(ctx context.Context, w io.Writer, env validator.Env) error {
	logger := logging.FromContext(ctx)

	sourceDir, err := flags.GetSource()
	if err != nil {
		return err
	}
	catalog := flags.LoadCatalog(logger)
	cfg := flags.GetConfig()

	v := validator.New(store.New(sourceDir, store.WithLogger(logger)),
		validator.WithEnv(env),
		validator.WithDependencies(catalog.Dependencies()),
		validator.WithProber(probe.New(probe.WithTimeout(cfg.ProbeTimeout))),
		validator.WithStrictTypes(validateStrict || cfg.StrictTypes),
		validator.WithLogger(logger),
	)

	format := validator.FormatText
	if validateJSON {
		format = validator.FormatJSON
	} else {
		fmt.Fprintf(w, "Validating configuration at %s...\n\n", sourceDir)
	}

	report := v.Validate()
	if err := validator.NewReporter(w, format).Report(report); err != nil {
		return errors.Wrap(err, "writing report")
	}

	passed := report.Passed()
	if validateProbe {
		if !probeServers(ctx, w, v, sourceDir, !validateJSON) {
			passed = false
		}
	}

	if !passed {
		return errors.NewExitError(errValidationFailed, errors.ExitUser)
	}
	return nil
}

// probeServers probes every configured server and reports whether all of
// them responded.
func probeServers(ctx context.Context, w io.Writer, v *validator.Validator, dir string, show bool) bool {
	reg, err := store.New(dir).ReadRegistry()
	if err != nil {
		// The MCP check has already reported the parse error.
		return false
	}
	if show && reg.Len() > 0 {
		fmt.Fprintln(w)
		cli.Heading(w, "Connectivity (%d):", reg.Len())
	}

	ok := true
	for _, name := range reg.Names() {
		passed := v.ProbeServer(ctx, name)
		if !passed {
			ok = false
		}
		if !show {
			continue
		}
		if passed {
			cli.Success(w, "%s", name)
		} else {
			cli.Failure(w, "%s", name)
		}
	}
	return ok
}
