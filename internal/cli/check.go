package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aezell/chex/internal/report"
)

// exit is swapped out in tests.
var exit = os.Exit

var checkCmd = &cobra.Command{
	Use:   "check [path|-]",
	Short: "Print a diagnostic report (non-interactive)",
	Long: `Run cargo check (or read saved output) and print the diagnostics as a
report. Useful for CI, pre-commit hooks, and piping into other tools.

Exit codes:
  0 - no errors (warnings may be present)
  1 - errors found`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringP("format", "f", "text", "output format: text, json, markdown, html")
	checkCmd.Flags().Bool("highlight", false, "syntax-highlight quoted source lines in text output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	formatName, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}
	highlight, _ := cmd.Flags().GetBool("highlight")

	diags, err := loadDiagnostics(cmd.Context(), cmd, args, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	err = report.Write(out, diags.records, report.Options{
		Format:    format,
		Highlight: highlight,
		NoColor:   cfg.NoColor || !isTerminal(out),
		Title:     diags.title,
	})
	if err != nil {
		return err
	}

	if diags.records.Counts().Errors > 0 {
		exit(1)
	}
	return nil
}
