// Package cli implements the chex command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aezell/chex/internal/source"
)

var rootCmd = &cobra.Command{
	Use:   "chex [path|-]",
	Short: "Browse cargo check diagnostics one at a time",
	Long: `Run cargo check and browse its diagnostics as a collapsible list.
Each diagnostic shows its one-line summary; expand it to see the full
compiler explanation.

Examples:
  chex                            # check the crate in the current directory
  chex -C ../server               # check another crate
  chex build.log                  # browse saved output
  cargo check 2>&1 | chex -       # browse piped output

Keys: ↓/j next, ↑/k prev, →/l expand, ←/h collapse, q quit.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runView,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringP("dir", "C", "", "crate directory (searched upward for Cargo.toml)")
	pf.String("mode", "", "cargo message format: json or text (default json)")
	pf.Bool("all", false, "keep every message, including summary trailers")
	pf.Bool("no-color", false, "disable colored output")
	pf.BoolP("verbose", "v", false, "log progress to stderr")
	pf.Bool("save", false, "save this run's results for --last")
	pf.Bool("last", false, "show the saved results of a previous run instead of running cargo")

	addViewFlags(rootCmd)
	rootCmd.AddCommand(viewCmd, checkCmd, serveCmd, versionCmd)
}

// Execute runs the root command and reports any error on stderr.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chex: %v\n", err)
		if hint := hintFor(err); hint != "" {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hint)
		}
	}
	return err
}

func hintFor(err error) string {
	var exitErr *source.ExitError
	switch {
	case errors.As(err, &exitErr):
		return "rerun with --all to include messages without a diagnostic code"
	case errors.Is(err, source.ErrInvocation):
		return "check that cargo is installed or point CHEX_CARGO at it"
	case errors.Is(err, source.ErrParse):
		return "use --mode text for human-formatted output"
	default:
		return ""
	}
}
