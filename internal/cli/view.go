package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/aezell/chex/internal/report"
	"github.com/aezell/chex/internal/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view [path|-]",
	Short: "Open the interactive diagnostic list (default command)",
	Long: `Open the interactive diagnostic list. Without a path, runs cargo check
in the crate containing the current directory (or --dir). With a path,
reads saved cargo output; "-" reads stdin.

When stdout is not a terminal the list is printed as a plain report.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func init() {
	addViewFlags(viewCmd)
}

func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().String("ui", "", "interactive list: auto, on or off (default auto)")
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	diags, err := loadDiagnostics(cmd.Context(), cmd, args, cfg)
	if err != nil {
		return err
	}
	// Nothing to show is a clean exit.
	if diags.records.Len() == 0 {
		return nil
	}

	out := cmd.OutOrStdout()
	decision := resolveUIMode(cfg.UI, out)
	if decision.warning != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), decision.warning)
	}

	if !decision.useLive {
		return report.Write(out, diags.records, report.Options{
			Format:  report.FormatText,
			Width:   terminalWidth(out),
			NoColor: cfg.NoColor || !isTerminal(out),
			Title:   diags.title,
		})
	}

	renderer := lipgloss.NewRenderer(out)
	if cfg.NoColor {
		renderer.SetColorProfile(termenv.Ascii)
	}
	return tui.Run(cmd.Context(), diags.records, tui.Options{
		Title:    diags.title,
		Renderer: renderer,
	})
}
