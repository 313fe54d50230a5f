package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aezell/chex/internal/config"
	"github.com/aezell/chex/internal/source"
)

// resolveConfig layers explicitly set flags over the environment.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()

	if flags.Changed("dir") {
		cfg.Dir, _ = flags.GetString("dir")
	}
	if flags.Changed("mode") {
		v, _ := flags.GetString("mode")
		if cfg.Mode, err = source.ParseMode(v); err != nil {
			return config.Config{}, err
		}
	}
	if flags.Lookup("ui") != nil && flags.Changed("ui") {
		v, _ := flags.GetString("ui")
		if cfg.UI, err = config.ParseUIMode(v); err != nil {
			return config.Config{}, err
		}
	}
	if flags.Changed("no-color") {
		cfg.NoColor, _ = flags.GetBool("no-color")
	}
	return cfg, nil
}

// modeExplicit reports whether the user chose a message format, as opposed
// to the default. Saved output is sniffed when no format was chosen.
func modeExplicit(cmd *cobra.Command) bool {
	return cmd.Flags().Changed("mode") || os.Getenv("CHEX_MODE") != ""
}
