package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/aezell/chex/internal/cache"
	"github.com/aezell/chex/internal/config"
	"github.com/aezell/chex/internal/model"
	"github.com/aezell/chex/internal/source"
)

// diagnostics is what a command has to show.
type diagnostics struct {
	records *model.Collection
	title   string
}

// loadDiagnostics reads saved output when a path (or "-" for stdin) is
// given, and otherwise runs cargo check in the crate containing cfg.Dir.
func loadDiagnostics(ctx context.Context, cmd *cobra.Command, args []string, cfg config.Config) (diagnostics, error) {
	var keep source.Actionable
	if all, _ := cmd.Flags().GetBool("all"); all {
		keep = source.KeepAll
	}

	if len(args) == 1 {
		return loadSaved(cmd, args[0], cfg, keep)
	}

	root, title, err := crateRoot(cfg)
	if err != nil {
		return diagnostics{}, err
	}
	logger := newLogger(cmd)

	if last, _ := cmd.Flags().GetBool("last"); last {
		return loadLast(openCache(logger), root)
	}

	checker := &source.Checker{
		Cargo: cfg.Cargo,
		Dir:   root,
		Mode:  cfg.Mode,
		Keep:  keep,
		Log:   logger,
	}
	records, err := checker.Check(ctx)
	if err != nil {
		return diagnostics{}, err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		saveRun(openCache(logger), root, title, cfg, records, logger)
	}
	return diagnostics{records: records, title: title}, nil
}

// saveRun records a run for --last. Failing to save never fails the run.
func saveRun(store *cache.Store, root, title string, cfg config.Config, records *model.Collection, logger *log.Logger) {
	entry, err := cache.NewEntry(root, title, string(cfg.Mode), records, time.Now())
	if err == nil {
		err = store.Put(entry)
	}
	if err != nil && logger != nil {
		logger.Printf("saving results: %v", err)
	}
}

// crateRoot finds the crate containing cfg.Dir and its display title. With
// no Cargo.toml above it, the directory itself is used.
func crateRoot(cfg config.Config) (string, string, error) {
	start := cfg.Dir
	if start == "" {
		start = "."
	}
	manifest, err := source.LoadManifest(start)
	if err != nil {
		return "", "", err
	}
	if manifest != nil {
		return manifest.Root, manifest.Title(), nil
	}
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", "", err
	}
	return abs, filepath.Base(abs), nil
}

// openCache returns the result cache, or nil when it cannot be opened.
func openCache(logger *log.Logger) *cache.Store {
	store, err := cache.Open("chex")
	if err != nil {
		if logger != nil {
			logger.Printf("cache disabled: %v", err)
		}
		return nil
	}
	return store
}

func loadLast(store *cache.Store, root string) (diagnostics, error) {
	entry, ok, err := store.Get(root)
	if err != nil {
		return diagnostics{}, err
	}
	if !ok {
		return diagnostics{}, fmt.Errorf("no saved run for %s (run with --save first)", root)
	}
	title := fmt.Sprintf("%s (%s)", entry.Title, entry.CreatedAt().Format(time.DateTime))
	return diagnostics{records: entry.Collection(), title: title}, nil
}

func loadSaved(cmd *cobra.Command, path string, cfg config.Config, keep source.Actionable) (diagnostics, error) {
	var (
		data  []byte
		err   error
		title string
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return diagnostics{}, fmt.Errorf("reading stdin: %w", err)
		}
		title = "stdin"
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			return diagnostics{}, fmt.Errorf("reading %s: %w", path, err)
		}
		title = filepath.Base(path)
	}

	mode := cfg.Mode
	if !modeExplicit(cmd) {
		mode = source.Detect(data)
	}
	if logger := newLogger(cmd); logger != nil {
		logger.Printf("parsing %d bytes from %s as %s", len(data), title, mode)
	}

	records, err := source.Parse(mode, data, keep)
	if err != nil {
		return diagnostics{}, fmt.Errorf("parsing %s: %w", title, err)
	}
	return diagnostics{records: records, title: title}, nil
}

// newLogger returns a stderr logger when --verbose is set, or nil.
func newLogger(cmd *cobra.Command) *log.Logger {
	if verbose, _ := cmd.Flags().GetBool("verbose"); !verbose {
		return nil
	}
	return log.New(cmd.ErrOrStderr(), "chex: ", 0)
}
