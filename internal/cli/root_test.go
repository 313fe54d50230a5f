package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aezell/chex/internal/config"
	"github.com/aezell/chex/internal/source"
)

const savedStream = `{"reason":"compiler-message","package_id":"demo 0.1.0","message":{"rendered":"error[E0308]: mismatched types\n --> src/main.rs:3:13\n  |\n3 | fn foo() -> bool {\n  |             ^^^^ expected bool, found ()\n","message":"mismatched types","level":"error","code":{"code":"E0308","explanation":null},"spans":[{"file_name":"src/main.rs","line_start":3,"column_start":13,"is_primary":true}],"children":[]}}
{"reason":"compiler-message","package_id":"demo 0.1.0","message":{"rendered":"error: aborting due to 1 previous error\n","message":"aborting due to 1 previous error","level":"error","code":null,"spans":[],"children":[]}}
{"reason":"build-finished","success":false}
`

const savedWarnings = `warning: unused variable: ` + "`y`" + `
 --> src/main.rs:2:9
  |
2 |     let y = 1;
  |         ^ help: if this is intentional, prefix it with an underscore: ` + "`_y`" + `

warning: ` + "`demo`" + ` (bin "demo") generated 1 warning
    Finished ` + "`dev`" + ` profile [unoptimized + debuginfo] target(s) in 0.31s
`

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"CHEX_CARGO", "CHEX_DIR", "CHEX_MODE", "CHEX_UI", "NO_COLOR"} {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command and returns stdout, stderr and the exit
// code requested through exit, or -1 when none was.
func execute(t *testing.T, stdin string, args ...string) (string, string, int, error) {
	t.Helper()
	clearEnv(t)
	resetFlags(rootCmd)

	code := -1
	exit = func(c int) { code = c }
	t.Cleanup(func() { exit = os.Exit })

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), code, err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	for _, want := range []string{"view", "check", "serve", "version"} {
		if !names[want] {
			t.Errorf("root command missing subcommand %q", want)
		}
	}
}

func TestVersionOutput(t *testing.T) {
	// version vars are set via ldflags; in tests they have their defaults
	if version != "dev" {
		t.Errorf("expected default version %q, got %q", "dev", version)
	}
	out, _, _, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "chex dev") {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestCheckSavedJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "build.json", savedStream)

	out, _, code, err := execute(t, "", "check", "--format", "json", path)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !strings.Contains(out, `"code": "E0308"`) || !strings.Contains(out, `"total": 1`) {
		t.Errorf("unexpected report:\n%s", out)
	}
	if code != 1 {
		t.Errorf("expected exit 1 for errors, got %d", code)
	}
}

func TestCheckStdinText(t *testing.T) {
	out, _, code, err := execute(t, savedWarnings, "check", "-")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	want := "warning: unused variable: `y`\n"
	if !strings.HasPrefix(out, want) {
		t.Errorf("expected report to start with %q, got:\n%s", want, out)
	}
	if strings.Contains(out, "generated 1 warning") {
		t.Error("expected the trailer to be dropped")
	}
	if !strings.HasSuffix(out, "\n1 warning\n") {
		t.Errorf("expected count line, got:\n%s", out)
	}
	if code != -1 {
		t.Errorf("warnings alone should not fail, got exit %d", code)
	}
}

func TestCheckAllKeepsTrailers(t *testing.T) {
	out, _, _, err := execute(t, savedWarnings, "check", "--all", "-")
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !strings.Contains(out, "generated 1 warning") {
		t.Errorf("expected --all to keep the trailer:\n%s", out)
	}
}

func TestCheckRejectsUnknownFormat(t *testing.T) {
	_, _, _, err := execute(t, savedWarnings, "check", "--format", "yaml", "-")
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestCheckParseFailure(t *testing.T) {
	_, _, _, err := execute(t, "{\"reason\":", "check", "-")
	if !errors.Is(err, source.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	if hintFor(err) == "" {
		t.Error("expected a hint for parse failures")
	}
}

func TestViewFallsBackToReport(t *testing.T) {
	path := writeFile(t, t.TempDir(), "build.log", savedWarnings)

	out, errOut, _, err := execute(t, "", "view", "--ui", "on", path)
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if !strings.Contains(errOut, "not a TTY") {
		t.Errorf("expected fallback warning, got %q", errOut)
	}
	if !strings.Contains(out, "warning: unused variable") {
		t.Errorf("expected plain report, got:\n%s", out)
	}
}

func TestViewEmptyIsSilent(t *testing.T) {
	clean := `{"reason":"build-finished","success":true}` + "\n"
	out, _, _, err := execute(t, clean, "-")
	if err != nil {
		t.Fatalf("view failed: %v", err)
	}
	if out != "" {
		t.Errorf("expected no output, got %q", out)
	}

	out, _, _, err = execute(t, "    Finished `dev` profile in 0.02s\n", "view", "--mode", "text", "-")
	if err != nil || out != "" {
		t.Errorf("expected clean text build to exit quietly, got %q, %v", out, err)
	}
}

func TestCheckRunsCargo(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script cargo stand-in")
	}
	crate := t.TempDir()
	writeFile(t, crate, "Cargo.toml", "[package]\nname = \"demo\"\nversion = \"0.1.0\"\n")
	if err := os.MkdirAll(filepath.Join(crate, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	stream := writeFile(t, t.TempDir(), "stream.json", savedStream)
	cargo := writeFile(t, t.TempDir(), "cargo", "#!/bin/sh\ncat '"+stream+"'\nexit 101\n")

	clearEnv(t)
	t.Setenv("CHEX_CARGO", cargo)
	resetFlags(rootCmd)
	var out bytes.Buffer
	code := -1
	exit = func(c int) { code = c }
	t.Cleanup(func() { exit = os.Exit })
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"check", "--save", "-C", filepath.Join(crate, "src"), "--format", "markdown"})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if !strings.Contains(out.String(), "## Diagnostics: demo v0.1.0") {
		t.Errorf("expected crate title, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "| error | `E0308` | `src/main.rs:3:13` | mismatched types |") {
		t.Errorf("expected diagnostic row, got:\n%s", out.String())
	}
	if code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}

	// --last replays the cached run without invoking cargo.
	t.Setenv("CHEX_CARGO", filepath.Join(t.TempDir(), "no-such-cargo"))
	resetFlags(rootCmd)
	out.Reset()
	rootCmd.SetArgs([]string{"check", "--last", "-C", crate, "--format", "json"})
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("check --last failed: %v", err)
	}
	if !strings.Contains(out.String(), `"code": "E0308"`) {
		t.Errorf("expected cached diagnostic, got:\n%s", out.String())
	}
}

func TestLastWithoutPreviousRun(t *testing.T) {
	_, _, _, err := execute(t, "", "check", "--last", "-C", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "no saved run") {
		t.Fatalf("expected missing-run error, got %v", err)
	}
}

func TestCheckCargoMissing(t *testing.T) {
	clearEnv(t)
	t.Setenv("CHEX_CARGO", filepath.Join(t.TempDir(), "no-such-cargo"))
	resetFlags(rootCmd)
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"check", "-C", t.TempDir()})

	err := rootCmd.ExecuteContext(context.Background())
	if !errors.Is(err, source.ErrInvocation) {
		t.Fatalf("expected ErrInvocation, got %v", err)
	}
	if hint := hintFor(err); strings.Contains(hint, "--all") || !strings.Contains(hint, "CHEX_CARGO") {
		t.Errorf("unexpected hint for a missing binary: %q", hint)
	}
}

func TestHintForFailedBuild(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &source.ExitError{Code: 101, Stderr: "error: could not compile"})
	if !errors.Is(err, source.ErrInvocation) {
		t.Fatal("expected exit error to match ErrInvocation")
	}
	if hint := hintFor(err); !strings.Contains(hint, "--all") {
		t.Errorf("expected --all hint, got %q", hint)
	}
}

// serve runs the serve command against an already cancelled context, so the
// server shuts down as soon as it starts.
func serve(t *testing.T, args ...string) (bool, error) {
	t.Helper()
	clearEnv(t)
	resetFlags(rootCmd)

	called := false
	startAdvertiser = func(string, int, []string) (io.Closer, error) {
		called = true
		return io.NopCloser(nil), nil
	}
	t.Cleanup(func() { startAdvertiser = defaultStartAdvertiser })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"serve", "--port", "0"}, args...))
	err := rootCmd.ExecuteContext(ctx)
	return called, err
}

func TestServeSkipsAdvertisingOnLoopback(t *testing.T) {
	for _, addr := range []string{"", "127.0.0.1", "localhost"} {
		args := []string{"--advertise"}
		if addr != "" {
			args = append(args, "--addr", addr)
		}
		called, err := serve(t, args...)
		if err != nil {
			t.Fatalf("addr %q: serve failed: %v", addr, err)
		}
		if called {
			t.Errorf("addr %q: advertised a loopback-only server", addr)
		}
	}
}

func TestServeAdvertisesOnAllInterfaces(t *testing.T) {
	called, err := serve(t, "--advertise", "--addr", "0.0.0.0")
	if err != nil {
		t.Fatalf("serve failed: %v", err)
	}
	if !called {
		t.Error("expected the server to be advertised")
	}
}

func TestIsLoopbackHost(t *testing.T) {
	tests := map[string]bool{
		"127.0.0.1": true,
		"localhost": true,
		"[::1]":     true,
		"::1":       true,
		"0.0.0.0":   false,
		"":          false,
		"192.0.2.7": false,
	}
	for host, want := range tests {
		if got := isLoopbackHost(host); got != want {
			t.Errorf("isLoopbackHost(%q) = %v, want %v", host, got, want)
		}
	}
}

func TestResolveConfigFlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CHEX_MODE", "text")
	t.Setenv("CHEX_UI", "on")
	resetFlags(rootCmd)

	if err := viewCmd.ParseFlags([]string{"--mode", "json", "--no-color", "-C", "/work"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := resolveConfig(viewCmd)
	if err != nil {
		t.Fatalf("resolveConfig failed: %v", err)
	}
	if cfg.Mode != source.ModeJSON || !cfg.NoColor || cfg.Dir != "/work" {
		t.Errorf("flags did not override: %+v", cfg)
	}
	if cfg.UI != config.UIOn {
		t.Errorf("expected env ui mode to survive, got %q", cfg.UI)
	}
	resetFlags(rootCmd)
}

func TestResolveConfigRejectsBadFlags(t *testing.T) {
	_, _, _, err := execute(t, savedWarnings, "view", "--ui", "sometimes", "-")
	if err == nil {
		t.Error("expected error for invalid --ui")
	}
	_, _, _, err = execute(t, savedWarnings, "view", "--mode", "xml", "-")
	if err == nil {
		t.Error("expected error for invalid --mode")
	}
}

func TestResolveUIMode(t *testing.T) {
	orig := isTerminal
	t.Cleanup(func() { isTerminal = orig })

	tests := []struct {
		mode     config.UIMode
		tty      bool
		wantLive bool
		warn     bool
	}{
		{config.UIAuto, true, true, false},
		{config.UIAuto, false, false, false},
		{config.UIOn, true, true, false},
		{config.UIOn, false, false, true},
		{config.UIOff, true, false, false},
	}
	for _, tt := range tests {
		isTerminal = func(io.Writer) bool { return tt.tty }
		got := resolveUIMode(tt.mode, io.Discard)
		if got.useLive != tt.wantLive || (got.warning != "") != tt.warn {
			t.Errorf("resolveUIMode(%s, tty=%v) = %+v", tt.mode, tt.tty, got)
		}
	}
}

func TestTerminalWidthOfNonTerminal(t *testing.T) {
	if w := terminalWidth(&bytes.Buffer{}); w != 0 {
		t.Errorf("expected 0 for a buffer, got %d", w)
	}
}
