// Package config resolves chex defaults from the environment. There is no
// config file; command-line flags override everything here.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/aezell/chex/internal/source"
)

const (
	defaultCargo = "cargo"
	defaultUI    = UIAuto
)

// UIMode selects between the interactive view and the plain report.
type UIMode string

const (
	UIAuto UIMode = "auto"
	UIOn   UIMode = "on"
	UIOff  UIMode = "off"
)

// ParseUIMode validates a UI mode name. The empty string means UIAuto.
func ParseUIMode(value string) (UIMode, error) {
	switch UIMode(strings.TrimSpace(strings.ToLower(value))) {
	case "", UIAuto:
		return UIAuto, nil
	case UIOn:
		return UIOn, nil
	case UIOff:
		return UIOff, nil
	default:
		return "", fmt.Errorf("invalid ui mode %q (expected auto|on|off)", value)
	}
}

// Config controls how chex acquires and shows diagnostics.
type Config struct {
	Cargo   string
	Dir     string
	Mode    source.Mode
	UI      UIMode
	NoColor bool
}

func Default() Config {
	return Config{
		Cargo: defaultCargo,
		Mode:  source.ModeJSON,
		UI:    defaultUI,
	}
}

// FromEnv applies CHEX_* variables and NO_COLOR on top of Default.
func FromEnv() (Config, error) {
	cfg := Default()
	cfg.Cargo = getEnv("CHEX_CARGO", cfg.Cargo)
	cfg.Dir = strings.TrimSpace(os.Getenv("CHEX_DIR"))

	if v := strings.TrimSpace(os.Getenv("CHEX_MODE")); v != "" {
		mode, err := source.ParseMode(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse CHEX_MODE: %w", err)
		}
		cfg.Mode = mode
	}
	if v := strings.TrimSpace(os.Getenv("CHEX_UI")); v != "" {
		ui, err := ParseUIMode(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse CHEX_UI: %w", err)
		}
		cfg.UI = ui
	}
	// https://no-color.org: any non-empty value disables color.
	if os.Getenv("NO_COLOR") != "" {
		cfg.NoColor = true
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
