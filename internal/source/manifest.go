package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const manifestName = "Cargo.toml"

// Manifest is the part of a Cargo.toml chex shows to the user.
type Manifest struct {
	Path    string          `toml:"-"`
	Root    string          `toml:"-"`
	Package manifestPackage `toml:"package"`
}

type manifestPackage struct {
	Name string `toml:"name"`
	// Version is a string, or a table when inherited from the workspace.
	Version any `toml:"version"`
}

func (p manifestPackage) version() string {
	v, _ := p.Version.(string)
	return v
}

// Title returns "name vX.Y.Z", or the root directory name for workspace
// manifests without a [package] table.
func (m *Manifest) Title() string {
	switch {
	case m == nil:
		return ""
	case m.Package.Name != "" && m.Package.version() != "":
		return fmt.Sprintf("%s v%s", m.Package.Name, m.Package.version())
	case m.Package.Name != "":
		return m.Package.Name
	default:
		return filepath.Base(m.Root)
	}
}

// FindManifest walks up from startDir looking for Cargo.toml.
func FindManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest finds and decodes the Cargo.toml governing startDir. It
// returns nil without error when there is none.
func LoadManifest(startDir string) (*Manifest, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, err
	}
	m := &Manifest{Path: path, Root: filepath.Dir(path)}
	if _, err := toml.DecodeFile(path, m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return m, nil
}
