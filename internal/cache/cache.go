// Package cache keeps the diagnostics of the last cargo check per crate so
// they can be browsed again without rebuilding.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aezell/chex/internal/model"
)

// Current schema version; bump when Entry changes shape.
const schemaVersion uint16 = 1

// Store is an on-disk cache of check results keyed by crate root.
// Safe for concurrent use.
type Store struct {
	mu  sync.RWMutex
	dir string
}

// Entry is one cached check result.
type Entry struct {
	Schema  uint16
	Root    string
	Title   string
	Mode    string
	Created int64 // unix seconds
	Records []Record
}

// Record is the cached form of a model.Record.
type Record struct {
	Level   uint8
	Code    string
	Message string
	Lines   []string
	File    string
	Line    int
	Column  int
}

// Open returns the store under $XDG_CACHE_HOME/<app>, falling back to
// ~/.cache/<app>. Nothing is created until the first Put.
func Open(app string) (*Store, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return &Store{dir: filepath.Join(base, app)}, nil
}

// NewEntry snapshots a collection.
func NewEntry(root, title, mode string, c *model.Collection, now time.Time) (*Entry, error) {
	e := &Entry{
		Schema:  schemaVersion,
		Root:    root,
		Title:   title,
		Mode:    mode,
		Created: now.Unix(),
		Records: make([]Record, 0, c.Len()),
	}
	for _, r := range c.All() {
		level, err := safecast.Conv[uint8](int(r.Level()))
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", r.Level(), err)
		}
		loc := r.Location()
		e.Records = append(e.Records, Record{
			Level:   level,
			Code:    r.Code(),
			Message: r.Message(),
			Lines:   r.Lines(),
			File:    loc.File,
			Line:    loc.Line,
			Column:  loc.Column,
		})
	}
	return e, nil
}

// Collection rebuilds the cached records in their original order.
func (e *Entry) Collection() *model.Collection {
	records := make([]model.Record, 0, len(e.Records))
	for _, r := range e.Records {
		opts := []model.RecordOption{model.WithCode(r.Code), model.WithMessage(r.Message)}
		if r.File != "" {
			opts = append(opts, model.WithLocation(model.Location{File: r.File, Line: r.Line, Column: r.Column}))
		}
		records = append(records, model.NewRecord(model.Level(r.Level), r.Lines, opts...))
	}
	return model.NewCollection(records)
}

// CreatedAt returns when the entry was taken.
func (e *Entry) CreatedAt() time.Time {
	return time.Unix(e.Created, 0)
}

func (s *Store) pathFor(root string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(root)))
	return filepath.Join(s.dir, "runs", hex.EncodeToString(sum[:])+".mp")
}

// Put writes the entry for its crate root, replacing any previous one.
func (s *Store) Put(e *Entry) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.pathFor(e.Root)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(e); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Atomic replace
	return os.Rename(f.Name(), p)
}

// Get reads the entry for a crate root. A missing entry, or one written by
// an older schema, reports false.
func (s *Store) Get(root string) (*Entry, bool, error) {
	if s == nil {
		return nil, false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(s.pathFor(root))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var e Entry
	if err := msgpack.NewDecoder(f).Decode(&e); err != nil {
		return nil, false, fmt.Errorf("decode cache entry: %w", err)
	}
	if e.Schema != schemaVersion {
		return nil, false, nil
	}
	return &e, true, nil
}
