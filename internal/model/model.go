// Package model defines the diagnostic types shared across chex.
package model

import (
	"fmt"
	"strings"
)

// Level is the severity a compiler attached to a diagnostic.
type Level int

const (
	LevelUnknown Level = iota
	LevelError
	LevelWarning
	LevelNote
	LevelHelp
	LevelICE
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelNote:
		return "note"
	case LevelHelp:
		return "help"
	case LevelICE:
		return "ice"
	default:
		return "unknown"
	}
}

// ParseLevel maps a compiler level string to a Level. Unrecognized strings
// map to LevelUnknown.
func ParseLevel(s string) Level {
	switch strings.TrimSpace(s) {
	case "error":
		return LevelError
	case "warning":
		return LevelWarning
	case "note":
		return LevelNote
	case "help":
		return LevelHelp
	case "error: internal compiler error", "ice":
		return LevelICE
	default:
		return LevelUnknown
	}
}

// DisplayCategory is the color class a level is shown with.
type DisplayCategory int

const (
	CategoryNeutral DisplayCategory = iota
	CategoryError
	CategoryWarning
)

// Category maps a level to its display class.
func Category(l Level) DisplayCategory {
	switch l {
	case LevelError, LevelICE:
		return CategoryError
	case LevelWarning:
		return CategoryWarning
	default:
		return CategoryNeutral
	}
}

// Location is the primary source position of a diagnostic.
type Location struct {
	File   string
	Line   int
	Column int
}

// IsZero reports whether the location is unset.
func (l Location) IsZero() bool {
	return l.File == ""
}

func (l Location) String() string {
	switch {
	case l.File == "":
		return ""
	case l.Line > 0 && l.Column > 0:
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	case l.Line > 0:
		return fmt.Sprintf("%s:%d", l.File, l.Line)
	default:
		return l.File
	}
}

// Record is a single diagnostic. It is immutable once built.
type Record struct {
	level    Level
	summary  string
	details  []string
	code     string
	message  string
	location Location
}

// RecordOption sets an optional field on a Record at construction.
type RecordOption func(*Record)

// WithCode sets the diagnostic code, e.g. "E0308" or a lint name.
func WithCode(code string) RecordOption {
	return func(r *Record) { r.code = strings.TrimSpace(code) }
}

// WithMessage sets the bare message text without the level prefix.
func WithMessage(msg string) RecordOption {
	return func(r *Record) { r.message = msg }
}

// WithLocation sets the primary location.
func WithLocation(loc Location) RecordOption {
	return func(r *Record) { r.location = loc }
}

// NewRecord builds a record from its rendered lines. The first line becomes
// the summary, the rest the details.
func NewRecord(level Level, lines []string, opts ...RecordOption) Record {
	r := Record{level: level}
	if len(lines) > 0 {
		r.summary = lines[0]
		r.details = append([]string(nil), lines[1:]...)
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Level returns the diagnostic level.
func (r Record) Level() Level { return r.level }

// Summary returns the headline, the first rendered line.
func (r Record) Summary() string { return r.summary }

// Code returns the diagnostic code, or "" when the source supplied none.
func (r Record) Code() string { return r.code }

func (r Record) HasCode() bool { return r.code != "" }

func (r Record) Location() Location { return r.location }

func (r Record) DetailCount() int { return len(r.details) }

func (r Record) Category() DisplayCategory { return Category(r.level) }

// Message returns the bare message, falling back to the summary.
func (r Record) Message() string {
	if r.message != "" {
		return r.message
	}
	return r.summary
}

// Details returns a copy of the lines after the summary.
func (r Record) Details() []string {
	return append([]string(nil), r.details...)
}

// Lines returns the summary followed by the details.
func (r Record) Lines() []string {
	lines := make([]string, 0, len(r.details)+1)
	lines = append(lines, r.summary)
	return append(lines, r.details...)
}

// Counts tallies records by level.
type Counts struct {
	Errors   int
	Warnings int
	Other    int
}

func (c Counts) String() string {
	var parts []string
	if c.Errors > 0 {
		parts = append(parts, plural(c.Errors, "error"))
	}
	if c.Warnings > 0 {
		parts = append(parts, plural(c.Warnings, "warning"))
	}
	if c.Other > 0 {
		parts = append(parts, fmt.Sprintf("%d other", c.Other))
	}
	if len(parts) == 0 {
		return "no diagnostics"
	}
	return strings.Join(parts, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// Collection is an ordered, read-only list of records. Order is the order
// the records first appeared in the build output.
type Collection struct {
	records []Record
}

// NewCollection copies records into a new collection.
func NewCollection(records []Record) *Collection {
	return &Collection{records: append([]Record(nil), records...)}
}

// Len returns the number of records. A nil collection is empty.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// At returns the record at index i. It panics if i is out of range.
func (c *Collection) At(i int) Record {
	return c.records[i]
}

// All returns a copy of the records in order.
func (c *Collection) All() []Record {
	if c == nil {
		return nil
	}
	return append([]Record(nil), c.records...)
}

// Counts tallies the collection by display category.
func (c *Collection) Counts() Counts {
	var counts Counts
	for _, r := range c.All() {
		switch r.Category() {
		case CategoryError:
			counts.Errors++
		case CategoryWarning:
			counts.Warnings++
		default:
			counts.Other++
		}
	}
	return counts
}
