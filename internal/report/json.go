package report

import (
	"encoding/json"
	"io"

	"github.com/aezell/chex/internal/model"
)

// Document is the JSON form of a collection.
type Document struct {
	Total       int          `json:"total"`
	Errors      int          `json:"errors"`
	Warnings    int          `json:"warnings"`
	Other       int          `json:"other"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Diagnostic is the JSON form of one record.
type Diagnostic struct {
	Level    string    `json:"level"`
	Code     string    `json:"code,omitempty"`
	Message  string    `json:"message"`
	Summary  string    `json:"summary"`
	Details  []string  `json:"details"`
	Location *Location `json:"location,omitempty"`
}

// Location is the JSON form of a source position.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// NewDocument converts a collection, keeping its order.
func NewDocument(c *model.Collection) Document {
	counts := c.Counts()
	doc := Document{
		Total:       c.Len(),
		Errors:      counts.Errors,
		Warnings:    counts.Warnings,
		Other:       counts.Other,
		Diagnostics: make([]Diagnostic, 0, c.Len()),
	}
	for _, r := range c.All() {
		d := Diagnostic{
			Level:   r.Level().String(),
			Code:    r.Code(),
			Message: r.Message(),
			Summary: r.Summary(),
			Details: r.Details(),
		}
		if d.Details == nil {
			d.Details = []string{}
		}
		if loc := r.Location(); !loc.IsZero() {
			d.Location = &Location{File: loc.File, Line: loc.Line, Column: loc.Column}
		}
		doc.Diagnostics = append(doc.Diagnostics, d)
	}
	return doc
}

func writeJSON(w io.Writer, c *model.Collection) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(c))
}
