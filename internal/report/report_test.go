package report

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/aezell/chex/internal/model"
)

func testCollection() *model.Collection {
	return model.NewCollection([]model.Record{
		model.NewRecord(model.LevelError, []string{
			"error[E0308]: mismatched types",
			"  --> src/main.rs:4:18",
			"   |",
			`4  |     let x: i32 = "five";`,
			"   |            ---   ^^^^^^ expected `i32`, found `&str`",
		},
			model.WithCode("E0308"),
			model.WithMessage("mismatched types"),
			model.WithLocation(model.Location{File: "src/main.rs", Line: 4, Column: 18}),
		),
		model.NewRecord(model.LevelWarning, []string{
			"warning: unused variable: `y` | maybe",
		},
			model.WithCode("unused_variables"),
			model.WithMessage("unused variable: `y` | maybe"),
		),
	})
}

func TestWriteTextPlain(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testCollection(), Options{NoColor: true}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	want := strings.Join([]string{
		"error[E0308]: mismatched types",
		"      --> src/main.rs:4:18",
		"       |",
		`    4  |     let x: i32 = "five";`,
		"       |            ---   ^^^^^^ expected `i32`, found `&str`",
		"",
		"warning: unused variable: `y` | maybe",
		"",
		"1 error, 1 warning",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("unexpected report:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteTextColor(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testCollection(), Options{}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "\x1b[31;1m") {
		t.Errorf("expected bold red error summary, got %q", out)
	}
	if !strings.Contains(out, "\x1b[33;1m") {
		t.Errorf("expected bold yellow warning summary, got %q", out)
	}

	var plain bytes.Buffer
	_ = Write(&plain, testCollection(), Options{NoColor: true})
	if ansi.Strip(out) != plain.String() {
		t.Error("colored report differs from plain report once stripped")
	}
}

func TestWriteTextTruncates(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testCollection(), Options{NoColor: true, Width: 12}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	if first != "error[E0308…" {
		t.Errorf("unexpected truncated summary %q", first)
	}
	// Details are never truncated.
	if !strings.Contains(buf.String(), "found `&str`") {
		t.Error("expected details untouched")
	}
}

func TestWriteTextHighlightKeepsText(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{NoColor: true, Highlight: true}
	if err := Write(&buf, testCollection(), opts); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	var plain bytes.Buffer
	_ = Write(&plain, testCollection(), Options{NoColor: true})
	if ansi.Strip(buf.String()) != plain.String() {
		t.Errorf("highlighting changed the text:\n%s", buf.String())
	}
}

func TestWriteTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, model.NewCollection(nil), Options{NoColor: true}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testCollection(), Options{Format: FormatJSON}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var doc Document
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if doc.Total != 2 || doc.Errors != 1 || doc.Warnings != 1 || doc.Other != 0 {
		t.Errorf("unexpected counts %+v", doc)
	}
	first := doc.Diagnostics[0]
	if first.Level != "error" || first.Code != "E0308" || first.Message != "mismatched types" {
		t.Errorf("unexpected first diagnostic %+v", first)
	}
	if first.Location == nil || first.Location.File != "src/main.rs" || first.Location.Line != 4 {
		t.Errorf("unexpected location %+v", first.Location)
	}
	if len(first.Details) != 4 {
		t.Errorf("expected 4 detail lines, got %d", len(first.Details))
	}

	second := doc.Diagnostics[1]
	if second.Location != nil {
		t.Error("expected no location for the second diagnostic")
	}
	if second.Details == nil {
		t.Error("expected empty details to encode as an array")
	}
}

func TestWriteEmptyPrintsNothing(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatMarkdown, FormatHTML} {
		var buf bytes.Buffer
		if err := Write(&buf, model.NewCollection(nil), Options{Format: f, Title: "demo"}); err != nil {
			t.Fatalf("%s: Write failed: %v", f, err)
		}
		if buf.Len() != 0 {
			t.Errorf("%s: expected no output, got %q", f, buf.String())
		}
	}

	if err := Write(io.Discard, model.NewCollection(nil), Options{Format: "yaml"}); err == nil {
		t.Error("expected unknown format to fail even when empty")
	}
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testCollection(), Options{Format: FormatMarkdown, Title: "demo v0.1.0"}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"## Diagnostics: demo v0.1.0",
		"**1 error, 1 warning**",
		"| Level | Code | Location | Message |",
		"| error | `E0308` | `src/main.rs:4:18` | mismatched types |",
		"| warning | `unused_variables` |  | unused variable: `y` \\| maybe |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testCollection(), Options{Format: FormatHTML}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := buf.String()
	if strings.Count(out, "<details>") != 2 {
		t.Errorf("expected one <details> per record:\n%s", out)
	}
	if !strings.Contains(out, `&#34;five&#34;`) {
		t.Error("expected detail lines to be escaped")
	}
	if !strings.Contains(out, `<summary class="error">error[E0308]: mismatched types</summary>`) {
		t.Error("expected error summary")
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "TEXT": FormatText, "json": FormatJSON, "md": FormatMarkdown, "html": FormatHTML} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
	if err := Write(&bytes.Buffer{}, testCollection(), Options{Format: "yaml"}); err == nil {
		t.Error("expected Write to reject unknown format")
	}
}
