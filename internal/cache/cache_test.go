package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aezell/chex/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	s, err := Open("chex")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s
}

func testCollection() *model.Collection {
	return model.NewCollection([]model.Record{
		model.NewRecord(model.LevelWarning, []string{"warning: unused import", " --> src/lib.rs:1:5"},
			model.WithCode("unused_imports"),
			model.WithMessage("unused import"),
			model.WithLocation(model.Location{File: "src/lib.rs", Line: 1, Column: 5}),
		),
		model.NewRecord(model.LevelError, []string{"error[E0425]: cannot find value `x`"},
			model.WithCode("E0425"),
		),
		model.NewRecord(model.LevelICE, []string{"error: internal compiler error: boom", "note: backtrace"}),
	})
}

func TestPutGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	now := time.Unix(1_700_000_000, 0)

	e, err := NewEntry("/work/demo", "demo v0.1.0", "json", testCollection(), now)
	if err != nil {
		t.Fatalf("NewEntry failed: %v", err)
	}
	if err := s.Put(e); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok, err := s.Get("/work/demo/")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if got.Title != "demo v0.1.0" || got.Mode != "json" || !got.CreatedAt().Equal(now) {
		t.Errorf("unexpected entry %+v", got)
	}

	want := testCollection()
	c := got.Collection()
	if c.Len() != want.Len() {
		t.Fatalf("expected %d records, got %d", want.Len(), c.Len())
	}
	for i := 0; i < c.Len(); i++ {
		a, b := c.At(i), want.At(i)
		if a.Level() != b.Level() || a.Summary() != b.Summary() || a.Code() != b.Code() ||
			a.Message() != b.Message() || a.Location() != b.Location() || a.DetailCount() != b.DetailCount() {
			t.Errorf("record %d differs: got %+v, want %+v", i, a, b)
		}
	}
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)
	if _, ok, err := s.Get("/nowhere"); ok || err != nil {
		t.Errorf("expected miss, got %v, %v", ok, err)
	}
}

func TestReadsDoNotCreateDirectories(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)
	s, err := Open("chex")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, ok, err := s.Get("/work/demo"); ok || err != nil {
		t.Fatalf("expected miss, got %v, %v", ok, err)
	}
	if _, err := os.Stat(filepath.Join(base, "chex")); !os.IsNotExist(err) {
		t.Errorf("expected no cache directory before Put, stat returned %v", err)
	}
}

func TestPutReplaces(t *testing.T) {
	s := openTestStore(t)
	first, _ := NewEntry("/work/demo", "demo", "json", testCollection(), time.Now())
	second, _ := NewEntry("/work/demo", "demo", "text", model.NewCollection(nil), time.Now())
	if err := s.Put(first); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(second); err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.Get("/work/demo")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if got.Mode != "text" || len(got.Records) != 0 {
		t.Errorf("expected the second entry, got %+v", got)
	}

	// No temp files are left behind.
	matches, _ := filepath.Glob(filepath.Join(s.dir, "runs", "tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files %v", matches)
	}
}

func TestGetIgnoresOtherSchema(t *testing.T) {
	s := openTestStore(t)
	e, _ := NewEntry("/work/demo", "demo", "json", testCollection(), time.Now())
	e.Schema = schemaVersion + 1
	if err := s.Put(e); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := s.Get("/work/demo"); ok || err != nil {
		t.Errorf("expected stale schema to miss, got %v, %v", ok, err)
	}
}

func TestGetCorrupt(t *testing.T) {
	s := openTestStore(t)
	p := s.pathFor("/work/demo")
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte{0xc1, 0xff}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Get("/work/demo"); err == nil {
		t.Error("expected decode error")
	}
}

func TestNilStore(t *testing.T) {
	var s *Store
	if err := s.Put(&Entry{}); err != nil {
		t.Errorf("nil Put: %v", err)
	}
	if _, ok, err := s.Get("/x"); ok || err != nil {
		t.Errorf("nil Get: %v, %v", ok, err)
	}
}
