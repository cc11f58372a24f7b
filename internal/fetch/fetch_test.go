package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestResolveLocal(t *testing.T) {
	p := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(p, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}
	var f Fetcher
	for _, ref := range []string{p, "file://" + p} {
		src, err := f.Resolve(context.Background(), ref)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", ref, err)
		}
		if src.Path != p || src.Temporary {
			t.Errorf("Resolve(%q) = %+v", ref, src)
		}
		if err := src.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
		if _, err := os.Stat(p); err != nil {
			t.Errorf("Close removed a local source: %v", err)
		}
	}
}

func TestResolveLocalErrors(t *testing.T) {
	var f Fetcher
	if _, err := f.Resolve(context.Background(), filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("missing file accepted")
	}
	if _, err := f.Resolve(context.Background(), t.TempDir()); err == nil {
		t.Error("directory accepted")
	}
	if _, err := f.Resolve(context.Background(), "s3://bucket-only"); err == nil || !strings.Contains(err.Error(), "invalid s3 url") {
		t.Errorf("bad s3 url: %v", err)
	}
}

func TestResolveHTTP(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/docs/book.pdf" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("%PDF-1.7 body"))
	}))
	defer srv.Close()

	f := Fetcher{HTTP: srv.Client()}
	src, err := f.Resolve(context.Background(), srv.URL+"/docs/book.pdf?x=1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !src.Temporary || filepath.Ext(src.Path) != ".pdf" {
		t.Errorf("source = %+v", src)
	}
	data, err := os.ReadFile(src.Path)
	if err != nil || string(data) != "%PDF-1.7 body" {
		t.Errorf("downloaded %q, %v", data, err)
	}
	if err := src.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(src.Path); !os.IsNotExist(err) {
		t.Errorf("temp file not removed: %v", err)
	}

	if _, err := f.Resolve(context.Background(), srv.URL+"/nope"); err == nil || !strings.Contains(err.Error(), "http 404") {
		t.Errorf("404: %v", err)
	}
}

func TestCleanupTemps(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TMPDIR", dir)
	old := filepath.Join(dir, tempPrefix+"old.pdf")
	fresh := filepath.Join(dir, tempPrefix+"fresh.pdf")
	other := filepath.Join(dir, "unrelated.pdf")
	for _, p := range []string{old, fresh, other} {
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-2 * time.Hour)
	for _, p := range []string{old, other} {
		if err := os.Chtimes(p, past, past); err != nil {
			t.Fatal(err)
		}
	}

	CleanupTemps(time.Hour)

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Errorf("old download kept: %v", err)
	}
	for _, p := range []string{fresh, other} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s removed: %v", filepath.Base(p), err)
		}
	}
}

func TestExtOf(t *testing.T) {
	testCases := map[string]string{
		"https://x/doc.pdf":        ".pdf",
		"https://x/doc.docx?sig=1": ".docx",
		"key/without/extension":    "",
		"https://x/a.b/c":          "",
	}
	for in, want := range testCases {
		if got := extOf(in); got != want {
			t.Errorf("extOf(%q) = %q, want %q", in, got, want)
		}
	}
}
