package filetype

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/local/booklet/internal/imposition"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func writeZip(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("content.txt")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDetect(t *testing.T) {
	testCases := []struct {
		name string
		path string
		kind Kind
		mime string
	}{
		{
			name: "pdf",
			path: writeFile(t, "doc.bin", []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")),
			kind: PDF,
			mime: "application/pdf",
		},
		{
			name: "zip_as_docx",
			path: writeZip(t, "report.docx"),
			kind: Office,
			mime: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
		{
			name: "plain_zip",
			path: writeZip(t, "bundle.zip"),
			kind: Unsupported,
			mime: "application/zip",
		},
		{
			name: "text",
			path: writeFile(t, "notes.pdf", []byte("just some notes, not a pdf\n")),
			kind: Unsupported,
		},
	}

	d := New()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			info, err := d.Detect(tc.path)
			if err != nil {
				t.Fatalf("Detect: %v", err)
			}
			if info.Kind != tc.kind {
				t.Errorf("kind = %s, want %s (mime %s)", info.Kind, tc.kind, info.MIMEType)
			}
			if tc.mime != "" && info.MIMEType != tc.mime {
				t.Errorf("mime = %s, want %s", info.MIMEType, tc.mime)
			}
		})
	}
}

func TestRequire(t *testing.T) {
	d := New()
	if _, err := d.Require(writeFile(t, "a.txt", []byte("hello\n"))); !errors.Is(err, imposition.ErrInput) {
		t.Errorf("text file: got %v, want input error", err)
	}
	info, err := d.Require(writeFile(t, "a.pdf", []byte("%PDF-1.7\n")))
	if err != nil || info.Kind != PDF {
		t.Errorf("pdf: got %+v, %v", info, err)
	}
	if _, err := d.Require(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("missing file accepted")
	}
}
