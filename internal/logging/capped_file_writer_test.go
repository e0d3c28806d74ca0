package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestCappedFileWriterAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	w, err := newCappedFileWriter(path, 1024)
	if err != nil {
		t.Fatalf("newCappedFileWriter() error = %v", err)
	}
	defer w.Close()

	for _, line := range []string{"one\n", "two\n"} {
		if _, err := w.Write([]byte(line)); err != nil {
			t.Fatalf("Write(%q) error = %v", line, err)
		}
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "one\ntwo\n" {
		t.Fatalf("file = %q, want %q", got, "one\ntwo\n")
	}
}

func TestCappedFileWriterTruncatesAtCap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	w, err := newCappedFileWriter(path, 16)
	if err != nil {
		t.Fatalf("newCappedFileWriter() error = %v", err)
	}
	defer w.Close()

	if _, err := w.Write(bytes.Repeat([]byte("a"), 12)); err != nil {
		t.Fatalf("first Write error = %v", err)
	}
	// 12 + 8 > 16, so the file restarts before this write lands.
	if _, err := w.Write(bytes.Repeat([]byte("b"), 8)); err != nil {
		t.Fatalf("second Write error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "bbbbbbbb" {
		t.Fatalf("file = %q, want only the post-truncate write", got)
	}
}

func TestCappedFileWriterResumesExistingSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(path, []byte("old-old-old-"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	w, err := newCappedFileWriter(path, 16)
	if err != nil {
		t.Fatalf("newCappedFileWriter() error = %v", err)
	}
	defer w.Close()

	// Existing 12 bytes count toward the cap, so a 6-byte write must
	// truncate first even though the writer itself wrote nothing yet.
	if _, err := w.Write([]byte("fresh\n")); err != nil {
		t.Fatalf("Write error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "fresh\n" {
		t.Fatalf("file = %q, want %q", got, "fresh\n")
	}
}
