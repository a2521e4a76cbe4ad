package textfile

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadLines_UTF8(t *testing.T) {
	path := writeTemp(t, []byte("¿Qué es esto?\nA) algo\n"))
	lines, latin1, err := ReadLines(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latin1 {
		t.Error("valid UTF-8 must not trigger the Latin-1 fallback")
	}
	if lines[0] != "¿Qué es esto?" {
		t.Errorf("unexpected first line %q", lines[0])
	}
}

func TestReadLines_Latin1Fallback(t *testing.T) {
	// "café" with a raw 0xE9 byte is invalid UTF-8.
	path := writeTemp(t, []byte{'c', 'a', 'f', 0xE9, '\n'})
	lines, latin1, err := ReadLines(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !latin1 {
		t.Error("expected Latin-1 fallback")
	}
	if lines[0] != "café" {
		t.Errorf("expected café, got %q", lines[0])
	}
}

func TestReadLines_StripsBOM(t *testing.T) {
	path := writeTemp(t, append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello\n")...))
	lines, _, err := ReadLines(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lines[0] != "hello" {
		t.Errorf("BOM not stripped, got %q", lines[0])
	}
}

func TestReadLines_CRLF(t *testing.T) {
	path := writeTemp(t, []byte("one\r\ntwo\r\n"))
	lines, _, err := ReadLines(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lines[0] != "one" || lines[1] != "two" {
		t.Errorf("CRLF not normalized: %q", lines)
	}
}

func TestReadLines_EmptyFile(t *testing.T) {
	path := writeTemp(t, nil)
	if _, _, err := ReadLines(path); err == nil {
		t.Fatal("expected error for empty file")
	}
}

func TestReadLines_MissingFile(t *testing.T) {
	if _, _, err := ReadLines(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
