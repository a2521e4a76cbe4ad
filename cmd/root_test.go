package cmd

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"aiken2qti/internal/aiken"
)

func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		outputPath = ""
		createSample = ""
		validateOnly = false
		verbose = false
		rootCmd.SetArgs(nil)
	})
}

func TestResolveOutputPath(t *testing.T) {
	tests := []struct {
		input, flag, want string
	}{
		{"questions.txt", "", "questions.zip"},
		{filepath.Join("some", "dir", "quiz.txt"), "", filepath.Join("some", "dir", "quiz.zip")},
		{"questions.txt", "custom.zip", "custom.zip"},
		{"questions.txt", "custom", "custom.zip"},
	}
	for _, tt := range tests {
		if got := resolveOutputPath(tt.input, tt.flag); got != tt.want {
			t.Errorf("resolveOutputPath(%q, %q) = %q, want %q", tt.input, tt.flag, got, tt.want)
		}
	}
}

func TestConvert_EndToEnd(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	input := filepath.Join(dir, "sample.txt")
	if err := aiken.WriteSample(input); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "quiz.zip")

	rootCmd.SetArgs([]string{input, "-o", out})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("conversion failed: %v", err)
	}

	zr, err := zip.OpenReader(out)
	if err != nil {
		t.Fatalf("output is not a readable zip: %v", err)
	}
	defer zr.Close()
	// Five sample questions plus the manifest.
	if len(zr.File) != 6 {
		t.Errorf("expected 6 archive entries, got %d", len(zr.File))
	}
}

func TestConvert_DefaultOutputNextToInput(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	input := filepath.Join(dir, "sample.txt")
	if err := aiken.WriteSample(input); err != nil {
		t.Fatal(err)
	}

	rootCmd.SetArgs([]string{input})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("conversion failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "sample.zip")); err != nil {
		t.Errorf("expected archive next to input: %v", err)
	}
}

func TestConvert_ParseErrorSurfaces(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	input := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(input, []byte("Pick one\nA) x\nC) y\nANSWER: A\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rootCmd.SetArgs([]string{input})
	err := rootCmd.Execute()
	var perr *aiken.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "bad.zip")); statErr == nil {
		t.Error("no archive may be written for invalid input")
	}
}

func TestValidateOnly_WritesNoArchive(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	input := filepath.Join(dir, "sample.txt")
	if err := aiken.WriteSample(input); err != nil {
		t.Fatal(err)
	}

	rootCmd.SetArgs([]string{input, "--validate-only"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("validation failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "sample.zip")); err == nil {
		t.Error("--validate-only must not write an archive")
	}
}

func TestCreateSample(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "example.txt")

	rootCmd.SetArgs([]string{"--create-sample", path})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("create-sample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != aiken.SampleContent {
		t.Error("sample file content mismatch")
	}
}
