package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/labelforge/labelforge/pkg/workbook"
)

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, log.FatalLevel)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	return root.Execute()
}

func TestGenerateCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "codes.xlsx")

	err := runCommand(t, "generate",
		"-o", out, "--start", "253310001", "-n", "3", "--no-cache")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	numbers, err := workbook.Read(out)
	if err != nil {
		t.Fatalf("read workbook: %v", err)
	}
	if len(numbers) != 3 {
		t.Errorf("got %d numbers, want 3", len(numbers))
	}
	if numbers[0] != 253310001 {
		t.Errorf("first number = %d", numbers[0])
	}
}

func TestGenerateCommandRefusesOverwrite(t *testing.T) {
	out := filepath.Join(t.TempDir(), "codes.xlsx")
	if err := os.WriteFile(out, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := runCommand(t, "generate", "-o", out, "-n", "1", "--no-cache")
	if err == nil {
		t.Fatal("expected error for existing file")
	}
}

func TestGenerateCommandValidation(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"bad extension", []string{"generate", "-o", filepath.Join(dir, "codes.txt"), "-n", "1"}},
		{"zero count", []string{"generate", "-o", filepath.Join(dir, "codes.xlsx"), "-n", "0"}},
		{"negative start", []string{"generate", "-o", filepath.Join(dir, "codes.xlsx"), "--start", "-5", "-n", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runCommand(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestAppendCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "codes.xlsx")

	if err := runCommand(t, "generate",
		"-o", out, "--start", "253310001", "-n", "2", "--no-cache"); err != nil {
		t.Fatalf("generate: %v", err)
	}

	// Without --start the append continues after the last code.
	if err := runCommand(t, "append", out, "-n", "2", "--no-cache"); err != nil {
		t.Fatalf("append: %v", err)
	}

	numbers, err := workbook.Read(out)
	if err != nil {
		t.Fatalf("read workbook: %v", err)
	}
	if len(numbers) != 4 {
		t.Fatalf("got %d numbers, want 4", len(numbers))
	}
	if numbers[3] != 253310004 {
		t.Errorf("last number = %d, want 253310004", numbers[3])
	}
}

func TestAppendCommandMissingFile(t *testing.T) {
	err := runCommand(t, "append", filepath.Join(t.TempDir(), "ghost.xlsx"), "-n", "1")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestPDFCommand(t *testing.T) {
	dir := t.TempDir()
	xlsx := filepath.Join(dir, "codes.xlsx")
	pdf := filepath.Join(dir, "sheet.pdf")

	if err := runCommand(t, "generate",
		"-o", xlsx, "--start", "253310001", "-n", "5", "--no-cache"); err != nil {
		t.Fatalf("generate: %v", err)
	}

	if err := runCommand(t, "pdf", xlsx, "-o", pdf, "--no-cache"); err != nil {
		t.Fatalf("pdf: %v", err)
	}

	data, err := os.ReadFile(pdf)
	if err != nil {
		t.Fatalf("pdf not written: %v", err)
	}
	if len(data) < 4 || string(data[:4]) != "%PDF" {
		t.Error("output is not a PDF")
	}
}

func TestPDFCommandDerivesOutputName(t *testing.T) {
	dir := t.TempDir()
	xlsx := filepath.Join(dir, "codes.xlsx")

	if err := runCommand(t, "generate",
		"-o", xlsx, "--start", "253310001", "-n", "1", "--no-cache"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := runCommand(t, "pdf", xlsx, "--no-cache"); err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "codes.pdf")); err != nil {
		t.Errorf("derived pdf missing: %v", err)
	}
}

func TestPDFCommandBadGeometry(t *testing.T) {
	dir := t.TempDir()
	xlsx := filepath.Join(dir, "codes.xlsx")

	if err := runCommand(t, "generate",
		"-o", xlsx, "--start", "253310001", "-n", "1", "--no-cache"); err != nil {
		t.Fatalf("generate: %v", err)
	}

	err := runCommand(t, "pdf", xlsx, "--cols", "0", "--no-cache")
	if err == nil {
		t.Fatal("expected geometry error")
	}
}
