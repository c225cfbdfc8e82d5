package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureWritable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	if err := ensureWritable(dir); err != nil {
		t.Fatalf("ensureWritable() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".write-test")); !os.IsNotExist(err) {
		t.Errorf("write-test file left behind: %v", err)
	}
}

func TestRotatingFile(t *testing.T) {
	dir := t.TempDir()
	w := RotatingFile(dir)
	defer w.Close()

	if w.Filename != filepath.Join(dir, FileName) {
		t.Errorf("Filename = %q", w.Filename)
	}

	logger := New(os.Stderr, w)
	logger.Info().Str("simulation_id", "s1").Msg("normalized")

	data, err := os.ReadFile(w.Filename)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if len(data) == 0 {
		t.Error("log file is empty")
	}
}
