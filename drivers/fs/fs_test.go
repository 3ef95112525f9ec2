package fs_test

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/birkland/entrypoints/drivers/fs"
)

// Sample search path, mirroring a host with two site directories and an egg
var samplePath = []string{
	filepath.Join("testdata", "packages1"),
	filepath.Join("testdata", "packages1", "baz-0.3.egg"),
	filepath.Join("testdata", "packages2"),
}

func quietDriver(cfg fs.Config) *fs.Driver {
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return fs.NewDriver(cfg)
}

func loggingDriver(cfg fs.Config) (*fs.Driver, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return fs.NewDriver(cfg), &buf
}

// Write a file, creating its parent directories
func write(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// Create a metadata directory with the given entry_points.txt content in dir
func distInfo(t *testing.T, dir, name, declarations string) string {
	t.Helper()
	return filepath.Dir(write(t, filepath.Join(dir, name, "entry_points.txt"), declarations))
}
