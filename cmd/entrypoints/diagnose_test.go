package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/birkland/entrypoints"
	"github.com/birkland/entrypoints/drivers/fs"
	"github.com/go-test/deep"
)

func mkdist(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, name), 0755); err != nil {
		t.Fatal(err)
	}
}

func TestScanEntries(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	mkdist(t, first, "pkgA-1.0.dist-info")
	mkdist(t, first, "pkgB-1.0.dist-info")
	mkdist(t, second, "pkgA-2.0.dist-info")
	mkdist(t, second, "pkgC-0.1.egg-info")

	d := fs.NewDriver(fs.Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	dirs, err := scanEntries(d, []string{first, filepath.Join(first, "missing"), second})
	if err != nil {
		t.Fatal(err)
	}

	var dists []entrypoints.Distribution
	for _, md := range dirs {
		dists = append(dists, md.Dist)
	}

	expected := []entrypoints.Distribution{
		{Name: "pkgA", Version: "1.0"},
		{Name: "pkgB", Version: "1.0"},
		{Name: "pkgA", Version: "2.0"},
		{Name: "pkgC", Version: "0.1"},
	}
	if diffs := deep.Equal(expected, dists); diffs != nil {
		t.Error(diffs)
	}

	conflicts := findConflicts(dirs)
	if len(conflicts) != 1 {
		t.Fatalf("expected a single conflict, got %v", conflicts)
	}
	if conflicts[0][0].Dist.Version != "1.0" || conflicts[0][1].Dist.Version != "2.0" {
		t.Errorf("conflicting copies out of search path order: %v", conflicts[0])
	}
}

func TestFindConflictsNone(t *testing.T) {
	dirs := []fs.MetadataDir{
		{Dist: entrypoints.Distribution{Name: "a", Version: "1"}},
		{Dist: entrypoints.Distribution{Name: "b", Version: "1"}},
	}

	if conflicts := findConflicts(dirs); len(conflicts) != 0 {
		t.Errorf("expected no conflicts, got %v", conflicts)
	}
}
