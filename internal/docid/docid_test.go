package docid

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromPath_Stable(t *testing.T) {
	a := FromPath("/docs/report.pdf")
	b := FromPath("/docs/report.pdf")
	if a != b {
		t.Errorf("same path should yield same ID: %s != %s", a, b)
	}
	if len(a) != 16 {
		t.Errorf("expected 16 hex chars, got %d", len(a))
	}
}

func TestFromPath_CleansPath(t *testing.T) {
	if FromPath("/docs/../docs/report.pdf") != FromPath("/docs/report.pdf") {
		t.Error("equivalent paths should yield the same ID")
	}
}

func TestFromPath_RelativeAndAbsoluteAgree(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	rel := filepath.Join("docs", "report.pdf")
	abs := filepath.Join(cwd, rel)
	if FromPath(rel) != FromPath(abs) {
		t.Error("relative and absolute spellings of the same file should yield the same ID")
	}
}

func TestFromPath_DistinctPaths(t *testing.T) {
	if FromPath("/docs/a.txt") == FromPath("/docs/b.txt") {
		t.Error("different paths should yield different IDs")
	}
}
