package archive

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
)

func seedTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"course-a/details.json":              "{\n  \"id\": \"a\"\n}\n",
		"course-a/lessons/01-l/item-i1.html": "<p>one</p>",
		"course-b/details.json":              "{\n  \"id\": \"b\"\n}\n",
	}
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestCreateExtractRoundTrip(t *testing.T) {
	root := seedTree(t)

	var buf bytes.Buffer
	n, err := Create(root, &buf)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if n != 3 {
		t.Fatalf("archived %d files, want 3", n)
	}

	target := t.TempDir()
	manifest, err := Extract(&buf, target)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if manifest == nil || manifest.FileCount != 3 {
		t.Fatalf("manifest = %+v", manifest)
	}
	if manifest.Root != filepath.Base(root) {
		t.Errorf("manifest root = %q", manifest.Root)
	}

	body, err := os.ReadFile(filepath.Join(target, "course-a", "lessons", "01-l", "item-i1.html"))
	if err != nil {
		t.Fatalf("extracted file missing: %v", err)
	}
	if string(body) != "<p>one</p>" {
		t.Errorf("body = %q", body)
	}
	// The manifest entry stays out of the extracted tree.
	if _, err := os.Stat(filepath.Join(target, manifestName)); !os.IsNotExist(err) {
		t.Error("manifest entry must not be written to disk")
	}
}

func TestCreateEmptyTreeFails(t *testing.T) {
	var buf bytes.Buffer
	if _, err := Create(t.TempDir(), &buf); err == nil {
		t.Fatal("expected an error for an empty tree")
	}
}

func TestExtractRejectsEscapingPaths(t *testing.T) {
	// An archive whose only entry points outside the target directory.
	var buf bytes.Buffer
	bw := brotli.NewWriter(&buf)
	tw := tar.NewWriter(bw)
	if err := writeEntry(tw, "../escape.html", []byte("x"), time.Now()); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := bw.Close(); err != nil {
		t.Fatal(err)
	}

	target := t.TempDir()
	if _, err := Extract(&buf, target); err == nil {
		t.Fatal("expected traversal entry to be rejected")
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(target), "escape.html")); !os.IsNotExist(err) {
		t.Error("traversal entry was written outside the target")
	}
}
