package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func testFS(t *testing.T) (string, *FS) {
	t.Helper()
	dir := t.TempDir()
	f, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return dir, f
}

func write(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewFS_MissingDir(t *testing.T) {
	if _, err := NewFS(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestList(t *testing.T) {
	dir, f := testFS(t)
	write(t, dir, "a.md", "# A")
	write(t, dir, "sub/b.markdown", "# B")
	write(t, dir, "ignored.txt", "not markdown")
	write(t, dir, "also-ignored.png", "binary")

	metas, err := f.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("len(metas) = %d, want 2: %+v", len(metas), metas)
	}
	byPath := make(map[string]FileMeta)
	for _, m := range metas {
		byPath[m.Path] = m
	}
	if _, ok := byPath["a.md"]; !ok {
		t.Errorf("missing a.md: %+v", metas)
	}
	if _, ok := byPath[filepath.Join("sub", "b.markdown")]; !ok {
		t.Errorf("missing sub/b.markdown: %+v", metas)
	}
	if byPath["a.md"].Checksum == "" {
		t.Error("expected checksum")
	}
}

func TestList_ChecksumTracksContent(t *testing.T) {
	dir, f := testFS(t)
	write(t, dir, "n.md", "v1")
	m1, _ := f.List()

	write(t, dir, "n.md", "v2")
	m2, _ := f.List()

	if m1[0].Checksum == m2[0].Checksum {
		t.Error("checksum should change with content")
	}
}

func TestRead(t *testing.T) {
	dir, f := testFS(t)
	write(t, dir, "sub/note.md", "content here")

	data, err := f.Read(filepath.Join("sub", "note.md"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "content here" {
		t.Errorf("data = %q", data)
	}
}

func TestRead_TraversalRejected(t *testing.T) {
	_, f := testFS(t)
	if _, err := f.Read("../outside.md"); err == nil {
		t.Error("expected traversal to be rejected")
	}
	if _, err := f.Read("/etc/passwd"); err == nil {
		t.Error("expected absolute path to be rejected")
	}
}
