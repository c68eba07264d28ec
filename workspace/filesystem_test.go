package workspace

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFilesystemBackendWriteReadEdit(t *testing.T) {
	root := t.TempDir()
	b, err := NewFilesystemBackend(root, false)
	if err != nil {
		t.Fatalf("NewFilesystemBackend: %v", err)
	}

	wr := b.Write("/nested/file.txt", "Hello\nWorld")
	if wr.Error != "" {
		t.Fatalf("Write error: %s", wr.Error)
	}
	if wr.Lines != 2 {
		t.Fatalf("expected 2 lines, got %+v", wr)
	}

	got := b.Read("/nested/file.txt", 0, 2000)
	if got != "     1→Hello\n     2→World" {
		t.Fatalf("Read() = %q", got)
	}

	res := b.Edit("/nested/file.txt", "World", "Go", false)
	if !res.OK() || res.Occurrences != 1 {
		t.Fatalf("Edit() = %+v", res)
	}
	if got := b.Read("/nested/file.txt", 0, 2000); got != "     1→Hello\n     2→Go" {
		t.Fatalf("Read() after edit = %q", got)
	}
}

func TestFilesystemBackendVirtualRootCreated(t *testing.T) {
	root := filepath.Join(t.TempDir(), "does-not-exist-yet")
	b, err := NewFilesystemBackend(root, true)
	if err != nil {
		t.Fatalf("expected virtual root to be created, got: %v", err)
	}
	if b.Root != root {
		t.Fatalf("Root = %q, want %q", b.Root, root)
	}
}

func TestFilesystemBackendMissingRootRejected(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")
	if _, err := NewFilesystemBackend(root, false); err == nil {
		t.Fatal("expected error for missing non-virtual root")
	}
}

func TestFilesystemBackendReadDirectoryErrors(t *testing.T) {
	root := t.TempDir()
	b, _ := NewFilesystemBackend(root, false)
	b.Write("/dir/file.txt", "x")

	got := b.Read("/dir", 0, 2000)
	if !strings.Contains(got, "directory") {
		t.Fatalf("expected directory error, got %q", got)
	}
}

func TestFilesystemBackendEscapeRejected(t *testing.T) {
	root := t.TempDir()
	b, _ := NewFilesystemBackend(root, false)

	wr := b.Write("../escape.txt", "x")
	if wr.Error == "" {
		t.Fatal("expected escape to be rejected")
	}
}

func TestFilesystemBackendLsInfo(t *testing.T) {
	root := t.TempDir()
	b, _ := NewFilesystemBackend(root, false)
	b.Write("/a.txt", "1")
	b.Write("/dir/b.txt", "2")

	entries := b.LsInfo("/")
	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name] = true
	}
	if !names["a.txt"] || !names["dir"] {
		t.Fatalf("unexpected top-level listing: %+v", entries)
	}
}

func TestFilesystemBackendGlobInfo(t *testing.T) {
	root := t.TempDir()
	b, _ := NewFilesystemBackend(root, false)
	b.Write("/a.py", "1")
	b.Write("/dir/b.py", "2")
	b.Write("/dir/c.txt", "3")

	entries := b.GlobInfo("**/*.py", "/")
	if len(entries) != 2 {
		t.Fatalf("expected 2 .py files, got %+v", entries)
	}
}

func TestFilesystemBackendGrepRaw(t *testing.T) {
	root := t.TempDir()
	b, _ := NewFilesystemBackend(root, false)
	b.Write("/a.txt", "needle here")
	b.Write("/dir/b.txt", "no match")

	res := b.GrepRaw("needle", "", "")
	if res.Error != "" || len(res.Matches) != 1 {
		t.Fatalf("GrepRaw() = %+v", res)
	}
}

func TestFilesystemBackendExecute(t *testing.T) {
	root := t.TempDir()
	b, _ := NewFilesystemBackend(root, false)

	resp := b.Execute(context.Background(), "echo hi", 2*time.Second)
	if resp.ExitCode != 0 || !strings.Contains(resp.Stdout, "hi") {
		t.Fatalf("Execute() = %+v", resp)
	}
}

func TestFilesystemBackendExecuteTimeout(t *testing.T) {
	root := t.TempDir()
	b, _ := NewFilesystemBackend(root, false)

	resp := b.Execute(context.Background(), "sleep 5", 50*time.Millisecond)
	if !resp.TimedOut {
		t.Fatalf("expected TimedOut, got %+v", resp)
	}
}
