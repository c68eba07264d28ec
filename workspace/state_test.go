package workspace

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestStateBackendWriteThenRead(t *testing.T) {
	b := NewStateBackend()

	wr := b.Write("/a/b.txt", "Hello\nWorld")
	if wr.Error != "" {
		t.Fatalf("unexpected error: %s", wr.Error)
	}
	if wr.Bytes != 11 || wr.Lines != 2 {
		t.Fatalf("got WriteResult %+v", wr)
	}

	got := b.Read("/a/b.txt", 0, 2000)
	want := "     1→Hello\n     2→World"
	if got != want {
		t.Fatalf("Read() = %q, want %q", got, want)
	}
}

func TestStateBackendWriteTrailingNewline(t *testing.T) {
	b := NewStateBackend()

	b.Write("/f", "a\nb\n")
	if got := b.Read("/f", 0, 2000); got != "     1→a\n     2→b" {
		t.Fatalf("single trailing newline should not store an empty tail line, got %q", got)
	}

	b.Write("/g", "a\nb\n\n")
	if got := b.Read("/g", 0, 2000); got != "     1→a\n     2→b\n     3→" {
		t.Fatalf("a second trailing newline is itself content, got %q", got)
	}
}

func TestStateBackendEditUniqueness(t *testing.T) {
	b := NewStateBackend()
	b.Write("/f", "foo foo foo")

	res := b.Edit("/f", "foo", "bar", false)
	if res.Error == "" || !strings.Contains(res.Error, "3 times") {
		t.Fatalf("expected error mentioning '3 times', got %+v", res)
	}

	res = b.Edit("/f", "foo", "bar", true)
	if res.Error != "" || res.Occurrences != 3 {
		t.Fatalf("expected 3 occurrences, got %+v", res)
	}
	if got := b.Read("/f", 0, 2000); got != "     1→bar bar bar" {
		t.Fatalf("Read() after replace_all = %q", got)
	}
}

func TestStateBackendEditIdempotent(t *testing.T) {
	b := NewStateBackend()
	b.Write("/f", "hello")

	res := b.Edit("/f", "hello", "hello", false)
	if !res.OK() || res.Occurrences != 1 {
		t.Fatalf("expected idempotent success, got %+v", res)
	}
	if got := b.Read("/f", 0, 2000); got != "     1→hello" {
		t.Fatalf("content changed: %q", got)
	}
}

func TestStateBackendReadOffsetBoundary(t *testing.T) {
	b := NewStateBackend()
	content := strings.Join([]string{"a", "b", "c"}, "\n")
	b.Write("/f", content)

	if got := b.Read("/f", 2, 10); got != "     3→c" {
		t.Fatalf("Read(offset=2) = %q", got)
	}
	if got := b.Read("/f", 3, 10); !strings.Contains(got, "Error") {
		t.Fatalf("expected error at offset == line_count, got %q", got)
	}
}

func TestStateBackendGlobMatchesAllFiles(t *testing.T) {
	b := NewStateBackend()
	paths := []string{"/a.txt", "/dir/b.txt", "/dir/sub/c.txt"}
	for _, p := range paths {
		b.Write(p, "x")
	}

	entries := b.GlobInfo("**/*", "/")
	if len(entries) != len(paths) {
		t.Fatalf("expected %d entries, got %d: %+v", len(paths), len(entries), entries)
	}
	seen := map[string]bool{}
	for _, e := range entries {
		if e.IsDir {
			t.Fatalf("glob returned a directory: %+v", e)
		}
		seen[e.Path] = true
	}
	for _, p := range paths {
		if !seen[p] {
			t.Fatalf("missing %s in glob results", p)
		}
	}
}

func TestStateBackendGrepUnionAcrossFiles(t *testing.T) {
	b := NewStateBackend()
	b.Write("/a.txt", "hi there")
	b.Write("/b.txt", "hi again")

	all := b.GrepRaw("hi", "", "")
	perFile := append(append([]GrepMatch(nil), b.GrepRaw("hi", "/a.txt", "").Matches...), b.GrepRaw("hi", "/b.txt", "").Matches...)

	if len(all.Matches) != len(perFile) {
		t.Fatalf("union mismatch: all=%d perFile=%d", len(all.Matches), len(perFile))
	}
}

func TestStateBackendGrepInvalidRegex(t *testing.T) {
	b := NewStateBackend()
	b.Write("/f", "content")

	res := b.GrepRaw("[invalid", "", "")
	if res.Error == "" || !strings.HasPrefix(res.Error, "Error") {
		t.Fatalf("expected Error-prefixed string, got %+v", res)
	}
}

func TestStateBackendLsInfo(t *testing.T) {
	b := NewStateBackend()
	b.Write("/dir/a.txt", "1")
	b.Write("/dir/sub/b.txt", "2")

	entries := b.LsInfo("/dir")
	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name] = true
	}
	if !names["a.txt"] || !names["sub"] {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestStateBackendWritePreservesCreatedAt(t *testing.T) {
	b := NewStateBackend()
	b.Write("/f", "one")
	first := b.files["/f"].createdAt

	b.Write("/f", "two")
	if b.files["/f"].createdAt != first {
		t.Fatal("created_at was not preserved across overwrite")
	}
}

func TestStateBackendPathRejection(t *testing.T) {
	b := NewStateBackend()
	res := b.Edit("../etc/passwd", "old", "new", false)
	if res.Error == "" {
		t.Fatal("expected path-rejection error")
	}
	if entries := b.LsInfo("../x"); entries != nil {
		t.Fatalf("expected nil entries for invalid path, got %+v", entries)
	}
}

func TestStateBackendEditIncludesDiffPreview(t *testing.T) {
	b := NewStateBackend()
	b.Write("/f", "line one\nline two\nline three")

	res := b.Edit("/f", "line two", "line TWO", false)
	if !res.OK() {
		t.Fatalf("unexpected error: %+v", res)
	}
	if !strings.Contains(res.Diff, "-") || !strings.Contains(res.Diff, "+") {
		t.Fatalf("expected a +/- diff preview, got %q", res.Diff)
	}
	if !strings.Contains(res.Diff, "line TWO") {
		t.Fatalf("expected diff to mention the new text, got %q", res.Diff)
	}
}

func TestStateBackendEditNoOpHasNoDiff(t *testing.T) {
	b := NewStateBackend()
	b.Write("/f", "hello")
	res := b.Edit("/f", "hello", "hello", false)
	if res.Diff != "" {
		t.Fatalf("expected empty diff for a no-op edit, got %q", res.Diff)
	}
}

func TestStateBackendLsInfoMatchesExpectedShape(t *testing.T) {
	b := NewStateBackend()
	b.Write("/dir/a.txt", "hi")
	b.Write("/dir/sub/b.txt", "there")

	got := b.LsInfo("/dir")
	want := []DirectoryEntry{
		{Name: "a.txt", Path: "/dir/a.txt", IsDir: false, Size: 2},
		{Name: "sub", Path: "/dir/sub", IsDir: true, ChildCount: intPtr(1)},
	}

	opts := cmp.Options{
		cmpopts.IgnoreFields(DirectoryEntry{}, "ModifiedAt"),
	}
	if diff := cmp.Diff(want, got, opts); diff != "" {
		t.Fatalf("LsInfo mismatch (-want +got):\n%s", diff)
	}
}

func intPtr(i int) *int { return &i }
