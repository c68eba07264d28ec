package workspace

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"deepagent/pathrules"
)

// fileRecord is the stored shape of one StateBackend file: an ordered
// sequence of lines plus its created/modified timestamps. Joining
// lines with "\n" reproduces the original content byte-for-byte,
// except that a single trailing newline is not kept (see splitLines).
type fileRecord struct {
	lines     []string
	createdAt time.Time
	modifiedAt time.Time
}

func (r *fileRecord) content() string {
	return strings.Join(r.lines, "\n")
}

// StateBackend is a purely in-memory workspace filesystem. There are
// no real directories: a path is treated as a directory if some other
// stored path begins with path+"/". A single coarse mutex serializes
// access — there is no read-heavy optimization requirement for a
// single agent session.
type StateBackend struct {
	mu    sync.Mutex
	files map[string]*fileRecord
	now   func() time.Time
}

// NewStateBackend creates an empty in-memory workspace.
func NewStateBackend() *StateBackend {
	return &StateBackend{
		files: make(map[string]*fileRecord),
		now:   time.Now,
	}
}

// Snapshot returns a copy of the backend's full path-to-content
// mapping. It exists so AgentState.Files — a prompt-context-only
// mirror of in-memory workspace content — can be refreshed after a
// write or edit without StateBackend needing to know about prompts.
func (b *StateBackend) Snapshot() map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[string]string, len(b.files))
	for p, rec := range b.files {
		out[p] = rec.content()
	}
	return out
}

const defaultReadLimit = 2000

// Write stores content at path, splitting it into lines on "\n". A
// write to an existing path preserves its created-at timestamp.
func (b *StateBackend) Write(path, content string) WriteResult {
	if err := pathrules.Validate(path); err != nil {
		return WriteResult{Error: err.Error()}
	}
	norm := pathrules.Normalize(path)
	lines := splitLines(content)

	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	rec, exists := b.files[norm]
	if !exists {
		rec = &fileRecord{createdAt: now}
		b.files[norm] = rec
	}
	rec.lines = lines
	rec.modifiedAt = now

	return WriteResult{Path: norm, Bytes: len(content), Lines: len(lines)}
}

// Read renders lines [offset:offset+limit] of the file at path with a
// 1-based line-number gutter.
func (b *StateBackend) Read(path string, offset, limit int) string {
	if err := pathrules.Validate(path); err != nil {
		return "Error: " + err.Error()
	}
	if limit <= 0 {
		limit = defaultReadLimit
	}
	norm := pathrules.Normalize(path)

	b.mu.Lock()
	rec, ok := b.files[norm]
	var lines []string
	if ok {
		lines = append([]string(nil), rec.lines...)
	}
	b.mu.Unlock()

	if !ok {
		return fmt.Sprintf("Error: file not found: %s", norm)
	}
	return renderLines(lines, offset, limit)
}

// Edit replaces old with new in the file at path.
func (b *StateBackend) Edit(path, old, new string, replaceAll bool) EditResult {
	if err := pathrules.Validate(path); err != nil {
		return EditResult{Error: err.Error()}
	}
	norm := pathrules.Normalize(path)

	b.mu.Lock()
	defer b.mu.Unlock()

	rec, ok := b.files[norm]
	if !ok {
		return EditResult{Error: fmt.Sprintf("file not found: %s", norm)}
	}

	original := rec.content()
	count := strings.Count(original, old)
	if count == 0 {
		return EditResult{Error: "String not found in file"}
	}
	if count > 1 && !replaceAll {
		return EditResult{Error: fmt.Sprintf(
			"String occurs %d times in file. Use replace_all=true or supply a more specific old_string to disambiguate.", count)}
	}

	n := 1
	if replaceAll {
		n = -1
	}
	updated := strings.Replace(original, old, new, n)
	rec.lines = splitLines(updated)
	rec.modifiedAt = b.now()

	return EditResult{Occurrences: count, Diff: unifiedDiff(original, updated)}
}

// LsInfo lists path's immediate children (or a single entry when path
// is an exact file).
func (b *StateBackend) LsInfo(path string) []DirectoryEntry {
	if err := pathrules.Validate(path); err != nil {
		return nil
	}
	norm := pathrules.Normalize(path)

	b.mu.Lock()
	defer b.mu.Unlock()

	if rec, ok := b.files[norm]; ok {
		return []DirectoryEntry{fileEntry(norm, rec)}
	}

	prefix := norm
	if prefix != "/" {
		prefix += "/"
	}

	children := make(map[string]*int) // name -> child count (nil for files)
	for p, rec := range b.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		segs := strings.SplitN(rest, "/", 2)
		name := segs[0]
		if len(segs) == 1 {
			if _, seen := children[name]; !seen {
				children[name] = nil
			}
			_ = rec
			continue
		}
		count := 0
		if existing, ok := children[name]; ok && existing != nil {
			count = *existing
		}
		count++
		children[name] = &count
	}

	names := make([]string, 0, len(children))
	for name := range children {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]DirectoryEntry, 0, len(names))
	for _, name := range names {
		childPath := prefix + name
		if count := children[name]; count != nil {
			out = append(out, DirectoryEntry{Name: name, Path: childPath, IsDir: true, ChildCount: count})
		} else if rec, ok := b.files[childPath]; ok {
			out = append(out, fileEntry(childPath, rec))
		}
	}
	return out
}

func fileEntry(path string, rec *fileRecord) DirectoryEntry {
	modAt := rec.modifiedAt
	return DirectoryEntry{
		Name:       lastSegment(path),
		Path:       path,
		IsDir:      false,
		Size:       int64(len(rec.content())),
		ModifiedAt: &modAt,
	}
}

func lastSegment(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}

// GlobInfo matches pattern against files under path.
func (b *StateBackend) GlobInfo(pattern, path string) []DirectoryEntry {
	if path == "" {
		path = "/"
	}
	if err := pathrules.Validate(path); err != nil {
		return nil
	}
	base := pathrules.Normalize(path)

	b.mu.Lock()
	defer b.mu.Unlock()

	var matches []string
	for p := range b.files {
		if !underBase(p, base) {
			continue
		}
		rel := relativeTo(p, base)
		if globMatch(pattern, rel) {
			matches = append(matches, p)
		}
	}
	sort.Strings(matches)

	out := make([]DirectoryEntry, 0, len(matches))
	for _, p := range matches {
		out = append(out, fileEntry(p, b.files[p]))
	}
	return out
}

// GrepRaw scans file contents for pattern, scoped to path and
// filtered by glob.
func (b *StateBackend) GrepRaw(pattern, path, glob string) GrepResult {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return GrepResult{Error: "Error: invalid regex: " + err.Error()}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var candidates []string
	switch {
	case path == "":
		for p := range b.files {
			candidates = append(candidates, p)
		}
	default:
		if err := pathrules.Validate(path); err != nil {
			return GrepResult{Error: "Error: " + err.Error()}
		}
		norm := pathrules.Normalize(path)
		if _, ok := b.files[norm]; ok {
			candidates = append(candidates, norm)
		} else {
			prefix := norm
			if prefix != "/" {
				prefix += "/"
			}
			for p := range b.files {
				if strings.HasPrefix(p, prefix) {
					candidates = append(candidates, p)
				}
			}
		}
	}

	if glob != "" {
		base := "/"
		if path != "" {
			base = pathrules.Normalize(path)
		}
		filtered := candidates[:0]
		for _, p := range candidates {
			if globMatch(glob, relativeTo(p, base)) {
				filtered = append(filtered, p)
			}
		}
		candidates = filtered
	}

	sort.Strings(candidates)

	var matches []GrepMatch
	for _, p := range candidates {
		rec := b.files[p]
		for i, line := range rec.lines {
			if re.MatchString(line) {
				matches = append(matches, GrepMatch{Path: p, Line: i + 1, Text: line})
			}
		}
	}
	return GrepResult{Matches: matches}
}

func underBase(path, base string) bool {
	if base == "/" {
		return true
	}
	return path == base || strings.HasPrefix(path, base+"/")
}

func relativeTo(path, base string) string {
	if base == "/" {
		return strings.TrimPrefix(path, "/")
	}
	rel := strings.TrimPrefix(path, base)
	return strings.TrimPrefix(rel, "/")
}

// splitLines splits content on "\n" into stored lines. A single
// trailing newline does not produce a stored empty tail line —
// splitLines("a\nb\n") yields ["a","b"], not ["a","b",""] — matching
// the common case where callers don't intend a deliberate trailing
// blank line. A second trailing newline is itself content, so
// splitLines("a\nb\n\n") does yield ["a","b",""].
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	return strings.Split(content, "\n")
}

func renderLines(lines []string, offset, limit int) string {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(lines) {
		return fmt.Sprintf("Error: offset %d exceeds file length of %d lines", offset, len(lines))
	}
	end := offset + limit
	if end > len(lines) {
		end = len(lines)
	}

	var sb strings.Builder
	for i := offset; i < end; i++ {
		if i > offset {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%6d→%s", i+1, lines[i])
	}
	if end < len(lines) {
		fmt.Fprintf(&sb, "\n... (%d more lines)", len(lines)-end)
	}
	return sb.String()
}
