package workspace

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"deepagent/pathrules"
)

// FilesystemBackend is a host-rooted workspace filesystem: every
// logical path is resolved beneath Root and is rejected if it would
// escape it. Unlike StateBackend, directories are real and files are
// read from and written to disk.
type FilesystemBackend struct {
	Root string
}

// NewFilesystemBackend opens root as a workspace. If virtual is true
// and root does not yet exist, it is created; otherwise a missing root
// is an error.
func NewFilesystemBackend(root string, virtual bool) (*FilesystemBackend, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		if !os.IsNotExist(err) || !virtual {
			return nil, fmt.Errorf("workspace root %s: %w", abs, err)
		}
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return nil, fmt.Errorf("creating workspace root: %w", err)
		}
	}
	return &FilesystemBackend{Root: abs}, nil
}

func (b *FilesystemBackend) resolve(path string) (string, error) {
	return pathrules.ValidateWithinRoot(path, b.Root)
}

// Write stores content at path, creating parent directories and an
// atomic temp-file-then-rename as needed.
func (b *FilesystemBackend) Write(path, content string) WriteResult {
	hostPath, err := b.resolve(path)
	if err != nil {
		return WriteResult{Error: err.Error()}
	}

	dir := filepath.Dir(hostPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return WriteResult{Error: fmt.Sprintf("creating directory: %v", err)}
	}

	tmp, err := os.CreateTemp(dir, ".deepagent-tmp-*")
	if err != nil {
		return WriteResult{Error: fmt.Sprintf("creating temp file: %v", err)}
	}
	tmpName := tmp.Name()
	_, werr := tmp.WriteString(content)
	tmp.Close()
	if werr != nil {
		os.Remove(tmpName)
		return WriteResult{Error: fmt.Sprintf("writing file: %v", werr)}
	}
	if err := os.Rename(tmpName, hostPath); err != nil {
		os.Remove(tmpName)
		return WriteResult{Error: fmt.Sprintf("renaming file: %v", err)}
	}

	lines := splitLines(content)
	return WriteResult{Path: pathrules.Normalize(path), Bytes: len(content), Lines: len(lines)}
}

// Read renders the file at path with a 1-based line-number gutter.
func (b *FilesystemBackend) Read(path string, offset, limit int) string {
	hostPath, err := b.resolve(path)
	if err != nil {
		return "Error: " + err.Error()
	}
	if limit <= 0 {
		limit = defaultReadLimit
	}

	info, err := os.Stat(hostPath)
	if err != nil {
		return fmt.Sprintf("Error: file not found: %s", path)
	}
	if info.IsDir() {
		return fmt.Sprintf("Error: %s is a directory", path)
	}

	data, err := os.ReadFile(hostPath)
	if err != nil {
		return fmt.Sprintf("Error: reading file: %v", err)
	}
	return renderLines(splitLines(string(data)), offset, limit)
}

// Edit replaces old with new in the file at path.
func (b *FilesystemBackend) Edit(path, old, new string, replaceAll bool) EditResult {
	hostPath, err := b.resolve(path)
	if err != nil {
		return EditResult{Error: err.Error()}
	}

	data, err := os.ReadFile(hostPath)
	if err != nil {
		return EditResult{Error: fmt.Sprintf("file not found: %s", path)}
	}
	original := string(data)

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

	dir := filepath.Dir(hostPath)
	tmp, err := os.CreateTemp(dir, ".deepagent-tmp-*")
	if err != nil {
		return EditResult{Error: fmt.Sprintf("creating temp file: %v", err)}
	}
	tmpName := tmp.Name()
	_, werr := tmp.WriteString(updated)
	tmp.Close()
	if werr != nil {
		os.Remove(tmpName)
		return EditResult{Error: fmt.Sprintf("writing file: %v", werr)}
	}
	if err := os.Rename(tmpName, hostPath); err != nil {
		os.Remove(tmpName)
		return EditResult{Error: fmt.Sprintf("renaming file: %v", err)}
	}

	return EditResult{Occurrences: count, Diff: unifiedDiff(original, updated)}
}

// LsInfo lists the immediate children of path on disk.
func (b *FilesystemBackend) LsInfo(path string) []DirectoryEntry {
	hostPath, err := b.resolve(path)
	if err != nil {
		return nil
	}
	norm := pathrules.Normalize(path)

	info, err := os.Stat(hostPath)
	if err != nil {
		return nil
	}
	if !info.IsDir() {
		return []DirectoryEntry{diskFileEntry(norm, info)}
	}

	entries, err := os.ReadDir(hostPath)
	if err != nil {
		return nil
	}
	out := make([]DirectoryEntry, 0, len(entries))
	for _, e := range entries {
		childInfo, err := e.Info()
		if err != nil {
			continue
		}
		childPath := joinLogical(norm, e.Name())
		if e.IsDir() {
			count := dirChildCount(filepath.Join(hostPath, e.Name()))
			out = append(out, DirectoryEntry{Name: e.Name(), Path: childPath, IsDir: true, ChildCount: &count})
		} else {
			out = append(out, diskFileEntry(childPath, childInfo))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func dirChildCount(hostDir string) int {
	entries, err := os.ReadDir(hostDir)
	if err != nil {
		return 0
	}
	return len(entries)
}

func diskFileEntry(logicalPath string, info os.FileInfo) DirectoryEntry {
	modAt := info.ModTime()
	return DirectoryEntry{
		Name:       lastSegment(logicalPath),
		Path:       logicalPath,
		IsDir:      false,
		Size:       info.Size(),
		ModifiedAt: &modAt,
	}
}

func joinLogical(base, name string) string {
	if base == "/" {
		return "/" + name
	}
	return base + "/" + name
}

var skipDirNames = map[string]bool{
	".git":         true,
	"node_modules": true,
	"__pycache__":  true,
	"vendor":       true,
}

// GlobInfo matches pattern against files under path on disk.
func (b *FilesystemBackend) GlobInfo(pattern, path string) []DirectoryEntry {
	if path == "" {
		path = "/"
	}
	hostPath, err := b.resolve(path)
	if err != nil {
		return nil
	}
	base := pathrules.Normalize(path)

	var out []DirectoryEntry
	filepath.WalkDir(hostPath, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != hostPath && skipDirNames[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(hostPath, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if !globMatch(pattern, rel) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		logical := joinLogical(base, rel)
		if base == "/" {
			logical = "/" + rel
		}
		out = append(out, diskFileEntry(logical, info))
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

const maxGrepMatches = 500

var binaryExt = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true,
	".zip": true, ".tar": true, ".gz": true, ".pdf": true,
	".so": true, ".dylib": true, ".dll": true, ".exe": true, ".o": true,
	".wasm": true, ".pyc": true, ".class": true,
}

// GrepRaw searches file contents under path for pattern, preferring
// ripgrep when present on PATH and falling back to a pure-Go walk.
func (b *FilesystemBackend) GrepRaw(pattern, path, glob string) GrepResult {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return GrepResult{Error: "Error: invalid regex: " + err.Error()}
	}

	scopeHost := b.Root
	base := "/"
	if path != "" {
		resolved, rerr := b.resolve(path)
		if rerr != nil {
			return GrepResult{Error: "Error: " + rerr.Error()}
		}
		scopeHost = resolved
		base = pathrules.Normalize(path)
	}

	if rgPath, err := exec.LookPath("rg"); err == nil {
		if res, ok := grepWithRipgrep(rgPath, pattern, scopeHost, glob, base); ok {
			return res
		}
	}
	return b.grepWalk(re, scopeHost, base, glob)
}

func (b *FilesystemBackend) grepWalk(re *regexp.Regexp, scopeHost, base, glob string) GrepResult {
	var matches []GrepMatch
	filepath.WalkDir(scopeHost, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != scopeHost && skipDirNames[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if len(matches) >= maxGrepMatches {
			return filepath.SkipAll
		}
		if binaryExt[strings.ToLower(filepath.Ext(p))] {
			return nil
		}
		rel, rerr := filepath.Rel(scopeHost, p)
		if rerr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if glob != "" && !globMatch(glob, rel) {
			return nil
		}

		f, ferr := os.Open(p)
		if ferr != nil {
			return nil
		}
		defer f.Close()

		logical := joinLogical(base, rel)
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		lineNum := 0
		for scanner.Scan() {
			lineNum++
			line := scanner.Text()
			if re.MatchString(line) {
				matches = append(matches, GrepMatch{Path: logical, Line: lineNum, Text: line})
				if len(matches) >= maxGrepMatches {
					return filepath.SkipAll
				}
			}
		}
		return nil
	})
	return GrepResult{Matches: matches}
}

// grepWithRipgrep shells out to rg for speed on large trees. It
// returns ok=false on any unexpected failure so the caller falls back
// to the pure-Go walk rather than reporting a spurious error.
func grepWithRipgrep(rgPath, pattern, scopeHost, glob, base string) (GrepResult, bool) {
	args := []string{"--line-number", "--no-heading", "--color", "never"}
	if glob != "" {
		args = append(args, "--glob", glob)
	}
	args = append(args, "-e", pattern, scopeHost)

	cmd := exec.Command(rgPath, args...)
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
			return GrepResult{}, true
		}
		return GrepResult{}, false
	}

	var matches []GrepMatch
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		parts := strings.SplitN(line, ":", 3)
		if len(parts) != 3 {
			continue
		}
		rel, rerr := filepath.Rel(scopeHost, parts[0])
		if rerr != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		var lineNum int
		if _, serr := fmt.Sscanf(parts[1], "%d", &lineNum); serr != nil {
			continue
		}
		matches = append(matches, GrepMatch{Path: joinLogical(base, rel), Line: lineNum, Text: parts[2]})
	}
	return GrepResult{Matches: matches}, true
}

// Execute runs command through the host shell, satisfying the
// optional Sandbox interface for FilesystemBackend-rooted agents.
func (b *FilesystemBackend) Execute(ctx context.Context, command string, timeout time.Duration) ExecuteResponse {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = b.Root
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
	}
	return ExecuteResponse{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
		TimedOut: ctx.Err() == context.DeadlineExceeded,
	}
}
