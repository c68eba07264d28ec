// Package workspace defines the backend contract shared by the three
// workspace filesystem implementations (in-memory, host filesystem,
// and prefix-routed composite) and the result shapes they exchange
// with callers.
package workspace

import (
	"context"
	"time"
)

// Backend is implemented by every workspace filesystem provider. All
// three implementations (StateBackend, FilesystemBackend,
// CompositeBackend) share the read gutter format, the edit uniqueness
// rule, the "Error: ..." string convention and the result shapes,
// though their storage, concurrency, and search strategy differ. They
// do not agree in every detail: FilesystemBackend's GlobInfo and
// GrepRaw skip .git, node_modules, __pycache__ and vendor directories,
// its pure-Go grep walk stops at 500 matches, and its directory
// ChildCount is the number of immediate entries on disk, while
// StateBackend's is the number of stored files anywhere beneath it.
type Backend interface {
	// Read renders the file at path as gutter-numbered text, or an
	// "Error: ..." string describing why it could not be read.
	Read(path string, offset, limit int) string

	// Write stores content at path, creating it if necessary.
	Write(path, content string) WriteResult

	// Edit replaces old in the file at path with new. Unless
	// replaceAll is set, more than one occurrence is an error.
	Edit(path, old, new string, replaceAll bool) EditResult

	// LsInfo lists the immediate children of path, or a single entry
	// when path names a file. Invalid paths yield an empty slice.
	LsInfo(path string) []DirectoryEntry

	// GlobInfo matches pattern against files under path (default "/").
	GlobInfo(pattern, path string) []DirectoryEntry

	// GrepRaw searches file contents for pattern, optionally scoped to
	// path and filtered by glob.
	GrepRaw(pattern, path, glob string) GrepResult
}

// Sandbox is an optional capability some backends expose: the ability
// to run a shell command. The workspace toolset probes for this
// interface at construction time and only registers the execute tool
// when a backend satisfies it.
type Sandbox interface {
	Execute(ctx context.Context, command string, timeout time.Duration) ExecuteResponse
}

// DirectoryEntry describes one child returned by LsInfo or GlobInfo.
type DirectoryEntry struct {
	Name        string     `json:"name"`
	Path        string     `json:"path"`
	IsDir       bool       `json:"is_dir"`
	Size        int64      `json:"size"`
	ChildCount  *int       `json:"child_count,omitempty"`
	ModifiedAt  *time.Time `json:"modified_at,omitempty"`
}

// WriteResult is the tagged success/error result of Write. Error is
// empty on success.
type WriteResult struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
	Lines int    `json:"lines"`
	Error string `json:"error,omitempty"`
}

// EditResult is the tagged success/error result of Edit. Exactly one
// of Error (non-empty) or Occurrences (>=1) describes the outcome.
// Diff is only ever set alongside a successful Occurrences result —
// it previews the change as a line-oriented +/- hunk and carries no
// semantics of its own.
type EditResult struct {
	Occurrences int    `json:"occurrences,omitempty"`
	Diff        string `json:"diff,omitempty"`
	Error       string `json:"error,omitempty"`
}

// OK reports whether the edit succeeded.
func (r EditResult) OK() bool { return r.Error == "" }

// GrepMatch is a single grep hit.
type GrepMatch struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// GrepResult is the tagged success/error result of GrepRaw. A
// regex-compile failure is reported via Error; otherwise Matches holds
// the (possibly empty) hit list.
type GrepResult struct {
	Matches []GrepMatch `json:"matches,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ExecuteResponse is returned by a Sandbox's Execute.
type ExecuteResponse struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
	TimedOut bool   `json:"timed_out"`
}
