package workspace

import (
	"fmt"
	"sort"
	"strings"
)

// CompositeBackend routes logical paths to one of several backends by
// longest-matching prefix, falling back to Default for everything
// else. Prefixes are mount-point names like "/skills/" that must not
// overlap one another.
type CompositeBackend struct {
	Default Backend
	routes  []compositeRoute
}

type compositeRoute struct {
	prefix  string // e.g. "/skills/"
	backend Backend
}

// NewCompositeBackend builds a composite over def, mounting each
// backend in routes at its prefix (e.g. "/skills", "/memory"). It
// panics if two prefixes overlap — this is a wiring error, not a
// runtime condition a caller can recover from.
func NewCompositeBackend(def Backend, routes map[string]Backend) *CompositeBackend {
	names := make([]string, 0, len(routes))
	for name := range routes {
		names = append(names, name)
	}
	sort.Strings(names)

	c := &CompositeBackend{Default: def}
	for _, name := range names {
		prefix := normalizeMountPrefix(name)
		for _, existing := range c.routes {
			if strings.HasPrefix(prefix, existing.prefix) || strings.HasPrefix(existing.prefix, prefix) {
				panic(fmt.Sprintf("composite backend: overlapping mount prefixes %q and %q", prefix, existing.prefix))
			}
		}
		c.routes = append(c.routes, compositeRoute{prefix: prefix, backend: routes[name]})
	}
	return c
}

func normalizeMountPrefix(name string) string {
	name = strings.Trim(name, "/")
	return "/" + name + "/"
}

// dispatch returns the backend responsible for path, the path
// rewritten relative to that backend's mount point, and the mount
// prefix without its trailing slash, e.g. "/skills" (empty when path
// fell through to Default).
func (c *CompositeBackend) dispatch(path string) (backend Backend, rest string, mountPrefix string) {
	norm := path
	if !strings.HasPrefix(norm, "/") {
		norm = "/" + norm
	}
	candidate := norm
	if candidate != "/" && !strings.HasSuffix(candidate, "/") {
		candidate += "/"
	}

	var best *compositeRoute
	for i := range c.routes {
		r := &c.routes[i]
		if strings.HasPrefix(candidate, r.prefix) && (best == nil || len(r.prefix) > len(best.prefix)) {
			best = r
		}
	}
	if best == nil {
		return c.Default, path, ""
	}
	trimmed := strings.TrimSuffix(best.prefix, "/")
	rest = strings.TrimPrefix(norm, trimmed)
	if rest == "" {
		rest = "/"
	}
	return best.backend, rest, trimmed
}

func (c *CompositeBackend) Read(path string, offset, limit int) string {
	b, rest, _ := c.dispatch(path)
	return b.Read(rest, offset, limit)
}

func (c *CompositeBackend) Write(path, content string) WriteResult {
	b, rest, mountPrefix := c.dispatch(path)
	res := b.Write(rest, content)
	if res.Error == "" && mountPrefix != "" {
		res.Path = mountPrefix + res.Path
	}
	return res
}

func (c *CompositeBackend) Edit(path, old, new string, replaceAll bool) EditResult {
	b, rest, _ := c.dispatch(path)
	return b.Edit(rest, old, new, replaceAll)
}

// LsInfo lists path's children. At root, virtual directory entries are
// synthesized for every mounted prefix, de-duplicated against whatever
// the default backend already returns for "/".
func (c *CompositeBackend) LsInfo(path string) []DirectoryEntry {
	norm := path
	if norm == "" {
		norm = "/"
	}
	if norm != "/" {
		b, rest, mountPrefix := c.dispatch(norm)
		entries := b.LsInfo(rest)
		return qualifyEntries(mountPrefix, entries)
	}

	entries := c.Default.LsInfo("/")
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		seen[e.Name] = true
	}

	names := make([]string, 0, len(c.routes))
	for _, r := range c.routes {
		names = append(names, strings.Trim(r.prefix, "/"))
	}
	sort.Strings(names)

	for _, name := range names {
		if seen[name] {
			continue
		}
		entries = append(entries, DirectoryEntry{Name: name, Path: "/" + name, IsDir: true})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

func qualifyEntries(mountPrefix string, entries []DirectoryEntry) []DirectoryEntry {
	if mountPrefix == "" {
		return entries
	}
	out := make([]DirectoryEntry, len(entries))
	for i, e := range entries {
		e.Path = mountPrefix + e.Path
		out[i] = e
	}
	return out
}

// GlobInfo matches pattern under path. At root, results are gathered
// from the default backend plus every mounted backend.
func (c *CompositeBackend) GlobInfo(pattern, path string) []DirectoryEntry {
	if path == "" {
		path = "/"
	}
	if path != "/" {
		b, rest, mountPrefix := c.dispatch(path)
		entries := b.GlobInfo(pattern, rest)
		return qualifyEntries(mountPrefix, entries)
	}

	var out []DirectoryEntry
	out = append(out, c.Default.GlobInfo(pattern, "/")...)
	for _, r := range c.routes {
		sub := r.backend.GlobInfo(pattern, "/")
		for _, e := range sub {
			e.Path = r.prefix + strings.TrimPrefix(e.Path, "/")
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// GrepRaw searches content under path. At root (or an unscoped
// search), every backend is consulted and results are aggregated;
// a per-backend error is only surfaced if every consulted backend
// errors.
func (c *CompositeBackend) GrepRaw(pattern, path, glob string) GrepResult {
	if path != "" && path != "/" {
		b, rest, mountPrefix := c.dispatch(path)
		res := b.GrepRaw(pattern, rest, glob)
		if res.Error == "" && mountPrefix != "" {
			for i := range res.Matches {
				res.Matches[i].Path = mountPrefix + res.Matches[i].Path
			}
		}
		return res
	}

	type outcome struct {
		prefix string
		res    GrepResult
	}
	outcomes := []outcome{{prefix: "", res: c.Default.GrepRaw(pattern, "", glob)}}
	for _, r := range c.routes {
		outcomes = append(outcomes, outcome{prefix: r.prefix, res: r.backend.GrepRaw(pattern, "", glob)})
	}

	var matches []GrepMatch
	errCount := 0
	for _, o := range outcomes {
		if o.res.Error != "" {
			errCount++
			continue
		}
		for _, m := range o.res.Matches {
			if o.prefix != "" {
				m.Path = o.prefix + strings.TrimPrefix(m.Path, "/")
			}
			matches = append(matches, m)
		}
	}
	if errCount == len(outcomes) {
		return GrepResult{Error: outcomes[0].res.Error}
	}
	return GrepResult{Matches: matches}
}
