package workspace

import (
	"path/filepath"
	"strings"
)

// globMatch implements shell-glob semantics shared by every backend:
// "**" matches any number of path segments (including zero), "*"
// matches within one segment, "?" matches one non-separator
// character, and "[...]" is a character class — all delegated to
// path/filepath.Match per segment.
func globMatch(pattern, candidate string) bool {
	patSegs := splitSegments(pattern)
	candSegs := splitSegments(candidate)
	return matchSegments(patSegs, candSegs)
}

func splitSegments(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func matchSegments(pat, cand []string) bool {
	if len(pat) == 0 {
		return len(cand) == 0
	}
	if pat[0] == "**" {
		if len(pat) == 1 {
			return true
		}
		for i := 0; i <= len(cand); i++ {
			if matchSegments(pat[1:], cand[i:]) {
				return true
			}
		}
		return false
	}
	if len(cand) == 0 {
		return false
	}
	ok, err := filepath.Match(pat[0], cand[0])
	if err != nil || !ok {
		return false
	}
	return matchSegments(pat[1:], cand[1:])
}
