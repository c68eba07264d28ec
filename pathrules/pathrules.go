// Package pathrules implements the logical path normalization and
// path-safety checks shared by every workspace backend.
package pathrules

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var driveLetterRE = regexp.MustCompile(`^[A-Za-z]:`)

// Validate rejects logical paths that try to escape the workspace or
// reference a host-specific absolute form. It never inspects the
// filesystem — Validate is a pure, syntactic check.
func Validate(path string) error {
	if strings.Contains(path, "..") {
		return fmt.Errorf("path contains '..' (parent directory traversal): %s", path)
	}
	if strings.HasPrefix(path, "~") {
		return fmt.Errorf("path starts with '~' (home directory expansion): %s", path)
	}
	if driveLetterRE.MatchString(path) {
		return fmt.Errorf("path looks like a Windows drive path: %s", path)
	}
	return nil
}

// Normalize rewrites path to start with '/' and, unless it is the root,
// to end without a trailing '/'. It performs no dot-segment resolution —
// Validate already rejects any path containing "..".
func Normalize(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path != "/" {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}

// ValidateWithinRoot resolves logical (normalized) against root and
// verifies the resulting absolute path is root itself or nested under it.
// It returns the resolved host path on success.
func ValidateWithinRoot(logical, root string) (string, error) {
	if err := Validate(logical); err != nil {
		return "", err
	}
	trimmed := strings.TrimPrefix(Normalize(logical), "/")
	joined := filepath.Join(root, trimmed)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving root: %w", err)
	}
	absJoined, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	if absJoined != absRoot && !strings.HasPrefix(absJoined, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes workspace root: %s", logical)
	}
	return absJoined, nil
}
