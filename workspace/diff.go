package workspace

import diffmatchpatch "github.com/sergi/go-diff/diffmatchpatch"

// unifiedDiff renders a compact +/- preview of the change from before
// to after, computed line-by-line so the output reads like a small
// patch hunk rather than a character-level diff. It is attached to a
// successful EditResult purely for the caller's benefit — no backend
// semantics depend on it.
func unifiedDiff(before, after string) string {
	if before == after {
		return ""
	}
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var out []byte
	for _, d := range diffs {
		prefix := byte(' ')
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = '+'
		case diffmatchpatch.DiffDelete:
			prefix = '-'
		case diffmatchpatch.DiffEqual:
			continue
		}
		for _, line := range splitLinesKeepEmpty(d.Text) {
			out = append(out, prefix, ' ')
			out = append(out, line...)
			out = append(out, '\n')
		}
	}
	if len(out) > 0 {
		out = out[:len(out)-1]
	}
	return string(out)
}

func splitLinesKeepEmpty(s string) []string {
	if s == "" {
		return nil
	}
	if s[len(s)-1] == '\n' {
		s = s[:len(s)-1]
	}
	return splitLines(s)
}
