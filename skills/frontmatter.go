// Package skills implements the skills registry: discovery of
// SKILL.md packages under configured directories, a minimal
// frontmatter parser, and the dynamic system-prompt fragment that
// surfaces the discovered catalog to the model.
package skills

import "strings"

const fence = "---"

// ParseSkillMD splits text into its YAML-like frontmatter block and
// body. Only a deliberately tiny subset of YAML is understood:
// "key: value" scalar lines (values may be wrapped in matching single
// or double quotes, which are stripped) and "key:" lines followed by
// one or more indented "- item" lines, which produce a string slice.
// Lines with no colon are ignored rather than treated as an error —
// this parser is not a general YAML implementation and must not
// become one, since callers rely on its exact tolerance for stray
// lines and quote-stripping behavior.
func ParseSkillMD(text string) (map[string]any, string) {
	if !strings.HasPrefix(text, fence+"\n") {
		return map[string]any{}, text
	}

	rest := text[len(fence)+1:]
	lines := strings.Split(rest, "\n")

	closeIdx := -1
	for i, line := range lines {
		if line == fence {
			closeIdx = i
			break
		}
	}
	if closeIdx == -1 {
		return map[string]any{}, text
	}

	front := parseBlock(lines[:closeIdx])
	body := strings.Join(lines[closeIdx+1:], "\n")
	body = strings.TrimPrefix(body, "\n")
	return front, body
}

func parseBlock(lines []string) map[string]any {
	front := make(map[string]any)
	var listKey string
	var list []string

	flush := func() {
		if listKey != "" {
			if list != nil {
				front[listKey] = list
			} else {
				front[listKey] = ""
			}
			listKey = ""
			list = nil
		}
	}

	for _, raw := range lines {
		trimmed := strings.TrimRight(raw, " \t")
		if strings.HasPrefix(strings.TrimLeft(trimmed, " \t"), "- ") || strings.TrimLeft(trimmed, " \t") == "-" {
			if listKey == "" {
				continue // stray list item with no preceding "key:" — ignore
			}
			item := strings.TrimLeft(trimmed, " \t")
			item = strings.TrimPrefix(item, "-")
			item = strings.TrimSpace(item)
			list = append(list, unquote(item))
			continue
		}

		colon := strings.Index(trimmed, ":")
		if colon == -1 {
			continue // line has no colon — not a key, ignored per spec
		}

		flush()
		key := strings.TrimSpace(trimmed[:colon])
		value := strings.TrimSpace(trimmed[colon+1:])
		if key == "" {
			continue
		}
		if value == "" {
			// Either a list header ("tags:") or an empty scalar; only
			// promoted to a list if "- item" lines actually follow.
			listKey = key
			continue
		}
		front[key] = unquote(value)
	}
	flush()
	return front
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
