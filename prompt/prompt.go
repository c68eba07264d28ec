// Package prompt implements the core's get_system_prompt(deps) hook:
// it concatenates every subsystem's dynamic prompt fragment into the
// text the agent runtime prepends to its next turn. The runtime owns
// assembling the rest of the system prompt (persona, tool schemas);
// this package only owns the workspace-state-dependent slice of it.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"deepagent/agentcore"
	"deepagent/planner"
	"deepagent/skills"
)

// Fragment concatenates the todo planner's, skills registry's, and (for
// an in-memory-backed session) workspace-summary system-prompt
// fragments, separated by a blank line, skipping whichever are empty.
func Fragment(state *agentcore.AgentState) string {
	parts := []string{
		planner.SystemPromptFragment(state),
		skills.SystemPromptFragment(state.Skills()),
		workspaceFragment(state),
	}

	var nonEmpty []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n\n")
}

// workspaceFragment renders AgentState.Files — the in-memory workspace
// content mirror spec.md §3 says is "surfaced for prompt context
// only" — as a compact path/size listing. Empty for a session whose
// backend isn't the in-memory variant, since Files is never populated
// for one.
func workspaceFragment(state *agentcore.AgentState) string {
	if len(state.Files) == 0 {
		return ""
	}

	paths := make([]string, 0, len(state.Files))
	for p := range state.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	lines := []string{"## In-Memory Workspace Files", ""}
	for _, p := range paths {
		lines = append(lines, fmt.Sprintf("- %s (%d bytes)", p, len(state.Files[p])))
	}
	return strings.Join(lines, "\n")
}
