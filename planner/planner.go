// Package planner implements the write_todos tool and the dynamic
// system-prompt fragment that surfaces the current task list to the
// model.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"deepagent/agentcore"
)

const toolDescription = `
Use this tool to create and manage a structured task list for your current session.
This helps you track progress, organize complex tasks, and demonstrate thoroughness.

## When to Use This Tool
Use this tool in these scenarios:
1. Complex multi-step tasks - When a task requires 3 or more distinct steps
2. Non-trivial tasks - Tasks that require careful planning
3. User provides multiple tasks - When users provide a list of things to be done
4. After receiving new instructions - Capture user requirements as todos
5. When starting a task - Mark it as in_progress BEFORE beginning work
6. After completing a task - Mark it as completed immediately

## Task States
- pending: Task not yet started
- in_progress: Currently working on (limit to ONE at a time)
- completed: Task finished successfully

## Important
- Exactly ONE task should be in_progress at any time
- Mark tasks complete IMMEDIATELY after finishing (don't batch completions)
- If you encounter blockers, keep the task as in_progress and create a new task for the blocker
`

const systemPromptGuidance = `
## Task Management

You have access to the ` + "`write_todos`" + ` tool to track your tasks.
Use it frequently to:
- Plan complex tasks before starting
- Show progress to the user
- Keep track of what's done and what's pending

When working on tasks:
1. Break down complex tasks into smaller steps
2. Mark exactly one task as in_progress at a time
3. Mark tasks as completed immediately after finishing
`

// Register binds the write_todos tool to state.
func Register(state *agentcore.AgentState) {
	state.Tools().Register(&agentcore.FuncTool{
		ToolName: "write_todos",
		ToolDesc: strings.TrimSpace(toolDescription),
		ToolParams: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"todos": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"content":     map[string]any{"type": "string", "description": "The task description in imperative form"},
							"status":      map[string]any{"type": "string", "enum": []string{"pending", "in_progress", "completed"}},
							"active_form": map[string]any{"type": "string", "description": "Present continuous form shown while in_progress"},
						},
						"required": []string{"content", "status", "active_form"},
					},
				},
			},
			"required": []string{"todos"},
		},
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			todosRaw, ok := args["todos"]
			if !ok {
				return "Error: 'todos' field is required", nil
			}
			data, _ := json.Marshal(todosRaw)
			var todos []agentcore.Todo
			if err := json.Unmarshal(data, &todos); err != nil {
				return "Error: parsing todos: " + err.Error(), nil
			}
			state.SetTodos(todos)

			counts := map[string]int{"pending": 0, "in_progress": 0, "completed": 0}
			for _, t := range todos {
				counts[t.Status]++
			}
			return fmt.Sprintf("Updated %d todos: %d completed, %d in progress, %d pending",
				len(todos), counts["completed"], counts["in_progress"], counts["pending"]), nil
		},
	})
}

// SystemPromptFragment always includes the stable task-management
// guidance, and appends a "## Current Todos" section when the session
// has any todos recorded.
func SystemPromptFragment(state *agentcore.AgentState) string {
	todos := state.Todos()
	if len(todos) == 0 {
		return strings.TrimSpace(systemPromptGuidance)
	}

	lines := []string{strings.TrimSpace(systemPromptGuidance), "", "## Current Todos"}
	for _, t := range todos {
		icon := statusIcon(t.Status)
		lines = append(lines, fmt.Sprintf("- %s %s", icon, t.Content))
	}
	return strings.Join(lines, "\n")
}

func statusIcon(status string) string {
	switch status {
	case "completed":
		return "[x]"
	case "in_progress":
		return "[*]"
	default:
		return "[ ]"
	}
}
