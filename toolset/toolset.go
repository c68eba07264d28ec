// Package toolset exposes a workspace.Backend as the seven file-
// operation tools an agent calls directly: read_file, write_file,
// edit_file, ls, glob, grep, and (when the backend supports it)
// execute. It also applies the approval gate and large-result
// eviction that every sensitive or bulky tool call goes through.
package toolset

import (
	"context"
	"encoding/json"
	"fmt"

	"deepagent/agentcore"
	"deepagent/workspace"
)

// Config controls which write-class tools require approval before
// they run. A nil Approval gates nothing.
type Config struct {
	Backend           workspace.Backend
	Approval          agentcore.ApprovalHook
	ExecuteTimeoutSec int
}

// Register binds the workspace toolset to state's tool registry.
func Register(state *agentcore.AgentState, cfg Config) {
	approval := cfg.Approval
	if approval == nil {
		approval = agentcore.AlwaysApprove{}
	}
	b := cfg.Backend

	reg := state.Tools()
	reg.Register(readFileTool(b))
	reg.Register(gated(writeFileTool(state, b), approval))
	reg.Register(gated(editFileTool(state, b), approval))
	reg.Register(lsTool(b))
	reg.Register(globTool(b))
	reg.Register(grepTool(b))

	if sb, ok := b.(workspace.Sandbox); ok {
		timeout := cfg.ExecuteTimeoutSec
		if timeout <= 0 {
			timeout = 60
		}
		reg.Register(evict(gated(executeTool(sb, timeout), approval)))
	}
}

func readFileTool(b workspace.Backend) *agentcore.FuncTool {
	return &agentcore.FuncTool{
		ToolName: "read_file",
		ToolDesc: "Read the contents of a file, numbered by line.",
		ToolParams: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"file_path": map[string]any{"type": "string"},
				"offset":    map[string]any{"type": "integer", "description": "0-based starting line"},
				"limit":     map[string]any{"type": "integer", "description": "max lines to return (default 2000)"},
			},
			"required": []string{"file_path"},
		},
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			path, _ := args["file_path"].(string)
			offset := intArg(args, "offset")
			limit := intArg(args, "limit")
			return b.Read(path, offset, limit), nil
		},
	}
}

// fileSnapshotter is implemented by workspace.StateBackend. Write and
// edit refresh AgentState.Files from it after every successful call so
// the in-memory workspace summary in the system prompt stays current —
// spec.md §3 surfaces that mapping for prompt context only, so it is
// never consulted by any tool, just republished here.
type fileSnapshotter interface {
	Snapshot() map[string]string
}

func refreshFilesSnapshot(state *agentcore.AgentState, b workspace.Backend) {
	if snap, ok := b.(fileSnapshotter); ok {
		state.Files = snap.Snapshot()
	}
}

func writeFileTool(state *agentcore.AgentState, b workspace.Backend) *agentcore.FuncTool {
	return &agentcore.FuncTool{
		ToolName: "write_file",
		ToolDesc: "Write content to a file, creating it (and any parent directories) if needed.",
		ToolParams: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"file_path": map[string]any{"type": "string"},
				"content":   map[string]any{"type": "string"},
			},
			"required": []string{"file_path", "content"},
		},
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			path, _ := args["file_path"].(string)
			content, _ := args["content"].(string)
			res := b.Write(path, content)
			if res.Error != "" {
				return "Error: " + res.Error, nil
			}
			refreshFilesSnapshot(state, b)
			return fmt.Sprintf("Wrote %d bytes (%d lines) to %s", res.Bytes, res.Lines, res.Path), nil
		},
	}
}

func editFileTool(state *agentcore.AgentState, b workspace.Backend) *agentcore.FuncTool {
	return &agentcore.FuncTool{
		ToolName: "edit_file",
		ToolDesc: "Replace old_string with new_string in a file. Fails if old_string is not uniquely present unless replace_all is set.",
		ToolParams: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"file_path":    map[string]any{"type": "string"},
				"old_string":   map[string]any{"type": "string"},
				"new_string":   map[string]any{"type": "string"},
				"replace_all":  map[string]any{"type": "boolean"},
			},
			"required": []string{"file_path", "old_string", "new_string"},
		},
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			path, _ := args["file_path"].(string)
			oldS, _ := args["old_string"].(string)
			newS, _ := args["new_string"].(string)
			replaceAll, _ := args["replace_all"].(bool)
			res := b.Edit(path, oldS, newS, replaceAll)
			if !res.OK() {
				return "Error: " + res.Error, nil
			}
			refreshFilesSnapshot(state, b)
			msg := fmt.Sprintf("Replaced %d occurrence(s) in %s", res.Occurrences, path)
			if res.Diff != "" {
				msg += "\n" + res.Diff
			}
			return msg, nil
		},
	}
}

func lsTool(b workspace.Backend) *agentcore.FuncTool {
	return &agentcore.FuncTool{
		ToolName: "ls",
		ToolDesc: "List the immediate children of a directory (or describe a single file).",
		ToolParams: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{"type": "string"},
			},
		},
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			path, _ := args["path"].(string)
			if path == "" {
				path = "/"
			}
			return marshalEntries(b.LsInfo(path)), nil
		},
	}
}

func globTool(b workspace.Backend) *agentcore.FuncTool {
	return &agentcore.FuncTool{
		ToolName: "glob",
		ToolDesc: "Find files matching a glob pattern (supports ** for recursive matching).",
		ToolParams: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"pattern": map[string]any{"type": "string"},
				"path":    map[string]any{"type": "string"},
			},
			"required": []string{"pattern"},
		},
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			pattern, _ := args["pattern"].(string)
			path, _ := args["path"].(string)
			return marshalEntries(b.GlobInfo(pattern, path)), nil
		},
	}
}

func grepTool(b workspace.Backend) *agentcore.FuncTool {
	return &agentcore.FuncTool{
		ToolName: "grep",
		ToolDesc: "Search file contents for a regular expression pattern, optionally scoped by path and glob.",
		ToolParams: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"pattern": map[string]any{"type": "string"},
				"path":    map[string]any{"type": "string"},
				"glob":    map[string]any{"type": "string"},
			},
			"required": []string{"pattern"},
		},
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			pattern, _ := args["pattern"].(string)
			path, _ := args["path"].(string)
			glob, _ := args["glob"].(string)
			res := b.GrepRaw(pattern, path, glob)
			if res.Error != "" {
				return res.Error, nil
			}
			data, _ := json.Marshal(res.Matches)
			return string(data), nil
		},
	}
}

func executeTool(sb workspace.Sandbox, timeoutSec int) *agentcore.FuncTool {
	return &agentcore.FuncTool{
		ToolName: "execute",
		ToolDesc: "Run a shell command against the workspace.",
		ToolParams: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"command": map[string]any{"type": "string"},
			},
			"required": []string{"command"},
		},
		Fn: func(ctx context.Context, args map[string]any) (string, error) {
			command, _ := args["command"].(string)
			if command == "" {
				return "Error: command is required", nil
			}
			resp := sb.Execute(ctx, command, secondsToDuration(timeoutSec))
			data, _ := json.Marshal(resp)
			return string(data), nil
		},
	}
}

func marshalEntries(entries []workspace.DirectoryEntry) string {
	if entries == nil {
		entries = []workspace.DirectoryEntry{}
	}
	data, _ := json.Marshal(entries)
	return string(data)
}

func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
