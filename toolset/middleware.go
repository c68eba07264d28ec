package toolset

import (
	"context"
	"fmt"
	"time"

	"deepagent/agentcore"
)

// gated wraps tool so each call first runs through approval. A
// Reject short-circuits with an error string instead of invoking the
// underlying tool; a Defer is treated the same as Reject, since this
// toolset has no out-of-band channel to resume a deferred call.
func gated(tool *agentcore.FuncTool, approval agentcore.ApprovalHook) *agentcore.FuncTool {
	inner := tool.Fn
	tool.Fn = func(ctx context.Context, args map[string]any) (string, error) {
		decision := approval.Approve(agentcore.ApprovalRequest{ToolName: tool.ToolName, Args: args})
		switch decision {
		case agentcore.Approve:
			return inner(ctx, args)
		case agentcore.Reject:
			return fmt.Sprintf("Error: %s was rejected by the approval policy", tool.ToolName), nil
		default:
			return fmt.Sprintf("Error: %s requires approval and cannot proceed", tool.ToolName), nil
		}
	}
	return tool
}

const (
	evictionThreshold = 80_000
	evictionKeepChars = 2_000
)

// evict truncates results larger than evictionThreshold characters to
// a head/tail window. It is only applied to tools whose output isn't
// already a small, bounded shape — read_file, write_file, edit_file,
// ls, glob, and grep are exempt, since a truncated file body or match
// list is actively harmful to the caller. In practice only execute's
// free-form command output goes through this.
func evict(tool *agentcore.FuncTool) *agentcore.FuncTool {
	inner := tool.Fn
	tool.Fn = func(ctx context.Context, args map[string]any) (string, error) {
		out, err := inner(ctx, args)
		if err != nil || len(out) <= evictionThreshold {
			return out, err
		}
		head := out[:evictionKeepChars]
		tail := out[len(out)-evictionKeepChars:]
		return fmt.Sprintf(
			"%s\n\n... [output truncated: %d chars total, showing first and last %d] ...\n\n%s",
			head, len(out), evictionKeepChars, tail,
		), nil
	}
	return tool
}

func secondsToDuration(sec int) time.Duration {
	return time.Duration(sec) * time.Second
}
