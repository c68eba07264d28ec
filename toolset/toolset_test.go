package toolset

import (
	"context"
	"strings"
	"testing"

	"deepagent/agentcore"
	"deepagent/workspace"
)

func TestRegisterExposesCoreTools(t *testing.T) {
	b := workspace.NewStateBackend()
	state := agentcore.NewAgentState("t1", b)
	Register(state, Config{Backend: b})

	for _, name := range []string{"read_file", "write_file", "edit_file", "ls", "glob", "grep"} {
		if state.Tools().Get(name) == nil {
			t.Fatalf("expected %s to be registered", name)
		}
	}
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	b := workspace.NewStateBackend()
	state := agentcore.NewAgentState("t1", b)
	Register(state, Config{Backend: b})

	write := state.Tools().Get("write_file")
	out, err := write.Execute(context.Background(), map[string]any{"file_path": "/a.txt", "content": "hello"})
	if err != nil || strings.HasPrefix(out, "Error") {
		t.Fatalf("write_file: out=%q err=%v", out, err)
	}

	read := state.Tools().Get("read_file")
	out, err = read.Execute(context.Background(), map[string]any{"file_path": "/a.txt"})
	if err != nil || out != "     1→hello" {
		t.Fatalf("read_file: out=%q err=%v", out, err)
	}
}

func TestWriteAndEditRefreshFilesSnapshot(t *testing.T) {
	b := workspace.NewStateBackend()
	state := agentcore.NewAgentState("t1", b)
	Register(state, Config{Backend: b})

	write := state.Tools().Get("write_file")
	if _, err := write.Execute(context.Background(), map[string]any{"file_path": "/a.txt", "content": "hello"}); err != nil {
		t.Fatalf("write_file: %v", err)
	}
	if state.Files["/a.txt"] != "hello" {
		t.Fatalf("expected Files to mirror the write, got %+v", state.Files)
	}

	edit := state.Tools().Get("edit_file")
	if _, err := edit.Execute(context.Background(), map[string]any{"file_path": "/a.txt", "old_string": "hello", "new_string": "bye"}); err != nil {
		t.Fatalf("edit_file: %v", err)
	}
	if state.Files["/a.txt"] != "bye" {
		t.Fatalf("expected Files to mirror the edit, got %+v", state.Files)
	}
}

type rejectAll struct{}

func (rejectAll) Approve(agentcore.ApprovalRequest) agentcore.ApprovalDecision {
	return agentcore.Reject
}

func TestApprovalGateRejectsWrite(t *testing.T) {
	b := workspace.NewStateBackend()
	state := agentcore.NewAgentState("t1", b)
	Register(state, Config{Backend: b, Approval: rejectAll{}})

	write := state.Tools().Get("write_file")
	out, err := write.Execute(context.Background(), map[string]any{"file_path": "/a.txt", "content": "x"})
	if err != nil || !strings.Contains(out, "rejected") {
		t.Fatalf("expected rejection, got out=%q err=%v", out, err)
	}
	if entries := b.LsInfo("/a.txt"); len(entries) != 0 {
		t.Fatalf("expected no file to have been written, got %+v", entries)
	}
}

func TestReadFileIsExemptFromEviction(t *testing.T) {
	b := workspace.NewStateBackend()
	state := agentcore.NewAgentState("t1", b)
	Register(state, Config{Backend: b, Approval: agentcore.AlwaysApprove{}})

	big := strings.Repeat("x\n", 50_000)
	b.Write("/big.txt", big)

	read := state.Tools().Get("read_file")
	out, err := read.Execute(context.Background(), map[string]any{"file_path": "/big.txt", "limit": 100000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "truncated") {
		t.Fatalf("read_file output should not be evicted, got truncation marker (len=%d)", len(out))
	}
}

func TestExecuteLargeOutputIsEvicted(t *testing.T) {
	b, err := workspace.NewFilesystemBackend(t.TempDir(), true)
	if err != nil {
		t.Fatalf("NewFilesystemBackend: %v", err)
	}
	state := agentcore.NewAgentState("t1", b)
	Register(state, Config{Backend: b, Approval: agentcore.AlwaysApprove{}})

	execute := state.Tools().Get("execute")
	if execute == nil {
		t.Fatal("expected execute to be registered for a Sandbox backend")
	}
	out, err := execute.Execute(context.Background(), map[string]any{"command": "yes x | head -c 100000"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "truncated") {
		t.Fatalf("expected truncation marker in large execute output, got len=%d", len(out))
	}
}

func TestExecuteRegisteredOnlyForSandboxBackend(t *testing.T) {
	b := workspace.NewStateBackend()
	state := agentcore.NewAgentState("t1", b)
	Register(state, Config{Backend: b})

	if state.Tools().Get("execute") != nil {
		t.Fatal("StateBackend does not implement Sandbox; execute should not be registered")
	}
}
