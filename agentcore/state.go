package agentcore

import (
	"sync"

	"deepagent/skills"
	"deepagent/workspace"
)

// Todo is one task tracked by the planner toolset.
type Todo struct {
	Content    string `json:"content"`
	Status     string `json:"status"`      // "pending", "in_progress", "completed"
	ActiveForm string `json:"active_form"` // present-continuous form shown while in_progress
}

// AgentState is the mutable state shared by every subsystem bound to
// one agent session: the workspace backend it operates against, its
// todo list, its discovered skills, the tools registered for it, and
// the handles of any subagents it has spawned.
type AgentState struct {
	ThreadID string
	Backend  workspace.Backend

	mu        sync.Mutex
	todos     []Todo
	skills    []skills.Skill
	tools     *ToolRegistry
	subagents map[string]*AgentState
	// Files mirrors the content of every file in an in-memory
	// (StateBackend) workspace, keyed by logical path. The write_file and
	// edit_file tools replace it with a fresh backend snapshot after each
	// successful call; it stays empty for other backends. It is used to
	// build the prompt's workspace summary without round-tripping
	// through the backend.
	Files map[string]string
}

// NewAgentState creates a session bound to backend.
func NewAgentState(threadID string, backend workspace.Backend) *AgentState {
	return &AgentState{
		ThreadID:  threadID,
		Backend:   backend,
		tools:     NewToolRegistry(),
		subagents: make(map[string]*AgentState),
		Files:     make(map[string]string),
	}
}

// Tools returns the session's tool registry.
func (s *AgentState) Tools() *ToolRegistry {
	return s.tools
}

// Todos returns a copy of the current todo list.
func (s *AgentState) Todos() []Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Todo(nil), s.todos...)
}

// SetTodos replaces the todo list wholesale, mirroring the write_todos
// tool contract: callers always submit the complete list.
func (s *AgentState) SetTodos(todos []Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = todos
}

// Skills returns a copy of the discovered skill catalog.
func (s *AgentState) Skills() []skills.Skill {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]skills.Skill(nil), s.skills...)
}

// SetSkills replaces the discovered skill catalog.
func (s *AgentState) SetSkills(catalog []skills.Skill) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skills = catalog
}

// Subagent returns the cached handle for name, creating a fresh
// session over the same backend on first access. Subagent sessions
// share the parent's workspace but keep independent todo/tool state.
func (s *AgentState) Subagent(name string) *AgentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if handle, ok := s.subagents[name]; ok {
		return handle
	}
	handle := NewAgentState(s.ThreadID+"/"+name, s.Backend)
	s.subagents[name] = handle
	return handle
}
