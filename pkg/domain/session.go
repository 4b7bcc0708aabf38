package domain

import "time"

// SessionStatus is the lifecycle state of an orchestration session.
type SessionStatus string

const (
	SessionStarted          SessionStatus = "started"
	SessionAwaitingApproval SessionStatus = "awaiting_approval"
	SessionRunning          SessionStatus = "running"
	SessionCompleted        SessionStatus = "completed"
	SessionError            SessionStatus = "error"
)

// Terminal reports whether no further transitions are possible.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionError
}

// NodeStatus is the lifecycle state of a single node within a session.
type NodeStatus string

const (
	NodeIdle         NodeStatus = "idle"
	NodeInitializing NodeStatus = "initializing"
	NodeRunning      NodeStatus = "running"
	NodeCompleted    NodeStatus = "completed"
	NodeError        NodeStatus = "error"
)

// Terminal reports whether the node finished its execution attempt.
func (s NodeStatus) Terminal() bool {
	return s == NodeCompleted || s == NodeError
}

// NodeState tracks one node's progress within a session.
type NodeState struct {
	ID        string     `json:"id"`
	Status    NodeStatus `json:"status"`
	Progress  int        `json:"progress"`
	Output    string     `json:"output,omitempty"`
	Error     string     `json:"error,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt,omitempty"`
}

// NodeUpdate is a field-scoped patch applied to one node's state.
// Nil pointer fields leave the corresponding stored field untouched,
// so concurrent sibling updates never clobber each other.
type NodeUpdate struct {
	Status   NodeStatus
	Progress int
	Output   *string
	Error    *string
}

// Session is the root aggregate of one orchestration run. It is created
// by Start, mutated through field-scoped store operations while phases
// execute, and read back whole by the polling API.
type Session struct {
	ID            string               `json:"sessionId"`
	Intent        string               `json:"intent"`
	Status        SessionStatus        `json:"status"`
	ExecutionPlan *ExecutionPlan       `json:"executionPlan,omitempty"`
	Nodes         map[string]NodeState `json:"nodes"`
	Logs          []LogEntry           `json:"logs"`
	Assets        []GeneratedAsset     `json:"assets"`
	Metadata      map[string]any       `json:"metadata,omitempty"`
	FinalResult   string               `json:"finalResult,omitempty"`
	Error         string               `json:"error,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	CompletedAt   *time.Time           `json:"completedAt,omitempty"`
}

// NewSession creates a session in the "started" state with every
// registered node idle and the orchestrator node initializing.
func NewSession(id, intent string, nodeIDs []string) *Session {
	nodes := make(map[string]NodeState, len(nodeIDs)+1)
	nodes[OrchestratorNodeID] = NodeState{ID: OrchestratorNodeID, Status: NodeInitializing}
	for _, nid := range nodeIDs {
		nodes[nid] = NodeState{ID: nid, Status: NodeIdle}
	}
	return &Session{
		ID:        id,
		Intent:    intent,
		Status:    SessionStarted,
		Nodes:     nodes,
		Logs:      []LogEntry{},
		Assets:    []GeneratedAsset{},
		CreatedAt: time.Now().UTC(),
	}
}

// Approval is the human-in-the-loop decision that releases a paused
// session into execution. Extra carries free-form console payload data.
type Approval struct {
	Approved bool           `json:"approved"`
	Notes    string         `json:"notes,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}
