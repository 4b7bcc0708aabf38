package ports

import (
	"context"

	"github.com/agenticum/agenticum/pkg/domain"
)

// SessionStore persists session documents. Implementations must provide
// two atomicity guarantees the execution engine depends on:
//
//   - UpdateNode writes are scoped to the fields of a single node, so
//     concurrent updates for different nodes never clobber each other.
//   - AppendLog and AppendAsset are append-without-read operations, so
//     concurrent appends from sibling nodes all land, in call order.
//
// A backend without these primitives needs explicit locking.
type SessionStore interface {
	// Create persists a new session document.
	// Returns domain.ErrSessionExists if the ID is already taken.
	Create(ctx context.Context, session *domain.Session) error

	// Get returns the full session aggregate.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Get(ctx context.Context, sessionID string) (*domain.Session, error)

	// List returns the known session IDs, newest first.
	List(ctx context.Context) ([]string, error)

	// UpdateNode applies a field-scoped patch to one node's state.
	UpdateNode(ctx context.Context, sessionID, nodeID string, update domain.NodeUpdate) error

	// AppendLog appends an entry to the session's log.
	AppendLog(ctx context.Context, sessionID string, entry domain.LogEntry) error

	// AppendAsset appends a generated asset to the session.
	AppendAsset(ctx context.Context, sessionID string, asset domain.GeneratedAsset) error

	// SetPlan records the execution plan and any planning metadata.
	SetPlan(ctx context.Context, sessionID string, plan domain.ExecutionPlan, metadata map[string]any) error

	// SetStatus transitions the session's lifecycle status.
	SetStatus(ctx context.Context, sessionID string, status domain.SessionStatus) error

	// Complete marks the session completed with its final result.
	Complete(ctx context.Context, sessionID, finalResult string) error

	// Fail marks the session failed with a human-readable message.
	Fail(ctx context.Context, sessionID, errMsg string) error
}
