// Package memory provides in-memory implementations of the storage
// ports. They are the default for tests and single-process demo runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/agenticum/agenticum/pkg/domain"
)

// Store implements ports.SessionStore in memory.
// Safe for concurrent use: a single mutex serializes every mutation,
// which trivially satisfies the field-scoped-update and append
// atomicity contract.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	order    []string
}

// NewStore creates an empty in-memory session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*domain.Session)}
}

// Create persists a deep copy of the session.
func (s *Store) Create(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return domain.ErrSessionExists
	}
	s.sessions[session.ID] = copySession(session)
	s.order = append(s.order, session.ID)
	return nil
}

// Get returns a deep copy so callers can't mutate stored state by pointer.
func (s *Store) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return copySession(session), nil
}

// List returns session IDs, newest first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, len(s.order))
	copy(ids, s.order)
	sort.SliceStable(ids, func(i, j int) bool {
		return s.sessions[ids[i]].CreatedAt.After(s.sessions[ids[j]].CreatedAt)
	})
	return ids, nil
}

// UpdateNode applies a field-scoped patch to one node entry.
func (s *Store) UpdateNode(ctx context.Context, sessionID, nodeID string, update domain.NodeUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}

	node := session.Nodes[nodeID]
	node.ID = nodeID
	node.Status = update.Status
	node.Progress = update.Progress
	if update.Output != nil {
		node.Output = *update.Output
	}
	if update.Error != nil {
		node.Error = *update.Error
	}
	node.UpdatedAt = time.Now().UTC()
	session.Nodes[nodeID] = node
	return nil
}

// AppendLog appends an entry to the session's log.
func (s *Store) AppendLog(ctx context.Context, sessionID string, entry domain.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.Logs = append(session.Logs, entry)
	return nil
}

// AppendAsset appends a generated asset to the session.
func (s *Store) AppendAsset(ctx context.Context, sessionID string, asset domain.GeneratedAsset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.Assets = append(session.Assets, asset)
	return nil
}

// SetPlan records the execution plan and planning metadata.
func (s *Store) SetPlan(ctx context.Context, sessionID string, plan domain.ExecutionPlan, metadata map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	p := plan
	session.ExecutionPlan = &p
	if len(metadata) > 0 {
		if session.Metadata == nil {
			session.Metadata = make(map[string]any, len(metadata))
		}
		for k, v := range metadata {
			session.Metadata[k] = v
		}
	}
	return nil
}

// SetStatus transitions the session's status.
func (s *Store) SetStatus(ctx context.Context, sessionID string, status domain.SessionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.Status = status
	return nil
}

// Complete marks the session completed.
func (s *Store) Complete(ctx context.Context, sessionID, finalResult string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	now := time.Now().UTC()
	session.Status = domain.SessionCompleted
	session.FinalResult = finalResult
	session.CompletedAt = &now
	return nil
}

// Fail marks the session failed.
func (s *Store) Fail(ctx context.Context, sessionID, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	now := time.Now().UTC()
	session.Status = domain.SessionError
	session.Error = errMsg
	session.CompletedAt = &now
	return nil
}

func copySession(in *domain.Session) *domain.Session {
	out := *in
	out.Nodes = make(map[string]domain.NodeState, len(in.Nodes))
	for k, v := range in.Nodes {
		out.Nodes[k] = v
	}
	out.Logs = append([]domain.LogEntry(nil), in.Logs...)
	out.Assets = append([]domain.GeneratedAsset(nil), in.Assets...)
	if in.ExecutionPlan != nil {
		p := *in.ExecutionPlan
		out.ExecutionPlan = &p
	}
	if in.Metadata != nil {
		out.Metadata = make(map[string]any, len(in.Metadata))
		for k, v := range in.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}
