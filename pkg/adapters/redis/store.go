// Package redis implements the storage ports on Redis. Session state is
// laid out so that concurrently running nodes never overwrite each
// other: every node field is its own hash field and logs/assets are
// append-only lists.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/agenticum/agenticum/pkg/domain"
)

// Store implements ports.SessionStore using Redis.
//
// Layout per session:
//
//	{prefix}{id}         hash: intent, status, plan, metadata, node:* fields
//	{prefix}{id}:logs    list of JSON log entries
//	{prefix}{id}:assets  list of JSON assets
//	{prefix}index        zset of session IDs scored by creation time
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for sessions.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for sessions.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Redis store with its own client.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "agenticum:session:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying Redis client so other adapters can
// share a single connection pool.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s *Store) logsKey(sessionID string) string {
	return s.prefix + sessionID + ":logs"
}

func (s *Store) assetsKey(sessionID string) string {
	return s.prefix + sessionID + ":assets"
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

func nodeField(nodeID, field string) string {
	return "node:" + nodeID + ":" + field
}

// Create persists a new session. Fails with domain.ErrSessionExists
// when the session ID is already taken.
func (s *Store) Create(ctx context.Context, session *domain.Session) error {
	created, err := s.client.HSetNX(ctx, s.key(session.ID), "createdAt", session.CreatedAt.Format(time.RFC3339Nano)).Result()
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	if !created {
		return domain.ErrSessionExists
	}

	fields := map[string]any{
		"intent": session.Intent,
		"status": string(session.Status),
	}
	for nodeID, node := range session.Nodes {
		fields[nodeField(nodeID, "status")] = string(node.Status)
		fields[nodeField(nodeID, "progress")] = node.Progress
		fields[nodeField(nodeID, "updatedAt")] = node.UpdatedAt.Format(time.RFC3339Nano)
	}

	pipe := s.client.Pipeline()
	pipe.HSet(ctx, s.key(session.ID), fields)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  float64(session.CreatedAt.UnixMilli()),
		Member: session.ID,
	})
	if s.ttl > 0 {
		// The log/asset lists do not exist yet; they get their TTL on
		// first push instead.
		pipe.Expire(ctx, s.key(session.ID), s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session to redis: %w", err)
	}

	// Initial logs on a freshly built session are appended in order.
	for _, entry := range session.Logs {
		if err := s.AppendLog(ctx, session.ID, entry); err != nil {
			return err
		}
	}
	return nil
}

// Get reassembles a session from its hash and lists.
func (s *Store) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	fields, err := s.client.HGetAll(ctx, s.key(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrSessionNotFound
	}

	session := &domain.Session{
		ID:     sessionID,
		Intent: fields["intent"],
		Status: domain.SessionStatus(fields["status"]),
		Nodes:  make(map[string]domain.NodeState),
		Logs:   []domain.LogEntry{},
		Assets: []domain.GeneratedAsset{},
	}
	if raw := fields["createdAt"]; raw != "" {
		session.CreatedAt, _ = time.Parse(time.RFC3339Nano, raw)
	}
	if raw := fields["completedAt"]; raw != "" {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			session.CompletedAt = &t
		}
	}
	session.FinalResult = fields["finalResult"]
	session.Error = fields["error"]
	if raw := fields["plan"]; raw != "" {
		var plan domain.ExecutionPlan
		if err := json.Unmarshal([]byte(raw), &plan); err != nil {
			return nil, fmt.Errorf("failed to unmarshal plan: %w", err)
		}
		session.ExecutionPlan = &plan
	}
	if raw := fields["metadata"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &session.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	for field, value := range fields {
		if !strings.HasPrefix(field, "node:") {
			continue
		}
		parts := strings.SplitN(field, ":", 3)
		if len(parts) != 3 {
			continue
		}
		nodeID, attr := parts[1], parts[2]
		node := session.Nodes[nodeID]
		node.ID = nodeID
		switch attr {
		case "status":
			node.Status = domain.NodeStatus(value)
		case "progress":
			node.Progress, _ = strconv.Atoi(value)
		case "output":
			node.Output = value
		case "error":
			node.Error = value
		case "updatedAt":
			node.UpdatedAt, _ = time.Parse(time.RFC3339Nano, value)
		}
		session.Nodes[nodeID] = node
	}

	rawLogs, err := s.client.LRange(ctx, s.logsKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load logs: %w", err)
	}
	for _, raw := range rawLogs {
		var entry domain.LogEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal log entry: %w", err)
		}
		session.Logs = append(session.Logs, entry)
	}

	rawAssets, err := s.client.LRange(ctx, s.assetsKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}
	for _, raw := range rawAssets {
		var asset domain.GeneratedAsset
		if err := json.Unmarshal([]byte(raw), &asset); err != nil {
			return nil, fmt.Errorf("failed to unmarshal asset: %w", err)
		}
		session.Assets = append(session.Assets, asset)
	}

	return session, nil
}

// List returns session IDs, newest first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return ids, nil
}

// UpdateNode writes only the touched fields of one node's hash entries,
// so parallel nodes never clobber each other.
func (s *Store) UpdateNode(ctx context.Context, sessionID, nodeID string, update domain.NodeUpdate) error {
	if err := s.exists(ctx, sessionID); err != nil {
		return err
	}

	fields := map[string]any{
		nodeField(nodeID, "status"):    string(update.Status),
		nodeField(nodeID, "progress"):  update.Progress,
		nodeField(nodeID, "updatedAt"): time.Now().UTC().Format(time.RFC3339Nano),
	}
	if update.Output != nil {
		fields[nodeField(nodeID, "output")] = *update.Output
	}
	if update.Error != nil {
		fields[nodeField(nodeID, "error")] = *update.Error
	}

	if err := s.client.HSet(ctx, s.key(sessionID), fields).Err(); err != nil {
		return fmt.Errorf("failed to update node %s: %w", nodeID, err)
	}
	return nil
}

// AppendLog pushes a log entry without reading the existing list.
func (s *Store) AppendLog(ctx context.Context, sessionID string, entry domain.LogEntry) error {
	if err := s.exists(ctx, sessionID); err != nil {
		return err
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}
	if err := s.push(ctx, s.logsKey(sessionID), data); err != nil {
		return fmt.Errorf("failed to append log: %w", err)
	}
	return nil
}

// AppendAsset pushes an asset without reading the existing list.
func (s *Store) AppendAsset(ctx context.Context, sessionID string, asset domain.GeneratedAsset) error {
	if err := s.exists(ctx, sessionID); err != nil {
		return err
	}

	data, err := json.Marshal(asset)
	if err != nil {
		return fmt.Errorf("failed to marshal asset: %w", err)
	}
	if err := s.push(ctx, s.assetsKey(sessionID), data); err != nil {
		return fmt.Errorf("failed to append asset: %w", err)
	}
	return nil
}

// push appends to a list, keeping its TTL in line with the session
// hash. EXPIRE in Create would be a no-op on the not-yet-existing
// lists, so the TTL is (re)set on every push.
func (s *Store) push(ctx context.Context, key string, data []byte) error {
	if s.ttl <= 0 {
		return s.client.RPush(ctx, key, data).Err()
	}
	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// SetPlan stores the execution plan and merges planning metadata.
func (s *Store) SetPlan(ctx context.Context, sessionID string, plan domain.ExecutionPlan, metadata map[string]any) error {
	if err := s.exists(ctx, sessionID); err != nil {
		return err
	}

	planData, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	fields := map[string]any{"plan": planData}

	if len(metadata) > 0 {
		merged := map[string]any{}
		if raw, err := s.client.HGet(ctx, s.key(sessionID), "metadata").Result(); err == nil && raw != "" {
			_ = json.Unmarshal([]byte(raw), &merged)
		}
		for k, v := range metadata {
			merged[k] = v
		}
		metaData, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		fields["metadata"] = metaData
	}

	if err := s.client.HSet(ctx, s.key(sessionID), fields).Err(); err != nil {
		return fmt.Errorf("failed to set plan: %w", err)
	}
	return nil
}

// SetStatus transitions the session's status.
func (s *Store) SetStatus(ctx context.Context, sessionID string, status domain.SessionStatus) error {
	if err := s.exists(ctx, sessionID); err != nil {
		return err
	}
	if err := s.client.HSet(ctx, s.key(sessionID), "status", string(status)).Err(); err != nil {
		return fmt.Errorf("failed to set status: %w", err)
	}
	return nil
}

// Complete marks the session completed.
func (s *Store) Complete(ctx context.Context, sessionID, finalResult string) error {
	if err := s.exists(ctx, sessionID); err != nil {
		return err
	}
	fields := map[string]any{
		"status":      string(domain.SessionCompleted),
		"finalResult": finalResult,
		"completedAt": time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := s.client.HSet(ctx, s.key(sessionID), fields).Err(); err != nil {
		return fmt.Errorf("failed to complete session: %w", err)
	}
	return nil
}

// Fail marks the session failed.
func (s *Store) Fail(ctx context.Context, sessionID, errMsg string) error {
	if err := s.exists(ctx, sessionID); err != nil {
		return err
	}
	fields := map[string]any{
		"status":      string(domain.SessionError),
		"error":       errMsg,
		"completedAt": time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := s.client.HSet(ctx, s.key(sessionID), fields).Err(); err != nil {
		return fmt.Errorf("failed to fail session: %w", err)
	}
	return nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) exists(ctx context.Context, sessionID string) error {
	n, err := s.client.Exists(ctx, s.key(sessionID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check session existence: %w", err)
	}
	if n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}
