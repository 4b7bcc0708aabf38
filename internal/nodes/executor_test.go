package nodes

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenticum/agenticum/internal/logging"
	"github.com/agenticum/agenticum/pkg/adapters/memory"
	"github.com/agenticum/agenticum/pkg/domain"
)

type stubNode struct {
	id      string
	name    string
	produce func(ctx context.Context, nc Context) (Output, error)
}

func (s *stubNode) ID() string   { return s.id }
func (s *stubNode) Name() string { return s.name }
func (s *stubNode) Produce(ctx context.Context, nc Context) (Output, error) {
	return s.produce(ctx, nc)
}

func newTestSession(t *testing.T, store *memory.Store, id string) {
	t.Helper()
	require.NoError(t, store.Create(context.Background(), domain.NewSession(id, "launch", domain.WorkNodeIDs())))
}

func TestExecutorLifecycle(t *testing.T) {
	store := memory.NewStore()
	newTestSession(t, store, "s1")
	exec := NewExecutor(store, logging.NewNop(), nil)

	node := &stubNode{
		id:   domain.StrategistNodeID,
		name: "Campaign Strategist",
		produce: func(ctx context.Context, nc Context) (Output, error) {
			return Output{Data: "the strategy", AssetType: domain.AssetStrategy, AssetTitle: "Marketing Strategy"}, nil
		},
	}

	result := exec.Run(context.Background(), node, Context{SessionID: "s1", Intent: "launch"})
	require.True(t, result.Succeeded())
	assert.Equal(t, "the strategy", result.Output.Data)

	session, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)

	state := session.Nodes[domain.StrategistNodeID]
	assert.Equal(t, domain.NodeCompleted, state.Status)
	assert.Equal(t, 100, state.Progress)
	assert.Equal(t, "the strategy", state.Output)
	assert.Empty(t, state.Error)

	require.Len(t, session.Assets, 1)
	assert.Equal(t, domain.AssetStrategy, session.Assets[0].Type)
	assert.Equal(t, domain.StrategistNodeID, session.Assets[0].GeneratedBy)

	// The lifecycle announces itself before and after producing.
	var messages []string
	for _, entry := range session.Logs {
		messages = append(messages, entry.Message)
	}
	assert.Contains(t, messages, "Campaign Strategist initializing...")
	assert.Contains(t, messages, "Campaign Strategist completed.")
}

func TestExecutorContainsFailure(t *testing.T) {
	store := memory.NewStore()
	newTestSession(t, store, "s1")
	exec := NewExecutor(store, logging.NewNop(), nil)

	node := &stubNode{
		id:   domain.AuditorNodeID,
		name: "Authority Auditor",
		produce: func(ctx context.Context, nc Context) (Output, error) {
			return Output{}, errors.New("model unreachable")
		},
	}

	result := exec.Run(context.Background(), node, Context{SessionID: "s1", Intent: "launch"})
	require.False(t, result.Succeeded())

	session, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)

	state := session.Nodes[domain.AuditorNodeID]
	assert.Equal(t, domain.NodeError, state.Status)
	assert.Equal(t, 0, state.Progress)
	assert.Equal(t, "model unreachable", state.Error)
	assert.Empty(t, session.Assets, "a failed node delivers no asset")
}

// A node run writes exactly one terminal node status, whatever happens
// inside Produce.
func TestExecutorSingleTerminalWrite(t *testing.T) {
	for name, produce := range map[string]func(ctx context.Context, nc Context) (Output, error){
		"success": func(ctx context.Context, nc Context) (Output, error) {
			return Output{Data: "ok", AssetType: domain.AssetStrategy, AssetTitle: "t"}, nil
		},
		"failure": func(ctx context.Context, nc Context) (Output, error) {
			return Output{}, errors.New("boom")
		},
	} {
		t.Run(name, func(t *testing.T) {
			store := memory.NewStore()
			newTestSession(t, store, "s1")
			exec := NewExecutor(store, logging.NewNop(), nil)

			exec.Run(context.Background(), &stubNode{id: domain.StrategistNodeID, name: "n", produce: produce}, Context{SessionID: "s1"})

			session, err := store.Get(context.Background(), "s1")
			require.NoError(t, err)
			assert.True(t, session.Nodes[domain.StrategistNodeID].Status.Terminal())
		})
	}
}
