package tests

import (
	"context"
	"testing"

	"github.com/agenticum/agenticum/pkg/domain"
	"github.com/agenticum/agenticum/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SessionStoreContractTest is a reusable suite that verifies an adapter
// complies with ports.SessionStore, including the field-scoped update
// and append-without-read semantics the execution engine relies on.
func SessionStoreContractTest(t *testing.T, store ports.SessionStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get_NotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "no-such-session")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Create_And_Get", func(t *testing.T) {
		s := domain.NewSession("contract-1", "launch something", domain.WorkNodeIDs())
		require.NoError(t, store.Create(ctx, s))

		got, err := store.Get(ctx, "contract-1")
		require.NoError(t, err)
		assert.Equal(t, "contract-1", got.ID)
		assert.Equal(t, "launch something", got.Intent)
		assert.Equal(t, domain.SessionStarted, got.Status)
		assert.Len(t, got.Nodes, len(domain.WorkNodeIDs())+1)
		assert.Equal(t, domain.NodeIdle, got.Nodes[domain.StrategistNodeID].Status)
		assert.Empty(t, got.Logs)
		assert.Empty(t, got.Assets)
	})

	t.Run("Create_Duplicate", func(t *testing.T) {
		s := domain.NewSession("contract-dup", "x", domain.WorkNodeIDs())
		require.NoError(t, store.Create(ctx, s))
		assert.ErrorIs(t, store.Create(ctx, s), domain.ErrSessionExists)
	})

	t.Run("UpdateNode_FieldScoped", func(t *testing.T) {
		s := domain.NewSession("contract-node", "x", domain.WorkNodeIDs())
		require.NoError(t, store.Create(ctx, s))

		out := "strategy text"
		require.NoError(t, store.UpdateNode(ctx, "contract-node", domain.StrategistNodeID, domain.NodeUpdate{
			Status: domain.NodeCompleted, Progress: 100, Output: &out,
		}))
		// A sibling update must not disturb the strategist's fields.
		require.NoError(t, store.UpdateNode(ctx, "contract-node", domain.AuditorNodeID, domain.NodeUpdate{
			Status: domain.NodeRunning, Progress: 25,
		}))

		got, err := store.Get(ctx, "contract-node")
		require.NoError(t, err)
		assert.Equal(t, domain.NodeCompleted, got.Nodes[domain.StrategistNodeID].Status)
		assert.Equal(t, 100, got.Nodes[domain.StrategistNodeID].Progress)
		assert.Equal(t, "strategy text", got.Nodes[domain.StrategistNodeID].Output)
		assert.Equal(t, domain.NodeRunning, got.Nodes[domain.AuditorNodeID].Status)
		// Untouched nodes keep their defaults.
		assert.Equal(t, domain.NodeIdle, got.Nodes[domain.VideoDirectorNodeID].Status)
	})

	t.Run("UpdateNode_NilOutputKeepsOutput", func(t *testing.T) {
		s := domain.NewSession("contract-keep", "x", domain.WorkNodeIDs())
		require.NoError(t, store.Create(ctx, s))

		out := "kept"
		require.NoError(t, store.UpdateNode(ctx, "contract-keep", domain.StrategistNodeID, domain.NodeUpdate{
			Status: domain.NodeCompleted, Progress: 100, Output: &out,
		}))
		require.NoError(t, store.UpdateNode(ctx, "contract-keep", domain.StrategistNodeID, domain.NodeUpdate{
			Status: domain.NodeCompleted, Progress: 100,
		}))

		got, err := store.Get(ctx, "contract-keep")
		require.NoError(t, err)
		assert.Equal(t, "kept", got.Nodes[domain.StrategistNodeID].Output)
	})

	t.Run("Appends_PreserveOrder", func(t *testing.T) {
		s := domain.NewSession("contract-append", "x", domain.WorkNodeIDs())
		require.NoError(t, store.Create(ctx, s))

		for _, msg := range []string{"first", "second", "third"} {
			require.NoError(t, store.AppendLog(ctx, "contract-append", domain.NewLogEntry(domain.LogSystem, domain.SystemSource, msg)))
		}
		require.NoError(t, store.AppendAsset(ctx, "contract-append",
			domain.NewAsset(domain.AssetStrategy, "Strategy", "body", domain.StrategistNodeID, nil)))

		got, err := store.Get(ctx, "contract-append")
		require.NoError(t, err)
		require.Len(t, got.Logs, 3)
		assert.Equal(t, "first", got.Logs[0].Message)
		assert.Equal(t, "second", got.Logs[1].Message)
		assert.Equal(t, "third", got.Logs[2].Message)
		require.Len(t, got.Assets, 1)
		assert.Equal(t, domain.AssetStrategy, got.Assets[0].Type)
	})

	t.Run("Plan_RoundTrip", func(t *testing.T) {
		s := domain.NewSession("contract-plan", "x", domain.WorkNodeIDs())
		require.NoError(t, store.Create(ctx, s))

		plan := domain.DefaultPlan()
		meta := map[string]any{"projectedReach": "2.4M"}
		require.NoError(t, store.SetPlan(ctx, "contract-plan", plan, meta))
		require.NoError(t, store.SetStatus(ctx, "contract-plan", domain.SessionAwaitingApproval))

		got, err := store.Get(ctx, "contract-plan")
		require.NoError(t, err)
		require.NotNil(t, got.ExecutionPlan)
		assert.Equal(t, plan.ParallelPhase1, got.ExecutionPlan.ParallelPhase1)
		assert.Equal(t, plan.SequentialPhase2, got.ExecutionPlan.SequentialPhase2)
		assert.Equal(t, domain.SessionAwaitingApproval, got.Status)
		assert.Equal(t, "2.4M", got.Metadata["projectedReach"])
	})

	t.Run("Terminal_Writes", func(t *testing.T) {
		done := domain.NewSession("contract-done", "x", domain.WorkNodeIDs())
		require.NoError(t, store.Create(ctx, done))
		require.NoError(t, store.Complete(ctx, "contract-done", "all wrapped up"))

		got, err := store.Get(ctx, "contract-done")
		require.NoError(t, err)
		assert.Equal(t, domain.SessionCompleted, got.Status)
		assert.Equal(t, "all wrapped up", got.FinalResult)
		assert.NotNil(t, got.CompletedAt)

		failed := domain.NewSession("contract-failed", "x", domain.WorkNodeIDs())
		require.NoError(t, store.Create(ctx, failed))
		require.NoError(t, store.Fail(ctx, "contract-failed", "store unreachable"))

		got, err = store.Get(ctx, "contract-failed")
		require.NoError(t, err)
		assert.Equal(t, domain.SessionError, got.Status)
		assert.Equal(t, "store unreachable", got.Error)
	})

	t.Run("List_ContainsCreated", func(t *testing.T) {
		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, "contract-1")
	})
}

// MemoryBankContractTest verifies an adapter complies with ports.MemoryBank.
func MemoryBankContractTest(t *testing.T, bank ports.MemoryBank) {
	t.Helper()
	ctx := context.Background()

	t.Run("Query_EmptyIsNotAnError", func(t *testing.T) {
		entries, err := bank.QueryInsights(ctx, []string{"nothing-matches-this"})
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("Save_And_Query", func(t *testing.T) {
		require.NoError(t, bank.SaveInsight(ctx, domain.MemoryEntry{
			Type:            domain.MemoryInsight,
			Content:         "short videos outperform static posts",
			SourceSessionID: "s-1",
			RelevanceTags:   []string{"video", "social"},
		}))
		require.NoError(t, bank.SaveInsight(ctx, domain.MemoryEntry{
			Type:            domain.MemoryFact,
			Content:         "launch windows matter",
			SourceSessionID: "s-2",
			RelevanceTags:   []string{"timing"},
		}))

		entries, err := bank.QueryInsights(ctx, []string{"video"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "short videos outperform static posts", entries[0].Content)
	})

	t.Run("BrandGuidance_HasDefault", func(t *testing.T) {
		guidance, err := bank.BrandGuidance(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, guidance)
	})
}
