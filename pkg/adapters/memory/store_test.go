package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenticum/agenticum/pkg/domain"
	"github.com/agenticum/agenticum/pkg/ports/tests"
)

func TestStoreContract(t *testing.T) {
	tests.SessionStoreContractTest(t, NewStore())
}

func TestMemoryBankContract(t *testing.T) {
	tests.MemoryBankContractTest(t, NewMemoryBank())
}

func TestGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.Create(ctx, domain.NewSession("copy-1", "x", domain.WorkNodeIDs())))

	first, err := store.Get(ctx, "copy-1")
	require.NoError(t, err)
	first.Intent = "mutated"
	first.Nodes[domain.StrategistNodeID] = domain.NodeState{ID: domain.StrategistNodeID, Status: domain.NodeError}
	first.Logs = append(first.Logs, domain.NewLogEntry(domain.LogInfo, "x", "stray"))

	second, err := store.Get(ctx, "copy-1")
	require.NoError(t, err)
	assert.Equal(t, "x", second.Intent)
	assert.Equal(t, domain.NodeIdle, second.Nodes[domain.StrategistNodeID].Status)
	assert.Empty(t, second.Logs)
}

func TestBlobStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	blobs := NewBlobStore()

	url, err := blobs.Upload(ctx, []byte{0x89, 0x50, 0x4e, 0x47}, "image/png", "copy-1/DA-03/visual.png")
	require.NoError(t, err)
	assert.Equal(t, "/assets/copy-1/DA-03/visual.png", url)

	data, mimeType, err := blobs.Open(ctx, "copy-1/DA-03/visual.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)
	assert.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, data)

	_, _, err = blobs.Open(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)
}
