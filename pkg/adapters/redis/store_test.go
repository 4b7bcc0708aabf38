package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenticum/agenticum/pkg/adapters/redis"
	"github.com/agenticum/agenticum/pkg/domain"
	"github.com/agenticum/agenticum/pkg/ports/tests"
)

func newTestClient(t *testing.T) *backend.Client {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return backend.NewClient(&backend.Options{Addr: mr.Addr()})
}

func TestRedisStore_Contract(t *testing.T) {
	store := redis.NewFromClient(newTestClient(t))
	tests.SessionStoreContractTest(t, store)
}

func TestRedisMemoryBank_Contract(t *testing.T) {
	bank := redis.NewMemoryBank(newTestClient(t))
	tests.MemoryBankContractTest(t, bank)
}

func TestRedisStore_Prefix(t *testing.T) {
	client := newTestClient(t)
	a := redis.NewFromClient(client, redis.WithPrefix("a:"))
	b := redis.NewFromClient(client, redis.WithPrefix("b:"))

	ctx := context.Background()
	require.NoError(t, a.Create(ctx, domain.NewSession("shared-id", "intent a", domain.WorkNodeIDs())))
	// Same ID under a different prefix is a distinct session.
	require.NoError(t, b.Create(ctx, domain.NewSession("shared-id", "intent b", domain.WorkNodeIDs())))

	got, err := a.Get(ctx, "shared-id")
	require.NoError(t, err)
	assert.Equal(t, "intent a", got.Intent)
}

func TestRedisStore_TTLCoversLists(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, redis.WithTTL(time.Hour))

	ctx := context.Background()
	require.NoError(t, store.Create(ctx, domain.NewSession("ttl-1", "intent", domain.WorkNodeIDs())))
	require.NoError(t, store.AppendLog(ctx, "ttl-1", domain.NewLogEntry(domain.LogInfo, "SN-00", "started")))
	require.NoError(t, store.AppendAsset(ctx, "ttl-1", domain.NewAsset(domain.AssetStrategy, "Strategy", "content", "SP-01", nil)))

	// Lists only come into existence on first push; they must carry the
	// same expiry as the session hash.
	assert.Greater(t, mr.TTL("agenticum:session:ttl-1"), time.Duration(0))
	assert.Greater(t, mr.TTL("agenticum:session:ttl-1:logs"), time.Duration(0))
	assert.Greater(t, mr.TTL("agenticum:session:ttl-1:assets"), time.Duration(0))
}

func TestRedisStore_SurvivesReconnect(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	first := redis.NewFromClient(backend.NewClient(&backend.Options{Addr: mr.Addr()}))
	session := domain.NewSession("persist-1", "relaunch the brand", domain.WorkNodeIDs())
	require.NoError(t, first.Create(ctx, session))
	require.NoError(t, first.SetPlan(ctx, "persist-1", domain.DefaultPlan(), nil))
	require.NoError(t, first.Close())

	// A fresh client sees the state written by the first one, which is
	// what lets approval resume a session in another process.
	second := redis.NewFromClient(backend.NewClient(&backend.Options{Addr: mr.Addr()}))
	got, err := second.Get(ctx, "persist-1")
	require.NoError(t, err)
	require.NotNil(t, got.ExecutionPlan)
	assert.Equal(t, domain.DefaultPlan().ParallelPhase1, got.ExecutionPlan.ParallelPhase1)
}
