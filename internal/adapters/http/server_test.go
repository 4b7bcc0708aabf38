package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenticum/agenticum/internal/logging"
	"github.com/agenticum/agenticum/internal/nodes"
	"github.com/agenticum/agenticum/internal/orchestrator"
	"github.com/agenticum/agenticum/pkg/adapters/memory"
	"github.com/agenticum/agenticum/pkg/domain"
	"github.com/agenticum/agenticum/pkg/ports"
)

type fakeText struct {
	generate func(prompt string) (string, error)
}

func (f *fakeText) Generate(ctx context.Context, prompt string) (string, error) {
	if f.generate == nil {
		return "", errors.New("generate not scripted")
	}
	return f.generate(prompt)
}

func (f *fakeText) GenerateGrounded(ctx context.Context, prompt string) (ports.GroundedResult, error) {
	return ports.GroundedResult{}, errors.New("not scripted")
}

func (f *fakeText) GenerateWithTrace(ctx context.Context, prompt string) (ports.TraceResult, error) {
	return ports.TraceResult{Text: `{"parallel_phase_1":["SP-01","RA-01"],"sequential_phase_2":["CC-06","DA-03"]}`}, nil
}

type okNode struct{ id string }

func (n *okNode) ID() string   { return n.id }
func (n *okNode) Name() string { return n.id }
func (n *okNode) Produce(ctx context.Context, nc nodes.Context) (nodes.Output, error) {
	return nodes.Output{Data: n.id + " output", AssetType: domain.AssetStrategy, AssetTitle: n.id}, nil
}

func newTestServer(t *testing.T) (*Server, *memory.Store, *orchestrator.Dispatcher) {
	t.Helper()

	store := memory.NewStore()
	logger := logging.NewNop()

	var kinds []nodes.Kind
	for _, id := range domain.WorkNodeIDs() {
		kinds = append(kinds, &okNode{id: id})
	}
	registry := nodes.NewRegistry(kinds...)

	text := &fakeText{generate: func(prompt string) (string, error) {
		return `{"winner":"A","metricsA":{"engagement":70},"metricsB":{"engagement":50},"confidence":0.7,"roiLift":"+9%"}`, nil
	}}
	engine := orchestrator.New(store, orchestrator.NewPlanner(text, logger), registry,
		nodes.NewExecutor(store, logger, nil), orchestrator.WithLogger(logger))

	dispatcher := orchestrator.NewDispatcher(engine, 1, 4, logger)
	t.Cleanup(dispatcher.Close)

	server := NewServer(engine, dispatcher,
		WithEvaluator(orchestrator.NewEvaluator(text)),
		WithBlobStore(memory.NewBlobStore()),
		WithLogger(logger),
	)
	return server, store, dispatcher
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestOrchestrateAndPoll(t *testing.T) {
	server, _, _ := newTestServer(t)
	handler := server.Handler()

	rec := postJSON(t, handler, "/api/orchestrate", map[string]string{"intent": "Launch a productivity app"})
	require.Equal(t, http.StatusAccepted, rec.Code)

	var started struct {
		SessionID string `json:"sessionId"`
		Status    string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
	require.NotEmpty(t, started.SessionID)

	rec = get(t, handler, "/api/sessions/"+started.SessionID)
	require.Equal(t, http.StatusOK, rec.Code)

	var session domain.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Equal(t, domain.SessionAwaitingApproval, session.Status)
	require.NotNil(t, session.ExecutionPlan)

	rec = get(t, handler, "/api/sessions")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), started.SessionID)
}

func TestApproveQueuesResume(t *testing.T) {
	server, store, _ := newTestServer(t)
	handler := server.Handler()

	rec := postJSON(t, handler, "/api/orchestrate", map[string]string{"intent": "Launch"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	var started struct {
		SessionID string `json:"sessionId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))

	rec = postJSON(t, handler, "/api/sessions/"+started.SessionID+"/approve", domain.Approval{Approved: true})
	require.Equal(t, http.StatusAccepted, rec.Code)

	// The resume runs in the background; poll the store for the result.
	deadline := time.Now().Add(2 * time.Second)
	for {
		session, err := store.Get(context.Background(), started.SessionID)
		require.NoError(t, err)
		if session.Status.Terminal() {
			assert.Equal(t, domain.SessionCompleted, session.Status)
			break
		}
		require.True(t, time.Now().Before(deadline), "session never completed")
		time.Sleep(5 * time.Millisecond)
	}
}

func TestApproveValidation(t *testing.T) {
	server, _, _ := newTestServer(t)
	handler := server.Handler()

	rec := postJSON(t, handler, "/api/sessions/missing/approve", domain.Approval{Approved: true})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = postJSON(t, handler, "/api/orchestrate", map[string]string{"intent": "Launch"})
	var started struct {
		SessionID string `json:"sessionId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))

	rec = postJSON(t, handler, "/api/sessions/"+started.SessionID+"/approve", domain.Approval{Approved: false})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrchestrateRequiresIntent(t *testing.T) {
	server, _, _ := newTestServer(t)
	rec := postJSON(t, server.Handler(), "/api/orchestrate", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestABTestEndpoint(t *testing.T) {
	server, _, _ := newTestServer(t)
	handler := server.Handler()

	rec := postJSON(t, handler, "/api/abtest", map[string]string{"assetA": "copy A", "assetB": "copy B"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"winner":"A"`)

	rec = postJSON(t, handler, "/api/abtest", map[string]string{"assetA": "only one"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssetServing(t *testing.T) {
	server, _, _ := newTestServer(t)
	blobs := memory.NewBlobStore()
	server.blobs = blobs
	handler := server.Handler()

	url, err := blobs.Upload(context.Background(), []byte("img"), "image/png", "s1/DA-03/hero.png")
	require.NoError(t, err)

	rec := get(t, handler, url)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "img", rec.Body.String())

	rec = get(t, handler, "/assets/missing.png")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndCORS(t *testing.T) {
	server, _, _ := newTestServer(t)
	handler := server.Handler()

	rec := get(t, handler, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodOptions, "/api/orchestrate", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
