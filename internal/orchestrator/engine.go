// Package orchestrator contains the plan-then-execute state machine:
// planning with a mandatory human approval pause, then a two-phase
// parallel fan-out over the specialist nodes.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/agenticum/agenticum/internal/memorybank"
	"github.com/agenticum/agenticum/internal/nodes"
	"github.com/agenticum/agenticum/internal/observability"
	"github.com/agenticum/agenticum/pkg/domain"
	"github.com/agenticum/agenticum/pkg/ports"
)

// Engine drives campaign sessions from intent to finished assets.
type Engine struct {
	store    ports.SessionStore
	planner  *Planner
	registry *nodes.Registry
	executor *nodes.Executor
	enricher *memorybank.Enricher
	metrics  *observability.Metrics
	logger   *slog.Logger
}

type Option func(*Engine)

// WithEnricher wires the memory bank enrichment into planning.
func WithEnricher(enricher *memorybank.Enricher) Option {
	return func(e *Engine) {
		e.enricher = enricher
	}
}

// WithMetrics attaches Prometheus collectors.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = metrics
	}
}

// WithLogger sets the application logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an engine over the given store, planner and node registry.
func New(store ports.SessionStore, planner *Planner, registry *nodes.Registry, executor *nodes.Executor, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		planner:  planner,
		registry: registry,
		executor: executor,
		metrics:  observability.NewNopMetrics(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start creates a session, plans it, and parks it at awaiting_approval.
// It never runs a node: control returns to the caller as soon as the
// plan is persisted.
func (e *Engine) Start(ctx context.Context, intent string) (string, error) {
	sessionID := uuid.NewString()
	session := domain.NewSession(sessionID, intent, e.registry.IDs())
	if err := e.store.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	e.systemLog(ctx, sessionID, domain.LogSystem, fmt.Sprintf("[SN-00] Orchestration started. Session: %s", sessionID))
	e.orchestratorProgress(ctx, sessionID, domain.NodeRunning, 10)
	e.systemLog(ctx, sessionID, domain.LogSystem, "[SN-00] Intent analysis with thinking mode...")

	enrichment := ""
	if e.enricher != nil {
		enrichment = e.enricher.Context(ctx, intent)
		if enrichment != "" {
			e.systemLog(ctx, sessionID, domain.LogSystem, "[MEMORY] Planning context loaded from memory bank.")
		}
	}
	e.orchestratorProgress(ctx, sessionID, domain.NodeRunning, 15)

	result := e.planner.Plan(ctx, intent, enrichment)
	if result.Trace != "" {
		e.systemLog(ctx, sessionID, domain.LogSystem, fmt.Sprintf("[SN-00] Thinking: %s...", truncate(result.Trace, 150)))
	}
	if result.Fallback {
		e.systemLog(ctx, sessionID, domain.LogSystem, "[SN-00] Planner output unusable, falling back to default plan.")
	}
	e.systemLog(ctx, sessionID, domain.LogSystem, fmt.Sprintf("[SN-00] Plan: Phase 1 (parallel): [%s] -> Phase 2: [%s]",
		strings.Join(result.Plan.ParallelPhase1, ", "), strings.Join(result.Plan.SequentialPhase2, ", ")))

	metadata := map[string]any{
		"planSource":   planSource(result.Fallback),
		"plannedNodes": len(result.Plan.NodeIDs()),
	}
	if result.Plan.Summary != "" {
		metadata["planSummary"] = result.Plan.Summary
	}
	if err := e.store.SetPlan(ctx, sessionID, result.Plan, metadata); err != nil {
		e.failSession(ctx, sessionID, fmt.Errorf("failed to persist plan: %w", err))
		return sessionID, nil
	}

	e.orchestratorProgress(ctx, sessionID, domain.NodeRunning, 30)
	if err := e.store.SetStatus(ctx, sessionID, domain.SessionAwaitingApproval); err != nil {
		e.failSession(ctx, sessionID, fmt.Errorf("failed to pause for approval: %w", err))
		return sessionID, nil
	}
	e.systemLog(ctx, sessionID, domain.LogSystem, "[SN-00] Plan ready. Awaiting human approval.")

	e.metrics.SessionsStarted.Inc()
	return sessionID, nil
}

// Resume releases an approved session into execution and runs it to a
// terminal status. An unknown session ID fails fast without touching
// any stored state; a rejection leaves the session paused.
func (e *Engine) Resume(ctx context.Context, sessionID string, approval domain.Approval) error {
	session, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.Status != domain.SessionAwaitingApproval {
		return domain.ErrNotAwaitingApproval
	}
	if !approval.Approved {
		return domain.ErrNotApproved
	}

	plan := domain.DefaultPlan()
	if session.ExecutionPlan != nil {
		plan = *session.ExecutionPlan
	} else {
		e.systemLog(ctx, sessionID, domain.LogWarning, "[SN-00] No persisted plan found, using default plan.")
	}

	if err := e.store.SetStatus(ctx, sessionID, domain.SessionRunning); err != nil {
		return fmt.Errorf("failed to start execution: %w", err)
	}
	e.metrics.SessionsResumed.Inc()
	e.systemLog(ctx, sessionID, domain.LogSystem, "[SN-00] Approval received. Execution starting.")
	if approval.Notes != "" {
		e.systemLog(ctx, sessionID, domain.LogInfo, fmt.Sprintf("[SN-00] Operator notes: %s", approval.Notes))
	}

	e.orchestratorProgress(ctx, sessionID, domain.NodeRunning, 40)
	phase1Results := e.runPhase(ctx, sessionID, session.Intent, plan.ParallelPhase1, map[string]string{})
	e.systemLog(ctx, sessionID, domain.LogSystem, "[SN-00] Phase 1 complete.")

	e.orchestratorProgress(ctx, sessionID, domain.NodeRunning, 70)
	e.runPhase(ctx, sessionID, session.Intent, plan.SequentialPhase2, phase1Results)

	e.orchestratorProgress(ctx, sessionID, domain.NodeCompleted, 100)
	finalResult := fmt.Sprintf("AGENTICUM G5: Orchestration complete. Session: %s. Nodes: %s",
		sessionID, strings.Join(plan.NodeIDs(), ", "))
	if err := e.store.Complete(ctx, sessionID, finalResult); err != nil {
		e.failSession(ctx, sessionID, fmt.Errorf("failed to finalize session: %w", err))
		return nil
	}
	e.systemLog(ctx, sessionID, domain.LogSuccess, "[SN-00] ORCHESTRATION COMPLETE.")
	e.metrics.SessionsFinished.WithLabelValues(string(domain.SessionCompleted)).Inc()

	if e.enricher != nil {
		summary := fmt.Sprintf("Campaign %q completed with nodes %s.", session.Intent, strings.Join(plan.NodeIDs(), ", "))
		if err := e.enricher.Archive(ctx, sessionID, session.Intent, summary); err != nil {
			e.logger.Warn("failed to archive campaign insight", "session", sessionID, "error", err)
		} else {
			e.systemLog(ctx, sessionID, domain.LogSystem, fmt.Sprintf("[MEMORY] New insight archived: %s...", truncate(summary, 50)))
		}
	}
	return nil
}

// GetSession returns the full session document for polling clients.
func (e *Engine) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	return e.store.Get(ctx, sessionID)
}

// ListSessions returns known session IDs, newest first.
func (e *Engine) ListSessions(ctx context.Context) ([]string, error) {
	return e.store.List(ctx)
}

// runPhase executes one phase's nodes in parallel and returns the
// outputs of the nodes that succeeded, keyed by node ID. Failed nodes
// are simply absent. Unknown node IDs from a lenient plan are skipped
// with a warning.
func (e *Engine) runPhase(ctx context.Context, sessionID, intent string, nodeIDs []string, previous map[string]string) map[string]string {
	var mu sync.Mutex
	results := make(map[string]string)

	g, gctx := errgroup.WithContext(ctx)
	for _, nodeID := range nodeIDs {
		node, err := e.registry.Get(nodeID)
		if err != nil {
			e.logger.Warn("plan references unknown node, skipping", "session", sessionID, "node", nodeID)
			e.systemLog(ctx, sessionID, domain.LogWarning, fmt.Sprintf("[SN-00] Unknown node %s in plan, skipping.", nodeID))
			continue
		}
		g.Go(func() error {
			result := e.executor.Run(gctx, node, nodes.Context{
				SessionID:       sessionID,
				Intent:          intent,
				PreviousOutputs: previous,
			})
			if result.Succeeded() {
				mu.Lock()
				results[result.NodeID] = result.Output.Data
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (e *Engine) orchestratorProgress(ctx context.Context, sessionID string, status domain.NodeStatus, progress int) {
	update := domain.NodeUpdate{Status: status, Progress: progress}
	if err := e.store.UpdateNode(ctx, sessionID, domain.OrchestratorNodeID, update); err != nil {
		e.logger.Warn("failed to update orchestrator progress", "session", sessionID, "error", err)
	}
}

func (e *Engine) systemLog(ctx context.Context, sessionID string, level domain.LogLevel, message string) {
	if err := e.store.AppendLog(ctx, sessionID, domain.NewLogEntry(level, domain.OrchestratorNodeID, message)); err != nil {
		e.logger.Warn("failed to append system log", "session", sessionID, "error", err)
	}
}

func (e *Engine) failSession(ctx context.Context, sessionID string, cause error) {
	e.logger.Error("session failed", "session", sessionID, "error", cause)
	if err := e.store.Fail(ctx, sessionID, cause.Error()); err != nil {
		e.logger.Error("failed to record session failure", "session", sessionID, "error", err)
	}
	e.systemLog(ctx, sessionID, domain.LogError, fmt.Sprintf("[SN-00] FAILED: %v", cause))
	e.metrics.SessionsFinished.WithLabelValues(string(domain.SessionError)).Inc()
}

func planSource(fallback bool) string {
	if fallback {
		return "fallback"
	}
	return "model"
}

// truncate cuts after n runes, never mid-sequence.
func truncate(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}
