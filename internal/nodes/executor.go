package nodes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agenticum/agenticum/internal/observability"
	"github.com/agenticum/agenticum/pkg/domain"
	"github.com/agenticum/agenticum/pkg/ports"
)

// Result is the outcome of one node execution. A failed node yields a
// Result with Err set; the executor never propagates node errors so a
// single bad node can't sink the whole phase.
type Result struct {
	NodeID string
	Output Output
	Err    error
}

// Succeeded reports whether the node delivered its output.
func (r Result) Succeeded() bool {
	return r.Err == nil
}

// Executor runs nodes through their observable lifecycle: every status
// and progress change lands in the session store before and after the
// node does its work, so pollers watch the run unfold live.
type Executor struct {
	store   ports.SessionStore
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewExecutor creates an executor writing through the given store.
func NewExecutor(store ports.SessionStore, logger *slog.Logger, metrics *observability.Metrics) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewNopMetrics()
	}
	return &Executor{store: store, logger: logger, metrics: metrics}
}

// Run executes one node. Store write failures on the happy path are
// logged and swallowed: losing a progress update must not fail a node
// that is otherwise producing.
func (e *Executor) Run(ctx context.Context, node Kind, nc Context) Result {
	start := time.Now()
	logger := e.logger.With("session", nc.SessionID, "node", node.ID())

	e.transition(ctx, nc.SessionID, node.ID(), domain.NodeInitializing, 0, nil, nil)
	e.log(ctx, nc.SessionID, domain.LogNode, node.ID(), fmt.Sprintf("%s initializing...", node.Name()))

	e.transition(ctx, nc.SessionID, node.ID(), domain.NodeRunning, 25, nil, nil)
	e.log(ctx, nc.SessionID, domain.LogNode, node.ID(), fmt.Sprintf("%s analyzing campaign intent...", node.Name()))

	output, err := node.Produce(ctx, nc)
	if err != nil {
		logger.Error("node failed", "error", err)
		errMsg := err.Error()
		e.transition(ctx, nc.SessionID, node.ID(), domain.NodeError, 0, nil, &errMsg)
		e.log(ctx, nc.SessionID, domain.LogError, node.ID(), fmt.Sprintf("%s failed: %v", node.Name(), err))
		e.metrics.NodeRuns.WithLabelValues(node.ID(), "error").Inc()
		e.metrics.NodeDuration.WithLabelValues(node.ID()).Observe(time.Since(start).Seconds())
		return Result{NodeID: node.ID(), Err: err}
	}

	e.transition(ctx, nc.SessionID, node.ID(), domain.NodeCompleted, 100, &output.Data, nil)
	e.log(ctx, nc.SessionID, domain.LogSuccess, node.ID(), fmt.Sprintf("%s completed.", node.Name()))

	if output.AssetType != "" {
		asset := domain.NewAsset(output.AssetType, output.AssetTitle, output.Data, node.ID(), output.Media)
		if err := e.store.AppendAsset(ctx, nc.SessionID, asset); err != nil {
			logger.Warn("failed to record asset", "error", err)
		}
	}

	logger.Info("node completed", "duration", time.Since(start))
	e.metrics.NodeRuns.WithLabelValues(node.ID(), "success").Inc()
	e.metrics.NodeDuration.WithLabelValues(node.ID()).Observe(time.Since(start).Seconds())
	return Result{NodeID: node.ID(), Output: output}
}

func (e *Executor) transition(ctx context.Context, sessionID, nodeID string, status domain.NodeStatus, progress int, output, errMsg *string) {
	update := domain.NodeUpdate{Status: status, Progress: progress, Output: output, Error: errMsg}
	if err := e.store.UpdateNode(ctx, sessionID, nodeID, update); err != nil {
		e.logger.Warn("failed to update node state", "session", sessionID, "node", nodeID, "error", err)
	}
}

func (e *Executor) log(ctx context.Context, sessionID string, level domain.LogLevel, source, message string) {
	if err := e.store.AppendLog(ctx, sessionID, domain.NewLogEntry(level, source, message)); err != nil {
		e.logger.Warn("failed to append log", "session", sessionID, "error", err)
	}
}
