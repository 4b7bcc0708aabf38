package nodes

import (
	"context"
	"fmt"

	"github.com/agenticum/agenticum/pkg/domain"
	"github.com/agenticum/agenticum/pkg/ports"
)

// Auditor runs the competitive audit against live market data.
type Auditor struct {
	text  ports.TextGenerator
	store ports.SessionStore
}

// NewAuditor creates the research node.
func NewAuditor(text ports.TextGenerator, store ports.SessionStore) *Auditor {
	return &Auditor{text: text, store: store}
}

func (a *Auditor) ID() string   { return domain.AuditorNodeID }
func (a *Auditor) Name() string { return "Authority Auditor" }

func (a *Auditor) Produce(ctx context.Context, nc Context) (Output, error) {
	appendNodeLog(ctx, a.store, nc.SessionID, a.ID(), domain.LogInfo,
		"Competitor audit, loading real-time market data...")

	prompt := fmt.Sprintf(`You are a market researcher and competitive analyst.

Campaign: %q

Run a thorough competitive audit:
1. Identify the 3-5 most important competitors
2. Analyze their current marketing strategies
3. Find market gaps
4. Rate each competitor's authority
5. Recommend a differentiation strategy

Use current data. Stay fact-based.`, nc.Intent)

	result, err := a.text.GenerateGrounded(ctx, prompt)
	if err != nil {
		return Output{}, fmt.Errorf("competitive audit failed: %w", err)
	}

	appendNodeLog(ctx, a.store, nc.SessionID, a.ID(), domain.LogInfo,
		fmt.Sprintf("Audit complete. %d sources verified.", len(result.Sources)))

	return Output{
		Data:       withSources(result.Text, result.Sources),
		AssetType:  domain.AssetResearchReport,
		AssetTitle: "Competitive Intelligence Report",
	}, nil
}

// appendNodeLog is best-effort: a lost log line never fails a node.
func appendNodeLog(ctx context.Context, store ports.SessionStore, sessionID, nodeID string, level domain.LogLevel, message string) {
	_ = store.AppendLog(ctx, sessionID, domain.NewLogEntry(level, nodeID, message))
}
