package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/agenticum/agenticum/internal/llmtext"
	"github.com/agenticum/agenticum/pkg/domain"
	"github.com/agenticum/agenticum/pkg/ports"
)

// PlanResult is the planner's verdict: either the model's plan or the
// hard-coded default. Planning is advisory, execution always proceeds.
type PlanResult struct {
	Plan     domain.ExecutionPlan
	Trace    string
	Fallback bool
}

// Planner asks the model to assign nodes to the two execution phases.
type Planner struct {
	text   ports.TextGenerator
	logger *slog.Logger
}

// NewPlanner creates a planner over the given text generator.
func NewPlanner(text ports.TextGenerator, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{text: text, logger: logger}
}

// Plan produces an execution plan for the intent. Any failure along the
// way, a dead model, unparseable output, a plan missing either phase,
// yields the default plan instead of an error.
func (p *Planner) Plan(ctx context.Context, intent, enrichment string) PlanResult {
	prompt := fmt.Sprintf(`Analyze this marketing request and create an execution plan:

Request: %q
%s
Decide which nodes to activate and in which order.
Available nodes: SP-01 (Strategy), CC-06 (Video), RA-01 (Research), DA-03 (Design)
Rule: SP-01 and RA-01 can run in parallel in phase 1. CC-06 and DA-03 need SP-01 output and run in parallel in phase 2.

Answer in JSON format:
{ "summary": "...", "parallel_phase_1": ["SP-01", "RA-01"], "sequential_phase_2": ["CC-06", "DA-03"] }`,
		intent, enrichmentSection(enrichment))

	result, err := p.text.GenerateWithTrace(ctx, prompt)
	if err != nil {
		p.logger.Warn("planning call failed, using default plan", "error", err)
		return PlanResult{Plan: domain.DefaultPlan(), Fallback: true}
	}

	raw := llmtext.ExtractObject(result.Text)
	if raw == "" {
		p.logger.Warn("planning response contained no JSON, using default plan")
		return PlanResult{Plan: domain.DefaultPlan(), Trace: result.Trace, Fallback: true}
	}

	var plan domain.ExecutionPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil || !plan.Valid() {
		p.logger.Warn("planning response unusable, using default plan", "error", err)
		return PlanResult{Plan: domain.DefaultPlan(), Trace: result.Trace, Fallback: true}
	}

	return PlanResult{Plan: plan, Trace: result.Trace}
}

func enrichmentSection(enrichment string) string {
	if enrichment == "" {
		return ""
	}
	return fmt.Sprintf("\nContext from the memory bank:\n%s\n", enrichment)
}
