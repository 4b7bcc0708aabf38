package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agenticum/agenticum/internal/llmtext"
	"github.com/agenticum/agenticum/pkg/ports"
)

// ABResult is the evaluator's verdict on two asset variants.
type ABResult struct {
	Winner     string             `json:"winner"`
	MetricsA   map[string]float64 `json:"metricsA"`
	MetricsB   map[string]float64 `json:"metricsB"`
	Confidence float64            `json:"confidence"`
	ROILift    string             `json:"roiLift"`
	Reasoning  string             `json:"reasoning,omitempty"`
}

// Evaluator scores two campaign assets against each other. It is
// stateless and safe to call concurrently; it never touches sessions.
type Evaluator struct {
	text ports.TextGenerator
}

// NewEvaluator creates an evaluator over the given text generator.
func NewEvaluator(text ports.TextGenerator) *Evaluator {
	return &Evaluator{text: text}
}

// Evaluate compares two asset contents. Returns an error when the
// model's verdict contains no parseable JSON object.
func (e *Evaluator) Evaluate(ctx context.Context, assetA, assetB string) (*ABResult, error) {
	prompt := fmt.Sprintf(`You are a marketing performance analyst running an A/B evaluation.

Variant A:
%s

Variant B:
%s

Score both variants on engagement, clarity and call-to-action strength
(0-100 each), pick the likely winner and estimate the ROI lift of the
winner over the loser.

Answer ONLY in JSON format:
{
  "winner": "A",
  "metricsA": { "engagement": 0, "clarity": 0, "ctaStrength": 0 },
  "metricsB": { "engagement": 0, "clarity": 0, "ctaStrength": 0 },
  "confidence": 0.0,
  "roiLift": "+0%%",
  "reasoning": "..."
}`, assetA, assetB)

	response, err := e.text.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("evaluation call failed: %w", err)
	}

	raw := llmtext.ExtractObject(response)
	if raw == "" {
		return nil, fmt.Errorf("evaluation response contained no JSON")
	}

	var result ABResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("failed to parse evaluation: %w", err)
	}
	if result.Winner == "" {
		return nil, fmt.Errorf("evaluation named no winner")
	}
	return &result, nil
}
