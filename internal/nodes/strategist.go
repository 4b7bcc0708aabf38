package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenticum/agenticum/pkg/domain"
	"github.com/agenticum/agenticum/pkg/ports"
)

// Strategist builds the campaign strategy with search grounding so the
// competitive claims rest on current market data.
type Strategist struct {
	text  ports.TextGenerator
	store ports.SessionStore
}

// NewStrategist creates the strategy node.
func NewStrategist(text ports.TextGenerator, store ports.SessionStore) *Strategist {
	return &Strategist{text: text, store: store}
}

func (s *Strategist) ID() string   { return domain.StrategistNodeID }
func (s *Strategist) Name() string { return "Campaign Strategist" }

func (s *Strategist) Produce(ctx context.Context, nc Context) (Output, error) {
	appendNodeLog(ctx, s.store, nc.SessionID, s.ID(), domain.LogInfo,
		"Search grounding active, gathering market data...")

	prompt := fmt.Sprintf(`You are a seasoned marketing strategist.
Create a detailed marketing strategy for: %q

Deliver:
1. Target audience analysis
2. Competitive landscape (use current market data)
3. Core messages (3-5)
4. Channel strategy (which platforms and why)
5. Content calendar (1 month)
6. KPIs and success metrics

Be specific and actionable.`, nc.Intent)

	result, err := s.text.GenerateGrounded(ctx, prompt)
	if err != nil {
		return Output{}, fmt.Errorf("strategy generation failed: %w", err)
	}

	appendNodeLog(ctx, s.store, nc.SessionID, s.ID(), domain.LogInfo,
		fmt.Sprintf("Strategy generated. %d sources found.", len(result.Sources)))

	return Output{
		Data:       withSources(result.Text, result.Sources),
		AssetType:  domain.AssetStrategy,
		AssetTitle: "Marketing Strategy",
	}, nil
}

// withSources appends a sources section when grounding returned any.
func withSources(text string, sources []string) string {
	if len(sources) == 0 {
		return text
	}
	var b strings.Builder
	b.WriteString(text)
	b.WriteString("\n\n## Sources\n")
	for _, src := range sources {
		b.WriteString("- ")
		b.WriteString(src)
		b.WriteString("\n")
	}
	return b.String()
}
