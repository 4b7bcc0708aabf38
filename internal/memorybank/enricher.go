// Package memorybank derives planning context from the cross-session
// memory bank. Everything here is best-effort: enrichment failures
// degrade to an empty context block, never to a session failure.
package memorybank

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agenticum/agenticum/pkg/domain"
	"github.com/agenticum/agenticum/pkg/ports"
)

const maxTags = 8

// Enricher assembles the prompt context block from brand guidance and
// historical insights.
type Enricher struct {
	bank   ports.MemoryBank
	logger *slog.Logger
}

// NewEnricher creates an enricher over the given bank.
func NewEnricher(bank ports.MemoryBank, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{bank: bank, logger: logger}
}

// Context builds the enrichment block for a planning prompt. Returns
// "" when nothing useful is available.
func (e *Enricher) Context(ctx context.Context, intent string) string {
	var b strings.Builder

	guidance, err := e.bank.BrandGuidance(ctx)
	if err != nil {
		e.logger.Warn("brand guidance lookup failed", "error", err)
	} else if guidance != "" {
		b.WriteString("Brand guidance:\n")
		b.WriteString(guidance)
		b.WriteString("\n")
	}

	insights, err := e.bank.QueryInsights(ctx, Tags(intent))
	if err != nil {
		e.logger.Warn("insight lookup failed", "error", err)
	} else if len(insights) > 0 {
		b.WriteString("\nRelevant insights from past campaigns:\n")
		for _, entry := range insights {
			fmt.Fprintf(&b, "- (%s) %s\n", entry.Type, entry.Content)
		}
	}

	return b.String()
}

// Archive stores a campaign insight after a session completes.
func (e *Enricher) Archive(ctx context.Context, sessionID, intent, summary string) error {
	return e.bank.SaveInsight(ctx, domain.MemoryEntry{
		Type:            domain.MemoryInsight,
		Content:         summary,
		SourceSessionID: sessionID,
		RelevanceTags:   Tags(intent),
	})
}

// Tags derives lookup tags from a campaign intent: lowercased words of
// four or more letters, deduplicated, capped.
func Tags(intent string) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, word := range strings.Fields(strings.ToLower(intent)) {
		word = strings.Trim(word, ".,!?:;\"'()")
		if len(word) < 4 {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		tags = append(tags, word)
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}
