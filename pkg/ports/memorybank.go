package ports

import (
	"context"

	"github.com/agenticum/agenticum/pkg/domain"
)

// MemoryBank stores cross-session intelligence used to enrich planning.
// All reads are best-effort: empty results must never fail a session.
type MemoryBank interface {
	// SaveInsight archives a memory entry.
	SaveInsight(ctx context.Context, entry domain.MemoryEntry) error

	// QueryInsights returns the most recent entries matching any of the
	// given tags, newest first, capped at a small implementation limit.
	QueryInsights(ctx context.Context, tags []string) ([]domain.MemoryEntry, error)

	// BrandGuidance returns the stored brand guidance text, or a
	// default when none has been configured.
	BrandGuidance(ctx context.Context) (string, error)
}
