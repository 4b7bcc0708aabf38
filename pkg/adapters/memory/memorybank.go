package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agenticum/agenticum/pkg/domain"
)

// DefaultBrandGuidance is returned when no guidance has been configured.
const DefaultBrandGuidance = "Maintain a bold, optimistic, future-facing voice. Prefer concrete outcomes over buzzwords."

const maxQueryResults = 5

// MemoryBank implements ports.MemoryBank in memory.
type MemoryBank struct {
	mu       sync.RWMutex
	entries  []domain.MemoryEntry
	guidance string
}

// NewMemoryBank creates an empty in-memory memory bank.
func NewMemoryBank() *MemoryBank {
	return &MemoryBank{}
}

// SetBrandGuidance overrides the default brand guidance.
func (m *MemoryBank) SetBrandGuidance(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guidance = text
}

// SaveInsight archives a memory entry, assigning an ID and timestamp
// when the caller left them empty.
func (m *MemoryBank) SaveInsight(ctx context.Context, entry domain.MemoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt == 0 {
		entry.CreatedAt = time.Now().UnixMilli()
	}
	m.entries = append(m.entries, entry)
	return nil
}

// QueryInsights returns the newest entries matching any of the tags.
func (m *MemoryBank) QueryInsights(ctx context.Context, tags []string) ([]domain.MemoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tagSet := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tagSet[tag] = struct{}{}
	}

	var matched []domain.MemoryEntry
	for i := len(m.entries) - 1; i >= 0 && len(matched) < maxQueryResults; i-- {
		entry := m.entries[i]
		for _, tag := range entry.RelevanceTags {
			if _, ok := tagSet[tag]; ok {
				matched = append(matched, entry)
				break
			}
		}
	}
	return matched, nil
}

// BrandGuidance returns the configured guidance, or the default.
func (m *MemoryBank) BrandGuidance(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.guidance != "" {
		return m.guidance, nil
	}
	return DefaultBrandGuidance, nil
}
