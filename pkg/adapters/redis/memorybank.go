package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"

	"github.com/agenticum/agenticum/pkg/domain"
)

// DefaultBrandGuidance is returned when no guidance key is set.
const DefaultBrandGuidance = "Maintain a bold, optimistic, future-facing voice. Prefer concrete outcomes over buzzwords."

const maxQueryResults = 5

// MemoryBank implements ports.MemoryBank on Redis. Entries live in a
// single list; the working set is small enough that tag filtering
// happens client-side.
type MemoryBank struct {
	client *backend.Client
	prefix string
}

// NewMemoryBank creates a Redis-backed memory bank.
func NewMemoryBank(client *backend.Client) *MemoryBank {
	return &MemoryBank{client: client, prefix: "agenticum:memory:"}
}

func (m *MemoryBank) entriesKey() string {
	return m.prefix + "entries"
}

func (m *MemoryBank) guidanceKey() string {
	return m.prefix + "brand_guidance"
}

// SaveInsight archives a memory entry.
func (m *MemoryBank) SaveInsight(ctx context.Context, entry domain.MemoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt == 0 {
		entry.CreatedAt = time.Now().UnixMilli()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal memory entry: %w", err)
	}
	if err := m.client.RPush(ctx, m.entriesKey(), data).Err(); err != nil {
		return fmt.Errorf("failed to save memory entry: %w", err)
	}
	return nil
}

// QueryInsights returns the newest entries matching any of the tags.
func (m *MemoryBank) QueryInsights(ctx context.Context, tags []string) ([]domain.MemoryEntry, error) {
	raw, err := m.client.LRange(ctx, m.entriesKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query memory entries: %w", err)
	}

	tagSet := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tagSet[tag] = struct{}{}
	}

	var matched []domain.MemoryEntry
	for i := len(raw) - 1; i >= 0 && len(matched) < maxQueryResults; i-- {
		var entry domain.MemoryEntry
		if err := json.Unmarshal([]byte(raw[i]), &entry); err != nil {
			continue
		}
		for _, tag := range entry.RelevanceTags {
			if _, ok := tagSet[tag]; ok {
				matched = append(matched, entry)
				break
			}
		}
	}
	return matched, nil
}

// SetBrandGuidance overrides the default brand guidance.
func (m *MemoryBank) SetBrandGuidance(ctx context.Context, text string) error {
	return m.client.Set(ctx, m.guidanceKey(), text, 0).Err()
}

// BrandGuidance returns the stored guidance, or the default.
func (m *MemoryBank) BrandGuidance(ctx context.Context) (string, error) {
	val, err := m.client.Get(ctx, m.guidanceKey()).Result()
	if err != nil {
		if err == backend.Nil {
			return DefaultBrandGuidance, nil
		}
		return "", fmt.Errorf("failed to load brand guidance: %w", err)
	}
	return val, nil
}
