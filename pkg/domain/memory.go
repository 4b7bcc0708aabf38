package domain

// MemoryType classifies a cross-session memory entry.
type MemoryType string

const (
	MemoryInsight  MemoryType = "insight"
	MemoryFeedback MemoryType = "feedback"
	MemoryFact     MemoryType = "fact"
)

// MemoryEntry is a piece of cross-session intelligence used to enrich
// planning prompts. It is advisory only: an empty memory bank never
// fails a session.
type MemoryEntry struct {
	ID              string     `json:"id"`
	Type            MemoryType `json:"type"`
	Content         string     `json:"content"`
	SourceSessionID string     `json:"sourceSessionId"`
	RelevanceTags   []string   `json:"relevanceTags"`
	CreatedAt       int64      `json:"createdAt"`
}
