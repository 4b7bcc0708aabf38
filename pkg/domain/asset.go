package domain

import (
	"time"

	"github.com/google/uuid"
)

// AssetType identifies the kind of work product a node delivered.
type AssetType string

const (
	AssetStrategy        AssetType = "strategy"
	AssetVideoPrompt     AssetType = "video_prompt"
	AssetResearchReport  AssetType = "research_report"
	AssetDesignBlueprint AssetType = "design_blueprint"
	AssetFullCampaign    AssetType = "full_campaign"
)

// MediaRef points at externally stored binary media plus the prompt
// that produced it. The raw bytes never live in the session document.
type MediaRef struct {
	URL      string `json:"url"`
	MIMEType string `json:"mimeType,omitempty"`
	Prompt   string `json:"prompt"`
}

// GeneratedAsset is an immutable work product appended to the session
// when a node reports success.
type GeneratedAsset struct {
	ID          string    `json:"id"`
	Type        AssetType `json:"type"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	GeneratedBy string    `json:"generatedBy"`
	CreatedAt   int64     `json:"createdAt"`
	Media       *MediaRef `json:"imageData,omitempty"`
}

// NewAsset stamps an asset with a unique id and creation time.
func NewAsset(t AssetType, title, content, generatedBy string, media *MediaRef) GeneratedAsset {
	return GeneratedAsset{
		ID:          uuid.NewString(),
		Type:        t,
		Title:       title,
		Content:     content,
		GeneratedBy: generatedBy,
		CreatedAt:   time.Now().UnixMilli(),
		Media:       media,
	}
}
