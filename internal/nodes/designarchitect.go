package nodes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agenticum/agenticum/pkg/domain"
	"github.com/agenticum/agenticum/pkg/ports"
)

// DesignArchitect turns the strategy into a visual identity and renders
// an actual hero image. Image generation degrades to text only.
type DesignArchitect struct {
	text  ports.TextGenerator
	media ports.MediaGenerator
	blobs ports.BlobStore
	store ports.SessionStore
}

// NewDesignArchitect creates the design node.
func NewDesignArchitect(text ports.TextGenerator, media ports.MediaGenerator, blobs ports.BlobStore, store ports.SessionStore) *DesignArchitect {
	return &DesignArchitect{text: text, media: media, blobs: blobs, store: store}
}

func (d *DesignArchitect) ID() string   { return domain.DesignArchitectNodeID }
func (d *DesignArchitect) Name() string { return "Design Architect" }

func (d *DesignArchitect) Produce(ctx context.Context, nc Context) (Output, error) {
	strategy := nc.PreviousOutputs[domain.StrategistNodeID]
	if strategy == "" {
		strategy = "General marketing approach"
	}

	appendNodeLog(ctx, d.store, nc.SessionID, d.ID(), domain.LogInfo,
		"Creating visual identity and generating hero image...")

	conceptPrompt := fmt.Sprintf(`You are a world-class Design Architect and Creative Director.
Based on this strategy: %q
And this intent: %q

Create a visual identity concept for the campaign:
1. Color Palette (HEX codes and mood)
2. Typography Selection
3. A single, detailed HERO IMAGE description (one paragraph, vivid and specific)
4. Layout recommendations for Social Media & Web
5. Brand Voice adaptation for visuals

Make the HERO IMAGE description suitable for AI image generation, being specific about:
- Style (photorealistic, 3D render, flat design, etc.)
- Colors and lighting
- Composition and main elements
- Mood and atmosphere`, truncate(strategy, 600), nc.Intent)

	conceptText, err := d.text.Generate(ctx, conceptPrompt)
	if err != nil {
		return Output{}, fmt.Errorf("visual concept failed: %w", err)
	}

	appendNodeLog(ctx, d.store, nc.SessionID, d.ID(), domain.LogInfo,
		"Visual concept ready. Now generating hero image...")

	imagePrompt, err := d.text.Generate(ctx, fmt.Sprintf(`From this visual concept, extract ONLY the hero image description as a single,
optimized prompt for AI image generation (max 200 words, no markdown):

%s

Return ONLY the image prompt, nothing else.`, conceptText))
	if err != nil {
		appendNodeLog(ctx, d.store, nc.SessionID, d.ID(), domain.LogWarning,
			fmt.Sprintf("Prompt extraction failed: %v. Delivering concept only.", err))
		return Output{
			Data:       conceptText,
			AssetType:  domain.AssetDesignBlueprint,
			AssetTitle: "Visual Concept & Design Blueprints",
		}, nil
	}
	imagePrompt = strings.TrimSpace(imagePrompt)

	imageURL, imageErr := d.renderHeroImage(ctx, nc.SessionID, imagePrompt)

	var content, title string
	var media *domain.MediaRef
	if imageErr != nil {
		appendNodeLog(ctx, d.store, nc.SessionID, d.ID(), domain.LogWarning,
			fmt.Sprintf("Image generation failed: %v. Returning concept only.", imageErr))
		content = fmt.Sprintf("%s\n\n---\n\n## Image Generation Note\n\nThe hero image could not be generated. Prompt for manual generation:\n\n%q", conceptText, imagePrompt)
		title = "Visual Concept & Design Blueprints"
	} else {
		content = fmt.Sprintf("%s\n\n---\n\n## GENERATED HERO IMAGE\n\n**Prompt used:** %s\n\n**Image URL:** %s", conceptText, imagePrompt, imageURL)
		title = "Visual Concept + AI Hero Image"
		media = &domain.MediaRef{URL: imageURL, Prompt: imagePrompt}
	}

	appendNodeLog(ctx, d.store, nc.SessionID, d.ID(), domain.LogSuccess,
		"Visual Concept & Design Blueprints delivered.")

	return Output{
		Data:       content,
		AssetType:  domain.AssetDesignBlueprint,
		AssetTitle: title,
		Media:      media,
	}, nil
}

func (d *DesignArchitect) renderHeroImage(ctx context.Context, sessionID, prompt string) (string, error) {
	appendNodeLog(ctx, d.store, sessionID, d.ID(), domain.LogInfo,
		fmt.Sprintf("Generating hero image: %q...", truncate(prompt, 80)))

	blob, err := d.media.GenerateImage(ctx, prompt)
	if err != nil {
		return "", err
	}

	appendNodeLog(ctx, d.store, sessionID, d.ID(), domain.LogSuccess,
		"Hero image generated. Uploading to storage...")

	filename := fmt.Sprintf("%s/%s/hero-image-%d.png", sessionID, d.ID(), time.Now().UnixMilli())
	url, err := d.blobs.Upload(ctx, blob.Data, blob.MIMEType, filename)
	if err != nil {
		return "", fmt.Errorf("image upload failed: %w", err)
	}

	appendNodeLog(ctx, d.store, sessionID, d.ID(), domain.LogSuccess,
		fmt.Sprintf("Image uploaded: %s", url))
	return url, nil
}
