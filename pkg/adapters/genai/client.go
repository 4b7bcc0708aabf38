// Package genai adapts Google's Gemini SDK to the generator ports. One
// client serves both text generation (flash models, optionally with
// search grounding or a thinking trace) and media generation (Imagen,
// Veo, native speech).
package genai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/agenticum/agenticum/pkg/ports"
)

const (
	DefaultTextModel   = "gemini-2.5-flash"
	DefaultImageModel  = "imagen-4.0-generate-001"
	DefaultVideoModel  = "veo-3.0-generate-001"
	DefaultSpeechModel = "gemini-2.5-flash-preview-tts"
	DefaultVoice       = "Kore"
)

// Client implements ports.TextGenerator and ports.MediaGenerator.
type Client struct {
	client      *genai.Client
	textModel   string
	imageModel  string
	videoModel  string
	speechModel string
	voice       string
}

type Option func(*Client)

// WithTextModel overrides the text generation model.
func WithTextModel(model string) Option {
	return func(c *Client) {
		c.textModel = model
	}
}

// WithImageModel overrides the image generation model.
func WithImageModel(model string) Option {
	return func(c *Client) {
		c.imageModel = model
	}
}

// WithVideoModel overrides the video generation model.
func WithVideoModel(model string) Option {
	return func(c *Client) {
		c.videoModel = model
	}
}

// WithVoice overrides the prebuilt voice used for speech synthesis.
func WithVoice(voice string) Option {
	return func(c *Client) {
		c.voice = voice
	}
}

// New creates a Gemini-backed generator client.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	inner, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	c := &Client{
		client:      inner,
		textModel:   DefaultTextModel,
		imageModel:  DefaultImageModel,
		videoModel:  DefaultVideoModel,
		speechModel: DefaultSpeechModel,
		voice:       DefaultVoice,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Generate produces plain text for the prompt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.textModel, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("text generation failed: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("model returned an empty response")
	}
	return text, nil
}

// GenerateGrounded produces text with Google Search grounding enabled
// and collects the web sources the model cited.
func (c *Client) GenerateGrounded(ctx context.Context, prompt string) (ports.GroundedResult, error) {
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.textModel, genai.Text(prompt), config)
	if err != nil {
		return ports.GroundedResult{}, fmt.Errorf("grounded generation failed: %w", err)
	}

	result := ports.GroundedResult{Text: resp.Text()}
	if result.Text == "" {
		return ports.GroundedResult{}, fmt.Errorf("model returned an empty response")
	}
	for _, candidate := range resp.Candidates {
		if candidate.GroundingMetadata == nil {
			continue
		}
		for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
			if chunk.Web != nil && chunk.Web.URI != "" {
				result.Sources = append(result.Sources, chunk.Web.URI)
			}
		}
	}
	return result, nil
}

// GenerateWithTrace produces text with thinking enabled, separating the
// model's thought parts from the final answer.
func (c *Client) GenerateWithTrace(ctx context.Context, prompt string) (ports.TraceResult, error) {
	config := &genai.GenerateContentConfig{
		ThinkingConfig: &genai.ThinkingConfig{IncludeThoughts: true},
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.textModel, genai.Text(prompt), config)
	if err != nil {
		return ports.TraceResult{}, fmt.Errorf("trace generation failed: %w", err)
	}

	var trace, text strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text == "" {
				continue
			}
			if part.Thought {
				trace.WriteString(part.Text)
			} else {
				text.WriteString(part.Text)
			}
		}
	}
	if text.Len() == 0 {
		return ports.TraceResult{}, fmt.Errorf("model returned an empty response")
	}
	return ports.TraceResult{Trace: trace.String(), Text: text.String()}, nil
}

// GenerateImage produces a single image for the prompt.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (ports.Blob, error) {
	resp, err := c.client.Models.GenerateImages(ctx, c.imageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
	})
	if err != nil {
		return ports.Blob{}, fmt.Errorf("image generation failed: %w", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return ports.Blob{}, fmt.Errorf("image generation returned no images")
	}

	img := resp.GeneratedImages[0].Image
	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = "image/png"
	}
	return ports.Blob{Data: img.ImageBytes, MIMEType: mimeType}, nil
}

// StartVideo kicks off a long-running Veo generation job.
func (c *Client) StartVideo(ctx context.Context, prompt string) (ports.VideoOperation, error) {
	op, err := c.client.Models.GenerateVideos(ctx, c.videoModel, prompt, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("video generation failed to start: %w", err)
	}
	return op, nil
}

// PollVideo checks a pending Veo job once.
func (c *Client) PollVideo(ctx context.Context, op ports.VideoOperation) (ports.Blob, bool, error) {
	pending, ok := op.(*genai.GenerateVideosOperation)
	if !ok {
		return ports.Blob{}, false, fmt.Errorf("unexpected video operation type %T", op)
	}

	updated, err := c.client.Operations.GetVideosOperation(ctx, pending, nil)
	if err != nil {
		return ports.Blob{}, false, fmt.Errorf("video polling failed: %w", err)
	}
	if !updated.Done {
		return ports.Blob{}, false, nil
	}
	if updated.Response == nil || len(updated.Response.GeneratedVideos) == 0 {
		return ports.Blob{}, true, fmt.Errorf("video generation finished without output")
	}

	video := updated.Response.GeneratedVideos[0].Video
	if video == nil || len(video.VideoBytes) == 0 {
		return ports.Blob{}, true, fmt.Errorf("video generation finished without bytes")
	}
	mimeType := video.MIMEType
	if mimeType == "" {
		mimeType = "video/mp4"
	}
	return ports.Blob{Data: video.VideoBytes, MIMEType: mimeType}, true, nil
}

// GenerateSpeech synthesizes narration audio for the text.
func (c *Client) GenerateSpeech(ctx context.Context, text string) (ports.Blob, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: c.voice},
			},
		},
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.speechModel, genai.Text(text), config)
	if err != nil {
		return ports.Blob{}, fmt.Errorf("speech generation failed: %w", err)
	}

	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mimeType := part.InlineData.MIMEType
				if mimeType == "" {
					mimeType = "audio/pcm"
				}
				return ports.Blob{Data: part.InlineData.Data, MIMEType: mimeType}, nil
			}
		}
	}
	return ports.Blob{}, fmt.Errorf("speech generation returned no audio")
}
