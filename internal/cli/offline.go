package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenticum/agenticum/pkg/ports"
)

// OfflineGenerator is a canned stand-in for the Gemini client so the
// server and the demo commands work without an API key. Text output is
// deterministic placeholder copy; media output is a tiny placeholder
// blob. Video jobs complete on the first poll.
type OfflineGenerator struct{}

// NewOfflineGenerator creates the canned generator.
func NewOfflineGenerator() *OfflineGenerator {
	return &OfflineGenerator{}
}

var _ ports.TextGenerator = (*OfflineGenerator)(nil)
var _ ports.MediaGenerator = (*OfflineGenerator)(nil)

func (g *OfflineGenerator) Generate(_ context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, "A/B evaluation") {
		return `{
  "winner": "A",
  "metricsA": { "engagement": 78, "clarity": 82, "ctaStrength": 74 },
  "metricsB": { "engagement": 71, "clarity": 80, "ctaStrength": 65 },
  "confidence": 0.7,
  "roiLift": "+12%",
  "reasoning": "Offline verdict: variant A carries the stronger call to action."
}`, nil
	}
	return fmt.Sprintf(`# Offline draft

This content was produced by the offline canned generator. Set
GEMINI_API_KEY to enable real generation.

Prompt excerpt: %s`, firstLine(prompt)), nil
}

func (g *OfflineGenerator) GenerateGrounded(ctx context.Context, prompt string) (ports.GroundedResult, error) {
	text, err := g.Generate(ctx, prompt)
	if err != nil {
		return ports.GroundedResult{}, err
	}
	return ports.GroundedResult{
		Text:    text,
		Sources: []string{"https://example.com/offline-source"},
	}, nil
}

func (g *OfflineGenerator) GenerateWithTrace(context.Context, string) (ports.TraceResult, error) {
	return ports.TraceResult{
		Trace: "Offline mode: emitting the standard two-phase plan.",
		Text: `{
  "summary": "Strategy and audit in parallel, then creative production.",
  "parallel_phase_1": ["SP-01", "RA-01"],
  "sequential_phase_2": ["CC-06", "DA-03"]
}`,
	}, nil
}

func (g *OfflineGenerator) GenerateImage(context.Context, string) (ports.Blob, error) {
	return ports.Blob{Data: offlinePNG, MIMEType: "image/png"}, nil
}

func (g *OfflineGenerator) StartVideo(context.Context, string) (ports.VideoOperation, error) {
	return offlineVideoOp{}, nil
}

func (g *OfflineGenerator) PollVideo(_ context.Context, op ports.VideoOperation) (ports.Blob, bool, error) {
	if _, ok := op.(offlineVideoOp); !ok {
		return ports.Blob{}, false, fmt.Errorf("unknown video operation %T", op)
	}
	return ports.Blob{Data: []byte("offline placeholder video"), MIMEType: "video/mp4"}, true, nil
}

func (g *OfflineGenerator) GenerateSpeech(context.Context, string) (ports.Blob, error) {
	return ports.Blob{Data: []byte("offline placeholder audio"), MIMEType: "audio/pcm"}, nil
}

type offlineVideoOp struct{}

// offlinePNG is a 1x1 transparent PNG.
var offlinePNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 120 {
		s = s[:120] + "..."
	}
	return s
}
