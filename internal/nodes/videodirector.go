package nodes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agenticum/agenticum/pkg/domain"
	"github.com/agenticum/agenticum/pkg/ports"
)

const (
	defaultVideoPollInterval = 5 * time.Second
	defaultVideoMaxPolls     = 24
)

// VideoDirector writes the video script and then tries to realize it:
// a generated spot plus a narration track. Both media steps degrade to
// text only, a failed render never fails the node.
type VideoDirector struct {
	text  ports.TextGenerator
	media ports.MediaGenerator
	blobs ports.BlobStore
	store ports.SessionStore

	pollInterval time.Duration
	maxPolls     int
}

// NewVideoDirector creates the video node.
func NewVideoDirector(text ports.TextGenerator, media ports.MediaGenerator, blobs ports.BlobStore, store ports.SessionStore) *VideoDirector {
	return &VideoDirector{
		text:         text,
		media:        media,
		blobs:        blobs,
		store:        store,
		pollInterval: defaultVideoPollInterval,
		maxPolls:     defaultVideoMaxPolls,
	}
}

func (v *VideoDirector) ID() string   { return domain.VideoDirectorNodeID }
func (v *VideoDirector) Name() string { return "Video Director" }

func (v *VideoDirector) Produce(ctx context.Context, nc Context) (Output, error) {
	strategyContext := nc.PreviousOutputs[domain.StrategistNodeID]

	appendNodeLog(ctx, v.store, nc.SessionID, v.ID(), domain.LogInfo,
		"Building video concept from the strategy...")

	prompt := fmt.Sprintf(`You are a creative video director working with a generative video model.

Campaign: %q
%s
Deliver:
1. A 30-second video concept, scene by scene
2. An optimized generation prompt per scene (max 3 scenes)
3. Suggested music/soundscape
4. Text overlays and CTAs
5. A one-sentence narration line for the voiceover

Generation prompts: visually detailed, atmospheric, cinematic.`, nc.Intent, contextSection(strategyContext))

	script, err := v.text.Generate(ctx, prompt)
	if err != nil {
		return Output{}, fmt.Errorf("video concept failed: %w", err)
	}

	appendNodeLog(ctx, v.store, nc.SessionID, v.ID(), domain.LogInfo,
		"Video concept and generation prompts ready.")

	videoPrompt, err := v.extractPrompt(ctx, script)
	if err != nil {
		// Without a usable prompt the concept still ships as-is.
		appendNodeLog(ctx, v.store, nc.SessionID, v.ID(), domain.LogWarning,
			fmt.Sprintf("Prompt extraction failed: %v. Delivering script only.", err))
		return Output{
			Data:       script,
			AssetType:  domain.AssetVideoPrompt,
			AssetTitle: "Video Script & Generation Prompts",
		}, nil
	}

	content := script
	title := "Video Script & Generation Prompts"
	var media *domain.MediaRef

	if url, renderErr := v.renderVideo(ctx, nc.SessionID, videoPrompt); renderErr != nil {
		appendNodeLog(ctx, v.store, nc.SessionID, v.ID(), domain.LogWarning,
			fmt.Sprintf("Video generation failed: %v. Delivering script and prompt for manual follow-up.", renderErr))
		content = fmt.Sprintf("%s\n\n---\n\n## Video Generation Note\n\nThe video could not be rendered. Prompt for manual generation:\n\n%q", script, videoPrompt)
	} else {
		content = fmt.Sprintf("%s\n\n---\n\n## GENERATED VIDEO\n\n**Prompt used:** %s\n\n**Video URL:** %s", script, videoPrompt, url)
		title = "Video Script + AI Spot"
		media = &domain.MediaRef{URL: url, MIMEType: "video/mp4", Prompt: videoPrompt}
	}

	if audioURL, speechErr := v.renderNarration(ctx, nc.SessionID, script); speechErr != nil {
		appendNodeLog(ctx, v.store, nc.SessionID, v.ID(), domain.LogWarning,
			fmt.Sprintf("Narration synthesis failed: %v.", speechErr))
	} else {
		content = fmt.Sprintf("%s\n\n**Narration audio:** %s", content, audioURL)
	}

	return Output{
		Data:       content,
		AssetType:  domain.AssetVideoPrompt,
		AssetTitle: title,
		Media:      media,
	}, nil
}

// extractPrompt reduces the full script to one tool-ready prompt via a
// second model call.
func (v *VideoDirector) extractPrompt(ctx context.Context, script string) (string, error) {
	extracted, err := v.text.Generate(ctx, fmt.Sprintf(`From this video script, extract ONLY the prompt for the first scene as a single,
optimized prompt for AI video generation (max 150 words, no markdown):

%s

Return ONLY the video prompt, nothing else.`, script))
	if err != nil {
		return "", err
	}
	prompt := strings.TrimSpace(extracted)
	if prompt == "" {
		return "", fmt.Errorf("extraction returned empty prompt")
	}
	return prompt, nil
}

// renderVideo runs the long-running generation job with a bounded poll
// budget and uploads the result.
func (v *VideoDirector) renderVideo(ctx context.Context, sessionID, prompt string) (string, error) {
	appendNodeLog(ctx, v.store, sessionID, v.ID(), domain.LogInfo,
		fmt.Sprintf("Rendering video: %q...", truncate(prompt, 80)))

	op, err := v.media.StartVideo(ctx, prompt)
	if err != nil {
		return "", err
	}

	for i := 0; i < v.maxPolls; i++ {
		blob, done, err := v.media.PollVideo(ctx, op)
		if err != nil {
			return "", err
		}
		if done {
			filename := fmt.Sprintf("%s/%s/campaign-video-%d.mp4", sessionID, v.ID(), time.Now().UnixMilli())
			url, err := v.blobs.Upload(ctx, blob.Data, blob.MIMEType, filename)
			if err != nil {
				return "", fmt.Errorf("video upload failed: %w", err)
			}
			appendNodeLog(ctx, v.store, sessionID, v.ID(), domain.LogSuccess,
				fmt.Sprintf("Video uploaded: %s", url))
			return url, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(v.pollInterval):
		}
	}
	return "", fmt.Errorf("video generation timed out after %d polls", v.maxPolls)
}

func (v *VideoDirector) renderNarration(ctx context.Context, sessionID, script string) (string, error) {
	line, err := v.text.Generate(ctx, fmt.Sprintf(`From this video script, extract the one-sentence narration line.
Return ONLY the sentence, nothing else.

%s`, script))
	if err != nil {
		return "", err
	}

	blob, err := v.media.GenerateSpeech(ctx, strings.TrimSpace(line))
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%s/%s/narration-%d.wav", sessionID, v.ID(), time.Now().UnixMilli())
	url, err := v.blobs.Upload(ctx, blob.Data, blob.MIMEType, filename)
	if err != nil {
		return "", fmt.Errorf("narration upload failed: %w", err)
	}
	appendNodeLog(ctx, v.store, sessionID, v.ID(), domain.LogSuccess,
		fmt.Sprintf("Narration audio uploaded: %s", url))
	return url, nil
}

func contextSection(strategy string) string {
	if strategy == "" {
		return ""
	}
	return fmt.Sprintf("\nStrategy context:\n%s\n", truncate(strategy, 600))
}

// truncate cuts after n runes, never mid-sequence.
func truncate(s string, n int) string {
	for i := range s {
		if n == 0 {
			return s[:i]
		}
		n--
	}
	return s
}
