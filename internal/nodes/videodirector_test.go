package nodes

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenticum/agenticum/pkg/adapters/memory"
	"github.com/agenticum/agenticum/pkg/domain"
	"github.com/agenticum/agenticum/pkg/ports"
)

func videoText() *fakeText {
	return &fakeText{
		generate: func(prompt string) (string, error) {
			switch {
			case strings.Contains(prompt, "extract ONLY the prompt for the first scene"):
				return "cinematic sunrise over a city skyline", nil
			case strings.Contains(prompt, "extract the one-sentence narration line"):
				return "Your day, reimagined.", nil
			default:
				return "# Video Concept\nScene 1: sunrise.", nil
			}
		},
	}
}

func newVideoDirectorForTest(text ports.TextGenerator, media ports.MediaGenerator, blobs ports.BlobStore, store ports.SessionStore) *VideoDirector {
	v := NewVideoDirector(text, media, blobs, store)
	v.pollInterval = time.Millisecond
	v.maxPolls = 3
	return v
}

func TestVideoDirectorWithVideoAndNarration(t *testing.T) {
	store := memory.NewStore()
	newTestSession(t, store, "s1")
	media := &fakeMedia{
		videoBlob:    ports.Blob{Data: []byte{9, 9}, MIMEType: "video/mp4"},
		pendingPolls: 2,
		speechBlob:   ports.Blob{Data: []byte{7}, MIMEType: "audio/wav"},
	}

	node := newVideoDirectorForTest(videoText(), media, memory.NewBlobStore(), store)
	out, err := node.Produce(context.Background(), Context{
		SessionID:       "s1",
		Intent:          "launch a productivity app",
		PreviousOutputs: map[string]string{domain.StrategistNodeID: "strategy"},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.AssetVideoPrompt, out.AssetType)
	assert.Equal(t, "Video Script + AI Spot", out.AssetTitle)
	require.NotNil(t, out.Media)
	assert.Contains(t, out.Media.URL, "/assets/s1/CC-06/")
	assert.Contains(t, out.Data, "GENERATED VIDEO")
	assert.Contains(t, out.Data, "Narration audio:")
	assert.Equal(t, 3, media.polls, "job completes on the poll after the pending ones")
}

// Exceeding the poll budget degrades to script-only output.
func TestVideoDirectorDegradesOnPollTimeout(t *testing.T) {
	store := memory.NewStore()
	newTestSession(t, store, "s1")
	media := &fakeMedia{
		pendingPolls: 100,
		speechErr:    errors.New("no speech either"),
	}

	node := newVideoDirectorForTest(videoText(), media, memory.NewBlobStore(), store)
	out, err := node.Produce(context.Background(), Context{SessionID: "s1", Intent: "launch"})
	require.NoError(t, err)

	assert.Nil(t, out.Media)
	assert.Equal(t, "Video Script & Generation Prompts", out.AssetTitle)
	assert.Contains(t, out.Data, "Video Generation Note")
	assert.Contains(t, out.Data, "cinematic sunrise over a city skyline")
}

func TestVideoDirectorDegradesOnStartFailure(t *testing.T) {
	store := memory.NewStore()
	newTestSession(t, store, "s1")
	media := &fakeMedia{
		videoErr:   errors.New("model offline"),
		speechBlob: ports.Blob{Data: []byte{7}, MIMEType: "audio/wav"},
	}

	node := newVideoDirectorForTest(videoText(), media, memory.NewBlobStore(), store)
	out, err := node.Produce(context.Background(), Context{SessionID: "s1", Intent: "launch"})
	require.NoError(t, err)

	assert.Nil(t, out.Media)
	assert.Contains(t, out.Data, "Video Generation Note")
	// Narration still made it even though the video did not.
	assert.Contains(t, out.Data, "Narration audio:")
}

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	strategy := strings.Repeat("日本語", 300)
	got := truncate(strategy, 600)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 600, utf8.RuneCountInString(got))

	assert.Equal(t, "short", truncate("short", 600))
}
