package nodes

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenticum/agenticum/pkg/adapters/memory"
	"github.com/agenticum/agenticum/pkg/domain"
	"github.com/agenticum/agenticum/pkg/ports"
)

func designText() *fakeText {
	return &fakeText{
		generate: func(prompt string) (string, error) {
			if strings.Contains(prompt, "extract ONLY the hero image description") {
				return "a neon hero image of a productivity app", nil
			}
			return "# Visual Concept\nColors, typography, hero image.", nil
		},
	}
}

func TestDesignArchitectWithImage(t *testing.T) {
	store := memory.NewStore()
	newTestSession(t, store, "s1")
	blobs := memory.NewBlobStore()
	media := &fakeMedia{imageBlob: ports.Blob{Data: []byte{1, 2, 3}, MIMEType: "image/png"}}

	node := NewDesignArchitect(designText(), media, blobs, store)
	out, err := node.Produce(context.Background(), Context{
		SessionID:       "s1",
		Intent:          "launch a productivity app",
		PreviousOutputs: map[string]string{domain.StrategistNodeID: "strategy text"},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.AssetDesignBlueprint, out.AssetType)
	assert.Equal(t, "Visual Concept + AI Hero Image", out.AssetTitle)
	require.NotNil(t, out.Media)
	assert.Contains(t, out.Media.URL, "/assets/s1/DA-03/")
	assert.Equal(t, "a neon hero image of a productivity app", out.Media.Prompt)
	assert.Contains(t, out.Data, "GENERATED HERO IMAGE")
	assert.Contains(t, out.Data, out.Media.URL)

	// The blob actually landed in storage under the returned URL.
	path := strings.TrimPrefix(out.Media.URL, "/assets/")
	data, mimeType, err := blobs.Open(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
	assert.Equal(t, "image/png", mimeType)
}

// Image generation failure degrades to a text-only blueprint: the node
// still succeeds and the manual-generation prompt ships in the content.
func TestDesignArchitectDegradesWithoutImage(t *testing.T) {
	store := memory.NewStore()
	newTestSession(t, store, "s1")
	media := &fakeMedia{imageErr: errors.New("quota exceeded")}

	node := NewDesignArchitect(designText(), media, memory.NewBlobStore(), store)
	out, err := node.Produce(context.Background(), Context{SessionID: "s1", Intent: "launch"})
	require.NoError(t, err)

	assert.Nil(t, out.Media)
	assert.Equal(t, "Visual Concept & Design Blueprints", out.AssetTitle)
	assert.Contains(t, out.Data, "Image Generation Note")
	assert.Contains(t, out.Data, "a neon hero image of a productivity app")

	session, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	var sawWarning bool
	for _, entry := range session.Logs {
		if entry.Level == domain.LogWarning && strings.Contains(entry.Message, "Image generation failed") {
			sawWarning = true
		}
	}
	assert.True(t, sawWarning)
}
