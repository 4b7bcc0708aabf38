package nodes

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenticum/agenticum/pkg/adapters/memory"
	"github.com/agenticum/agenticum/pkg/domain"
	"github.com/agenticum/agenticum/pkg/ports"
)

func TestStrategistAppendsSources(t *testing.T) {
	store := memory.NewStore()
	newTestSession(t, store, "s1")
	text := &fakeText{
		grounded: func(prompt string) (ports.GroundedResult, error) {
			assert.Contains(t, prompt, "launch a productivity app")
			return ports.GroundedResult{
				Text:    "# Strategy",
				Sources: []string{"https://example.com/market", "https://example.com/trends"},
			}, nil
		},
	}

	node := NewStrategist(text, store)
	out, err := node.Produce(context.Background(), Context{SessionID: "s1", Intent: "launch a productivity app"})
	require.NoError(t, err)

	assert.Equal(t, domain.AssetStrategy, out.AssetType)
	assert.Contains(t, out.Data, "## Sources")
	assert.Contains(t, out.Data, "https://example.com/market")
}

func TestAuditorPropagatesGenerationFailure(t *testing.T) {
	store := memory.NewStore()
	newTestSession(t, store, "s1")
	text := &fakeText{
		grounded: func(prompt string) (ports.GroundedResult, error) {
			return ports.GroundedResult{}, errors.New("grounding unavailable")
		},
	}

	node := NewAuditor(text, store)
	_, err := node.Produce(context.Background(), Context{SessionID: "s1", Intent: "launch"})
	require.Error(t, err)
}

func TestWithSourcesNoSources(t *testing.T) {
	assert.Equal(t, "text", withSources("text", nil))
}
