package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenticum/agenticum/internal/llmtext"
	"github.com/agenticum/agenticum/pkg/domain"
)

func TestOfflinePlanIsExecutable(t *testing.T) {
	gen := NewOfflineGenerator()

	result, err := gen.GenerateWithTrace(context.Background(), "plan something")
	require.NoError(t, err)

	var plan domain.ExecutionPlan
	require.NoError(t, json.Unmarshal([]byte(llmtext.ExtractObject(result.Text)), &plan))
	assert.True(t, plan.Valid())
	assert.Equal(t, []string{"SP-01", "RA-01"}, plan.ParallelPhase1)
	assert.Equal(t, []string{"CC-06", "DA-03"}, plan.SequentialPhase2)
}

func TestOfflineABVerdictParses(t *testing.T) {
	gen := NewOfflineGenerator()

	response, err := gen.Generate(context.Background(), "You are a marketing performance analyst running an A/B evaluation.")
	require.NoError(t, err)

	var verdict struct {
		Winner string `json:"winner"`
	}
	require.NoError(t, json.Unmarshal([]byte(llmtext.ExtractObject(response)), &verdict))
	assert.Equal(t, "A", verdict.Winner)
}

func TestOfflineVideoCompletesOnFirstPoll(t *testing.T) {
	gen := NewOfflineGenerator()
	ctx := context.Background()

	op, err := gen.StartVideo(ctx, "a sneaker ad")
	require.NoError(t, err)

	blob, done, err := gen.PollVideo(ctx, op)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, "video/mp4", blob.MIMEType)
	assert.NotEmpty(t, blob.Data)
}
