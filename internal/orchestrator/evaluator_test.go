package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluatorParsesVerdict(t *testing.T) {
	verdict := "```json\n{\"winner\":\"B\",\"metricsA\":{\"engagement\":61},\"metricsB\":{\"engagement\":78},\"confidence\":0.8,\"roiLift\":\"+14%\"}\n```"
	e := NewEvaluator(&fakeText{generate: func(prompt string) (string, error) {
		assert.Contains(t, prompt, "Variant A")
		assert.Contains(t, prompt, "Variant B")
		return verdict, nil
	}})

	result, err := e.Evaluate(context.Background(), "copy A", "copy B")
	require.NoError(t, err)
	assert.Equal(t, "B", result.Winner)
	assert.Equal(t, 0.8, result.Confidence)
	assert.Equal(t, "+14%", result.ROILift)
	assert.Equal(t, 78.0, result.MetricsB["engagement"])
}

func TestEvaluatorRejectsNonJSON(t *testing.T) {
	e := NewEvaluator(&fakeText{generate: func(prompt string) (string, error) {
		return "both look fine to me", nil
	}})

	result, err := e.Evaluate(context.Background(), "a", "b")
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestEvaluatorRequiresWinner(t *testing.T) {
	e := NewEvaluator(&fakeText{generate: func(prompt string) (string, error) {
		return `{"confidence": 0.4}`, nil
	}})

	_, err := e.Evaluate(context.Background(), "a", "b")
	assert.Error(t, err)
}
