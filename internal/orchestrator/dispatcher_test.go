package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenticum/agenticum/pkg/domain"
)

func TestDispatcherRunsResumeInBackground(t *testing.T) {
	rig := newTestRig(t, nil)
	ctx := context.Background()

	id, err := rig.engine.Start(ctx, "Launch a productivity app")
	require.NoError(t, err)

	d := NewDispatcher(rig.engine, 1, 4, nil)
	require.NoError(t, d.Enqueue(id, domain.Approval{Approved: true}))
	d.Close() // waits for the in-flight resume

	session, err := rig.store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCompleted, session.Status)
}

func TestDispatcherRejectsWhenFull(t *testing.T) {
	rig := newTestRig(t, nil)

	d := NewDispatcher(rig.engine, 1, 1, nil)
	defer d.Close()

	// Saturate the queue with resumes for sessions that don't exist;
	// the worker drains them slowly enough that a tiny queue overflows.
	var sawFull bool
	for i := 0; i < 50; i++ {
		if err := d.Enqueue("missing", domain.Approval{Approved: true}); err != nil {
			sawFull = true
			break
		}
	}
	if !sawFull {
		// Give the worker a moment, then one more push must succeed.
		time.Sleep(10 * time.Millisecond)
		assert.NoError(t, d.Enqueue("missing", domain.Approval{Approved: true}))
	}
}
