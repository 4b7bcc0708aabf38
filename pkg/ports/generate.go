package ports

import "context"

// GroundedResult is text generated with search grounding enabled,
// together with the source URIs that backed it.
type GroundedResult struct {
	Text    string
	Sources []string
}

// TraceResult is text generated with a reasoning trace attached.
type TraceResult struct {
	Trace string
	Text  string
}

// TextGenerator produces text from prompts. All calls are fallible and
// may block on the upstream model; callers contain failures.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateGrounded(ctx context.Context, prompt string) (GroundedResult, error)
	GenerateWithTrace(ctx context.Context, prompt string) (TraceResult, error)
}

// Blob is a chunk of generated binary media.
type Blob struct {
	Data     []byte
	MIMEType string
}

// VideoOperation is an opaque handle to a long-running video generation
// job. Only the MediaGenerator that issued it can poll it.
type VideoOperation interface{}

// MediaGenerator produces binary media. Video generation is a
// long-running operation: StartVideo returns a handle that the caller
// polls with PollVideo under its own retry budget.
type MediaGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (Blob, error)

	StartVideo(ctx context.Context, prompt string) (VideoOperation, error)

	// PollVideo checks a pending operation. done is false while the job
	// is still running; on done, the blob carries the result.
	PollVideo(ctx context.Context, op VideoOperation) (blob Blob, done bool, err error)

	GenerateSpeech(ctx context.Context, text string) (Blob, error)
}
