package nodes

import (
	"context"
	"errors"

	"github.com/agenticum/agenticum/pkg/ports"
)

// fakeText scripts the text generator per call.
type fakeText struct {
	generate func(prompt string) (string, error)
	grounded func(prompt string) (ports.GroundedResult, error)
	trace    func(prompt string) (ports.TraceResult, error)
}

func (f *fakeText) Generate(ctx context.Context, prompt string) (string, error) {
	if f.generate == nil {
		return "", errors.New("generate not scripted")
	}
	return f.generate(prompt)
}

func (f *fakeText) GenerateGrounded(ctx context.Context, prompt string) (ports.GroundedResult, error) {
	if f.grounded == nil {
		return ports.GroundedResult{}, errors.New("grounded not scripted")
	}
	return f.grounded(prompt)
}

func (f *fakeText) GenerateWithTrace(ctx context.Context, prompt string) (ports.TraceResult, error) {
	if f.trace == nil {
		return ports.TraceResult{}, errors.New("trace not scripted")
	}
	return f.trace(prompt)
}

// fakeMedia scripts the media generator. Video completes after
// pendingPolls poll calls.
type fakeMedia struct {
	imageBlob ports.Blob
	imageErr  error

	videoBlob    ports.Blob
	videoErr     error
	pendingPolls int
	polls        int

	speechBlob ports.Blob
	speechErr  error
}

type fakeVideoOp struct{}

func (f *fakeMedia) GenerateImage(ctx context.Context, prompt string) (ports.Blob, error) {
	return f.imageBlob, f.imageErr
}

func (f *fakeMedia) StartVideo(ctx context.Context, prompt string) (ports.VideoOperation, error) {
	if f.videoErr != nil {
		return nil, f.videoErr
	}
	return fakeVideoOp{}, nil
}

func (f *fakeMedia) PollVideo(ctx context.Context, op ports.VideoOperation) (ports.Blob, bool, error) {
	f.polls++
	if f.polls <= f.pendingPolls {
		return ports.Blob{}, false, nil
	}
	return f.videoBlob, true, nil
}

func (f *fakeMedia) GenerateSpeech(ctx context.Context, text string) (ports.Blob, error) {
	return f.speechBlob, f.speechErr
}
