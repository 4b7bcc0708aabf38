package orchestrator

import (
	"context"
	"errors"

	"github.com/agenticum/agenticum/internal/nodes"
	"github.com/agenticum/agenticum/pkg/ports"
)

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

// scriptNode is a registry entry with scripted behavior.
type scriptNode struct {
	id   string
	name string
	fn   func(ctx context.Context, nc nodes.Context) (nodes.Output, error)
}

func (s *scriptNode) ID() string   { return s.id }
func (s *scriptNode) Name() string { return s.name }
func (s *scriptNode) Produce(ctx context.Context, nc nodes.Context) (nodes.Output, error) {
	return s.fn(ctx, nc)
}
