// Package nodes contains the specialist agents the engine executes.
// Every node turns a campaign intent (plus whatever earlier phases
// produced) into one work product, reporting its own lifecycle to the
// session store as it goes.
package nodes

import (
	"context"
	"fmt"
	"sort"

	"github.com/agenticum/agenticum/pkg/domain"
)

// Context carries the inputs a node sees when it runs.
type Context struct {
	SessionID string
	Intent    string

	// PreviousOutputs maps node ID to the text output of nodes from
	// earlier phases. Empty for first-phase nodes.
	PreviousOutputs map[string]string
}

// Output is what a node delivers on success.
type Output struct {
	// Data is the text result. It becomes the node's stored output and
	// feeds later phases through Context.PreviousOutputs.
	Data string

	AssetType  domain.AssetType
	AssetTitle string

	// Media points at uploaded binary media, when the node produced any.
	Media *domain.MediaRef
}

// Kind is a runnable specialist agent.
type Kind interface {
	ID() string
	Name() string
	Produce(ctx context.Context, nc Context) (Output, error)
}

// Registry resolves plan node IDs to runnable nodes.
type Registry struct {
	kinds map[string]Kind
}

// NewRegistry creates a registry holding the given nodes.
func NewRegistry(kinds ...Kind) *Registry {
	r := &Registry{kinds: make(map[string]Kind, len(kinds))}
	for _, k := range kinds {
		r.kinds[k.ID()] = k
	}
	return r
}

// Register adds a node, replacing any previous node with the same ID.
func (r *Registry) Register(k Kind) {
	r.kinds[k.ID()] = k
}

// Get returns the node for an ID.
func (r *Registry) Get(id string) (Kind, error) {
	k, ok := r.kinds[id]
	if !ok {
		return nil, fmt.Errorf("unknown node %q", id)
	}
	return k, nil
}

// Has reports whether the ID is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.kinds[id]
	return ok
}

// IDs returns the registered node IDs, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.kinds))
	for id := range r.kinds {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
