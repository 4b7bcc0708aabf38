// Package ports defines the interfaces between the orchestration core
// and its collaborators: the session document store, blob storage for
// generated media, the generation capabilities, and the cross-session
// memory bank. Adapters live under pkg/adapters; the core never imports
// a concrete backend.
package ports
