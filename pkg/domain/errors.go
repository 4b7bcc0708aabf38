package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionExists is returned when creating a session whose ID is already taken.
var ErrSessionExists = errors.New("session already exists")

// ErrNotAwaitingApproval is returned when Resume is called on a session
// that is not paused at the approval gate.
var ErrNotAwaitingApproval = errors.New("session is not awaiting approval")

// ErrNotApproved is returned when the approval payload rejects execution.
var ErrNotApproved = errors.New("approval was not granted")

// ErrBlobNotFound is returned when a stored asset blob cannot be located.
var ErrBlobNotFound = errors.New("blob not found")
