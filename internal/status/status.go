// Package status tracks the visible lifecycle of a single operation:
// idle, busy while an exchange is pending, then success or error.
package status

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/docqa/internal/render"
)

// State is a point in an operation's lifecycle.
type State string

const (
	StateIdle    State = "idle"
	StateBusy    State = "busy"
	StateSuccess State = "success"
	StateError   State = "error"
)

// Snapshot is a point-in-time copy of a Reporter. Output is set only in
// StateSuccess and Error only in StateError. Pending marks an exchange
// still in flight behind a rejection shown in its place.
type Snapshot struct {
	Operation  string         `json:"operation"`
	State      State          `json:"state"`
	Pending    bool           `json:"pending,omitempty"`
	TaskID     *uuid.UUID     `json:"task_id,omitempty"`
	Output     *render.Output `json:"output,omitempty"`
	Error      string         `json:"error,omitempty"`
	StartedAt  *time.Time     `json:"started_at,omitempty"`
	ResolvedAt *time.Time     `json:"resolved_at,omitempty"`
}

// Resolved reports whether the snapshot shows a success or an error.
func (s Snapshot) Resolved() bool {
	return s.State == StateSuccess || s.State == StateError
}

// Busy reports whether an exchange is outstanding, whether or not a
// rejection is currently shown over it.
func (s Snapshot) Busy() bool {
	return s.State == StateBusy || s.Pending
}

// Reporter is the output surface of one operation kind. The most recently
// begun task owns the reporter; resolutions from older tasks are discarded.
type Reporter struct {
	mu      sync.RWMutex
	snap    Snapshot
	latest  uuid.UUID
	pending bool
	started time.Time
}

// NewReporter creates an idle Reporter for the named operation.
func NewReporter(operation string) *Reporter {
	return &Reporter{
		snap: Snapshot{
			Operation: operation,
			State:     StateIdle,
		},
	}
}

// Begin enters busy for task, clearing any visible result.
func (r *Reporter) Begin(task uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.latest = task
	r.pending = true
	r.started = now
	r.snap = Snapshot{
		Operation: r.snap.Operation,
		State:     StateBusy,
		TaskID:    &task,
		StartedAt: &now,
	}
}

// Succeed shows out for task. It returns false, leaving the reporter
// unchanged, when task is no longer the latest.
func (r *Reporter) Succeed(task uuid.UUID, out render.Output) bool {
	return r.resolve(task, StateSuccess, &out, "")
}

// Fail shows message as the error for task. It returns false, leaving the
// reporter unchanged, when task is no longer the latest.
func (r *Reporter) Fail(task uuid.UUID, message string) bool {
	return r.resolve(task, StateError, nil, message)
}

// Reject shows a local precondition failure for task without entering busy.
// A rejected task never becomes the latest, so an exchange already pending
// on this reporter still resolves into it and the snapshot stays Pending
// until it does.
func (r *Reporter) Reject(task uuid.UUID, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.snap = Snapshot{
		Operation:  r.snap.Operation,
		State:      StateError,
		TaskID:     &task,
		Pending:    r.pending,
		Error:      message,
		StartedAt:  &now,
		ResolvedAt: &now,
	}
}

// Reset returns a resolved reporter to idle. It returns false and does
// nothing while an exchange is pending, including one hidden behind a
// rejection.
func (r *Reporter) Reset() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pending {
		return false
	}

	r.snap = Snapshot{
		Operation: r.snap.Operation,
		State:     StateIdle,
	}
	return true
}

// Snapshot returns a copy of the current state.
func (r *Reporter) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := r.snap
	if s.Output != nil {
		out := *s.Output
		s.Output = &out
	}
	return s
}

func (r *Reporter) resolve(task uuid.UUID, state State, out *render.Output, message string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task != r.latest || !r.pending {
		return false
	}

	now := time.Now()
	started := r.started
	r.pending = false
	r.snap = Snapshot{
		Operation:  r.snap.Operation,
		State:      state,
		TaskID:     &task,
		Output:     out,
		Error:      message,
		StartedAt:  &started,
		ResolvedAt: &now,
	}
	return true
}
