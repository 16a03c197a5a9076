package operations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/docqa/internal/render"
	"github.com/JaimeStill/docqa/internal/status"
)

// Task is one invocation of an operation. It resolves exactly once, either
// immediately on a precondition failure or when its exchange completes.
type Task struct {
	ID        uuid.UUID
	Kind      Kind
	StartedAt time.Time

	done       chan struct{}
	output     render.Output
	err        error
	resolvedAt time.Time
}

func newTask(kind Kind) *Task {
	return &Task{
		ID:        uuid.New(),
		Kind:      kind,
		StartedAt: time.Now(),
		done:      make(chan struct{}),
	}
}

// Done is closed once the task has resolved.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task resolves or ctx ends. The returned error is the
// operation's failure, or ctx.Err() if waiting was abandoned.
func (t *Task) Wait(ctx context.Context) (render.Output, error) {
	select {
	case <-t.done:
		return t.output, t.err
	case <-ctx.Done():
		return render.Output{}, ctx.Err()
	}
}

// Snapshot describes this task alone: busy until it resolves, then its own
// output or error, regardless of what later tasks of the same kind show.
func (t *Task) Snapshot() status.Snapshot {
	id := t.ID
	started := t.StartedAt
	snap := status.Snapshot{
		Operation: string(t.Kind),
		State:     status.StateBusy,
		TaskID:    &id,
		StartedAt: &started,
	}

	select {
	case <-t.done:
	default:
		return snap
	}

	resolved := t.resolvedAt
	snap.ResolvedAt = &resolved
	if t.err != nil {
		snap.State = status.StateError
		snap.Error = t.err.Error()
		return snap
	}
	out := t.output
	snap.State = status.StateSuccess
	snap.Output = &out
	return snap
}

func (t *Task) resolve(out render.Output, err error) {
	t.output = out
	t.err = err
	t.resolvedAt = time.Now()
	close(t.done)
}

// WaitAll waits for every task to resolve. Operation failures are reported
// per task; WaitAll only fails when ctx ends first.
func WaitAll(ctx context.Context, tasks ...*Task) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, t := range tasks {
		g.Go(func() error {
			select {
			case <-t.done:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}
	return g.Wait()
}
