package status_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/docqa/internal/render"
	"github.com/JaimeStill/docqa/internal/status"
)

func TestNewReporterIsIdle(t *testing.T) {
	r := status.NewReporter("ask")
	snap := r.Snapshot()

	if snap.Operation != "ask" {
		t.Errorf("operation = %q, want ask", snap.Operation)
	}
	if snap.State != status.StateIdle {
		t.Errorf("state = %q, want idle", snap.State)
	}
	if snap.TaskID != nil || snap.Output != nil || snap.Error != "" {
		t.Errorf("idle snapshot carries data: %+v", snap)
	}
}

func TestLifecycle(t *testing.T) {
	r := status.NewReporter("ask")
	task := uuid.New()

	r.Begin(task)
	snap := r.Snapshot()
	if snap.State != status.StateBusy {
		t.Fatalf("state = %q, want busy", snap.State)
	}
	if snap.TaskID == nil || *snap.TaskID != task {
		t.Errorf("task id = %v, want %v", snap.TaskID, task)
	}
	if snap.StartedAt == nil {
		t.Error("started_at not set")
	}

	if !r.Succeed(task, render.Text("answer")) {
		t.Fatal("Succeed returned false for latest task")
	}
	snap = r.Snapshot()
	if snap.State != status.StateSuccess {
		t.Fatalf("state = %q, want success", snap.State)
	}
	if snap.Output == nil || snap.Output.Text != "answer" {
		t.Errorf("output = %+v", snap.Output)
	}
	if snap.Error != "" {
		t.Errorf("error = %q, want cleared", snap.Error)
	}
	if !snap.Resolved() || snap.ResolvedAt == nil {
		t.Error("snapshot should be resolved")
	}

	if !r.Reset() {
		t.Fatal("Reset returned false after resolution")
	}
	if got := r.Snapshot().State; got != status.StateIdle {
		t.Errorf("state = %q, want idle", got)
	}
}

func TestErrorClearsSuccess(t *testing.T) {
	r := status.NewReporter("summarize")

	first := uuid.New()
	r.Begin(first)
	r.Succeed(first, render.Text("summary"))

	second := uuid.New()
	r.Begin(second)
	if snap := r.Snapshot(); snap.Output != nil {
		t.Error("Begin should clear previous output")
	}

	r.Fail(second, "document not found")
	snap := r.Snapshot()
	if snap.State != status.StateError {
		t.Fatalf("state = %q, want error", snap.State)
	}
	if snap.Error != "document not found" {
		t.Errorf("error = %q", snap.Error)
	}
	if snap.Output != nil {
		t.Error("error snapshot should not carry output")
	}
}

func TestSupersededTaskIgnored(t *testing.T) {
	r := status.NewReporter("upload")

	older := uuid.New()
	newer := uuid.New()
	r.Begin(older)
	r.Begin(newer)

	if r.Succeed(older, render.Text("old")) {
		t.Error("Succeed should reject superseded task")
	}
	if r.Fail(older, "old failure") {
		t.Error("Fail should reject superseded task")
	}
	if got := r.Snapshot().State; got != status.StateBusy {
		t.Errorf("state = %q, want busy", got)
	}

	if !r.Succeed(newer, render.Text("new")) {
		t.Fatal("Succeed should accept latest task")
	}
	if got := r.Snapshot().Output.Text; got != "new" {
		t.Errorf("output = %q, want new", got)
	}
}

func TestRejectDoesNotSupersedePending(t *testing.T) {
	r := status.NewReporter("ask")

	pending := uuid.New()
	r.Begin(pending)
	began := *r.Snapshot().StartedAt

	r.Reject(uuid.New(), "enter a question")
	snap := r.Snapshot()
	if snap.State != status.StateError || snap.Error != "enter a question" {
		t.Fatalf("snapshot = %+v, want precondition error", snap)
	}
	if !snap.Pending || !snap.Busy() {
		t.Error("rejection should keep the pending exchange visible")
	}

	if r.Reset() {
		t.Fatal("Reset should refuse while an exchange is pending")
	}

	if !r.Succeed(pending, render.Text("late answer")) {
		t.Fatal("pending task should still resolve")
	}
	snap = r.Snapshot()
	if snap.State != status.StateSuccess {
		t.Fatalf("state = %q, want success", snap.State)
	}
	if snap.Pending || snap.Busy() {
		t.Error("resolved snapshot should not be pending")
	}
	if snap.Error != "" {
		t.Errorf("error = %q, want cleared", snap.Error)
	}
	if snap.TaskID == nil || *snap.TaskID != pending {
		t.Errorf("task id = %v, want %v", snap.TaskID, pending)
	}
	if snap.StartedAt == nil || !snap.StartedAt.Equal(began) {
		t.Errorf("started_at = %v, want %v", snap.StartedAt, began)
	}

	if !r.Reset() {
		t.Error("Reset should succeed once resolved")
	}
}

func TestRejectWhileIdle(t *testing.T) {
	r := status.NewReporter("ask")

	r.Reject(uuid.New(), "no document loaded")
	snap := r.Snapshot()
	if snap.Pending || snap.Busy() {
		t.Error("rejection without an exchange should not be pending")
	}
	if !r.Reset() {
		t.Error("Reset should clear a rejection")
	}
}

func TestDuplicateResolveIgnored(t *testing.T) {
	r := status.NewReporter("ask")
	task := uuid.New()
	r.Begin(task)

	if !r.Fail(task, "timed out") {
		t.Fatal("Fail should accept latest task")
	}
	if r.Succeed(task, render.Text("late")) {
		t.Error("a resolved task should not resolve again")
	}
	if got := r.Snapshot().State; got != status.StateError {
		t.Errorf("state = %q, want error", got)
	}
}

func TestResetWhileBusy(t *testing.T) {
	r := status.NewReporter("search")
	r.Begin(uuid.New())

	if r.Reset() {
		t.Error("Reset should refuse while busy")
	}
	if got := r.Snapshot().State; got != status.StateBusy {
		t.Errorf("state = %q, want busy", got)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	r := status.NewReporter("ask")
	task := uuid.New()
	r.Begin(task)
	r.Succeed(task, render.Text("original"))

	snap := r.Snapshot()
	snap.Output.Text = "mutated"

	if got := r.Snapshot().Output.Text; got != "original" {
		t.Errorf("reporter output = %q, want original", got)
	}
}
