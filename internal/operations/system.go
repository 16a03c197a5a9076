package operations

import (
	"context"

	"github.com/JaimeStill/docqa/internal/status"
	"github.com/JaimeStill/docqa/pkg/lifecycle"
	"github.com/JaimeStill/docqa/pkg/service"
)

// System defines the public contract of the operation dispatcher.
// Every dispatch method returns without waiting for the exchange; the
// operation's reporter is already busy (or showing a precondition error)
// when it returns.
type System interface {
	Handler(maxUploadSize int64) *Handler

	// Start registers a shutdown hook that drains in-flight exchanges.
	Start(lc *lifecycle.Coordinator) error

	Upload(file *service.File) *Task
	Ask(question string) *Task
	Summarize(sectionTitle string, granularity service.Granularity) *Task
	Extract(query string) *Task
	Search(query, maxResults string) *Task

	// Document fetches the details of the active document.
	Document(ctx context.Context) (*service.Document, error)
	// DocumentID returns the active document identifier, or "".
	DocumentID() string

	Status(kind Kind) (status.Snapshot, error)
	Statuses() []status.Snapshot
	// Reset returns a resolved operation to idle. It fails with ErrBusy
	// while an exchange is pending.
	Reset(kind Kind) error

	// Wait blocks until every dispatched exchange has resolved.
	Wait()
}
