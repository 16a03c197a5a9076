package operations

import (
	"bytes"
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/docqa/internal/render"
	"github.com/JaimeStill/docqa/internal/session"
	"github.com/JaimeStill/docqa/internal/status"
	"github.com/JaimeStill/docqa/pkg/lifecycle"
	"github.com/JaimeStill/docqa/pkg/service"
)

type exchange func(ctx context.Context) (render.Output, error)

type dispatcher struct {
	ctx       context.Context
	svc       Service
	session   *session.Session
	reporters map[Kind]*status.Reporter
	logger    *slog.Logger

	inflight errgroup.Group
	commitMu sync.Mutex
}

// New creates the operation dispatcher. Exchanges run under ctx, so
// cancelling it aborts everything in flight. sess is the single session
// shared by every operation.
func New(
	ctx context.Context,
	svc Service,
	sess *session.Session,
	logger *slog.Logger,
) System {
	reporters := make(map[Kind]*status.Reporter, len(Kinds))
	for _, k := range Kinds {
		reporters[k] = status.NewReporter(string(k))
	}

	return &dispatcher{
		ctx:       ctx,
		svc:       svc,
		session:   sess,
		reporters: reporters,
		logger:    logger.With("system", "operations"),
	}
}

func (d *dispatcher) Handler(maxUploadSize int64) *Handler {
	return NewHandler(d, d.logger, maxUploadSize)
}

func (d *dispatcher) Start(lc *lifecycle.Coordinator) error {
	d.logger.Info("starting operations system")

	lc.OnShutdown("operations", func() {
		<-lc.Context().Done()
		d.logger.Info("draining in-flight operations")
		d.Wait()
		d.logger.Info("operations drained")
	})

	return nil
}

func (d *dispatcher) Upload(file *service.File) *Task {
	task := newTask(KindUpload)
	if file == nil || strings.TrimSpace(file.Name) == "" {
		return d.reject(task, ErrNoFile)
	}

	f := *file
	size := int64(len(f.Data))
	pages := pdfPageCount(d.logger, f)

	var documentID string
	fn := func(ctx context.Context) (render.Output, error) {
		res, err := d.svc.Upload(ctx, f)
		if err != nil {
			return render.Output{}, err
		}
		if res.DocumentID == "" {
			return render.Output{}, &service.TransportError{Op: service.OpUpload, Err: ErrMissingResult}
		}

		documentID = res.DocumentID
		filename := res.Filename
		if filename == "" {
			filename = f.Name
		}
		return render.Upload(res.Message, res.DocumentID, filename, size, pages), nil
	}

	// Only the latest upload may move the session; a superseded resolution
	// leaves it alone.
	commit := func(current bool, err error) {
		if !current {
			return
		}
		if err != nil {
			d.session.Clear()
			d.logger.Info("session cleared", "task_id", task.ID)
			return
		}
		d.session.Set(documentID)
		d.logger.Info("session document set", "task_id", task.ID, "document_id", documentID)
	}

	return d.dispatch(task, fn, commit)
}

func (d *dispatcher) Ask(question string) *Task {
	task := newTask(KindAsk)

	documentID := d.session.Get()
	if documentID == "" {
		return d.reject(task, ErrNoDocument)
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return d.reject(task, ErrEmptyQuestion)
	}

	req := service.QuestionRequest{
		DocumentID: documentID,
		Question:   question,
	}

	return d.dispatch(task, func(ctx context.Context) (render.Output, error) {
		res, err := d.svc.Ask(ctx, req)
		if err != nil {
			return render.Output{}, err
		}
		return render.Text(res.Answer), nil
	}, nil)
}

func (d *dispatcher) Summarize(sectionTitle string, granularity service.Granularity) *Task {
	task := newTask(KindSummarize)

	documentID := d.session.Get()
	if documentID == "" {
		return d.reject(task, ErrNoDocument)
	}

	// Granularity is forwarded verbatim for the service to judge; blank is
	// omitted so the service default applies.
	req := service.SummaryRequest{DocumentID: documentID}
	if strings.TrimSpace(string(granularity)) != "" {
		req.Granularity = granularity
	}
	if title := strings.TrimSpace(sectionTitle); title != "" {
		req.SectionTitle = &title
	}

	return d.dispatch(task, func(ctx context.Context) (render.Output, error) {
		res, err := d.svc.Summarize(ctx, req)
		if err != nil {
			return render.Output{}, err
		}
		return render.Text(res.Summary), nil
	}, nil)
}

func (d *dispatcher) Extract(query string) *Task {
	task := newTask(KindExtract)

	documentID := d.session.Get()
	if documentID == "" {
		return d.reject(task, ErrNoDocument)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return d.reject(task, ErrEmptyQuery)
	}

	req := service.ExtractionRequest{
		DocumentID: documentID,
		Query:      query,
	}

	return d.dispatch(task, func(ctx context.Context) (render.Output, error) {
		res, err := d.svc.Extract(ctx, req)
		if err != nil {
			return render.Output{}, err
		}
		return render.Data(res.ExtractedData)
	}, nil)
}

func (d *dispatcher) Search(query, maxResults string) *Task {
	task := newTask(KindSearch)

	query = strings.TrimSpace(query)
	if query == "" {
		return d.reject(task, ErrEmptyQuery)
	}

	req := service.SearchRequest{
		Query:      query,
		MaxResults: parseMaxResults(maxResults),
	}

	return d.dispatch(task, func(ctx context.Context) (render.Output, error) {
		res, err := d.svc.Search(ctx, req)
		if err != nil {
			return render.Output{}, err
		}
		return render.Papers(res.Papers), nil
	}, nil)
}

func (d *dispatcher) Document(ctx context.Context) (*service.Document, error) {
	documentID := d.session.Get()
	if documentID == "" {
		return nil, ErrNoDocument
	}
	return d.svc.Document(ctx, documentID)
}

func (d *dispatcher) DocumentID() string {
	return d.session.Get()
}

func (d *dispatcher) Status(kind Kind) (status.Snapshot, error) {
	r, ok := d.reporters[kind]
	if !ok {
		return status.Snapshot{}, ErrUnknownKind
	}
	return r.Snapshot(), nil
}

func (d *dispatcher) Statuses() []status.Snapshot {
	snaps := make([]status.Snapshot, len(Kinds))
	for i, k := range Kinds {
		snaps[i] = d.reporters[k].Snapshot()
	}
	return snaps
}

func (d *dispatcher) Reset(kind Kind) error {
	r, ok := d.reporters[kind]
	if !ok {
		return ErrUnknownKind
	}
	if !r.Reset() {
		return ErrBusy
	}
	return nil
}

func (d *dispatcher) Wait() {
	d.inflight.Wait()
}

func (d *dispatcher) reject(task *Task, err error) *Task {
	d.reporters[task.Kind].Reject(task.ID, err.Error())
	d.logger.Info(
		"operation rejected",
		"operation", task.Kind,
		"task_id", task.ID,
		"reason", err.Error(),
	)
	task.resolve(render.Output{}, err)
	return task
}

// dispatch enters busy before returning and resolves fn on its own
// goroutine. commit, when set, runs after the reporter is resolved and is
// told whether the task was still the latest of its kind.
func (d *dispatcher) dispatch(task *Task, fn exchange, commit func(current bool, err error)) *Task {
	d.reporters[task.Kind].Begin(task.ID)
	d.logger.Info("operation dispatched", "operation", task.Kind, "task_id", task.ID)

	ctx := service.WithRequestID(d.ctx, task.ID.String())

	d.inflight.Go(func() error {
		out, err := fn(ctx)
		d.settle(task, out, err, commit)
		return nil
	})

	return task
}

func (d *dispatcher) settle(task *Task, out render.Output, err error, commit func(bool, error)) {
	if commit != nil {
		d.commitMu.Lock()
		defer d.commitMu.Unlock()
	}

	rep := d.reporters[task.Kind]
	logger := d.logger.With("operation", task.Kind, "task_id", task.ID)

	var current bool
	if err != nil {
		current = rep.Fail(task.ID, err.Error())
		logger.Warn("operation failed", "error", err)
	} else {
		current = rep.Succeed(task.ID, out)
		logger.Info("operation succeeded")
	}

	if !current {
		logger.Info("superseded result discarded")
	}

	if commit != nil {
		commit(current, err)
	}

	task.resolve(out, err)
}

// parseMaxResults forwards any integer, including zero and negatives, and
// any other text as given. Blank input yields nil so the field is omitted.
func parseMaxResults(s string) any {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		return n
	}
	return s
}

func pdfPageCount(logger *slog.Logger, f service.File) *int {
	if f.ContentType != "application/pdf" && !strings.HasSuffix(strings.ToLower(f.Name), ".pdf") {
		return nil
	}

	count, err := api.PageCount(bytes.NewReader(f.Data), nil)
	if err != nil {
		logger.Warn("failed to read PDF page count", "filename", f.Name, "error", err)
		return nil
	}

	return &count
}
