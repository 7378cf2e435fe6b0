package docs

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/reactivetech/go-board-backend/internal/domain"
	"github.com/reactivetech/go-board-backend/internal/repo"
)

// Worker drains the job queue with a fixed pool of goroutines. Each job is
// rendered under its own timeout; outcomes are written back through the
// guarded repository transitions, so a job that somehow reached a terminal
// state elsewhere is never overwritten.
type Worker struct {
	// DB is the database handle for job transitions.
	DB *gorm.DB
	// Renderer produces the document for each job.
	Renderer Renderer
	// Store persists rendered documents.
	Store Store
	// Signer issues the download URL recorded at completion.
	Signer URLSigner
	// Workers is the pool size.
	Workers int
	// Timeout caps the execution of a single job.
	Timeout time.Duration
	// Log receives per-job outcomes.
	Log zerolog.Logger
	// Observe, when set, records each terminal outcome (status, processing
	// duration) for metrics.
	Observe func(status string, d time.Duration)

	queue chan string
	stop  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once
}

// NewWorker builds a Worker with a buffered queue of queueSize ids.
func NewWorker(db *gorm.DB, r Renderer, s Store, signer URLSigner, workers, queueSize int, timeout time.Duration, log zerolog.Logger) *Worker {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Worker{
		DB:       db,
		Renderer: r,
		Store:    s,
		Signer:   signer,
		Workers:  workers,
		Timeout:  timeout,
		Log:      log,
		queue:    make(chan string, queueSize),
		stop:     make(chan struct{}),
	}
}

// Start launches the pool. Safe to call once.
func (w *Worker) Start() {
	for i := 0; i < w.Workers; i++ {
		w.wg.Add(1)
		go w.run()
	}
}

// Stop signals the pool to drain and blocks until every in-flight job
// finishes. Jobs still buffered in the queue stay pending and are picked up
// on the next start against the same database.
func (w *Worker) Stop() {
	w.once.Do(func() { close(w.stop) })
	w.wg.Wait()
}

// Enqueue offers a job id to the pool without blocking. ErrQueueFull is
// returned when the buffer is saturated or the pool is shutting down.
func (w *Worker) Enqueue(jobID string) error {
	select {
	case <-w.stop:
		return ErrQueueFull
	default:
	}
	select {
	case w.queue <- jobID:
		return nil
	default:
		return ErrQueueFull
	}
}

func (w *Worker) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.stop:
			return
		case id := <-w.queue:
			w.process(id)
		}
	}
}

// process drives one job through processing to a terminal state.
func (w *Worker) process(id string) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), w.Timeout)
	defer cancel()

	tr := otel.Tracer("docs/Worker")
	ctx, span := tr.Start(ctx, "process",
		trace.WithAttributes(attribute.String("docs.job_id", id)),
	)
	defer span.End()

	if err := repo.MarkDocJobProcessing(ctx, w.DB, id); err != nil {
		// Terminal or vanished jobs are not retried; a duplicate delivery
		// landing here is harmless.
		w.Log.Warn().Err(err).Str("job_id", id).Msg("skipping job")
		return
	}

	job, err := repo.GetDocJob(ctx, w.DB, id)
	if err != nil {
		w.fail(ctx, id, "job disappeared during processing")
		return
	}

	data, filename, err := w.Renderer.Render(ctx, job)
	if err != nil {
		w.fail(ctx, id, err.Error())
		w.observe(domain.JobStatusFailed, start)
		return
	}

	path, err := w.Store.Put(ctx, filename, data)
	if err != nil {
		w.fail(ctx, id, "store document: "+err.Error())
		w.observe(domain.JobStatusFailed, start)
		return
	}

	url := ""
	if w.Signer != nil {
		url = w.Signer.SignedURL(path)
	}
	if err := repo.CompleteDocJob(context.WithoutCancel(ctx), w.DB, id, path, url); err != nil {
		w.Log.Error().Err(err).Str("job_id", id).Msg("could not complete job")
		return
	}
	w.observe(domain.JobStatusCompleted, start)
	w.Log.Info().Str("job_id", id).Str("file", filename).Msg("manual generated")
}

func (w *Worker) observe(status string, start time.Time) {
	if w.Observe != nil {
		w.Observe(status, time.Since(start))
	}
}

// fail records the terminal failure reason. ErrTerminalTransition here means
// another writer beat us to a terminal state, which is a defect worth a log
// line but not a retry.
func (w *Worker) fail(ctx context.Context, id, reason string) {
	// The job context may already be past its deadline (that is often why we
	// are here). The terminal write must still land, or the job would sit in
	// processing forever.
	err := repo.FailDocJob(context.WithoutCancel(ctx), w.DB, id, reason)
	switch {
	case err == nil:
		w.Log.Warn().Str("job_id", id).Str("reason", reason).Msg("manual generation failed")
	case errors.Is(err, repo.ErrTerminalTransition):
		w.Log.Error().Str("job_id", id).Msg("failure raced a terminal transition")
	default:
		w.Log.Error().Err(err).Str("job_id", id).Msg("could not fail job")
	}
}
