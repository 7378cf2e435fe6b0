package docs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/reactivetech/go-board-backend/internal/domain"
	"github.com/reactivetech/go-board-backend/internal/repo"
)

// fakeRenderer returns canned output or a canned error.
type fakeRenderer struct {
	data []byte
	name string
	err  error
}

func (r *fakeRenderer) Render(context.Context, *domain.DocumentationJob) ([]byte, string, error) {
	return r.data, r.name, r.err
}

// memStore keeps documents in a map.
type memStore struct {
	files map[string][]byte
	err   error
}

func (s *memStore) Put(_ context.Context, name string, data []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.files == nil {
		s.files = map[string][]byte{}
	}
	s.files[name] = data
	return name, nil
}

func (s *memStore) Open(_ context.Context, path string) ([]byte, error) {
	data, okFile := s.files[path]
	if !okFile {
		return nil, errors.New("missing")
	}
	return data, nil
}

func newTestWorker(t *testing.T, r Renderer, s Store) *Worker {
	t.Helper()
	db := newDocsDB(t)
	return NewWorker(db, r, s, staticSigner("/files/"), 1, 4, 5*time.Second, zerolog.Nop())
}

func TestWorkerProcess_CompletesJob(t *testing.T) {
	store := &memStore{}
	w := newTestWorker(t, &fakeRenderer{data: []byte("doc"), name: "atlas-user-manual.docx"}, store)
	ctx := context.Background()

	job, err := repo.CreateDocJob(ctx, w.DB, "p1", "fp", "")
	if err != nil {
		t.Fatalf("create job: %v", err)
	}

	w.process(job.ID)

	got, err := repo.GetDocJob(ctx, w.DB, job.ID)
	if err != nil {
		t.Fatalf("load job: %v", err)
	}
	if got.Status != domain.JobStatusCompleted {
		t.Fatalf("status = %q (error=%q)", got.Status, got.Error)
	}
	if got.OutputPath != "atlas-user-manual.docx" {
		t.Fatalf("output path = %q", got.OutputPath)
	}
	if got.DownloadURL != "/files/atlas-user-manual.docx" {
		t.Fatalf("download url = %q", got.DownloadURL)
	}
	if _, okFile := store.files["atlas-user-manual.docx"]; !okFile {
		t.Fatal("document not stored")
	}
}

func TestWorkerProcess_RenderFailureIsRecorded(t *testing.T) {
	w := newTestWorker(t, &fakeRenderer{err: errors.New("no products are linked")}, &memStore{})
	ctx := context.Background()

	job, _ := repo.CreateDocJob(ctx, w.DB, "p1", "fp", "")
	w.process(job.ID)

	got, _ := repo.GetDocJob(ctx, w.DB, job.ID)
	if got.Status != domain.JobStatusFailed {
		t.Fatalf("status = %q", got.Status)
	}
	if got.Error == "" {
		t.Fatal("failure reason missing")
	}
}

// stuckRenderer only returns once the job context expires, simulating a
// render that overruns the worker timeout.
type stuckRenderer struct{}

func (stuckRenderer) Render(ctx context.Context, _ *domain.DocumentationJob) ([]byte, string, error) {
	<-ctx.Done()
	return nil, "", ctx.Err()
}

func TestWorkerProcess_TimeoutReachesTerminalState(t *testing.T) {
	w := newTestWorker(t, stuckRenderer{}, &memStore{})
	w.Timeout = 50 * time.Millisecond
	ctx := context.Background()

	job, _ := repo.CreateDocJob(ctx, w.DB, "p1", "fp", "")
	w.process(job.ID)

	got, err := repo.GetDocJob(ctx, w.DB, job.ID)
	if err != nil {
		t.Fatalf("load job: %v", err)
	}
	if got.Status != domain.JobStatusFailed {
		t.Fatalf("status = %q; an overrun job must not stay in processing", got.Status)
	}
	if got.Error == "" {
		t.Fatal("failure reason missing")
	}
}

func TestWorkerProcess_StoreFailureIsRecorded(t *testing.T) {
	w := newTestWorker(t,
		&fakeRenderer{data: []byte("doc"), name: "m.docx"},
		&memStore{err: errors.New("disk full")},
	)
	ctx := context.Background()

	job, _ := repo.CreateDocJob(ctx, w.DB, "p1", "fp", "")
	w.process(job.ID)

	got, _ := repo.GetDocJob(ctx, w.DB, job.ID)
	if got.Status != domain.JobStatusFailed {
		t.Fatalf("status = %q", got.Status)
	}
}

func TestWorkerProcess_SkipsTerminalJobs(t *testing.T) {
	w := newTestWorker(t, &fakeRenderer{data: []byte("doc"), name: "m.docx"}, &memStore{})
	ctx := context.Background()

	job, _ := repo.CreateDocJob(ctx, w.DB, "p1", "fp", "")
	if err := repo.FailDocJob(ctx, w.DB, job.ID, "cancelled"); err != nil {
		t.Fatalf("fail: %v", err)
	}

	// A late queue delivery must not resurrect the job.
	w.process(job.ID)

	got, _ := repo.GetDocJob(ctx, w.DB, job.ID)
	if got.Status != domain.JobStatusFailed || got.Error != "cancelled" {
		t.Fatalf("terminal job mutated: %+v", got)
	}
}

func TestWorkerEnqueue_ReportsSaturation(t *testing.T) {
	w := NewWorker(nil, &fakeRenderer{}, &memStore{}, nil, 1, 1, time.Second, zerolog.Nop())
	// Workers not started, so the single buffer slot fills immediately.
	if err := w.Enqueue("a"); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	if err := w.Enqueue("b"); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("want ErrQueueFull, got %v", err)
	}
}

func TestWorkerEnqueue_RejectedAfterStop(t *testing.T) {
	w := NewWorker(nil, &fakeRenderer{}, &memStore{}, nil, 1, 1, time.Second, zerolog.Nop())
	w.Start()
	w.Stop()
	if err := w.Enqueue("a"); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("want ErrQueueFull after stop, got %v", err)
	}
}

func TestWorker_ObserveCallback(t *testing.T) {
	var gotStatus string
	w := newTestWorker(t, &fakeRenderer{data: []byte("doc"), name: "m.docx"}, &memStore{})
	w.Observe = func(status string, _ time.Duration) { gotStatus = status }
	ctx := context.Background()

	job, _ := repo.CreateDocJob(ctx, w.DB, "p1", "fp", "")
	w.process(job.ID)

	if gotStatus != domain.JobStatusCompleted {
		t.Fatalf("observed status = %q", gotStatus)
	}
}
