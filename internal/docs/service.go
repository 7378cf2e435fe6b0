package docs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/reactivetech/go-board-backend/internal/domain"
	"github.com/reactivetech/go-board-backend/internal/repo"
)

// submitRetries bounds how often the dedup transaction is re-run on a SQLite
// write-lock conflict.
const submitRetries = 3

// sqliteBusy reports whether err is a SQLite lock contention error. The pure
// Go driver surfaces these as plain error strings, so the check is textual.
func sqliteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

// Enqueuer hands accepted job ids to the background workers.
type Enqueuer interface {
	Enqueue(jobID string) error
}

// URLSigner issues expiring download URLs for stored documents.
type URLSigner interface {
	SignedURL(path string) string
}

// Service implements the submission and status surface of the
// manual-generation workflow. Submission is idempotent per fingerprint:
// while a job for a (project, feature set) tuple is active, resubmitting
// returns that job instead of creating a duplicate.
type Service struct {
	// DB is the database handle used for job bookkeeping.
	DB *gorm.DB
	// Queue receives the ids of freshly created jobs.
	Queue Enqueuer
	// Signer refreshes download URLs on status reads so links handed out
	// never start life already expired.
	Signer URLSigner
}

// Submit registers a generation request for the project. When featureIDs is
// empty the project's own feature list is used. idemKey is the optional
// client-supplied Idempotency-Key; an active job created under the same key
// is reused before fingerprints are even compared. The returned bool reports
// whether an already-active job was reused.
func (s *Service) Submit(ctx context.Context, projectID string, featureIDs []string, idemKey string) (*domain.DocumentationJob, bool, error) {
	tr := otel.Tracer("docs/Service")
	ctx, span := tr.Start(ctx, "Submit",
		trace.WithAttributes(attribute.String("project.id", projectID)),
	)
	defer span.End()

	project, err := repo.GetProject(ctx, s.DB, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fmt.Errorf("project %s: %w", projectID, repo.ErrNotFound)
		}
		return nil, false, err
	}
	if len(featureIDs) == 0 {
		featureIDs = project.FeaturesUsed
	}
	if len(featureIDs) == 0 {
		return nil, false, ErrNoFeatures
	}

	fp := Fingerprint(projectID, featureIDs)

	var (
		job   *domain.DocumentationJob
		fresh bool
	)
	dedup := func(tx *gorm.DB) error {
		if idemKey != "" {
			existing, err := repo.GetActiveDocJobByKey(ctx, tx, idemKey)
			if err == nil {
				job = existing
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		existing, err := repo.GetActiveDocJob(ctx, tx, fp)
		if err == nil {
			job = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		job, err = repo.CreateDocJob(ctx, tx, projectID, fp, idemKey)
		fresh = err == nil
		return err
	}

	// Two concurrent submissions with the same fingerprint can collide on the
	// SQLite write lock when both lookups miss. Re-running the transaction
	// makes the loser observe the winner's row and reuse it.
	for attempt := 0; ; attempt++ {
		job, fresh = nil, false
		err = s.DB.WithContext(ctx).Transaction(dedup)
		if err == nil || !sqliteBusy(err) || attempt >= submitRetries {
			break
		}
		time.Sleep(time.Duration(attempt+1) * 10 * time.Millisecond)
	}
	if err != nil {
		return nil, false, err
	}
	if !fresh {
		span.SetAttributes(attribute.String("docs.job_id", job.ID), attribute.Bool("docs.reused", true))
		return job, true, nil
	}

	if err := s.Queue.Enqueue(job.ID); err != nil {
		// The row exists but nothing will ever pick it up; fail it so
		// pollers see a terminal state instead of waiting out their budget.
		if ferr := repo.FailDocJob(ctx, s.DB, job.ID, "generation queue is full"); ferr != nil {
			log.Ctx(ctx).Error().Err(ferr).Str("job_id", job.ID).
				Msg("could not fail unqueued job")
		}
		return nil, false, ErrQueueFull
	}
	span.SetAttributes(attribute.String("docs.job_id", job.ID))
	return job, false, nil
}

// GetStatus returns the current job snapshot. Completed jobs get a freshly
// signed download URL; the stored URL is only a record of what was issued at
// completion time.
func (s *Service) GetStatus(ctx context.Context, id string) (*domain.DocumentationJob, error) {
	job, err := repo.GetDocJob(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	if job.Status == domain.JobStatusCompleted && job.OutputPath != "" && s.Signer != nil {
		job.DownloadURL = s.Signer.SignedURL(job.OutputPath)
	}
	return job, nil
}
