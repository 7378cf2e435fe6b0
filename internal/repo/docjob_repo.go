// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the
// DocumentationJob model: creation, lookups, and the guarded status
// transitions that make terminal states immutable.
//
// Transition semantics:
//   - Every transition is a single UPDATE whose WHERE clause names the
//     states the job is allowed to leave. A zero-row result means the job
//     is either missing or already terminal, and the caller gets
//     ErrTerminalTransition (or ErrNotFound when the row does not exist).
//     The database therefore enforces single-writer discipline per job id
//     without additional locking.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reactivetech/go-board-backend/internal/domain"
)

// ErrTerminalTransition indicates an attempt to mutate a job that already
// reached completed or failed. Treated as a defect by callers: logged,
// never retried.
var ErrTerminalTransition = errors.New("job already in a terminal state")

// CreateDocJob inserts a new pending job for the given project and
// fingerprint. idemKey may be empty when the client sent no Idempotency-Key.
func CreateDocJob(ctx context.Context, db *gorm.DB, projectID, fingerprint, idemKey string) (*domain.DocumentationJob, error) {
	now := time.Now().UTC()
	job := &domain.DocumentationJob{
		ID:             uuid.NewString(),
		ProjectID:      projectID,
		Fingerprint:    fingerprint,
		IdempotencyKey: idemKey,
		Status:         domain.JobStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := db.WithContext(ctx).Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

// GetDocJob returns the job snapshot by id, or ErrNotFound.
func GetDocJob(ctx context.Context, db *gorm.DB, id string) (*domain.DocumentationJob, error) {
	var job domain.DocumentationJob
	if err := db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// GetActiveDocJob returns the pending or processing job for fingerprint, or
// ErrNotFound when no active job exists. Terminal jobs never match, so a
// completed fingerprint can be resubmitted.
func GetActiveDocJob(ctx context.Context, db *gorm.DB, fingerprint string) (*domain.DocumentationJob, error) {
	var job domain.DocumentationJob
	err := db.WithContext(ctx).
		Where("fingerprint = ? AND status IN ?", fingerprint,
			[]string{domain.JobStatusPending, domain.JobStatusProcessing}).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// GetActiveDocJobByKey returns the pending or processing job created under
// the given Idempotency-Key, or ErrNotFound. Used for replay detection.
func GetActiveDocJobByKey(ctx context.Context, db *gorm.DB, idemKey string) (*domain.DocumentationJob, error) {
	var job domain.DocumentationJob
	err := db.WithContext(ctx).
		Where("idempotency_key = ? AND status IN ?", idemKey,
			[]string{domain.JobStatusPending, domain.JobStatusProcessing}).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// MarkDocJobProcessing transitions pending → processing. Only pending jobs
// match the guard; anything else yields ErrTerminalTransition / ErrNotFound.
func MarkDocJobProcessing(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Model(&domain.DocumentationJob{}).
		Where("id = ? AND status = ?", id, domain.JobStatusPending).
		Updates(map[string]any{
			"status":     domain.JobStatusProcessing,
			"updated_at": time.Now().UTC(),
		})
	return transitionResult(ctx, db, id, res)
}

// CompleteDocJob transitions processing → completed, recording where the
// rendered document lives and the signed URL issued for it.
func CompleteDocJob(ctx context.Context, db *gorm.DB, id, outputPath, downloadURL string) error {
	res := db.WithContext(ctx).
		Model(&domain.DocumentationJob{}).
		Where("id = ? AND status IN ?", id,
			[]string{domain.JobStatusPending, domain.JobStatusProcessing}).
		Updates(map[string]any{
			"status":       domain.JobStatusCompleted,
			"output_path":  outputPath,
			"download_url": downloadURL,
			"updated_at":   time.Now().UTC(),
		})
	return transitionResult(ctx, db, id, res)
}

// FailDocJob transitions an active job → failed with a human-readable
// reason. Failures of terminal jobs are rejected like any other transition.
func FailDocJob(ctx context.Context, db *gorm.DB, id, reason string) error {
	res := db.WithContext(ctx).
		Model(&domain.DocumentationJob{}).
		Where("id = ? AND status IN ?", id,
			[]string{domain.JobStatusPending, domain.JobStatusProcessing}).
		Updates(map[string]any{
			"status":     domain.JobStatusFailed,
			"error":      reason,
			"updated_at": time.Now().UTC(),
		})
	return transitionResult(ctx, db, id, res)
}

// transitionResult maps a guarded UPDATE outcome to repo errors: row exists
// but guard excluded it → ErrTerminalTransition; row missing → ErrNotFound.
func transitionResult(ctx context.Context, db *gorm.DB, id string, res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var count int64
	if err := db.WithContext(ctx).
		Model(&domain.DocumentationJob{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrTerminalTransition
}
