// Package domain defines the core persistence models for the application.
// This file holds the DocumentationJob model backing the asynchronous
// user-manual generation workflow.
package domain

import "time"

// Documentation job statuses. Pending and processing are "active"; completed
// and failed are terminal and immutable.
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// DocumentationJob is the durable record of one manual-generation request.
//
// Fingerprint is the caller-computed idempotency key for the
// (project, feature set) tuple: while a job for a fingerprint is still
// active, resubmitting the same fingerprint returns that job instead of
// creating a duplicate. Terminal jobs never change again; a fresh submission
// with the same fingerprint after completion creates a new job.
type DocumentationJob struct {
	ID             string    `json:"id"          gorm:"type:char(36);primaryKey"`
	ProjectID      string    `json:"projectId"   gorm:"type:char(36);not null;index"`
	Fingerprint    string    `json:"-"           gorm:"type:varchar(512);not null;index:idx_doc_jobs_fingerprint"`
	IdempotencyKey string    `json:"-"           gorm:"type:varchar(200);index"`
	Status         string    `json:"status"      gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending','processing','completed','failed')"`
	OutputPath     string    `json:"-"           gorm:"type:varchar(1024)"`
	DownloadURL    string    `json:"downloadUrl,omitempty" gorm:"type:varchar(2048)"`
	Error          string    `json:"error,omitempty"       gorm:"type:text"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// TableName implements the GORM tabler interface.
func (DocumentationJob) TableName() string { return "documentation_jobs" }

// Active reports whether the job may still transition (pending/processing).
func (j *DocumentationJob) Active() bool {
	return j.Status == JobStatusPending || j.Status == JobStatusProcessing
}

// Terminal reports whether the job reached a final state.
func (j *DocumentationJob) Terminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}
