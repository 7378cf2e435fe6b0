// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// append-only audit log.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reactivetech/go-board-backend/internal/domain"
)

// AppendAudit inserts a new audit entry. Entries are never updated.
func AppendAudit(ctx context.Context, db *gorm.DB, e *domain.AuditEntry) (*domain.AuditEntry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

// ListAudit returns the newest entries first, capped at limit. A limit <= 0
// falls back to 500 so the endpoint stays bounded without a retention job.
func ListAudit(ctx context.Context, db *gorm.DB, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 500
	}
	var out []domain.AuditEntry
	err := db.WithContext(ctx).
		Order("timestamp desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}
