// Package services – AuditService
//
// This file implements the AuditService, the append-only record of board
// mutations. Entries are validated against the action/entity enumerations
// and listed newest first with a bounded cap.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/reactivetech/go-board-backend/internal/domain"
	"github.com/reactivetech/go-board-backend/internal/repo"
)

// AuditService implements the use-cases around the audit log.
type AuditService struct {
	// DB is the database handle used for all audit operations.
	DB *gorm.DB
	// ListLimit caps how many entries List returns (0 means the repo
	// default of 500).
	ListLimit int
}

// Append validates and records a new audit entry.
func (s *AuditService) Append(ctx context.Context, e *domain.AuditEntry) (*domain.AuditEntry, error) {
	switch e.Action {
	case domain.AuditActionCreate, domain.AuditActionUpdate,
		domain.AuditActionDelete, domain.AuditActionReorder:
	default:
		return nil, ErrInvalidAuditEntry
	}
	switch e.EntityType {
	case "project", "feature", "category", "product":
	default:
		return nil, ErrInvalidAuditEntry
	}
	e.EntityName = collapseSpaces(e.EntityName)
	if e.EntityName == "" {
		return nil, ErrInvalidAuditEntry
	}
	if e.User == "" {
		e.User = "unknown"
	}
	return repo.AppendAudit(ctx, s.DB, e)
}

// List returns the newest audit entries first.
func (s *AuditService) List(ctx context.Context) ([]domain.AuditEntry, error) {
	return repo.ListAudit(ctx, s.DB, s.ListLimit)
}
