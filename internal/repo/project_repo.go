// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Project
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a project is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reactivetech/go-board-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for consistency across the service
// layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateProject inserts a new Project row. The project ID is a randomly
// generated UUID unless the caller supplied one, and CreatedAt is set to UTC.
func CreateProject(ctx context.Context, db *gorm.DB, p *domain.Project) (*domain.Project, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// ListProjects returns all projects ordered by creation time descending.
func ListProjects(ctx context.Context, db *gorm.DB) ([]domain.Project, error) {
	var out []domain.Project
	err := db.WithContext(ctx).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// CountProjects returns the total number of projects.
func CountProjects(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Project{}).
		Count(&total).Error
	return total, err
}

// ListProjectsPage returns a paginated slice of projects ordered by creation
// time descending. The caller computes offset and limit.
func ListProjectsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Project, error) {
	var out []domain.Project
	err := db.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetProject fetches a single project by id, or ErrNotFound if missing.
func GetProject(ctx context.Context, db *gorm.DB, id string) (*domain.Project, error) {
	var p domain.Project
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProject persists all mutable fields of the project identified by
// p.ID. Returns ErrNotFound when no row was affected.
func UpdateProject(ctx context.Context, db *gorm.DB, p *domain.Project) error {
	res := db.WithContext(ctx).
		Model(&domain.Project{}).
		Where("id = ?", p.ID).
		Select("name", "status", "start_date", "end_date", "progress",
			"description", "location", "features_used", "deployed_features").
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteProject soft-deletes a project by id. Returns ErrNotFound when the
// project does not exist.
func DeleteProject(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Project{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
