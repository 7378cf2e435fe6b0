// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the product
// catalog.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reactivetech/go-board-backend/internal/domain"
)

// CreateProduct inserts a new catalog entry.
func CreateProduct(ctx context.Context, db *gorm.DB, p *domain.Product) (*domain.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// ListProducts returns the catalog ordered by display order then name.
func ListProducts(ctx context.Context, db *gorm.DB) ([]domain.Product, error) {
	var out []domain.Product
	err := db.WithContext(ctx).
		Order("display_order asc, name asc").
		Find(&out).Error
	return out, err
}

// ListProductsByIDs returns the catalog rows for the given ids, ordered by
// display order. Missing ids are silently absent from the result; callers
// that care compare lengths.
func ListProductsByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []domain.Product
	err := db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("display_order asc").
		Find(&out).Error
	return out, err
}

// GetProduct fetches a single catalog entry by id, or ErrNotFound.
func GetProduct(ctx context.Context, db *gorm.DB, id string) (*domain.Product, error) {
	var p domain.Product
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct persists the mutable fields of the catalog entry identified
// by p.ID. Returns ErrNotFound when no row was affected.
func UpdateProduct(ctx context.Context, db *gorm.DB, p *domain.Product) error {
	res := db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", p.ID).
		Select("name", "description", "manual_url", "display_order").
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteProduct soft-deletes a catalog entry by id.
func DeleteProduct(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
