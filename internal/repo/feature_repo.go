// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// ProductFeature model and the feature→product link table.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reactivetech/go-board-backend/internal/domain"
)

// CreateFeature inserts a new ProductFeature row.
func CreateFeature(ctx context.Context, db *gorm.DB, f *domain.ProductFeature) (*domain.ProductFeature, error) {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	f.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(f).Error; err != nil {
		return nil, err
	}
	return f, nil
}

// ListFeatures returns all features ordered by category then name.
func ListFeatures(ctx context.Context, db *gorm.DB) ([]domain.ProductFeature, error) {
	var out []domain.ProductFeature
	err := db.WithContext(ctx).
		Order("category asc, name asc").
		Find(&out).Error
	return out, err
}

// GetFeature fetches a single feature by id, or ErrNotFound if missing.
func GetFeature(ctx context.Context, db *gorm.DB, id string) (*domain.ProductFeature, error) {
	var f domain.ProductFeature
	if err := db.WithContext(ctx).Where("id = ?", id).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// CountFeaturesByIDs returns how many of the given feature ids exist.
// Services use this for referential checks before persisting projects.
func CountFeaturesByIDs(ctx context.Context, db *gorm.DB, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.ProductFeature{}).
		Where("id IN ?", ids).
		Count(&total).Error
	return total, err
}

// ListFeaturesByIDs returns the features for the given ids ordered by name.
// Missing ids are silently absent from the result.
func ListFeaturesByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]domain.ProductFeature, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []domain.ProductFeature
	err := db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("name asc").
		Find(&out).Error
	return out, err
}

// UpdateFeature persists the mutable fields of the feature identified by
// f.ID. Returns ErrNotFound when no row was affected.
func UpdateFeature(ctx context.Context, db *gorm.DB, f *domain.ProductFeature) error {
	res := db.WithContext(ctx).
		Model(&domain.ProductFeature{}).
		Where("id = ?", f.ID).
		Select("name", "category", "description").
		Updates(f)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteFeature soft-deletes a feature by id.
func DeleteFeature(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.ProductFeature{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListCategories returns the distinct feature categories in alphabetical
// order.
func ListCategories(ctx context.Context, db *gorm.DB) ([]string, error) {
	var out []string
	err := db.WithContext(ctx).
		Model(&domain.ProductFeature{}).
		Distinct("category").
		Order("category asc").
		Pluck("category", &out).Error
	return out, err
}

// GetCategoryOrder returns the stored category ordering, or nil when none was
// ever saved.
func GetCategoryOrder(ctx context.Context, db *gorm.DB) ([]string, error) {
	var row domain.CategoryOrder
	err := db.WithContext(ctx).First(&row, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.Names, nil
}

// SaveCategoryOrder upserts the single ordering row.
func SaveCategoryOrder(ctx context.Context, db *gorm.DB, names []string) error {
	row := domain.CategoryOrder{ID: 1, Names: names}
	return db.WithContext(ctx).Save(&row).Error
}

// LinkFeatureProduct upserts a feature→product association.
func LinkFeatureProduct(ctx context.Context, db *gorm.DB, featureID, productID string) error {
	link := &domain.FeatureProduct{FeatureID: featureID, ProductID: productID}
	return db.WithContext(ctx).
		Where("feature_id = ? AND product_id = ?", featureID, productID).
		FirstOrCreate(link).Error
}

// ProductIDsForFeatures resolves the distinct product ids shipping any of
// the given features. Order is unspecified; callers sort via the product
// catalog's display order.
func ProductIDsForFeatures(ctx context.Context, db *gorm.DB, featureIDs []string) ([]string, error) {
	if len(featureIDs) == 0 {
		return nil, nil
	}
	var out []string
	err := db.WithContext(ctx).
		Model(&domain.FeatureProduct{}).
		Distinct("product_id").
		Where("feature_id IN ?", featureIDs).
		Pluck("product_id", &out).Error
	return out, err
}
