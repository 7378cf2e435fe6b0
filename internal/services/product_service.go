// Package services – ProductService
//
// This file implements the ProductService, which manages the product
// catalog: the sellable products, their user-manual module locations, and
// their display order.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/reactivetech/go-board-backend/internal/domain"
	"github.com/reactivetech/go-board-backend/internal/repo"
)

// ProductService implements the use-cases around the product catalog.
type ProductService struct {
	// DB is the database handle used for all catalog operations.
	DB *gorm.DB
}

// Create validates and inserts a new catalog entry.
func (s *ProductService) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	p.Name = collapseSpaces(p.Name)
	if p.Name == "" {
		return nil, ErrEmptyName
	}
	return repo.CreateProduct(ctx, s.DB, p)
}

// List returns the catalog ordered by display order.
func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return repo.ListProducts(ctx, s.DB)
}

// Update persists changes to an existing catalog entry.
func (s *ProductService) Update(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	p.Name = collapseSpaces(p.Name)
	if p.Name == "" {
		return nil, ErrEmptyName
	}
	if err := repo.UpdateProduct(ctx, s.DB, p); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return repo.GetProduct(ctx, s.DB, p.ID)
}

// Delete removes a catalog entry by id.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := repo.DeleteProduct(ctx, s.DB, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return nil
}
