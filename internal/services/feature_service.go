// Package services – FeatureService
//
// This file implements the FeatureService, which manages the product-feature
// catalog. Deleting a feature also removes its id from every project's used
// and deployed lists inside one transaction, so no project is left pointing
// at a dangling feature id.
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/reactivetech/go-board-backend/internal/domain"
	"github.com/reactivetech/go-board-backend/internal/repo"
)

// FeatureService implements the use-cases around product features. It is
// context-aware and opens its own transaction where multiple aggregates are
// touched.
type FeatureService struct {
	// DB is the database handle used for all feature operations.
	DB *gorm.DB
}

// categoryTitle normalizes categories to title case so "security" and
// "Security" land in one bucket.
var categoryTitle = cases.Title(language.English)

// Create validates and inserts a new product feature.
func (s *FeatureService) Create(ctx context.Context, f *domain.ProductFeature) (*domain.ProductFeature, error) {
	f.Name = collapseSpaces(f.Name)
	f.Category = normalizeCategory(f.Category)
	if f.Name == "" {
		return nil, ErrEmptyName
	}
	return repo.CreateFeature(ctx, s.DB, f)
}

// normalizeCategory collapses whitespace and title-cases the category,
// defaulting to "General" when blank.
func normalizeCategory(c string) string {
	c = collapseSpaces(c)
	if c == "" {
		return "General"
	}
	return categoryTitle.String(strings.ToLower(c))
}

// List returns all features ordered by category then name.
func (s *FeatureService) List(ctx context.Context) ([]domain.ProductFeature, error) {
	return repo.ListFeatures(ctx, s.DB)
}

// Categories returns the distinct feature categories in their stored display
// order. Categories never reordered sort alphabetically after the ordered
// ones.
func (s *FeatureService) Categories(ctx context.Context) ([]string, error) {
	cats, err := repo.ListCategories(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	order, err := repo.GetCategoryOrder(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	return applyCategoryOrder(cats, order), nil
}

// Reorder persists a new category display order. Every submitted name must be
// an existing category; blanks and duplicates are dropped. The resulting full
// ordering is returned.
func (s *FeatureService) Reorder(ctx context.Context, names []string) ([]string, error) {
	seen := make(map[string]struct{}, len(names))
	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		n = collapseSpaces(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		cleaned = append(cleaned, n)
	}
	if len(cleaned) == 0 {
		return nil, ErrEmptyCategoryOrder
	}

	existing, err := repo.ListCategories(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		known[n] = struct{}{}
	}
	for _, n := range cleaned {
		if _, ok := known[n]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, n)
		}
	}

	if err := repo.SaveCategoryOrder(ctx, s.DB, cleaned); err != nil {
		return nil, err
	}
	return applyCategoryOrder(existing, cleaned), nil
}

// applyCategoryOrder sorts cats by their position in order. Unlisted
// categories keep their incoming (alphabetical) order at the end.
func applyCategoryOrder(cats, order []string) []string {
	if len(order) == 0 {
		return cats
	}
	pos := make(map[string]int, len(order))
	for i, n := range order {
		pos[n] = i
	}
	sort.SliceStable(cats, func(i, j int) bool {
		pi, iOK := pos[cats[i]]
		pj, jOK := pos[cats[j]]
		switch {
		case iOK && jOK:
			return pi < pj
		case iOK:
			return true
		default:
			return false
		}
	})
	return cats
}

// Update persists changes to an existing feature.
func (s *FeatureService) Update(ctx context.Context, f *domain.ProductFeature) (*domain.ProductFeature, error) {
	f.Name = collapseSpaces(f.Name)
	f.Category = normalizeCategory(f.Category)
	if f.Name == "" {
		return nil, ErrEmptyName
	}
	if err := repo.UpdateFeature(ctx, s.DB, f); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeatureNotFound
		}
		return nil, err
	}
	return repo.GetFeature(ctx, s.DB, f.ID)
}

// Delete removes a feature and scrubs its id from every project's feature
// lists atomically.
func (s *FeatureService) Delete(ctx context.Context, id string) error {
	tr := otel.Tracer("services/FeatureService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(attribute.String("feature.id", id)),
	)
	defer span.End()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.DeleteFeature(ctx, tx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFeatureNotFound
			}
			return err
		}

		// Scrub the id out of every project that references it. The list
		// columns are JSON, so the filter happens in Go.
		projects, err := repo.ListProjects(ctx, tx)
		if err != nil {
			return err
		}
		for i := range projects {
			p := &projects[i]
			used, changedUsed := removeID(p.FeaturesUsed, id)
			deployed, changedDeployed := removeID(p.DeployedFeatures, id)
			if !changedUsed && !changedDeployed {
				continue
			}
			p.FeaturesUsed = used
			p.DeployedFeatures = deployed
			if err := repo.UpdateProject(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

// removeID filters id out of ids, reporting whether anything changed.
func removeID(ids []string, id string) ([]string, bool) {
	out := make([]string, 0, len(ids))
	changed := false
	for _, v := range ids {
		if v == id {
			changed = true
			continue
		}
		out = append(out, v)
	}
	return out, changed
}
