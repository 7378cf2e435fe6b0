// Package services – ProjectService
//
// This file implements the ProjectService, which manages the lifecycle of
// portfolio projects. It validates and normalizes names, enforces the
// status enumeration, checks that every referenced feature id resolves to a
// real product feature, and coordinates repository operations for creating,
// listing (with pagination), updating, and deleting projects.
//
// Service-level errors (e.g., ErrProjectNotFound, ErrUnknownFeatureRef) are
// returned for predictable cases so handlers can map them to HTTP results
// consistently.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/reactivetech/go-board-backend/internal/domain"
	"github.com/reactivetech/go-board-backend/internal/repo"
)

// ProjectRepo defines the repository contract required by ProjectService.
type ProjectRepo interface {
	CreateProject(ctx context.Context, db *gorm.DB, p *domain.Project) (*domain.Project, error)
	ListProjects(ctx context.Context, db *gorm.DB) ([]domain.Project, error)
	ListProjectsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Project, error)
	CountProjects(ctx context.Context, db *gorm.DB) (int64, error)
	GetProject(ctx context.Context, db *gorm.DB, id string) (*domain.Project, error)
	UpdateProject(ctx context.Context, db *gorm.DB, p *domain.Project) error
	DeleteProject(ctx context.Context, db *gorm.DB, id string) error
	CountFeaturesByIDs(ctx context.Context, db *gorm.DB, ids []string) (int64, error)
}

// ProjectService provides project-level operations: create, list, update,
// delete. It owns name normalization and the referential check between a
// project's feature lists and the product-feature table.
type ProjectService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the project repository used by this service.
	Repo ProjectRepo

	// NameMaxLen caps stored names by rune length.
	NameMaxLen int
}

// NewProjectService constructs a ProjectService with sane defaults.
func NewProjectService(db *gorm.DB, r ProjectRepo) *ProjectService {
	return &ProjectService{DB: db, Repo: r, NameMaxLen: 255}
}

// Create validates and inserts a new project. Feature references are checked
// against the product-feature table; deployed features must be a subset of
// the used features and are filtered down to one.
func (s *ProjectService) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	tr := otel.Tracer("services/ProjectService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("project.name", p.Name)),
	)
	defer span.End()

	if err := s.normalize(ctx, p); err != nil {
		return nil, err
	}
	return s.Repo.CreateProject(ctx, s.DB, p)
}

// List returns all projects (non-paginated). Prefer ListPage for large
// portfolios.
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	return s.Repo.ListProjects(ctx, s.DB)
}

// ListPage returns a page of projects plus the total count. Invalid
// page/pageSize values fall back to defaults.
func (s *ProjectService) ListPage(ctx context.Context, page, pageSize int) ([]domain.Project, int64, error) {
	tr := otel.Tracer("services/ProjectService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountProjects(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Project{}, 0, nil
	}

	items, err := s.Repo.ListProjectsPage(ctx, s.DB, offset, pageSize)
	return items, total, err
}

// Get fetches a single project by id.
func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.Repo.GetProject(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return p, nil
}

// Update validates and persists changes to an existing project.
func (s *ProjectService) Update(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	tr := otel.Tracer("services/ProjectService")
	ctx, span := tr.Start(ctx, "Update",
		trace.WithAttributes(attribute.String("project.id", p.ID)),
	)
	defer span.End()

	if err := s.normalize(ctx, p); err != nil {
		return nil, err
	}
	if err := s.Repo.UpdateProject(ctx, s.DB, p); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	// Reconcile with the stored entity rather than trusting client state.
	return s.Repo.GetProject(ctx, s.DB, p.ID)
}

// Delete removes a project by id.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.DeleteProject(ctx, s.DB, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	return nil
}

// normalize trims and clips the name, validates the status enum and
// progress bounds, dedupes the feature lists, and verifies every referenced
// feature id exists.
func (s *ProjectService) normalize(ctx context.Context, p *domain.Project) error {
	p.Name = collapseSpaces(p.Name)
	if p.Name == "" {
		return ErrEmptyName
	}
	if s.NameMaxLen > 0 && utf8.RuneCountInString(p.Name) > s.NameMaxLen {
		p.Name = string([]rune(p.Name)[:s.NameMaxLen])
	}

	if p.Status == "" {
		p.Status = domain.ProjectStatusPlanning
	}
	switch p.Status {
	case domain.ProjectStatusPlanning, domain.ProjectStatusInProgress,
		domain.ProjectStatusDeployed, domain.ProjectStatusCompleted:
	default:
		return ErrInvalidStatus
	}

	if p.Progress < 0 {
		p.Progress = 0
	}
	if p.Progress > 100 {
		p.Progress = 100
	}

	p.FeaturesUsed = dedupeIDs(p.FeaturesUsed)
	used := make(map[string]struct{}, len(p.FeaturesUsed))
	for _, id := range p.FeaturesUsed {
		used[id] = struct{}{}
	}
	deployed := make([]string, 0, len(p.DeployedFeatures))
	for _, id := range dedupeIDs(p.DeployedFeatures) {
		if _, ok := used[id]; ok {
			deployed = append(deployed, id)
		}
	}
	p.DeployedFeatures = deployed

	if len(p.FeaturesUsed) > 0 {
		n, err := s.Repo.CountFeaturesByIDs(ctx, s.DB, p.FeaturesUsed)
		if err != nil {
			return err
		}
		if n != int64(len(p.FeaturesUsed)) {
			return ErrUnknownFeatureRef
		}
	}
	return nil
}

// dedupeIDs drops blanks and duplicates while preserving first-seen order.
func dedupeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// collapseSpaces trims whitespace and collapses internal runs to one space.
func collapseSpaces(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// projectRepoShim adapts the repository free functions to the ProjectRepo
// interface. Keeping the shim here lets the router wire services without
// depending on repo internals.
type ProjectRepoShim struct{}

func (ProjectRepoShim) CreateProject(ctx context.Context, db *gorm.DB, p *domain.Project) (*domain.Project, error) {
	return repo.CreateProject(ctx, db, p)
}

func (ProjectRepoShim) ListProjects(ctx context.Context, db *gorm.DB) ([]domain.Project, error) {
	return repo.ListProjects(ctx, db)
}

func (ProjectRepoShim) ListProjectsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Project, error) {
	return repo.ListProjectsPage(ctx, db, offset, limit)
}

func (ProjectRepoShim) CountProjects(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountProjects(ctx, db)
}

func (ProjectRepoShim) GetProject(ctx context.Context, db *gorm.DB, id string) (*domain.Project, error) {
	return repo.GetProject(ctx, db, id)
}

func (ProjectRepoShim) UpdateProject(ctx context.Context, db *gorm.DB, p *domain.Project) error {
	return repo.UpdateProject(ctx, db, p)
}

func (ProjectRepoShim) DeleteProject(ctx context.Context, db *gorm.DB, id string) error {
	return repo.DeleteProject(ctx, db, id)
}

func (ProjectRepoShim) CountFeaturesByIDs(ctx context.Context, db *gorm.DB, ids []string) (int64, error) {
	return repo.CountFeaturesByIDs(ctx, db, ids)
}
