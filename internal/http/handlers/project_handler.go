// Project HTTP handlers.
//
// This file exposes REST endpoints for board projects:
//   - POST   /projects       (create)
//   - GET    /projects       (list, paginated, ETag support)
//   - GET    /projects/{id}  (fetch one)
//   - PUT    /projects/{id}  (update)
//   - DELETE /projects/{id}  (delete)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reactivetech/go-board-backend/internal/domain"
	"github.com/reactivetech/go-board-backend/internal/http/middleware"
	"github.com/reactivetech/go-board-backend/internal/repo"
	"github.com/reactivetech/go-board-backend/internal/services"
	"github.com/reactivetech/go-board-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// ProjectService defines project lifecycle operations consumed by HTTP
// handlers. Implementations must be safe for concurrent use and honor the
// provided context.
type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) (*domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
	ListPage(ctx context.Context, page, pageSize int) ([]domain.Project, int64, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

// FeatureService defines feature catalog operations consumed by handlers.
type FeatureService interface {
	Create(ctx context.Context, f *domain.ProductFeature) (*domain.ProductFeature, error)
	List(ctx context.Context) ([]domain.ProductFeature, error)
	Categories(ctx context.Context) ([]string, error)
	Reorder(ctx context.Context, names []string) ([]string, error)
	Update(ctx context.Context, f *domain.ProductFeature) (*domain.ProductFeature, error)
	Delete(ctx context.Context, id string) error
}

// ProductService defines product catalog operations consumed by handlers.
type ProductService interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// AuditService defines audit log operations consumed by handlers.
type AuditService interface {
	Append(ctx context.Context, e *domain.AuditEntry) (*domain.AuditEntry, error)
	List(ctx context.Context) ([]domain.AuditEntry, error)
}

// DocService defines the manual-generation operations consumed by handlers.
type DocService interface {
	Submit(ctx context.Context, projectID string, featureIDs []string, idemKey string) (*domain.DocumentationJob, bool, error)
	GetStatus(ctx context.Context, id string) (*domain.DocumentationJob, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for projects, features, products, the
// audit log, and manual generation. It depends on abstract service
// interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	projectSvc ProjectService
	featureSvc FeatureService
	productSvc ProductService
	auditSvc   AuditService
	docSvc     DocService
	fileStore  FileStore
}

// New constructs a Handlers instance bound to the given services.
func New(projects ProjectService, features FeatureService, products ProductService, audit AuditService, docSvc DocService, files FileStore) *Handlers {
	return &Handlers{
		projectSvc: projects,
		featureSvc: features,
		productSvc: products,
		auditSvc:   audit,
		docSvc:     docSvc,
		fileStore:  files,
	}
}

// userID extracts the authenticated user id from the Gin context (set by
// upstream middleware), falling back to the X-User-ID header (tests use it)
// and finally to "demo-user".
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

// audit records a board mutation best-effort; failures are logged, never
// surfaced to the client.
func (h *Handlers) audit(c *gin.Context, action, entityType, entityName, details string) {
	if h.auditSvc == nil {
		return
	}
	_, err := h.auditSvc.Append(c.Request.Context(), &domain.AuditEntry{
		User:       userID(c),
		Action:     action,
		EntityType: entityType,
		EntityName: entityName,
		Details:    details,
	})
	if err != nil {
		lg := middleware.LoggerFrom(c)
		lg.Warn().Err(err).Str("entity", entityName).Msg("audit append failed")
	}
}

//
// DTOs
//

// ProjectRequest is the JSON payload for creating or updating a project.
type ProjectRequest struct {
	Name             string   `json:"name" binding:"required,min=1,max=255" example:"Atlas rollout"`
	Status           string   `json:"status" example:"in-progress"`
	StartDate        string   `json:"startDate" example:"2026-01-15"`
	EndDate          string   `json:"endDate" example:"2026-09-30"`
	Progress         int      `json:"progress" example:"40"`
	Description      string   `json:"description" example:"Region-wide deployment"`
	Location         string   `json:"location" example:"Athens, Greece"`
	FeaturesUsed     []string `json:"featuresUsed"`
	DeployedFeatures []string `json:"deployedFeatures"`
}

func (r *ProjectRequest) toDomain(id string) *domain.Project {
	return &domain.Project{
		ID:               id,
		Name:             r.Name,
		Status:           r.Status,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		Progress:         r.Progress,
		Description:      r.Description,
		Location:         r.Location,
		FeaturesUsed:     r.FeaturesUsed,
		DeployedFeatures: r.DeployedFeatures,
	}
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListProjectsResponse wraps a page of projects and pagination information.
type ListProjectsResponse struct {
	Projects   []domain.Project `json:"projects"`
	Pagination Pagination       `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params.
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// mapServiceErr translates well-known service errors to HTTP failures,
// returning true when it wrote a response.
func mapServiceErr(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrFeatureNotFound),
		errors.Is(err, services.ErrProductNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrEmptyName),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrUnknownFeatureRef),
		errors.Is(err, services.ErrUnknownCategory),
		errors.Is(err, services.ErrEmptyCategoryOrder),
		errors.Is(err, services.ErrInvalidAuditEntry):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	default:
		return false
	}
	return true
}

//
// Handlers
//

// CreateProject godoc
// @ID          createProject
// @Summary     Create a project
// @Description Creates a board project and returns the stored resource.
// @Tags        Projects
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.ProjectRequest  true  "Create project payload"
//
// @Success     201  {object}  domain.Project
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /projects [post]
func (h *Handlers) CreateProject(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	p, err := h.projectSvc.Create(c.Request.Context(), req.toDomain(uuid.NewString()))
	if err != nil {
		if !mapServiceErr(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	h.audit(c, domain.AuditActionCreate, "project", p.Name, "")
	ok(c, http.StatusCreated, p)
}

// ListProjects godoc
// @ID          listProjects
// @Summary     List projects (paginated)
// @Description Returns a page of projects. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Projects
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListProjectsResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /projects [get]
func (h *Handlers) ListProjects(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, isConcrete := h.projectSvc.(*services.ProjectService); isConcrete {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.ProjectsStats(ctx, db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"projects:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.projectSvc.ListPage(ctx, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListProjectsResponse{
		Projects: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// GetProject godoc
// @ID          getProject
// @Summary     Fetch a project
// @Tags        Projects
// @Produce     json
//
// @Param       id  path  string  true  "Project ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.Project
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Project not found"
// @Router      /projects/{id} [get]
func (h *Handlers) GetProject(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "project id must be a UUID")
		return
	}
	p, err := h.projectSvc.Get(c.Request.Context(), id)
	if err != nil {
		if !mapServiceErr(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, p)
}

// UpdateProject godoc
// @ID          updateProject
// @Summary     Update a project
// @Tags        Projects
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"
// @Param       id         path    string  true  "Project ID (UUID)"  format(uuid)
// @Param       body       body    handlers.ProjectRequest  true  "Update project payload"
//
// @Success     200  {object} domain.Project
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Project not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /projects/{id} [put]
func (h *Handlers) UpdateProject(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "project id must be a UUID")
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	p, err := h.projectSvc.Update(c.Request.Context(), req.toDomain(id))
	if err != nil {
		if !mapServiceErr(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		}
		return
	}
	h.audit(c, domain.AuditActionUpdate, "project", p.Name, "")
	ok(c, http.StatusOK, p)
}

// DeleteProject godoc
// @ID          deleteProject
// @Summary     Delete a project
// @Tags        Projects
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"
// @Param       id         path    string  true  "Project ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Project not found"
// @Router      /projects/{id} [delete]
func (h *Handlers) DeleteProject(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "project id must be a UUID")
		return
	}

	name := id
	if p, err := h.projectSvc.Get(c.Request.Context(), id); err == nil {
		name = p.Name
	}

	if err := h.projectSvc.Delete(c.Request.Context(), id); err != nil {
		if !mapServiceErr(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, err.Error())
		}
		return
	}
	h.audit(c, domain.AuditActionDelete, "project", name, "")
	noContent(c)
}
