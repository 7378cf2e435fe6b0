// Feature HTTP handlers.
//
// Endpoints for the product-feature catalog:
//   - POST   /features       (create)
//   - GET    /features       (list)
//   - GET    /categories     (categories in display order)
//   - PUT    /categories     (persist a new display order)
//   - PUT    /features/{id}  (update)
//   - DELETE /features/{id}  (delete; scrubs the id from all projects)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/reactivetech/go-board-backend/internal/domain"
)

// FeatureRequest is the JSON payload for creating or updating a feature.
type FeatureRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255" example:"User Authentication"`
	Category    string `json:"category" example:"Security"`
	Description string `json:"description" example:"SSO and MFA support"`
}

// CreateFeature godoc
// @ID          createFeature
// @Summary     Create a product feature
// @Tags        Features
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"
// @Param       body       body    handlers.FeatureRequest  true  "Create feature payload"
//
// @Success     201  {object} domain.ProductFeature
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /features [post]
func (h *Handlers) CreateFeature(c *gin.Context) {
	var req FeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	f, err := h.featureSvc.Create(c.Request.Context(), &domain.ProductFeature{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		if !mapServiceErr(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	h.audit(c, domain.AuditActionCreate, "feature", f.Name, "")
	ok(c, http.StatusCreated, f)
}

// ListFeatures godoc
// @ID          listFeatures
// @Summary     List product features
// @Tags        Features
// @Produce     json
//
// @Success     200  {array}  domain.ProductFeature
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /features [get]
func (h *Handlers) ListFeatures(c *gin.Context) {
	items, err := h.featureSvc.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// ListCategories godoc
// @ID          listCategories
// @Summary     List feature categories
// @Tags        Features
// @Produce     json
//
// @Success     200  {array}  string
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /categories [get]
func (h *Handlers) ListCategories(c *gin.Context) {
	items, err := h.featureSvc.Categories(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// CategoryOrderRequest is the JSON payload for reordering categories.
type CategoryOrderRequest struct {
	Categories []string `json:"categories" binding:"required,min=1" example:"Security,Data Tools,General"`
}

// ReorderCategories godoc
// @ID          reorderCategories
// @Summary     Reorder feature categories
// @Description Persists a user-arranged category display order; the categories list endpoint serves it thereafter.
// @Tags        Features
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"
// @Param       body       body    handlers.CategoryOrderRequest  true  "Ordered category names"
//
// @Success     200  {array}  string
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /categories [put]
func (h *Handlers) ReorderCategories(c *gin.Context) {
	var req CategoryOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	ordered, err := h.featureSvc.Reorder(c.Request.Context(), req.Categories)
	if err != nil {
		if !mapServiceErr(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		}
		return
	}
	h.audit(c, domain.AuditActionReorder, "category", "categories", strings.Join(ordered, ", "))
	ok(c, http.StatusOK, ordered)
}

// UpdateFeature godoc
// @ID          updateFeature
// @Summary     Update a product feature
// @Tags        Features
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"
// @Param       id         path    string  true  "Feature ID (UUID)"  format(uuid)
// @Param       body       body    handlers.FeatureRequest  true  "Update feature payload"
//
// @Success     200  {object} domain.ProductFeature
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Feature not found"
// @Router      /features/{id} [put]
func (h *Handlers) UpdateFeature(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "feature id must be a UUID")
		return
	}

	var req FeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	f, err := h.featureSvc.Update(c.Request.Context(), &domain.ProductFeature{
		ID:          id,
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		if !mapServiceErr(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		}
		return
	}
	h.audit(c, domain.AuditActionUpdate, "feature", f.Name, "")
	ok(c, http.StatusOK, f)
}

// DeleteFeature godoc
// @ID          deleteFeature
// @Summary     Delete a product feature
// @Description Deletes the feature and removes its id from every project's feature lists.
// @Tags        Features
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"
// @Param       id         path    string  true  "Feature ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Feature not found"
// @Router      /features/{id} [delete]
func (h *Handlers) DeleteFeature(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "feature id must be a UUID")
		return
	}

	if err := h.featureSvc.Delete(c.Request.Context(), id); err != nil {
		if !mapServiceErr(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, err.Error())
		}
		return
	}
	h.audit(c, domain.AuditActionDelete, "feature", id, "")
	noContent(c)
}
