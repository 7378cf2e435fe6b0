// Product catalog HTTP handlers.
//
// Endpoints:
//   - POST   /products       (create)
//   - GET    /products       (list, catalog order)
//   - PUT    /products/{id}  (update)
//   - DELETE /products/{id}  (delete)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/reactivetech/go-board-backend/internal/domain"
)

// ProductRequest is the JSON payload for creating or updating a catalog
// product.
type ProductRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=255" example:"Access Gateway"`
	Description  string `json:"description" example:"Edge authentication appliance"`
	ManualURL    string `json:"manualUrl" example:"access-gateway.md"`
	DisplayOrder int    `json:"displayOrder" example:"10"`
}

// CreateProduct godoc
// @ID          createProduct
// @Summary     Create a catalog product
// @Tags        Products
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"
// @Param       body       body    handlers.ProductRequest  true  "Create product payload"
//
// @Success     201  {object} domain.Product
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /products [post]
func (h *Handlers) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	p, err := h.productSvc.Create(c.Request.Context(), &domain.Product{
		Name:         req.Name,
		Description:  req.Description,
		ManualURL:    req.ManualURL,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		if !mapServiceErr(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	h.audit(c, domain.AuditActionCreate, "product", p.Name, "")
	ok(c, http.StatusCreated, p)
}

// ListProducts godoc
// @ID          listProducts
// @Summary     List catalog products
// @Tags        Products
// @Produce     json
//
// @Success     200  {array}  domain.Product
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /products [get]
func (h *Handlers) ListProducts(c *gin.Context) {
	items, err := h.productSvc.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}

// UpdateProduct godoc
// @ID          updateProduct
// @Summary     Update a catalog product
// @Tags        Products
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"
// @Param       id         path    string  true  "Product ID (UUID)"  format(uuid)
// @Param       body       body    handlers.ProductRequest  true  "Update product payload"
//
// @Success     200  {object} domain.Product
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Product not found"
// @Router      /products/{id} [put]
func (h *Handlers) UpdateProduct(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "product id must be a UUID")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	p, err := h.productSvc.Update(c.Request.Context(), &domain.Product{
		ID:           id,
		Name:         req.Name,
		Description:  req.Description,
		ManualURL:    req.ManualURL,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		if !mapServiceErr(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, err.Error())
		}
		return
	}
	h.audit(c, domain.AuditActionUpdate, "product", p.Name, "")
	ok(c, http.StatusOK, p)
}

// DeleteProduct godoc
// @ID          deleteProduct
// @Summary     Delete a catalog product
// @Tags        Products
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"
// @Param       id         path    string  true  "Product ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Product not found"
// @Router      /products/{id} [delete]
func (h *Handlers) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "product id must be a UUID")
		return
	}

	if err := h.productSvc.Delete(c.Request.Context(), id); err != nil {
		if !mapServiceErr(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, err.Error())
		}
		return
	}
	h.audit(c, domain.AuditActionDelete, "product", id, "")
	noContent(c)
}
