// Audit log HTTP handlers.
//
// Endpoints:
//   - POST /audit  (append an entry; the UI records user-visible actions)
//   - GET  /audit  (list, newest first, bounded)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reactivetech/go-board-backend/internal/domain"
)

// AuditRequest is the JSON payload for recording an audit entry.
type AuditRequest struct {
	User       string `json:"user" example:"maria"`
	Action     string `json:"action" binding:"required" example:"update"`
	EntityType string `json:"entityType" binding:"required" example:"project"`
	EntityName string `json:"entityName" binding:"required" example:"Atlas rollout"`
	Details    string `json:"details" example:"progress 40 -> 60"`
}

// AppendAudit godoc
// @ID          appendAudit
// @Summary     Record an audit entry
// @Tags        Audit
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"
// @Param       body       body    handlers.AuditRequest  true  "Audit entry payload"
//
// @Success     201  {object} domain.AuditEntry
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /audit [post]
func (h *Handlers) AppendAudit(c *gin.Context) {
	var req AuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	user := req.User
	if user == "" {
		user = userID(c)
	}
	e, err := h.auditSvc.Append(c.Request.Context(), &domain.AuditEntry{
		User:       user,
		Action:     req.Action,
		EntityType: req.EntityType,
		EntityName: req.EntityName,
		Details:    req.Details,
	})
	if err != nil {
		if !mapServiceErr(c, err) {
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, e)
}

// ListAudit godoc
// @ID          listAudit
// @Summary     List audit entries (newest first)
// @Tags        Audit
// @Produce     json
//
// @Success     200  {array}  domain.AuditEntry
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /audit [get]
func (h *Handlers) ListAudit(c *gin.Context) {
	items, err := h.auditSvc.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}
