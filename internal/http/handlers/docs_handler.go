// Manual-generation HTTP handlers.
//
// Endpoints:
//   - POST /docs/generate   (submit a generation job; idempotent)
//   - GET  /docs/jobs/{id}  (poll job status; completed jobs carry a signed
//     download URL)
//
// Submission deduplicates on two axes: the client's Idempotency-Key header
// when present, and the server-computed fingerprint of the project's sorted
// feature set. Either match returns the already-active job with 200 instead
// of creating a new one (202).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/reactivetech/go-board-backend/internal/docs"
	"github.com/reactivetech/go-board-backend/internal/http/middleware"
	"github.com/reactivetech/go-board-backend/internal/repo"
)

// GenerateManualRequest is the JSON payload for submitting a generation job.
type GenerateManualRequest struct {
	ProjectID string `json:"projectId" binding:"required" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	// FeatureIDs optionally narrows the manual to a feature subset; empty
	// means the project's full feature list.
	FeatureIDs []string `json:"featureIds,omitempty"`
}

// GenerateManual godoc
// @ID          generateManual
// @Summary     Submit a user-manual generation job
// @Description Starts asynchronous manual generation for a project. Resubmitting while a job for the same feature set is active returns that job.
// @Tags        Docs
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (demo header)"
// @Param       Idempotency-Key  header  string  false "Client idempotency key"
// @Param       body             body    handlers.GenerateManualRequest  true  "Generation request"
//
// @Success     200  {object} domain.DocumentationJob "Existing active job reused"
// @Success     202  {object} domain.DocumentationJob "New job accepted"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Project not found"
// @Failure     503  {object} handlers.ErrorResponse "Queue saturated"
// @Router      /docs/generate [post]
func (h *Handlers) GenerateManual(c *gin.Context) {
	var req GenerateManualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if _, err := uuid.Parse(req.ProjectID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "projectId must be a UUID")
		return
	}

	idemKey, _ := middleware.GetIdempotencyKey(c)

	job, reused, err := h.docSvc.Submit(c.Request.Context(), req.ProjectID, req.FeatureIDs, idemKey)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "project not found")
		case errors.Is(err, docs.ErrNoFeatures):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, docs.ErrQueueFull):
			fail(c, http.StatusServiceUnavailable, ErrCodeGenerateFailed, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeGenerateFailed, err.Error())
		}
		return
	}

	status := http.StatusAccepted
	if reused {
		status = http.StatusOK
	}
	ok(c, status, job)
}

// GetManualJob godoc
// @ID          getManualJob
// @Summary     Poll a generation job
// @Description Returns the job snapshot. Completed jobs carry a freshly signed download URL; failed jobs carry the failure reason.
// @Tags        Docs
// @Produce     json
//
// @Param       id  path  string  true  "Job ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.DocumentationJob
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Job not found"
// @Router      /docs/jobs/{id} [get]
func (h *Handlers) GetManualJob(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "job id must be a UUID")
		return
	}

	job, err := h.docSvc.GetStatus(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, docs.ErrJobNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "job not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, job)
}
