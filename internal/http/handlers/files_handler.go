// Signed file download handler.
//
// Endpoint:
//   - GET /files/{name}?exp=...&sig=...
//
// The exp/sig pair is issued by the manual-generation workflow when a job
// completes. Links are verified against the HMAC signature and expiry before
// any filesystem access happens; an expired or tampered link gets a 403
// without revealing whether the file exists.
package handlers

import (
	"context"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
)

// FileStore is the read side of document storage plus signed-link
// verification, implemented by the docs package's local store.
type FileStore interface {
	Open(ctx context.Context, path string) ([]byte, error)
	Verify(name string, exp int64, sig string) bool
}

// contentTypes maps manual file extensions to their media types.
var contentTypes = map[string]string{
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".md":   "text/markdown; charset=utf-8",
}

// DownloadManual godoc
// @ID          downloadManual
// @Summary     Download a generated manual
// @Description Serves a stored manual through its signed, expiring link.
// @Tags        Docs
// @Produce     octet-stream
//
// @Param       name  path   string  true  "Stored file name"
// @Param       exp   query  int     true  "Link expiry (unix seconds)"
// @Param       sig   query  string  true  "HMAC signature"
//
// @Success     200  {file}   file
// @Failure     403  {object} handlers.ErrorResponse "Expired or invalid link"
// @Failure     404  {object} handlers.ErrorResponse "File not found"
// @Router      /files/{name} [get]
func (h *Handlers) DownloadManual(c *gin.Context) {
	if h.fileStore == nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "file downloads are not configured")
		return
	}

	name := c.Param("name")
	exp, err := strconv.ParseInt(c.Query("exp"), 10, 64)
	if err != nil {
		fail(c, http.StatusForbidden, ErrCodeLinkExpired, "invalid download link")
		return
	}
	if !h.fileStore.Verify(name, exp, c.Query("sig")) {
		fail(c, http.StatusForbidden, ErrCodeLinkExpired, "download link expired or invalid")
		return
	}

	data, err := h.fileStore.Open(c.Request.Context(), name)
	if err != nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "file not found")
		return
	}

	ct := contentTypes[filepath.Ext(name)]
	if ct == "" {
		ct = "application/octet-stream"
	}
	c.Header("Content-Disposition", `attachment; filename="`+filepath.Base(name)+`"`)
	c.Data(http.StatusOK, ct, data)
}
