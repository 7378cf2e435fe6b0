package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/reactivetech/go-board-backend/internal/domain"
)

func init() { gin.SetMode(gin.TestMode) }

//
// Service fakes. Behavior is injected per test through func fields; nil
// fields panic, which surfaces unexpected calls immediately.
//

type fakeProjects struct {
	create   func(ctx context.Context, p *domain.Project) (*domain.Project, error)
	listPage func(ctx context.Context, page, pageSize int) ([]domain.Project, int64, error)
	get      func(ctx context.Context, id string) (*domain.Project, error)
	update   func(ctx context.Context, p *domain.Project) (*domain.Project, error)
	del      func(ctx context.Context, id string) error
}

func (f *fakeProjects) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	return f.create(ctx, p)
}

func (f *fakeProjects) List(context.Context) ([]domain.Project, error) { return nil, nil }

func (f *fakeProjects) ListPage(ctx context.Context, page, pageSize int) ([]domain.Project, int64, error) {
	return f.listPage(ctx, page, pageSize)
}

func (f *fakeProjects) Get(ctx context.Context, id string) (*domain.Project, error) {
	return f.get(ctx, id)
}

func (f *fakeProjects) Update(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	return f.update(ctx, p)
}

func (f *fakeProjects) Delete(ctx context.Context, id string) error { return f.del(ctx, id) }

type fakeDocs struct {
	submit    func(ctx context.Context, projectID string, featureIDs []string, idemKey string) (*domain.DocumentationJob, bool, error)
	getStatus func(ctx context.Context, id string) (*domain.DocumentationJob, error)
}

func (f *fakeDocs) Submit(ctx context.Context, projectID string, featureIDs []string, idemKey string) (*domain.DocumentationJob, bool, error) {
	return f.submit(ctx, projectID, featureIDs, idemKey)
}

func (f *fakeDocs) GetStatus(ctx context.Context, id string) (*domain.DocumentationJob, error) {
	return f.getStatus(ctx, id)
}

// fakeAudit records appended entries.
type fakeAudit struct {
	entries []domain.AuditEntry
}

func (f *fakeAudit) Append(_ context.Context, e *domain.AuditEntry) (*domain.AuditEntry, error) {
	f.entries = append(f.entries, *e)
	return e, nil
}

func (f *fakeAudit) List(context.Context) ([]domain.AuditEntry, error) {
	return f.entries, nil
}

//
// Request helpers
//

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func wantStatus(t *testing.T, w *httptest.ResponseRecorder, code int) {
	t.Helper()
	if w.Code != code {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, code, w.Body.String())
	}
}

const testUUID = "141add05-4415-4938-b5a1-17e0d3171aff"

func errCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[ErrorResponse](t, w).Code
}

func wantErrCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	wantStatus(t, w, status)
	if got := errCode(t, w); got != code {
		t.Fatalf("error code = %q, want %q", got, code)
	}
}
