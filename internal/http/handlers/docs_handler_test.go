package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/reactivetech/go-board-backend/internal/docs"
	"github.com/reactivetech/go-board-backend/internal/domain"
	"github.com/reactivetech/go-board-backend/internal/http/middleware"
	"github.com/reactivetech/go-board-backend/internal/repo"
)

func docsRouter(svc DocService) *gin.Engine {
	h := New(nil, nil, nil, nil, svc, nil)
	r := gin.New()
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, nil))
	r.POST("/docs/generate", h.GenerateManual)
	r.GET("/docs/jobs/:id", h.GetManualJob)
	return r
}

func TestGenerateManual_AcceptsNewJob(t *testing.T) {
	var gotProject, gotKey string
	var gotFeatures []string
	svc := &fakeDocs{
		submit: func(_ context.Context, projectID string, featureIDs []string, idemKey string) (*domain.DocumentationJob, bool, error) {
			gotProject, gotFeatures, gotKey = projectID, featureIDs, idemKey
			return &domain.DocumentationJob{ID: testUUID, Status: domain.JobStatusPending}, false, nil
		},
	}
	r := docsRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/docs/generate",
		GenerateManualRequest{ProjectID: testUUID, FeatureIDs: []string{"f1"}},
		map[string]string{"Idempotency-Key": "key-1"})
	wantStatus(t, w, http.StatusAccepted)

	if gotProject != testUUID || gotKey != "key-1" || len(gotFeatures) != 1 {
		t.Fatalf("submit saw project=%q key=%q features=%v", gotProject, gotKey, gotFeatures)
	}
	got := decodeBody[domain.DocumentationJob](t, w)
	if got.Status != domain.JobStatusPending {
		t.Fatalf("body = %+v", got)
	}
}

func TestGenerateManual_ReusedJobReturns200(t *testing.T) {
	svc := &fakeDocs{
		submit: func(context.Context, string, []string, string) (*domain.DocumentationJob, bool, error) {
			return &domain.DocumentationJob{ID: testUUID, Status: domain.JobStatusProcessing}, true, nil
		},
	}
	r := docsRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/docs/generate",
		GenerateManualRequest{ProjectID: testUUID}, nil)
	wantStatus(t, w, http.StatusOK)
}

func TestGenerateManual_ErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{repo.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
		{docs.ErrNoFeatures, http.StatusBadRequest, ErrCodeBadRequest},
		{docs.ErrQueueFull, http.StatusServiceUnavailable, ErrCodeGenerateFailed},
		{context.DeadlineExceeded, http.StatusInternalServerError, ErrCodeGenerateFailed},
	}
	for _, tc := range cases {
		svc := &fakeDocs{
			submit: func(context.Context, string, []string, string) (*domain.DocumentationJob, bool, error) {
				return nil, false, tc.err
			},
		}
		r := docsRouter(svc)
		w := doJSON(t, r, http.MethodPost, "/docs/generate",
			GenerateManualRequest{ProjectID: testUUID}, nil)
		wantErrCode(t, w, tc.status, tc.code)
	}
}

func TestGenerateManual_BadInput(t *testing.T) {
	r := docsRouter(&fakeDocs{})

	w := doJSON(t, r, http.MethodPost, "/docs/generate", map[string]any{}, nil)
	wantErrCode(t, w, http.StatusBadRequest, ErrCodeBadRequest)

	w = doJSON(t, r, http.MethodPost, "/docs/generate",
		GenerateManualRequest{ProjectID: "not-a-uuid"}, nil)
	wantErrCode(t, w, http.StatusBadRequest, ErrCodeBadRequest)
}

func TestGetManualJob_Codes(t *testing.T) {
	svc := &fakeDocs{
		getStatus: func(_ context.Context, id string) (*domain.DocumentationJob, error) {
			if id == testUUID {
				return &domain.DocumentationJob{ID: id, Status: domain.JobStatusCompleted}, nil
			}
			return nil, docs.ErrJobNotFound
		},
	}
	r := docsRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/docs/jobs/"+testUUID, nil, nil)
	wantStatus(t, w, http.StatusOK)

	w = doJSON(t, r, http.MethodGet, "/docs/jobs/00000000-0000-0000-0000-000000000000", nil, nil)
	wantErrCode(t, w, http.StatusNotFound, ErrCodeNotFound)

	w = doJSON(t, r, http.MethodGet, "/docs/jobs/not-a-uuid", nil, nil)
	wantErrCode(t, w, http.StatusBadRequest, ErrCodeBadRequest)
}
