package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() { gin.SetMode(gin.TestMode) }

// idemState is what the downstream handler observed for one request.
type idemState struct {
	key    string
	hasKey bool
	replay bool
	bypass bool
}

func idemRouter(lookup IdempotencyLookup) (*gin.Engine, *idemState) {
	r := gin.New()
	state := &idemState{}
	r.Use(IdempotencyValidator(IdempotencyOptions{}, lookup))
	r.POST("/op", func(c *gin.Context) {
		state.key, state.hasKey = GetIdempotencyKey(c)
		state.replay = IsReplay(c)
		state.bypass = IsRateBypass(c)
		c.Status(http.StatusNoContent)
	})
	return r, state
}

func TestIdempotencyValidator_NoHeaderPassesThrough(t *testing.T) {
	r, state := idemRouter(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/op", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	if state.hasKey || state.key != "" {
		t.Fatalf("unexpected key %q", state.key)
	}
}

func TestIdempotencyValidator_StashesValidKey(t *testing.T) {
	r, state := idemRouter(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/op", nil)
	req.Header.Set(HeaderIdempotencyKey, "retry-42.a_b~c:d")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	if !state.hasKey || state.key != "retry-42.a_b~c:d" {
		t.Fatalf("key = %q hasKey=%v", state.key, state.hasKey)
	}
	if state.replay {
		t.Fatal("no lookup configured, must not be a replay")
	}
}

func TestIdempotencyValidator_RejectsInvalidKeys(t *testing.T) {
	r, _ := idemRouter(nil)

	for _, key := range []string{"has space", "emoji-é", strings.Repeat("a", 201)} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/op", nil)
		req.Header.Set(HeaderIdempotencyKey, key)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("key %q: status = %d", key, w.Code)
		}
		if !strings.Contains(w.Body.String(), "bad_idempotency_key") {
			t.Fatalf("key %q: body = %s", key, w.Body.String())
		}
	}
}

func TestIdempotencyValidator_MarksReplays(t *testing.T) {
	var gotUser, gotKey string
	lookup := func(_ context.Context, userID, key string, _ time.Time) (bool, error) {
		gotUser, gotKey = userID, key
		return true, nil
	}
	r, state := idemRouter(lookup)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/op", nil)
	req.Header.Set(HeaderIdempotencyKey, "key-1")
	r.ServeHTTP(w, req)

	if !state.replay {
		t.Fatal("replay flag not set")
	}
	if !state.bypass {
		t.Fatal("replays must bypass rate limiting")
	}
	if gotKey != "key-1" || gotUser != "demo-user" {
		t.Fatalf("lookup saw user=%q key=%q", gotUser, gotKey)
	}
}

func TestIdempotencyValidator_LookupErrorDoesNotBlock(t *testing.T) {
	lookup := func(context.Context, string, string, time.Time) (bool, error) {
		return false, context.DeadlineExceeded
	}
	r, state := idemRouter(lookup)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/op", nil)
	req.Header.Set(HeaderIdempotencyKey, "key-1")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	if state.replay {
		t.Fatal("failed lookup must not mark a replay")
	}
}
