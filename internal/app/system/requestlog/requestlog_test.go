package requestlog_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/taskhub/internal/app/system/requestlog"
	"go.uber.org/zap"
)

func TestMiddleware_SetsRequestID(t *testing.T) {
	mw := requestlog.Middleware(zap.NewNop())
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusNoContent)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header to be set")
	}
}

func TestMiddleware_UniqueIDs(t *testing.T) {
	mw := requestlog.Middleware(zap.NewNop())
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec1 := httptest.NewRecorder()
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec1, httptest.NewRequest("GET", "/", nil))
	handler.ServeHTTP(rec2, httptest.NewRequest("GET", "/", nil))

	id1 := rec1.Header().Get("X-Request-ID")
	id2 := rec2.Header().Get("X-Request-ID")
	if id1 == id2 {
		t.Errorf("expected distinct request ids, both were %q", id1)
	}
}
