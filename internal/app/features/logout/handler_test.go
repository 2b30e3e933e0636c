package logout_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/taskhub/internal/app/features/logout"
	"github.com/dalemusser/taskhub/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*logout.Handler, *auth.SessionManager) {
	t.Helper()
	logger := zap.NewNop()

	sessionMgr, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return logout.NewHandler(sessionMgr, logger), sessionMgr
}

func TestHandleLogout_ClearsSessionCookie(t *testing.T) {
	handler, mgr := newTestHandler(t)

	// Establish a session first.
	setupReq := httptest.NewRequest(http.MethodPost, "/login", nil)
	setupRec := httptest.NewRecorder()
	if err := mgr.SignIn(setupRec, setupReq, auth.SessionUser{ID: "abc", Name: "n", Email: "e@example.com"}); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	for _, c := range setupRec.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler.HandleLogout(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusOK)
	}

	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			found = true
			if c.MaxAge != -1 {
				t.Errorf("cookie MaxAge: got %d, want -1 (delete)", c.MaxAge)
			}
		}
	}
	if !found {
		t.Error("expected session cookie to be set for deletion")
	}
}

func TestHandleLogout_NoSession(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	handler.HandleLogout(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))

	// Logging out without a session is not an error.
	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
}
