package http

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/wacatalog-backend/internal/catalog/editor"
	httpH "github.com/yungbote/wacatalog-backend/internal/http/handlers"
	httpMW "github.com/yungbote/wacatalog-backend/internal/http/middleware"
	"github.com/yungbote/wacatalog-backend/internal/platform/dbctx"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
	"github.com/yungbote/wacatalog-backend/internal/services"
)

const testSecret = "router-test-secret"

type stubEditor struct{}

func (stubEditor) Session(context.Context) (*editor.Session, error) {
	return editor.NewSession(editor.Viewing), nil
}

func (stubEditor) SetEditing(dbctx.Context, bool) (editor.Mode, error) {
	return editor.Editing, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	auth, err := services.NewAuthService(logger.Nop(), services.AuthConfig{SecretKey: testSecret})
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return NewRouter(RouterConfig{
		Log:            logger.Nop(),
		AuthMiddleware: httpMW.NewAuthMiddleware(logger.Nop(), auth),
		HealthHandler:  httpH.NewHealthHandler(nil),
		EditorHandler:  httpH.NewEditorHandler(stubEditor{}),
	})
}

func signed(t *testing.T, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	s, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestHealthcheckIsPublic(t *testing.T) {
	r := newTestRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/healthcheck", nil))
	if rec.Code != nethttp.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-Id") == "" || rec.Header().Get("X-Trace-Id") == "" {
		t.Fatalf("trace headers missing")
	}
}

func TestProtectedRoutesRequireBearer(t *testing.T) {
	r := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodPut, "/api/editor/mode", nil))
	if rec.Code != nethttp.StatusUnauthorized {
		t.Fatalf("no token: status=%d", rec.Code)
	}

	req := httptest.NewRequest(nethttp.MethodPut, "/api/editor/mode", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != nethttp.StatusUnauthorized {
		t.Fatalf("bad token: status=%d", rec.Code)
	}
}

func TestProtectedRouteAcceptsValidToken(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(nethttp.MethodPut, "/api/editor/mode", strings.NewReader(`{"editing":true}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signed(t, uuid.NewString()))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}
