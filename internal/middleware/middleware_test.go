package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shop-service/internal/model"
	"shop-service/pkg/config"
	"shop-service/pkg/jwtutil"
	"shop-service/pkg/logger"
	"shop-service/prometheus"

	"github.com/labstack/echo/v4"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newJWT() *jwtutil.JWTUtil {
	return jwtutil.NewJWTUtil(config.JWTConfig{
		AccessSecret:  "access",
		RefreshSecret: "refresh",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
}

func newServer(j *jwtutil.JWTUtil) *echo.Echo {
	e := echo.New()
	e.Use(RequestIDMiddleware(zap.NewNop()))

	user := e.Group("/me", AuthMiddleware(j))
	user.GET("", func(c echo.Context) error {
		id, _ := UserIDFromContext(c)
		return c.String(http.StatusOK, id)
	})

	admin := e.Group("/admin", AuthMiddleware(j), RequireRole(model.RoleAdmin))
	admin.GET("", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	return e
}

func do(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	j := newJWT()
	e := newServer(j)

	assert.Equal(t, http.StatusUnauthorized, do(e, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(e, "/me", "not-a-token").Code)

	pair, err := j.GenerateTokenPair("user-1", "a@example.com", string(model.RoleUser))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(e, "/me", pair.RefreshToken).Code)

	rec := do(e, "/me", pair.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Body.String())
}

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	e := newServer(newJWT())
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	j := newJWT()
	e := newServer(j)

	assert.Equal(t, http.StatusUnauthorized, do(e, "/admin", "").Code)

	userPair, err := j.GenerateTokenPair("user-1", "a@example.com", string(model.RoleUser))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, do(e, "/admin", userPair.AccessToken).Code)

	adminPair, err := j.GenerateTokenPair("admin-1", "b@example.com", string(model.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, do(e, "/admin", adminPair.AccessToken).Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(RequestIDMiddleware(zap.NewNop()))
	e.GET("/", func(c echo.Context) error {
		assert.NotNil(t, logger.FromContext(c))
		return c.String(http.StatusOK, c.Get("request_id").(string))
	})

	rec := do(e, "/", "")
	generated := rec.Header().Get(logger.RequestIDKey)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(logger.RequestIDKey, "abc-123")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(logger.RequestIDKey))
}

func TestMetricsMiddleware(t *testing.T) {
	m := prometheus.NewMetrics(prom.NewRegistry(), "test")
	e := echo.New()
	e.Use(MetricsMiddleware(m))
	e.GET("/items/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusAccepted)
	})

	do(e, "/items/1", "")
	do(e, "/items/2", "")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HttpRequestsTotal.WithLabelValues(http.MethodGet, "/items/:id", "202")))
}
