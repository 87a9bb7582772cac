package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motortrade/notification-api/internal/config"
)

func authTestRouter(m *AuthMiddleware) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/protected", m.Authenticate(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return engine
}

func doAuthRequest(engine *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthenticateActiveToken(t *testing.T) {
	var seenAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAuth.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"active": true}`))
	}))
	defer srv.Close()

	engine := authTestRouter(NewAuthMiddleware(config.AuthConfig{
		IntrospectURL: srv.URL,
		Timeout:       time.Second,
		CacheTTL:      30 * time.Second,
	}))

	w := doAuthRequest(engine, "Bearer valid-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bearer valid-token", seenAuth.Load())
}

func TestAuthenticateInactiveToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"active": false}`))
	}))
	defer srv.Close()

	engine := authTestRouter(NewAuthMiddleware(config.AuthConfig{
		IntrospectURL: srv.URL,
		Timeout:       time.Second,
		CacheTTL:      30 * time.Second,
	}))

	w := doAuthRequest(engine, "Bearer revoked")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func TestAuthenticateUpstreamRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	engine := authTestRouter(NewAuthMiddleware(config.AuthConfig{
		IntrospectURL: srv.URL,
		Timeout:       time.Second,
		CacheTTL:      30 * time.Second,
	}))

	w := doAuthRequest(engine, "Bearer whatever")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateUpstreamUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	engine := authTestRouter(NewAuthMiddleware(config.AuthConfig{
		IntrospectURL: srv.URL,
		Timeout:       time.Second,
		CacheTTL:      30 * time.Second,
	}))

	w := doAuthRequest(engine, "Bearer anything")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAuthenticateHeaderErrors(t *testing.T) {
	engine := authTestRouter(NewAuthMiddleware(config.AuthConfig{
		IntrospectURL: "http://127.0.0.1:1",
		Timeout:       time.Second,
		CacheTTL:      30 * time.Second,
	}))

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no scheme", "just-a-token"},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"too many parts", "Bearer a b"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doAuthRequest(engine, tc.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestAuthenticateCachesPositiveResult(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"active": true}`))
	}))
	defer srv.Close()

	engine := authTestRouter(NewAuthMiddleware(config.AuthConfig{
		IntrospectURL: srv.URL,
		Timeout:       time.Second,
		CacheTTL:      time.Minute,
	}))

	for i := 0; i < 3; i++ {
		w := doAuthRequest(engine, "Bearer cached-token")
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestAuthenticateDoesNotCacheRejection(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"active": false}`))
	}))
	defer srv.Close()

	engine := authTestRouter(NewAuthMiddleware(config.AuthConfig{
		IntrospectURL: srv.URL,
		Timeout:       time.Second,
		CacheTTL:      time.Minute,
	}))

	for i := 0; i < 2; i++ {
		w := doAuthRequest(engine, "Bearer rejected-token")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}
	assert.Equal(t, int32(2), calls.Load())
}
