package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"github.com/motortrade/notification-api/internal/config"
	"github.com/motortrade/notification-api/internal/handler"
)

// AuthMiddleware validates bearer tokens against an upstream introspection
// endpoint. A token is valid iff the endpoint answers 200 with active:true.
// Positive results are cached for a short TTL; failures are never cached so
// a revoked token gets re-checked on its next use.
type AuthMiddleware struct {
	introspectURL string
	client        *http.Client
	cache         *cache.Cache
}

type introspection struct {
	Active bool `json:"active"`
}

func NewAuthMiddleware(cfg config.AuthConfig) *AuthMiddleware {
	return &AuthMiddleware{
		introspectURL: cfg.IntrospectURL,
		client:        &http.Client{Timeout: cfg.Timeout},
		cache:         cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
	}
}

// Authenticate verifies the bearer token before the request reaches any
// handler.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format, expected: Bearer <token>"))
			c.Abort()
			return
		}
		token := parts[1]

		if _, ok := m.cache.Get(token); ok {
			c.Next()
			return
		}

		active, err := m.introspect(c, token)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, handler.NewErrorResponse("authorization service unavailable"))
			c.Abort()
			return
		}
		if !active {
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("token is not active or has expired"))
			c.Abort()
			return
		}

		m.cache.SetDefault(token, true)
		c.Next()
	}
}

func (m *AuthMiddleware) introspect(c *gin.Context, token string) (bool, error) {
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, m.introspectURL, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := m.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("introspection request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, nil
	}

	var result introspection
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, nil
	}
	return result.Active, nil
}
