package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/primake/primake-api/internal/domain/entity"
	"github.com/primake/primake-api/internal/domain/enum"
	"github.com/primake/primake-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memoryIdempotencyRepo struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func newMemoryIdempotencyRepo() *memoryIdempotencyRepo {
	return &memoryIdempotencyRepo{keys: map[string]*entity.IdempotencyKey{}}
}

func (r *memoryIdempotencyRepo) GetByKey(_ context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.keys[userID.String()+key], nil
}

func (r *memoryIdempotencyRepo) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[ikey.UserID.String()+ikey.Key] = ikey
	return nil
}

func (r *memoryIdempotencyRepo) DeleteExpired(context.Context) error { return nil }

func withUser(id uuid.UUID, role enum.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", id)
		c.Set("user_role", role)
		c.Next()
	}
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	userID := uuid.New()

	router := gin.New()
	router.GET("/me", AuthMiddleware(jwtManager), func(c *gin.Context) {
		role, _ := c.Get("user_role")
		id, _ := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"role": role, "id": id})
	})

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		refresh, err := jwtManager.GenerateRefreshToken(userID)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+refresh)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token sets identity", func(t *testing.T) {
		token, err := jwtManager.GenerateAccessToken(userID, "Ana", "ana@primake.com", enum.RoleCaixa)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"role":"Caixa"`)
		assert.Contains(t, w.Body.String(), userID.String())
	})
}

func TestRequireRole(t *testing.T) {
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	tests := []struct {
		name   string
		role   enum.Role
		roles  []enum.Role
		status int
	}{
		{"admin passes managers", enum.RoleAdministrador, Managers, http.StatusNoContent},
		{"seller blocked from managers", enum.RoleVendedor, Managers, http.StatusForbidden},
		{"stock clerk passes stockroom", enum.RoleEstoquista, Stockroom, http.StatusNoContent},
		{"stock clerk blocked from checkout", enum.RoleEstoquista, Checkout, http.StatusForbidden},
		{"courier passes dispatch", enum.RoleMotoboy, Dispatch, http.StatusNoContent},
		{"manager blocked from admin", enum.RoleGerente, AdminsOnly, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/x", withUser(uuid.New(), tt.role), RequireRole(tt.roles...), ok)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}

	t.Run("no role in context", func(t *testing.T) {
		router := gin.New()
		router.GET("/x", RequireRole(AdminsOnly...), ok)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestUserRateLimiter(t *testing.T) {
	limiter := NewUserRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	alice, bob := uuid.New(), uuid.New()

	router := gin.New()
	router.GET("/alice", withUser(alice, enum.RoleVendedor), limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/bob", withUser(bob, enum.RoleVendedor), limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	assert.Equal(t, http.StatusOK, hit("/alice").Code)
	assert.Equal(t, http.StatusOK, hit("/alice").Code)

	w := hit("/alice")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "too_many_requests")
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// buckets are per user
	assert.Equal(t, http.StatusOK, hit("/bob").Code)
	assert.Equal(t, 2, limiter.Stats()["active_clients"])
}

func TestIdempotency(t *testing.T) {
	repo := newMemoryIdempotencyRepo()
	userID := uuid.New()
	calls := 0

	router := gin.New()
	router.POST("/sales",
		withUser(userID, enum.RoleCaixa),
		Idempotency(IdempotencyConfig{Repo: repo, Required: true}),
		func(c *gin.Context) {
			calls++
			if strings.Contains(c.GetHeader("X-Fail"), "yes") {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false})
				return
			}
			c.JSON(http.StatusCreated, gin.H{"success": true, "call": calls})
		},
	)

	post := func(key, body string, fail bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(body))
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		if fail {
			req.Header.Set("X-Fail", "yes")
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("key required", func(t *testing.T) {
		w := post("", `{"a":1}`, false)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 0, calls)
	})

	t.Run("replay returns the stored response", func(t *testing.T) {
		first := post("k1", `{"a":1}`, false)
		require.Equal(t, http.StatusCreated, first.Code)

		second := post("k1", `{"a":1}`, false)
		assert.Equal(t, http.StatusCreated, second.Code)
		assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
		assert.JSONEq(t, first.Body.String(), second.Body.String())
		assert.Equal(t, 1, calls)
	})

	t.Run("different body under same key", func(t *testing.T) {
		w := post("k1", `{"a":2}`, false)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "idempotency_key_reused")
		assert.Equal(t, 1, calls)
	})

	t.Run("failed responses are not stored", func(t *testing.T) {
		w := post("k2", `{"a":3}`, true)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		retry := post("k2", `{"a":3}`, false)
		assert.Equal(t, http.StatusCreated, retry.Code)
		assert.Empty(t, retry.Header().Get("X-Idempotency-Replayed"))
		assert.Equal(t, 3, calls)
	})
}
