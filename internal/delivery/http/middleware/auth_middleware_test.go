package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storeforms-backend/internal/domain"
	"storeforms-backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureUserHandler(t *testing.T, captured **domain.User) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := r.Context().Value(domain.UserContextKey).(*domain.User)
		*captured = user
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	utils.SetSecret("test-secret")

	t.Run("Should resolve the user from a bearer token", func(t *testing.T) {
		token, err := utils.GenerateJWT("user-1", "vendor@example.com", "vendor", time.Hour)
		require.NoError(t, err)

		var got *domain.User
		req := httptest.NewRequest(http.MethodGet, "/api/v1/forms/abc", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		AuthMiddleware(captureUserHandler(t, &got)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, "user-1", got.ID)
		assert.Equal(t, "vendor@example.com", got.Email)
		assert.Equal(t, "vendor", got.Role)
	})

	t.Run("Should accept the access token cookie", func(t *testing.T) {
		token, err := utils.GenerateJWT("user-2", "admin@example.com", "admin", time.Hour)
		require.NoError(t, err)

		var got *domain.User
		req := httptest.NewRequest(http.MethodGet, "/api/v1/forms/abc", nil)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
		rec := httptest.NewRecorder()

		AuthMiddleware(captureUserHandler(t, &got)).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, "user-2", got.ID)
	})

	t.Run("Should reject a request with no token", func(t *testing.T) {
		var got *domain.User
		req := httptest.NewRequest(http.MethodGet, "/api/v1/forms/abc", nil)
		rec := httptest.NewRecorder()

		AuthMiddleware(captureUserHandler(t, &got)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, got)
	})

	t.Run("Should reject an expired token", func(t *testing.T) {
		token, err := utils.GenerateJWT("user-3", "late@example.com", "vendor", -time.Minute)
		require.NoError(t, err)

		var got *domain.User
		req := httptest.NewRequest(http.MethodGet, "/api/v1/forms/abc", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		AuthMiddleware(captureUserHandler(t, &got)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, got)
	})

	t.Run("Should reject a garbage token", func(t *testing.T) {
		var got *domain.User
		req := httptest.NewRequest(http.MethodGet, "/api/v1/forms/abc", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()

		AuthMiddleware(captureUserHandler(t, &got)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, got)
	})
}
