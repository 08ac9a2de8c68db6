package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundhub/internal/common/security"
	"fundhub/internal/domain/model"
)

func newTestRouter(jwt *security.JWT) http.Handler {
	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(jwt.TokenAuth()))
	r.Group(func(private chi.Router) {
		private.Use(Authenticator(zerolog.Nop()))
		private.Get("/me", func(w http.ResponseWriter, r *http.Request) {
			userID, _ := GetUserIDFromContext(r.Context())
			w.Write([]byte(userID))
		})
		private.Group(func(admin chi.Router) {
			admin.Use(AdminOnly)
			admin.Get("/admin", func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("ok"))
			})
		})
	})
	return r
}

func TestAuthenticator(t *testing.T) {
	jwt := security.NewJWT([]byte("test-secret"), time.Hour)
	router := newTestRouter(jwt)

	t.Run("missing token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := jwt.GenerateToken("user-123", model.RoleUser)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "user-123", rr.Body.String())
	})

	t.Run("expired token", func(t *testing.T) {
		expired := security.NewJWT([]byte("test-secret"), -time.Hour)
		token, err := expired.GenerateToken("user-123", model.RoleUser)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		other := security.NewJWT([]byte("another-secret"), time.Hour)
		token, err := other.GenerateToken("user-123", model.RoleUser)
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAdminOnly(t *testing.T) {
	jwt := security.NewJWT([]byte("test-secret"), time.Hour)
	router := newTestRouter(jwt)

	userToken, err := jwt.GenerateToken("user-123", model.RoleUser)
	require.NoError(t, err)
	adminToken, err := jwt.GenerateToken("admin-1", model.RoleAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
