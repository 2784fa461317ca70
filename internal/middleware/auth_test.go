package middleware

import (
	"elearning_backend/internal/config"
	"elearning_backend/internal/model"
	"elearning_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func tokenFor(t *testing.T, id uint, role model.UserRole) string {
	t.Helper()
	user := &model.User{Email: "user@example.com", Role: role}
	user.ID = id
	token, err := util.GenerateJWT(user, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func newGuardedRouter(guards ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}

	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(cfg)}, guards...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": util.GetUserFromContext(c).UserID})
	})
	r.GET("/users/:user_id", handlers...)
	return r
}

func call(r *gin.Engine, path, token string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAuthMiddleware(t *testing.T) {
	r := newGuardedRouter()

	assert.Equal(t, http.StatusUnauthorized, call(r, "/users/1", ""))
	assert.Equal(t, http.StatusUnauthorized, call(r, "/users/1", "garbage"))

	other := &model.User{Role: model.Student}
	other.ID = 1
	forged, err := util.GenerateJWT(other, "another-secret-another-secret-xx", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call(r, "/users/1", forged))

	assert.Equal(t, http.StatusOK, call(r, "/users/1", tokenFor(t, 1, model.Student)))
}

func TestRoleMiddleware(t *testing.T) {
	r := newGuardedRouter(RoleMiddleware(model.Instructor))

	assert.Equal(t, http.StatusForbidden, call(r, "/users/1", tokenFor(t, 1, model.Student)))
	assert.Equal(t, http.StatusOK, call(r, "/users/1", tokenFor(t, 2, model.Instructor)))
	assert.Equal(t, http.StatusOK, call(r, "/users/1", tokenFor(t, 3, model.Admin)))
}

func TestSelfOrRoles(t *testing.T) {
	r := newGuardedRouter(SelfOrRoles("user_id", model.Instructor))

	tests := []struct {
		name string
		path string
		id   uint
		role model.UserRole
		want int
	}{
		{"self", "/users/5", 5, model.Student, http.StatusOK},
		{"other student", "/users/6", 5, model.Student, http.StatusForbidden},
		{"instructor", "/users/6", 7, model.Instructor, http.StatusOK},
		{"admin", "/users/6", 8, model.Admin, http.StatusOK},
		{"malformed id", "/users/abc", 5, model.Student, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, call(r, tt.path, tokenFor(t, tt.id, tt.role)))
		})
	}
}
