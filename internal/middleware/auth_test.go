package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"senior-house/internal/auth"
	"senior-house/internal/models"
	"senior-house/internal/observability"
)

func newRouter(tokens TokenParser, guards ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{RequestID(), AuthMiddleware(tokens)}, guards...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":    c.GetInt("userID"),
			"role":       c.GetString("role"),
			"request_id": observability.RequestIDFromContext(c.Request.Context()),
		})
	})
	r.GET("/private", handlers...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	token, err := issuer.Issue(models.User{ID: 7, Role: models.RoleCompany})
	require.NoError(t, err)
	router := newRouter(issuer)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			require.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestRequireRoleAndRequestID(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	router := newRouter(issuer, RequireRole(models.RoleAdmin))

	userToken, err := issuer.Issue(models.User{ID: 1, Role: models.RoleIndividual})
	require.NoError(t, err)
	adminToken, err := issuer.Issue(models.User{ID: 2, Role: models.RoleAdmin})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	req.Header.Set("X-Request-ID", "req-42")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
	assert.Contains(t, rec.Body.String(), `"request_id":"req-42"`)
	assert.Contains(t, rec.Body.String(), `"role":"admin"`)
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = BearerToken("Bearer ")
	assert.False(t, ok)
}

func TestOptionalAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	token, err := issuer.Issue(models.User{ID: 3, Role: models.RoleIndividual})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/jobs", OptionalAuth(issuer), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt("userID")})
	})

	for _, tc := range []struct {
		header string
		want   string
	}{
		{"", `{"user_id":0}`},
		{"Bearer garbage", `{"user_id":0}`},
		{"Bearer " + token, `{"user_id":3}`},
	} {
		req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, tc.want, rec.Body.String())
	}
}
