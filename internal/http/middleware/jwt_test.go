package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/open", func(c *gin.Context) {
		c.String(http.StatusOK, GetCurrentSubject(c))
	})
	r.GET("/private", JWTMiddleware(secret), func(c *gin.Context) {
		c.String(http.StatusOK, GetCurrentSubject(c))
	})
	return r
}

func TestJWTMiddleware(t *testing.T) {
	r := newAuthRouter("s3cret")

	token, err := GenerateJWT("ops", "s3cret", time.Hour)
	require.NoError(t, err)
	forged, err := GenerateJWT("ops", "other", time.Hour)
	require.NoError(t, err)
	expired, err := GenerateJWT("ops", "s3cret", -time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "Token abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + forged, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.code, w.Code)
			if tc.code == http.StatusOK {
				assert.Equal(t, "ops", w.Body.String())
			}
		})
	}
}

func TestGetCurrentSubject_AnonymousWithoutAuth(t *testing.T) {
	r := newAuthRouter("s3cret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, Anonymous, w.Body.String())
}
