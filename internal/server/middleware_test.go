package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/dkazlauskas/bendrija-ingest/internal/common"
)

func TestJWTAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := common.AuthConfig{JWTSecret: "test-secret", AdminRole: "admin"}

	validToken, _ := GenerateToken("u1", "admin", auth.JWTSecret, time.Hour)
	expiredToken, _ := GenerateToken("u1", "admin", auth.JWTSecret, -time.Hour)
	foreignToken, _ := GenerateToken("u1", "admin", "other-secret", time.Hour)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer " + validToken, http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"invalid format", "Basic " + validToken, http.StatusUnauthorized, ""},
		{"expired token", "Bearer " + expiredToken, http.StatusUnauthorized, "ExpiredToken"},
		{"wrong secret", "Bearer " + foreignToken, http.StatusUnauthorized, "InvalidToken"},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized, "InvalidToken"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(JWTAuth(auth))
			router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

			req, _ := http.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		role       string
		haveRole   bool
		wantStatus int
	}{
		{"admin passes", "admin", true, http.StatusOK},
		{"resident forbidden", "resident", true, http.StatusForbidden},
		{"no role claim", "", false, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(func(c *gin.Context) {
				if tt.haveRole {
					c.Set("role", tt.role)
				}
				c.Next()
			})
			router.Use(RequireRole("admin"))
			router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

			req, _ := http.NewRequest(http.MethodGet, "/test", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
