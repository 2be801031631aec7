package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/storefront/cart/internal/infrastructure/config"
)

func TestSwaggerProtection(t *testing.T) {
	denyAll := func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	}
	serve := func(cfg config.SwaggerConfig, auth gin.HandlerFunc, remoteAddr string) *httptest.ResponseRecorder {
		router := gin.New()
		router.GET("/swagger/*any", SwaggerProtection(cfg, auth), func(c *gin.Context) {
			c.String(http.StatusOK, "docs")
		})
		req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	tests := []struct {
		name       string
		cfg        config.SwaggerConfig
		auth       gin.HandlerFunc
		remoteAddr string
		want       int
	}{
		{"disabled", config.SwaggerConfig{}, nil, "127.0.0.1:1234", http.StatusNotFound},
		{"enabled without restrictions", config.SwaggerConfig{Enabled: true}, nil, "203.0.113.7:1234", http.StatusOK},
		{"allowed ip", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"127.0.0.1"}}, nil, "127.0.0.1:1234", http.StatusOK},
		{"allowed cidr", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8"}}, nil, "10.1.2.3:1234", http.StatusOK},
		{"denied ip", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8", "bogus"}}, nil, "192.168.1.1:1234", http.StatusForbidden},
		{"auth rejects", config.SwaggerConfig{Enabled: true, RequireAuth: true}, denyAll, "127.0.0.1:1234", http.StatusUnauthorized},
		{"auth not required", config.SwaggerConfig{Enabled: true}, denyAll, "127.0.0.1:1234", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(tt.cfg, tt.auth, tt.remoteAddr)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
