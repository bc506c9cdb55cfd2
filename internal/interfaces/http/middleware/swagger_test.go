package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func swaggerRouter(cfg SwaggerConfig, jwtMiddleware gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.GET("/swagger/*any", SwaggerProtection(cfg, jwtMiddleware), func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})
	return router
}

func getSwagger(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/swagger/index.html", nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSwaggerDisabledAnswers404(t *testing.T) {
	router := swaggerRouter(SwaggerConfig{Enabled: false}, nil)
	w := getSwagger(router, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), "docs")
}

func TestSwaggerOpenWhenNoRestrictions(t *testing.T) {
	router := swaggerRouter(SwaggerConfig{Enabled: true}, nil)
	assert.Equal(t, http.StatusOK, getSwagger(router, "").Code)
}

func TestSwaggerIPWhitelist(t *testing.T) {
	cfg := SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.5", "192.168.1.0/24"}}
	router := swaggerRouter(cfg, nil)

	t.Run("exact address allowed", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, getSwagger(router, "10.0.0.5:41000").Code)
	})

	t.Run("address inside CIDR allowed", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, getSwagger(router, "192.168.1.77:41000").Code)
	})

	t.Run("everyone else forbidden", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, getSwagger(router, "172.16.0.9:41000").Code)
	})
}

func TestSwaggerRequireAuth(t *testing.T) {
	jwtStub := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
		}
	}
	router := swaggerRouter(SwaggerConfig{Enabled: true, RequireAuth: true}, jwtStub)

	t.Run("without token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, getSwagger(router, "").Code)
	})

	t.Run("with token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/swagger/index.html", nil)
		req.Header.Set("Authorization", "Bearer token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestParseWhitelistSkipsGarbage(t *testing.T) {
	w := parseWhitelist([]string{"not-an-ip", "300.1.2.3/40", "10.0.0.1", "10.1.0.0/16"})

	assert.Len(t, w.ips, 1)
	assert.Len(t, w.nets, 1)
	assert.True(t, w.contains(net.ParseIP("10.1.2.3")))
	assert.False(t, w.contains(nil))
}
