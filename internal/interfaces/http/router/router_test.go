package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func reply(body string) gin.HandlerFunc {
	return func(c *gin.Context) { c.String(http.StatusOK, body) }
}

func TestRouterMountsUnderVersionPrefix(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	workshop := NewDomainGroup("workshop", "/service-orders")
	workshop.GET("/history", reply("history"))
	r.Register(workshop).Setup()

	w := serve(engine, http.MethodGet, "/api/v2/service-orders/history")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "history", w.Body.String())

	// default version is v1, so v1 paths are not mounted here
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/service-orders/history").Code)
}

func TestDomainGroupMethods(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	inventory := NewDomainGroup("inventory", "/inventory")
	inventory.
		GET("", reply("list")).
		POST("", reply("created")).
		PUT("/:id", reply("updated")).
		DELETE("/:id", reply("deleted"))
	r.Register(inventory).Setup()

	for _, tt := range []struct {
		method, path, body string
	}{
		{http.MethodGet, "/api/v1/inventory", "list"},
		{http.MethodPost, "/api/v1/inventory", "created"},
		{http.MethodPut, "/api/v1/inventory/42", "updated"},
		{http.MethodDelete, "/api/v1/inventory/42", "deleted"},
	} {
		w := serve(engine, tt.method, tt.path)
		assert.Equal(t, http.StatusOK, w.Code, "%s %s", tt.method, tt.path)
		assert.Equal(t, tt.body, w.Body.String())
	}
}

func TestMultipleDomainGroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	customers := NewDomainGroup("partner", "/customers")
	customers.GET("", reply("customers"))

	orders := NewDomainGroup("workshop", "/service-orders")
	orders.GET("", reply("orders"))

	r.Register(customers).Register(orders).Setup()

	assert.Equal(t, "customers", serve(engine, http.MethodGet, "/api/v1/customers").Body.String())
	assert.Equal(t, "orders", serve(engine, http.MethodGet, "/api/v1/service-orders").Body.String())
}

func TestMiddlewareChainPerRoute(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	stamp := func(c *gin.Context) {
		c.Header("X-Workshop", "mecanicpro")
		c.Next()
	}

	orders := NewDomainGroup("workshop", "/service-orders")
	orders.GET("", stamp, reply("orders"))
	r.Register(orders).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/service-orders")
	assert.Equal(t, "mecanicpro", w.Header().Get("X-Workshop"))
	assert.Equal(t, "orders", w.Body.String())
}
