// Package router assembles the versioned API surface from per-domain
// route groups (customers, service orders, inventory, finance...).
package router

import "github.com/gin-gonic/gin"

// RouteRegistrar hangs a set of routes off the versioned API group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router collects registrars and mounts them under /api/<version>.
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

type RouterOption func(*Router)

func WithAPIVersion(version string) RouterOption {
	return func(r *Router) { r.apiVersion = version }
}

func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup mounts every registered group on the engine.
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// DomainGroup is a declarative route group for one domain, built up
// before the engine exists and mounted later by Setup.
type DomainGroup struct {
	name   string
	prefix string
	routes []func(*gin.RouterGroup)
}

func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(func(g *gin.RouterGroup) { g.GET(path, handlers...) })
}

func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(func(g *gin.RouterGroup) { g.POST(path, handlers...) })
}

func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(func(g *gin.RouterGroup) { g.PUT(path, handlers...) })
}

func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(func(g *gin.RouterGroup) { g.DELETE(path, handlers...) })
}

func (dg *DomainGroup) handle(register func(*gin.RouterGroup)) *DomainGroup {
	dg.routes = append(dg.routes, register)
	return dg
}

// RegisterRoutes mounts the group's routes under its prefix.
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)
	for _, register := range dg.routes {
		register(group)
	}
}
