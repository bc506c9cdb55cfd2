// Package middleware provides HTTP middleware for the workshop backend.
package middleware

import (
	"context"
	"runtime/pprof"
	"strings"

	"github.com/gin-gonic/gin"
)

// ProfilingConfig controls which requests receive pprof labels.
type ProfilingConfig struct {
	Enabled bool
	// SkipPaths lists exact paths excluded from labeling, health
	// probes mostly.
	SkipPaths []string
	// SkipPathPrefixes lists prefixes excluded from labeling.
	SkipPathPrefixes []string
}

// DefaultProfilingConfig skips health probes and the swagger UI.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:          true,
		SkipPaths:        []string{"/health", "/healthz", "/ready", "/metrics"},
		SkipPathPrefixes: []string{"/swagger", "/api-docs"},
	}
}

// Profiling tags request handling with pprof labels so Pyroscope can
// slice profiles by route, method, resource, and acting user. Labels
// stay low cardinality: the route pattern is used, never the raw path.
func Profiling() gin.HandlerFunc {
	return ProfilingWithConfig(DefaultProfilingConfig())
}

// ProfilingWithConfig is Profiling with explicit skip rules. Place it
// after the JWT middleware when the user_id label should be populated.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		pprof.Do(c.Request.Context(), requestLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func requestLabels(c *gin.Context) pprof.LabelSet {
	kv := []string{"method", c.Request.Method}

	route := c.FullPath()
	if route != "" {
		kv = append(kv, "route", route)
	}
	if resource := resourceFromRoute(route); resource != "" {
		kv = append(kv, "resource", resource)
	}
	if userID, ok := c.Get(JWTUserIDKey); ok {
		if id, isString := userID.(string); isString && id != "" {
			kv = append(kv, "user_id", id)
		}
	}

	return pprof.Labels(kv...)
}

// resourceFromRoute derives the resource name from a route pattern,
// "/api/v1/service-orders/:id" becomes "service-orders".
func resourceFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || isVersionSegment(part) {
			continue
		}
		if strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*") {
			continue
		}
		return part
	}
	return ""
}

func isVersionSegment(segment string) bool {
	if len(segment) < 2 || (segment[0] != 'v' && segment[0] != 'V') {
		return false
	}
	for i := 1; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return true
}
