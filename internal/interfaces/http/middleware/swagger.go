package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SwaggerConfig controls who may read the API documentation.
type SwaggerConfig struct {
	Enabled     bool
	RequireAuth bool
	// AllowedIPs whitelists callers, single addresses or CIDR ranges.
	// Empty means any address.
	AllowedIPs []string
}

// SwaggerProtection gates the swagger routes. Disabled docs answer 404
// so the endpoint's existence is not advertised; otherwise the IP
// whitelist and, when required, the JWT middleware are applied.
func SwaggerProtection(cfg SwaggerConfig, jwtMiddleware gin.HandlerFunc) gin.HandlerFunc {
	whitelist := parseWhitelist(cfg.AllowedIPs)

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": "API documentation is not available",
			})
			return
		}

		if len(cfg.AllowedIPs) > 0 && !whitelist.contains(clientIP(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "Access to API documentation is restricted",
			})
			return
		}

		if cfg.RequireAuth && jwtMiddleware != nil {
			jwtMiddleware(c)
			if c.IsAborted() {
				return
			}
		}

		c.Next()
	}
}

type ipWhitelist struct {
	ips  []net.IP
	nets []*net.IPNet
}

func parseWhitelist(entries []string) ipWhitelist {
	var w ipWhitelist
	for _, entry := range entries {
		if strings.Contains(entry, "/") {
			if _, network, err := net.ParseCIDR(entry); err == nil {
				w.nets = append(w.nets, network)
			}
			continue
		}
		if ip := net.ParseIP(entry); ip != nil {
			w.ips = append(w.ips, ip)
		}
	}
	return w
}

func (w ipWhitelist) contains(ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, allowed := range w.ips {
		if allowed.Equal(ip) {
			return true
		}
	}
	for _, network := range w.nets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

func clientIP(c *gin.Context) net.IP {
	if ip := net.ParseIP(c.ClientIP()); ip != nil {
		return ip
	}
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		host = c.Request.RemoteAddr
	}
	return net.ParseIP(host)
}
