package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIPKey is the context key holding the resolved client address.
const RealIPKey = "real_ip"

// RealIP resolves the client address once per request for rate limiting and logs.
// With trustProxy it prefers CF-Connecting-IP, then the left-most X-Forwarded-For entry.
// Without it only the socket peer counts, so clients cannot spoof their way around limits.
func RealIP(trustProxy bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := ""
		if trustProxy {
			ip = headerIP(c)
		}
		if ip == "" {
			ip = c.RemoteIP()
		}
		c.Set(RealIPKey, ip)
		c.Next()
	}
}

func headerIP(c *gin.Context) string {
	if cf := net.ParseIP(strings.TrimSpace(c.GetHeader("CF-Connecting-IP"))); cf != nil {
		return cf.String()
	}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	return ""
}
