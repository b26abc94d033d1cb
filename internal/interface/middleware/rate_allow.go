package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// AllowCIDRs exempts clients whose resolved IP falls in one of the given
// networks. Unparsable entries are ignored.
func AllowCIDRs(cidrs ...string) AllowFunc {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		if _, n, err := net.ParseCIDR(c); err == nil {
			nets = append(nets, n)
		}
	}
	return func(c *gin.Context) bool {
		ip := net.ParseIP(ipFromCtx(c))
		if ip == nil {
			return false
		}
		for _, n := range nets {
			if n.Contains(ip) {
				return true
			}
		}
		return false
	}
}

// AllowPrivateIP exempts loopback and RFC 1918 / ULA clients.
func AllowPrivateIP() AllowFunc {
	return AllowCIDRs(
		"127.0.0.0/8", "::1/128",
		"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16",
		"fc00::/7",
	)
}
