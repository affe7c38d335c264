package shared

import (
	"net"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GetClientIP prefers proxy headers over the socket address.
func GetClientIP(c *fiber.Ctx) string {
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		ip := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if ip != "" {
			return ip
		}
	}

	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	if cfIP := c.Get("CF-Connecting-IP"); cfIP != "" {
		return cfIP
	}

	remote := c.Context().RemoteAddr().String()
	ip, _, err := net.SplitHostPort(remote)
	if err != nil {
		return remote
	}
	return ip
}

// LocalString reads a string stored in the request locals, empty when absent.
func LocalString(c *fiber.Ctx, key string) string {
	v, _ := c.Locals(key).(string)
	return v
}
