package controller

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"

	"qatrack/web/entity"
)

// getRemoteIp extracts the real IP address from the request headers or remote address.
func getRemoteIp(c *gin.Context) string {
	value := c.GetHeader("X-Real-IP")
	if value != "" {
		return value
	}
	value = c.GetHeader("X-Forwarded-For")
	if value != "" {
		ips := strings.Split(value, ",")
		return ips[0]
	}
	addr := c.Request.RemoteAddr
	ip, _, _ := net.SplitHostPort(addr)
	return ip
}

// jsonError sends the structured error body and keeps the message available
// for the audit middleware.
func jsonError(c *gin.Context, statusCode int, msg string) {
	c.Set("errorDetail", msg)
	c.JSON(statusCode, entity.ErrorMsg{Error: msg})
}
