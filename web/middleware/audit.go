package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"qatrack/database/model"
	"qatrack/web/service"
)

// Audit appends a trail entry after each API request: an accion entry for
// successful mutations, an error entry for any failed request. Appending is
// best effort and never affects the response.
func Audit() gin.HandlerFunc {
	auditService := service.AuditService{}

	return func(c *gin.Context) {
		c.Next()

		path := c.Request.URL.Path
		if !strings.HasPrefix(path, "/api/") {
			return
		}

		method := c.Request.Method
		status := c.Writer.Status()
		mutating := method == http.MethodPost || method == http.MethodPut || method == http.MethodDelete

		username := ""
		if identity := GetIdentity(c); identity != nil {
			username = identity.Username
		}

		switch {
		case status >= http.StatusBadRequest:
			detail := method + " failed with " + strconv.Itoa(status)
			if msg, ok := c.Get("errorDetail"); ok {
				if s, ok := msg.(string); ok && s != "" {
					detail = detail + ": " + s
				}
			}
			auditService.Record(username, model.AuditError, detail, path, c.ClientIP())
		case mutating:
			auditService.Record(username, model.AuditAccion, actionFor(method, path), path, c.ClientIP())
		}
	}
}

func actionFor(method, path string) string {
	switch method {
	case http.MethodPost:
		switch {
		case strings.HasSuffix(path, "/login"):
			return "LOGIN"
		case strings.HasSuffix(path, "/register"):
			return "REGISTER"
		default:
			return "CREATE"
		}
	case http.MethodPut:
		return "UPDATE"
	case http.MethodDelete:
		return "DELETE"
	default:
		return method
	}
}
