package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qatrack/web/service"
)

// ServerController exposes the process/host status snapshot.
type ServerController struct {
	serverService service.ServerService
}

func NewServerController(g *gin.RouterGroup) *ServerController {
	s := &ServerController{}
	s.initRouter(g)
	return s
}

func (s *ServerController) initRouter(g *gin.RouterGroup) {
	g.GET("/status", s.status)
}

func (s *ServerController) status(c *gin.Context) {
	c.JSON(http.StatusOK, s.serverService.GetStatus())
}
