package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"qatrack/database/model"
	"qatrack/logger"
	"qatrack/web/entity"
	"qatrack/web/service"
)

// AuditController exposes the paginated audit listings.
type AuditController struct {
	auditService service.AuditService
}

func NewAuditController(g *gin.RouterGroup) *AuditController {
	a := &AuditController{}
	a.initRouter(g)
	return a
}

func (a *AuditController) initRouter(g *gin.RouterGroup) {
	g.GET("/bitacora", a.listActions)
	g.GET("/auditoria-errores", a.listErrors)
}

func (a *AuditController) listActions(c *gin.Context) {
	a.listKind(c, model.AuditAccion)
}

func (a *AuditController) listErrors(c *gin.Context) {
	a.listKind(c, model.AuditError)
}

func (a *AuditController) listKind(c *gin.Context, kind string) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 20
	}

	entries, total, err := a.auditService.List(kind, page, limit)
	if err != nil {
		logger.Error("list audit entries failed:", err)
		jsonError(c, http.StatusInternalServerError, "Error al obtener la bitácora")
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	c.JSON(http.StatusOK, entity.Page{
		Data: entries,
		Pagination: entity.Pagination{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	})
}
