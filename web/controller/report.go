package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"qatrack/logger"
	"qatrack/storage"
	"qatrack/web/middleware"
	"qatrack/web/service"
)

// createForm is the creation request body; wire names are the Spanish ones
// every client of this API has always used.
type createForm struct {
	Reporte   string `json:"reporte"`
	Fecha     string `json:"fecha"`
	Solicitud string `json:"solicitud"`
	Proyecto  string `json:"proyecto"`
	Resultado string `json:"resultado"`
	Estado    string `json:"estado"`
}

// patchForm is the partial update body. Absent fields stay nil and keep
// their prior values.
type patchForm struct {
	Reporte   *string `json:"reporte"`
	Fecha     *string `json:"fecha"`
	Solicitud *string `json:"solicitud"`
	Proyecto  *string `json:"proyecto"`
	Resultado *string `json:"resultado"`
	Estado    *string `json:"estado"`
}

// ReportController maps the report REST routes onto the report service.
type ReportController struct {
	reportService *service.ReportService
	exportService *service.ExportService
}

// NewReportController registers the CRUD routes on g and the export download
// on exportG, which additionally accepts the query-string token.
func NewReportController(g, exportG *gin.RouterGroup, reportService *service.ReportService, exportService *service.ExportService) *ReportController {
	r := &ReportController{
		reportService: reportService,
		exportService: exportService,
	}
	r.initRouter(g, exportG)
	return r
}

func (r *ReportController) initRouter(g, exportG *gin.RouterGroup) {
	g.GET("/reports", r.list)
	g.POST("/reports", r.create)
	g.PUT("/reports/:id", r.update)
	g.DELETE("/reports/:id", r.delete)
	exportG.GET("/export-excel", r.exportExcel)
}

func (r *ReportController) list(c *gin.Context) {
	reports, err := r.reportService.ListReports()
	if err != nil {
		logger.Error("list reports failed:", err)
		jsonError(c, http.StatusInternalServerError, "Error al obtener reportes")
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (r *ReportController) create(c *gin.Context) {
	var form createForm
	if err := c.ShouldBindJSON(&form); err != nil {
		jsonError(c, http.StatusBadRequest, "Campos obligatorios faltantes")
		return
	}

	fields := storage.Fields{
		Reporte:   form.Reporte,
		Fecha:     form.Fecha,
		Solicitud: form.Solicitud,
		Proyecto:  form.Proyecto,
		Resultado: form.Resultado,
		Estado:    form.Estado,
	}
	if identity := middleware.GetIdentity(c); identity != nil {
		fields.UserId = identity.Id
	}

	report, err := r.reportService.CreateReport(fields)
	if err != nil {
		if errors.Is(err, storage.ErrValidation) {
			jsonError(c, http.StatusBadRequest, "Campos obligatorios faltantes")
			return
		}
		logger.Error("create report failed:", err)
		jsonError(c, http.StatusInternalServerError, "Error al agregar reporte")
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (r *ReportController) update(c *gin.Context) {
	var form patchForm
	if err := c.ShouldBindJSON(&form); err != nil {
		jsonError(c, http.StatusBadRequest, "Campos obligatorios faltantes")
		return
	}

	patch := storage.Patch{
		Reporte:   form.Reporte,
		Fecha:     form.Fecha,
		Solicitud: form.Solicitud,
		Proyecto:  form.Proyecto,
		Resultado: form.Resultado,
		Estado:    form.Estado,
	}

	report, err := r.reportService.UpdateReport(c.Param("id"), patch)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			jsonError(c, http.StatusNotFound, "Reporte no encontrado")
		case errors.Is(err, storage.ErrValidation):
			jsonError(c, http.StatusBadRequest, "Campos obligatorios faltantes")
		default:
			logger.Error("update report failed:", err)
			jsonError(c, http.StatusInternalServerError, "Error al actualizar reporte")
		}
		return
	}
	c.JSON(http.StatusOK, report)
}

func (r *ReportController) delete(c *gin.Context) {
	err := r.reportService.DeleteReport(c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			jsonError(c, http.StatusNotFound, "Reporte no encontrado")
			return
		}
		logger.Error("delete report failed:", err)
		jsonError(c, http.StatusInternalServerError, "Error al eliminar reporte")
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *ReportController) exportExcel(c *gin.Context) {
	data, err := r.exportService.ExportExcel()
	if err != nil {
		logger.Error("excel export failed:", err)
		jsonError(c, http.StatusInternalServerError, "Error al exportar reportes")
		return
	}
	c.Header("Content-Disposition", `attachment; filename=reportes.xlsx`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
