package handler

import (
	"fmt"
	"net/http"

	"clubpos/internal/dto"
	"clubpos/internal/service"
	"clubpos/internal/worker"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct {
	reports    service.ReportService
	dashboard  service.DashboardService
	dispatcher *worker.Dispatcher
}

func NewReportsHandler(reports service.ReportService, dashboard service.DashboardService, dispatcher *worker.Dispatcher) *ReportsHandler {
	return &ReportsHandler{reports: reports, dashboard: dashboard, dispatcher: dispatcher}
}

// Daily godoc
// @Summary      Reporte diario
// @Description  Ingresos por canchas y productos, COGS y ganancia del dia.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        date query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Success      200  {object} dto.DailyReport
// @Router       /v1/reports/daily [get]
func (h *ReportsHandler) Daily(c *gin.Context) {
	resp, err := h.reports.Daily(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Range godoc
// @Summary      Reporte por rango
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from query string true  "Fecha YYYY-MM-DD"
// @Param        to   query string false "Fecha YYYY-MM-DD (default: from)"
// @Success      200  {object} dto.DailyReport
// @Router       /v1/reports/range [get]
func (h *ReportsHandler) Range(c *gin.Context) {
	resp, err := h.reports.Range(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportCSV godoc
// @Summary      Exportar movimientos a CSV
// @Description  Una fila por venta y por reserva cobrada, ordenadas por fecha.
// @Tags         reports
// @Produce      text/csv
// @Security     BearerAuth
// @Param        from query string true  "Fecha YYYY-MM-DD"
// @Param        to   query string false "Fecha YYYY-MM-DD (default: from)"
// @Success      200
// @Router       /v1/reports/export.csv [get]
func (h *ReportsHandler) ExportCSV(c *gin.Context) {
	data, err := h.reports.ExportCSV(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}
	fileName := fmt.Sprintf("reporte_%s_%s.csv", c.Query("from"), c.Query("to"))
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// ExportPDF godoc
// @Summary      Exportar reporte diario a PDF
// @Tags         reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        date query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Success      200
// @Router       /v1/reports/export.pdf [get]
func (h *ReportsHandler) ExportPDF(c *gin.Context) {
	path, err := h.reports.ExportPDF(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, "reporte.pdf")
}

// EmailDaily godoc
// @Summary      Enviar reporte diario por email
// @Description  Genera el PDF del dia y lo envia de forma asincronica.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.EmailReportRequest true "Destino y fecha"
// @Success      202
// @Router       /v1/reports/email [post]
func (h *ReportsHandler) EmailDaily(c *gin.Context) {
	var req dto.EmailReportRequest
	if !bindAndValidate(c, &req) {
		return
	}
	path, err := h.reports.ExportPDF(c.Request.Context(), req.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	date := req.Date
	if date == "" {
		date = "hoy"
	}
	payload := worker.ReportEmailPayload{
		To:      req.To,
		Subject: fmt.Sprintf("Reporte diario %s", date),
		Body:    "Se adjunta el reporte diario del club.",
		PDFPath: path,
	}
	if err := h.dispatcher.EnqueueReportEmail(c.Request.Context(), payload); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// Dashboard godoc
// @Summary      KPIs del dia
// @Description  Rollup financiero, totales por medio de pago, top 5 productos y stock bajo.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        date query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Success      200  {object} dto.Dashboard
// @Router       /v1/dashboard [get]
func (h *ReportsHandler) Dashboard(c *gin.Context) {
	resp, err := h.dashboard.Build(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
