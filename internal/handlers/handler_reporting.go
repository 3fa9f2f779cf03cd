package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/SscSPs/bookkeeping_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to reports and downloads
type reportingHandler struct {
	reportingService portssvc.ReportingService
	exportService    portssvc.ExportService
}

func newReportingHandler(rs portssvc.ReportingService, es portssvc.ExportService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
		exportService:    es,
	}
}

// registerReportingRoutes registers routes related to reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService, exportService portssvc.ExportService) {
	h := newReportingHandler(reportingService, exportService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/balances", h.getBalanceReport)
		reportingGroup.GET("/instruments", h.getInstrumentReport)
		reportingGroup.GET("/cash-flow", h.getCashFlowReport)
		reportingGroup.GET("/aging", h.getAgingReport)
		reportingGroup.GET("/dashboard", h.getDashboard)
		reportingGroup.GET("/export", h.export)
	}
}

// getBalanceReport godoc
// @Summary Account balance report
// @Description Lists account balances with totals, filtered by balance mode
// @Tags reports
// @Produce json
// @Param mode query string false "all, receivable, payable or non_zero" default(all)
// @Param kind query string false "Account kind"
// @Param minBalance query number false "Minimum absolute balance"
// @Success 200 {object} domain.BalanceReport
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/balances [get]
func (h *reportingHandler) getBalanceReport(c *gin.Context) {
	var params dto.BalanceReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	filter, err := params.ToDomain()
	if err != nil {
		respondError(c, err, "Invalid query parameters")
		return
	}
	report, err := h.reportingService.GetBalanceReport(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to generate report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getInstrumentReport godoc
// @Summary Instrument report
// @Description Instruments due in the range, grouped by status and kind
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.InstrumentReport
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/instruments [get]
func (h *reportingHandler) getInstrumentReport(c *gin.Context) {
	var params dto.DateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	rng, err := params.ToDomain()
	if err != nil {
		respondError(c, err, "Invalid date range")
		return
	}
	report, err := h.reportingService.GetInstrumentReport(c.Request.Context(), rng)
	if err != nil {
		respondError(c, err, "Failed to generate report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getCashFlowReport godoc
// @Summary Cash flow report
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param period query string false "day, week, month or year" default(month)
// @Success 200 {object} domain.CashFlowReport
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/cash-flow [get]
func (h *reportingHandler) getCashFlowReport(c *gin.Context) {
	var params dto.CashFlowParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	rng, err := params.DateRangeParams.ToDomain()
	if err != nil {
		respondError(c, err, "Invalid date range")
		return
	}
	period, err := domain.ParseBucketPeriod(params.Period)
	if err != nil {
		respondError(c, err, "Invalid period")
		return
	}
	report, err := h.reportingService.GetCashFlowReport(c.Request.Context(), rng, period)
	if err != nil {
		respondError(c, err, "Failed to generate report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getAgingReport godoc
// @Summary Receivables aging report
// @Description Open incoming instruments bucketed by days past due
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} domain.AgingReport
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/aging [get]
func (h *reportingHandler) getAgingReport(c *gin.Context) {
	var params dto.AgingReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	asOf, err := params.ToDomain()
	if err != nil {
		respondError(c, err, "Invalid date format. Use YYYY-MM-DD")
		return
	}
	report, err := h.reportingService.GetAgingReport(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err, "Failed to generate report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// getDashboard godoc
// @Summary Dashboard statistics
// @Tags reports
// @Produce json
// @Success 200 {object} domain.DashboardStats
// @Failure 500 {object} dto.ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /reports/dashboard [get]
func (h *reportingHandler) getDashboard(c *gin.Context) {
	stats, err := h.reportingService.GetDashboard(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to build dashboard")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// export godoc
// @Summary Download a report
// @Description Renders a report as CSV or XLSX. CSV honours the requested text encoding.
// @Tags reports
// @Produce octet-stream
// @Param report query string true "statement, balances, instruments, cash_flow, cash_entries or aging"
// @Param format query string false "csv or xlsx" default(csv)
// @Param encoding query string false "utf8 or windows1254 (CSV only)"
// @Param accountID query int false "Account ID (statement only)"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param period query string false "Cash flow bucket period"
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to export report"
// @Security BearerAuth
// @Router /reports/export [get]
func (h *reportingHandler) export(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ExportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	req, err := params.ToDomain()
	if err != nil {
		respondError(c, err, "Invalid query parameters")
		return
	}

	file, err := h.exportService.Export(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to export report")
		return
	}

	logger.Info("Report exported",
		slog.String("report", string(req.Report)),
		slog.String("format", string(req.Format)),
		slog.Int("bytes", len(file.Data)),
	)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
