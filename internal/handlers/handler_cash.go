package handlers

import (
	"net/http"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/gin-gonic/gin"
)

type cashHandler struct {
	cashService portssvc.CashDrawerSvc
}

func newCashHandler(cs portssvc.CashDrawerSvc) *cashHandler {
	return &cashHandler{cashService: cs}
}

// registerCashRoutes registers the cash drawer routes.
func registerCashRoutes(rg *gin.RouterGroup, cashService portssvc.CashDrawerSvc) {
	h := newCashHandler(cashService)

	cash := rg.Group("/cash")
	{
		cash.POST("/entries", h.recordEntry)
		cash.GET("/entries", h.listEntries)
		cash.GET("/entries/:entryID", h.getEntry)
		cash.GET("/balance", h.getBalance)
		cash.GET("/categories", h.getCategoryTotals)
		cash.GET("/flow", h.getCashFlow)
		cash.GET("/summary", h.getFinancialSummary)
	}
}

// recordEntry godoc
// @Summary Record a cash drawer entry
// @Description Appends an income or expense. With an account, the opposite effect is posted to its ledger in the same transaction.
// @Tags cash
// @Accept json
// @Produce json
// @Param entry body dto.RecordCashEntryRequest true "Entry"
// @Success 201 {object} dto.OperationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /cash/entries [post]
func (h *cashHandler) recordEntry(c *gin.Context) {
	userID, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.RecordCashEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	entry, err := req.ToDomain()
	if err != nil {
		respondError(c, err, "Invalid cash entry")
		return
	}
	res, err := h.cashService.RecordEntry(c.Request.Context(), entry, userID)
	respondResult(c, res, err, http.StatusCreated, "Failed to record cash entry")
}

// listEntries godoc
// @Summary List cash drawer entries
// @Tags cash
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param kind query string false "income or expense"
// @Param category query string false "Category"
// @Param accountID query int false "Account ID"
// @Param instrumentID query int false "Instrument ID"
// @Param paymentMethod query string false "cash, check, bank_transfer, credit_card, other"
// @Param search query string false "Description or reference"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListCashEntriesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /cash/entries [get]
func (h *cashHandler) listEntries(c *gin.Context) {
	var params dto.ListCashEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	filter, err := params.ToDomain()
	if err != nil {
		respondError(c, err, "Invalid query parameters")
		return
	}
	entries, err := h.cashService.ListEntries(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to list cash entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCashEntriesResponse(entries))
}

// getEntry godoc
// @Summary Get a cash drawer entry
// @Tags cash
// @Produce json
// @Param entryID path int true "Entry ID"
// @Success 200 {object} dto.CashEntryResponse
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /cash/entries/{entryID} [get]
func (h *cashHandler) getEntry(c *gin.Context) {
	entryID, ok := pathID(c, "entryID")
	if !ok {
		return
	}
	entry, err := h.cashService.GetEntry(c.Request.Context(), entryID)
	if err != nil {
		respondError(c, err, "Failed to retrieve cash entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToCashEntryResponse(*entry))
}

// getBalance godoc
// @Summary Cash drawer balance
// @Description Totals for all time, today, the trailing seven days and the current month
// @Tags cash
// @Produce json
// @Success 200 {object} domain.DrawerBalance
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /cash/balance [get]
func (h *cashHandler) getBalance(c *gin.Context) {
	balance, err := h.cashService.GetDrawerBalance(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to compute drawer balance")
		return
	}
	c.JSON(http.StatusOK, balance)
}

// getCategoryTotals godoc
// @Summary Cash totals by category
// @Tags cash
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param kind query string false "income or expense"
// @Success 200 {array} domain.CategoryTotal
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /cash/categories [get]
func (h *cashHandler) getCategoryTotals(c *gin.Context) {
	var params dto.CategoryTotalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	rng, err := params.DateRangeParams.ToDomain()
	if err != nil {
		respondError(c, err, "Invalid date range")
		return
	}
	var kind *domain.CashKind
	if params.Kind != "" {
		k, err := domain.ParseCashKind(params.Kind)
		if err != nil {
			respondError(c, err, "Invalid cash kind")
			return
		}
		kind = &k
	}
	totals, err := h.cashService.GetCategoryTotals(c.Request.Context(), rng, kind)
	if err != nil {
		respondError(c, err, "Failed to total categories")
		return
	}
	c.JSON(http.StatusOK, totals)
}

// getCashFlow godoc
// @Summary Cash flow series
// @Tags cash
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param period query string false "day, week, month or year" default(month)
// @Success 200 {array} domain.CashFlowBucket
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /cash/flow [get]
func (h *cashHandler) getCashFlow(c *gin.Context) {
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
	series, err := h.cashService.GetCashFlowSeries(c.Request.Context(), rng, period)
	if err != nil {
		respondError(c, err, "Failed to build cash flow series")
		return
	}
	c.JSON(http.StatusOK, series)
}

// getFinancialSummary godoc
// @Summary Financial summary
// @Description Income and expense by category, net, profit margin and daily trend for a period
// @Tags cash
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} domain.FinancialSummary
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /cash/summary [get]
func (h *cashHandler) getFinancialSummary(c *gin.Context) {
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
	summary, err := h.cashService.GetFinancialSummary(c.Request.Context(), rng)
	if err != nil {
		respondError(c, err, "Failed to build financial summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}
