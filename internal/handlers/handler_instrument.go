package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/SscSPs/bookkeeping_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// instrumentHandler serves the instrument registry and settlement routes.
type instrumentHandler struct {
	instrumentService portssvc.InstrumentSvcFacade
	settlementService portssvc.SettlementSvc
	upcomingDays      int
	now               func() time.Time
}

func newInstrumentHandler(is portssvc.InstrumentSvcFacade, ss portssvc.SettlementSvc, upcomingDays int) *instrumentHandler {
	return &instrumentHandler{
		instrumentService: is,
		settlementService: ss,
		upcomingDays:      upcomingDays,
		now:               time.Now,
	}
}

// registerInstrumentRoutes registers check and promissory note routes.
func registerInstrumentRoutes(rg *gin.RouterGroup, is portssvc.InstrumentSvcFacade, ss portssvc.SettlementSvc, upcomingDays int) {
	h := newInstrumentHandler(is, ss, upcomingDays)

	instruments := rg.Group("/instruments")
	{
		instruments.POST("", h.registerInstrument)
		instruments.GET("", h.listInstruments)
		instruments.GET("/upcoming", h.listUpcoming)
		instruments.GET("/overdue", h.listOverdue)
		instruments.GET("/summary", h.getSummary)
		instruments.GET("/:instrumentID", h.getInstrument)
		instruments.PATCH("/:instrumentID", h.updateInstrument)
		instruments.GET("/:instrumentID/transactions", h.listTransactions)

		instruments.POST("/:instrumentID/settle", h.settle)
		instruments.POST("/:instrumentID/collect", h.collect)
		instruments.POST("/:instrumentID/partial", h.partialCollect)
		instruments.POST("/:instrumentID/return", h.returnInstrument)
		instruments.POST("/:instrumentID/cancel", h.cancel)
		instruments.POST("/:instrumentID/endorse", h.endorse)
	}
}

// registerInstrument godoc
// @Summary Register a check or promissory note
// @Description Stores a pending instrument and, when enabled, an automatic reminder before its due date
// @Tags instruments
// @Accept json
// @Produce json
// @Param instrument body dto.RegisterInstrumentRequest true "Instrument"
// @Success 201 {object} dto.OperationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /instruments [post]
func (h *instrumentHandler) registerInstrument(c *gin.Context) {
	userID, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.RegisterInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	instrument, err := req.ToDomain()
	if err != nil {
		respondError(c, err, "Invalid instrument")
		return
	}

	res, err := h.instrumentService.RegisterInstrument(c.Request.Context(), instrument, userID)
	respondResult(c, res, err, http.StatusCreated, "Failed to register instrument")
}

// listInstruments godoc
// @Summary List instruments
// @Description Lists instruments. status also accepts the derived values overdue and upcoming.
// @Tags instruments
// @Produce json
// @Param direction query string false "incoming or outgoing"
// @Param status query string false "pending, cashed, endorsed, returned, cancelled, overdue, upcoming"
// @Param days query int false "Window for status=upcoming"
// @Param accountID query int false "Account ID"
// @Param dueFrom query string false "Due from (YYYY-MM-DD)"
// @Param dueTo query string false "Due to (YYYY-MM-DD)"
// @Param search query string false "Serial number, bank or drawer"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListInstrumentsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /instruments [get]
func (h *instrumentHandler) listInstruments(c *gin.Context) {
	var params dto.ListInstrumentsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	filter, err := params.ToDomain(h.upcomingDays)
	if err != nil {
		respondError(c, err, "Invalid query parameters")
		return
	}
	instruments, err := h.instrumentService.ListInstruments(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to list instruments")
		return
	}
	c.JSON(http.StatusOK, dto.ToListInstrumentsResponse(instruments, h.now(), h.upcomingDays))
}

// listUpcoming godoc
// @Summary Upcoming instruments
// @Description Pending instruments due within the next days
// @Tags instruments
// @Produce json
// @Param days query int false "Window in days"
// @Success 200 {object} dto.ListInstrumentsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /instruments/upcoming [get]
func (h *instrumentHandler) listUpcoming(c *gin.Context) {
	days := h.upcomingDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "days must be a non-negative integer"})
			return
		}
		days = n
	}
	instruments, err := h.instrumentService.ListUpcoming(c.Request.Context(), days)
	if err != nil {
		respondError(c, err, "Failed to list upcoming instruments")
		return
	}
	c.JSON(http.StatusOK, dto.ToListInstrumentsResponse(instruments, h.now(), days))
}

// listOverdue godoc
// @Summary Overdue instruments
// @Tags instruments
// @Produce json
// @Success 200 {object} dto.ListInstrumentsResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /instruments/overdue [get]
func (h *instrumentHandler) listOverdue(c *gin.Context) {
	instruments, err := h.instrumentService.ListOverdue(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list overdue instruments")
		return
	}
	c.JSON(http.StatusOK, dto.ToListInstrumentsResponse(instruments, h.now(), h.upcomingDays))
}

// getSummary godoc
// @Summary Instrument summary
// @Description Pending incoming/outgoing exposure, overdue, due this week and month, endorsed
// @Tags instruments
// @Produce json
// @Success 200 {object} domain.InstrumentSummary
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /instruments/summary [get]
func (h *instrumentHandler) getSummary(c *gin.Context) {
	summary, err := h.instrumentService.GetSummary(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to summarize instruments")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getInstrument godoc
// @Summary Get an instrument
// @Description Returns the instrument with its remaining amount, display status and history
// @Tags instruments
// @Produce json
// @Param instrumentID path int true "Instrument ID"
// @Success 200 {object} dto.InstrumentDetailResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid instrument ID"
// @Failure 404 {object} dto.ErrorResponse "Instrument not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /instruments/{instrumentID} [get]
func (h *instrumentHandler) getInstrument(c *gin.Context) {
	instrumentID, ok := pathID(c, "instrumentID")
	if !ok {
		return
	}
	detail, err := h.instrumentService.GetInstrument(c.Request.Context(), instrumentID)
	if err != nil {
		respondError(c, err, "Failed to retrieve instrument")
		return
	}
	c.JSON(http.StatusOK, dto.ToInstrumentDetailResponse(detail, h.now()))
}

// updateInstrument godoc
// @Summary Update instrument details
// @Description Edits non-financial details of a pending instrument
// @Tags instruments
// @Accept json
// @Produce json
// @Param instrumentID path int true "Instrument ID"
// @Param instrument body dto.UpdateInstrumentRequest true "Fields to update"
// @Success 200 {object} dto.InstrumentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Instrument not found"
// @Failure 409 {object} dto.ErrorResponse "Instrument already processed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /instruments/{instrumentID} [patch]
func (h *instrumentHandler) updateInstrument(c *gin.Context) {
	userID, ok := requireActor(c)
	if !ok {
		return
	}
	instrumentID, ok := pathID(c, "instrumentID")
	if !ok {
		return
	}
	var req dto.UpdateInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	updated, err := h.instrumentService.UpdateInstrument(c.Request.Context(), instrumentID, req.ToDomain(), userID)
	if err != nil {
		respondError(c, err, "Failed to update instrument")
		return
	}
	c.JSON(http.StatusOK, dto.ToInstrumentResponse(*updated, h.now(), h.upcomingDays))
}

// listTransactions godoc
// @Summary Instrument history
// @Tags instruments
// @Produce json
// @Param instrumentID path int true "Instrument ID"
// @Success 200 {array} dto.InstrumentTransactionResponse
// @Failure 404 {object} dto.ErrorResponse "Instrument not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /instruments/{instrumentID}/transactions [get]
func (h *instrumentHandler) listTransactions(c *gin.Context) {
	instrumentID, ok := pathID(c, "instrumentID")
	if !ok {
		return
	}
	txns, err := h.instrumentService.ListInstrumentTransactions(c.Request.Context(), instrumentID)
	if err != nil {
		respondError(c, err, "Failed to list instrument transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToInstrumentTransactionResponses(txns))
}

// settle godoc
// @Summary Settle an instrument
// @Description Applies a settlement mode (cashed, partial, returned, cancelled) in one database transaction
// @Tags settlement
// @Accept json
// @Produce json
// @Param instrumentID path int true "Instrument ID"
// @Param settlement body dto.SettleRequest true "Settlement"
// @Success 200 {object} dto.OperationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Instrument not found"
// @Failure 409 {object} dto.ErrorResponse "Instrument already processed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /instruments/{instrumentID}/settle [post]
func (h *instrumentHandler) settle(c *gin.Context) {
	userID, ok := requireActor(c)
	if !ok {
		return
	}
	instrumentID, ok := pathID(c, "instrumentID")
	if !ok {
		return
	}
	var req dto.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	mode, err := req.ToDomain()
	if err != nil {
		respondError(c, err, "Invalid settlement mode")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Settling instrument",
		slog.Int64("instrument_id", instrumentID), slog.String("mode", string(mode)))
	res, err := h.settlementService.Settle(c.Request.Context(), instrumentID, mode, req.Amount, req.Description, userID)
	respondResult(c, res, err, http.StatusOK, "Failed to settle instrument")
}

// collect godoc
// @Summary Collect an instrument in full
// @Tags settlement
// @Accept json
// @Produce json
// @Param instrumentID path int true "Instrument ID"
// @Param note body dto.SettlementNoteRequest false "Description"
// @Success 200 {object} dto.OperationResponse
// @Failure 404 {object} dto.ErrorResponse "Instrument not found"
// @Failure 409 {object} dto.ErrorResponse "Instrument already processed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /instruments/{instrumentID}/collect [post]
func (h *instrumentHandler) collect(c *gin.Context) {
	userID, instrumentID, note, ok := h.bindSettlementNote(c)
	if !ok {
		return
	}
	res, err := h.settlementService.CollectInstrument(c.Request.Context(), instrumentID, note.Description, userID)
	respondResult(c, res, err, http.StatusOK, "Failed to collect instrument")
}

// partialCollect godoc
// @Summary Collect part of an instrument
// @Description Amounts above the remaining balance are clamped. Reaching the full amount marks the instrument cashed.
// @Tags settlement
// @Accept json
// @Produce json
// @Param instrumentID path int true "Instrument ID"
// @Param payment body dto.PartialCollectRequest true "Payment"
// @Success 200 {object} dto.OperationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Instrument not found"
// @Failure 409 {object} dto.ErrorResponse "Instrument already processed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /instruments/{instrumentID}/partial [post]
func (h *instrumentHandler) partialCollect(c *gin.Context) {
	userID, ok := requireActor(c)
	if !ok {
		return
	}
	instrumentID, ok := pathID(c, "instrumentID")
	if !ok {
		return
	}
	var req dto.PartialCollectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	res, err := h.settlementService.PartiallyCollect(c.Request.Context(), instrumentID, *req.Amount, req.Description, userID)
	respondResult(c, res, err, http.StatusOK, "Failed to record partial payment")
}

// returnInstrument godoc
// @Summary Return (bounce) an instrument
// @Description Marks a pending instrument returned. Collected amounts of an incoming instrument are reversed.
// @Tags settlement
// @Accept json
// @Produce json
// @Param instrumentID path int true "Instrument ID"
// @Param note body dto.SettlementNoteRequest false "Description"
// @Success 200 {object} dto.OperationResponse
// @Failure 404 {object} dto.ErrorResponse "Instrument not found"
// @Failure 409 {object} dto.ErrorResponse "Instrument already processed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /instruments/{instrumentID}/return [post]
func (h *instrumentHandler) returnInstrument(c *gin.Context) {
	userID, instrumentID, note, ok := h.bindSettlementNote(c)
	if !ok {
		return
	}
	res, err := h.settlementService.ReturnInstrument(c.Request.Context(), instrumentID, note.Description, userID)
	respondResult(c, res, err, http.StatusOK, "Failed to return instrument")
}

// cancel godoc
// @Summary Cancel an instrument
// @Description Cancels a pending instrument. Partial payments already collected are not reversed.
// @Tags settlement
// @Accept json
// @Produce json
// @Param instrumentID path int true "Instrument ID"
// @Param note body dto.SettlementNoteRequest false "Description"
// @Success 200 {object} dto.OperationResponse
// @Failure 404 {object} dto.ErrorResponse "Instrument not found"
// @Failure 409 {object} dto.ErrorResponse "Instrument already processed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /instruments/{instrumentID}/cancel [post]
func (h *instrumentHandler) cancel(c *gin.Context) {
	userID, instrumentID, note, ok := h.bindSettlementNote(c)
	if !ok {
		return
	}
	res, err := h.settlementService.CancelInstrument(c.Request.Context(), instrumentID, note.Description, userID)
	respondResult(c, res, err, http.StatusOK, "Failed to cancel instrument")
}

// endorse godoc
// @Summary Endorse an incoming instrument
// @Tags settlement
// @Accept json
// @Produce json
// @Param instrumentID path int true "Instrument ID"
// @Param endorsement body dto.EndorseRequest true "Endorsement"
// @Success 200 {object} dto.OperationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Instrument not found"
// @Failure 409 {object} dto.ErrorResponse "Instrument already processed or outgoing"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /instruments/{instrumentID}/endorse [post]
func (h *instrumentHandler) endorse(c *gin.Context) {
	userID, ok := requireActor(c)
	if !ok {
		return
	}
	instrumentID, ok := pathID(c, "instrumentID")
	if !ok {
		return
	}
	var req dto.EndorseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	endorsement, err := req.ToDomain()
	if err != nil {
		respondError(c, err, "Invalid endorsement")
		return
	}
	res, err := h.settlementService.EndorseInstrument(c.Request.Context(), instrumentID, endorsement, req.Description, userID)
	respondResult(c, res, err, http.StatusOK, "Failed to endorse instrument")
}

// bindSettlementNote reads the actor, the path id and the optional body.
func (h *instrumentHandler) bindSettlementNote(c *gin.Context) (string, int64, dto.SettlementNoteRequest, bool) {
	var note dto.SettlementNoteRequest
	userID, ok := requireActor(c)
	if !ok {
		return "", 0, note, false
	}
	instrumentID, ok := pathID(c, "instrumentID")
	if !ok {
		return "", 0, note, false
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&note); err != nil {
			badRequest(c, "Invalid request body", err)
			return "", 0, note, false
		}
	}
	return userID, instrumentID, note, true
}
