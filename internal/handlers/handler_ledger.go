package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/SscSPs/bookkeeping_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// postTransaction godoc
// @Summary Post a manual ledger transaction
// @Description Posts a signed amount to an account ledger. Positive amounts raise the balance (credit), negative amounts lower it (debit).
// @Tags ledger
// @Accept json
// @Produce json
// @Param accountID path int true "Account ID"
// @Param posting body dto.CreatePostingRequest true "Posting"
// @Success 201 {object} dto.OperationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /accounts/{accountID}/transactions [post]
func (h *accountHandler) postTransaction(c *gin.Context) {
	userID, ok := requireActor(c)
	if !ok {
		return
	}
	accountID, ok := pathID(c, "accountID")
	if !ok {
		return
	}

	var req dto.CreatePostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	posting, err := req.ToDomain(accountID)
	if err != nil {
		respondError(c, err, "Invalid posting")
		return
	}

	res, err := h.ledgerService.ApplyAccountTransaction(c.Request.Context(), posting, userID)
	respondResult(c, res, err, http.StatusCreated, "Failed to post transaction")
}

// listTransactions godoc
// @Summary List account transactions
// @Description Pages through an account's ledger in date order. Pass nextToken from the previous page to continue.
// @Tags ledger
// @Produce json
// @Param accountID path int true "Account ID"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param limit query int false "Page size" default(50)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /accounts/{accountID}/transactions [get]
func (h *accountHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := pathID(c, "accountID")
	if !ok {
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	rng, err := params.DateRangeParams.ToDomain()
	if err != nil {
		respondError(c, err, "Invalid date range")
		return
	}

	txns, next, err := h.ledgerService.ListTransactions(c.Request.Context(), accountID, rng, params.NextToken, params.Limit)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}

	logger.Debug("Listed account transactions", slog.Int64("account_id", accountID), slog.Int("count", len(txns)))
	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(txns, next))
}

// getStatement godoc
// @Summary Account statement
// @Description Returns the opening balance, the in-range transactions and their totals
// @Tags ledger
// @Produce json
// @Param accountID path int true "Account ID"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.StatementResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /accounts/{accountID}/statement [get]
func (h *accountHandler) getStatement(c *gin.Context) {
	accountID, ok := pathID(c, "accountID")
	if !ok {
		return
	}

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

	st, err := h.ledgerService.GetStatement(c.Request.Context(), accountID, rng)
	if err != nil {
		respondError(c, err, "Failed to build statement")
		return
	}
	c.JSON(http.StatusOK, dto.ToStatementResponse(st))
}

// reconcile godoc
// @Summary Reconcile an account balance
// @Description Replays the stored ledger from zero and compares it with the stored balance
// @Tags ledger
// @Produce json
// @Param accountID path int true "Account ID"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /accounts/{accountID}/reconcile [get]
func (h *accountHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := pathID(c, "accountID")
	if !ok {
		return
	}

	rec, err := h.ledgerService.ReconcileAccount(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err, "Failed to reconcile account")
		return
	}
	if !rec.Consistent() {
		logger.Warn("Ledger drift detected",
			slog.Int64("account_id", accountID),
			slog.String("stored", rec.StoredBalance.String()),
			slog.String("replayed", rec.ReplayedBalance.String()),
		)
	}
	c.JSON(http.StatusOK, dto.ToReconciliationResponse(rec))
}
