package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/SscSPs/bookkeeping_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler holds dependencies for account handlers
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	ledgerService  portssvc.LedgerSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, ls portssvc.LedgerSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
		ledgerService:  ls,
	}
}

// registerAccountRoutes registers account CRUD and the account ledger routes.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := newAccountHandler(accountService, ledgerService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.POST("/import", h.importAccounts)
		accounts.GET("/:accountID", h.getAccount)
		accounts.PATCH("/:accountID", h.updateAccount)
		accounts.DELETE("/:accountID", h.deactivateAccount)

		accounts.POST("/:accountID/transactions", h.postTransaction)
		accounts.GET("/:accountID/transactions", h.listTransactions)
		accounts.GET("/:accountID/statement", h.getStatement)
		accounts.GET("/:accountID/reconcile", h.reconcile)
	}
}

// createAccount godoc
// @Summary Create a new account
// @Description Creates a customer or vendor account. A non-zero opening balance is posted to the ledger.
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireActor(c)
	if !ok {
		return
	}

	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	account, err := req.ToDomain()
	if err != nil {
		respondError(c, err, "Invalid account")
		return
	}

	created, err := h.accountService.CreateAccount(c.Request.Context(), account, userID)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.Int64("account_id", created.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(created))
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists accounts with their pending instrument totals
// @Tags accounts
// @Produce json
// @Param kind query string false "customer, vendor or both"
// @Param activeOnly query bool false "Only active accounts" default(true)
// @Param search query string false "Name, phone, email or tax number"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	filter, err := params.ToDomain()
	if err != nil {
		respondError(c, err, "Invalid query parameters")
		return
	}

	rows, err := h.accountService.ListAccounts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountsResponse(rows))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce json
// @Param accountID path int true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid account ID"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	accountID, ok := pathID(c, "accountID")
	if !ok {
		return
	}
	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// updateAccount godoc
// @Summary Update an account
// @Description Applies a partial update. The balance only moves through ledger postings.
// @Tags accounts
// @Accept json
// @Produce json
// @Param accountID path int true "Account ID"
// @Param account body dto.UpdateAccountRequest true "Fields to update"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /accounts/{accountID} [patch]
func (h *accountHandler) updateAccount(c *gin.Context) {
	userID, ok := requireActor(c)
	if !ok {
		return
	}
	accountID, ok := pathID(c, "accountID")
	if !ok {
		return
	}

	var req dto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	patch, err := req.ToDomain()
	if err != nil {
		respondError(c, err, "Invalid account update")
		return
	}

	updated, err := h.accountService.UpdateAccount(c.Request.Context(), accountID, patch, userID)
	if err != nil {
		respondError(c, err, "Failed to update account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(updated))
}

// deactivateAccount godoc
// @Summary Deactivate an account
// @Description Marks an account as inactive (soft delete)
// @Tags accounts
// @Param accountID path int true "Account ID"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse "Invalid account ID"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /accounts/{accountID} [delete]
func (h *accountHandler) deactivateAccount(c *gin.Context) {
	userID, ok := requireActor(c)
	if !ok {
		return
	}
	accountID, ok := pathID(c, "accountID")
	if !ok {
		return
	}
	if err := h.accountService.DeactivateAccount(c.Request.Context(), accountID, userID); err != nil {
		respondError(c, err, "Failed to deactivate account")
		return
	}
	c.Status(http.StatusNoContent)
}

// importAccounts godoc
// @Summary Import accounts from CSV
// @Description Uploads a CSV of accounts. UTF-8, UTF-16 and Turkish single-byte encodings are detected.
// @Tags accounts
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} domain.ImportResult
// @Failure 400 {object} dto.ErrorResponse "Invalid file"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /accounts/import [post]
func (h *accountHandler) importAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireActor(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "CSV file is required", err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		badRequest(c, "Could not read uploaded file", err)
		return
	}
	defer file.Close()

	result, err := h.accountService.ImportAccounts(c.Request.Context(), file, userID)
	if err != nil {
		respondError(c, err, "Failed to import accounts")
		return
	}

	logger.Info("Accounts imported",
		slog.String("filename", fileHeader.Filename),
		slog.String("encoding", result.Encoding),
		slog.Int("imported", result.Imported),
		slog.Int("skipped", result.Skipped),
	)
	c.JSON(http.StatusOK, result)
}
