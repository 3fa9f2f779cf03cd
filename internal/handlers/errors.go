package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/SscSPs/bookkeeping_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error body. Server errors are logged and their
// details are not exposed.
func respondError(c *gin.Context, err error, failureMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(failureMsg, slog.String("error", err.Error()))
		c.JSON(status, dto.ErrorResponse{Error: failureMsg})
		return
	}
	logger.Warn(failureMsg, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, dto.ErrorResponse{Error: err.Error()})
}

// respondResult writes an OperationResult. Business failures use the status
// of their Reason with the result message as the error.
func respondResult(c *gin.Context, res domain.OperationResult, err error, successStatus int, failureMsg string) {
	if err != nil {
		respondError(c, err, failureMsg)
		return
	}
	if !res.Success {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Operation rejected", slog.String("reason", res.Message))
		c.JSON(statusFor(res.Reason), dto.ErrorResponse{Error: res.Message})
		return
	}
	c.JSON(successStatus, dto.ToOperationResponse(res))
}

// requireActor reads the authenticated user or aborts with 401.
func requireActor(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	return userID, true
}

// pathID parses a positive integer path parameter or aborts with 400.
func pathID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Invalid path id", slog.String("param", name), slog.String("value", raw))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid " + name})
		return 0, false
	}
	return id, true
}

func badRequest(c *gin.Context, msg string, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn(msg, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg + ": " + err.Error()})
}
