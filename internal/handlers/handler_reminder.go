package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/gin-gonic/gin"
)

type reminderHandler struct {
	reminderService portssvc.ReminderSvcFacade
}

func newReminderHandler(rs portssvc.ReminderSvcFacade) *reminderHandler {
	return &reminderHandler{reminderService: rs}
}

// registerReminderRoutes registers the reminder scheduler routes.
func registerReminderRoutes(rg *gin.RouterGroup, reminderService portssvc.ReminderSvcFacade) {
	h := newReminderHandler(reminderService)

	reminders := rg.Group("/reminders")
	{
		reminders.POST("", h.createReminder)
		reminders.GET("", h.listReminders)
		reminders.GET("/due", h.listDue)
		reminders.GET("/summary", h.getSummary)
		reminders.GET("/:reminderID", h.getReminder)
		reminders.PATCH("/:reminderID", h.updateReminder)
		reminders.DELETE("/:reminderID", h.deleteReminder)
		reminders.POST("/:reminderID/snooze", h.snoozeReminder)
		reminders.POST("/:reminderID/resolve", h.resolveReminder)
	}
}

// createReminder godoc
// @Summary Create a reminder
// @Tags reminders
// @Accept json
// @Produce json
// @Param reminder body dto.CreateReminderRequest true "Reminder"
// @Success 201 {object} dto.ReminderResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /reminders [post]
func (h *reminderHandler) createReminder(c *gin.Context) {
	userID, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	reminder, err := req.ToDomain()
	if err != nil {
		respondError(c, err, "Invalid reminder")
		return
	}
	created, err := h.reminderService.CreateReminder(c.Request.Context(), reminder, userID)
	if err != nil {
		respondError(c, err, "Failed to create reminder")
		return
	}
	c.JSON(http.StatusCreated, dto.ToReminderResponse(*created))
}

// listReminders godoc
// @Summary List reminders
// @Tags reminders
// @Produce json
// @Param status query string false "pending or completed"
// @Param kind query string false "general, instrument, payment, meeting, task"
// @Param priority query string false "low, normal, high, urgent"
// @Param accountID query int false "Related account"
// @Param instrumentID query int false "Related instrument"
// @Param dueFrom query string false "Due from (YYYY-MM-DD)"
// @Param dueTo query string false "Due to (YYYY-MM-DD)"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListRemindersResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /reminders [get]
func (h *reminderHandler) listReminders(c *gin.Context) {
	var params dto.ListRemindersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	filter, err := params.ToDomain()
	if err != nil {
		respondError(c, err, "Invalid query parameters")
		return
	}
	reminders, err := h.reminderService.ListReminders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to list reminders")
		return
	}
	c.JSON(http.StatusOK, dto.ToListRemindersResponse(reminders))
}

// listDue godoc
// @Summary Due reminders
// @Description Pending, non-snoozed reminders grouped into overdue, today, tomorrow and upcoming
// @Tags reminders
// @Produce json
// @Param kind query string false "Reminder kind"
// @Param priority query string false "Priority"
// @Success 200 {object} dto.DueRemindersResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /reminders/due [get]
func (h *reminderHandler) listDue(c *gin.Context) {
	var params dto.ListRemindersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	filter, err := params.ToDomain()
	if err != nil {
		respondError(c, err, "Invalid query parameters")
		return
	}
	list, err := h.reminderService.ListDue(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to list due reminders")
		return
	}
	c.JSON(http.StatusOK, dto.ToDueRemindersResponse(list))
}

// getSummary godoc
// @Summary Reminder counts
// @Tags reminders
// @Produce json
// @Success 200 {object} domain.ReminderSummary
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /reminders/summary [get]
func (h *reminderHandler) getSummary(c *gin.Context) {
	summary, err := h.reminderService.GetSummary(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to summarize reminders")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// getReminder godoc
// @Summary Get a reminder
// @Tags reminders
// @Produce json
// @Param reminderID path int true "Reminder ID"
// @Success 200 {object} dto.ReminderResponse
// @Failure 404 {object} dto.ErrorResponse "Reminder not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /reminders/{reminderID} [get]
func (h *reminderHandler) getReminder(c *gin.Context) {
	reminderID, ok := pathID(c, "reminderID")
	if !ok {
		return
	}
	reminder, err := h.reminderService.GetReminder(c.Request.Context(), reminderID)
	if err != nil {
		respondError(c, err, "Failed to retrieve reminder")
		return
	}
	c.JSON(http.StatusOK, dto.ToReminderResponse(*reminder))
}

// updateReminder godoc
// @Summary Update a reminder
// @Tags reminders
// @Accept json
// @Produce json
// @Param reminderID path int true "Reminder ID"
// @Param reminder body dto.UpdateReminderRequest true "Fields to update"
// @Success 200 {object} dto.ReminderResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Reminder not found"
// @Failure 409 {object} dto.ErrorResponse "Reminder already completed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /reminders/{reminderID} [patch]
func (h *reminderHandler) updateReminder(c *gin.Context) {
	userID, ok := requireActor(c)
	if !ok {
		return
	}
	reminderID, ok := pathID(c, "reminderID")
	if !ok {
		return
	}
	var req dto.UpdateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	patch, err := req.ToDomain()
	if err != nil {
		respondError(c, err, "Invalid reminder update")
		return
	}
	updated, err := h.reminderService.UpdateReminder(c.Request.Context(), reminderID, patch, userID)
	if err != nil {
		respondError(c, err, "Failed to update reminder")
		return
	}
	c.JSON(http.StatusOK, dto.ToReminderResponse(*updated))
}

// deleteReminder godoc
// @Summary Delete a reminder
// @Tags reminders
// @Param reminderID path int true "Reminder ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Reminder not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /reminders/{reminderID} [delete]
func (h *reminderHandler) deleteReminder(c *gin.Context) {
	userID, ok := requireActor(c)
	if !ok {
		return
	}
	reminderID, ok := pathID(c, "reminderID")
	if !ok {
		return
	}
	if err := h.reminderService.DeleteReminder(c.Request.Context(), reminderID, userID); err != nil {
		respondError(c, err, "Failed to delete reminder")
		return
	}
	c.Status(http.StatusNoContent)
}

// snoozeReminder godoc
// @Summary Snooze a reminder
// @Description Hides a pending reminder from due lists until the given time
// @Tags reminders
// @Accept json
// @Param reminderID path int true "Reminder ID"
// @Param snooze body dto.SnoozeReminderRequest true "Snooze until (RFC 3339)"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Reminder not found"
// @Failure 409 {object} dto.ErrorResponse "Reminder already completed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /reminders/{reminderID}/snooze [post]
func (h *reminderHandler) snoozeReminder(c *gin.Context) {
	userID, ok := requireActor(c)
	if !ok {
		return
	}
	reminderID, ok := pathID(c, "reminderID")
	if !ok {
		return
	}
	var req dto.SnoozeReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	if err := h.reminderService.SnoozeReminder(c.Request.Context(), reminderID, req.Until, userID); err != nil {
		respondError(c, err, "Failed to snooze reminder")
		return
	}
	c.Status(http.StatusNoContent)
}

// resolveReminder godoc
// @Summary Resolve a reminder
// @Description Completes a reminder. A recurring reminder gets its next occurrence scheduled.
// @Tags reminders
// @Produce json
// @Param reminderID path int true "Reminder ID"
// @Success 200 {object} dto.OperationResponse
// @Failure 404 {object} dto.ErrorResponse "Reminder not found"
// @Failure 409 {object} dto.ErrorResponse "Reminder already completed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /reminders/{reminderID}/resolve [post]
func (h *reminderHandler) resolveReminder(c *gin.Context) {
	userID, ok := requireActor(c)
	if !ok {
		return
	}
	reminderID, ok := pathID(c, "reminderID")
	if !ok {
		return
	}
	res, err := h.reminderService.ResolveReminder(c.Request.Context(), reminderID, userID)
	respondResult(c, res, err, http.StatusOK, "Failed to resolve reminder")
}
