package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/dto"
	"github.com/gin-gonic/gin"
)

type noteHandler struct {
	noteService portssvc.NoteSvcFacade
}

func newNoteHandler(ns portssvc.NoteSvcFacade) *noteHandler {
	return &noteHandler{noteService: ns}
}

func registerNoteRoutes(rg *gin.RouterGroup, noteService portssvc.NoteSvcFacade) {
	h := newNoteHandler(noteService)

	notes := rg.Group("/notes")
	{
		notes.POST("", h.createNote)
		notes.GET("", h.listNotes)
		notes.GET("/:noteID", h.getNote)
		notes.PATCH("/:noteID", h.updateNote)
		notes.DELETE("/:noteID", h.deleteNote)
		notes.POST("/:noteID/complete", h.completeTask)
	}
}

// createNote godoc
// @Summary Create a note or task
// @Tags notes
// @Accept json
// @Produce json
// @Param note body dto.CreateNoteRequest true "Note"
// @Success 201 {object} dto.NoteResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /notes [post]
func (h *noteHandler) createNote(c *gin.Context) {
	userID, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	note, err := req.ToDomain()
	if err != nil {
		respondError(c, err, "Invalid note")
		return
	}
	created, err := h.noteService.CreateNote(c.Request.Context(), note, userID)
	if err != nil {
		respondError(c, err, "Failed to create note")
		return
	}
	c.JSON(http.StatusCreated, dto.ToNoteResponse(created))
}

// listNotes godoc
// @Summary List notes
// @Description Pinned notes come first
// @Tags notes
// @Produce json
// @Param tasksOnly query bool false "Only tasks"
// @Param includeArchived query bool false "Include archived notes"
// @Param category query string false "Category"
// @Param search query string false "Title or content"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListNotesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /notes [get]
func (h *noteHandler) listNotes(c *gin.Context) {
	var params dto.ListNotesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	notes, err := h.noteService.ListNotes(c.Request.Context(), params.ToDomain())
	if err != nil {
		respondError(c, err, "Failed to list notes")
		return
	}
	c.JSON(http.StatusOK, dto.ToListNotesResponse(notes))
}

// getNote godoc
// @Summary Get a note
// @Tags notes
// @Produce json
// @Param noteID path int true "Note ID"
// @Success 200 {object} dto.NoteResponse
// @Failure 404 {object} dto.ErrorResponse "Note not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /notes/{noteID} [get]
func (h *noteHandler) getNote(c *gin.Context) {
	noteID, ok := pathID(c, "noteID")
	if !ok {
		return
	}
	note, err := h.noteService.GetNote(c.Request.Context(), noteID)
	if err != nil {
		respondError(c, err, "Failed to retrieve note")
		return
	}
	c.JSON(http.StatusOK, dto.ToNoteResponse(note))
}

// updateNote godoc
// @Summary Update a note
// @Tags notes
// @Accept json
// @Produce json
// @Param noteID path int true "Note ID"
// @Param note body dto.UpdateNoteRequest true "Fields to update"
// @Success 200 {object} dto.NoteResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Note not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /notes/{noteID} [patch]
func (h *noteHandler) updateNote(c *gin.Context) {
	userID, ok := requireActor(c)
	if !ok {
		return
	}
	noteID, ok := pathID(c, "noteID")
	if !ok {
		return
	}
	var req dto.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	patch, err := req.ToDomain()
	if err != nil {
		respondError(c, err, "Invalid note update")
		return
	}
	updated, err := h.noteService.UpdateNote(c.Request.Context(), noteID, patch, userID)
	if err != nil {
		respondError(c, err, "Failed to update note")
		return
	}
	c.JSON(http.StatusOK, dto.ToNoteResponse(updated))
}

// deleteNote godoc
// @Summary Delete a note
// @Tags notes
// @Param noteID path int true "Note ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Note not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /notes/{noteID} [delete]
func (h *noteHandler) deleteNote(c *gin.Context) {
	userID, ok := requireActor(c)
	if !ok {
		return
	}
	noteID, ok := pathID(c, "noteID")
	if !ok {
		return
	}
	if err := h.noteService.DeleteNote(c.Request.Context(), noteID, userID); err != nil {
		respondError(c, err, "Failed to delete note")
		return
	}
	c.Status(http.StatusNoContent)
}

// completeTask godoc
// @Summary Complete a task
// @Tags notes
// @Produce json
// @Param noteID path int true "Note ID"
// @Success 200 {object} dto.NoteResponse
// @Failure 404 {object} dto.ErrorResponse "Note not found"
// @Failure 409 {object} dto.ErrorResponse "Not a pending task"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /notes/{noteID}/complete [post]
func (h *noteHandler) completeTask(c *gin.Context) {
	userID, ok := requireActor(c)
	if !ok {
		return
	}
	noteID, ok := pathID(c, "noteID")
	if !ok {
		return
	}
	note, err := h.noteService.CompleteTask(c.Request.Context(), noteID, userID)
	if err != nil {
		respondError(c, err, "Failed to complete task")
		return
	}
	c.JSON(http.StatusOK, dto.ToNoteResponse(note))
}
