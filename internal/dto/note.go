package dto

import (
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
)

// CreateNoteRequest defines a note, optionally a task.
type CreateNoteRequest struct {
	Title            string  `json:"title" binding:"required,max=255"`
	Content          string  `json:"content"`
	Category         string  `json:"category" binding:"max=100"`
	Color            string  `json:"color" binding:"max=20"`
	IsPinned         bool    `json:"isPinned"`
	IsTask           bool    `json:"isTask"`
	TaskPriority     string  `json:"taskPriority" binding:"omitempty,bk_enum=priority"`
	TaskDueDate      *string `json:"taskDueDate" binding:"omitempty,datetime=2006-01-02"`
	RelatedAccountID *int64  `json:"relatedAccountID" binding:"omitempty,min=1"`
}

func (r CreateNoteRequest) ToDomain() (domain.Note, error) {
	n := domain.Note{
		Title:            r.Title,
		Content:          r.Content,
		Category:         r.Category,
		Color:            r.Color,
		IsPinned:         r.IsPinned,
		IsTask:           r.IsTask,
		RelatedAccountID: r.RelatedAccountID,
	}
	var err error
	if r.TaskPriority != "" {
		if n.TaskPriority, err = domain.ParsePriority(r.TaskPriority); err != nil {
			return domain.Note{}, err
		}
	}
	if n.TaskDueDate, err = parseOptionalDatePtr("taskDueDate", r.TaskDueDate); err != nil {
		return domain.Note{}, err
	}
	return n, nil
}

// UpdateNoteRequest defines the mutable note fields.
type UpdateNoteRequest struct {
	Title        *string `json:"title" binding:"omitempty,max=255"`
	Content      *string `json:"content"`
	Category     *string `json:"category"`
	Color        *string `json:"color"`
	IsPinned     *bool   `json:"isPinned"`
	IsArchived   *bool   `json:"isArchived"`
	IsTask       *bool   `json:"isTask"`
	TaskPriority *string `json:"taskPriority" binding:"omitempty,bk_enum=priority"`
	TaskDueDate  *string `json:"taskDueDate" binding:"omitempty,datetime=2006-01-02"`
}

func (r UpdateNoteRequest) ToDomain() (domain.NotePatch, error) {
	patch := domain.NotePatch{
		Title:      r.Title,
		Content:    r.Content,
		Category:   r.Category,
		Color:      r.Color,
		IsPinned:   r.IsPinned,
		IsArchived: r.IsArchived,
		IsTask:     r.IsTask,
	}
	var err error
	if patch.TaskPriority, err = enumPtr(deref(r.TaskPriority), domain.ParsePriority); err != nil {
		return domain.NotePatch{}, err
	}
	if patch.TaskDueDate, err = parseOptionalDatePtr("taskDueDate", r.TaskDueDate); err != nil {
		return domain.NotePatch{}, err
	}
	return patch, nil
}

// ListNotesParams defines query parameters for listing notes.
type ListNotesParams struct {
	TasksOnly       bool   `form:"tasksOnly"`
	IncludeArchived bool   `form:"includeArchived"`
	Category        string `form:"category"`
	Search          string `form:"search"`
	PageParams
}

func (p ListNotesParams) ToDomain() domain.NoteFilter {
	return domain.NoteFilter{
		TasksOnly:       p.TasksOnly,
		IncludeArchived: p.IncludeArchived,
		Category:        p.Category,
		Search:          p.Search,
		Page:            p.toDomain(),
	}
}

// NoteResponse defines the data returned for a note.
type NoteResponse struct {
	NoteID           int64             `json:"noteID"`
	Title            string            `json:"title"`
	Content          string            `json:"content"`
	Category         string            `json:"category"`
	Color            string            `json:"color"`
	IsPinned         bool              `json:"isPinned"`
	IsArchived       bool              `json:"isArchived"`
	IsTask           bool              `json:"isTask"`
	TaskStatus       domain.TaskStatus `json:"taskStatus"`
	TaskPriority     domain.Priority   `json:"taskPriority"`
	TaskDueDate      *string           `json:"taskDueDate,omitempty"`
	TaskCompletedAt  *time.Time        `json:"taskCompletedAt,omitempty"`
	RelatedAccountID *int64            `json:"relatedAccountID,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	LastUpdatedAt    time.Time         `json:"lastUpdatedAt"`
}

func ToNoteResponse(n *domain.Note) NoteResponse {
	return NoteResponse{
		NoteID:           n.NoteID,
		Title:            n.Title,
		Content:          n.Content,
		Category:         n.Category,
		Color:            n.Color,
		IsPinned:         n.IsPinned,
		IsArchived:       n.IsArchived,
		IsTask:           n.IsTask,
		TaskStatus:       n.TaskStatus,
		TaskPriority:     n.TaskPriority,
		TaskDueDate:      formatDatePtr(n.TaskDueDate),
		TaskCompletedAt:  n.TaskCompletedAt,
		RelatedAccountID: n.RelatedAccountID,
		CreatedAt:        n.CreatedAt,
		LastUpdatedAt:    n.LastUpdatedAt,
	}
}

// ListNotesResponse wraps a list of notes.
type ListNotesResponse struct {
	Notes []NoteResponse `json:"notes"`
}

func ToListNotesResponse(notes []domain.Note) ListNotesResponse {
	res := ListNotesResponse{Notes: make([]NoteResponse, len(notes))}
	for i := range notes {
		res.Notes[i] = ToNoteResponse(&notes[i])
	}
	return res
}
