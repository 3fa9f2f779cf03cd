package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
)

// TaskStatus tracks a note that is also a task.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
)

func (s TaskStatus) IsValid() bool { return s == TaskPending || s == TaskCompleted }

// Note is a free-form note, optionally a task with a due date.
type Note struct {
	NoteID           int64      `json:"noteID"`
	Title            string     `json:"title"`
	Content          string     `json:"content"`
	Category         string     `json:"category"`
	Color            string     `json:"color"`
	IsPinned         bool       `json:"isPinned"`
	IsArchived       bool       `json:"isArchived"`
	IsTask           bool       `json:"isTask"`
	TaskStatus       TaskStatus `json:"taskStatus"`
	TaskPriority     Priority   `json:"taskPriority"`
	TaskDueDate      *time.Time `json:"taskDueDate,omitempty"`
	TaskCompletedAt  *time.Time `json:"taskCompletedAt,omitempty"`
	RelatedAccountID *int64     `json:"relatedAccountID,omitempty"`
	AuditFields
}

func (n Note) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("%w: note title is required", apperrors.ErrValidation)
	}
	if !n.TaskStatus.IsValid() {
		return fmt.Errorf("%w: unknown task status %q", apperrors.ErrValidation, n.TaskStatus)
	}
	if !n.TaskPriority.IsValid() {
		return fmt.Errorf("%w: unknown priority %q", apperrors.ErrValidation, n.TaskPriority)
	}
	return nil
}

type NotePatch struct {
	Title        *string
	Content      *string
	Category     *string
	Color        *string
	IsPinned     *bool
	IsArchived   *bool
	IsTask       *bool
	TaskPriority *Priority
	TaskDueDate  *time.Time
}

func (p NotePatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Category == nil && p.Color == nil &&
		p.IsPinned == nil && p.IsArchived == nil && p.IsTask == nil &&
		p.TaskPriority == nil && p.TaskDueDate == nil
}

func (p NotePatch) Apply(n *Note) {
	setIf(&n.Title, p.Title)
	setIf(&n.Content, p.Content)
	setIf(&n.Category, p.Category)
	setIf(&n.Color, p.Color)
	setIf(&n.IsPinned, p.IsPinned)
	setIf(&n.IsArchived, p.IsArchived)
	setIf(&n.IsTask, p.IsTask)
	setIf(&n.TaskPriority, p.TaskPriority)
	if p.TaskDueDate != nil {
		d := DateOf(*p.TaskDueDate)
		n.TaskDueDate = &d
	}
}

type NoteFilter struct {
	TasksOnly       bool
	IncludeArchived bool
	Category        string
	Search          string
	Page            Page
}
