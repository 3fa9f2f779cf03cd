package dto

import (
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
)

// CreateReminderRequest defines the data needed to create a reminder.
type CreateReminderRequest struct {
	Title               string  `json:"title" binding:"required,max=255"`
	Description         string  `json:"description"`
	Kind                string  `json:"kind" binding:"omitempty,bk_enum=reminder_kind"`
	Priority            string  `json:"priority" binding:"omitempty,bk_enum=priority"`
	DueDate             string  `json:"dueDate" binding:"required,datetime=2006-01-02"`
	IsRecurring         bool    `json:"isRecurring"`
	RecurrenceKind      string  `json:"recurrenceKind" binding:"omitempty,bk_enum=recurrence_kind"`
	RecurrenceInterval  int     `json:"recurrenceInterval" binding:"min=0"`
	RecurrenceEndDate   *string `json:"recurrenceEndDate" binding:"omitempty,datetime=2006-01-02"`
	RelatedAccountID    *int64  `json:"relatedAccountID" binding:"omitempty,min=1"`
	RelatedInstrumentID *int64  `json:"relatedInstrumentID" binding:"omitempty,min=1"`
}

// ToDomain converts the request into a domain.Reminder. Unset kind and
// priority are defaulted by the service.
func (r CreateReminderRequest) ToDomain() (domain.Reminder, error) {
	rem := domain.Reminder{
		Title:               r.Title,
		Description:         r.Description,
		IsRecurring:         r.IsRecurring,
		RecurrenceInterval:  r.RecurrenceInterval,
		RelatedAccountID:    r.RelatedAccountID,
		RelatedInstrumentID: r.RelatedInstrumentID,
	}
	var err error
	if r.Kind != "" {
		if rem.Kind, err = domain.ParseReminderKind(r.Kind); err != nil {
			return domain.Reminder{}, err
		}
	}
	if r.Priority != "" {
		if rem.Priority, err = domain.ParsePriority(r.Priority); err != nil {
			return domain.Reminder{}, err
		}
	}
	if rem.RecurrenceKind, err = enumPtr(r.RecurrenceKind, domain.ParseRecurrenceKind); err != nil {
		return domain.Reminder{}, err
	}
	if rem.DueDate, err = parseOptionalDate("dueDate", r.DueDate); err != nil {
		return domain.Reminder{}, err
	}
	if rem.RecurrenceEndDate, err = parseOptionalDatePtr("recurrenceEndDate", r.RecurrenceEndDate); err != nil {
		return domain.Reminder{}, err
	}
	return rem, nil
}

// UpdateReminderRequest defines the mutable reminder fields.
type UpdateReminderRequest struct {
	Title              *string `json:"title" binding:"omitempty,max=255"`
	Description        *string `json:"description"`
	Kind               *string `json:"kind" binding:"omitempty,bk_enum=reminder_kind"`
	Priority           *string `json:"priority" binding:"omitempty,bk_enum=priority"`
	DueDate            *string `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
	IsRecurring        *bool   `json:"isRecurring"`
	RecurrenceKind     *string `json:"recurrenceKind" binding:"omitempty,bk_enum=recurrence_kind"`
	RecurrenceInterval *int    `json:"recurrenceInterval" binding:"omitempty,min=1"`
	RecurrenceEndDate  *string `json:"recurrenceEndDate" binding:"omitempty,datetime=2006-01-02"`
}

func (r UpdateReminderRequest) ToDomain() (domain.ReminderPatch, error) {
	patch := domain.ReminderPatch{
		Title:              r.Title,
		Description:        r.Description,
		IsRecurring:        r.IsRecurring,
		RecurrenceInterval: r.RecurrenceInterval,
	}
	var err error
	if patch.Kind, err = enumPtr(deref(r.Kind), domain.ParseReminderKind); err != nil {
		return domain.ReminderPatch{}, err
	}
	if patch.Priority, err = enumPtr(deref(r.Priority), domain.ParsePriority); err != nil {
		return domain.ReminderPatch{}, err
	}
	if patch.RecurrenceKind, err = enumPtr(deref(r.RecurrenceKind), domain.ParseRecurrenceKind); err != nil {
		return domain.ReminderPatch{}, err
	}
	if patch.DueDate, err = parseOptionalDatePtr("dueDate", r.DueDate); err != nil {
		return domain.ReminderPatch{}, err
	}
	if patch.RecurrenceEndDate, err = parseOptionalDatePtr("recurrenceEndDate", r.RecurrenceEndDate); err != nil {
		return domain.ReminderPatch{}, err
	}
	return patch, nil
}

// SnoozeReminderRequest hides a reminder until the given instant.
type SnoozeReminderRequest struct {
	Until time.Time `json:"until" binding:"required"`
}

// ListRemindersParams defines query parameters for listing reminders.
type ListRemindersParams struct {
	Status       string `form:"status" binding:"omitempty,bk_enum=reminder_status"`
	Kind         string `form:"kind" binding:"omitempty,bk_enum=reminder_kind"`
	Priority     string `form:"priority" binding:"omitempty,bk_enum=priority"`
	AccountID    *int64 `form:"accountID" binding:"omitempty,min=1"`
	InstrumentID *int64 `form:"instrumentID" binding:"omitempty,min=1"`
	DueFrom      string `form:"dueFrom" binding:"omitempty,datetime=2006-01-02"`
	DueTo        string `form:"dueTo" binding:"omitempty,datetime=2006-01-02"`
	PageParams
}

func (p ListRemindersParams) ToDomain() (domain.ReminderFilter, error) {
	var (
		f   domain.ReminderFilter
		err error
	)
	if f.Status, err = enumPtr(p.Status, domain.ParseReminderStatus); err != nil {
		return f, err
	}
	if f.Kind, err = enumPtr(p.Kind, domain.ParseReminderKind); err != nil {
		return f, err
	}
	if f.Priority, err = enumPtr(p.Priority, domain.ParsePriority); err != nil {
		return f, err
	}
	if f.Due, err = (DateRangeParams{From: p.DueFrom, To: p.DueTo}).ToDomain(); err != nil {
		return f, err
	}
	f.AccountID = p.AccountID
	f.InstrumentID = p.InstrumentID
	f.Page = p.toDomain()
	return f, nil
}

// ReminderResponse defines the data returned for a reminder.
type ReminderResponse struct {
	ReminderID          int64                  `json:"reminderID"`
	Title               string                 `json:"title"`
	Description         string                 `json:"description"`
	Kind                domain.ReminderKind    `json:"kind"`
	Priority            domain.Priority        `json:"priority"`
	DueDate             string                 `json:"dueDate"`
	Status              domain.ReminderStatus  `json:"status"`
	IsRecurring         bool                   `json:"isRecurring"`
	RecurrenceKind      *domain.RecurrenceKind `json:"recurrenceKind,omitempty"`
	RecurrenceInterval  int                    `json:"recurrenceInterval"`
	RecurrenceEndDate   *string                `json:"recurrenceEndDate,omitempty"`
	RelatedAccountID    *int64                 `json:"relatedAccountID,omitempty"`
	RelatedInstrumentID *int64                 `json:"relatedInstrumentID,omitempty"`
	SnoozedUntil        *time.Time             `json:"snoozedUntil,omitempty"`
	CompletedAt         *time.Time             `json:"completedAt,omitempty"`
	CreatedAt           time.Time              `json:"createdAt"`
	CreatedBy           string                 `json:"createdBy"`
}

func ToReminderResponse(r domain.Reminder) ReminderResponse {
	return ReminderResponse{
		ReminderID:          r.ReminderID,
		Title:               r.Title,
		Description:         r.Description,
		Kind:                r.Kind,
		Priority:            r.Priority,
		DueDate:             r.DueDate.Format(DateLayout),
		Status:              r.Status,
		IsRecurring:         r.IsRecurring,
		RecurrenceKind:      r.RecurrenceKind,
		RecurrenceInterval:  r.RecurrenceInterval,
		RecurrenceEndDate:   formatDatePtr(r.RecurrenceEndDate),
		RelatedAccountID:    r.RelatedAccountID,
		RelatedInstrumentID: r.RelatedInstrumentID,
		SnoozedUntil:        r.SnoozedUntil,
		CompletedAt:         r.CompletedAt,
		CreatedAt:           r.CreatedAt,
		CreatedBy:           r.CreatedBy,
	}
}

func toReminderResponses(rs []domain.Reminder) []ReminderResponse {
	out := make([]ReminderResponse, len(rs))
	for i, r := range rs {
		out[i] = ToReminderResponse(r)
	}
	return out
}

// ListRemindersResponse wraps a list of reminders.
type ListRemindersResponse struct {
	Reminders []ReminderResponse `json:"reminders"`
}

func ToListRemindersResponse(rs []domain.Reminder) ListRemindersResponse {
	return ListRemindersResponse{Reminders: toReminderResponses(rs)}
}

// DueRemindersResponse groups pending reminders by urgency.
type DueRemindersResponse struct {
	Overdue  []ReminderResponse `json:"overdue"`
	Today    []ReminderResponse `json:"today"`
	Tomorrow []ReminderResponse `json:"tomorrow"`
	Upcoming []ReminderResponse `json:"upcoming"`
}

func ToDueRemindersResponse(list *domain.DueList) DueRemindersResponse {
	return DueRemindersResponse{
		Overdue:  toReminderResponses(list.Overdue),
		Today:    toReminderResponses(list.Today),
		Tomorrow: toReminderResponses(list.Tomorrow),
		Upcoming: toReminderResponses(list.Upcoming),
	}
}
