package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
)

type ReminderStatus string

const (
	ReminderPending   ReminderStatus = "pending"
	ReminderCompleted ReminderStatus = "completed"
)

func (s ReminderStatus) IsValid() bool { return s == ReminderPending || s == ReminderCompleted }

// ParseReminderStatus validates a raw reminder status.
func ParseReminderStatus(raw string) (ReminderStatus, error) {
	return parseEnum("reminder status", raw, ReminderStatus.IsValid)
}

// RecurrenceKind is the unit a recurring reminder advances by.
type RecurrenceKind string

const (
	RecurDaily   RecurrenceKind = "daily"
	RecurWeekly  RecurrenceKind = "weekly"
	RecurMonthly RecurrenceKind = "monthly"
	RecurYearly  RecurrenceKind = "yearly"
)

func (k RecurrenceKind) IsValid() bool {
	switch k {
	case RecurDaily, RecurWeekly, RecurMonthly, RecurYearly:
		return true
	}
	return false
}

// ParseRecurrenceKind validates a raw recurrence kind.
func ParseRecurrenceKind(raw string) (RecurrenceKind, error) {
	return parseEnum("recurrence kind", raw, RecurrenceKind.IsValid)
}

// days is the fixed day offset of one unit. Months and years are
// approximated as 30 and 365 days.
func (k RecurrenceKind) days() int {
	switch k {
	case RecurWeekly:
		return 7
	case RecurMonthly:
		return 30
	case RecurYearly:
		return 365
	default:
		return 1
	}
}

type ReminderKind string

const (
	ReminderGeneral    ReminderKind = "general"
	ReminderInstrument ReminderKind = "instrument"
	ReminderPayment    ReminderKind = "payment"
	ReminderMeeting    ReminderKind = "meeting"
	ReminderTask       ReminderKind = "task"
)

func (k ReminderKind) IsValid() bool {
	switch k {
	case ReminderGeneral, ReminderInstrument, ReminderPayment, ReminderMeeting, ReminderTask:
		return true
	}
	return false
}

// ParseReminderKind validates a raw reminder kind.
func ParseReminderKind(raw string) (ReminderKind, error) {
	return parseEnum("reminder kind", raw, ReminderKind.IsValid)
}

// Priority is shared by reminders and tasks.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ParsePriority validates a raw priority.
func ParsePriority(raw string) (Priority, error) {
	return parseEnum("priority", raw, Priority.IsValid)
}

// Reminder is a dated worklist item, optionally recurring.
type Reminder struct {
	ReminderID          int64           `json:"reminderID"`
	Title               string          `json:"title"`
	Description         string          `json:"description"`
	Kind                ReminderKind    `json:"kind"`
	Priority            Priority        `json:"priority"`
	DueDate             time.Time       `json:"dueDate"`
	Status              ReminderStatus  `json:"status"`
	IsRecurring         bool            `json:"isRecurring"`
	RecurrenceKind      *RecurrenceKind `json:"recurrenceKind,omitempty"`
	RecurrenceInterval  int             `json:"recurrenceInterval"`
	RecurrenceEndDate   *time.Time      `json:"recurrenceEndDate,omitempty"`
	RelatedAccountID    *int64          `json:"relatedAccountID,omitempty"`
	RelatedInstrumentID *int64          `json:"relatedInstrumentID,omitempty"`
	SnoozedUntil        *time.Time      `json:"snoozedUntil,omitempty"`
	CompletedAt         *time.Time      `json:"completedAt,omitempty"`
	AuditFields
}

// Validate checks a reminder before it is stored.
func (r Reminder) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: reminder title is required", apperrors.ErrValidation)
	}
	if r.DueDate.IsZero() {
		return fmt.Errorf("%w: due date is required", apperrors.ErrValidation)
	}
	if !r.Kind.IsValid() {
		return fmt.Errorf("%w: unknown reminder kind %q", apperrors.ErrValidation, r.Kind)
	}
	if !r.Priority.IsValid() {
		return fmt.Errorf("%w: unknown priority %q", apperrors.ErrValidation, r.Priority)
	}
	if r.IsRecurring {
		if r.RecurrenceKind == nil || !r.RecurrenceKind.IsValid() {
			return fmt.Errorf("%w: recurring reminder needs a recurrence kind", apperrors.ErrValidation)
		}
		if r.RecurrenceInterval < 1 {
			return fmt.Errorf("%w: recurrence interval must be at least 1", apperrors.ErrValidation)
		}
	}
	return nil
}

// NextDueDate advances the current due date by one recurrence step. ok is
// false for non-recurring reminders and when the step passes the end date.
func (r Reminder) NextDueDate() (time.Time, bool) {
	if !r.IsRecurring || r.RecurrenceKind == nil {
		return time.Time{}, false
	}
	interval := r.RecurrenceInterval
	if interval < 1 {
		interval = 1
	}
	next := DateOf(r.DueDate).AddDate(0, 0, r.RecurrenceKind.days()*interval)
	if r.RecurrenceEndDate != nil && next.After(DateOf(*r.RecurrenceEndDate)) {
		return time.Time{}, false
	}
	return next, true
}

// Successor builds the pending follow-up of a completed recurring reminder.
func (r Reminder) Successor(actorID string, now time.Time) (Reminder, bool) {
	next, ok := r.NextDueDate()
	if !ok {
		return Reminder{}, false
	}
	s := r
	s.ReminderID = 0
	s.DueDate = next
	s.Status = ReminderPending
	s.SnoozedUntil = nil
	s.CompletedAt = nil
	s.AuditFields = NewAuditFields(actorID, now)
	return s, true
}

// IsSnoozed reports whether the reminder is hidden at now.
func (r Reminder) IsSnoozed(now time.Time) bool {
	return r.SnoozedUntil != nil && r.SnoozedUntil.After(now)
}

// DueBucket is the derived urgency of a pending reminder.
type DueBucket string

const (
	BucketOverdue  DueBucket = "overdue"
	BucketToday    DueBucket = "today"
	BucketTomorrow DueBucket = "tomorrow"
	BucketUpcoming DueBucket = "upcoming"
)

// Classify places the reminder relative to today's date.
func (r Reminder) Classify(today time.Time) DueBucket {
	today = DateOf(today)
	due := DateOf(r.DueDate)
	switch {
	case due.Before(today):
		return BucketOverdue
	case due.Equal(today):
		return BucketToday
	case due.Equal(today.AddDate(0, 0, 1)):
		return BucketTomorrow
	default:
		return BucketUpcoming
	}
}

// DueList groups pending reminders by bucket.
type DueList struct {
	Overdue  []Reminder `json:"overdue"`
	Today    []Reminder `json:"today"`
	Tomorrow []Reminder `json:"tomorrow"`
	Upcoming []Reminder `json:"upcoming"`
}

// ClassifyDue buckets the pending, non-snoozed reminders as of now.
func ClassifyDue(reminders []Reminder, now time.Time) DueList {
	list := DueList{Overdue: []Reminder{}, Today: []Reminder{}, Tomorrow: []Reminder{}, Upcoming: []Reminder{}}
	for _, r := range reminders {
		if r.Status != ReminderPending || r.IsSnoozed(now) {
			continue
		}
		switch r.Classify(now) {
		case BucketOverdue:
			list.Overdue = append(list.Overdue, r)
		case BucketToday:
			list.Today = append(list.Today, r)
		case BucketTomorrow:
			list.Tomorrow = append(list.Tomorrow, r)
		default:
			list.Upcoming = append(list.Upcoming, r)
		}
	}
	return list
}

// ReminderSummary counts pending reminders.
type ReminderSummary struct {
	Overdue      int `json:"overdue"`
	Today        int `json:"today"`
	Tomorrow     int `json:"tomorrow"`
	ThisWeek     int `json:"thisWeek"` // after today, within seven days
	TotalPending int `json:"totalPending"`
}

// SummarizeReminders counts pending reminders relative to now.
func SummarizeReminders(reminders []Reminder, now time.Time) ReminderSummary {
	today := DateOf(now)
	weekEnd := today.AddDate(0, 0, 7)
	var s ReminderSummary
	for _, r := range reminders {
		if r.Status != ReminderPending {
			continue
		}
		s.TotalPending++
		due := DateOf(r.DueDate)
		switch r.Classify(today) {
		case BucketOverdue:
			s.Overdue++
		case BucketToday:
			s.Today++
		case BucketTomorrow:
			s.Tomorrow++
		}
		if due.After(today) && !due.After(weekEnd) {
			s.ThisWeek++
		}
	}
	return s
}

// ReminderFilter narrows reminder listings.
type ReminderFilter struct {
	Status       *ReminderStatus
	Kind         *ReminderKind
	Priority     *Priority
	AccountID    *int64
	InstrumentID *int64
	Due          DateRange
	Page         Page
}

// ReminderPatch enumerates the mutable reminder fields.
type ReminderPatch struct {
	Title              *string
	Description        *string
	Kind               *ReminderKind
	Priority           *Priority
	DueDate            *time.Time
	IsRecurring        *bool
	RecurrenceKind     *RecurrenceKind
	RecurrenceInterval *int
	RecurrenceEndDate  *time.Time
}

func (p ReminderPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Kind == nil && p.Priority == nil &&
		p.DueDate == nil && p.IsRecurring == nil && p.RecurrenceKind == nil &&
		p.RecurrenceInterval == nil && p.RecurrenceEndDate == nil
}

// Apply merges the patch; the merged reminder must be re-validated.
func (p ReminderPatch) Apply(r *Reminder) {
	setIf(&r.Title, p.Title)
	setIf(&r.Description, p.Description)
	setIf(&r.Kind, p.Kind)
	setIf(&r.Priority, p.Priority)
	if p.DueDate != nil {
		r.DueDate = DateOf(*p.DueDate)
	}
	setIf(&r.IsRecurring, p.IsRecurring)
	if p.RecurrenceKind != nil {
		k := *p.RecurrenceKind
		r.RecurrenceKind = &k
	}
	setIf(&r.RecurrenceInterval, p.RecurrenceInterval)
	if p.RecurrenceEndDate != nil {
		d := DateOf(*p.RecurrenceEndDate)
		r.RecurrenceEndDate = &d
	}
}

// InstrumentReminder builds the automatic reminder for a registered
// instrument, due leadDays before the instrument.
func InstrumentReminder(i Instrument, leadDays int, currency string, actorID string, now time.Time) Reminder {
	id := i.InstrumentID
	return Reminder{
		Title:               i.Title(),
		Description:         fmt.Sprintf("Amount: %s %s\nDue: %s", i.Amount.StringFixed(2), currency, DateOf(i.DueDate).Format(time.DateOnly)),
		Kind:                ReminderInstrument,
		Priority:            PriorityHigh,
		DueDate:             DateOf(i.DueDate).AddDate(0, 0, -leadDays),
		Status:              ReminderPending,
		RecurrenceInterval:  1,
		RelatedAccountID:    i.AccountID,
		RelatedInstrumentID: &id,
		AuditFields:         NewAuditFields(actorID, now),
	}
}
