package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// MoneyPlaces is the scale of every stored money column (NUMERIC(18,2)).
const MoneyPlaces = 2

// ValidateMoney rejects amounts with more decimal places than the stored scale.
func ValidateMoney(field string, amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(MoneyPlaces)) {
		return fmt.Errorf("%w: %s %s has more than %d decimal places", apperrors.ErrValidation, field, amount.String(), MoneyPlaces)
	}
	return nil
}

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// NewAuditFields stamps creation and update with the same actor and time.
func NewAuditFields(actorID string, now time.Time) AuditFields {
	return AuditFields{
		CreatedAt:     now,
		CreatedBy:     actorID,
		LastUpdatedAt: now,
		LastUpdatedBy: actorID,
	}
}

// OperationResult is the outcome of a core bookkeeping operation.
// Business-rule failures come back as Success=false with a displayable
// Message; Reason carries the matching apperrors sentinel.
type OperationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Reason  error  `json:"-"`
	ID      int64  `json:"id,omitempty"`
}

// Succeeded builds a successful result.
func Succeeded(message string) OperationResult {
	return OperationResult{Success: true, Message: message}
}

// Failed builds a business-rule failure result.
func Failed(reason error, message string) OperationResult {
	return OperationResult{Success: false, Message: message, Reason: reason}
}

// FailedFrom converts a business error into a failed result, keeping the
// sentinel as Reason. ok is false when err is not a business-rule failure.
func FailedFrom(err error) (OperationResult, bool) {
	for _, sentinel := range []error{apperrors.ErrValidation, apperrors.ErrNotFound, apperrors.ErrInvalidState, apperrors.ErrDuplicate} {
		if errors.Is(err, sentinel) {
			return Failed(sentinel, err.Error()), true
		}
	}
	return OperationResult{}, false
}

// RequireActor rejects an empty acting-user identity.
func RequireActor(actorID string) error {
	if strings.TrimSpace(actorID) == "" {
		return fmt.Errorf("%w: acting user is required", apperrors.ErrValidation)
	}
	return nil
}

// DateOf truncates t to its calendar date, expressed at UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateRange is an inclusive range of calendar dates. Zero bounds are open.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Validate checks that From is not after To when both are set.
func (r DateRange) Validate() error {
	if !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To) {
		return fmt.Errorf("%w: start date %s is after end date %s", apperrors.ErrValidation, r.From.Format(time.DateOnly), r.To.Format(time.DateOnly))
	}
	return nil
}

// Contains reports whether the calendar date of t falls within the range.
func (r DateRange) Contains(t time.Time) bool {
	d := DateOf(t)
	if !r.From.IsZero() && d.Before(DateOf(r.From)) {
		return false
	}
	if !r.To.IsZero() && d.After(DateOf(r.To)) {
		return false
	}
	return true
}

// Page holds limit/offset pagination, clamped by Normalize.
type Page struct {
	Limit  int
	Offset int
}

// Unlimited as a Page limit disables paging for internal aggregations.
const Unlimited = -1

// Normalize applies the default limit and clamps negatives.
func (p Page) Normalize() Page {
	if p.Limit == Unlimited {
		p.Offset = 0
		return p
	}
	if p.Limit <= 0 || p.Limit > 500 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

func parseEnum[T ~string](kind string, raw string, valid func(T) bool) (T, error) {
	v := T(strings.ToLower(strings.TrimSpace(raw)))
	if !valid(v) {
		return "", fmt.Errorf("%w: unknown %s %q", apperrors.ErrValidation, kind, raw)
	}
	return v, nil
}
