package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = time.DateOnly

// OperationResponse is returned by endpoints that run a bookkeeping operation.
type OperationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      int64  `json:"id,omitempty"`
}

// ToOperationResponse converts a domain.OperationResult.
func ToOperationResponse(res domain.OperationResult) OperationResponse {
	return OperationResponse{Success: res.Success, Message: res.Message, ID: res.ID}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PageParams defines limit/offset query parameters shared by list endpoints.
type PageParams struct {
	Limit  int `form:"limit,default=50" binding:"min=0,max=500"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

func (p PageParams) toDomain() domain.Page {
	return domain.Page{Limit: p.Limit, Offset: p.Offset}
}

// DateRangeParams defines an optional inclusive from/to date filter.
type DateRangeParams struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// ToDomain parses the bounds. Missing bounds stay open.
func (p DateRangeParams) ToDomain() (domain.DateRange, error) {
	from, err := parseOptionalDate("from", p.From)
	if err != nil {
		return domain.DateRange{}, err
	}
	to, err := parseOptionalDate("to", p.To)
	if err != nil {
		return domain.DateRange{}, err
	}
	rng := domain.DateRange{From: from, To: to}
	return rng, rng.Validate()
}

func parseOptionalDate(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", apperrors.ErrValidation, field)
	}
	return t, nil
}

func parseOptionalDatePtr(field string, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := parseOptionalDate(field, *raw)
	if err != nil || t.IsZero() {
		return nil, err
	}
	return &t, nil
}

// enumPtr parses an optional enum query value.
func enumPtr[T any](raw string, parse func(string) (T, error)) (*T, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := parse(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}
