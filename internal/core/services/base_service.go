package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/SscSPs/bookkeeping_app/internal/middleware"
	"github.com/jackc/pgx/v5"
)

// EventTracker receives product analytics events.
type EventTracker interface {
	Enqueue(distinctID string, event string, properties map[string]any)
}

// BaseService provides common functionality for all services
type BaseService struct {
	clock  func() time.Time
	events EventTracker
}

// ServiceOption is a functional option for the shared service settings
type ServiceOption func(*BaseService)

// WithClock replaces time.Now, mainly for tests.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.clock = clock
	}
}

// WithEventTracker adds an analytics sink.
func WithEventTracker(tracker EventTracker) ServiceOption {
	return func(s *BaseService) {
		s.events = tracker
	}
}

func newBaseService(options []ServiceOption) BaseService {
	var b BaseService
	for _, option := range options {
		option(&b)
	}
	return b
}

// Now returns the service clock in UTC.
func (s *BaseService) Now() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// inTx runs fn inside one database transaction. Any error from fn or from
// the commit rolls the transaction back.
func (s *BaseService) inTx(ctx context.Context, txm portsrepo.TransactionManager, fn func(tx pgx.Tx) error) error {
	tx, err := txm.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = txm.Rollback(ctx, tx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return txm.Commit(ctx, tx)
}

// Track forwards an event when a tracker is configured.
func (s *BaseService) Track(actorID string, event string, properties map[string]any) {
	if s.events != nil {
		s.events.Enqueue(actorID, event, properties)
	}
}

// businessResult turns a business-rule error into a failed result. Any
// other error is returned unchanged for the caller to surface as a storage
// failure.
func businessResult(err error) (domain.OperationResult, error) {
	if res, ok := domain.FailedFrom(err); ok {
		return res, nil
	}
	return domain.OperationResult{}, err
}
