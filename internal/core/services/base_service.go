package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/income_expense_tracker/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	clock func() time.Time
}

func newBaseService(o serviceOptions) BaseService {
	return BaseService{clock: o.clock}
}

// Now returns the current instant in UTC. Each unit of work reads it once and
// stamps every entity it writes with that value.
func (s *BaseService) Now() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}

// dateOf is the transaction date recorded when a request leaves the date out.
func dateOf(now time.Time) time.Time {
	return now.UTC().Truncate(24 * time.Hour)
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// ServiceOption is a functional option shared by the service constructors.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	clock           func() time.Time
	rejectOverdraft bool
}

func applyOptions(options []ServiceOption) serviceOptions {
	o := serviceOptions{}
	for _, option := range options {
		option(&o)
	}
	return o
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(clock func() time.Time) ServiceOption {
	return func(o *serviceOptions) {
		o.clock = clock
	}
}

// WithOverdraftProtection makes transfers fail when the source balance is smaller than the amount.
func WithOverdraftProtection(enabled bool) ServiceOption {
	return func(o *serviceOptions) {
		o.rejectOverdraft = enabled
	}
}
