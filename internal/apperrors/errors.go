package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrBusinessRule indicates a well-formed request that the ledger rules refuse
// (deleting a default entity, transferring to the same account, ...).
var ErrBusinessRule = errors.New("business rule violation")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal indicates an unexpected infrastructure failure.
var ErrInternal = errors.New("internal error")

// AppError carries a message that is safe to show to API callers next to the
// sentinel it classifies as.
type AppError struct {
	Kind    error
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Is lets errors.Is match the sentinel kind.
func (e *AppError) Is(target error) bool {
	return e.Kind == target
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError of the given kind.
func NewAppError(kind error, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// NewValidationError reports invalid input.
func NewValidationError(format string, args ...any) *AppError {
	return &AppError{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError reports a missing entity, e.g. NewNotFoundError("account", id).
func NewNotFoundError(entity, id string) *AppError {
	return &AppError{Kind: ErrNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewBusinessRuleError reports a refused operation.
func NewBusinessRuleError(format string, args ...any) *AppError {
	return &AppError{Kind: ErrBusinessRule, Message: fmt.Sprintf(format, args...)}
}

// NewDuplicateError reports a uniqueness conflict.
func NewDuplicateError(format string, args ...any) *AppError {
	return &AppError{Kind: ErrDuplicate, Message: fmt.Sprintf(format, args...)}
}

// UserMessage returns the message to send to the client for err. Errors that
// are not AppErrors fall back to their own text.
func UserMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
