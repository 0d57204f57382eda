package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMatchesKind(t *testing.T) {
	err := NewNotFoundError("account", "acc-1")
	wrapped := fmt.Errorf("loading account: %w", err)

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrValidation))
	assert.Equal(t, "account acc-1 not found", UserMessage(wrapped))
}

func TestAppErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewAppError(ErrInternal, "failed to commit", cause)

	assert.True(t, errors.Is(err, ErrInternal))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "failed to commit: connection reset", err.Error())
	assert.Equal(t, "failed to commit", UserMessage(err))
}

func TestUserMessageFallsBackToErrorText(t *testing.T) {
	err := fmt.Errorf("%w: amount must be positive", ErrValidation)
	assert.Equal(t, "validation error: amount must be positive", UserMessage(err))
}
