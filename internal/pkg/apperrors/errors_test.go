package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomErrorUnwrapsToSentinel(t *testing.T) {
	err := NewConflictError("Donation already claimed")

	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "Donation already claimed", err.Error())
	assert.Equal(t, "Donation already claimed", Message(err, "fallback"))
}

func TestInvalidIDIsValidationFailure(t *testing.T) {
	assert.ErrorIs(t, ErrInvalidID, ErrValidationFailed)
	assert.ErrorIs(t, ErrTokenExpired, ErrTokenInvalid)
}

func TestUpstreamErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewUpstreamError(cause, "Image upload failed")

	assert.ErrorIs(t, err, ErrUpstreamFailure)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Image upload failed", err.Error())
}

func TestIsKnown(t *testing.T) {
	assert.True(t, IsKnown(NewForbiddenError("nope")))
	assert.True(t, IsKnown(ErrTokenExpired))
	assert.False(t, IsKnown(errors.New("boom")))
	assert.False(t, IsKnown(nil))
}

func TestMessageFallback(t *testing.T) {
	assert.Equal(t, "fallback", Message(errors.New("raw"), "fallback"))
	assert.Equal(t, "validation failed", NewCustomError(ErrValidationFailed, "").Error())
}
