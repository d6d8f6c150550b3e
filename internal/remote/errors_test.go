package remote

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &NetworkError{Err: cause}

	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)

	assert.True(t, IsNetwork(err))
	assert.False(t, IsValidation(err))

	// Классификация работает и через обертки
	wrapped := fmt.Errorf("create request failed: %w", err)
	assert.True(t, IsNetwork(wrapped))
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Message: "name is required"}

	assert.Contains(t, err.Error(), "name is required")
	assert.True(t, IsValidation(err))
	assert.False(t, IsNetwork(err))

	wrapped := fmt.Errorf("update request failed: %w", err)
	assert.True(t, IsValidation(wrapped))
}

func TestPlainErrorIsNeither(t *testing.T) {
	err := errors.New("something else")
	assert.False(t, IsNetwork(err))
	assert.False(t, IsValidation(err))
}
