package apperrors

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "With Code",
			appError: &AppError{
				Code:    "TEST_CODE",
				Message: "This is a test error",
			},
			expected: "[TEST_CODE] This is a test error",
		},
		{
			name: "Without Code",
			appError: &AppError{
				Message: "This is a test error without code",
			},
			expected: "This is a test error without code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Error()
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestWrapStorageError(t *testing.T) {
	err := WrapStorageError(io.ErrUnexpectedEOF, "failed to load loans")

	assert.True(t, errors.Is(err, ErrStorage))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "[STORAGE_ERROR] failed to load loans", err.Error())

	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "STORAGE_ERROR", appErr.Code)
}

func TestWrapRenderError(t *testing.T) {
	err := WrapRenderError(errors.New("font missing"), "failed to lay out document")

	assert.True(t, errors.Is(err, ErrRender))
	assert.Equal(t, "[RENDER_ERROR] failed to lay out document", err.Error())
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("format", "unsupported format")

	assert.True(t, errors.Is(err, ErrValidation))

	var validationErr *ValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "format", validationErr.Field)
	assert.Equal(t, "validation failed for field 'format': unsupported format", validationErr.Error())

	noField := &ValidationError{Message: "bad input"}
	assert.Equal(t, "validation failed: bad input", noField.Error())
}
