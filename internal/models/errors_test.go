package models

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStoreError("Failed to save design", cause)

	assert.Equal(t, "Failed to save design: disk full", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewValidationError("Please select a category")
	assert.Equal(t, "Please select a category", bare.Error())
	assert.Nil(t, bare.Unwrap())
}

func TestNewUploadError_NamesTheFile(t *testing.T) {
	err := NewUploadError("huge.png", errors.New("file exceeds 5MB limit"))
	assert.Contains(t, err.Error(), "huge.png")
	assert.Contains(t, err.Error(), "file exceeds 5MB limit")
	assert.Equal(t, "UPLOAD_ERROR", err.Code)
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("bad input"), fiber.StatusBadRequest},
		{"upload", NewUploadError("a.png", errors.New("x")), fiber.StatusBadRequest},
		{"auth", NewAuthError("no"), fiber.StatusUnauthorized},
		{"not found", NewNotFoundError("Design", 4), fiber.StatusNotFound},
		{"store", NewStoreError("conflict", nil), fiber.StatusConflict},
		{"internal", NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
		{"plain error", errors.New("anything"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusForError(tt.err))
		})
	}
}
