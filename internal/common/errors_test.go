package common

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusCode(NewValidationError("bad")))
	assert.Equal(t, http.StatusNotFound, StatusCode(errors.Wrap(NewNotFoundError("notification", "n-1"), "lookup")))
	assert.Equal(t, http.StatusForbidden, StatusCode(NewForbiddenError("nope")))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("boom")))
	assert.True(t, IsNotFound(NewNotFoundError("activity", "a-1")))
}

func TestAppError_Message(t *testing.T) {
	err := &AppError{Code: http.StatusInternalServerError, Message: "failed to save", Err: errors.New("disk full")}
	assert.Equal(t, "failed to save: disk full", err.Error())
	assert.Equal(t, "disk full", errors.Cause(err.Unwrap()).Error())
}

func TestValidateStruct_ContactMessage(t *testing.T) {
	err := ValidateStruct(ContactMessage{Name: "Ann", Email: "not-an-email", Subject: "Hi", Message: "Hello"})
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "email failed on email")

	assert.NoError(t, ValidateStruct(ContactMessage{Name: "Ann", Email: "ann@example.com", Subject: "Hi", Message: "Hello"}))
}

func TestValidateStruct_ContactMessageRejectsLineBreaks(t *testing.T) {
	err := ValidateStruct(ContactMessage{Name: "Ann", Email: "ann@example.com", Subject: "hi\r\nBcc: victim@example.com", Message: "Hello"})
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "subject failed on singleline")

	err = ValidateStruct(ContactMessage{Name: "Ann\nBcc: x@example.com", Email: "ann@example.com", Subject: "Hi", Message: "Hello"})
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "name failed on singleline")

	assert.NoError(t, ValidateStruct(ContactMessage{Name: "Ann", Email: "ann@example.com", Subject: "Hi", Message: "line one\nline two"}))
}
