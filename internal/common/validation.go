package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// singleline rejects CR and LF so values can be used as mail headers.
	_ = v.RegisterValidation("singleline", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), "\r\n")
	})
	return v
}

// ValidateStruct runs tag validation and folds field errors into one AppError.
func ValidateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return NewValidationError(err.Error())
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return NewValidationError(strings.Join(msgs, "; "))
}

func ValidateDateRange(from, to *time.Time) error {
	if from != nil && to != nil && from.After(*to) {
		return NewValidationError("from must not be after to")
	}
	return nil
}

func ValidateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return NewValidationError("user id is required")
	}
	return nil
}
