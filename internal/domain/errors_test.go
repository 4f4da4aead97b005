package domain

import (
	"errors"
	"testing"
)

func TestValidationError_Unwrap(t *testing.T) {
	t.Parallel()

	err := NewValidationError("word", "required")
	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationError should unwrap to ErrValidation")
	}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatal("errors.As should find *ValidationError")
	}
	if ve.Errors[0].Field != "word" || ve.Errors[0].Message != "required" {
		t.Errorf("unexpected field error: %+v", ve.Errors[0])
	}
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	single := NewValidationError("word", "required")
	if single.Error() != "validation: word: required" {
		t.Errorf("unexpected message: %s", single.Error())
	}

	multi := NewValidationErrors([]FieldError{
		{Field: "a", Message: "x"},
		{Field: "b", Message: "y"},
	})
	if multi.Error() != "validation: 2 errors" {
		t.Errorf("unexpected message: %s", multi.Error())
	}
}
