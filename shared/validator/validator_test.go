package validator_test

import (
	"errors"
	"testing"

	"github.com/raushkum4590/job-portal-sub000/shared/validator"
)

type signup struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role"  validate:"omitempty,oneof=user employer"`
	Range struct {
		Currency string `json:"currency" validate:"omitempty,len=3"`
	} `json:"salaryRange"`
}

func TestStruct_Valid(t *testing.T) {
	v := validator.New()
	if err := v.Struct(signup{Email: "a@b.co", Role: "employer"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStruct_FieldErrorsUseJSONNames(t *testing.T) {
	v := validator.New()

	in := signup{Email: "not-an-email", Role: "admin"}
	in.Range.Currency = "EURO"

	err := v.Struct(in)

	var fields validator.FieldErrors
	if !errors.As(err, &fields) {
		t.Fatalf("expected FieldErrors, got %T (%v)", err, err)
	}
	for _, key := range []string{"email", "role", "salaryRange.currency"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("missing field error for %q in %v", key, fields)
		}
	}
}
