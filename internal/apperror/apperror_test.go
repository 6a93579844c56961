package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelMatchingThroughWrapping(t *testing.T) {
	// Services wrap AppErrors with fmt.Errorf("%w", ...); errors.Is must
	// still find the sentinel at the bottom of the chain.
	err := fmt.Errorf("service/user: creating user: %w", Conflict("username alice1 already exists"))

	if !errors.Is(err, ErrConflict) {
		t.Error("errors.Is() failed to match ErrConflict through wrapping")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("errors.Is() matched the wrong sentinel")
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatal("errors.As() failed to extract *AppError")
	}
	if appErr.Message == "" {
		t.Error("extracted AppError has no message")
	}
}

func TestValidationFailed_CarriesViolations(t *testing.T) {
	err := ValidationFailed(
		Violation{Field: "username", Message: "too short"},
		Violation{Field: "email", Message: "not an address"},
	)

	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationFailed() does not match ErrValidation")
	}
	if len(err.Violations) != 2 {
		t.Errorf("got %d violations, want 2", len(err.Violations))
	}
}

func TestValidationFailed_SingleViolationMessage(t *testing.T) {
	err := ValidationFailed(Violation{Field: "password", Message: "password is required"})
	if err.Error() != "password is required" {
		t.Errorf("Error() = %q, want the violation's own message", err.Error())
	}
}

func TestInvalidCredentials_IdenticalValues(t *testing.T) {
	// Two separate calls must produce indistinguishable errors — the
	// login path relies on this for its anti-enumeration guarantee.
	a, b := InvalidCredentials(), InvalidCredentials()
	if a.Error() != b.Error() {
		t.Errorf("messages differ: %q vs %q", a.Error(), b.Error())
	}
	if !errors.Is(a, ErrInvalidCredentials) || !errors.Is(b, ErrInvalidCredentials) {
		t.Error("InvalidCredentials() does not match its sentinel")
	}
}
