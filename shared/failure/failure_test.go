package failure_test

import (
	"errors"
	"fmt"
	"inn/shared/failure"
	"net/http"
	"testing"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestPredefinedFailures(t *testing.T) {
	tests := []struct {
		name    string
		failure *failure.Failure
		code    int
		message string
	}{
		{
			name:    "MissingRequiredFields",
			failure: failure.MissingRequiredFields,
			code:    http.StatusBadRequest,
			message: "Missing required fields",
		},
		{
			name:    "InvalidCredentials",
			failure: failure.InvalidCredentials,
			code:    http.StatusUnauthorized,
			message: "Invalid credentials",
		},
		{
			name:    "InvalidDateParam",
			failure: failure.InvalidDateParam,
			code:    http.StatusBadRequest,
			message: "date query required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.failure.Code != tt.code {
				t.Errorf("expected code to be %d, got %d", tt.code, tt.failure.Code)
			}
			if tt.failure.Message != tt.message {
				t.Errorf("expected message to be %s, got %s", tt.message, tt.failure.Message)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "BadRequest", err: failure.BadRequest(errors.New("bad input")), code: http.StatusBadRequest},
		{name: "BadRequestFromString", err: failure.BadRequestFromString("bad input"), code: http.StatusBadRequest},
		{name: "Unauthorized", err: failure.Unauthorized("no token"), code: http.StatusUnauthorized},
		{name: "NotFound", err: failure.NotFound("booking not found"), code: http.StatusNotFound},
		{name: "Conflict", err: failure.Conflict("already exists"), code: http.StatusConflict},
		{name: "Forbidden", err: failure.Forbidden("not allowed"), code: http.StatusForbidden},
		{name: "InternalError", err: failure.InternalError(errors.New("boom")), code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.GetCode(tt.err); got != tt.code {
				t.Errorf("expected code to be %d, got %d", tt.code, got)
			}
		})
	}
}

func TestGetCode_NonFailure(t *testing.T) {
	if got := failure.GetCode(errors.New("plain error")); got != http.StatusInternalServerError {
		t.Errorf("expected code to be %d, got %d", http.StatusInternalServerError, got)
	}
}

func TestGetCode_WrappedFailure(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", failure.NotFound("receipt not found"))

	if got := failure.GetCode(wrapped); got != http.StatusNotFound {
		t.Errorf("expected code to be %d, got %d", http.StatusNotFound, got)
	}
}

func TestNilErrors(t *testing.T) {
	if failure.BadRequest(nil) != nil {
		t.Error("expected BadRequest(nil) to be nil")
	}
	if failure.InternalError(nil) != nil {
		t.Error("expected InternalError(nil) to be nil")
	}
}
