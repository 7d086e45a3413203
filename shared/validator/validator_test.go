package validator_test

import (
	"inn/shared/failure"
	"inn/shared/validator"
	"strings"
	"testing"
)

type loginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type bookingPayload struct {
	Name        string `validate:"required"`
	Phone       string `validate:"required"`
	Date        string `validate:"required"`
	RoomNumbers []int  `validate:"required,min=1,dive,min=1"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "valid payload",
			body: `{"username":"admin","password":"secret123"}`,
		},
		{
			name:    "missing field",
			body:    `{"username":"admin"}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			body:    `{"username":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := loginPayload{}
			err := validator.Validate(strings.NewReader(tt.body), &payload)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				if failure.GetCode(err) != 400 {
					t.Errorf("expected code 400, got %d", failure.GetCode(err))
				}

				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		payload bookingPayload
		wantErr bool
	}{
		{
			name: "valid booking",
			payload: bookingPayload{
				Name:        "Jane Guest",
				Phone:       "555-0100",
				Date:        "2024-05-01",
				RoomNumbers: []int{3, 7},
			},
		},
		{
			name: "empty room list",
			payload: bookingPayload{
				Name:        "Jane Guest",
				Phone:       "555-0100",
				Date:        "2024-05-01",
				RoomNumbers: []int{},
			},
			wantErr: true,
		},
		{
			name: "room number below range",
			payload: bookingPayload{
				Name:        "Jane Guest",
				Phone:       "555-0100",
				Date:        "2024-05-01",
				RoomNumbers: []int{0},
			},
			wantErr: true,
		},
		{
			name: "missing phone",
			payload: bookingPayload{
				Name:        "Jane Guest",
				Date:        "2024-05-01",
				RoomNumbers: []int{1},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&tt.payload)

			if tt.wantErr && err == nil {
				t.Error("expected an error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	if err := validator.ValidateVar("2024-05-01", "required"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := validator.ValidateVar("", "required"); err == nil {
		t.Error("expected an error for empty required var")
	}
}
