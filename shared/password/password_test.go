package password_test

import (
	"encoding/hex"
	"errors"
	"inn/shared/password"
	"testing"
)

func TestErrors(t *testing.T) {
	if password.ErrInvalidPassword.Error() != "invalid password" {
		t.Errorf("expected ErrInvalidPassword message to be 'invalid password', got %s", password.ErrInvalidPassword.Error())
	}
	if password.ErrEmptyPassword.Error() != "password cannot be empty" {
		t.Errorf("expected ErrEmptyPassword message to be 'password cannot be empty', got %s", password.ErrEmptyPassword.Error())
	}
}

func TestNewSalt(t *testing.T) {
	salt, err := password.NewSalt()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(salt) != password.SaltBytes*2 {
		t.Errorf("expected salt to be %d hex chars, got %d", password.SaltBytes*2, len(salt))
	}

	if _, err := hex.DecodeString(salt); err != nil {
		t.Errorf("expected salt to be valid hex, got %s", salt)
	}

	other, err := password.NewSalt()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if salt == other {
		t.Error("expected consecutive salts to differ")
	}
}

func TestHash(t *testing.T) {
	tests := []struct {
		name          string
		password      string
		salt          string
		expectedError error
	}{
		{
			name:     "valid password",
			password: "validPassword123",
			salt:     "aabbccddeeff00112233445566778899",
		},
		{
			name:          "empty password",
			password:      "",
			salt:          "aabbccddeeff00112233445566778899",
			expectedError: password.ErrEmptyPassword,
		},
		{
			name:     "password with special characters",
			password: "P@ssw0rd!#$%^&*()",
			salt:     "aabbccddeeff00112233445566778899",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := password.Hash(tt.password, tt.salt)

			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(hash) != password.KeyLength*2 {
				t.Errorf("expected hash to be %d hex chars, got %d", password.KeyLength*2, len(hash))
			}
		})
	}
}

func TestHash_Deterministic(t *testing.T) {
	salt := "00112233445566778899aabbccddeeff"

	first, err := password.Hash("secret123", salt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := password.Hash("secret123", salt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Error("expected identical password and salt to derive identical hashes")
	}

	differentSalt, err := password.Hash("secret123", "ffeeddccbbaa99887766554433221100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first == differentSalt {
		t.Error("expected a different salt to derive a different hash")
	}
}

func TestVerify(t *testing.T) {
	salt, err := password.NewSalt()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hash, err := password.Hash("secret123", salt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name          string
		password      string
		salt          string
		hash          string
		expectedError error
	}{
		{
			name:     "matching password",
			password: "secret123",
			salt:     salt,
			hash:     hash,
		},
		{
			name:          "wrong password",
			password:      "wrongpassword",
			salt:          salt,
			hash:          hash,
			expectedError: password.ErrInvalidPassword,
		},
		{
			name:          "empty password",
			password:      "",
			salt:          salt,
			hash:          hash,
			expectedError: password.ErrInvalidPassword,
		},
		{
			name:          "empty salt",
			password:      "secret123",
			salt:          "",
			hash:          hash,
			expectedError: password.ErrInvalidPassword,
		},
		{
			name:          "empty hash",
			password:      "secret123",
			salt:          salt,
			hash:          "",
			expectedError: password.ErrInvalidPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := password.Verify(tt.password, tt.salt, tt.hash)

			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Errorf("expected error %v, got %v", tt.expectedError, err)
				}

				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
