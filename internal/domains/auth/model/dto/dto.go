package dto

import (
	"inn/infras/jwt"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

func (l *LoginResponse) FromToken(token *jwt.Token) {
	l.Token = token.Token
	l.ExpiresIn = token.ExpiresIn
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8"`
}

// ResetPasswordRequest only names the account; the password goes back to the
// configured default rather than a caller-chosen value.
type ResetPasswordRequest struct {
	Username string `json:"username" validate:"required"`
}
