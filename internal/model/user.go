package model

import (
	"fmt"
	"time"
)

// User is an authentication account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Profile holds the public, editable part of an account.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// ValidationError is a client-side input error. Its message is safe to show.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Invalid builds a ValidationError from a format string.
func Invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ValidatePassword checks a new password against the length rule.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return Invalid("password must be at least %d characters long", MinPasswordLength)
	}
	return nil
}

// ValidatePasswordChange checks a new password and its confirmation.
func ValidatePasswordChange(password, confirm string) error {
	if password == "" || confirm == "" {
		return Invalid("please fill in all fields")
	}
	if password != confirm {
		return Invalid("new passwords do not match")
	}
	return ValidatePassword(password)
}
