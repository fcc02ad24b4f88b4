package model

import (
	"errors"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"", true},
		{"short", true},
		{"123456", false},
		{"a-valid-password", false},
	}

	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
		}
	}
}

func TestValidatePasswordChange(t *testing.T) {
	tests := []struct {
		password string
		confirm  string
		wantMsg  string
	}{
		{"", "", "please fill in all fields"},
		{"secret1", "secret2", "new passwords do not match"},
		{"abc", "abc", "password must be at least 6 characters long"},
		{"secret1", "secret1", ""},
	}

	for _, tt := range tests {
		err := ValidatePasswordChange(tt.password, tt.confirm)
		if tt.wantMsg == "" {
			if err != nil {
				t.Errorf("ValidatePasswordChange(%q, %q) = %v, want nil", tt.password, tt.confirm, err)
			}
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("ValidatePasswordChange(%q, %q) = %v, want ValidationError", tt.password, tt.confirm, err)
		}
		if verr.Msg != tt.wantMsg {
			t.Errorf("message = %q, want %q", verr.Msg, tt.wantMsg)
		}
	}
}
