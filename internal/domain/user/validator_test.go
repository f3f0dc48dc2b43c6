package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialsValidator_ValidateLogin(t *testing.T) {
	validator := NewCredentialsValidator()

	tests := []struct {
		name        string
		login       string
		wantErr     bool
		expectedErr string
	}{
		{
			name:    "valid login",
			login:   "user123",
			wantErr: false,
		},
		{
			name:        "too short",
			login:       "ab",
			wantErr:     true,
			expectedErr: "не короче 3 символов",
		},
		{
			name:        "too long",
			login:       strings.Repeat("a", 33),
			wantErr:     true,
			expectedErr: "не длиннее 32 символов",
		},
		{
			name:    "valid with underscore",
			login:   "user_name",
			wantErr: false,
		},
		{
			name:    "valid with dash",
			login:   "user-name",
			wantErr: false,
		},
		{
			name:    "valid with dot",
			login:   "user.name",
			wantErr: false,
		},
		{
			name:        "invalid space",
			login:       "user name",
			wantErr:     true,
			expectedErr: "допустимы буквы, цифры",
		},
		{
			name:        "invalid special char",
			login:       "user@name",
			wantErr:     true,
			expectedErr: "допустимы буквы, цифры",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateLogin(tt.login)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCredentialsValidator_ValidatePassword(t *testing.T) {
	validator := NewCredentialsValidator()

	tests := []struct {
		name        string
		password    string
		wantErr     bool
		expectedErr string
	}{
		{
			name:     "valid password",
			password: "password1",
			wantErr:  false,
		},
		{
			name:        "too short",
			password:    "abc123",
			wantErr:     true,
			expectedErr: "не короче 8 символов",
		},
		{
			name:        "no digit",
			password:    "passwordonly",
			wantErr:     true,
			expectedErr: "нужна хотя бы одна цифра",
		},
		{
			name:        "no letter",
			password:    "12345678",
			wantErr:     true,
			expectedErr: "нужна хотя бы одна буква",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidatePassword(tt.password)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCredentialsValidator_ValidateRegister(t *testing.T) {
	validator := NewCredentialsValidator()

	require.NoError(t, validator.ValidateRegister("user123", "password1"))

	err := validator.ValidateRegister("ab", "password1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "логин")

	err = validator.ValidateRegister("user123", "short")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "пароль")
}
