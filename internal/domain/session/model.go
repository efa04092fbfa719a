package session

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

// MessageEmailNotConfirmed is the backend message for a sign-in attempt on
// an account whose signup email was never confirmed.
const (
	MessageEmailNotConfirmed = "Email not confirmed"
	CodeEmailNotConfirmed    = "email_not_confirmed"
)

// User is the authenticated account. Claims keeps the full user object the
// backend returned so nothing is lost when it is cached.
type User struct {
	ID     string         `json:"id"`
	Email  string         `json:"email"`
	Claims map[string]any `json:"-"`
}

// UnknownUserID stands in for a user id the backend left out.
const UnknownUserID = "unknown"

func (u User) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Claims)+2)
	for k, v := range u.Claims {
		out[k] = v
	}
	out["id"] = u.ID
	out["email"] = u.Email
	return sonic.Marshal(out)
}

func (u *User) UnmarshalJSON(data []byte) error {
	var claims map[string]any
	if err := sonic.Unmarshal(data, &claims); err != nil {
		return fmt.Errorf("decode user: %w", err)
	}

	*u = User{Claims: claims}
	if id, ok := claims["id"].(string); ok {
		u.ID = id
	}
	if email, ok := claims["email"].(string); ok {
		u.Email = email
	}
	return nil
}

// Tokens is what a successful sign-in or sign-up yields.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

type SignUpInput struct {
	Email       string `validate:"required,email"`
	Password    string `validate:"required,min=6"`
	DisplayName string
}

// AuthError is an authentication failure carrying the message to show the
// user. StatusCode is 0 when the backend was never reached.
type AuthError struct {
	StatusCode int
	Message    string
	// Code is the backend's machine-readable error code, when it sent one.
	Code string
	Err  error
}

func (e *AuthError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("auth: %s (status %d)", e.Message, e.StatusCode)
	}
	return "auth: " + e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsEmailNotConfirmed reports whether err is a sign-in rejected only
// because the account's email is unconfirmed.
func IsEmailNotConfirmed(err error) bool {
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		return false
	}
	return authErr.Message == MessageEmailNotConfirmed || authErr.Code == CodeEmailNotConfirmed
}

// MessageOf returns the user-facing message of an auth failure, or fallback
// when err does not carry one.
func MessageOf(err error, fallback string) string {
	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.Message != "" {
		return authErr.Message
	}
	return fallback
}
