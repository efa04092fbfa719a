package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/riskibarqy/hockey-roster/internal/domain/session"
	"github.com/riskibarqy/hockey-roster/internal/infrastructure/backend"
)

const (
	MessageSignInFailed  = "Failed to sign in"
	MessageSignUpFailed  = "Failed to sign up"
	MessageSignOutFailed = "Failed to sign out"
	MessageGetUserFailed = "Failed to get user"
	MessageRecoverFailed = "Failed to send password reset email"
	MessageVerifyFailed  = "Failed to confirm email"
	MessageUnexpected    = "An unexpected error occurred"
)

// AuthClient talks to the backend's /auth/v1 endpoints. Every failure comes
// back as a *session.AuthError carrying a message fit for display.
type AuthClient struct {
	client Requester
}

func NewAuthClient(client Requester) *AuthClient {
	return &AuthClient{client: client}
}

type signUpRequest struct {
	Email       string         `json:"email"`
	Password    string         `json:"password"`
	Data        map[string]any `json:"data,omitempty"`
	AutoConfirm bool           `json:"auto_confirm"`
}

type passwordGrantRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Email string `json:"email"`
	Type  string `json:"type"`
}

type recoverRequest struct {
	Email string `json:"email"`
}

type tokenResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *session.User `json:"user"`
}

func (t tokenResponse) tokens() session.Tokens {
	return session.Tokens{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		User:         t.User,
	}
}

func (c *AuthClient) SignUp(ctx context.Context, in session.SignUpInput) (session.Tokens, error) {
	body := signUpRequest{
		Email:       in.Email,
		Password:    in.Password,
		AutoConfirm: true,
	}
	if in.DisplayName != "" {
		body.Data = map[string]any{"display_name": in.DisplayName}
	}

	var resp tokenResponse
	err := c.client.Do(ctx, backend.Request{
		Method: http.MethodPost,
		Path:   backend.AuthPrefix + "signup",
		Body:   body,
	}, &resp)
	if err != nil {
		return session.Tokens{}, authError(err, MessageSignUpFailed)
	}
	return resp.tokens(), nil
}

func (c *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (session.Tokens, error) {
	var resp tokenResponse
	err := c.client.Do(ctx, backend.Request{
		Method: http.MethodPost,
		Path:   backend.AuthPrefix + "token",
		Query:  "grant_type=password",
		Body:   passwordGrantRequest{Email: email, Password: password},
	}, &resp)
	if err != nil {
		return session.Tokens{}, authError(err, MessageSignInFailed)
	}
	return resp.tokens(), nil
}

func (c *AuthClient) VerifySignup(ctx context.Context, email string) error {
	err := c.client.Do(ctx, backend.Request{
		Method: http.MethodPost,
		Path:   backend.AuthPrefix + "verify",
		Body:   verifyRequest{Email: email, Type: "signup"},
	}, nil)
	if err != nil {
		return authError(err, MessageVerifyFailed)
	}
	return nil
}

func (c *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	err := c.client.Do(ctx, backend.Request{
		Method:      http.MethodPost,
		Path:        backend.AuthPrefix + "logout",
		BearerToken: accessToken,
	}, nil)
	if err != nil {
		return authError(err, MessageSignOutFailed)
	}
	return nil
}

func (c *AuthClient) User(ctx context.Context, accessToken string) (session.User, error) {
	var user session.User
	err := c.client.Do(ctx, backend.Request{
		Path:        backend.AuthPrefix + "user",
		BearerToken: accessToken,
	}, &user)
	if err != nil {
		return session.User{}, authError(err, MessageGetUserFailed)
	}
	return user, nil
}

func (c *AuthClient) Recover(ctx context.Context, email string) error {
	err := c.client.Do(ctx, backend.Request{
		Method: http.MethodPost,
		Path:   backend.AuthPrefix + "recover",
		Body:   recoverRequest{Email: email},
	}, nil)
	if err != nil {
		return authError(err, MessageRecoverFailed)
	}
	return nil
}

// authError turns a transport failure into a session.AuthError. A rejected
// request carries the backend's own message when the body has one.
func authError(err error, fallback string) error {
	var transportErr *backend.TransportError
	if errors.As(err, &transportErr) {
		message, code := backendMessage(transportErr.Body)
		if message == "" {
			message = fallback
		}
		return &session.AuthError{StatusCode: transportErr.StatusCode, Message: message, Code: code, Err: err}
	}
	return &session.AuthError{Message: MessageUnexpected, Err: err}
}

// backendMessage picks the first non-empty of error, error_description, msg
// and message from an error body. Older servers put the unconfirmed-email
// text in error_description behind a generic error, so code is derived from
// any field that carries it when error_code is absent.
func backendMessage(body []byte) (message, code string) {
	var payload map[string]any
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return "", ""
	}

	if value, ok := payload["error_code"].(string); ok {
		code = value
	}
	for _, key := range []string{"error", "error_description", "msg", "message"} {
		value, ok := payload[key].(string)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		if message == "" {
			message = value
		}
		if code == "" && value == session.MessageEmailNotConfirmed {
			code = session.CodeEmailNotConfirmed
		}
	}
	return message, code
}
