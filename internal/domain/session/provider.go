package session

import "context"

// Provider is the backend auth API.
type Provider interface {
	SignUp(ctx context.Context, in SignUpInput) (Tokens, error)
	SignInWithPassword(ctx context.Context, email, password string) (Tokens, error)
	// VerifySignup asks the backend to confirm a pending signup for email.
	VerifySignup(ctx context.Context, email string) error
	SignOut(ctx context.Context, accessToken string) error
	User(ctx context.Context, accessToken string) (User, error)
	Recover(ctx context.Context, email string) error
}
