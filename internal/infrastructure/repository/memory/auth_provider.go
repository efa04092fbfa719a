package memory

import (
	"context"
	"net/http"
	"sync"

	"github.com/riskibarqy/hockey-roster/internal/domain/session"
	idgen "github.com/riskibarqy/hockey-roster/internal/platform/id"
)

type account struct {
	user      session.User
	password  string
	confirmed bool
}

// AuthProvider is an in-process auth backend with password accounts and
// opaque tokens.
type AuthProvider struct {
	failures

	mu       sync.Mutex
	ids      idgen.Generator
	accounts map[string]*account
	tokens   map[string]string
}

func NewAuthProvider(ids idgen.Generator) *AuthProvider {
	if ids == nil {
		ids = idgen.NewRandomGenerator()
	}
	return &AuthProvider{
		ids:      ids,
		accounts: make(map[string]*account),
		tokens:   make(map[string]string),
	}
}

// AddAccount registers an account directly, confirmed or not.
func (p *AuthProvider) AddAccount(email, password string, confirmed bool) (session.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.addLocked(email, password, "", confirmed)
}

func (p *AuthProvider) addLocked(email, password, displayName string, confirmed bool) (session.User, error) {
	id, err := p.ids.NewID()
	if err != nil {
		return session.User{}, err
	}

	claims := map[string]any{"id": id, "email": email, "role": "authenticated"}
	if displayName != "" {
		claims["user_metadata"] = map[string]any{"display_name": displayName}
	}
	user := session.User{ID: id, Email: email, Claims: claims}
	p.accounts[email] = &account{user: user, password: password, confirmed: confirmed}
	return user, nil
}

func (p *AuthProvider) SignUp(_ context.Context, in session.SignUpInput) (session.Tokens, error) {
	if err := p.failure(); err != nil {
		return session.Tokens{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.accounts[in.Email]; exists {
		return session.Tokens{}, &session.AuthError{StatusCode: http.StatusUnprocessableEntity, Message: "User already registered"}
	}
	user, err := p.addLocked(in.Email, in.Password, in.DisplayName, true)
	if err != nil {
		return session.Tokens{}, err
	}
	return p.issueLocked(user)
}

func (p *AuthProvider) SignInWithPassword(_ context.Context, email, password string) (session.Tokens, error) {
	if err := p.failure(); err != nil {
		return session.Tokens{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	acc, ok := p.accounts[email]
	if !ok || acc.password != password {
		return session.Tokens{}, &session.AuthError{StatusCode: http.StatusBadRequest, Message: "Invalid login credentials"}
	}
	if !acc.confirmed {
		return session.Tokens{}, &session.AuthError{
			StatusCode: http.StatusBadRequest,
			Message:    session.MessageEmailNotConfirmed,
			Code:       session.CodeEmailNotConfirmed,
		}
	}
	return p.issueLocked(acc.user)
}

func (p *AuthProvider) VerifySignup(_ context.Context, email string) error {
	if err := p.failure(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	acc, ok := p.accounts[email]
	if !ok {
		return &session.AuthError{StatusCode: http.StatusNotFound, Message: "User not found"}
	}
	acc.confirmed = true
	return nil
}

func (p *AuthProvider) SignOut(_ context.Context, accessToken string) error {
	if err := p.failure(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.tokens, accessToken)
	return nil
}

func (p *AuthProvider) User(_ context.Context, accessToken string) (session.User, error) {
	if err := p.failure(); err != nil {
		return session.User{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	email, ok := p.tokens[accessToken]
	if !ok {
		return session.User{}, &session.AuthError{StatusCode: http.StatusUnauthorized, Message: "invalid JWT"}
	}
	return p.accounts[email].user, nil
}

func (p *AuthProvider) Recover(_ context.Context, email string) error {
	return p.failure()
}

func (p *AuthProvider) issueLocked(user session.User) (session.Tokens, error) {
	access, err := p.ids.NewID()
	if err != nil {
		return session.Tokens{}, err
	}
	refresh, err := p.ids.NewID()
	if err != nil {
		return session.Tokens{}, err
	}

	p.tokens[access] = user.Email
	u := user
	return session.Tokens{AccessToken: access, RefreshToken: refresh, User: &u}, nil
}
