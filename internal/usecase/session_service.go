package usecase

import (
	"context"
	"net/http"
	"strings"
	"sync"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/hockey-roster/internal/domain/session"
	"github.com/riskibarqy/hockey-roster/internal/platform/cache"
	"github.com/riskibarqy/hockey-roster/internal/platform/logging"
	"github.com/riskibarqy/hockey-roster/internal/platform/resilience"
)

const (
	KeyAccessToken  = "supabase.auth.token"
	KeyRefreshToken = "supabase.auth.refresh"
	KeyUser         = "supabase.auth.user"
)

const MessageNotAuthenticated = "Not authenticated"

type signInStep int

const (
	stepAuthenticate signInStep = iota
	stepVerify
	stepRetry
)

// SessionService keeps the signed-in state in memory and mirrors it to the
// cache store so a later process can Restore it.
type SessionService struct {
	provider session.Provider
	store    cache.Store
	logger   *logging.Logger

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	user         *session.User

	userFlight resilience.Group[session.User]
}

func NewSessionService(provider session.Provider, store cache.Store, logger *logging.Logger) *SessionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SessionService{
		provider: provider,
		store:    store,
		logger:   logger.Named("usecase.session"),
	}
}

// Restore loads a persisted session. Unreadable entries count as absent;
// the token alone is enough to fetch the user again.
func (s *SessionService) Restore(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Restore")
	defer span.End()

	token := s.readKey(ctx, KeyAccessToken)
	refresh := s.readKey(ctx, KeyRefreshToken)
	rawUser := s.readKey(ctx, KeyUser)

	var user *session.User
	if rawUser != "" {
		var decoded session.User
		if err := sonic.UnmarshalString(rawUser, &decoded); err != nil {
			s.logger.WarnContext(ctx, "discarding unreadable cached user", "error", err)
		} else {
			user = &decoded
		}
	}

	s.mu.Lock()
	s.accessToken = token
	s.refreshToken = refresh
	s.user = user
	s.mu.Unlock()
	return nil
}

func (s *SessionService) readKey(ctx context.Context, key string) string {
	value, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "read cached session failed", "key", key, "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return value
}

// SignUp creates an account. A session is stored only when the backend
// hands back an access token right away.
func (s *SessionService) SignUp(ctx context.Context, email, password, displayName string) (session.Tokens, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.SignUp")
	defer span.End()

	in := session.SignUpInput{
		Email:       strings.TrimSpace(email),
		Password:    password,
		DisplayName: strings.TrimSpace(displayName),
	}
	if err := validateInput(in); err != nil {
		return session.Tokens{}, err
	}

	tokens, err := s.provider.SignUp(ctx, in)
	if err != nil {
		return session.Tokens{}, err
	}
	if tokens.AccessToken == "" {
		return tokens, nil
	}
	if err := s.persist(ctx, tokens, in.Email); err != nil {
		return session.Tokens{}, err
	}
	return tokens, nil
}

// SignIn authenticates with a password. An account rejected only for an
// unconfirmed email is confirmed once and tried again. When the confirmation
// itself fails the original sign-in error is returned.
func (s *SessionService) SignIn(ctx context.Context, email, password string) (session.Tokens, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.SignIn")
	defer span.End()

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return session.Tokens{}, &ValidationError{Fields: missingCredentials(email, password)}
	}

	var signInErr error
	step := stepAuthenticate
	for {
		switch step {
		case stepAuthenticate, stepRetry:
			tokens, err := s.provider.SignInWithPassword(ctx, email, password)
			if err == nil {
				if err := s.persist(ctx, tokens, email); err != nil {
					return session.Tokens{}, err
				}
				return tokens, nil
			}
			if step == stepRetry || !session.IsEmailNotConfirmed(err) {
				return session.Tokens{}, err
			}
			signInErr = err
			step = stepVerify

		case stepVerify:
			s.logger.InfoContext(ctx, "email not confirmed, confirming signup", "email", email)
			if err := s.provider.VerifySignup(ctx, email); err != nil {
				s.logger.WarnContext(ctx, "confirm signup failed", "email", email, "error", err)
				return session.Tokens{}, signInErr
			}
			step = stepRetry
		}
	}
}

// SignOut ends the session. Local state is always cleared; a backend
// failure is returned afterwards.
func (s *SessionService) SignOut(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.SignOut")
	defer span.End()

	s.mu.RLock()
	token := s.accessToken
	s.mu.RUnlock()

	var remoteErr error
	if token != "" {
		remoteErr = s.provider.SignOut(ctx, token)
		if remoteErr != nil {
			s.logger.WarnContext(ctx, "backend sign out failed, clearing local session anyway", "error", remoteErr)
		}
	}

	s.mu.Lock()
	s.accessToken = ""
	s.refreshToken = ""
	s.user = nil
	s.mu.Unlock()

	var localErr error
	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyUser} {
		if err := s.store.Remove(ctx, key); err != nil {
			localErr = crerr.CombineErrors(localErr, err)
		}
	}
	if localErr != nil {
		s.logger.WarnContext(ctx, "clear cached session failed", "error", localErr)
	}

	return crerr.CombineErrors(remoteErr, localErr)
}

// CurrentUser returns the cached user, asking the backend only when none is
// cached. Concurrent lookups share one request.
func (s *SessionService) CurrentUser(ctx context.Context) (session.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.CurrentUser")
	defer span.End()

	s.mu.RLock()
	token := s.accessToken
	cached := s.user
	s.mu.RUnlock()

	if token == "" {
		return session.User{}, &session.AuthError{
			StatusCode: http.StatusUnauthorized,
			Message:    MessageNotAuthenticated,
			Err:        ErrUnauthorized,
		}
	}
	if cached != nil {
		return *cached, nil
	}

	user, err, _ := s.userFlight.Do(token, func() (session.User, error) {
		return s.provider.User(ctx, token)
	})
	if err != nil {
		return session.User{}, err
	}

	if err := s.storeUser(ctx, token, user); err != nil {
		s.logger.WarnContext(ctx, "cache current user failed", "error", err)
	}
	return user, nil
}

func (s *SessionService) ResetPassword(ctx context.Context, email string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.ResetPassword")
	defer span.End()

	email = strings.TrimSpace(email)
	if email == "" {
		return &ValidationError{Fields: map[string]string{"email": "required"}}
	}
	return s.provider.Recover(ctx, email)
}

// AccessToken returns the bearer token of the current session.
func (s *SessionService) AccessToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, s.accessToken != ""
}

func (s *SessionService) persist(ctx context.Context, tokens session.Tokens, email string) error {
	user := session.User{ID: session.UnknownUserID, Email: email}
	if tokens.User != nil {
		user = *tokens.User
		if user.ID == "" {
			user.ID = session.UnknownUserID
		}
		if user.Email == "" {
			user.Email = email
		}
	}
	rawUser, err := sonic.MarshalString(user)
	if err != nil {
		return crerr.Wrap(err, "encode session user")
	}

	if err := s.store.Set(ctx, KeyAccessToken, tokens.AccessToken); err != nil {
		return crerr.Wrap(err, "store access token")
	}
	if tokens.RefreshToken != "" {
		err = s.store.Set(ctx, KeyRefreshToken, tokens.RefreshToken)
	} else {
		err = s.store.Remove(ctx, KeyRefreshToken)
	}
	if err != nil {
		return crerr.Wrap(err, "store refresh token")
	}
	if err := s.store.Set(ctx, KeyUser, rawUser); err != nil {
		return crerr.Wrap(err, "store session user")
	}

	s.mu.Lock()
	s.accessToken = tokens.AccessToken
	s.refreshToken = tokens.RefreshToken
	s.user = &user
	s.mu.Unlock()
	return nil
}

// storeUser caches user unless the session changed while it was fetched.
func (s *SessionService) storeUser(ctx context.Context, token string, user session.User) error {
	s.mu.Lock()
	if s.accessToken != token {
		s.mu.Unlock()
		return nil
	}
	u := user
	s.user = &u
	s.mu.Unlock()

	raw, err := sonic.MarshalString(user)
	if err != nil {
		return crerr.Wrap(err, "encode session user")
	}
	return s.store.Set(ctx, KeyUser, raw)
}

func missingCredentials(email, password string) map[string]string {
	fields := make(map[string]string, 2)
	if email == "" {
		fields["email"] = "required"
	}
	if password == "" {
		fields["password"] = "required"
	}
	return fields
}
