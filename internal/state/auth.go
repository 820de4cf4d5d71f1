package state

import (
	"context"
	"sync"
	"time"

	"github.com/Kesomannen/gale/internal/api"
	"github.com/Kesomannen/gale/internal/bridge"
	"github.com/Kesomannen/gale/pkg/types"
)

// tokenRefreshWindow is how soon before expiry we consider the sync token
// worth refreshing proactively.
const tokenRefreshWindow = 10 * time.Minute

// AuthStore tracks the signed-in sync user.
type AuthStore struct {
	inv bridge.Invoker

	mu          sync.Mutex
	refreshing  bool
	user        *types.SyncUser
	accessToken string
}

func newAuthStore(inv bridge.Invoker) *AuthStore {
	return &AuthStore{inv: inv}
}

// Refresh reloads the signed-in user from the backend. A call while
// another refresh is in flight is a no-op.
func (s *AuthStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.refreshing {
		s.mu.Unlock()
		return nil
	}
	s.refreshing = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.refreshing = false
		s.mu.Unlock()
	}()

	user, err := api.GetUser(ctx, s.inv)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return nil
}

// Login runs the backend login flow and caches the resulting user.
func (s *AuthStore) Login(ctx context.Context) (types.SyncLogin, error) {
	login, err := api.Login(ctx, s.inv)
	if err != nil {
		return types.SyncLogin{}, err
	}

	// In the device-code flow the reply only carries a verification URL;
	// the user is cached once the device is approved and Refresh sees it.
	if login.VerificationURL == "" {
		s.mu.Lock()
		user := login.User
		s.user = &user
		s.accessToken = login.AccessToken
		s.mu.Unlock()
	}
	return login, nil
}

// Logout signs out and clears the cached user. Other stores are not
// touched: anything derived from the user (profile lock state) recomputes
// from live state on its next read.
func (s *AuthStore) Logout(ctx context.Context) error {
	if err := api.Logout(ctx, s.inv); err != nil {
		return err
	}

	s.mu.Lock()
	s.user = nil
	s.accessToken = ""
	s.mu.Unlock()
	return nil
}

// User returns the signed-in user, or nil when logged out.
func (s *AuthStore) User() *types.SyncUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// TokenExpiringSoon reports whether the cached sync token is close enough
// to expiry that a re-login is worthwhile. Always false when logged out or
// when the backend did not share a token.
func (s *AuthStore) TokenExpiringSoon() bool {
	s.mu.Lock()
	token := s.accessToken
	s.mu.Unlock()
	if token == "" {
		return false
	}
	return types.TokenExpiringSoon(token, tokenRefreshWindow)
}
