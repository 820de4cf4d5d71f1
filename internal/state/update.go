package state

import (
	"context"
	"sync"

	"github.com/Kesomannen/gale/internal/api"
	"github.com/Kesomannen/gale/internal/bridge"
	"github.com/Kesomannen/gale/pkg/types"
)

// UpdateStore tracks whether an application update is available.
type UpdateStore struct {
	inv bridge.Invoker

	mu              sync.Mutex
	checking        bool
	next            *types.AppUpdate
	bannerThreshold int
}

func newUpdateStore(inv bridge.Invoker) *UpdateStore {
	return &UpdateStore{inv: inv}
}

// Refresh asks the backend for an available update. A call while a check
// is already running is a no-op.
func (s *UpdateStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.checking {
		s.mu.Unlock()
		return nil
	}
	s.checking = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.checking = false
		s.mu.Unlock()
	}()

	next, err := api.CheckAppUpdate(ctx, s.inv)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.next = next
	s.mu.Unlock()
	return nil
}

// Next returns the available update, or nil when up to date.
func (s *UpdateStore) Next() *types.AppUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next == nil {
		return nil
	}
	update := *s.next
	return &update
}

// IsChecking reports whether a check is in flight.
func (s *UpdateStore) IsChecking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checking
}

// BannerThreshold returns how many times the update banner has been
// dismissed this session.
func (s *UpdateStore) BannerThreshold() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bannerThreshold
}

// BumpBannerThreshold records another dismissal of the update banner.
func (s *UpdateStore) BumpBannerThreshold() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bannerThreshold++
}
