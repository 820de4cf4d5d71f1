package state

import (
	"context"
	"sync"

	"github.com/Kesomannen/gale/internal/api"
	"github.com/Kesomannen/gale/internal/bridge"
	"github.com/Kesomannen/gale/pkg/types"
)

// ProfileStore tracks the profile list and the active profile.
type ProfileStore struct {
	inv  bridge.Invoker
	auth *AuthStore

	mu         sync.Mutex
	refreshing bool
	list       []types.ProfileInfo
	activeID   int64
}

func newProfileStore(inv bridge.Invoker, auth *AuthStore) *ProfileStore {
	return &ProfileStore{inv: inv, auth: auth}
}

// Refresh reloads the profile list from the backend. A call while another
// refresh is in flight is a no-op.
func (s *ProfileStore) Refresh(ctx context.Context) error {
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

	info, err := api.GetProfileInfo(ctx, s.inv)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.list = info.Profiles
	s.activeID = info.ActiveID
	s.mu.Unlock()
	return nil
}

// SetActive switches the active profile by list index.
//
// The reload is two-phase on purpose: first make local state consistent
// with the switch, then, if the newly active profile is linked to a cloud
// copy, reconcile its sync metadata and reload again.
func (s *ProfileStore) SetActive(ctx context.Context, index int) error {
	if err := api.SetActiveProfile(ctx, s.inv, index); err != nil {
		return err
	}
	if err := s.Refresh(ctx); err != nil {
		return err
	}

	active := s.Active()
	if active == nil || active.Sync == nil {
		return nil
	}

	if err := api.FetchSyncProfile(ctx, s.inv); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// ApplyUpdate replaces the cached record for a profile pushed by the
// backend, but only when it refers to the currently active profile; updates
// for other profiles are ignored.
func (s *ProfileStore) ApplyUpdate(info types.ProfileInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if info.ID != s.activeID {
		return
	}
	for i := range s.list {
		if s.list[i].ID == info.ID {
			s.list[i] = info
			return
		}
	}
}

// Active returns the active profile, or nil if none is active.
func (s *ProfileStore) Active() *types.ProfileInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.list {
		if s.list[i].ID == s.activeID {
			profile := s.list[i]
			return &profile
		}
	}
	return nil
}

// List returns a copy of the profile list.
func (s *ProfileStore) List() []types.ProfileInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ProfileInfo, len(s.list))
	copy(out, s.list)
	return out
}

// ActiveLocked reports whether the active profile belongs to someone else's
// sync account. It is computed from live profile and user state on every
// call, never cached, so it is correct immediately after a logout.
func (s *ProfileStore) ActiveLocked() bool {
	active := s.Active()
	if active == nil || active.Sync == nil {
		return false
	}
	user := s.auth.User()
	if user == nil {
		return true
	}
	return active.Sync.Owner.DiscordID != user.DiscordID
}
