package state

import (
	"context"
	"slices"
	"sync"

	"github.com/Kesomannen/gale/internal/api"
	"github.com/Kesomannen/gale/internal/bridge"
	"github.com/Kesomannen/gale/pkg/logger"
	"github.com/Kesomannen/gale/pkg/types"
)

// GameStore tracks the active game, the full game list and the active
// community's package categories.
type GameStore struct {
	inv      bridge.Invoker
	fetcher  CategorySource
	profiles *ProfileStore

	mu         sync.Mutex
	refreshing bool
	active     *types.Game
	list       []types.Game
	categories []types.PackageCategory
}

func newGameStore(inv bridge.Invoker, fetcher CategorySource, profiles *ProfileStore) *GameStore {
	return &GameStore{inv: inv, fetcher: fetcher, profiles: profiles}
}

// Refresh reloads the game list from the backend and cascades into a
// category and profile refresh. A call while another refresh is in flight
// is a no-op.
func (s *GameStore) Refresh(ctx context.Context) error {
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

	info, err := api.GetGameInfo(ctx, s.inv)
	if err != nil {
		return err
	}

	// The backend reports favorites separately; fold them into the list.
	for i := range info.All {
		info.All[i].Favorite = slices.Contains(info.Favorites, info.All[i].Slug)
	}
	if info.Active != nil {
		info.Active.Favorite = slices.Contains(info.Favorites, info.Active.Slug)
	}

	s.mu.Lock()
	s.active = info.Active
	s.list = info.All
	s.mu.Unlock()

	s.refreshCategories(ctx)
	return s.profiles.Refresh(ctx)
}

// SetActive switches the active game and reloads dependent state.
func (s *GameStore) SetActive(ctx context.Context, slug string) error {
	if err := api.SetActiveGame(ctx, s.inv, slug); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// refreshCategories fetches the active community's categories. Failures
// are logged and otherwise ignored: category data is cosmetic and a fetch
// failure must not interrupt the user.
func (s *GameStore) refreshCategories(ctx context.Context) {
	if s.fetcher == nil {
		return
	}
	active := s.Active()
	if active == nil {
		return
	}

	categories, err := s.fetcher.Categories(ctx, active.Slug)
	if err != nil {
		logger.Warnf("failed to fetch categories for %s: %v", active.Slug, err)
		return
	}

	s.mu.Lock()
	s.categories = categories
	s.mu.Unlock()
}

// Active returns the active game, or nil before the first refresh.
func (s *GameStore) Active() *types.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil
	}
	game := *s.active
	return &game
}

// List returns a copy of the game list.
func (s *GameStore) List() []types.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Game, len(s.list))
	copy(out, s.list)
	return out
}

// Categories returns the active community's package categories.
func (s *GameStore) Categories() []types.PackageCategory {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.PackageCategory, len(s.categories))
	copy(out, s.categories)
	return out
}
