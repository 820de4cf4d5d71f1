// Package state holds the client's reactive domain state: the active game,
// the profile list, the signed-in sync user, the update checker and live
// loading bars.
//
// All stores are owned by a single App constructed at startup and passed by
// reference; there are no package-level singletons. Failed refreshes keep
// the last-known-good state (stale-but-available over empty-but-correct).
package state

import (
	"context"
	"path/filepath"

	"github.com/Kesomannen/gale/internal/bridge"
	"github.com/Kesomannen/gale/pkg/types"
)

// CategorySource fetches community package categories. Implemented by
// thunderstore.Client; failures are non-essential and degrade silently.
type CategorySource interface {
	Categories(ctx context.Context, community string) ([]types.PackageCategory, error)
}

// App aggregates every domain store. One instance lives for the whole
// process.
type App struct {
	Games    *GameStore
	Profiles *ProfileStore
	Auth     *AuthStore
	Updates  *UpdateStore
	Loading  *LoadingStore

	ModQuery     *QueryStore
	ProfileQuery *QueryStore
}

// New wires up the domain stores. categories may be nil, in which case
// category refreshes are skipped. queryDir is where cached queries are
// persisted; empty keeps them in memory only.
func New(inv bridge.Invoker, categories CategorySource, queryDir string) *App {
	auth := newAuthStore(inv)
	profiles := newProfileStore(inv, auth)
	games := newGameStore(inv, categories, profiles)

	modQueryPath := ""
	profileQueryPath := ""
	if queryDir != "" {
		modQueryPath = filepath.Join(queryDir, "modQuery.json")
		profileQueryPath = filepath.Join(queryDir, "profileQuery.json")
	}

	return &App{
		Games:        games,
		Profiles:     profiles,
		Auth:         auth,
		Updates:      newUpdateStore(inv),
		Loading:      newLoadingStore(),
		ModQuery:     NewQueryStore(modQueryPath, DefaultModQuery),
		ProfileQuery: NewQueryStore(profileQueryPath, DefaultProfileQuery),
	}
}

// SetActiveGame switches the active game and resets the cached queries,
// since filters from one community rarely make sense in another.
func (a *App) SetActiveGame(ctx context.Context, slug string) error {
	if err := a.Games.SetActive(ctx, slug); err != nil {
		return err
	}
	a.ModQuery.Reset()
	a.ProfileQuery.Reset()
	return nil
}

// RefreshAll performs the startup refresh: games (which cascades into
// categories and profiles) and the signed-in user.
func (a *App) RefreshAll(ctx context.Context) error {
	if err := a.Games.Refresh(ctx); err != nil {
		return err
	}
	return a.Auth.Refresh(ctx)
}
