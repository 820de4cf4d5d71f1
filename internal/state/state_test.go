package state

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Kesomannen/gale/internal/backend"
	"github.com/Kesomannen/gale/pkg/types"
)

// stubInvoker replays canned replies per command and records the order
// commands were issued in.
type stubInvoker struct {
	mu    sync.Mutex
	calls []string

	gameInfo types.GameInfo
	profiles types.ProfilesInfo
	user     *types.SyncUser
	login    types.SyncLogin
	update   *types.AppUpdate

	// block, if set, is closed-over per command: the invoker signals
	// entered and waits for release before replying.
	block    string
	entered  chan struct{}
	release  chan struct{}
	blockOne sync.Once
}

func (s *stubInvoker) Invoke(ctx context.Context, command string, args map[string]any, out any) error {
	s.mu.Lock()
	s.calls = append(s.calls, command)
	s.mu.Unlock()

	if command == s.block {
		s.blockOne.Do(func() {
			close(s.entered)
			<-s.release
		})
	}

	switch command {
	case backend.CmdGetGameInfo:
		*out.(*types.GameInfo) = s.gameInfo
	case backend.CmdGetProfileInfo:
		*out.(*types.ProfilesInfo) = s.profiles
	case backend.CmdGetUser:
		*out.(**types.SyncUser) = s.user
	case backend.CmdLogin:
		*out.(*types.SyncLogin) = s.login
	case backend.CmdCheckAppUpdate:
		*out.(**types.AppUpdate) = s.update
	}
	return nil
}

func (s *stubInvoker) commandCalls(command string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c == command {
			n++
		}
	}
	return n
}

func (s *stubInvoker) callOrder() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

func syncedProfile(id int64, ownerDiscordID string) types.ProfileInfo {
	return types.ProfileInfo{
		ID:       id,
		Name:     "Synced",
		ModCount: 4,
		Sync: &types.SyncProfileInfo{
			ID:    "sp-1",
			Owner: types.SyncUser{DiscordID: ownerDiscordID, Name: "owner"},
		},
	}
}

func TestGameRefreshFoldsFavorites(t *testing.T) {
	inv := &stubInvoker{
		gameInfo: types.GameInfo{
			Active: &types.Game{Name: "Lethal Company", Slug: "lethal-company"},
			All: []types.Game{
				{Name: "Lethal Company", Slug: "lethal-company"},
				{Name: "Risk of Rain 2", Slug: "riskofrain2"},
			},
			Favorites: []string{"riskofrain2"},
		},
	}
	app := New(inv, nil, "")

	require.NoError(t, app.Games.Refresh(context.Background()))

	list := app.Games.List()
	require.Len(t, list, 2)
	require.False(t, list[0].Favorite)
	require.True(t, list[1].Favorite)
	require.NotNil(t, app.Games.Active())
	require.Equal(t, "lethal-company", app.Games.Active().Slug)
}

func TestGameRefreshCollapsesConcurrentCalls(t *testing.T) {
	inv := &stubInvoker{
		block:   backend.CmdGetGameInfo,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	app := New(inv, nil, "")

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- app.Games.Refresh(context.Background())
	}()
	<-inv.entered

	// A second refresh while the first is in flight is a no-op, not a
	// second backend round trip.
	require.NoError(t, app.Games.Refresh(context.Background()))
	require.Equal(t, 1, inv.commandCalls(backend.CmdGetGameInfo))

	close(inv.release)
	require.NoError(t, <-firstDone)
	require.Equal(t, 1, inv.commandCalls(backend.CmdGetGameInfo))
}

type failingCategories struct{ calls int }

func (f *failingCategories) Categories(ctx context.Context, community string) ([]types.PackageCategory, error) {
	f.calls++
	return nil, context.DeadlineExceeded
}

func TestCategoryFetchFailureDegradesSilently(t *testing.T) {
	inv := &stubInvoker{
		gameInfo: types.GameInfo{Active: &types.Game{Slug: "valheim"}},
	}
	fetcher := &failingCategories{}
	app := New(inv, fetcher, "")

	// A category fetch failure is non-essential: the refresh still
	// succeeds and the section just shows no data.
	require.NoError(t, app.Games.Refresh(context.Background()))
	require.Equal(t, 1, fetcher.calls)
	require.Empty(t, app.Games.Categories())
}

func TestSetActiveProfilePlainIsSinglePhase(t *testing.T) {
	inv := &stubInvoker{
		profiles: types.ProfilesInfo{
			ActiveID: 2,
			Profiles: []types.ProfileInfo{{ID: 1, Name: "Default"}, {ID: 2, Name: "Modded"}},
		},
	}
	app := New(inv, nil, "")

	require.NoError(t, app.Profiles.SetActive(context.Background(), 1))

	require.Equal(t, []string{
		backend.CmdSetActiveProfile,
		backend.CmdGetProfileInfo,
	}, inv.callOrder())
}

func TestSetActiveProfileSyncedIsTwoPhase(t *testing.T) {
	inv := &stubInvoker{
		profiles: types.ProfilesInfo{
			ActiveID: 2,
			Profiles: []types.ProfileInfo{{ID: 1, Name: "Default"}, syncedProfile(2, "owner-1")},
		},
	}
	app := New(inv, nil, "")

	require.NoError(t, app.Profiles.SetActive(context.Background(), 1))

	// Switch, reload, reconcile with the cloud copy, reload again.
	require.Equal(t, []string{
		backend.CmdSetActiveProfile,
		backend.CmdGetProfileInfo,
		backend.CmdFetchSyncProfile,
		backend.CmdGetProfileInfo,
	}, inv.callOrder())
}

func TestActiveLockedDerivation(t *testing.T) {
	inv := &stubInvoker{
		profiles: types.ProfilesInfo{
			ActiveID: 2,
			Profiles: []types.ProfileInfo{{ID: 1, Name: "Default"}, syncedProfile(2, "owner-1")},
		},
		user: &types.SyncUser{DiscordID: "owner-1"},
	}
	app := New(inv, nil, "")
	ctx := context.Background()

	// No profiles loaded yet: not locked.
	require.False(t, app.Profiles.ActiveLocked())

	require.NoError(t, app.Profiles.Refresh(ctx))

	// Synced profile but nobody signed in: locked.
	require.True(t, app.Profiles.ActiveLocked())

	// Signed in as the owner: unlocked.
	require.NoError(t, app.Auth.Refresh(ctx))
	require.False(t, app.Profiles.ActiveLocked())

	// Lock state reflects a logout immediately, without a profile
	// refresh, because it is derived at read time.
	require.NoError(t, app.Auth.Logout(ctx))
	require.True(t, app.Profiles.ActiveLocked())
}

func TestActiveLockedForeignOwner(t *testing.T) {
	inv := &stubInvoker{
		profiles: types.ProfilesInfo{
			ActiveID: 2,
			Profiles: []types.ProfileInfo{syncedProfile(2, "someone-else")},
		},
		user: &types.SyncUser{DiscordID: "me"},
	}
	app := New(inv, nil, "")
	ctx := context.Background()

	require.NoError(t, app.Profiles.Refresh(ctx))
	require.NoError(t, app.Auth.Refresh(ctx))
	require.True(t, app.Profiles.ActiveLocked())
}

func TestApplyUpdateOnlyTouchesActiveProfile(t *testing.T) {
	inv := &stubInvoker{
		profiles: types.ProfilesInfo{
			ActiveID: 2,
			Profiles: []types.ProfileInfo{{ID: 1, Name: "Default"}, {ID: 2, Name: "Modded", ModCount: 3}},
		},
	}
	app := New(inv, nil, "")
	require.NoError(t, app.Profiles.Refresh(context.Background()))

	// An update for a profile that is not active is ignored: it may refer
	// to a profile not currently displayed.
	app.Profiles.ApplyUpdate(types.ProfileInfo{ID: 1, Name: "Renamed", ModCount: 9})
	require.Equal(t, "Default", app.Profiles.List()[0].Name)

	app.Profiles.ApplyUpdate(types.ProfileInfo{ID: 2, Name: "Modded", ModCount: 4})
	require.Equal(t, 4, app.Profiles.Active().ModCount)
}

func TestLoginCachesUserAndToken(t *testing.T) {
	inv := &stubInvoker{
		login: types.SyncLogin{
			User:        types.SyncUser{DiscordID: "me", DisplayName: "Me"},
			AccessToken: "not-a-jwt",
		},
	}
	app := New(inv, nil, "")

	login, err := app.Auth.Login(context.Background())
	require.NoError(t, err)
	require.Equal(t, "me", login.User.DiscordID)
	require.NotNil(t, app.Auth.User())
	require.Equal(t, "Me", app.Auth.User().DisplayName)
	// Malformed token: no exp claim to act on.
	require.False(t, app.Auth.TokenExpiringSoon())
}

func TestPendingDeviceLoginDoesNotCacheUser(t *testing.T) {
	inv := &stubInvoker{
		login: types.SyncLogin{VerificationURL: "https://sync.example/link/abc"},
	}
	app := New(inv, nil, "")

	login, err := app.Auth.Login(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, login.VerificationURL)
	require.Nil(t, app.Auth.User())
}

func TestUpdateRefreshCollapses(t *testing.T) {
	inv := &stubInvoker{
		block:   backend.CmdCheckAppUpdate,
		entered: make(chan struct{}),
		release: make(chan struct{}),
		update:  &types.AppUpdate{Version: "1.2.0"},
	}
	app := New(inv, nil, "")

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- app.Updates.Refresh(context.Background())
	}()
	<-inv.entered
	require.True(t, app.Updates.IsChecking())

	require.NoError(t, app.Updates.Refresh(context.Background()))
	require.Equal(t, 1, inv.commandCalls(backend.CmdCheckAppUpdate))

	close(inv.release)
	require.NoError(t, <-firstDone)
	require.False(t, app.Updates.IsChecking())
	require.NotNil(t, app.Updates.Next())
	require.Equal(t, "1.2.0", app.Updates.Next().Version)
}

func TestLoadingBarPartialMerge(t *testing.T) {
	app := New(&stubInvoker{}, nil, "")

	app.Loading.Create("x", "Install")

	text := "Downloading"
	progress10 := 10.0
	app.Loading.Update("x", &text, &progress10)

	// Progress-only update: text stays untouched.
	progress50 := 50.0
	app.Loading.Update("x", nil, &progress50)

	bars := app.Loading.All()
	require.Len(t, bars, 1)
	require.Equal(t, "Install", bars[0].Title)
	require.NotNil(t, bars[0].Text)
	require.Equal(t, "Downloading", *bars[0].Text)
	require.NotNil(t, bars[0].Progress)
	require.Equal(t, 50.0, *bars[0].Progress)

	app.Loading.Close("x")
	require.Empty(t, app.Loading.All())
}

func TestLoadingBarsKeepInsertionOrder(t *testing.T) {
	app := New(&stubInvoker{}, nil, "")

	app.Loading.Create("a", "First")
	app.Loading.Create("b", "Second")
	app.Loading.Create("c", "Third")
	app.Loading.Close("b")

	bars := app.Loading.All()
	require.Len(t, bars, 2)
	require.Equal(t, "a", bars[0].ID)
	require.Equal(t, "c", bars[1].ID)
}

func TestFailedRefreshKeepsLastKnownGoodState(t *testing.T) {
	inv := &stubInvoker{
		profiles: types.ProfilesInfo{
			ActiveID: 1,
			Profiles: []types.ProfileInfo{{ID: 1, Name: "Default"}},
		},
	}
	app := New(inv, nil, "")
	ctx := context.Background()

	require.NoError(t, app.Profiles.Refresh(ctx))
	require.NotNil(t, app.Profiles.Active())

	// A refresh that fails leaves the previous state intact
	// (stale-but-available over empty-but-correct).
	failing := &failingInvoker{}
	app.Profiles.inv = failing
	require.Error(t, app.Profiles.Refresh(ctx))
	require.NotNil(t, app.Profiles.Active())
	require.Equal(t, "Default", app.Profiles.Active().Name)
}

type failingInvoker struct{}

func (f *failingInvoker) Invoke(ctx context.Context, command string, args map[string]any, out any) error {
	return &backend.CommandError{Command: command, Raw: "backend unavailable"}
}
