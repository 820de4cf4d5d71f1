// Package api wraps the backend command surface with typed helpers.
package api

import (
	"context"

	"github.com/Kesomannen/gale/internal/backend"
	"github.com/Kesomannen/gale/internal/bridge"
	"github.com/Kesomannen/gale/pkg/types"
)

// GetGameInfo fetches the active game and the full game list.
func GetGameInfo(ctx context.Context, inv bridge.Invoker) (types.GameInfo, error) {
	return bridge.Invoke[types.GameInfo](ctx, inv, backend.CmdGetGameInfo, nil)
}

// SetActiveGame switches the active game by slug.
func SetActiveGame(ctx context.Context, inv bridge.Invoker, slug string) error {
	return inv.Invoke(ctx, backend.CmdSetActiveGame, map[string]any{"slug": slug}, nil)
}

// GetProfileInfo fetches the profile list and the active profile id.
func GetProfileInfo(ctx context.Context, inv bridge.Invoker) (types.ProfilesInfo, error) {
	return bridge.Invoke[types.ProfilesInfo](ctx, inv, backend.CmdGetProfileInfo, nil)
}

// SetActiveProfile switches the active profile by list index.
func SetActiveProfile(ctx context.Context, inv bridge.Invoker, index int) error {
	return inv.Invoke(ctx, backend.CmdSetActiveProfile, map[string]any{"index": index}, nil)
}

// CheckAppUpdate asks the backend whether an application update is
// available. A nil result means the app is up to date.
func CheckAppUpdate(ctx context.Context, inv bridge.Invoker) (*types.AppUpdate, error) {
	return bridge.Invoke[*types.AppUpdate](ctx, inv, backend.CmdCheckAppUpdate, nil)
}

// OpenAppLog asks the backend to open its log file in the system viewer.
func OpenAppLog(ctx context.Context, inv bridge.Invoker) error {
	return inv.Invoke(ctx, backend.CmdOpenAppLog, nil, nil)
}

// GetSystemFonts lists fonts installed on the machine.
func GetSystemFonts(ctx context.Context, inv bridge.Invoker) ([]string, error) {
	return bridge.Invoke[[]string](ctx, inv, backend.CmdGetSystemFonts, nil)
}
