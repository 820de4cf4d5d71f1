package api

import (
	"context"

	"github.com/Kesomannen/gale/internal/backend"
	"github.com/Kesomannen/gale/internal/bridge"
	"github.com/Kesomannen/gale/pkg/types"
)

// GetPrefs fetches the whole preference document.
func GetPrefs(ctx context.Context, inv bridge.Invoker) (types.Prefs, error) {
	return bridge.Invoke[types.Prefs](ctx, inv, backend.CmdGetPrefs, nil)
}

// SetPrefs writes the whole preference document back. Last writer wins;
// there is no optimistic-concurrency check on this document.
func SetPrefs(ctx context.Context, inv bridge.Invoker, value types.Prefs) error {
	return inv.Invoke(ctx, backend.CmdSetPrefs, map[string]any{"value": value}, nil)
}

// UpdatePrefs applies mutate to a fresh copy of the preference document and
// writes it back (read-modify-write, no partial update protocol).
func UpdatePrefs(ctx context.Context, inv bridge.Invoker, mutate func(*types.Prefs)) (types.Prefs, error) {
	prefs, err := GetPrefs(ctx, inv)
	if err != nil {
		return types.Prefs{}, err
	}
	mutate(&prefs)
	if err := SetPrefs(ctx, inv, prefs); err != nil {
		return types.Prefs{}, err
	}
	return prefs, nil
}

// SetZoomFactor persists a new zoom factor and applies it to the window.
func SetZoomFactor(ctx context.Context, inv bridge.Invoker, factor float64) error {
	if _, err := UpdatePrefs(ctx, inv, func(p *types.Prefs) {
		p.ZoomFactor = factor
	}); err != nil {
		return err
	}
	return ZoomWindow(ctx, inv, types.Zoom{Factor: &factor})
}

// SetLanguage persists a new UI language.
func SetLanguage(ctx context.Context, inv bridge.Invoker, language string) error {
	_, err := UpdatePrefs(ctx, inv, func(p *types.Prefs) {
		p.Language = language
	})
	return err
}

// ZoomWindow adjusts the window zoom without touching persisted prefs.
func ZoomWindow(ctx context.Context, inv bridge.Invoker, value types.Zoom) error {
	return inv.Invoke(ctx, backend.CmdZoomWindow, map[string]any{"value": value}, nil)
}
