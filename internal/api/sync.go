package api

import (
	"context"

	"github.com/Kesomannen/gale/internal/backend"
	"github.com/Kesomannen/gale/internal/bridge"
	"github.com/Kesomannen/gale/pkg/types"
)

// Login starts the sync service login flow. The backend drives the actual
// OAuth exchange; the reply carries the signed-in user and, for the
// device-code flow, a verification URL the user still has to open.
func Login(ctx context.Context, inv bridge.Invoker) (types.SyncLogin, error) {
	return bridge.Invoke[types.SyncLogin](ctx, inv, backend.CmdLogin, nil)
}

// Logout signs out of the sync service.
func Logout(ctx context.Context, inv bridge.Invoker) error {
	return inv.Invoke(ctx, backend.CmdLogout, nil, nil)
}

// GetUser returns the signed-in sync user, or nil when logged out.
func GetUser(ctx context.Context, inv bridge.Invoker) (*types.SyncUser, error) {
	return bridge.Invoke[*types.SyncUser](ctx, inv, backend.CmdGetUser, nil)
}

// CreateSyncProfile uploads the active profile and returns its sync id.
func CreateSyncProfile(ctx context.Context, inv bridge.Invoker) (string, error) {
	return bridge.Invoke[string](ctx, inv, backend.CmdCreateSyncProfile, nil)
}

// ReadSyncProfile fetches a sync profile's import data by id.
func ReadSyncProfile(ctx context.Context, inv bridge.Invoker, id string) (types.SyncImportData, error) {
	return bridge.Invoke[types.SyncImportData](ctx, inv, backend.CmdReadSyncProfile, map[string]any{"id": id})
}

// CloneSyncProfile imports someone else's sync profile under a new name.
func CloneSyncProfile(ctx context.Context, inv bridge.Invoker, id, name string) error {
	return inv.Invoke(ctx, backend.CmdCloneSyncProfile, map[string]any{"id": id, "name": name}, nil)
}

// FetchSyncProfile refreshes the active profile's sync metadata from the
// cloud copy without pulling any mods.
func FetchSyncProfile(ctx context.Context, inv bridge.Invoker) error {
	return inv.Invoke(ctx, backend.CmdFetchSyncProfile, nil, nil)
}

// PullSyncProfile replaces the active profile's contents with the cloud copy.
func PullSyncProfile(ctx context.Context, inv bridge.Invoker) error {
	return inv.Invoke(ctx, backend.CmdPullSyncProfile, nil, nil)
}

// PushSyncProfile uploads the active profile's contents to the cloud copy.
func PushSyncProfile(ctx context.Context, inv bridge.Invoker) error {
	return inv.Invoke(ctx, backend.CmdPushSyncProfile, nil, nil)
}

// DisconnectSyncProfile unlinks the active profile from its cloud copy,
// optionally deleting the remote side.
func DisconnectSyncProfile(ctx context.Context, inv bridge.Invoker, del bool) error {
	return inv.Invoke(ctx, backend.CmdDisconnectSyncProfile, map[string]any{"delete": del}, nil)
}

// DeleteSyncProfile deletes a sync profile by id.
func DeleteSyncProfile(ctx context.Context, inv bridge.Invoker, id string) error {
	return inv.Invoke(ctx, backend.CmdDeleteSyncProfile, map[string]any{"id": id}, nil)
}

// GetOwnedSyncProfiles lists sync profiles owned by the signed-in user.
func GetOwnedSyncProfiles(ctx context.Context, inv bridge.Invoker) ([]types.ListedSyncProfile, error) {
	return bridge.Invoke[[]types.ListedSyncProfile](ctx, inv, backend.CmdGetOwnedSyncProfiles, nil)
}
