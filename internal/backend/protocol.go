package backend

// Command names understood by the native backend. These are added, removed
// and renamed in lockstep with the backend; there is no compatibility layer.
const (
	CmdGetGameInfo      = "get_game_info"
	CmdSetActiveGame    = "set_active_game"
	CmdGetProfileInfo   = "get_profile_info"
	CmdSetActiveProfile = "set_active_profile"

	CmdGetUser = "get_user"
	CmdLogin   = "login"
	CmdLogout  = "logout"

	CmdCreateSyncProfile     = "create_sync_profile"
	CmdReadSyncProfile       = "read_sync_profile"
	CmdCloneSyncProfile      = "clone_sync_profile"
	CmdFetchSyncProfile      = "fetch_sync_profile"
	CmdPullSyncProfile       = "pull_sync_profile"
	CmdPushSyncProfile       = "push_sync_profile"
	CmdDisconnectSyncProfile = "disconnect_sync_profile"
	CmdDeleteSyncProfile     = "delete_sync_profile"
	CmdGetOwnedSyncProfiles  = "get_owned_sync_profiles"

	CmdGetPrefs       = "get_prefs"
	CmdSetPrefs       = "set_prefs"
	CmdZoomWindow     = "zoom_window"
	CmdGetSystemFonts = "get_system_fonts"

	CmdCheckAppUpdate = "check_app_update"
	CmdOpenAppLog     = "open_gale_log"
	CmdLogErr         = "log_err"
)

// Event names pushed by the backend, not correlated to any request.
const (
	EventError            = "error"
	EventLoadingBarCreate = "loading-bar-create"
	EventLoadingBarUpdate = "loading-bar-update"
	EventLoadingBarClose  = "loading-bar-close"
	EventProfileUpdate    = "profile-update"
)
