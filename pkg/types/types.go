package types

import "encoding/json"

// Game is a single moddable game known to the backend.
type Game struct {
	Name      string   `json:"name"`
	Slug      string   `json:"slug"`
	Platforms []string `json:"platforms"`
	Favorite  bool     `json:"favorite"`
	ModLoader string   `json:"modLoader"`
	Popular   bool     `json:"popular"`
}

// GameInfo is the backend's reply to get_game_info.
type GameInfo struct {
	Active *Game `json:"active"`
	// All lists every supported game; Favorite flags are not set by the
	// backend and must be folded in from Favorites.
	All       []Game   `json:"all"`
	Favorites []string `json:"favorites"`
}

// SyncUser identifies an account on the profile sync service.
type SyncUser struct {
	DiscordID   string `json:"discordId"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
}

// SyncProfileInfo links a local profile to its cloud copy.
type SyncProfileInfo struct {
	ID        string   `json:"id"`
	Owner     SyncUser `json:"owner"`
	SyncedAt  string   `json:"syncedAt"`
	UpdatedAt string   `json:"updatedAt"`
}

// ProfileInfo is the list-view record for a local mod profile.
type ProfileInfo struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ModCount int    `json:"modCount"`
	// Sync is nil for profiles without a cloud copy.
	Sync *SyncProfileInfo `json:"sync"`
}

// ProfilesInfo is the backend's reply to get_profile_info.
type ProfilesInfo struct {
	Profiles []ProfileInfo `json:"profiles"`
	ActiveID int64         `json:"activeId"`
}

// ListedSyncProfile is one entry of get_owned_sync_profiles.
type ListedSyncProfile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Community string `json:"community"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// SyncLogin is the backend's reply to the login command.
type SyncLogin struct {
	User SyncUser `json:"user"`
	// AccessToken is the sync service JWT. It is held client-side only to
	// decide when a proactive re-login is worthwhile; the backend owns the
	// actual session.
	AccessToken string `json:"accessToken"`
	// VerificationURL is set when the user still has to approve the device
	// in a browser (device-code flow).
	VerificationURL string `json:"verificationUrl,omitempty"`
}

// SyncImportData is everything needed to import a sync profile locally.
// The manifest is kept raw; only the backend interprets it.
type SyncImportData struct {
	ID        string          `json:"id"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
	Owner     SyncUser        `json:"owner"`
	Manifest  json.RawMessage `json:"manifest"`
}

// AppUpdate describes an available application update.
type AppUpdate struct {
	Version string `json:"version"`
	Notes   string `json:"notes"`
	Date    string `json:"date"`
	URL     string `json:"url"`
}

// PackageCategory is a Thunderstore community category.
type PackageCategory struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// LoadingBar is a backend-driven progress indicator. Multiple bars may be
// live at once; insertion order is display order.
type LoadingBar struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	// Text and Progress are nil until the first update that sets them.
	Text     *string  `json:"text"`
	Progress *float64 `json:"progress"`
}

// ErrorRecord is a normalized user-facing error.
type ErrorRecord struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// GamePrefs holds per-game launch preferences.
type GamePrefs struct {
	DirOverride *string  `json:"dirOverride"`
	CustomArgs  []string `json:"customArgs"`
	LaunchMode  string   `json:"launchMode"`
	Platform    *string  `json:"platform"`
}

// Prefs is the whole persisted preference document. The client always
// fetches it wholesale, mutates a field and writes the whole document back;
// there is no partial update protocol.
type Prefs struct {
	DataDir                string               `json:"dataDir"`
	CacheDir               string               `json:"cacheDir"`
	Language               string               `json:"language"`
	SendTelemetry          bool                 `json:"sendTelemetry"`
	FetchModsAutomatically bool                 `json:"fetchModsAutomatically"`
	PullBeforeLaunch       bool                 `json:"pullBeforeLaunch"`
	ZoomFactor             float64              `json:"zoomFactor"`
	DefaultGameSlug        string               `json:"defaultGameSlug"`
	GamePrefs              map[string]GamePrefs `json:"gamePrefs"`
}

// QueryModsArgs filters and sorts a mod listing. It is cached locally
// between sessions.
type QueryModsArgs struct {
	SearchTerm        string   `json:"searchTerm"`
	IncludeCategories []string `json:"includeCategories"`
	ExcludeCategories []string `json:"excludeCategories"`
	IncludeNsfw       bool     `json:"includeNsfw"`
	IncludeDeprecated bool     `json:"includeDeprecated"`
	IncludeEnabled    bool     `json:"includeEnabled"`
	IncludeDisabled   bool     `json:"includeDisabled"`
	SortBy            string   `json:"sortBy"`
	SortOrder         string   `json:"sortOrder"`
}

// Zoom is the argument of the zoom_window command. Exactly one field
// should be set.
type Zoom struct {
	Delta  *float64 `json:"delta,omitempty"`
	Factor *float64 `json:"factor,omitempty"`
}
