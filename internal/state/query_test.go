package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueryStoreMissingFileUsesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modQuery.json")

	store := NewQueryStore(path, DefaultModQuery)
	require.Equal(t, DefaultModQuery(), store.Get())
}

func TestQueryStoreMalformedFileUsesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modQuery.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	store := NewQueryStore(path, DefaultModQuery)
	require.Equal(t, DefaultModQuery(), store.Get())
}

func TestQueryStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modQuery.json")

	store := NewQueryStore(path, DefaultModQuery)
	query := store.Get()
	query.SearchTerm = "BepInEx"
	query.IncludeDeprecated = true
	store.Set(query)

	reloaded := NewQueryStore(path, DefaultModQuery)
	require.Equal(t, query, reloaded.Get())
}

func TestQueryStoreResetRestoresDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profileQuery.json")

	store := NewQueryStore(path, DefaultProfileQuery)
	query := store.Get()
	query.SearchTerm = "hookgen"
	query.IncludeEnabled = false
	store.Set(query)
	store.Reset()

	require.Equal(t, DefaultProfileQuery(), store.Get())

	reloaded := NewQueryStore(path, DefaultProfileQuery)
	require.Equal(t, DefaultProfileQuery(), reloaded.Get())
}

func TestQueryStoreBackfillsIncludeEnabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profileQuery.json")
	stale := `{"searchTerm":"api","includeCategories":[],"excludeCategories":[],` +
		`"includeNsfw":true,"includeDeprecated":true,"includeDisabled":true,` +
		`"sortBy":"custom","sortOrder":"descending"}`
	require.NoError(t, os.WriteFile(path, []byte(stale), 0600))

	store := NewQueryStore(path, DefaultProfileQuery)
	require.True(t, store.Get().IncludeEnabled)
	require.Equal(t, "api", store.Get().SearchTerm)
}

func TestQueryStoreInMemoryWithoutPath(t *testing.T) {
	store := NewQueryStore("", DefaultModQuery)
	query := store.Get()
	query.SearchTerm = "in memory"
	store.Set(query)
	require.Equal(t, query, store.Get())
}

func TestSetActiveGameResetsQueries(t *testing.T) {
	app := New(&stubInvoker{}, nil, "")

	query := app.ModQuery.Get()
	query.SearchTerm = "lethal"
	app.ModQuery.Set(query)

	profileQuery := app.ProfileQuery.Get()
	profileQuery.IncludeDisabled = false
	app.ProfileQuery.Set(profileQuery)

	require.NoError(t, app.SetActiveGame(t.Context(), "lethal-company"))

	require.Equal(t, DefaultModQuery(), app.ModQuery.Get())
	require.Equal(t, DefaultProfileQuery(), app.ProfileQuery.Get())
}
