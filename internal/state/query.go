package state

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/Kesomannen/gale/pkg/logger"
	"github.com/Kesomannen/gale/pkg/types"
)

// QueryStore persists a mod-list query between sessions. Malformed or
// missing cached data is replaced with the documented default, never
// propagated as an error.
type QueryStore struct {
	mu    sync.Mutex
	path  string
	value types.QueryModsArgs
	def   func() types.QueryModsArgs
}

// NewQueryStore loads the cached query from path, falling back to the
// default on any read or parse failure. An empty path keeps the query
// in memory only.
func NewQueryStore(path string, def func() types.QueryModsArgs) *QueryStore {
	s := &QueryStore{path: path, def: def, value: def()}
	s.load()
	return s
}

func (s *QueryStore) load() {
	if s.path == "" {
		return
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}

	var value types.QueryModsArgs
	if err := json.Unmarshal(data, &value); err != nil {
		logger.Errorf("failed to parse stored query: %v", err)
		return
	}

	// Older caches predate includeEnabled; treat absence as true.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err == nil {
		if _, ok := probe["includeEnabled"]; !ok {
			value.IncludeEnabled = true
		}
	}

	s.value = value
}

// Get returns the current query.
func (s *QueryStore) Get() types.QueryModsArgs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set replaces the query and persists it. Persistence failures are
// logged and otherwise ignored.
func (s *QueryStore) Set(value types.QueryModsArgs) {
	s.mu.Lock()
	s.value = value
	path := s.path
	s.mu.Unlock()

	if path == "" {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		logger.Errorf("failed to encode query: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		logger.Errorf("failed to store query: %v", err)
	}
}

// Reset restores and persists the default query.
func (s *QueryStore) Reset() {
	s.Set(s.def())
}

// DefaultModQuery is the query used for browsing new mods.
func DefaultModQuery() types.QueryModsArgs {
	return types.QueryModsArgs{
		IncludeCategories: []string{},
		ExcludeCategories: []string{},
		SortBy:            "lastUpdated",
		SortOrder:         "descending",
	}
}

// DefaultProfileQuery is the query used for the installed-mods list.
func DefaultProfileQuery() types.QueryModsArgs {
	return types.QueryModsArgs{
		IncludeCategories: []string{},
		ExcludeCategories: []string{},
		IncludeNsfw:       true,
		IncludeDeprecated: true,
		IncludeEnabled:    true,
		IncludeDisabled:   true,
		SortBy:            "custom",
		SortOrder:         "descending",
	}
}
