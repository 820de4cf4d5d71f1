package state

import (
	"sync"

	"github.com/Kesomannen/gale/pkg/types"
)

// LoadingStore tracks backend-driven loading bars. Bars are keyed by an
// opaque id chosen by the backend; insertion order is display order.
type LoadingStore struct {
	mu   sync.Mutex
	bars []types.LoadingBar
}

func newLoadingStore() *LoadingStore {
	return &LoadingStore{}
}

// Create adds a new bar. Text and progress start unset.
func (s *LoadingStore) Create(id, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bars = append(s.bars, types.LoadingBar{ID: id, Title: title})
}

// Update merges a partial update into an existing bar: only fields present
// in the payload overwrite, absent fields leave the bar untouched. Unknown
// ids are ignored (the bar may already be closed).
func (s *LoadingStore) Update(id string, text *string, progress *float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bars {
		if s.bars[i].ID != id {
			continue
		}
		if text != nil {
			s.bars[i].Text = text
		}
		if progress != nil {
			s.bars[i].Progress = progress
		}
		return
	}
}

// Close removes a bar by id.
func (s *LoadingStore) Close(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bars {
		if s.bars[i].ID == id {
			s.bars = append(s.bars[:i], s.bars[i+1:]...)
			return
		}
	}
}

// All returns the live bars in display order.
func (s *LoadingStore) All() []types.LoadingBar {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.LoadingBar, len(s.bars))
	copy(out, s.bars)
	return out
}
