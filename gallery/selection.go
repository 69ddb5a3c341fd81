package gallery

import (
	"sync"

	"github.com/monumenta/mediasync/shared/domain"
)

// Selection is the set of asset ids the next bulk operation targets. It is
// owned state with a narrow mutation API, not an ambient variable shared with
// view code.
type Selection struct {
	mu  sync.Mutex
	ids domain.IdSet
}

func NewSelection() *Selection {
	return &Selection{ids: domain.NewIdSet()}
}

// Toggle flips one id and reports whether it is now selected.
func (s *Selection) Toggle(id domain.AssetId) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ids.Has(id) {
		delete(s.ids, id)
		return false
	}
	s.ids.Add(id)
	return true
}

func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = domain.NewIdSet()
}

func (s *Selection) Has(id domain.AssetId) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids.Has(id)
}

func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Ids returns a detached copy of the current selection.
func (s *Selection) Ids() domain.IdSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.NewIdSet(s.ids.Slice()...)
}
