package cms

import (
	"context"
	"sort"
	"sync"
)

// ListFilter narrows Store.List. Zero values match everything.
type ListFilter struct {
	Category string
	Status   Status
}

func (f ListFilter) match(p Page) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	return true
}

// Store persists pages. Implementations return ErrNotFound for unknown pages
// and ErrConflict when Save would duplicate (category, slug).
type Store interface {
	Get(ctx context.Context, category, slug string) (Page, error)
	GetByID(ctx context.Context, id string) (Page, error)
	List(ctx context.Context, filter ListFilter) ([]Page, error)
	Save(ctx context.Context, p Page) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps pages in process memory. It backs development runs
// without DATABASE_URL and the tests.
type MemoryStore struct {
	mu    sync.RWMutex
	pages map[string]Page
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pages: map[string]Page{}}
}

func (s *MemoryStore) Get(_ context.Context, category, slug string) (Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.pages {
		if p.Category == category && p.Slug == slug {
			return clonePage(p), nil
		}
	}
	return Page{}, ErrNotFound
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pages[id]
	if !ok {
		return Page{}, ErrNotFound
	}
	return clonePage(p), nil
}

func (s *MemoryStore) List(_ context.Context, filter ListFilter) ([]Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Page, 0, len(s.pages))
	for _, p := range s.pages {
		if filter.match(p) {
			out = append(out, clonePage(p))
		}
	}
	sortPages(out)
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, p Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, other := range s.pages {
		if id != p.ID && other.Category == p.Category && other.Slug == p.Slug {
			return ErrConflict
		}
	}
	s.pages[p.ID] = clonePage(p)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pages[id]; !ok {
		return ErrNotFound
	}
	delete(s.pages, id)
	return nil
}

func sortPages(pages []Page) {
	sort.Slice(pages, func(i, j int) bool {
		if pages[i].Category != pages[j].Category {
			return pages[i].Category < pages[j].Category
		}
		return pages[i].Slug < pages[j].Slug
	})
}
