package cms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go-chi-calculators/internal/observability"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// PageInput is the editable part of a page, as sent by the admin API.
type PageInput struct {
	Category         string                 `json:"category"`
	Slug             string                 `json:"slug"`
	CalculatorRef    string                 `json:"calculator_ref"`
	CalculatorSource string                 `json:"calculator_source"`
	Translations     map[string]Translation `json:"translations"`
}

// Service owns the page lifecycle and caches published lookups.
type Service struct {
	store      Store
	ttl        time.Duration
	now        func() time.Time
	newID      func() string
	locales    map[string]struct{}
	calculator func(ref string) bool

	mu    sync.Mutex
	cache map[string]cacheEntry
	// gen is bumped by every invalidation. A lookup started under an older
	// generation does not write its result back.
	gen uint64
}

type cacheEntry struct {
	page    Page
	err     error
	expires time.Time
}

type Option func(*Service)

// WithCacheTTL sets how long published lookups are cached. Zero disables
// the cache.
func WithCacheTTL(d time.Duration) Option {
	return func(s *Service) { s.ttl = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the ULID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// WithLocales restricts translations to the served locales.
func WithLocales(locales []string) Option {
	return func(s *Service) {
		s.locales = make(map[string]struct{}, len(locales))
		for _, l := range locales {
			s.locales[l] = struct{}{}
		}
	}
}

// WithCalculatorCheck validates CalculatorRef against the built-in
// calculators.
func WithCalculatorCheck(exists func(ref string) bool) Option {
	return func(s *Service) { s.calculator = exists }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		ttl:   time.Minute,
		now:   time.Now,
		newID: func() string { return ulid.Make().String() },
		cache: map[string]cacheEntry{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new draft page.
func (s *Service) Create(ctx context.Context, in PageInput) (Page, error) {
	p, err := s.normalize(in)
	if err != nil {
		return Page{}, err
	}
	now := s.now().UTC()
	p.ID = s.newID()
	p.Status = StatusDraft
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.store.Save(ctx, p); err != nil {
		return Page{}, err
	}
	s.invalidate()
	observability.Logger.Info("cms page created",
		zap.String("page_id", p.ID),
		zap.String("category", p.Category),
		zap.String("slug", p.Slug),
	)
	return p, nil
}

// Update replaces the editable fields of page id. Status and timestamps are
// kept.
func (s *Service) Update(ctx context.Context, id string, in PageInput) (Page, error) {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Page{}, err
	}
	p, err := s.normalize(in)
	if err != nil {
		return Page{}, err
	}
	p.ID = current.ID
	p.Status = current.Status
	p.CreatedAt = current.CreatedAt
	p.PublishedAt = current.PublishedAt
	p.UpdatedAt = s.now().UTC()

	if err := s.store.Save(ctx, p); err != nil {
		return Page{}, err
	}
	s.invalidate()
	return p, nil
}

// Publish makes page id publicly visible.
func (s *Service) Publish(ctx context.Context, id string) (Page, error) {
	return s.setStatus(ctx, id, StatusPublished)
}

// Unpublish returns page id to draft.
func (s *Service) Unpublish(ctx context.Context, id string) (Page, error) {
	return s.setStatus(ctx, id, StatusDraft)
}

func (s *Service) setStatus(ctx context.Context, id string, status Status) (Page, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Page{}, err
	}
	if p.Status == status {
		return p, nil
	}
	now := s.now().UTC()
	p.Status = status
	p.UpdatedAt = now
	if status == StatusPublished {
		p.PublishedAt = &now
	} else {
		p.PublishedAt = nil
	}
	if err := s.store.Save(ctx, p); err != nil {
		return Page{}, err
	}
	s.invalidate()
	observability.Logger.Info("cms page status changed",
		zap.String("page_id", p.ID),
		zap.String("status", string(status)),
	)
	return p, nil
}

// Delete removes page id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate()
	observability.Logger.Info("cms page deleted", zap.String("page_id", id))
	return nil
}

// Get returns page id in any status.
func (s *Service) Get(ctx context.Context, id string) (Page, error) {
	return s.store.GetByID(ctx, id)
}

// List returns pages matching filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Page, error) {
	return s.store.List(ctx, filter)
}

// Published returns the published page for (category, slug). Drafts are
// reported as ErrNotFound. Results, including misses, are cached for the
// configured TTL.
func (s *Service) Published(ctx context.Context, category, slug string) (Page, error) {
	key := category + "/" + slug
	now := s.now()

	var gen uint64
	if s.ttl > 0 {
		s.mu.Lock()
		e, ok := s.cache[key]
		gen = s.gen
		s.mu.Unlock()
		if ok && now.Before(e.expires) {
			return clonePage(e.page), e.err
		}
	}

	p, err := s.store.Get(ctx, category, slug)
	if err == nil && !p.Published() {
		p, err = Page{}, ErrNotFound
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Page{}, err
	}

	if s.ttl > 0 {
		s.mu.Lock()
		if s.gen == gen {
			s.cache[key] = cacheEntry{page: clonePage(p), err: err, expires: now.Add(s.ttl)}
		}
		s.mu.Unlock()
	}
	return p, err
}

// PublishedPages lists every published page, for the sitemap.
func (s *Service) PublishedPages(ctx context.Context) ([]Page, error) {
	return s.store.List(ctx, ListFilter{Status: StatusPublished})
}

func (s *Service) invalidate() {
	s.mu.Lock()
	s.cache = map[string]cacheEntry{}
	s.gen++
	s.mu.Unlock()
}

func (s *Service) normalize(in PageInput) (Page, error) {
	p := Page{
		Category:         SanitizeSlug(in.Category),
		Slug:             SanitizeSlug(in.Slug),
		CalculatorRef:    strings.Trim(strings.ToLower(strings.TrimSpace(in.CalculatorRef)), "/"),
		CalculatorSource: strings.TrimSpace(in.CalculatorSource),
		Translations:     map[string]Translation{},
	}
	if p.Category == "" {
		return Page{}, fmt.Errorf("%w: category is required", ErrInvalid)
	}
	if p.Slug == "" {
		return Page{}, fmt.Errorf("%w: slug is required", ErrInvalid)
	}
	if p.CalculatorRef != "" && s.calculator != nil && !s.calculator(p.CalculatorRef) {
		return Page{}, fmt.Errorf("%w: unknown calculator %q", ErrInvalid, p.CalculatorRef)
	}

	for locale, t := range in.Translations {
		locale = strings.ToLower(strings.TrimSpace(locale))
		if locale == "" {
			continue
		}
		if s.locales != nil {
			if _, ok := s.locales[locale]; !ok {
				return Page{}, fmt.Errorf("%w: locale %q is not served", ErrInvalid, locale)
			}
		}
		t.Title = strings.TrimSpace(t.Title)
		t.Description = strings.TrimSpace(t.Description)
		t.Body = strings.TrimSpace(t.Body)
		if t.Title == "" {
			return Page{}, fmt.Errorf("%w: title is required for locale %q", ErrInvalid, locale)
		}
		faq := make([]FAQItem, 0, len(t.FAQ))
		for _, item := range t.FAQ {
			item.Question = strings.TrimSpace(item.Question)
			item.Answer = strings.TrimSpace(item.Answer)
			if item.Question == "" || item.Answer == "" {
				continue
			}
			faq = append(faq, item)
		}
		t.FAQ = faq
		p.Translations[locale] = t
	}
	if len(p.Translations) == 0 {
		return Page{}, fmt.Errorf("%w: at least one translation is required", ErrInvalid)
	}
	return p, nil
}

// SanitizeSlug lowercases s and keeps only letters, digits and single
// dashes. Anything else becomes a dash.
func SanitizeSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
