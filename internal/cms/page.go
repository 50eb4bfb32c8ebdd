package cms

import (
	"errors"
	"sort"
	"time"
)

var (
	// ErrNotFound is returned when no page matches.
	ErrNotFound = errors.New("cms: page not found")
	// ErrConflict is returned when another page already owns (category, slug).
	ErrConflict = errors.New("cms: category and slug already in use")
	// ErrInvalid wraps every validation failure of a page input.
	ErrInvalid = errors.New("cms: invalid page")
)

// Status is the publication state of a page.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// FAQItem is one question and answer shown under a page.
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Translation is the copy of a page in one locale. Body is markdown.
type Translation struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Body        string    `json:"body"`
	FAQ         []FAQItem `json:"faq"`
}

// Page is a CMS document addressed by (Category, Slug). CalculatorRef names a
// built-in calculator as "category/slug"; CalculatorSource keeps raw source
// pasted by an editor and is only ever displayed.
type Page struct {
	ID               string                 `json:"id"`
	Category         string                 `json:"category"`
	Slug             string                 `json:"slug"`
	CalculatorRef    string                 `json:"calculator_ref,omitempty"`
	CalculatorSource string                 `json:"calculator_source,omitempty"`
	Status           Status                 `json:"status"`
	Translations     map[string]Translation `json:"translations"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
	PublishedAt      *time.Time             `json:"published_at,omitempty"`
}

// Locales returns the locales the page is translated into, sorted.
func (p Page) Locales() []string {
	out := make([]string, 0, len(p.Translations))
	for l := range p.Translations {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Published reports whether the page is publicly visible.
func (p Page) Published() bool { return p.Status == StatusPublished }

// Localized picks the translation for lang, then fallback, then the first
// available locale. It returns the locale actually used; ok is false only
// when the page has no translations at all.
func Localized(p Page, lang, fallback string) (tr Translation, used string, ok bool) {
	if t, found := p.Translations[lang]; found {
		return t, lang, true
	}
	if t, found := p.Translations[fallback]; found {
		return t, fallback, true
	}
	locales := p.Locales()
	if len(locales) == 0 {
		return Translation{}, "", false
	}
	return p.Translations[locales[0]], locales[0], true
}

func clonePage(p Page) Page {
	out := p
	if p.Translations != nil {
		out.Translations = make(map[string]Translation, len(p.Translations))
		for l, t := range p.Translations {
			t.FAQ = append([]FAQItem(nil), t.FAQ...)
			out.Translations[l] = t
		}
	}
	if p.PublishedAt != nil {
		ts := *p.PublishedAt
		out.PublishedAt = &ts
	}
	return out
}
