package seo

// Alternate links one translation of a page.
type Alternate struct {
	Lang string
	URL  string
}

type OpenGraph struct {
	Title       string
	Description string
	URL         string
	Type        string
	Locale      string
}

// Meta is the head metadata of a rendered page.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	Lang        string
	Alternates  []Alternate
	OG          OpenGraph
	// JSONLD holds serialized schema.org blocks.
	JSONLD []string
	// NoIndex marks pages that should stay out of search results, such as
	// the embeddable calculator variant.
	NoIndex bool
}

// NewMeta fills the common fields and mirrors them into OpenGraph.
func NewMeta(lang, title, description, canonical string, alternates []Alternate) Meta {
	return Meta{
		Title:       title,
		Description: description,
		Canonical:   canonical,
		Lang:        lang,
		Alternates:  alternates,
		OG: OpenGraph{
			Title:       title,
			Description: description,
			URL:         canonical,
			Type:        "website",
			Locale:      lang,
		},
	}
}

// AddJSONLD serializes v and appends it. Values that fail to marshal are
// skipped.
func (m *Meta) AddJSONLD(v any) {
	if s := JSON(v); s != "" {
		m.JSONLD = append(m.JSONLD, s)
	}
}
