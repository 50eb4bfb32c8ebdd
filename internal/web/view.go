package web

import (
	"html/template"

	"go-chi-calculators/internal/cms"
	"go-chi-calculators/internal/i18n"
	"go-chi-calculators/internal/seo"
)

// view is the data handed to every template. Page-specific fields are left
// empty by pages that do not use them.
type view struct {
	Lang        string
	T           i18n.Translator
	Meta        seo.Meta
	JSONLD      []template.JS
	Languages   []languageLink
	Breadcrumbs []crumb
	HomeURL     string

	Categories []categoryView
	Category   *categoryView
	Calculator *calculatorView
	Article    *articleView

	Status  int
	Message string
}

type languageLink struct {
	Code    string
	Name    string
	URL     string
	Current bool
}

type crumb struct {
	Name string
	URL  string
}

type categoryView struct {
	Key         string
	Title       string
	Description string
	URL         string
	Items       []linkView
}

type linkView struct {
	Title       string
	Description string
	URL         string
}

type calculatorView struct {
	T           i18n.Translator
	Key         string
	Title       string
	Description string
	Action      string
	EmbedURL    string
	FullURL     string
	Fields      []fieldView
	Evaluated   bool
	Error       string
	Outputs     []outputView
	StepColumns []string
	Steps       [][]string
}

type fieldView struct {
	Name      string
	Label     string
	Kind      string
	Value     string
	Unit      string
	Required  bool
	Multiline bool
	InputMode string
	Min       string
	Max       string
	Step      string
	Choices   []choiceView
	Invalid   bool
}

type choiceView struct {
	Value    string
	Label    string
	Selected bool
}

type outputView struct {
	Name  string
	Label string
	Value string
	Unit  string
}

type articleView struct {
	Title            string
	Description      string
	Body             template.HTML
	FAQ              []cms.FAQItem
	CalculatorSource string
	UpdatedAt        string
}

func jsonLD(blocks []string) []template.JS {
	out := make([]template.JS, 0, len(blocks))
	for _, b := range blocks {
		// json.Marshal escapes <, > and & so the block cannot close the
		// surrounding script element.
		out = append(out, template.JS(b))
	}
	return out
}
