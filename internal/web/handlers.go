package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"go-chi-calculators/internal/calculator"
	"go-chi-calculators/internal/cms"
	"go-chi-calculators/internal/format"
	"go-chi-calculators/internal/formula"
	"go-chi-calculators/internal/i18n"
	"go-chi-calculators/internal/observability"
	"go-chi-calculators/internal/seo"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("web")

// PageSource is the read side of the CMS used by the site.
type PageSource interface {
	Published(ctx context.Context, category, slug string) (cms.Page, error)
	PublishedPages(ctx context.Context) ([]cms.Page, error)
}

// Handler renders the public HTML site.
type Handler struct {
	registry *calculator.Registry
	bundle   *i18n.Bundle
	pages    PageSource
	baseURL  string
	renderer *renderer
}

// NewHandler parses the embedded templates. pages may be nil, in which case
// only built-in calculators are served.
func NewHandler(registry *calculator.Registry, bundle *i18n.Bundle, pages PageSource, baseURL string) (*Handler, error) {
	rd, err := newRenderer()
	if err != nil {
		return nil, err
	}
	return &Handler{
		registry: registry,
		bundle:   bundle,
		pages:    pages,
		baseURL:  strings.TrimRight(baseURL, "/"),
		renderer: rd,
	}, nil
}

func catalogPath(lang string) string { return "/" + lang + "/calculators" }

func categoryPath(lang, category string) string { return catalogPath(lang) + "/" + category }

func calculatorPath(lang, category, slug string) string {
	return categoryPath(lang, category) + "/" + slug
}

func embedPath(lang, category, slug string) string {
	return calculatorPath(lang, category, slug) + "/calculator"
}

func (h *Handler) abs(path string) string { return h.baseURL + path }

// Root handles GET / by redirecting to the catalog in the best matching
// locale.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	lang := h.bundle.Match(r.Header.Get("Accept-Language"))
	w.Header().Add("Vary", "Accept-Language")
	http.Redirect(w, r, catalogPath(lang), http.StatusFound)
}

// locale resolves the {locale} URL segment. Unsupported locales get a 404
// page in the fallback language.
func (h *Handler) locale(w http.ResponseWriter, r *http.Request) (i18n.Translator, bool) {
	lang := strings.ToLower(chi.URLParam(r, "locale"))
	if !h.bundle.IsSupported(lang) {
		h.notFound(w, r, h.bundle.Translator(h.bundle.Fallback()))
		return i18n.Translator{}, false
	}
	return h.bundle.Translator(lang), true
}

// Catalog handles GET /{locale}/calculators
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	tr, ok := h.locale(w, r)
	if !ok {
		return
	}
	lang := tr.Lang()

	published := h.publishedPages(r.Context())
	var categories []categoryView
	for _, c := range h.categoryKeys(published) {
		categories = append(categories, h.categoryView(tr, c, published))
	}

	v := h.newView(tr, func(l string) string { return catalogPath(l) },
		tr.T("catalog.title"), tr.T("catalog.description"))
	v.Categories = categories
	v.Breadcrumbs = []crumb{{Name: tr.T("nav.calculators"), URL: catalogPath(lang)}}
	h.addBreadcrumbLD(v)
	h.renderer.render(w, r, http.StatusOK, "catalog", v)
}

// Category handles GET /{locale}/calculators/{category}
func (h *Handler) Category(w http.ResponseWriter, r *http.Request) {
	tr, ok := h.locale(w, r)
	if !ok {
		return
	}
	category := chi.URLParam(r, "category")

	published := h.publishedPages(r.Context())
	cv := h.categoryView(tr, category, published)
	if len(cv.Items) == 0 {
		h.notFound(w, r, tr)
		return
	}

	v := h.newView(tr, func(l string) string { return categoryPath(l, category) }, cv.Title, cv.Description)
	v.Category = &cv
	v.Breadcrumbs = []crumb{
		{Name: tr.T("nav.calculators"), URL: catalogPath(tr.Lang())},
		{Name: cv.Title, URL: cv.URL},
	}
	h.addBreadcrumbLD(v)
	h.renderer.render(w, r, http.StatusOK, "category", v)
}

// Page handles GET /{locale}/calculators/{category}/{slug}. A published CMS
// page for the pair wins over the built-in calculator of the same address.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, false)
}

// Embed handles GET /{locale}/calculators/{category}/{slug}/calculator, the
// calculator alone for use in an iframe.
func (h *Handler) Embed(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, true)
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request, embedded bool) {
	tr, ok := h.locale(w, r)
	if !ok {
		return
	}
	lang := tr.Lang()
	category, slug := chi.URLParam(r, "category"), chi.URLParam(r, "slug")

	ctx, span := tracer.Start(r.Context(), "web.page",
		trace.WithAttributes(
			attribute.String("page.category", category),
			attribute.String("page.slug", slug),
			attribute.String("page.locale", lang),
			attribute.Bool("page.embedded", embedded),
		),
	)
	defer span.End()
	r = r.WithContext(ctx)

	page, hasPage, err := h.lookupPage(ctx, category, slug)
	if err != nil {
		observability.LoggerWithTrace(ctx).Error("cms lookup failed",
			zap.String("category", category),
			zap.String("slug", slug),
			zap.Error(err),
		)
		h.renderError(w, r, tr, http.StatusInternalServerError, tr.T("page.not_found"))
		return
	}
	span.SetAttributes(attribute.Bool("page.cms", hasPage))

	// The calculator shown on the page: the CMS reference, or the built-in
	// calculator at this address.
	var (
		desc    calculator.Descriptor
		hasCalc bool
	)
	if hasPage {
		if page.CalculatorRef != "" {
			desc, hasCalc = h.registry.LookupKey(page.CalculatorRef)
		}
	} else {
		desc, hasCalc = h.registry.Lookup(category, slug)
	}
	if !hasPage && !hasCalc {
		h.notFound(w, r, tr)
		return
	}
	if embedded && !hasCalc {
		h.notFound(w, r, tr)
		return
	}

	var cv *calculatorView
	if hasCalc {
		cv = h.calculatorView(ctx, tr, desc, category, slug, r)
		if embedded {
			cv.Action = cv.EmbedURL
		}
	}

	var title, description string
	var article *articleView
	if hasPage {
		article = h.articleView(ctx, tr, page)
		title, description = article.Title, article.Description
	} else {
		title, description = cv.Title, cv.Description
	}

	pathFor := func(l string) string { return calculatorPath(l, category, slug) }
	if embedded {
		pathFor = func(l string) string { return embedPath(l, category, slug) }
	}
	v := h.newView(tr, pathFor, title, description)
	v.Calculator = cv
	v.Article = article

	if embedded {
		v.Meta.NoIndex = true
		v.Meta.Canonical = h.abs(calculatorPath(lang, category, slug))
		h.renderer.render(w, r, http.StatusOK, "embed", v)
		return
	}

	categoryTitle := h.categoryTitle(tr, category)
	v.Breadcrumbs = []crumb{
		{Name: tr.T("nav.calculators"), URL: catalogPath(lang)},
		{Name: categoryTitle, URL: categoryPath(lang, category)},
		{Name: title, URL: calculatorPath(lang, category, slug)},
	}
	h.addBreadcrumbLD(v)
	if cv != nil {
		v.Meta.AddJSONLD(seo.WebApplication(title, description, v.Meta.Canonical, lang))
	}
	if article != nil && len(article.FAQ) > 0 {
		qs := make([]seo.Question, 0, len(article.FAQ))
		for _, f := range article.FAQ {
			qs = append(qs, seo.Question{Question: f.Question, Answer: f.Answer})
		}
		v.Meta.AddJSONLD(seo.FAQPage(qs))
	}
	v.JSONLD = jsonLD(v.Meta.JSONLD)
	h.renderer.render(w, r, http.StatusOK, "calculator", v)
}

func (h *Handler) lookupPage(ctx context.Context, category, slug string) (cms.Page, bool, error) {
	if h.pages == nil {
		return cms.Page{}, false, nil
	}
	p, err := h.pages.Published(ctx, category, slug)
	if errors.Is(err, cms.ErrNotFound) {
		return cms.Page{}, false, nil
	}
	if err != nil {
		return cms.Page{}, false, err
	}
	return p, true, nil
}

func (h *Handler) publishedPages(ctx context.Context) []cms.Page {
	if h.pages == nil {
		return nil
	}
	pages, err := h.pages.PublishedPages(ctx)
	if err != nil {
		observability.LoggerWithTrace(ctx).Warn("listing published pages failed", zap.Error(err))
		return nil
	}
	return pages
}

// calculatorView builds the form and, when the query string carries input,
// evaluates it.
func (h *Handler) calculatorView(ctx context.Context, tr i18n.Translator, desc calculator.Descriptor, category, slug string, r *http.Request) *calculatorView {
	lang := tr.Lang()
	q := r.URL.Query()
	raw := make(map[string]string, len(desc.Fields))
	for _, f := range desc.Fields {
		if q.Has(f.Name) {
			raw[f.Name] = q.Get(f.Name)
		}
	}

	cv := &calculatorView{
		T:           tr,
		Key:         desc.Key(),
		Title:       tr.T(desc.Slug + ".title"),
		Description: tr.T(desc.Slug + ".description"),
		Action:      calculatorPath(lang, category, slug),
		EmbedURL:    embedPath(lang, category, slug),
		FullURL:     calculatorPath(lang, category, slug),
	}

	var invalidField string
	if desc.HasInput(raw) {
		cv.Evaluated = true
		result, _, err := calculator.Run(ctx, desc, raw)
		if err != nil {
			var ie *formula.InputError
			if errors.As(err, &ie) {
				invalidField = ie.Field
				cv.Error = tr.Or("error."+ie.Code, ie.Message)
				if ie.Field != "" {
					cv.Error = fmt.Sprintf("%s: %s", tr.T("field."+ie.Field), cv.Error)
				}
			} else {
				observability.LoggerWithTrace(ctx).Error("calculator failed",
					zap.String("operation", desc.Key()),
					zap.Error(err),
				)
				cv.Error = tr.T("error.out_of_range")
			}
		} else {
			for _, o := range result.Outputs {
				value := format.Value(lang, o.Value)
				if s, ok := o.Value.(string); ok && o.Name == "root_kind" {
					value = tr.T("choice." + s)
				}
				cv.Outputs = append(cv.Outputs, outputView{
					Name:  o.Name,
					Label: tr.T("output." + o.Name),
					Value: value,
					Unit:  o.Unit,
				})
			}
			for _, col := range result.StepColumns {
				cv.StepColumns = append(cv.StepColumns, tr.T("step."+col))
			}
			cv.Steps = result.Steps
		}
	}

	for _, f := range desc.Fields {
		value, given := raw[f.Name]
		if !given {
			value = f.Default
		}
		fv := fieldView{
			Name:     f.Name,
			Label:    tr.T("field." + f.Name),
			Kind:     string(f.Kind),
			Value:    value,
			Unit:     f.Unit,
			Required: f.Required && f.Default == "",
			Min:      f.Min,
			Max:      f.Max,
			Step:     f.Step,
			Invalid:  f.Name == invalidField,
		}
		switch f.Kind {
		case calculator.KindText:
			fv.Multiline = true
		case calculator.KindNumber, calculator.KindNumberList:
			fv.InputMode = "decimal"
		case calculator.KindInteger, calculator.KindNatural, calculator.KindIntegerList:
			fv.InputMode = "numeric"
		case calculator.KindChoice:
			for _, c := range f.Choices {
				fv.Choices = append(fv.Choices, choiceView{
					Value:    c,
					Label:    tr.T("choice." + c),
					Selected: strings.EqualFold(c, value),
				})
			}
		}
		cv.Fields = append(cv.Fields, fv)
	}
	return cv
}

func (h *Handler) articleView(ctx context.Context, tr i18n.Translator, p cms.Page) *articleView {
	t, _, _ := cms.Localized(p, tr.Lang(), h.bundle.Fallback())
	body, err := cms.RenderMarkdown(t.Body)
	if err != nil {
		observability.LoggerWithTrace(ctx).Warn("rendering page body failed",
			zap.String("page_id", p.ID),
			zap.Error(err),
		)
	}
	a := &articleView{
		Title:            t.Title,
		Description:      t.Description,
		Body:             body,
		FAQ:              t.FAQ,
		CalculatorSource: p.CalculatorSource,
	}
	if !p.UpdatedAt.IsZero() {
		a.UpdatedAt = p.UpdatedAt.UTC().Format(time.DateOnly)
	}
	return a
}

// categoryKeys returns every category with a calculator or published page,
// built-in categories first.
func (h *Handler) categoryKeys(published []cms.Page) []string {
	keys := h.registry.Categories()
	seen := map[string]struct{}{}
	for _, k := range keys {
		seen[k] = struct{}{}
	}
	var extra []string
	for _, p := range published {
		if _, ok := seen[p.Category]; !ok {
			seen[p.Category] = struct{}{}
			extra = append(extra, p.Category)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

func (h *Handler) categoryTitle(tr i18n.Translator, category string) string {
	return tr.Or("category."+category+".title", i18n.Humanize(category))
}

func (h *Handler) categoryView(tr i18n.Translator, category string, published []cms.Page) categoryView {
	lang := tr.Lang()
	cv := categoryView{
		Key:         category,
		Title:       h.categoryTitle(tr, category),
		Description: tr.Or("category."+category+".description", ""),
		URL:         categoryPath(lang, category),
	}

	shadowed := map[string]struct{}{}
	for _, p := range published {
		if p.Category != category {
			continue
		}
		shadowed[p.Slug] = struct{}{}
		t, _, _ := cms.Localized(p, lang, h.bundle.Fallback())
		cv.Items = append(cv.Items, linkView{
			Title:       t.Title,
			Description: t.Description,
			URL:         calculatorPath(lang, category, p.Slug),
		})
	}
	for _, d := range h.registry.InCategory(category) {
		if _, ok := shadowed[d.Slug]; ok {
			continue
		}
		cv.Items = append(cv.Items, linkView{
			Title:       tr.T(d.Slug + ".title"),
			Description: tr.T(d.Slug + ".description"),
			URL:         calculatorPath(lang, category, d.Slug),
		})
	}
	sort.SliceStable(cv.Items, func(i, j int) bool { return cv.Items[i].Title < cv.Items[j].Title })
	return cv
}

// newView fills the fields shared by every page. pathFor maps a locale to
// the path of the same page in that locale.
func (h *Handler) newView(tr i18n.Translator, pathFor func(lang string) string, title, description string) *view {
	lang := tr.Lang()
	supported := h.bundle.Supported()

	alternates := make([]seo.Alternate, 0, len(supported)+1)
	languages := make([]languageLink, 0, len(supported))
	for _, l := range supported {
		alternates = append(alternates, seo.Alternate{Lang: l, URL: h.abs(pathFor(l))})
		languages = append(languages, languageLink{
			Code:    l,
			Name:    tr.Or("lang."+l, strings.ToUpper(l)),
			URL:     pathFor(l),
			Current: l == lang,
		})
	}
	alternates = append(alternates, seo.Alternate{Lang: "x-default", URL: h.abs(pathFor(h.bundle.Fallback()))})

	return &view{
		Lang:      lang,
		T:         tr,
		Meta:      seo.NewMeta(lang, title, description, h.abs(pathFor(lang)), alternates),
		Languages: languages,
		HomeURL:   catalogPath(lang),
	}
}

func (h *Handler) addBreadcrumbLD(v *view) {
	items := make([]seo.BreadcrumbItem, 0, len(v.Breadcrumbs))
	for _, c := range v.Breadcrumbs {
		items = append(items, seo.BreadcrumbItem{Name: c.Name, Item: h.abs(c.URL)})
	}
	v.Meta.AddJSONLD(seo.BreadcrumbList(items))
	v.JSONLD = jsonLD(v.Meta.JSONLD)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request, tr i18n.Translator) {
	h.renderError(w, r, tr, http.StatusNotFound, tr.T("page.not_found"))
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, tr i18n.Translator, status int, msg string) {
	v := h.newView(tr, func(l string) string { return catalogPath(l) }, msg, "")
	v.Meta.NoIndex = true
	v.Status = status
	v.Message = msg
	h.renderer.render(w, r, status, "error", v)
}
