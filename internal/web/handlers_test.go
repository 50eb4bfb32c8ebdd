package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-chi-calculators/internal/calculator"
	"go-chi-calculators/internal/cms"
	"go-chi-calculators/internal/i18n"
	"go-chi-calculators/internal/observability"
	"go-chi-calculators/internal/testutil"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const testBaseURL = "https://calc.example.com"

func newTestSite(t *testing.T, pages PageSource) http.Handler {
	t.Helper()
	observability.Logger = zap.NewNop()

	bundle, err := i18n.Default("en", []string{"en", "de", "es"})
	if err != nil {
		t.Fatalf("loading locales: %v", err)
	}
	h, err := NewHandler(calculator.Default(), bundle, pages, testBaseURL+"/")
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	r := chi.NewRouter()
	RegisterRoutes(r, h)
	return r
}

func newTestPages(t *testing.T) *cms.Service {
	t.Helper()
	reg := calculator.Default()
	return cms.NewService(cms.NewMemoryStore(),
		cms.WithLocales([]string{"en", "de", "es"}),
		cms.WithCalculatorCheck(func(ref string) bool {
			_, ok := reg.LookupKey(ref)
			return ok
		}),
	)
}

func TestRootRedirectsToMatchedLocale(t *testing.T) {
	h := newTestSite(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9,en;q=0.5")
	w := testutil.ExecuteRequest(req, h)

	testutil.CheckResponseCode(t, http.StatusFound, w.Code)
	if loc := w.Header().Get("Location"); loc != "/de/calculators" {
		t.Fatalf("expected redirect to /de/calculators, got %q", loc)
	}
	if !strings.Contains(w.Header().Get("Vary"), "Accept-Language") {
		t.Fatalf("expected Vary: Accept-Language, got %q", w.Header().Get("Vary"))
	}
}

func TestRootFallsBackForUnknownLanguage(t *testing.T) {
	h := newTestSite(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "ja")
	w := testutil.ExecuteRequest(req, h)

	testutil.CheckResponseCode(t, http.StatusFound, w.Code)
	if loc := w.Header().Get("Location"); loc != "/en/calculators" {
		t.Fatalf("expected redirect to /en/calculators, got %q", loc)
	}
}

func TestCatalogPage(t *testing.T) {
	h := newTestSite(t, nil)

	w := testutil.Get(h, "/en/calculators")
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cl := w.Header().Get("Content-Language"); cl != "en" {
		t.Fatalf("expected Content-Language en, got %q", cl)
	}
	testutil.CheckBodyContains(t, w.Body.String(),
		`<html lang="en">`,
		"GCD calculator",
		`href="/en/calculators/math/gcd"`,
		`hreflang="de" href="https://calc.example.com/de/calculators"`,
		`hreflang="x-default" href="https://calc.example.com/en/calculators"`,
		`<link rel="canonical" href="https://calc.example.com/en/calculators">`,
		`"BreadcrumbList"`,
	)
}

func TestUnknownLocaleIsNotFound(t *testing.T) {
	h := newTestSite(t, nil)

	w := testutil.Get(h, "/fr/calculators")
	testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)
	testutil.CheckBodyContains(t, w.Body.String(), "Page not found", `content="noindex"`)
}

func TestUnknownCategoryAndCalculatorAreNotFound(t *testing.T) {
	h := newTestSite(t, nil)

	for _, target := range []string{
		"/en/calculators/astronomy",
		"/en/calculators/math/no-such-thing",
		"/en/calculators/math/no-such-thing/calculator",
	} {
		w := testutil.Get(h, target)
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", target, w.Code)
		}
	}
}

func TestCategoryPage(t *testing.T) {
	h := newTestSite(t, nil)

	w := testutil.Get(h, "/en/calculators/cipher")
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	testutil.CheckBodyContains(t, w.Body.String(), "Cipher tools", "Caesar cipher", `href="/en/calculators/cipher/vigenere"`)
}

func TestCalculatorPageEvaluatesQuery(t *testing.T) {
	h := newTestSite(t, nil)

	w := testutil.Get(h, "/en/calculators/electrical/amp-to-kva?amps=10&volts=230")
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	testutil.CheckBodyContains(t, w.Body.String(),
		`<dd data-output="kva">2.3 kVA</dd>`,
		`name="amps" type="text" value="10"`,
		`"WebApplication"`,
	)
}

func TestCalculatorPageWithoutQueryShowsEmptyForm(t *testing.T) {
	h := newTestSite(t, nil)

	w := testutil.Get(h, "/en/calculators/math/gcd")
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	body := w.Body.String()
	if strings.Contains(body, "calculator-result") {
		t.Fatalf("expected no result section without input")
	}
	testutil.CheckBodyContains(t, body, `name="numbers"`)
}

func TestCalculatorPageTranslated(t *testing.T) {
	h := newTestSite(t, nil)

	w := testutil.Get(h, "/de/calculators/math/gcd")
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	testutil.CheckBodyContains(t, w.Body.String(), `<html lang="de">`, "ggT-Rechner")
}

func TestCalculatorPageFormatsNumbersForLocale(t *testing.T) {
	h := newTestSite(t, nil)

	w := testutil.Get(h, "/de/calculators/electrical/amp-to-kva?amps=10&volts=230")
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	testutil.CheckBodyContains(t, w.Body.String(), `<dd data-output="kva">2,3 kVA</dd>`)
}

func TestCalculatorPageShowsInputError(t *testing.T) {
	h := newTestSite(t, nil)

	w := testutil.Get(h, "/en/calculators/math/gcd?numbers=0,4")
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	testutil.CheckBodyContains(t, w.Body.String(), "Zero is not allowed in the list.", "field-invalid")
}

func TestCalculatorPageShowsSteps(t *testing.T) {
	h := newTestSite(t, nil)

	w := testutil.Get(h, "/en/calculators/math/long-division?dividend=1234&divisor=7")
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	testutil.CheckBodyContains(t, w.Body.String(),
		`<dd data-output="quotient">176</dd>`,
		`<dd data-output="remainder">2</dd>`,
		"<th>Partial dividend</th>",
	)
}

func TestCalculatorPageEscapesUserText(t *testing.T) {
	h := newTestSite(t, nil)

	w := testutil.Get(h, "/en/calculators/cipher/caesar?text=%3Cb%3E&shift=3")
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	body := w.Body.String()
	if strings.Contains(body, "<e>") {
		t.Fatalf("expected cipher output to be escaped")
	}
	testutil.CheckBodyContains(t, body, "&lt;e&gt;")
}

func TestEmbedPage(t *testing.T) {
	h := newTestSite(t, nil)

	w := testutil.Get(h, "/en/calculators/math/gcd/calculator?numbers=12,18")
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	body := w.Body.String()
	testutil.CheckBodyContains(t, body,
		`<meta name="robots" content="noindex">`,
		`action="/en/calculators/math/gcd/calculator"`,
		`<dd data-output="gcd">6</dd>`,
		`href="/en/calculators/math/gcd" target="_top"`,
	)
	if strings.Contains(body, "site-header") {
		t.Fatalf("expected embed page without site chrome")
	}
}

func TestCMSPageRendersArticleAndCalculator(t *testing.T) {
	pages := newTestPages(t)
	ctx := context.Background()

	p, err := pages.Create(ctx, cms.PageInput{
		Category:      "guides",
		Slug:          "common-divisors",
		CalculatorRef: "math/gcd",
		Translations: map[string]cms.Translation{
			"en": {
				Title:       "Finding common divisors",
				Description: "A short guide.",
				Body:        "## Why it matters\n\nUse **Euclid**.",
				FAQ:         []cms.FAQItem{{Question: "Is zero allowed?", Answer: "No."}},
			},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	h := newTestSite(t, pages)

	w := testutil.Get(h, "/en/calculators/guides/common-divisors")
	testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)

	if _, err := pages.Publish(ctx, p.ID); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	w = testutil.Get(h, "/en/calculators/guides/common-divisors?numbers=12,18")
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	testutil.CheckBodyContains(t, w.Body.String(),
		"<h1>Finding common divisors</h1>",
		">Why it matters</h2>",
		"<strong>Euclid</strong>",
		"Is zero allowed?",
		`"FAQPage"`,
		`<dd data-output="gcd">6</dd>`,
	)

	// Untranslated locales fall back to the default copy.
	w = testutil.Get(h, "/de/calculators/guides/common-divisors")
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	testutil.CheckBodyContains(t, w.Body.String(), "Finding common divisors")

	w = testutil.Get(h, "/en/calculators")
	testutil.CheckBodyContains(t, w.Body.String(), `href="/en/calculators/guides/common-divisors"`)
}

func TestCMSPageOverridesBuiltInCalculator(t *testing.T) {
	pages := newTestPages(t)
	ctx := context.Background()

	p, err := pages.Create(ctx, cms.PageInput{
		Category: "math",
		Slug:     "gcd",
		Translations: map[string]cms.Translation{
			"en": {Title: "Our own GCD page", Body: "Hand written."},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := pages.Publish(ctx, p.ID); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	h := newTestSite(t, pages)

	w := testutil.Get(h, "/en/calculators/math/gcd")
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	body := w.Body.String()
	testutil.CheckBodyContains(t, body, "Our own GCD page", "Hand written.")
	if strings.Contains(body, `name="numbers"`) {
		t.Fatalf("expected the page without calculator reference to have no form")
	}

	// No calculator to embed.
	w = testutil.Get(h, "/en/calculators/math/gcd/calculator")
	testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)
}

func TestSitemap(t *testing.T) {
	pages := newTestPages(t)
	ctx := context.Background()
	p, err := pages.Create(ctx, cms.PageInput{
		Category: "guides",
		Slug:     "wiring",
		Translations: map[string]cms.Translation{
			"en": {Title: "Wiring"},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := pages.Publish(ctx, p.ID); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	h := newTestSite(t, pages)

	w := testutil.Get(h, "/sitemap.xml")
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/xml") {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := w.Body.String()
	testutil.CheckBodyContains(t, body,
		"<loc>https://calc.example.com/en/calculators</loc>",
		"<loc>https://calc.example.com/es/calculators/math/gcd</loc>",
		"<loc>https://calc.example.com/de/calculators/guides/wiring</loc>",
		`hreflang="x-default"`,
	)
	if n := strings.Count(body, "<loc>https://calc.example.com/en/calculators/math/gcd</loc>"); n != 1 {
		t.Fatalf("expected gcd listed once per locale, got %d", n)
	}
}
