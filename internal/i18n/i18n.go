package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var embedded embed.FS

// Bundle holds flattened dictionaries for every served locale.
type Bundle struct {
	dict      map[string]map[string]string
	fallback  string
	supported []string
	matcher   language.Matcher
}

// Load reads "<locale>.yaml" for each supported locale from fsys. Nested YAML
// maps are flattened into dotted keys. A missing file is tolerated for every
// locale except the fallback, which must exist.
func Load(fsys fs.FS, fallback string, supported []string) (*Bundle, error) {
	if len(supported) == 0 {
		supported = []string{fallback}
	}
	b := &Bundle{
		dict:     map[string]map[string]string{},
		fallback: fallback,
	}

	// The fallback goes first so the matcher prefers it on ties.
	ordered := append([]string{fallback}, supported...)
	seen := map[string]struct{}{}
	tags := make([]language.Tag, 0, len(ordered))
	for _, l := range ordered {
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}

		tag, err := language.Parse(l)
		if err != nil {
			return nil, fmt.Errorf("locale %q: %w", l, err)
		}
		tags = append(tags, tag)
		b.supported = append(b.supported, l)

		raw, err := fs.ReadFile(fsys, l+".yaml")
		if err != nil {
			if l == fallback {
				return nil, fmt.Errorf("load locale %s: %w", l, err)
			}
			continue
		}
		var tree map[string]any
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", l, err)
		}
		m := map[string]string{}
		flatten("", tree, m)
		b.dict[l] = m
	}
	b.matcher = language.NewMatcher(tags)
	return b, nil
}

// Default loads the dictionaries compiled into the binary.
func Default(fallback string, supported []string) (*Bundle, error) {
	sub, err := fs.Sub(embedded, "locales")
	if err != nil {
		return nil, err
	}
	return Load(sub, fallback, supported)
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// Fallback returns the configured fallback language.
func (b *Bundle) Fallback() string { return b.fallback }

// Supported returns the served locales, sorted.
func (b *Bundle) Supported() []string {
	out := append([]string(nil), b.supported...)
	sort.Strings(out)
	return out
}

// IsSupported reports whether lang is served.
func (b *Bundle) IsSupported(lang string) bool {
	for _, l := range b.supported {
		if l == lang {
			return true
		}
	}
	return false
}

// Lookup returns the translation of key in lang without any fallback.
func (b *Bundle) Lookup(lang, key string) (string, bool) {
	m, ok := b.dict[lang]
	if !ok {
		return "", false
	}
	v, ok := m[key]
	return v, ok
}

// T returns the translation for key in lang, falling back to the default
// locale and finally to a humanized form of the key. It never fails.
func (b *Bundle) T(lang, key string) string {
	if v, ok := b.Lookup(lang, key); ok {
		return v
	}
	if v, ok := b.Lookup(b.fallback, key); ok {
		return v
	}
	return Humanize(key)
}

// Has reports whether key is translated in lang or the fallback locale.
func (b *Bundle) Has(lang, key string) bool {
	if _, ok := b.Lookup(lang, key); ok {
		return true
	}
	_, ok := b.Lookup(b.fallback, key)
	return ok
}

// Match chooses the best served locale for an Accept-Language header.
func (b *Bundle) Match(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return b.fallback
	}
	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No {
		return b.fallback
	}
	return b.supported[idx]
}

// Translator binds the bundle to one locale. Handlers build one per request
// and hand it to templates explicitly.
func (b *Bundle) Translator(lang string) Translator {
	if !b.IsSupported(lang) {
		lang = b.fallback
	}
	return Translator{bundle: b, lang: lang}
}

// Translator translates keys for a single locale.
type Translator struct {
	bundle *Bundle
	lang   string
}

// Lang is the bound locale.
func (t Translator) Lang() string { return t.lang }

// T translates key.
func (t Translator) T(key string) string {
	if t.bundle == nil {
		return Humanize(key)
	}
	return t.bundle.T(t.lang, key)
}

// Tf translates key and substitutes args with fmt verbs.
func (t Translator) Tf(key string, args ...any) string {
	return fmt.Sprintf(t.T(key), args...)
}

// Or translates key when a translation exists and returns fallback
// otherwise.
func (t Translator) Or(key, fallback string) string {
	if t.bundle != nil && t.bundle.Has(t.lang, key) {
		return t.bundle.T(t.lang, key)
	}
	return fallback
}

// Humanize turns a translation key into readable text:
// "kva_to_amp.title" becomes "Kva To Amp Title".
func Humanize(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || unicode.IsSpace(r)
	})
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
