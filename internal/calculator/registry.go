package calculator

import (
	"fmt"
	"sort"
)

// Registry is the set of calculators served by the site, keyed by
// "category/slug". It is built once at startup and read-only afterwards.
type Registry struct {
	byKey map[string]Descriptor
	order []string
}

// NewRegistry validates and indexes descs. Duplicate keys, empty identifiers
// and a missing Compute are rejected.
func NewRegistry(descs ...Descriptor) (*Registry, error) {
	r := &Registry{byKey: make(map[string]Descriptor, len(descs))}
	for _, d := range descs {
		if d.Category == "" || d.Slug == "" {
			return nil, fmt.Errorf("calculator %q: category and slug are required", d.Key())
		}
		if d.Compute == nil {
			return nil, fmt.Errorf("calculator %q: compute function is required", d.Key())
		}
		if _, dup := r.byKey[d.Key()]; dup {
			return nil, fmt.Errorf("calculator %q registered twice", d.Key())
		}
		r.byKey[d.Key()] = d
		r.order = append(r.order, d.Key())
	}
	return r, nil
}

// Lookup finds a calculator by category and slug.
func (r *Registry) Lookup(category, slug string) (Descriptor, bool) {
	d, ok := r.byKey[category+"/"+slug]
	return d, ok
}

// LookupKey finds a calculator by its "category/slug" key.
func (r *Registry) LookupKey(key string) (Descriptor, bool) {
	d, ok := r.byKey[key]
	return d, ok
}

// All returns every calculator in registration order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.byKey[k])
	}
	return out
}

// Categories returns the distinct categories, sorted.
func (r *Registry) Categories() []string {
	seen := map[string]struct{}{}
	for _, d := range r.byKey {
		seen[d.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// InCategory returns the calculators of one category in registration order.
func (r *Registry) InCategory(category string) []Descriptor {
	var out []Descriptor
	for _, k := range r.order {
		if d := r.byKey[k]; d.Category == category {
			out = append(out, d)
		}
	}
	return out
}
