package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"go-chi-calculators/internal/observability"

	"go.uber.org/zap"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// pages are the templates rendered inside layout.tmpl. embed.tmpl carries
// its own minimal layout.
var pages = []string{"catalog", "category", "calculator", "error"}

type renderer struct {
	templates map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	r := &renderer{templates: map[string]*template.Template{}}
	for _, name := range pages {
		t, err := template.New(name).ParseFS(templateFS,
			"templates/layout.tmpl", "templates/partials.tmpl", "templates/"+name+".tmpl")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.templates[name] = t
	}
	t, err := template.New("embed").ParseFS(templateFS, "templates/partials.tmpl", "templates/embed.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse embed template: %w", err)
	}
	r.templates["embed"] = t
	return r, nil
}

// render executes the base template of page into a buffer so a template
// failure still produces a clean 500.
func (rd *renderer) render(w http.ResponseWriter, r *http.Request, status int, page string, data *view) {
	t, ok := rd.templates[page]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		observability.LoggerWithTrace(r.Context()).Error("template execution failed",
			zap.String("template", page),
			zap.Error(err),
			zap.String("request_id", observability.RequestIDFromContext(r.Context())),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", data.Lang)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
