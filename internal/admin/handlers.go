package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go-chi-calculators/internal/cms"
	"go-chi-calculators/internal/content"
	"go-chi-calculators/internal/handlers"
	"go-chi-calculators/internal/observability"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("admin")

// maxBodyBytes bounds admin request bodies.
const maxBodyBytes = 1 << 20

// Generator drafts page copy.
type Generator interface {
	Generate(ctx context.Context, topic string) (content.Post, error)
}

// Handler serves the admin JSON API.
type Handler struct {
	pages     *cms.Service
	generator Generator
}

// NewHandler creates a Handler. A nil generator disables generate-post.
func NewHandler(pages *cms.Service, generator Generator) *Handler {
	return &Handler{pages: pages, generator: generator}
}

// GenerateRequest is the JSON body for POST /api/admin/generate-post.
type GenerateRequest struct {
	Topic string `json:"topic"`
}

// GeneratePost handles POST /api/admin/generate-post
func (h *Handler) GeneratePost(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := h.start(r, "admin.generate_post")
	defer span.End()

	if h.generator == nil {
		observability.RecordError(ctx, span, logger, errorCounter, "generate_post", "content generation is not configured", errors.New("no llm client"), http.StatusServiceUnavailable, w)
		return
	}

	var req GenerateRequest
	if err := decode(w, r, &req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "generate_post", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	post, err := h.generator.Generate(ctx, req.Topic)
	if err != nil {
		status, msg := generateStatus(err)
		observability.RecordError(ctx, span, logger, errorCounter, "generate_post", msg, err, status, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, post)
}

func generateStatus(err error) (int, string) {
	switch {
	case errors.Is(err, content.ErrMissingTopic), errors.Is(err, content.ErrTopicTooLong):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, content.ErrTimeout):
		return http.StatusGatewayTimeout, content.ErrTimeout.Error()
	case errors.Is(err, content.ErrMalformedOutput):
		return http.StatusBadGateway, content.ErrMalformedOutput.Error()
	default:
		return http.StatusBadGateway, content.ErrUpstream.Error()
	}
}

// ListPages handles GET /api/admin/pages?category=&status=
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := h.start(r, "admin.list_pages")
	defer span.End()

	filter := cms.ListFilter{
		Category: r.URL.Query().Get("category"),
		Status:   cms.Status(r.URL.Query().Get("status")),
	}
	if filter.Status != "" && filter.Status != cms.StatusDraft && filter.Status != cms.StatusPublished {
		observability.RecordError(ctx, span, logger, errorCounter, "list_pages", "status must be draft or published", errors.New("bad status filter"), http.StatusBadRequest, w)
		return
	}

	pages, err := h.pages.List(ctx, filter)
	if err != nil {
		h.pageError(ctx, span, logger, w, "list_pages", err)
		return
	}
	if pages == nil {
		pages = []cms.Page{}
	}
	span.SetAttributes(attribute.Int("cms.pages", len(pages)))
	handlers.WriteJSON(w, http.StatusOK, pages)
}

// CreatePage handles POST /api/admin/pages
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := h.start(r, "admin.create_page")
	defer span.End()

	var in cms.PageInput
	if err := decode(w, r, &in); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "create_page", "invalid request body", err, http.StatusBadRequest, w)
		return
	}
	p, err := h.pages.Create(ctx, in)
	if err != nil {
		h.pageError(ctx, span, logger, w, "create_page", err)
		return
	}
	span.SetAttributes(attribute.String("cms.page_id", p.ID))
	handlers.WriteJSON(w, http.StatusCreated, p)
}

// GetPage handles GET /api/admin/pages/{id}
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := h.start(r, "admin.get_page")
	defer span.End()

	p, err := h.pages.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.pageError(ctx, span, logger, w, "get_page", err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, p)
}

// UpdatePage handles PUT /api/admin/pages/{id}
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := h.start(r, "admin.update_page")
	defer span.End()

	var in cms.PageInput
	if err := decode(w, r, &in); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "update_page", "invalid request body", err, http.StatusBadRequest, w)
		return
	}
	p, err := h.pages.Update(ctx, chi.URLParam(r, "id"), in)
	if err != nil {
		h.pageError(ctx, span, logger, w, "update_page", err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, p)
}

// PublishPage handles POST /api/admin/pages/{id}/publish
func (h *Handler) PublishPage(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := h.start(r, "admin.publish_page")
	defer span.End()

	p, err := h.pages.Publish(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.pageError(ctx, span, logger, w, "publish_page", err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, p)
}

// UnpublishPage handles POST /api/admin/pages/{id}/unpublish
func (h *Handler) UnpublishPage(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := h.start(r, "admin.unpublish_page")
	defer span.End()

	p, err := h.pages.Unpublish(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.pageError(ctx, span, logger, w, "unpublish_page", err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, p)
}

// DeletePage handles DELETE /api/admin/pages/{id}
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	ctx, span, logger := h.start(r, "admin.delete_page")
	defer span.End()

	if err := h.pages.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		h.pageError(ctx, span, logger, w, "delete_page", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) start(r *http.Request, name string) (context.Context, trace.Span, *zap.Logger) {
	ctx, span := tracer.Start(r.Context(), name,
		trace.WithAttributes(attribute.String("request.id", observability.RequestIDFromContext(r.Context()))),
	)
	return ctx, span, observability.LoggerWithTrace(ctx)
}

func (h *Handler) pageError(ctx context.Context, span trace.Span, logger *zap.Logger, w http.ResponseWriter, op string, err error) {
	status, msg := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, cms.ErrNotFound):
		status, msg = http.StatusNotFound, "page not found"
	case errors.Is(err, cms.ErrConflict):
		status, msg = http.StatusConflict, "a page with this category and slug already exists"
	case errors.Is(err, cms.ErrInvalid):
		status, msg = http.StatusBadRequest, err.Error()
	}
	observability.RecordError(ctx, span, logger, errorCounter, op, msg, err, status, w)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
