package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-chi-calculators/internal/formula"
	"go-chi-calculators/internal/handlers"
	"go-chi-calculators/internal/observability"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// maxBatchItems bounds POST /api/calculators/batch.
const maxBatchItems = 50

// Handler serves the calculator JSON API.
type Handler struct {
	registry *Registry
}

// NewHandler creates a Handler backed by registry.
func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

// ---------------------------------------------------------------------------
// Catalog
// ---------------------------------------------------------------------------

// Catalog handles GET /api/calculators
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	all := h.registry.All()
	entries := make([]CatalogEntry, 0, len(all))
	for _, d := range all {
		entries = append(entries, CatalogEntry{Category: d.Category, Slug: d.Slug, Fields: d.Fields})
	}
	handlers.WriteJSON(w, http.StatusOK, entries)
}

// ---------------------------------------------------------------------------
// Single evaluation
// ---------------------------------------------------------------------------

// Evaluate handles POST /api/calculators/{category}/{slug}
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	category, slug := chi.URLParam(r, "category"), chi.URLParam(r, "slug")
	opName := category + "/" + slug

	ctx, span := tracer.Start(ctx, "calculator.evaluate",
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	desc, ok := h.registry.Lookup(category, slug)
	if !ok {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "unknown calculator", fmt.Errorf("no calculator %q", opName), http.StatusNotFound, w)
		return
	}

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	result, elapsed, err := Run(ctx, desc, req.Inputs)
	if err != nil {
		status := http.StatusBadRequest
		var inputErr *formula.InputError
		if !errors.As(err, &inputErr) {
			status = http.StatusInternalServerError
		}
		// Run has already counted the failure.
		observability.RecordError(ctx, span, logger, noop.Int64Counter{}, opName, err.Error(), err, status, w)
		return
	}

	span.SetStatus(codes.Ok, "")

	logger.Info("calculator operation completed",
		zap.String("operation", opName),
		zap.Int("outputs", len(result.Outputs)),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, EvaluateResponse{
		Calculator:  opName,
		Outputs:     result.Outputs,
		StepColumns: result.StepColumns,
		Steps:       result.Steps,
	})
}

// Run evaluates desc against raw inputs inside a child span, recording
// operation metrics. It returns the elapsed time in milliseconds. The page
// renderer and the JSON API share it.
func Run(ctx context.Context, desc Descriptor, raw map[string]string) (Result, float64, error) {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.%s.%s", desc.Category, desc.Slug),
		trace.WithAttributes(attribute.String("calculator.operation", desc.Key())),
	)
	defer span.End()

	start := time.Now()
	result, err := desc.Evaluate(raw)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	attrs := metric.WithAttributes(attribute.String("operation", desc.Key()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var inputErr *formula.InputError
		if errors.As(err, &inputErr) {
			span.SetAttributes(attribute.String("calculator.rejected", inputErr.Code))
		}
		errorCounter.Add(ctx, 1, attrs)
		return Result{}, elapsed, err
	}

	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	if v, ok := result.Float(); ok {
		resultGauge.Record(ctx, v, attrs)
		span.SetAttributes(attribute.Float64("calculator.result", v))
	}
	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.Int("outputs", len(result.Outputs)),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetStatus(codes.Ok, "")
	return result, elapsed, nil
}

// ---------------------------------------------------------------------------
// Batch evaluation (nested spans)
// ---------------------------------------------------------------------------

// Batch handles POST /api/calculators/batch. It evaluates independent requests
// in order, with a child span for every item. A rejected item is reported in
// its slot and does not stop the batch.
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.batch",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "batch", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if len(req.Items) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, "batch", "no items provided", fmt.Errorf("items array is empty"), http.StatusBadRequest, w)
		return
	}
	if len(req.Items) > maxBatchItems {
		observability.RecordError(ctx, span, logger, errorCounter, "batch", fmt.Sprintf("at most %d items per batch", maxBatchItems), fmt.Errorf("%d items", len(req.Items)), http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.Int("batch.items_count", len(req.Items)))

	resp := BatchResponse{Results: make([]BatchResult, 0, len(req.Items))}
	for i, item := range req.Items {
		itemCtx, itemSpan := tracer.Start(ctx, fmt.Sprintf("calculator.batch.item.%d", i),
			trace.WithAttributes(
				attribute.Int("batch.item.index", i),
				attribute.String("batch.item.calculator", item.Calculator),
			),
		)

		out := BatchResult{Calculator: item.Calculator}
		desc, ok := h.registry.LookupKey(item.Calculator)
		if !ok {
			out.Error = "unknown calculator"
			out.Code = "unknown_calculator"
		} else if result, _, err := Run(itemCtx, desc, item.Inputs); err != nil {
			out.Error = err.Error()
			var inputErr *formula.InputError
			if errors.As(err, &inputErr) {
				out.Code = inputErr.Code
			}
		} else {
			out.Outputs = result.Outputs
		}

		if out.Error != "" {
			resp.Failed++
			itemSpan.SetStatus(codes.Error, out.Error)
			logger.Info("batch item rejected",
				zap.Int("item", i),
				zap.String("operation", item.Calculator),
				zap.String("reason", out.Error),
				zap.String("request_id", requestID),
			)
		} else {
			itemSpan.SetStatus(codes.Ok, "")
		}
		itemSpan.End()

		resp.Results = append(resp.Results, out)
	}

	span.AddEvent("batch.complete", trace.WithAttributes(
		attribute.Int("total_items", len(req.Items)),
		attribute.Int("failed_items", resp.Failed),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("batch calculation completed",
		zap.Int("items", len(req.Items)),
		zap.Int("failed", resp.Failed),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, resp)
}
