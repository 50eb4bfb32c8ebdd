package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-chi-calculators/internal/cms"
	"go-chi-calculators/internal/llm"
	"go-chi-calculators/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("content")

var (
	ErrMissingTopic    = errors.New("topic is required")
	ErrTopicTooLong    = errors.New("topic is too long")
	ErrMalformedOutput = errors.New("model returned malformed output")
	ErrUpstream        = errors.New("content model unavailable")
	ErrTimeout         = errors.New("content model timed out")
)

// MaxTopicLength bounds the topic accepted by Generate, in runes.
const MaxTopicLength = 200

// Completer is the part of llm.Client the generator needs.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

// Post is a generated page draft.
type Post struct {
	Content  string        `json:"content"`
	FAQItems []cms.FAQItem `json:"faqItems"`
}

// Generator drafts page copy with a language model.
type Generator struct {
	client  Completer
	timeout time.Duration
}

// NewGenerator creates a Generator. Every call to the model is bounded by
// timeout.
func NewGenerator(client Completer, timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Generator{client: client, timeout: timeout}
}

// Generate drafts a post about topic. The model is called once; there is no
// retry.
func (g *Generator) Generate(ctx context.Context, topic string) (Post, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Post{}, ErrMissingTopic
	}
	if len([]rune(topic)) > MaxTopicLength {
		return Post{}, ErrTopicTooLong
	}

	ctx, span := tracer.Start(ctx, "content.generate",
		trace.WithAttributes(attribute.Int("content.topic_length", len(topic))),
	)
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	raw, err := g.client.Complete(callCtx, Prompt(topic))
	elapsed := float64(time.Since(start).Milliseconds())

	post, err := g.finish(callCtx, raw, err)
	outcome := outcomeOf(err)
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	generationsCounter.Add(ctx, 1, attrs)
	generationDuration.Record(ctx, elapsed, attrs)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		logger.Warn("content generation failed",
			zap.String("outcome", outcome),
			zap.Error(err),
			zap.Float64("duration_ms", elapsed),
		)
		return Post{}, err
	}

	span.SetAttributes(attribute.Int("content.faq_items", len(post.FAQItems)))
	span.SetStatus(codes.Ok, "")
	logger.Info("content generated",
		zap.Int("content_length", len(post.Content)),
		zap.Int("faq_items", len(post.FAQItems)),
		zap.Float64("duration_ms", elapsed),
	)
	return post, nil
}

func (g *Generator) finish(ctx context.Context, raw string, err error) (Post, error) {
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Post{}, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return Post{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return Parse(raw)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrMalformedOutput):
		return "malformed"
	default:
		return "upstream_error"
	}
}

// wirePost accepts the key spellings models commonly produce.
type wirePost struct {
	Content  string        `json:"content"`
	FAQItems []cms.FAQItem `json:"faqItems"`
	FAQSnake []cms.FAQItem `json:"faq_items"`
	FAQ      []cms.FAQItem `json:"faq"`
}

// Parse extracts a Post from model output. Code fences and text around the
// first JSON object are ignored. Content and FAQ text are stripped of HTML;
// FAQ items missing a question or answer are dropped.
func Parse(raw string) (Post, error) {
	obj, ok := extractJSONObject(stripFences(raw))
	if !ok {
		return Post{}, fmt.Errorf("%w: no JSON object found", ErrMalformedOutput)
	}

	var w wirePost
	if err := json.Unmarshal([]byte(obj), &w); err != nil {
		return Post{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	post := Post{Content: cms.PlainText(w.Content), FAQItems: []cms.FAQItem{}}
	if post.Content == "" {
		return Post{}, fmt.Errorf("%w: content is empty", ErrMalformedOutput)
	}

	items := w.FAQItems
	if len(items) == 0 {
		items = w.FAQSnake
	}
	if len(items) == 0 {
		items = w.FAQ
	}
	for _, it := range items {
		q, a := cms.PlainText(it.Question), cms.PlainText(it.Answer)
		if q == "" || a == "" {
			continue
		}
		post.FAQItems = append(post.FAQItems, cms.FAQItem{Question: q, Answer: a})
	}
	return post, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the info string ("json") on the opening fence.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// extractJSONObject returns the first balanced {...} in s, honouring string
// literals and escapes.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
