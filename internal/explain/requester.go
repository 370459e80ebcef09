// internal/explain/requester.go
package explain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel/attribute"

	httpclient "compare-workers/internal/common/http"
	"compare-workers/internal/common/logger"
	"compare-workers/internal/common/metrics"
	"compare-workers/internal/common/observability"
)

// DefaultTimeout bounds one explanation request.
const DefaultTimeout = 12 * time.Second

// Sources label where an explanation's text came from.
const (
	SourceGenerated    = "generated"
	SourceNoResult     = "no_result"
	SourceUnconfigured = "unconfigured"
	SourceUnreachable  = "unreachable"
	SourceError        = "error"
	SourceTimeout      = "timeout"
	SourceCircuitOpen  = "circuit_open"
)

const noResultText = "Unable to generate explanation."

var fallbackReasons = map[string]string{
	SourceUnconfigured: "the explanation service is not configured",
	SourceUnreachable:  "the explanation service could not be reached",
	SourceError:        "the explanation service returned an error",
	SourceTimeout:      "the explanation service did not answer in time",
	SourceCircuitOpen:  "the explanation service is paused after repeated failures",
}

type Explanation struct {
	Text   string `json:"explanation"`
	Source string `json:"source"`
}

func (e Explanation) Fallback() bool {
	return e.Source != SourceGenerated
}

// Requester builds the prompt for a ranking and asks the Completer for an
// explanation. It always returns text.
type Requester struct {
	completer   Completer
	timeout     time.Duration
	previewSize int
	obs         *observability.Observability
	logger      logger.Logger
}

type Option func(*Requester)

func WithTimeout(d time.Duration) Option {
	return func(r *Requester) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func WithPreviewSize(n int) Option {
	return func(r *Requester) {
		if n > 0 {
			r.previewSize = n
		}
	}
}

func WithObservability(obs *observability.Observability) Option {
	return func(r *Requester) {
		r.obs = obs
	}
}

// NewRequester accepts a nil completer; every request then falls back.
func NewRequester(completer Completer, log logger.Logger, opts ...Option) *Requester {
	r := &Requester{
		completer:   completer,
		timeout:     DefaultTimeout,
		previewSize: DefaultPreviewSize,
		logger:      log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Requester) Explain(ctx context.Context, in PromptInput) Explanation {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "explain.request",
		attribute.String("category", in.Category),
		attribute.String("purpose", in.Purpose),
	)
	defer span.End()

	exp := r.explain(ctx, in)

	span.SetAttributes(attribute.String("source", exp.Source))
	metrics.ExplanationsTotal.WithLabelValues(exp.Source).Inc()
	r.obs.RecordExplanation(ctx, time.Since(start), exp.Source)
	return exp
}

func (r *Requester) explain(ctx context.Context, in PromptInput) Explanation {
	if in.Best == nil {
		return Explanation{Text: noResultText, Source: SourceNoResult}
	}
	if r.completer == nil {
		return fallback(in, SourceUnconfigured)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	text, err := r.completer.Complete(ctx, BuildPrompt(in, r.previewSize))
	if err != nil {
		source := classify(ctx, err)
		r.logger.Warn("explanation fell back", map[string]interface{}{
			"source": source,
			"error":  err.Error(),
			"item":   in.Best.Name,
		})
		return fallback(in, source)
	}
	return Explanation{Text: text, Source: SourceGenerated}
}

// Fallback returns the deterministic text used when no explanation could
// be generated for the given reason.
func Fallback(in PromptInput, source string) Explanation {
	if in.Best == nil {
		return Explanation{Text: noResultText, Source: SourceNoResult}
	}
	return fallback(in, source)
}

func fallback(in PromptInput, source string) Explanation {
	reason, ok := fallbackReasons[source]
	if !ok {
		source = SourceError
		reason = fallbackReasons[SourceError]
	}
	text := fmt.Sprintf("'%s' ranked highest for your preferences in %s. A detailed explanation is unavailable because %s.",
		in.Best.Name, categoryLabel(in.Category), reason)
	return Explanation{Text: text, Source: source}
}

func categoryLabel(category string) string {
	if category == "" {
		return "this comparison"
	}
	return fmt.Sprintf("category '%s'", category)
}

func classify(ctx context.Context, err error) string {
	var se *httpclient.StatusError
	var ne net.Error
	switch {
	case errors.Is(err, ErrNotConfigured):
		return SourceUnconfigured
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return SourceCircuitOpen
	case errors.Is(err, context.DeadlineExceeded), ctx.Err() != nil:
		return SourceTimeout
	case errors.As(err, &se), errors.Is(err, ErrEmptyCompletion):
		return SourceError
	case errors.As(err, &ne) && ne.Timeout():
		return SourceTimeout
	case errors.As(err, &ne):
		return SourceUnreachable
	default:
		return SourceError
	}
}
