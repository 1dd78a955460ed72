// Package assistant runs the generation tasks: it renders the prompt, calls
// the provider once and parses the answer.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hal9000y/gmail-assistant/internal/llm"
	"github.com/hal9000y/gmail-assistant/internal/metrics"
	"github.com/hal9000y/gmail-assistant/internal/prompt"
	"github.com/hal9000y/gmail-assistant/internal/tone"
)

// Assistant is safe for concurrent use.
type Assistant struct {
	provider llm.Provider
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

// New creates an Assistant. m may be nil.
func New(provider llm.Provider, m *metrics.Metrics, log zerolog.Logger) *Assistant {
	return &Assistant{
		provider: provider,
		metrics:  m,
		log:      log,
	}
}

// generate renders task, runs one provider round trip and parses the output.
// Rendering errors never reach the provider.
func generate[T any](ctx context.Context, a *Assistant, task prompt.Task, parse func(string) (T, error)) (T, error) {
	var zero T
	kind := string(task.Kind())

	ins, err := task.Render()
	if err != nil {
		a.metrics.ObserveGeneration(kind, metrics.OutcomeRejected, 0)
		return zero, err
	}

	log := a.log.With().
		Str("task", kind).
		Str("request_id", uuid.NewString()).
		Str("provider", a.provider.Name()).
		Logger()

	start := time.Now()
	raw, err := a.provider.Complete(ctx, &llm.Request{
		System:      ins.System,
		Prompt:      ins.Prompt,
		JSON:        ins.JSON,
		MaxTokens:   ins.MaxTokens,
		Temperature: ins.Temperature,
	})
	took := time.Since(start)
	if err != nil {
		a.metrics.ObserveGeneration(kind, metrics.OutcomeError, took)
		log.Error().Err(err).Dur("took", took).Msg("generation failed")
		return zero, fmt.Errorf("provider.Complete failed: %w", err)
	}

	out, err := parse(raw)
	if err != nil {
		a.metrics.ObserveGeneration(kind, metrics.OutcomeMalformed, took)
		log.Warn().Err(err).Dur("took", took).Msg("malformed generation output")
		return zero, err
	}

	a.metrics.ObserveGeneration(kind, metrics.OutcomeOK, took)
	log.Debug().Dur("took", took).Int("chars", len(raw)).Msg("generation done")

	return out, nil
}

// resolveTone logs ids that are not in the registry. The empty id is the
// documented default and isn't reported.
func (a *Assistant) resolveTone(id string) tone.ToneID {
	cfg := tone.Resolve(id)
	if id != "" && !tone.IsKnown(id) {
		a.metrics.ToneFallback()
		a.log.Warn().Str("tone", id).Str("fallback", string(cfg.ID)).Msg("unknown tone")
	}
	return cfg.ID
}

// IsMalformed reports whether err is a malformed provider answer and returns
// the raw text the provider sent.
func IsMalformed(err error) (string, bool) {
	var me *prompt.MalformedOutputError
	if errors.As(err, &me) {
		return me.Raw, true
	}
	return "", false
}
