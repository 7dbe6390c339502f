package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/docquiz/internal/logger"
	"github.com/abhisek/docquiz/internal/store"
)

// loggingProvider appends an llm_request event for every call it sees,
// successful or not.
type loggingProvider struct {
	inner   Provider
	backend string
	events  store.EventRepo
	log     *logger.Logger
}

// WithLogging records each request made through p. backend is the
// configured provider name ("openai", "gemini", ...). events may be nil,
// in which case requests only reach the structured log.
func WithLogging(p Provider, backend string, events store.EventRepo, log *logger.Logger) Provider {
	return &loggingProvider{inner: p, backend: backend, events: events, log: logger.OrNop(log)}
}

func (l *loggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    l.backend,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	switch {
	case err != nil:
		ev.ErrorMessage = err.Error()
		ev.ResponseBody = string(rejectedContent(err))
		l.log.Warn("llm request failed", "purpose", ev.Purpose, "model", ev.Model, "error", err)
	case resp != nil:
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)

		fields := []interface{}{
			"purpose", ev.Purpose,
			"model", ev.Model,
			"input_tokens", ev.InputTokens,
			"output_tokens", ev.OutputTokens,
			"latency_ms", ev.LatencyMs,
		}
		if cost := LookupCost(ev.Model); cost != nil {
			fields = append(fields, "cost_usd", cost.Cost(ev.InputTokens, ev.OutputTokens))
		}
		l.log.Debug("llm request", fields...)
	}

	if l.events != nil {
		if recErr := l.events.AppendLLMRequest(ctx, ev); recErr != nil {
			l.log.Warn("record llm request event", "purpose", ev.Purpose, "error", recErr)
		}
	}
	return resp, err
}

func (l *loggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// rejectedContent returns the answer a backend produced but that was
// rejected, so malformed quiz batches can be inspected with `docquiz llm`.
func rejectedContent(err error) json.RawMessage {
	var inv *ErrInvalidResponse
	if errors.As(err, &inv) {
		return inv.Content
	}
	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return maxTok.Content
	}
	return nil
}

// transcript renders a request for the event log. The schema is sent
// unchanged on every quiz call, so only its name is kept.
func transcript(req Request) string {
	var b strings.Builder
	section := func(label, body string) {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", label, body)
	}
	if req.System != "" {
		section("system", req.System)
	}
	for _, m := range req.Messages {
		section(string(m.Role), m.Content)
	}
	if req.Schema != nil {
		fmt.Fprintf(&b, "[schema: %s]\n", req.Schema.Name)
	}
	return b.String()
}
