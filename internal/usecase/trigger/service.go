// Package trigger implements the trigger dispatch framework: the shared
// request/response contract over the three data-source strategies (feed,
// API query, hashtag index).
//
// Each trigger is a Service value combining a field spec with a Source.
// An invocation validates and defaults the caller's fields, delegates to
// the source (which consults the shared TTL cache before going upstream),
// truncates the ordered items to the requested limit, and wraps them as
// {"data": [...]}.
package trigger

import (
	"context"
	"log/slog"
	"time"

	"wiki-triggers/internal/domain/entity"
)

// DefaultLimit is the response item cap applied when the caller does not
// send one. Fixed by the integration platform's trigger contract.
const DefaultLimit = 50

// Request is the inbound trigger invocation. TriggerIdentity is opaque
// and used only for log correlation.
type Request struct {
	TriggerIdentity string            `json:"trigger_identity"`
	TriggerFields   map[string]string `json:"triggerFields"`
	Limit           *int              `json:"limit,omitempty"`
}

// Response wraps the canonical items for one invocation.
type Response struct {
	Data []entity.Item `json:"data"`
}

// Source produces the full ordered item set for one invocation. The
// dispatch framework applies the limit afterwards, so sources never
// truncate themselves.
type Source interface {
	Items(ctx context.Context, fields Fields) ([]entity.Item, error)
}

// Service is one trigger endpoint: a name, a field spec, and a source.
// Services are stateless across invocations and safe for concurrent use.
type Service struct {
	Name   string
	Spec   FieldSpec
	Source Source
	Logger *slog.Logger
}

// Handle runs one trigger invocation.
func (s *Service) Handle(ctx context.Context, req Request) (Response, error) {
	start := time.Now()

	fields, err := s.Spec.Resolve(req.TriggerFields)
	if err != nil {
		RecordInvocation(s.Name, "validation_error", time.Since(start))
		return Response{}, err
	}

	s.logInvocation(req.TriggerIdentity)

	items, err := s.Source.Items(ctx, fields)
	if err != nil {
		RecordInvocation(s.Name, "error", time.Since(start))
		return Response{}, err
	}

	limit := DefaultLimit
	if req.Limit != nil {
		limit = *req.Limit
	}
	if limit < 0 {
		limit = 0
	}
	if limit < len(items) {
		items = items[:limit]
	}

	RecordInvocation(s.Name, "ok", time.Since(start))
	return Response{Data: items}, nil
}

// logInvocation records the trigger name and caller identity. A logging
// failure must never abort the request, so panics are swallowed here.
func (s *Service) logInvocation(identity string) {
	defer func() { _ = recover() }()
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("trigger invoked",
		slog.String("trigger", s.Name),
		slog.String("trigger_identity", identity))
}
