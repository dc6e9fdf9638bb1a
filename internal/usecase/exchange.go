package usecase

import (
	"context"
	"strings"
	"time"

	"ompserver/internal/domain"
)

// EnvelopeError is a client-caused exchange failure, either a policy denial
// or a malformed payload. Handlers map it to 400.
type EnvelopeError struct {
	Msg string
}

func (e *EnvelopeError) Error() string { return e.Msg }

func envelopeError(msg string) *EnvelopeError { return &EnvelopeError{Msg: msg} }

// ExchangeService evaluates exchange envelopes against the policy engine and
// dispatches accepted capabilities onto the legacy data store.
type ExchangeService struct {
	Policy ExchangePolicy
	Data   *DataStore
	Now    func() time.Time
}

func NewExchangeService(policy ExchangePolicy, data *DataStore) *ExchangeService {
	return &ExchangeService{Policy: policy, Data: data, Now: time.Now}
}

// Execute runs the envelope end to end: policy first, then the capability
// handler. The returned map is the response body for accepted envelopes.
func (s *ExchangeService) Execute(ctx context.Context, env domain.Envelope) (map[string]any, error) {
	decision, err := s.Policy.Evaluate(ctx, env)
	if err != nil {
		return nil, err
	}
	if !decision.Allow {
		msg := "envelope rejected by policy"
		if len(decision.Deny) > 0 {
			msg = strings.Join(decision.Deny, "; ")
		}
		return nil, envelopeError(msg)
	}

	result := map[string]any{
		"ack":          true,
		"id":           env.ID,
		"performative": env.Performative,
		"capability":   env.Capability,
	}

	switch env.Capability {
	case "data.write":
		key, _ := env.Payload["key"].(string)
		value, hasValue := env.Payload["value"]
		if key == "" || !hasValue || value == nil {
			return nil, envelopeError("payload must include key and value")
		}
		lifespan, _ := env.Payload["lifespan"].(string)
		if lifespan == "" {
			lifespan = domain.LifespanShort
		}
		if err := s.Data.Put(key, value, lifespan); err != nil {
			return nil, envelopeError("invalid lifespan in payload")
		}
		result["write"] = map[string]any{"stored": true, "key": key}

	case "data.read":
		key, _ := env.Payload["key"].(string)
		if key == "" {
			return nil, envelopeError("payload must include key")
		}
		item, ok := s.Data.Get(key)
		if !ok {
			return nil, domain.ErrNotFound
		}
		result["read"] = map[string]any{"key": key, "data": item}

	case "data.delete":
		key, _ := env.Payload["key"].(string)
		if key == "" {
			return nil, envelopeError("payload must include key")
		}
		if !s.Data.Delete(key) {
			return nil, domain.ErrNotFound
		}
		result["delete"] = map[string]any{"deleted": true, "key": key}

	case "data.search":
		contains, _ := env.Payload["contains"].(string)
		lifespan, _ := env.Payload["lifespan"].(string)
		rows := s.Data.Search(contains, lifespan)
		result["search"] = map[string]any{"count": len(rows), "results": rows}
	}

	result["received_at"] = s.now().UTC().Format(time.RFC3339Nano)
	return result, nil
}

func (s *ExchangeService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
