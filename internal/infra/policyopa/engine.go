package policyopa

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"sort"

	"github.com/open-policy-agent/opa/rego"

	"ompserver/internal/domain"
	"ompserver/internal/usecase"
)

const resultQuery = "data.omp.exchange.result"

//go:embed exchange.rego
var defaultPolicy string

// Engine evaluates exchange envelopes against a rego policy. The built-in
// policy checks the performative and capability against the OMP 0.1 sets; a
// deployment can replace it with its own module via OMP_EXCHANGE_POLICY.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine compiles the embedded policy.
func NewEngine(ctx context.Context) (*Engine, error) {
	return prepare(ctx, rego.Module("exchange.rego", defaultPolicy))
}

// NewEngineFromPath compiles a policy module or bundle directory from disk.
func NewEngineFromPath(ctx context.Context, path string) (*Engine, error) {
	return prepare(ctx, rego.Load([]string{path}, nil))
}

func prepare(ctx context.Context, source func(*rego.Rego)) (*Engine, error) {
	r := rego.New(
		rego.Query(resultQuery),
		rego.StrictBuiltinErrors(true),
		source,
	)
	prepared, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, err
	}
	return &Engine{query: prepared}, nil
}

type policyResult struct {
	Allow bool     `json:"allow"`
	Deny  []string `json:"deny"`
}

func (e *Engine) Evaluate(ctx context.Context, env domain.Envelope) (usecase.PolicyDecision, error) {
	if e == nil {
		return usecase.PolicyDecision{}, errors.New("policy engine is nil")
	}
	input := map[string]any{
		"id":           env.ID,
		"performative": env.Performative,
		"capability":   env.Capability,
		"payload":      env.Payload,
	}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return usecase.PolicyDecision{}, err
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return usecase.PolicyDecision{}, errors.New("empty policy result")
	}
	result, err := decodeResult(results[0].Expressions[0].Value)
	if err != nil {
		return usecase.PolicyDecision{}, err
	}
	sort.Strings(result.Deny)
	return usecase.PolicyDecision{Allow: result.Allow, Deny: result.Deny}, nil
}

func decodeResult(value any) (policyResult, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return policyResult{}, err
	}
	var result policyResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return policyResult{}, err
	}
	return result, nil
}
