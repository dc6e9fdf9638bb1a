package usecase

import (
	"context"

	"ompserver/internal/domain"
)

// ObjectStorage is the port all object storage adapters implement.
// Semantics mirror the objects API: Get and Delete return
// domain.ErrNotFound for a missing id, Update replaces content wholesale,
// cursors are adapter-opaque.
type ObjectStorage interface {
	Store(ctx context.Context, namespace, key string, content, metadata map[string]any) (domain.Object, error)
	Get(ctx context.Context, id string) (domain.Object, error)
	Update(ctx context.Context, id string, content, metadata map[string]any) (domain.Object, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit int, cursor string) (domain.ObjectList, error)
	Search(ctx context.Context, filter domain.SearchFilter, limit int, cursor string) (domain.ObjectList, error)
}

// PolicyDecision is the outcome of evaluating an exchange envelope.
type PolicyDecision struct {
	Allow bool
	Deny  []string
}

// ExchangePolicy decides whether an exchange envelope is acceptable.
type ExchangePolicy interface {
	Evaluate(ctx context.Context, env domain.Envelope) (PolicyDecision, error)
}
