package reconcile

import "context"

// Adapter defines the model-specific logic used by the planner.
// D is the desired (canonical) entity type; E is the existing (remote) entity type.
type Adapter[D, E any] interface {
	// Name returns the unique name of this adapter (e.g., "tournament").
	Name() string

	// DesiredKey returns the join key of a desired entity.
	DesiredKey(item D) string

	// ExistingKey returns the join key of an existing entity.
	// An empty key means the entity does not participate in reconciliation.
	ExistingKey(item E) string

	// CompareFields compares the mapped fields of a desired and an existing entity
	// and returns a description of every mismatch (e.g., "title: want=x got=y").
	// An empty result means the existing entity is up to date.
	CompareFields(desired D, existing E) []string
}

// Mutator executes planned actions against the remote state.
type Mutator[D, E any] interface {
	// Create creates a new remote entity for desired.
	Create(ctx context.Context, desired D) error

	// Update rewrites existing so that it matches desired.
	Update(ctx context.Context, existing E, desired D) error
}
