package ports

import (
	"context"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities
// based on their status, matching state, and pickup window timing.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order including its cancellation record, if any.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// Delete removes an order aggregate from storage.
	// Used by the expiration monitor after the archival notification has
	// been confirmed sent.
	Delete(ctx context.Context, id kernel.UUID) error

	// GetAllPendingDue retrieves unmatched pending orders whose pickup
	// window start has been reached by now and which have not yet been
	// flagged as notified.
	GetAllPendingDue(ctx context.Context, now time.Time) ([]*order.Order, error)

	// GetAllExpired retrieves unmatched pending orders whose pickup window
	// end lies at or before the cutoff. Callers derive the cutoff from now
	// minus the configured grace period.
	GetAllExpired(ctx context.Context, cutoff time.Time) ([]*order.Order, error)
}
