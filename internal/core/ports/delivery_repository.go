// Package ports defines the contracts between the ProofParcel core and its
// storage adapters. Write-side repositories are obtained from a UnitOfWork and
// bound to its transaction; the read side goes through ReadModel.
package ports

import (
	"context"
	"time"

	"proofparcel/internal/core/domain/model/delivery"
	"proofparcel/internal/core/domain/model/kernel"
)

// DeliveryRepository persists Delivery aggregates.
type DeliveryRepository interface {
	// Add persists a new delivery.
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update persists changes to an existing delivery.
	Update(ctx context.Context, aggregate *delivery.Delivery) error

	// Get loads a delivery for modification. Within a transaction the
	// delivery stays locked against concurrent writers until commit or
	// rollback. Returns errs.ObjectNotFoundError when absent.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// ListConfirmedBefore returns Confirmed deliveries whose confirmation
	// time is at or before the given instant, oldest first.
	ListConfirmedBefore(ctx context.Context, before time.Time) ([]*delivery.Delivery, error)
}
