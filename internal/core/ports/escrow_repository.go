package ports

import (
	"context"

	"proofparcel/internal/core/domain/model/escrow"
	"proofparcel/internal/core/domain/model/kernel"
)

// EscrowRepository persists the escrow entry of each delivery.
type EscrowRepository interface {
	// Add records the entry locked at delivery creation.
	Add(ctx context.Context, entry *escrow.Entry) error

	// Update persists a settled entry.
	Update(ctx context.Context, entry *escrow.Entry) error

	// Get loads the entry of a delivery. Returns errs.ObjectNotFoundError when absent.
	Get(ctx context.Context, deliveryID kernel.UUID) (*escrow.Entry, error)

	// LockedBalance sums the amounts still Locked, staged writes included.
	// Concurrent units of work calling it are serialized until commit or
	// rollback, so a check against the returned total holds at commit.
	LockedBalance(ctx context.Context) (uint64, error)
}
