package ports

import (
	"context"

	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/core/domain/model/receipt"
)

// ReceiptRepository is the write side of the proof-of-delivery registry.
type ReceiptRepository interface {
	// Add stores a freshly minted receipt. A second receipt for the same
	// delivery fails with an AlreadyMinted domain error.
	Add(ctx context.Context, minted *receipt.Receipt) error

	// GetByDelivery returns errs.ObjectNotFoundError when the delivery has no receipt.
	GetByDelivery(ctx context.Context, deliveryID kernel.UUID) (*receipt.Receipt, error)
}

