package ports

import (
	"context"

	"proofparcel/internal/core/domain/model/delivery"
	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/core/domain/model/notification"
	"proofparcel/internal/core/domain/model/receipt"
)

// DeliveryFilter narrows ListDeliveries. Nil fields do not filter.
type DeliveryFilter struct {
	Buyer  *kernel.Principal
	Seller *kernel.Principal
}

// ReadModel serves the query side from committed state only.
type ReadModel interface {
	// GetDelivery returns errs.ObjectNotFoundError when absent.
	GetDelivery(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// ListDeliveries returns matching deliveries ordered by creation time.
	ListDeliveries(ctx context.Context, filter DeliveryFilter) ([]*delivery.Delivery, error)

	// GetReceipt returns errs.ObjectNotFoundError when absent.
	GetReceipt(ctx context.Context, id kernel.UUID) (*receipt.Receipt, error)

	// GetReceiptByDelivery returns errs.ObjectNotFoundError when absent.
	GetReceiptByDelivery(ctx context.Context, deliveryID kernel.UUID) (*receipt.Receipt, error)

	// ListReceiptsByOwner returns the owner's receipts ordered by mint time.
	ListReceiptsByOwner(ctx context.Context, owner kernel.Principal) ([]*receipt.Receipt, error)

	// LockedEscrowBalance sums the amounts of entries still Locked.
	LockedEscrowBalance(ctx context.Context) (uint64, error)

	// ListNotifications returns the recipient's notifications, newest first.
	ListNotifications(ctx context.Context, recipient kernel.Principal) ([]*notification.Notification, error)
}
