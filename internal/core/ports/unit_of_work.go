package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the transaction boundary of one state transition. Writes made
// through its repositories become visible to readers only on Commit; Rollback
// discards all of them.
type UnitOfWork interface {
	// Begin starts the transaction. Transitions are serialized: Begin may wait
	// for another unit of work to finish.
	Begin(ctx context.Context) error

	// Commit publishes all staged writes.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback discards all staged writes.
	// Returns error if no active transaction.
	Rollback(ctx context.Context) error

	DeliveryRepository() DeliveryRepository
	EscrowRepository() EscrowRepository
	ReceiptRepository() ReceiptRepository
	NotificationRepository() NotificationRepository
}
