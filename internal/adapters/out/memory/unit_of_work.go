package memory

import (
	"context"
	"errors"

	"proofparcel/internal/core/ports"
)

var (
	ErrNoActiveTransaction      = errors.New("no active transaction")
	ErrTransactionAlreadyActive = errors.New("transaction already started")
)

// stagedWrites are the writes of one unit of work not yet visible to readers.
type stagedWrites struct {
	deliveries    map[string]deliveryRecord
	deliveryOrder []string
	escrows       map[string]escrowRecord
	receipts      map[string]receiptRecord
	receiptOrder  []string
	notifications []notificationRecord
}

func newStagedWrites() *stagedWrites {
	return &stagedWrites{
		deliveries: make(map[string]deliveryRecord),
		escrows:    make(map[string]escrowRecord),
		receipts:   make(map[string]receiptRecord),
	}
}

var _ ports.UnitOfWork = &UnitOfWork{}

// UnitOfWork is single use per command and not safe for concurrent use.
type UnitOfWork struct {
	store *Store
	tx    *stagedWrites
}

func NewUnitOfWork(store *Store) *UnitOfWork {
	return &UnitOfWork{store: store}
}

// Begin waits until no other unit of work is active or ctx is done.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return ErrTransactionAlreadyActive
	}

	select {
	case u.store.writer <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	u.tx = newStagedWrites()
	return nil
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	if u.tx == nil {
		return ErrNoActiveTransaction
	}

	u.store.apply(u.tx)
	u.release()
	return nil
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	if u.tx == nil {
		return ErrNoActiveTransaction
	}

	u.release()
	return nil
}

func (u *UnitOfWork) release() {
	u.tx = nil
	<-u.store.writer
}

func (u *UnitOfWork) DeliveryRepository() ports.DeliveryRepository {
	return &deliveryRepository{uow: u}
}

func (u *UnitOfWork) EscrowRepository() ports.EscrowRepository {
	return &escrowRepository{uow: u}
}

func (u *UnitOfWork) ReceiptRepository() ports.ReceiptRepository {
	return &receiptRepository{uow: u}
}

func (u *UnitOfWork) NotificationRepository() ports.NotificationRepository {
	return &notificationRepository{uow: u}
}

// active returns the staged writes and the committed state. Holding writer
// keeps committed stable, so it is read without taking mu.
func (u *UnitOfWork) active() (*stagedWrites, *state, error) {
	if u.tx == nil {
		return nil, nil, ErrNoActiveTransaction
	}
	return u.tx, u.store.committed, nil
}

// UnitOfWorkFactory creates units of work over one Store.
type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) UnitOfWorkFactory {
	return UnitOfWorkFactory{store: store}
}

func (f UnitOfWorkFactory) Create() ports.UnitOfWork {
	return NewUnitOfWork(f.store)
}
