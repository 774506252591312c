package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"proofparcel/internal/core/domain/model/delivery"
	"proofparcel/internal/core/domain/model/escrow"
	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/core/domain/model/notification"
	"proofparcel/internal/core/domain/model/receipt"
	"proofparcel/internal/pkg/errs"
)

type deliveryRepository struct {
	uow *UnitOfWork
}

func (r *deliveryRepository) lookup(tx *stagedWrites, committed *state, id string) (deliveryRecord, bool) {
	if rec, ok := tx.deliveries[id]; ok {
		return rec, true
	}
	rec, ok := committed.deliveries[id]
	return rec, ok
}

func (r *deliveryRepository) Add(_ context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	tx, committed, err := r.uow.active()
	if err != nil {
		return err
	}

	id := aggregate.ID().String()
	if _, exists := r.lookup(tx, committed, id); exists {
		return errs.NewValueIsInvalidErrorWithCause("delivery", fmt.Errorf("delivery %s already exists", id))
	}

	tx.deliveries[id] = fromDelivery(aggregate)
	tx.deliveryOrder = append(tx.deliveryOrder, id)
	return nil
}

func (r *deliveryRepository) Update(_ context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	tx, committed, err := r.uow.active()
	if err != nil {
		return err
	}

	id := aggregate.ID().String()
	if _, exists := r.lookup(tx, committed, id); !exists {
		return errs.NewObjectNotFoundError("delivery", id)
	}

	tx.deliveries[id] = fromDelivery(aggregate)
	return nil
}

func (r *deliveryRepository) Get(_ context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	tx, committed, err := r.uow.active()
	if err != nil {
		return nil, err
	}

	rec, ok := r.lookup(tx, committed, id.String())
	if !ok {
		return nil, errs.NewObjectNotFoundError("delivery", id)
	}
	return rec.toDomain()
}

func (r *deliveryRepository) ListConfirmedBefore(_ context.Context, before time.Time) ([]*delivery.Delivery, error) {
	tx, committed, err := r.uow.active()
	if err != nil {
		return nil, err
	}

	confirmed := delivery.Confirmed.String()
	var due []deliveryRecord
	for _, id := range append(append([]string(nil), committed.deliveryOrder...), tx.deliveryOrder...) {
		rec, _ := r.lookup(tx, committed, id)
		if rec.Status == confirmed && rec.ConfirmedAt != nil && !rec.ConfirmedAt.After(before) {
			due = append(due, rec)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].ConfirmedAt.Before(*due[j].ConfirmedAt)
	})

	result := make([]*delivery.Delivery, 0, len(due))
	for _, rec := range due {
		d, restoreErr := rec.toDomain()
		if restoreErr != nil {
			return nil, restoreErr
		}
		result = append(result, d)
	}
	return result, nil
}

type escrowRepository struct {
	uow *UnitOfWork
}

func (r *escrowRepository) lookup(tx *stagedWrites, committed *state, id string) (escrowRecord, bool) {
	if rec, ok := tx.escrows[id]; ok {
		return rec, true
	}
	rec, ok := committed.escrows[id]
	return rec, ok
}

func (r *escrowRepository) Add(_ context.Context, entry *escrow.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	tx, committed, err := r.uow.active()
	if err != nil {
		return err
	}

	id := entry.DeliveryID().String()
	if _, exists := r.lookup(tx, committed, id); exists {
		return errs.NewValueIsInvalidErrorWithCause("escrow entry", fmt.Errorf("escrow for %s is already locked", id))
	}

	tx.escrows[id] = fromEntry(entry)
	return nil
}

func (r *escrowRepository) Update(_ context.Context, entry *escrow.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	tx, committed, err := r.uow.active()
	if err != nil {
		return err
	}

	id := entry.DeliveryID().String()
	if _, exists := r.lookup(tx, committed, id); !exists {
		return errs.NewObjectNotFoundError("escrow entry", id)
	}

	tx.escrows[id] = fromEntry(entry)
	return nil
}

func (r *escrowRepository) Get(_ context.Context, deliveryID kernel.UUID) (*escrow.Entry, error) {
	tx, committed, err := r.uow.active()
	if err != nil {
		return nil, err
	}

	rec, ok := r.lookup(tx, committed, deliveryID.String())
	if !ok {
		return nil, errs.NewObjectNotFoundError("escrow entry", deliveryID)
	}
	return rec.toDomain()
}

// LockedBalance sums staged and committed entries still Locked. The active
// unit of work already excludes every other writer.
func (r *escrowRepository) LockedBalance(_ context.Context) (uint64, error) {
	tx, committed, err := r.uow.active()
	if err != nil {
		return 0, err
	}

	locked := make([]escrowRecord, 0, len(committed.escrows)+len(tx.escrows))
	for id, rec := range committed.escrows {
		if _, staged := tx.escrows[id]; !staged {
			locked = append(locked, rec)
		}
	}
	for _, rec := range tx.escrows {
		locked = append(locked, rec)
	}
	return sumLocked(locked)
}

type receiptRepository struct {
	uow *UnitOfWork
}

func (r *receiptRepository) lookupByDelivery(tx *stagedWrites, committed *state, deliveryID string) (receiptRecord, bool) {
	for _, id := range tx.receiptOrder {
		if rec := tx.receipts[id]; rec.DeliveryID == deliveryID {
			return rec, true
		}
	}
	if id, ok := committed.receiptByDelivery[deliveryID]; ok {
		return committed.receipts[id], true
	}
	return receiptRecord{}, false
}

func (r *receiptRepository) Add(_ context.Context, minted *receipt.Receipt) error {
	if err := minted.Validate(); err != nil {
		return err
	}
	tx, committed, err := r.uow.active()
	if err != nil {
		return err
	}

	deliveryID := minted.DeliveryID().String()
	if _, exists := r.lookupByDelivery(tx, committed, deliveryID); exists {
		return errs.NewDomainError(errs.KindAlreadyMinted, fmt.Sprintf("delivery %s already has a receipt", deliveryID))
	}

	id := minted.ID().String()
	tx.receipts[id] = fromReceipt(minted)
	tx.receiptOrder = append(tx.receiptOrder, id)
	return nil
}

func (r *receiptRepository) GetByDelivery(_ context.Context, deliveryID kernel.UUID) (*receipt.Receipt, error) {
	tx, committed, err := r.uow.active()
	if err != nil {
		return nil, err
	}

	rec, ok := r.lookupByDelivery(tx, committed, deliveryID.String())
	if !ok {
		return nil, errs.NewObjectNotFoundError("receipt for delivery", deliveryID)
	}
	return rec.toDomain()
}

type notificationRepository struct {
	uow *UnitOfWork
}

func (r *notificationRepository) Add(_ context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}
	tx, _, err := r.uow.active()
	if err != nil {
		return err
	}

	tx.notifications = append(tx.notifications, fromNotification(n))
	return nil
}
