// Package escrow models the funds locked against a delivery. Each delivery owns
// exactly one Entry, created Locked at delivery creation and settled at most
// once: released to the seller or refunded on cancellation.
//
// The ledger-wide balance is the sum of amounts over Locked entries; it is
// computed by the repository rather than stored, so it cannot drift from the
// entries.
package escrow

import (
	"errors"
	"fmt"
	"time"

	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/pkg/errs"
)

var ErrEntryIsNotConstructed = errors.New("Entry must be created via Lock or RestoreEntry")

// Entry is the escrow record of one delivery.
type Entry struct {
	deliveryID kernel.UUID
	amount     kernel.Amount
	state      State
	lockedAt   time.Time
	settledAt  *time.Time

	isConstructed bool
}

// Lock creates the Locked entry for a newly created delivery.
func Lock(deliveryID kernel.UUID, amount kernel.Amount, now time.Time) (*Entry, error) {
	if err := errors.Join(deliveryID.Validate(), amount.Validate()); err != nil {
		return nil, err
	}

	return &Entry{
		deliveryID:    deliveryID,
		amount:        amount,
		state:         Locked,
		lockedAt:      now,
		isConstructed: true,
	}, nil
}

// RestoreEntry rebuilds an entry from storage. settledAt must be present
// exactly when the entry is no longer Locked.
func RestoreEntry(
	deliveryID kernel.UUID,
	amount kernel.Amount,
	state State,
	lockedAt time.Time,
	settledAt *time.Time,
) (*Entry, error) {
	if err := errors.Join(deliveryID.Validate(), amount.Validate(), state.Validate()); err != nil {
		return nil, err
	}

	if (settledAt == nil) != (state == Locked) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"escrow settled at",
			fmt.Errorf("%s entry has inconsistent settlement time", state),
		)
	}

	return &Entry{
		deliveryID:    deliveryID,
		amount:        amount,
		state:         state,
		lockedAt:      lockedAt,
		settledAt:     settledAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Entry was built through Lock or RestoreEntry.
func (e *Entry) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEntryIsNotConstructed
	}
	return nil
}

// DeliveryID returns the delivery the funds are held for.
func (e *Entry) DeliveryID() kernel.UUID {
	return e.deliveryID
}

// Amount returns the held amount. It never changes after Lock.
func (e *Entry) Amount() kernel.Amount {
	return e.amount
}

// State returns Locked until the entry is released or refunded.
func (e *Entry) State() State {
	return e.state
}

// LockedAt returns when the funds were locked.
func (e *Entry) LockedAt() time.Time {
	return e.lockedAt
}

// SettledAt is when the entry was released or refunded; nil while Locked.
func (e *Entry) SettledAt() *time.Time {
	return e.settledAt
}

// IsLocked reports whether the amount still counts towards the ledger balance.
func (e *Entry) IsLocked() bool {
	return e.state == Locked
}

// Release debits the entry. It succeeds exactly once.
func (e *Entry) Release(now time.Time) error {
	next, err := e.state.Release()
	if err != nil {
		return err
	}

	e.state = next
	e.settledAt = &now
	return nil
}

// Unlock returns the funds on cancellation without recording a release.
func (e *Entry) Unlock(now time.Time) error {
	next, err := e.state.Refund()
	if err != nil {
		return err
	}

	e.state = next
	e.settledAt = &now
	return nil
}
