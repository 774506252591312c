package services

import (
	"errors"
	"fmt"
	"time"

	"proofparcel/internal/core/domain/model/delivery"
	"proofparcel/internal/core/domain/model/escrow"
	"proofparcel/internal/pkg/errs"
)

// EscrowSettlement moves a delivery and its escrow entry to a terminal state
// together.
type EscrowSettlement struct{}

func NewEscrowSettlement() EscrowSettlement {
	return EscrowSettlement{}
}

// Release pays out the escrow of a Confirmed delivery. The delivery status is
// checked first (InvalidState); an entry that was already debited reports
// AlreadyReleased.
func (EscrowSettlement) Release(d *delivery.Delivery, entry *escrow.Entry, now time.Time) error {
	if err := validatePair(d, entry); err != nil {
		return err
	}

	if err := d.ReleaseEscrow(now); err != nil {
		return err
	}

	return entry.Release(now)
}

// Refund cancels a Pending or InTransit delivery and unlocks its escrow.
func (EscrowSettlement) Refund(d *delivery.Delivery, entry *escrow.Entry, now time.Time) error {
	if err := validatePair(d, entry); err != nil {
		return err
	}

	if err := d.Cancel(now); err != nil {
		return err
	}

	return entry.Unlock(now)
}

func validatePair(d *delivery.Delivery, entry *escrow.Entry) error {
	if err := errors.Join(d.Validate(), entry.Validate()); err != nil {
		return err
	}
	if !entry.DeliveryID().IsEqual(d.ID()) {
		return errs.NewValueIsInvalidErrorWithCause(
			"escrow entry",
			fmt.Errorf("entry of %s does not belong to delivery %s", entry.DeliveryID(), d.ID()),
		)
	}
	return nil
}
