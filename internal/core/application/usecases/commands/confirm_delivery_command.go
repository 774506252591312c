package commands

import (
	"errors"
	"strings"

	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/pkg/errs"
	"proofparcel/internal/pkg/guard"
)

var ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor",
)

// ConfirmDeliveryCommand redeems the code the buyer received from the seller.
type ConfirmDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryTarget
	otp string

	guard guard.ConstructorGuard
}

// NewConfirmDeliveryCommand validates the caller, the delivery id and that
// the supplied code is not blank.
//
// Example:
//
// 	cmd, err := NewConfirmDeliveryCommand(buyer, deliveryID, "K7Q2M9XA")
// 	if err != nil {
// 	    return err
// 	}
// 	receiptID, err := handler.Handle(ctx, cmd)
func NewConfirmDeliveryCommand(caller kernel.Principal, deliveryID kernel.UUID, otp string) (ConfirmDeliveryCommand, error) {
	cmd := ConfirmDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	target, err := newDeliveryTarget(caller, deliveryID)
	if err = errors.Join(err, cmd.setOtp(otp)); err != nil {
		return ConfirmDeliveryCommand{}, err
	}
	cmd.deliveryTarget = target

	return cmd, nil
}

// Validate ensures the command was created through NewConfirmDeliveryCommand.
func (c ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}

// Otp returns the code supplied by the buyer.
func (c ConfirmDeliveryCommand) Otp() string {
	return c.otp
}

func (c *ConfirmDeliveryCommand) setOtp(otp string) error {
	otp = strings.TrimSpace(otp)
	if otp == "" {
		return errs.NewValueIsRequiredError("otp")
	}
	c.otp = otp
	return nil
}
