package commands

import (
	"errors"

	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/pkg/guard"
)

var ErrCancelDeliveryCommandIsNotConstructed = errors.New(
	"CancelDeliveryCommand must be created via NewCancelDeliveryCommand constructor",
)

// CancelDeliveryCommand asks to cancel a Pending or InTransit delivery and refund its escrow.
type CancelDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryTarget

	guard guard.ConstructorGuard
}

// NewCancelDeliveryCommand validates the caller and delivery id.
func NewCancelDeliveryCommand(caller kernel.Principal, deliveryID kernel.UUID) (CancelDeliveryCommand, error) {
	target, err := newDeliveryTarget(caller, deliveryID)
	if err != nil {
		return CancelDeliveryCommand{}, err
	}

	return CancelDeliveryCommand{
		deliveryTarget: target,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through NewCancelDeliveryCommand.
func (c CancelDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCancelDeliveryCommandIsNotConstructed)
}
