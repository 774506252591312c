package commands

import (
	"errors"

	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/pkg/guard"
)

// ErrStartDeliveryCommandIsNotConstructed is returned by Validate on a zero-value command.
var ErrStartDeliveryCommandIsNotConstructed = errors.New(
	"StartDeliveryCommand must be created via NewStartDeliveryCommand constructor",
)

// StartDeliveryCommand asks to hand a Pending delivery over to transit.
type StartDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryTarget

	guard guard.ConstructorGuard
}

// NewStartDeliveryCommand validates the caller and delivery id.
//
// Example:
//
// 	cmd, err := NewStartDeliveryCommand(caller, deliveryID)
// 	if err != nil {
// 	    return err
// 	}
// 	return handler.Handle(ctx, cmd)
func NewStartDeliveryCommand(caller kernel.Principal, deliveryID kernel.UUID) (StartDeliveryCommand, error) {
	target, err := newDeliveryTarget(caller, deliveryID)
	if err != nil {
		return StartDeliveryCommand{}, err
	}

	return StartDeliveryCommand{
		deliveryTarget: target,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through NewStartDeliveryCommand.
func (c StartDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrStartDeliveryCommandIsNotConstructed)
}
