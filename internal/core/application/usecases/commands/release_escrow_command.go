package commands

import (
	"errors"

	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/pkg/guard"
)

var ErrReleaseEscrowCommandIsNotConstructed = errors.New(
	"ReleaseEscrowCommand must be created via NewReleaseEscrowCommand constructor",
)

// ReleaseEscrowCommand asks to pay out the escrow of a Confirmed delivery.
type ReleaseEscrowCommand struct { //nolint:recvcheck //using for validation
	deliveryTarget

	guard guard.ConstructorGuard
}

// NewReleaseEscrowCommand validates the caller and delivery id.
func NewReleaseEscrowCommand(caller kernel.Principal, deliveryID kernel.UUID) (ReleaseEscrowCommand, error) {
	target, err := newDeliveryTarget(caller, deliveryID)
	if err != nil {
		return ReleaseEscrowCommand{}, err
	}

	return ReleaseEscrowCommand{
		deliveryTarget: target,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through NewReleaseEscrowCommand.
func (c ReleaseEscrowCommand) Validate() error {
	return c.guard.Validate(ErrReleaseEscrowCommandIsNotConstructed)
}
