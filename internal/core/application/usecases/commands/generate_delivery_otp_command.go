package commands

import (
	"errors"

	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/pkg/guard"
)

var ErrGenerateDeliveryOtpCommandIsNotConstructed = errors.New(
	"GenerateDeliveryOtpCommand must be created via NewGenerateDeliveryOtpCommand constructor",
)

// GenerateDeliveryOtpCommand asks for a fresh confirmation code on an InTransit delivery.
type GenerateDeliveryOtpCommand struct { //nolint:recvcheck //using for validation
	deliveryTarget

	guard guard.ConstructorGuard
}

// NewGenerateDeliveryOtpCommand validates the caller and delivery id.
func NewGenerateDeliveryOtpCommand(caller kernel.Principal, deliveryID kernel.UUID) (GenerateDeliveryOtpCommand, error) {
	target, err := newDeliveryTarget(caller, deliveryID)
	if err != nil {
		return GenerateDeliveryOtpCommand{}, err
	}

	return GenerateDeliveryOtpCommand{
		deliveryTarget: target,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through NewGenerateDeliveryOtpCommand.
func (c GenerateDeliveryOtpCommand) Validate() error {
	return c.guard.Validate(ErrGenerateDeliveryOtpCommandIsNotConstructed)
}
