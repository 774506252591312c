package commands

import (
	"errors"

	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/pkg/guard"
)

var ErrCreateDeliveryCommandIsNotConstructed = errors.New(
	"CreateDeliveryCommand must be created via NewCreateDeliveryCommand constructor",
)

// CreateDeliveryCommand asks to open a delivery from the calling seller to a
// buyer and lock its amount in escrow.
//
// Example:
//
//	cmd, err := NewCreateDeliveryCommand(kernel.NewUUID(), caller, buyer, "widget", 100)
//	if errors.Is(err, errs.ErrInvalidAmount) {
//	    // amount was zero
//	}
type CreateDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID  kernel.UUID
	seller      kernel.Principal
	buyer       kernel.Principal
	description string
	amount      kernel.Amount

	guard guard.ConstructorGuard
}

// NewCreateDeliveryCommand validates identifiers and the amount; a zero
// amount fails with InvalidAmount. Party and description rules are enforced
// by the delivery itself.
func NewCreateDeliveryCommand(
	deliveryID kernel.UUID,
	seller kernel.Principal,
	buyer kernel.Principal,
	description string,
	amount uint64,
) (CreateDeliveryCommand, error) {
	cmd := CreateDeliveryCommand{
		description: description,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setParties(seller, buyer),
		cmd.setAmount(amount),
	); err != nil {
		return CreateDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through NewCreateDeliveryCommand.
func (c CreateDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCreateDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the identifier chosen for the new delivery.
func (c CreateDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// Seller returns the calling principal.
func (c CreateDeliveryCommand) Seller() kernel.Principal {
	return c.seller
}

// Buyer returns the principal expected to confirm receipt.
func (c CreateDeliveryCommand) Buyer() kernel.Principal {
	return c.buyer
}

// Description returns the description as supplied.
func (c CreateDeliveryCommand) Description() string {
	return c.description
}

// Amount returns the value to lock in escrow.
func (c CreateDeliveryCommand) Amount() kernel.Amount {
	return c.amount
}

func (c *CreateDeliveryCommand) setDeliveryID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.deliveryID = id
	return nil
}

func (c *CreateDeliveryCommand) setParties(seller, buyer kernel.Principal) error {
	if err := errors.Join(seller.Validate(), buyer.Validate()); err != nil {
		return err
	}
	c.seller = seller
	c.buyer = buyer
	return nil
}

func (c *CreateDeliveryCommand) setAmount(value uint64) error {
	amount, err := kernel.NewAmount(value)
	if err != nil {
		return err
	}
	c.amount = amount
	return nil
}
