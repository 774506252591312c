package commands

import (
	"errors"

	"proofparcel/internal/core/domain/model/kernel"
)

// deliveryTarget is the caller and delivery every transition after creation
// acts on.
type deliveryTarget struct {
	caller     kernel.Principal
	deliveryID kernel.UUID
}

func newDeliveryTarget(caller kernel.Principal, deliveryID kernel.UUID) (deliveryTarget, error) {
	if err := errors.Join(caller.Validate(), deliveryID.Validate()); err != nil {
		return deliveryTarget{}, err
	}
	return deliveryTarget{caller: caller, deliveryID: deliveryID}, nil
}

func (t deliveryTarget) Caller() kernel.Principal {
	return t.caller
}

func (t deliveryTarget) DeliveryID() kernel.UUID {
	return t.deliveryID
}
