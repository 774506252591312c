package queries

import (
	"errors"

	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/pkg/guard"
)

var ErrGetDeliveryQueryIsNotConstructed = errors.New(
	"GetDeliveryQuery must be created via NewGetDeliveryQuery constructor",
)

// GetDeliveryQuery looks up one delivery. viewer may be nil for anonymous reads.
type GetDeliveryQuery struct {
	deliveryID kernel.UUID
	viewer     *kernel.Principal

	guard guard.ConstructorGuard
}

// NewGetDeliveryQuery reads one delivery. The OTP is only rendered when
// viewer is the seller; viewer may be nil.
func NewGetDeliveryQuery(deliveryID kernel.UUID, viewer *kernel.Principal) (GetDeliveryQuery, error) {
	if err := deliveryID.Validate(); err != nil {
		return GetDeliveryQuery{}, err
	}
	return GetDeliveryQuery{
		deliveryID: deliveryID,
		viewer:     viewer,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q GetDeliveryQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryQueryIsNotConstructed)
}

func (q GetDeliveryQuery) DeliveryID() kernel.UUID {
	return q.deliveryID
}

func (q GetDeliveryQuery) Viewer() *kernel.Principal {
	return q.viewer
}
