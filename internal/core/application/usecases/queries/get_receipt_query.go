package queries

import (
	"errors"

	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/pkg/guard"
)

var ErrGetReceiptQueryIsNotConstructed = errors.New(
	"GetReceiptQuery must be created via NewGetReceiptQuery or NewGetReceiptByDeliveryQuery",
)

// GetReceiptQuery looks up a proof-of-delivery receipt by its own id or by
// the id of the delivery it proves.
type GetReceiptQuery struct {
	id         kernel.UUID
	byDelivery bool

	guard guard.ConstructorGuard
}

// NewGetReceiptQuery looks a receipt up by its id.
func NewGetReceiptQuery(receiptID kernel.UUID) (GetReceiptQuery, error) {
	if err := receiptID.Validate(); err != nil {
		return GetReceiptQuery{}, err
	}
	return GetReceiptQuery{id: receiptID, guard: guard.NewConstructorGuard()}, nil
}

// NewGetReceiptByDeliveryQuery looks a receipt up by the delivery it proves.
func NewGetReceiptByDeliveryQuery(deliveryID kernel.UUID) (GetReceiptQuery, error) {
	if err := deliveryID.Validate(); err != nil {
		return GetReceiptQuery{}, err
	}
	return GetReceiptQuery{id: deliveryID, byDelivery: true, guard: guard.NewConstructorGuard()}, nil
}

func (q GetReceiptQuery) Validate() error {
	return q.guard.Validate(ErrGetReceiptQueryIsNotConstructed)
}

// ID returns the receipt id, or the delivery id when ByDelivery is true.
func (q GetReceiptQuery) ID() kernel.UUID {
	return q.id
}

// ByDelivery reports whether ID is a delivery id.
func (q GetReceiptQuery) ByDelivery() bool {
	return q.byDelivery
}
