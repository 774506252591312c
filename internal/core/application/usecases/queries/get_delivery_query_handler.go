package queries

import (
	"context"

	"proofparcel/internal/core/ports"
)

// GetDeliveryQueryHandler reads one delivery from committed state.
type GetDeliveryQueryHandler struct {
	reader ports.ReadModel
}

func NewGetDeliveryQueryHandler(reader ports.ReadModel) GetDeliveryQueryHandler {
	return GetDeliveryQueryHandler{reader: reader}
}

// Handle returns nil without error when the delivery does not exist.
func (h GetDeliveryQueryHandler) Handle(ctx context.Context, query GetDeliveryQuery) (*DeliveryView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	d, err := h.reader.GetDelivery(ctx, query.DeliveryID())
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	view := newDeliveryView(d, query.Viewer())
	return &view, nil
}
