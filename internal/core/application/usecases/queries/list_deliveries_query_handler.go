package queries

import (
	"context"

	"proofparcel/internal/core/ports"
)

// ListDeliveriesQueryHandler lists deliveries in creation order.
type ListDeliveriesQueryHandler struct {
	reader ports.ReadModel
}

func NewListDeliveriesQueryHandler(reader ports.ReadModel) ListDeliveriesQueryHandler {
	return ListDeliveriesQueryHandler{reader: reader}
}

// Handle returns deliveries ordered by creation time.
func (h ListDeliveriesQueryHandler) Handle(ctx context.Context, query ListDeliveriesQuery) ([]DeliveryView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	deliveries, err := h.reader.ListDeliveries(ctx, query.Filter())
	if err != nil {
		return nil, err
	}

	views := make([]DeliveryView, 0, len(deliveries))
	for _, d := range deliveries {
		views = append(views, newDeliveryView(d, query.Viewer()))
	}
	return views, nil
}
