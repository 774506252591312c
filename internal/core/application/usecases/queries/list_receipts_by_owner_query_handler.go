package queries

import (
	"context"

	"proofparcel/internal/core/ports"
)

// ListReceiptsByOwnerQueryHandler lists receipts in minting order.
type ListReceiptsByOwnerQueryHandler struct {
	reader ports.ReadModel
}

func NewListReceiptsByOwnerQueryHandler(reader ports.ReadModel) ListReceiptsByOwnerQueryHandler {
	return ListReceiptsByOwnerQueryHandler{reader: reader}
}

func (h ListReceiptsByOwnerQueryHandler) Handle(ctx context.Context, query ListReceiptsByOwnerQuery) ([]ReceiptView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	receipts, err := h.reader.ListReceiptsByOwner(ctx, query.Owner())
	if err != nil {
		return nil, err
	}

	views := make([]ReceiptView, 0, len(receipts))
	for _, r := range receipts {
		views = append(views, newReceiptView(r))
	}
	return views, nil
}
