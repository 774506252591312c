package queries

import (
	"context"

	"proofparcel/internal/core/domain/model/receipt"
	"proofparcel/internal/core/ports"
)

// GetReceiptQueryHandler resolves a receipt by its own id or by delivery id.
type GetReceiptQueryHandler struct {
	reader ports.ReadModel
}

func NewGetReceiptQueryHandler(reader ports.ReadModel) GetReceiptQueryHandler {
	return GetReceiptQueryHandler{reader: reader}
}

// Handle returns nil without error when no receipt matches.
func (h GetReceiptQueryHandler) Handle(ctx context.Context, query GetReceiptQuery) (*ReceiptView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var (
		r   *receipt.Receipt
		err error
	)
	if query.ByDelivery() {
		r, err = h.reader.GetReceiptByDelivery(ctx, query.ID())
	} else {
		r, err = h.reader.GetReceipt(ctx, query.ID())
	}
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	view := newReceiptView(r)
	return &view, nil
}
