package services

import (
	"time"

	"proofparcel/internal/core/domain/model/delivery"
	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/core/domain/model/receipt"
)

// ConfirmationService turns a redeemed OTP into a confirmed delivery with its
// proof-of-delivery receipt.
type ConfirmationService struct{}

func NewConfirmationService() ConfirmationService {
	return ConfirmationService{}
}

// Confirm redeems supplied against d's live OTP, mints the receipt with id
// receiptID owned by the buyer and advances d to Confirmed. d is mutated even
// when a later step fails; callers discard it by rolling back their unit of work.
func (ConfirmationService) Confirm(
	d *delivery.Delivery,
	supplied string,
	receiptID kernel.UUID,
	now time.Time,
) (*receipt.Receipt, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	if err := d.Deliver(supplied, now); err != nil {
		return nil, err
	}

	minted, err := receipt.Mint(receiptID, d, now)
	if err != nil {
		return nil, err
	}

	if err = d.Confirm(now); err != nil {
		return nil, err
	}

	return minted, nil
}
