// Package receipt models the proof-of-delivery record: a non-transferable
// receipt minted once for a confirmed delivery and owned by its buyer.
package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"proofparcel/internal/core/domain/model/delivery"
	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/pkg/errs"
)

var ErrReceiptIsNotConstructed = errors.New("Receipt must be created via Mint or RestoreReceipt")

// Metadata is the descriptive snapshot of the delivery captured at mint time.
type Metadata struct {
	DeliveryID  string `json:"delivery_id"`
	Description string `json:"description"`
	Amount      uint64 `json:"amount"`
	ConfirmedAt int64  `json:"confirmed_at"`
	Seller      string `json:"seller"`
	Buyer       string `json:"buyer"`
}

// Receipt is immutable once minted. It refers to its delivery by id only.
type Receipt struct {
	id         kernel.UUID
	deliveryID kernel.UUID
	owner      kernel.Principal
	metadata   string
	mintedAt   time.Time

	isConstructed bool
}

// Mint creates the receipt for a delivery whose OTP has just been redeemed.
// The owner is the delivery's buyer.
func Mint(id kernel.UUID, d *delivery.Delivery, now time.Time) (*Receipt, error) {
	if err := errors.Join(id.Validate(), d.Validate()); err != nil {
		return nil, err
	}

	if d.Status() != delivery.Delivered || d.ConfirmedAt() == nil {
		return nil, errs.NewDomainErrorWithCause(
			errs.KindInvalidState,
			"status is invalid",
			fmt.Errorf("%s is not a valid status to mint a receipt", d.Status()),
		)
	}

	metadata, err := json.Marshal(Metadata{
		DeliveryID:  d.ID().String(),
		Description: d.Description(),
		Amount:      d.Amount().Value(),
		ConfirmedAt: d.ConfirmedAt().Unix(),
		Seller:      d.Seller().String(),
		Buyer:       d.Buyer().String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode receipt metadata: %w", err)
	}

	return &Receipt{
		id:            id,
		deliveryID:    d.ID(),
		owner:         d.Buyer(),
		metadata:      string(metadata),
		mintedAt:      now,
		isConstructed: true,
	}, nil
}

// RestoreReceipt rebuilds a receipt from storage.
func RestoreReceipt(
	id kernel.UUID,
	deliveryID kernel.UUID,
	owner kernel.Principal,
	metadata string,
	mintedAt time.Time,
) (*Receipt, error) {
	if err := errors.Join(id.Validate(), deliveryID.Validate(), owner.Validate()); err != nil {
		return nil, err
	}
	if metadata == "" {
		return nil, errs.NewValueIsRequiredError("receipt metadata")
	}

	return &Receipt{
		id:            id,
		deliveryID:    deliveryID,
		owner:         owner,
		metadata:      metadata,
		mintedAt:      mintedAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the Receipt was built through Mint or RestoreReceipt.
func (r *Receipt) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrReceiptIsNotConstructed
	}
	return nil
}

// ID returns the receipt identifier.
func (r *Receipt) ID() kernel.UUID {
	return r.id
}

// DeliveryID returns the confirmed delivery this receipt proves.
func (r *Receipt) DeliveryID() kernel.UUID {
	return r.deliveryID
}

// Owner returns the buyer of the delivery. Receipts are never transferred.
func (r *Receipt) Owner() kernel.Principal {
	return r.owner
}

// Metadata returns the JSON text captured at mint time.
func (r *Receipt) Metadata() string {
	return r.metadata
}

// MintedAt returns the confirmation time.
func (r *Receipt) MintedAt() time.Time {
	return r.mintedAt
}

// DecodeMetadata parses the metadata text.
func (r *Receipt) DecodeMetadata() (Metadata, error) {
	var m Metadata
	if err := json.Unmarshal([]byte(r.metadata), &m); err != nil {
		return Metadata{}, errs.NewValueIsInvalidErrorWithCause("receipt metadata", err)
	}
	return m, nil
}
