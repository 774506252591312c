// Package receiptrepo persists proof-of-delivery receipts with gorm.
package receiptrepo

import (
	"time"

	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/core/domain/model/receipt"

	"github.com/google/uuid"
)

// ReceiptDTO is one row of receipts. The unique index on delivery_id is the
// storage-level guard against minting twice.
type ReceiptDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq        int64     `gorm:"type:bigserial;<-:false"`
	DeliveryID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Owner      string    `gorm:"type:varchar(128);index;not null"`
	Metadata   string    `gorm:"type:text;not null"`
	MintedAt   time.Time `gorm:"not null"`
}

func (ReceiptDTO) TableName() string {
	return "receipts"
}

func fromDomain(r *receipt.Receipt) ReceiptDTO {
	return ReceiptDTO{
		ID:         r.ID().Bytes(),
		DeliveryID: r.DeliveryID().Bytes(),
		Owner:      r.Owner().String(),
		Metadata:   r.Metadata(),
		MintedAt:   r.MintedAt(),
	}
}

func toDomain(dto ReceiptDTO) (*receipt.Receipt, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	deliveryID, err := kernel.UUIDFromBytes(dto.DeliveryID[:])
	if err != nil {
		return nil, err
	}
	owner, err := kernel.NewPrincipal(dto.Owner)
	if err != nil {
		return nil, err
	}
	return receipt.RestoreReceipt(id, deliveryID, owner, dto.Metadata, dto.MintedAt)
}
