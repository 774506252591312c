// Package deliveryrepo persists Delivery aggregates with gorm.
package deliveryrepo

import (
	"time"

	"proofparcel/internal/adapters/out/postgres/dbtypes"
	"proofparcel/internal/core/domain/model/delivery"
	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/core/domain/model/otp"

	"github.com/google/uuid"
)

// DeliveryDTO is one row of the deliveries table. The live OTP is embedded
// and its columns are NULL whenever the delivery has none.
type DeliveryDTO struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Seq              int64          `gorm:"type:bigserial;<-:false"`
	Seller           string         `gorm:"type:varchar(128);index;not null"`
	Buyer            string         `gorm:"type:varchar(128);index;not null"`
	Description      string         `gorm:"type:varchar(1024);not null"`
	Amount           dbtypes.Amount `gorm:"type:numeric(20,0);not null"`
	Status           int            `gorm:"index;not null"`
	OtpCode          *string        `gorm:"type:varchar(64)"`
	OtpExpiresAt     *time.Time
	CreatedAt        time.Time `gorm:"not null"`
	InTransitAt      *time.Time
	DeliveredAt      *time.Time
	ConfirmedAt      *time.Time `gorm:"index"`
	EscrowReleasedAt *time.Time
	CancelledAt      *time.Time
	History          []StatusChangeDTO `gorm:"type:jsonb;serializer:json;not null"`
}

func (DeliveryDTO) TableName() string {
	return "deliveries"
}

type StatusChangeDTO struct {
	Status int       `json:"status"`
	At     time.Time `json:"at"`
}

func fromDomain(d *delivery.Delivery) DeliveryDTO {
	s := d.Snapshot()
	dto := DeliveryDTO{
		ID:               s.ID.Bytes(),
		Seller:           s.Seller.String(),
		Buyer:            s.Buyer.String(),
		Description:      s.Description,
		Amount:           dbtypes.Amount(s.Amount.Value()),
		Status:           int(s.Status),
		CreatedAt:        s.CreatedAt,
		InTransitAt:      s.InTransitAt,
		DeliveredAt:      s.DeliveredAt,
		ConfirmedAt:      s.ConfirmedAt,
		EscrowReleasedAt: s.EscrowReleasedAt,
		CancelledAt:      s.CancelledAt,
		History:          make([]StatusChangeDTO, 0, len(s.History)),
	}

	if s.Otp != nil {
		code, expiresAt := s.Otp.Value(), s.Otp.ExpiresAt()
		dto.OtpCode = &code
		dto.OtpExpiresAt = &expiresAt
	}

	for _, change := range s.History {
		dto.History = append(dto.History, StatusChangeDTO{Status: int(change.Status), At: change.At})
	}

	return dto
}

func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	seller, err := kernel.NewPrincipal(dto.Seller)
	if err != nil {
		return nil, err
	}
	buyer, err := kernel.NewPrincipal(dto.Buyer)
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewAmount(uint64(dto.Amount))
	if err != nil {
		return nil, err
	}

	var code *otp.Code
	if dto.OtpCode != nil && dto.OtpExpiresAt != nil {
		c, codeErr := otp.NewCode(*dto.OtpCode, *dto.OtpExpiresAt)
		if codeErr != nil {
			return nil, codeErr
		}
		code = &c
	}

	history := make([]delivery.StatusChange, 0, len(dto.History))
	for _, change := range dto.History {
		history = append(history, delivery.StatusChange{Status: delivery.Status(change.Status), At: change.At})
	}

	return delivery.RestoreDelivery(delivery.Snapshot{
		ID:               id,
		Seller:           seller,
		Buyer:            buyer,
		Description:      dto.Description,
		Amount:           amount,
		Status:           delivery.Status(dto.Status),
		Otp:              code,
		CreatedAt:        dto.CreatedAt,
		InTransitAt:      dto.InTransitAt,
		DeliveredAt:      dto.DeliveredAt,
		ConfirmedAt:      dto.ConfirmedAt,
		EscrowReleasedAt: dto.EscrowReleasedAt,
		CancelledAt:      dto.CancelledAt,
		History:          history,
	})
}
