// Package escrowrepo persists escrow entries with gorm.
package escrowrepo

import (
	"time"

	"proofparcel/internal/adapters/out/postgres/dbtypes"
	"proofparcel/internal/core/domain/model/escrow"
	"proofparcel/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// EntryDTO is one row of escrow_entries, keyed by the delivery it belongs to.
type EntryDTO struct {
	DeliveryID uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Amount     dbtypes.Amount `gorm:"type:numeric(20,0);not null"`
	State      int            `gorm:"index;not null"`
	LockedAt   time.Time      `gorm:"not null"`
	SettledAt  *time.Time
}

func (EntryDTO) TableName() string {
	return "escrow_entries"
}

func fromDomain(e *escrow.Entry) EntryDTO {
	return EntryDTO{
		DeliveryID: e.DeliveryID().Bytes(),
		Amount:     dbtypes.Amount(e.Amount().Value()),
		State:      int(e.State()),
		LockedAt:   e.LockedAt(),
		SettledAt:  e.SettledAt(),
	}
}

func toDomain(dto EntryDTO) (*escrow.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.DeliveryID[:])
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewAmount(uint64(dto.Amount))
	if err != nil {
		return nil, err
	}
	return escrow.RestoreEntry(id, amount, escrow.State(dto.State), dto.LockedAt, dto.SettledAt)
}
