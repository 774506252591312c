package escrowrepo

import (
	"context"
	"errors"

	"proofparcel/internal/adapters/out/postgres/dbtypes"
	"proofparcel/internal/core/domain/model/escrow"
	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEscrowRepository implements ports.EscrowRepository using GORM.
type GormEscrowRepository struct {
	db *gorm.DB
}

func NewGormEscrowRepository(db *gorm.DB) *GormEscrowRepository {
	return &GormEscrowRepository{db: db}
}

func (r *GormEscrowRepository) Add(ctx context.Context, entry *escrow.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormEscrowRepository) Update(ctx context.Context, entry *escrow.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	result := r.db.WithContext(ctx).Model(&EntryDTO{}).Where("delivery_id = ?", dto.DeliveryID).
		Select("*").Omit("delivery_id").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("escrow entry", entry.DeliveryID().String())
	}
	return nil
}

// Get locks the entry for the rest of the transaction.
func (r *GormEscrowRepository) Get(ctx context.Context, deliveryID kernel.UUID) (*escrow.Entry, error) {
	if err := deliveryID.Validate(); err != nil {
		return nil, err
	}

	var dto EntryDTO
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "delivery_id = ?", deliveryID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("escrow entry", deliveryID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// balanceLockKey identifies the transaction-scoped advisory lock guarding
// the locked escrow total.
const balanceLockKey int64 = 0x70726f6f66

// LockedBalance takes the balance advisory lock for the rest of the
// transaction and then sums the entries still Locked.
func (r *GormEscrowRepository) LockedBalance(ctx context.Context) (uint64, error) {
	if err := r.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(?)", balanceLockKey).Error; err != nil {
		return 0, err
	}
	return r.SumLocked(ctx)
}

// SumLocked sums the amounts of entries still Locked without locking.
func (r *GormEscrowRepository) SumLocked(ctx context.Context) (uint64, error) {
	var total dbtypes.Amount
	err := r.db.WithContext(ctx).Model(&EntryDTO{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("state = ?", int(escrow.Locked)).
		Row().Scan(&total)
	if err != nil {
		return 0, err
	}
	return uint64(total), nil
}
