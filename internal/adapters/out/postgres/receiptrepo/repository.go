package receiptrepo

import (
	"context"
	"errors"
	"fmt"

	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/core/domain/model/receipt"
	"proofparcel/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// uniqueViolation is the SQLSTATE of a unique constraint failure.
const uniqueViolation pq.ErrorCode = "23505"

// GormReceiptRepository implements ports.ReceiptRepository using GORM.
type GormReceiptRepository struct {
	db *gorm.DB
}

func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

func (r *GormReceiptRepository) Add(ctx context.Context, minted *receipt.Receipt) error {
	if err := minted.Validate(); err != nil {
		return err
	}

	dto := fromDomain(minted)
	err := r.db.WithContext(ctx).Create(&dto).Error

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return errs.NewDomainErrorWithCause(
			errs.KindAlreadyMinted,
			fmt.Sprintf("delivery %s already has a receipt", minted.DeliveryID()),
			err,
		)
	}
	return err
}

func (r *GormReceiptRepository) GetByDelivery(ctx context.Context, deliveryID kernel.UUID) (*receipt.Receipt, error) {
	return r.first(ctx, "receipt for delivery", deliveryID, "delivery_id = ?")
}

func (r *GormReceiptRepository) Get(ctx context.Context, id kernel.UUID) (*receipt.Receipt, error) {
	return r.first(ctx, "receipt", id, "id = ?")
}

func (r *GormReceiptRepository) ListByOwner(ctx context.Context, owner kernel.Principal) ([]*receipt.Receipt, error) {
	var dtos []ReceiptDTO
	if err := r.db.WithContext(ctx).Where("owner = ?", owner.String()).Order("minted_at, seq").Find(&dtos).Error; err != nil {
		return nil, err
	}

	receipts := make([]*receipt.Receipt, 0, len(dtos))
	for _, dto := range dtos {
		m, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, m)
	}
	return receipts, nil
}

func (r *GormReceiptRepository) first(ctx context.Context, name string, id kernel.UUID, where string) (*receipt.Receipt, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ReceiptDTO
	if err := r.db.WithContext(ctx).First(&dto, where, id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(name, id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
