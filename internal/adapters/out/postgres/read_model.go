package postgres

import (
	"context"

	"proofparcel/internal/adapters/out/postgres/deliveryrepo"
	"proofparcel/internal/adapters/out/postgres/escrowrepo"
	"proofparcel/internal/adapters/out/postgres/notificationrepo"
	"proofparcel/internal/adapters/out/postgres/receiptrepo"
	"proofparcel/internal/core/domain/model/delivery"
	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/core/domain/model/notification"
	"proofparcel/internal/core/domain/model/receipt"
	"proofparcel/internal/core/ports"

	"gorm.io/gorm"
)

var _ ports.ReadModel = (*GormReadModel)(nil)

// GormReadModel answers queries outside any transaction, so it only sees
// committed rows and never takes row locks.
type GormReadModel struct {
	deliveries    *deliveryrepo.GormDeliveryRepository
	escrow        *escrowrepo.GormEscrowRepository
	receipts      *receiptrepo.GormReceiptRepository
	notifications *notificationrepo.GormNotificationRepository
}

func NewGormReadModel(db *gorm.DB) *GormReadModel {
	return &GormReadModel{
		deliveries:    deliveryrepo.NewGormDeliveryRepository(db),
		escrow:        escrowrepo.NewGormEscrowRepository(db),
		receipts:      receiptrepo.NewGormReceiptRepository(db),
		notifications: notificationrepo.NewGormNotificationRepository(db),
	}
}

func (m *GormReadModel) GetDelivery(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	return m.deliveries.Find(ctx, id)
}

func (m *GormReadModel) ListDeliveries(ctx context.Context, filter ports.DeliveryFilter) ([]*delivery.Delivery, error) {
	return m.deliveries.List(ctx, filter)
}

func (m *GormReadModel) GetReceipt(ctx context.Context, id kernel.UUID) (*receipt.Receipt, error) {
	return m.receipts.Get(ctx, id)
}

func (m *GormReadModel) GetReceiptByDelivery(ctx context.Context, deliveryID kernel.UUID) (*receipt.Receipt, error) {
	return m.receipts.GetByDelivery(ctx, deliveryID)
}

func (m *GormReadModel) ListReceiptsByOwner(ctx context.Context, owner kernel.Principal) ([]*receipt.Receipt, error) {
	return m.receipts.ListByOwner(ctx, owner)
}

func (m *GormReadModel) LockedEscrowBalance(ctx context.Context) (uint64, error) {
	return m.escrow.SumLocked(ctx)
}

func (m *GormReadModel) ListNotifications(ctx context.Context, recipient kernel.Principal) ([]*notification.Notification, error) {
	return m.notifications.ListByRecipient(ctx, recipient)
}
