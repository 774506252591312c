// Package notificationrepo persists notifications with gorm.
package notificationrepo

import (
	"context"
	"time"

	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/core/domain/model/notification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq        int64     `gorm:"type:bigserial;<-:false"`
	Recipient  string    `gorm:"type:varchar(128);index;not null"`
	DeliveryID uuid.UUID `gorm:"type:uuid;index;not null"`
	Message    string    `gorm:"type:text;not null"`
	Kind       string    `gorm:"type:varchar(16);not null"`
	CreatedAt  time.Time `gorm:"not null"`
	Read       bool      `gorm:"not null;default:false"`
}

func (NotificationDTO) TableName() string {
	return "notifications"
}

type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) Add(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	dto := NotificationDTO{
		ID:         n.ID().Bytes(),
		Recipient:  n.Recipient().String(),
		DeliveryID: n.DeliveryID().Bytes(),
		Message:    n.Message(),
		Kind:       string(n.Kind()),
		CreatedAt:  n.CreatedAt(),
		Read:       n.IsRead(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListByRecipient returns the recipient's notifications, newest first.
func (r *GormNotificationRepository) ListByRecipient(ctx context.Context, recipient kernel.Principal) ([]*notification.Notification, error) {
	var dtos []NotificationDTO
	if err := r.db.WithContext(ctx).
		Where("recipient = ?", recipient.String()).
		Order("created_at DESC, seq DESC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	result := make([]*notification.Notification, 0, len(dtos))
	for _, dto := range dtos {
		n, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, nil
}

func toDomain(dto NotificationDTO) (*notification.Notification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	recipient, err := kernel.NewPrincipal(dto.Recipient)
	if err != nil {
		return nil, err
	}
	deliveryID, err := kernel.UUIDFromBytes(dto.DeliveryID[:])
	if err != nil {
		return nil, err
	}
	return notification.RestoreNotification(
		id, recipient, deliveryID, dto.Message, notification.Kind(dto.Kind), dto.CreatedAt, dto.Read,
	)
}
