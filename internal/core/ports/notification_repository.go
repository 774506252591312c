package ports

import (
	"context"

	"proofparcel/internal/core/domain/model/notification"
)

// NotificationRepository stores notifications written in the same unit of
// work as the transition that caused them.
type NotificationRepository interface {
	Add(ctx context.Context, n *notification.Notification) error
}
