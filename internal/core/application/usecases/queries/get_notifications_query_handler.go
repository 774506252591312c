package queries

import (
	"context"

	"proofparcel/internal/core/ports"
)

// GetNotificationsQueryHandler lists a principal's notifications, newest first.
type GetNotificationsQueryHandler struct {
	reader ports.ReadModel
}

func NewGetNotificationsQueryHandler(reader ports.ReadModel) GetNotificationsQueryHandler {
	return GetNotificationsQueryHandler{reader: reader}
}

func (h GetNotificationsQueryHandler) Handle(ctx context.Context, query GetNotificationsQuery) ([]NotificationView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	notifications, err := h.reader.ListNotifications(ctx, query.Recipient())
	if err != nil {
		return nil, err
	}

	views := make([]NotificationView, 0, len(notifications))
	for _, n := range notifications {
		views = append(views, newNotificationView(n))
	}
	return views, nil
}
