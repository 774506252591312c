package commands

import (
	"context"
	"time"

	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/core/domain/model/notification"
	"proofparcel/internal/core/ports"
)

type notice struct {
	recipient kernel.Principal
	message   string
	kind      notification.Kind
}

func notify(
	ctx context.Context,
	repo ports.NotificationRepository,
	deliveryID kernel.UUID,
	now time.Time,
	notices ...notice,
) error {
	for _, n := range notices {
		record, err := notification.NewNotification(kernel.NewUUID(), n.recipient, deliveryID, n.message, n.kind, now)
		if err != nil {
			return err
		}
		if err = repo.Add(ctx, record); err != nil {
			return err
		}
	}
	return nil
}
