package commands

import (
	"context"
	"fmt"
	"time"

	"proofparcel/internal/core/domain/model/delivery"
	"proofparcel/internal/core/domain/model/notification"
	"proofparcel/internal/core/domain/services"
	"proofparcel/internal/core/ports"
	"proofparcel/internal/pkg/clock"
)

// escrowReleaser settles a Confirmed delivery inside an already begun unit
// of work. Authorization is left to the caller.
type escrowReleaser struct {
	settlement services.EscrowSettlement
	clock      clock.Clock
}

func (r escrowReleaser) release(ctx context.Context, uow UoW, d *delivery.Delivery) error {
	entry, err := uow.EscrowRepository().Get(ctx, d.ID())
	if err != nil {
		return err
	}

	now := r.clock.Now()
	if err = r.settlement.Release(d, entry, now); err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}

	if err = uow.EscrowRepository().Update(ctx, entry); err != nil {
		return err
	}

	return notifyBoth(ctx, uow.NotificationRepository(), d, now,
		fmt.Sprintf("Escrow released: %s paid for %s", d.Amount(), d.Description()),
		notification.KindSuccess,
	)
}

func notifyBoth(
	ctx context.Context,
	repo ports.NotificationRepository,
	d *delivery.Delivery,
	now time.Time,
	message string,
	kind notification.Kind,
) error {
	return notify(ctx, repo, d.ID(), now,
		notice{recipient: d.Seller(), message: message, kind: kind},
		notice{recipient: d.Buyer(), message: message, kind: kind},
	)
}
