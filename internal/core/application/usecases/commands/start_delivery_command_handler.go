package commands

import (
	"context"
	"fmt"

	"proofparcel/internal/core/domain/model/notification"
	"proofparcel/internal/core/domain/services"
	"proofparcel/internal/pkg/clock"
)

// StartDeliveryCommandHandler moves a Pending delivery to InTransit on request
// of its seller and notifies the buyer.
type StartDeliveryCommandHandler struct {
	uowFactory UoWFactory
	guard      services.IdentityGuard
	clock      clock.Clock
}

// NewStartDeliveryCommandHandler creates the handler. Timestamps come from clk.
func NewStartDeliveryCommandHandler(uowFactory UoWFactory, clk clock.Clock) StartDeliveryCommandHandler {
	return StartDeliveryCommandHandler{
		uowFactory: uowFactory,
		guard:      services.NewIdentityGuard(),
		clock:      clk,
	}
}

// Handle fails with Unauthorized for any caller but the seller, with
// InvalidState outside Pending and with NotFound for an unknown delivery.
func (h StartDeliveryCommandHandler) Handle(ctx context.Context, cmd StartDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	d, err := uow.DeliveryRepository().Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	if err = h.guard.Authorize(cmd.Caller(), services.RoleSeller, d, "start a delivery"); err != nil {
		return err
	}

	now := h.clock.Now()
	if err = d.Start(now); err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}

	if err = notify(ctx, uow.NotificationRepository(), d.ID(), now, notice{
		recipient: d.Buyer(),
		message:   fmt.Sprintf("Delivery is now in transit: %s", d.Description()),
		kind:      notification.KindInfo,
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
