package commands

import (
	"context"
	"fmt"

	"proofparcel/internal/core/domain/model/notification"
	"proofparcel/internal/core/domain/services"
	"proofparcel/internal/pkg/clock"
)

// CancelDeliveryCommandHandler cancels a delivery and returns its escrow to
// the buyer without recording a release.
type CancelDeliveryCommandHandler struct {
	uowFactory UoWFactory
	guard      services.IdentityGuard
	settlement services.EscrowSettlement
	clock      clock.Clock
}

// NewCancelDeliveryCommandHandler creates the handler. Timestamps come from clk.
func NewCancelDeliveryCommandHandler(uowFactory UoWFactory, clk clock.Clock) CancelDeliveryCommandHandler {
	return CancelDeliveryCommandHandler{
		uowFactory: uowFactory,
		guard:      services.NewIdentityGuard(),
		settlement: services.NewEscrowSettlement(),
		clock:      clk,
	}
}

// Handle accepts only the seller and only before the delivery is Confirmed.
// The escrow entry is refunded in the same unit of work.
func (h CancelDeliveryCommandHandler) Handle(ctx context.Context, cmd CancelDeliveryCommand) error {
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

	if err = h.guard.Authorize(cmd.Caller(), services.RoleSeller, d, "cancel a delivery"); err != nil {
		return err
	}

	entry, err := uow.EscrowRepository().Get(ctx, d.ID())
	if err != nil {
		return err
	}

	now := h.clock.Now()
	if err = h.settlement.Refund(d, entry, now); err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}

	if err = uow.EscrowRepository().Update(ctx, entry); err != nil {
		return err
	}

	if err = notify(ctx, uow.NotificationRepository(), d.ID(), now, notice{
		recipient: d.Buyer(),
		message:   fmt.Sprintf("Delivery cancelled by the seller, %s returned: %s", d.Amount(), d.Description()),
		kind:      notification.KindInfo,
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
