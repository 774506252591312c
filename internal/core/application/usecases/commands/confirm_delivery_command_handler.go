package commands

import (
	"context"
	"fmt"

	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/core/domain/model/notification"
	"proofparcel/internal/core/domain/services"
	"proofparcel/internal/pkg/clock"
)

// ConfirmDeliveryCommandHandler redeems the code, mints the proof-of-delivery
// receipt and confirms the delivery in one unit of work.
type ConfirmDeliveryCommandHandler struct {
	uowFactory   UoWFactory
	guard        services.IdentityGuard
	confirmation services.ConfirmationService
	clock        clock.Clock
}

// NewConfirmDeliveryCommandHandler creates the handler. Expiry is judged
// against clk.
func NewConfirmDeliveryCommandHandler(uowFactory UoWFactory, clk clock.Clock) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{
		uowFactory:   uowFactory,
		guard:        services.NewIdentityGuard(),
		confirmation: services.NewConfirmationService(),
		clock:        clk,
	}
}

// Handle returns the id of the minted receipt. A wrong or expired code leaves
// the delivery InTransit with its code intact.
func (h ConfirmDeliveryCommandHandler) Handle(ctx context.Context, cmd ConfirmDeliveryCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	d, err := uow.DeliveryRepository().Get(ctx, cmd.DeliveryID())
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = h.guard.Authorize(cmd.Caller(), services.RoleBuyer, d, "confirm a delivery"); err != nil {
		return kernel.UUID{}, err
	}

	now := h.clock.Now()
	minted, err := h.confirmation.Confirm(d, cmd.Otp(), kernel.NewUUID(), now)
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.ReceiptRepository().Add(ctx, minted); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return kernel.UUID{}, err
	}

	if err = notify(ctx, uow.NotificationRepository(), d.ID(), now,
		notice{
			recipient: d.Seller(),
			message:   fmt.Sprintf("Delivery confirmed by the buyer: %s", d.Description()),
			kind:      notification.KindSuccess,
		},
		notice{
			recipient: d.Buyer(),
			message:   fmt.Sprintf("Proof of delivery minted: receipt %s", minted.ID()),
			kind:      notification.KindSuccess,
		},
	); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return minted.ID(), nil
}
