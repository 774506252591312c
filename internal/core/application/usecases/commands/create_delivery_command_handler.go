package commands

import (
	"context"
	"fmt"
	"math/bits"

	"proofparcel/internal/core/domain/model/delivery"
	"proofparcel/internal/core/domain/model/escrow"
	"proofparcel/internal/core/domain/model/notification"
	"proofparcel/internal/pkg/clock"
	"proofparcel/internal/pkg/errs"
)

// CreateDeliveryCommandHandler opens a Pending delivery and locks its amount
// in escrow within one unit of work.
type CreateDeliveryCommandHandler struct {
	uowFactory UoWFactory
	clock      clock.Clock
}

// NewCreateDeliveryCommandHandler creates the handler. Timestamps come from clk.
func NewCreateDeliveryCommandHandler(uowFactory UoWFactory, clk clock.Clock) CreateDeliveryCommandHandler {
	return CreateDeliveryCommandHandler{
		uowFactory: uowFactory,
		clock:      clk,
	}
}

// Handle fails with InvalidParty when buyer equals seller, with a
// validation error when the description is blank and with InvalidAmount when
// the locked escrow total could no longer be represented.
func (h CreateDeliveryCommandHandler) Handle(ctx context.Context, cmd CreateDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := h.clock.Now()
	created, err := delivery.NewDelivery(cmd.DeliveryID(), cmd.Seller(), cmd.Buyer(), cmd.Description(), cmd.Amount(), now)
	if err != nil {
		return err
	}

	entry, err := escrow.Lock(created.ID(), created.Amount(), now)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	locked, err := uow.EscrowRepository().LockedBalance(ctx)
	if err != nil {
		return err
	}
	if _, carry := bits.Add64(locked, created.Amount().Value(), 0); carry != 0 {
		return errs.NewDomainError(errs.KindInvalidAmount,
			fmt.Sprintf("locking %s would overflow the escrow balance of %d", created.Amount(), locked))
	}

	if err = uow.DeliveryRepository().Add(ctx, created); err != nil {
		return err
	}

	if err = uow.EscrowRepository().Add(ctx, entry); err != nil {
		return err
	}

	if err = notify(ctx, uow.NotificationRepository(), created.ID(), now, notice{
		recipient: created.Buyer(),
		message:   fmt.Sprintf("New delivery created: %s (%s held in escrow)", created.Description(), created.Amount()),
		kind:      notification.KindInfo,
	}); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
