package commands

import (
	"context"
	"errors"
	"fmt"

	"proofparcel/internal/core/domain/model/delivery"
	"proofparcel/internal/core/domain/services"
	"proofparcel/internal/pkg/clock"
)

// AutoReleaseEscrowCommandHandler settles each due delivery in its own unit
// of work, so one failure does not hold back the rest.
type AutoReleaseEscrowCommandHandler struct {
	uowFactory UoWFactory
	releaser   escrowReleaser
	clock      clock.Clock
}

// NewAutoReleaseEscrowCommandHandler creates the handler. Due deliveries are
// selected against clk.
func NewAutoReleaseEscrowCommandHandler(uowFactory UoWFactory, clk clock.Clock) AutoReleaseEscrowCommandHandler {
	return AutoReleaseEscrowCommandHandler{
		uowFactory: uowFactory,
		releaser: escrowReleaser{
			settlement: services.NewEscrowSettlement(),
			clock:      clk,
		},
		clock: clk,
	}
}

// Handle returns how many deliveries were released and the joined errors of
// those that could not be.
func (h AutoReleaseEscrowCommandHandler) Handle(ctx context.Context, cmd AutoReleaseEscrowCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	due, err := h.listDue(ctx, cmd)
	if err != nil {
		return 0, err
	}

	released := 0
	var failures []error
	for _, d := range due {
		ok, releaseErr := h.releaseOne(ctx, d)
		if releaseErr != nil {
			failures = append(failures, fmt.Errorf("delivery %s: %w", d.ID(), releaseErr))
			continue
		}
		if ok {
			released++
		}
	}

	return released, errors.Join(failures...)
}

func (h AutoReleaseEscrowCommandHandler) listDue(ctx context.Context, cmd AutoReleaseEscrowCommand) ([]*delivery.Delivery, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.DeliveryRepository().ListConfirmedBefore(ctx, h.clock.Now().Add(-cmd.ReleaseAfter()))
}

// releaseOne reloads the delivery under lock; one settled meanwhile is skipped.
func (h AutoReleaseEscrowCommandHandler) releaseOne(ctx context.Context, candidate *delivery.Delivery) (bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	d, err := uow.DeliveryRepository().Get(ctx, candidate.ID())
	if err != nil {
		return false, err
	}

	if d.Status() != delivery.Confirmed {
		return false, nil
	}

	if err = h.releaser.release(ctx, uow, d); err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	return true, nil
}
