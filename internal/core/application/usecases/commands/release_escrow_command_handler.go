package commands

import (
	"context"

	"proofparcel/internal/core/domain/services"
	"proofparcel/internal/pkg/clock"
)

// ReleaseEscrowCommandHandler pays out a Confirmed delivery on request of the
// party the configured release policy names.
type ReleaseEscrowCommandHandler struct {
	uowFactory UoWFactory
	guard      services.IdentityGuard
	policy     services.ReleasePolicy
	releaser   escrowReleaser
}

// NewReleaseEscrowCommandHandler creates the handler. policy decides which
// party may release.
func NewReleaseEscrowCommandHandler(
	uowFactory UoWFactory,
	policy services.ReleasePolicy,
	clk clock.Clock,
) ReleaseEscrowCommandHandler {
	return ReleaseEscrowCommandHandler{
		uowFactory: uowFactory,
		guard:      services.NewIdentityGuard(),
		policy:     policy,
		releaser: escrowReleaser{
			settlement: services.NewEscrowSettlement(),
			clock:      clk,
		},
	}
}

// Handle fails with InvalidState unless the delivery is Confirmed, so funds
// are paid out at most once.
func (h ReleaseEscrowCommandHandler) Handle(ctx context.Context, cmd ReleaseEscrowCommand) error {
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

	if err = h.guard.Authorize(cmd.Caller(), h.policy.Role(), d, "release escrow"); err != nil {
		return err
	}

	if err = h.releaser.release(ctx, uow, d); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
