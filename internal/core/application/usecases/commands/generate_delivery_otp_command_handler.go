package commands

import (
	"context"

	"proofparcel/internal/core/domain/model/otp"
	"proofparcel/internal/core/domain/services"
	"proofparcel/internal/pkg/clock"
)

// GenerateDeliveryOtpCommandHandler issues a new code for an InTransit
// delivery, superseding any code issued before it.
type GenerateDeliveryOtpCommandHandler struct {
	uowFactory UoWFactory
	issuer     otp.Issuer
	guard      services.IdentityGuard
	clock      clock.Clock
}

// NewGenerateDeliveryOtpCommandHandler creates the handler. Codes are drawn
// from issuer and expire relative to clk.
func NewGenerateDeliveryOtpCommandHandler(
	uowFactory UoWFactory,
	issuer otp.Issuer,
	clk clock.Clock,
) GenerateDeliveryOtpCommandHandler {
	return GenerateDeliveryOtpCommandHandler{
		uowFactory: uowFactory,
		issuer:     issuer,
		guard:      services.NewIdentityGuard(),
		clock:      clk,
	}
}

// Handle returns the issued code so the seller can pass it to the buyer out of band.
func (h GenerateDeliveryOtpCommandHandler) Handle(ctx context.Context, cmd GenerateDeliveryOtpCommand) (otp.Code, error) {
	if err := cmd.Validate(); err != nil {
		return otp.Code{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return otp.Code{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	d, err := uow.DeliveryRepository().Get(ctx, cmd.DeliveryID())
	if err != nil {
		return otp.Code{}, err
	}

	if err = h.guard.Authorize(cmd.Caller(), services.RoleSeller, d, "generate a delivery code"); err != nil {
		return otp.Code{}, err
	}

	if err = d.Status().ValidateIssueOtp(); err != nil {
		return otp.Code{}, err
	}

	code, err := h.issuer.Issue(h.clock.Now())
	if err != nil {
		return otp.Code{}, err
	}

	if err = d.IssueOtp(code); err != nil {
		return otp.Code{}, err
	}

	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return otp.Code{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return otp.Code{}, err
	}

	return code, nil
}
