package commands

import (
	"errors"
	"time"

	"proofparcel/internal/pkg/errs"
	"proofparcel/internal/pkg/guard"
)

var ErrAutoReleaseEscrowCommandIsNotConstructed = errors.New(
	"AutoReleaseEscrowCommand must be created via NewAutoReleaseEscrowCommand constructor",
)

// AutoReleaseEscrowCommand releases escrow of every delivery confirmed at
// least releaseAfter ago. It is the automated trigger and is not subject to
// the release policy.
//
// Example:
//
//	cmd, _ := NewAutoReleaseEscrowCommand(24 * time.Hour)
//	released, err := handler.Handle(ctx, cmd)
type AutoReleaseEscrowCommand struct { //nolint:recvcheck //using for validation
	releaseAfter time.Duration

	guard guard.ConstructorGuard
}

// NewAutoReleaseEscrowCommand requires a positive delay counted from confirmation.
func NewAutoReleaseEscrowCommand(releaseAfter time.Duration) (AutoReleaseEscrowCommand, error) {
	if releaseAfter <= 0 {
		return AutoReleaseEscrowCommand{}, errs.NewValueIsOutOfRangeError("release after", releaseAfter, time.Nanosecond, "no limit")
	}

	return AutoReleaseEscrowCommand{
		releaseAfter: releaseAfter,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through NewAutoReleaseEscrowCommand.
func (c AutoReleaseEscrowCommand) Validate() error {
	return c.guard.Validate(ErrAutoReleaseEscrowCommandIsNotConstructed)
}

// ReleaseAfter returns how long a delivery stays Confirmed before it is paid out.
func (c AutoReleaseEscrowCommand) ReleaseAfter() time.Duration {
	return c.releaseAfter
}
