package queries

import (
	"context"
	"errors"

	"proofparcel/internal/core/ports"
	"proofparcel/internal/pkg/guard"
)

var ErrGetEscrowBalanceQueryIsNotConstructed = errors.New(
	"GetEscrowBalanceQuery must be created via NewGetEscrowBalanceQuery constructor",
)

// GetEscrowBalanceQuery asks for the sum of all locked, not yet settled escrow.
type GetEscrowBalanceQuery struct {
	guard guard.ConstructorGuard
}

func NewGetEscrowBalanceQuery() GetEscrowBalanceQuery {
	return GetEscrowBalanceQuery{guard: guard.NewConstructorGuard()}
}

func (q GetEscrowBalanceQuery) Validate() error {
	return q.guard.Validate(ErrGetEscrowBalanceQueryIsNotConstructed)
}

// GetEscrowBalanceQueryHandler reports the total still held in escrow.
type GetEscrowBalanceQueryHandler struct {
	reader ports.ReadModel
}

func NewGetEscrowBalanceQueryHandler(reader ports.ReadModel) GetEscrowBalanceQueryHandler {
	return GetEscrowBalanceQueryHandler{reader: reader}
}

// Handle sums the entries that are Locked in committed state.
func (h GetEscrowBalanceQueryHandler) Handle(ctx context.Context, query GetEscrowBalanceQuery) (uint64, error) {
	if err := query.Validate(); err != nil {
		return 0, err
	}
	return h.reader.LockedEscrowBalance(ctx)
}
