package kernel

import (
	"errors"
	"strconv"

	"proofparcel/internal/pkg/errs"
	"proofparcel/internal/pkg/guard"
)

var ErrAmountIsNotConstructed = errors.New("Amount must be created via NewAmount constructor")

// Amount is a positive quantity of the single unit of account held in escrow.
type Amount struct {
	value uint64
	guard guard.ConstructorGuard
}

// NewAmount rejects zero with an InvalidAmount domain error.
func NewAmount(value uint64) (Amount, error) {
	if value == 0 {
		return Amount{}, errs.NewDomainError(errs.KindInvalidAmount, "amount must be greater than zero")
	}
	return Amount{value: value, guard: guard.NewConstructorGuard()}, nil
}

// Value returns the amount in base units.
func (a Amount) Value() uint64 {
	return a.value
}

func (a Amount) String() string {
	return strconv.FormatUint(a.value, 10)
}

// Validate ensures the Amount was built through NewAmount.
func (a Amount) Validate() error {
	return a.guard.Validate(ErrAmountIsNotConstructed)
}
