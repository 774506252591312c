package queries

import (
	"errors"

	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/pkg/guard"
)

var ErrListReceiptsByOwnerQueryIsNotConstructed = errors.New(
	"ListReceiptsByOwnerQuery must be created via NewListReceiptsByOwnerQuery constructor",
)

// ListReceiptsByOwnerQuery asks for every receipt held by one principal.
type ListReceiptsByOwnerQuery struct {
	owner kernel.Principal

	guard guard.ConstructorGuard
}

func NewListReceiptsByOwnerQuery(owner kernel.Principal) (ListReceiptsByOwnerQuery, error) {
	if err := owner.Validate(); err != nil {
		return ListReceiptsByOwnerQuery{}, err
	}
	return ListReceiptsByOwnerQuery{owner: owner, guard: guard.NewConstructorGuard()}, nil
}

func (q ListReceiptsByOwnerQuery) Validate() error {
	return q.guard.Validate(ErrListReceiptsByOwnerQueryIsNotConstructed)
}

func (q ListReceiptsByOwnerQuery) Owner() kernel.Principal {
	return q.owner
}
