package queries

import (
	"errors"

	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/pkg/guard"
)

var ErrGetNotificationsQueryIsNotConstructed = errors.New(
	"GetNotificationsQuery must be created via NewGetNotificationsQuery constructor",
)

// GetNotificationsQuery lists what the recipient was told, newest first.
type GetNotificationsQuery struct {
	recipient kernel.Principal

	guard guard.ConstructorGuard
}

func NewGetNotificationsQuery(recipient kernel.Principal) (GetNotificationsQuery, error) {
	if err := recipient.Validate(); err != nil {
		return GetNotificationsQuery{}, err
	}
	return GetNotificationsQuery{recipient: recipient, guard: guard.NewConstructorGuard()}, nil
}

func (q GetNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrGetNotificationsQueryIsNotConstructed)
}

func (q GetNotificationsQuery) Recipient() kernel.Principal {
	return q.recipient
}
