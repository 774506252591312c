// Package commands contains the operations that change delivery state.
// Every handler follows the same shape: validate the command, open a unit of
// work, authorize the caller, apply the transition, persist, commit. A failure
// anywhere rolls the whole transition back.
package commands

import (
	"context"

	"proofparcel/internal/core/ports"
)

type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	DeliveryRepoFactory interface {
		DeliveryRepository() ports.DeliveryRepository
	}

	EscrowRepoFactory interface {
		EscrowRepository() ports.EscrowRepository
	}

	ReceiptRepoFactory interface {
		ReceiptRepository() ports.ReceiptRepository
	}

	NotificationRepoFactory interface {
		NotificationRepository() ports.NotificationRepository
	}

	// UoW groups every repository a transition may touch.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   d, err := uow.DeliveryRepository().Get(ctx, id)
	//   entry, err := uow.EscrowRepository().Get(ctx, id)
	//   // ... transition, Update both
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		DeliveryRepoFactory
		EscrowRepoFactory
		ReceiptRepoFactory
		NotificationRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
