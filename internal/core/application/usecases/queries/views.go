// Package queries contains the read side of ProofParcel. Queries read
// committed state through ports.ReadModel and never fail on missing data:
// absent objects come back as nil and empty lists as empty slices.
package queries

import (
	"errors"
	"time"

	"proofparcel/internal/core/domain/model/delivery"
	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/core/domain/model/notification"
	"proofparcel/internal/core/domain/model/receipt"
	"proofparcel/internal/pkg/errs"
)

// DeliveryView is the read model of a delivery. Otp and OtpExpiresAt are set
// only when the viewer is the seller.
type DeliveryView struct {
	ID               kernel.UUID
	Status           delivery.Status
	Description      string
	Seller           kernel.Principal
	Buyer            kernel.Principal
	Amount           uint64
	Otp              *string
	OtpExpiresAt     *time.Time
	CreatedAt        time.Time
	InTransitAt      *time.Time
	DeliveredAt      *time.Time
	ConfirmedAt      *time.Time
	EscrowReleasedAt *time.Time
	CancelledAt      *time.Time
	History          []delivery.StatusChange
}

// ReceiptView is the read projection of a receipt.
type ReceiptView struct {
	ID         kernel.UUID
	DeliveryID kernel.UUID
	Owner      kernel.Principal
	Metadata   string
	MintedAt   time.Time
}

// NotificationView is the read projection of a notification.
type NotificationView struct {
	ID         kernel.UUID
	DeliveryID kernel.UUID
	Message    string
	Kind       notification.Kind
	CreatedAt  time.Time
	Read       bool
}

func newDeliveryView(d *delivery.Delivery, viewer *kernel.Principal) DeliveryView {
	view := DeliveryView{
		ID:               d.ID(),
		Status:           d.Status(),
		Description:      d.Description(),
		Seller:           d.Seller(),
		Buyer:            d.Buyer(),
		Amount:           d.Amount().Value(),
		CreatedAt:        d.CreatedAt(),
		InTransitAt:      d.InTransitAt(),
		DeliveredAt:      d.DeliveredAt(),
		ConfirmedAt:      d.ConfirmedAt(),
		EscrowReleasedAt: d.EscrowReleasedAt(),
		CancelledAt:      d.CancelledAt(),
		History:          d.History(),
	}

	if code := d.Otp(); code != nil && viewer != nil && d.IsSeller(*viewer) {
		value, expiresAt := code.Value(), code.ExpiresAt()
		view.Otp = &value
		view.OtpExpiresAt = &expiresAt
	}

	return view
}

func newReceiptView(r *receipt.Receipt) ReceiptView {
	return ReceiptView{
		ID:         r.ID(),
		DeliveryID: r.DeliveryID(),
		Owner:      r.Owner(),
		Metadata:   r.Metadata(),
		MintedAt:   r.MintedAt(),
	}
}

func newNotificationView(n *notification.Notification) NotificationView {
	return NotificationView{
		ID:         n.ID(),
		DeliveryID: n.DeliveryID(),
		Message:    n.Message(),
		Kind:       n.Kind(),
		CreatedAt:  n.CreatedAt(),
		Read:       n.IsRead(),
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, errs.ErrObjectNotFound)
}
