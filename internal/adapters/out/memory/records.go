package memory

import (
	"time"

	"proofparcel/internal/core/domain/model/delivery"
	"proofparcel/internal/core/domain/model/escrow"
	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/core/domain/model/notification"
	"proofparcel/internal/core/domain/model/otp"
	"proofparcel/internal/core/domain/model/receipt"
)

// Records hold plain values only, so what a repository hands out never
// aliases stored state and every record can be CBOR encoded.

type otpRecord struct {
	Code      string    `cbor:"code"`
	ExpiresAt time.Time `cbor:"expires_at"`
}

type statusChangeRecord struct {
	Status string    `cbor:"status"`
	At     time.Time `cbor:"at"`
}

type deliveryRecord struct {
	ID               string               `cbor:"id"`
	Seller           string               `cbor:"seller"`
	Buyer            string               `cbor:"buyer"`
	Description      string               `cbor:"description"`
	Amount           uint64               `cbor:"amount"`
	Status           string               `cbor:"status"`
	Otp              *otpRecord           `cbor:"otp,omitempty"`
	CreatedAt        time.Time            `cbor:"created_at"`
	InTransitAt      *time.Time           `cbor:"in_transit_at,omitempty"`
	DeliveredAt      *time.Time           `cbor:"delivered_at,omitempty"`
	ConfirmedAt      *time.Time           `cbor:"confirmed_at,omitempty"`
	EscrowReleasedAt *time.Time           `cbor:"escrow_released_at,omitempty"`
	CancelledAt      *time.Time           `cbor:"cancelled_at,omitempty"`
	History          []statusChangeRecord `cbor:"history"`
}

type escrowRecord struct {
	DeliveryID string     `cbor:"delivery_id"`
	Amount     uint64     `cbor:"amount"`
	State      string     `cbor:"state"`
	LockedAt   time.Time  `cbor:"locked_at"`
	SettledAt  *time.Time `cbor:"settled_at,omitempty"`
}

type receiptRecord struct {
	ID         string    `cbor:"id"`
	DeliveryID string    `cbor:"delivery_id"`
	Owner      string    `cbor:"owner"`
	Metadata   string    `cbor:"metadata"`
	MintedAt   time.Time `cbor:"minted_at"`
}

type notificationRecord struct {
	ID         string    `cbor:"id"`
	Recipient  string    `cbor:"recipient"`
	DeliveryID string    `cbor:"delivery_id"`
	Message    string    `cbor:"message"`
	Kind       string    `cbor:"kind"`
	CreatedAt  time.Time `cbor:"created_at"`
	Read       bool      `cbor:"read"`
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func fromDelivery(d *delivery.Delivery) deliveryRecord {
	s := d.Snapshot()
	r := deliveryRecord{
		ID:               s.ID.String(),
		Seller:           s.Seller.String(),
		Buyer:            s.Buyer.String(),
		Description:      s.Description,
		Amount:           s.Amount.Value(),
		Status:           s.Status.String(),
		CreatedAt:        s.CreatedAt,
		InTransitAt:      copyTime(s.InTransitAt),
		DeliveredAt:      copyTime(s.DeliveredAt),
		ConfirmedAt:      copyTime(s.ConfirmedAt),
		EscrowReleasedAt: copyTime(s.EscrowReleasedAt),
		CancelledAt:      copyTime(s.CancelledAt),
		History:          make([]statusChangeRecord, 0, len(s.History)),
	}
	if s.Otp != nil {
		r.Otp = &otpRecord{Code: s.Otp.Value(), ExpiresAt: s.Otp.ExpiresAt()}
	}
	for _, change := range s.History {
		r.History = append(r.History, statusChangeRecord{Status: change.Status.String(), At: change.At})
	}
	return r
}

func (r deliveryRecord) toDomain() (*delivery.Delivery, error) {
	id, err := kernel.ParseUUID(r.ID)
	if err != nil {
		return nil, err
	}
	seller, err := kernel.NewPrincipal(r.Seller)
	if err != nil {
		return nil, err
	}
	buyer, err := kernel.NewPrincipal(r.Buyer)
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewAmount(r.Amount)
	if err != nil {
		return nil, err
	}
	status, err := delivery.ParseStatus(r.Status)
	if err != nil {
		return nil, err
	}

	var code *otp.Code
	if r.Otp != nil {
		c, codeErr := otp.NewCode(r.Otp.Code, r.Otp.ExpiresAt)
		if codeErr != nil {
			return nil, codeErr
		}
		code = &c
	}

	history := make([]delivery.StatusChange, 0, len(r.History))
	for _, change := range r.History {
		s, statusErr := delivery.ParseStatus(change.Status)
		if statusErr != nil {
			return nil, statusErr
		}
		history = append(history, delivery.StatusChange{Status: s, At: change.At})
	}

	return delivery.RestoreDelivery(delivery.Snapshot{
		ID:               id,
		Seller:           seller,
		Buyer:            buyer,
		Description:      r.Description,
		Amount:           amount,
		Status:           status,
		Otp:              code,
		CreatedAt:        r.CreatedAt,
		InTransitAt:      copyTime(r.InTransitAt),
		DeliveredAt:      copyTime(r.DeliveredAt),
		ConfirmedAt:      copyTime(r.ConfirmedAt),
		EscrowReleasedAt: copyTime(r.EscrowReleasedAt),
		CancelledAt:      copyTime(r.CancelledAt),
		History:          history,
	})
}

func fromEntry(e *escrow.Entry) escrowRecord {
	return escrowRecord{
		DeliveryID: e.DeliveryID().String(),
		Amount:     e.Amount().Value(),
		State:      e.State().String(),
		LockedAt:   e.LockedAt(),
		SettledAt:  copyTime(e.SettledAt()),
	}
}

func (r escrowRecord) toDomain() (*escrow.Entry, error) {
	id, err := kernel.ParseUUID(r.DeliveryID)
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewAmount(r.Amount)
	if err != nil {
		return nil, err
	}
	state, err := escrow.ParseState(r.State)
	if err != nil {
		return nil, err
	}
	return escrow.RestoreEntry(id, amount, state, r.LockedAt, copyTime(r.SettledAt))
}

func fromReceipt(m *receipt.Receipt) receiptRecord {
	return receiptRecord{
		ID:         m.ID().String(),
		DeliveryID: m.DeliveryID().String(),
		Owner:      m.Owner().String(),
		Metadata:   m.Metadata(),
		MintedAt:   m.MintedAt(),
	}
}

func (r receiptRecord) toDomain() (*receipt.Receipt, error) {
	id, err := kernel.ParseUUID(r.ID)
	if err != nil {
		return nil, err
	}
	deliveryID, err := kernel.ParseUUID(r.DeliveryID)
	if err != nil {
		return nil, err
	}
	owner, err := kernel.NewPrincipal(r.Owner)
	if err != nil {
		return nil, err
	}
	return receipt.RestoreReceipt(id, deliveryID, owner, r.Metadata, r.MintedAt)
}

func fromNotification(n *notification.Notification) notificationRecord {
	return notificationRecord{
		ID:         n.ID().String(),
		Recipient:  n.Recipient().String(),
		DeliveryID: n.DeliveryID().String(),
		Message:    n.Message(),
		Kind:       string(n.Kind()),
		CreatedAt:  n.CreatedAt(),
		Read:       n.IsRead(),
	}
}

func (r notificationRecord) toDomain() (*notification.Notification, error) {
	id, err := kernel.ParseUUID(r.ID)
	if err != nil {
		return nil, err
	}
	recipient, err := kernel.NewPrincipal(r.Recipient)
	if err != nil {
		return nil, err
	}
	deliveryID, err := kernel.ParseUUID(r.DeliveryID)
	if err != nil {
		return nil, err
	}
	return notification.RestoreNotification(id, recipient, deliveryID, r.Message, notification.Kind(r.Kind), r.CreatedAt, r.Read)
}
