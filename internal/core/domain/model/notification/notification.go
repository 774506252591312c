// Package notification models the messages a delivery's parties receive when
// the delivery changes state.
package notification

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/pkg/errs"
)

var ErrNotificationIsNotConstructed = errors.New("Notification must be created via NewNotification or RestoreNotification")

// Kind is the presentation category of a notification.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
)

// Validate accepts KindInfo and KindSuccess.
func (k Kind) Validate() error {
	if k != KindInfo && k != KindSuccess {
		return errs.NewValueIsInvalidErrorWithCause("notification kind", fmt.Errorf("%q is not a valid kind", string(k)))
	}
	return nil
}

// Notification is a message addressed to one principal about one delivery.
type Notification struct {
	id         kernel.UUID
	recipient  kernel.Principal
	deliveryID kernel.UUID
	message    string
	kind       Kind
	createdAt  time.Time
	read       bool

	isConstructed bool
}

// NewNotification creates an unread notification about deliveryID for recipient.
func NewNotification(
	id kernel.UUID,
	recipient kernel.Principal,
	deliveryID kernel.UUID,
	message string,
	kind Kind,
	now time.Time,
) (*Notification, error) {
	return RestoreNotification(id, recipient, deliveryID, message, kind, now, false)
}

// RestoreNotification rebuilds a notification from storage.
func RestoreNotification(
	id kernel.UUID,
	recipient kernel.Principal,
	deliveryID kernel.UUID,
	message string,
	kind Kind,
	createdAt time.Time,
	read bool,
) (*Notification, error) {
	message = strings.TrimSpace(message)

	var messageErr error
	if message == "" {
		messageErr = errs.NewValueIsRequiredError("notification message")
	}

	if err := errors.Join(
		id.Validate(),
		recipient.Validate(),
		deliveryID.Validate(),
		kind.Validate(),
		messageErr,
	); err != nil {
		return nil, err
	}

	return &Notification{
		id:            id,
		recipient:     recipient,
		deliveryID:    deliveryID,
		message:       message,
		kind:          kind,
		createdAt:     createdAt,
		read:          read,
		isConstructed: true,
	}, nil
}

// Validate ensures the Notification was built through NewNotification or
// RestoreNotification.
func (n *Notification) Validate() error {
	if n == nil || !n.isConstructed {
		return ErrNotificationIsNotConstructed
	}
	return nil
}

func (n *Notification) ID() kernel.UUID             { return n.id }
func (n *Notification) Recipient() kernel.Principal { return n.recipient }
func (n *Notification) DeliveryID() kernel.UUID     { return n.deliveryID }
func (n *Notification) Message() string             { return n.message }
func (n *Notification) Kind() Kind                  { return n.kind }
func (n *Notification) CreatedAt() time.Time        { return n.createdAt }
func (n *Notification) IsRead() bool                { return n.read }
