package delivery

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/core/domain/model/otp"
	"proofparcel/internal/pkg/errs"
)

// MaxDescriptionLength bounds the free-text description of a delivery.
const MaxDescriptionLength = 1024

// ErrDeliveryIsNotConstructed is returned when a Delivery was not built by
// NewDelivery or RestoreDelivery.
var ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery or RestoreDelivery")

// StatusChange is one entry of a delivery's status history.
type StatusChange struct {
	Status Status
	At     time.Time
}

// Delivery is the aggregate root of a shipment between a seller and a buyer.
// It owns the live OTP (present only while InTransit) and the timeline of the
// shipment. Escrow funds and the proof-of-delivery receipt are separate
// aggregates keyed by the delivery id.
//
// Invariants:
//   - buyer and seller differ
//   - description is non-blank, amount is positive
//   - an OTP exists only in InTransit
//   - confirmedAt is set from Delivered on, escrowReleasedAt only in
//     EscrowReleased, cancelledAt only in Cancelled
type Delivery struct {
	id          kernel.UUID
	seller      kernel.Principal
	buyer       kernel.Principal
	description string
	amount      kernel.Amount
	status      Status
	otp         *otp.Code

	createdAt        time.Time
	inTransitAt      *time.Time
	deliveredAt      *time.Time
	confirmedAt      *time.Time
	escrowReleasedAt *time.Time
	cancelledAt      *time.Time
	history          []StatusChange

	isConstructed bool
}

// NewDelivery creates a Pending delivery.
//
// Example:
//
//	d, err := delivery.NewDelivery(kernel.NewUUID(), seller, buyer, "widget", amount, clock.Now())
//	if errors.Is(err, errs.ErrInvalidParty) {
//	    // buyer and seller are the same principal
//	}
func NewDelivery(
	id kernel.UUID,
	seller kernel.Principal,
	buyer kernel.Principal,
	description string,
	amount kernel.Amount,
	now time.Time,
) (*Delivery, error) {
	d := &Delivery{
		status:        Pending,
		createdAt:     now,
		history:       []StatusChange{{Status: Pending, At: now}},
		isConstructed: true,
	}

	if err := errors.Join(
		d.setID(id),
		d.setParties(seller, buyer),
		d.setDescription(description),
		d.setAmount(amount),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// Snapshot is the complete persisted state of a Delivery.
type Snapshot struct {
	ID               kernel.UUID
	Seller           kernel.Principal
	Buyer            kernel.Principal
	Description      string
	Amount           kernel.Amount
	Status           Status
	Otp              *otp.Code
	CreatedAt        time.Time
	InTransitAt      *time.Time
	DeliveredAt      *time.Time
	ConfirmedAt      *time.Time
	EscrowReleasedAt *time.Time
	CancelledAt      *time.Time
	History          []StatusChange
}

// RestoreDelivery rebuilds a delivery from storage, re-checking every invariant.
func RestoreDelivery(s Snapshot) (*Delivery, error) {
	d := &Delivery{
		createdAt:        s.CreatedAt,
		inTransitAt:      s.InTransitAt,
		deliveredAt:      s.DeliveredAt,
		confirmedAt:      s.ConfirmedAt,
		escrowReleasedAt: s.EscrowReleasedAt,
		cancelledAt:      s.CancelledAt,
		history:          append([]StatusChange(nil), s.History...),
		isConstructed:    true,
	}

	if err := errors.Join(
		d.setID(s.ID),
		d.setParties(s.Seller, s.Buyer),
		d.setDescription(s.Description),
		d.setAmount(s.Amount),
		d.setStatus(s.Status, s.Otp),
	); err != nil {
		return nil, err
	}

	if err := d.validateTimeline(); err != nil {
		return nil, err
	}

	return d, nil
}

// Snapshot returns a copy of the delivery state for persistence.
func (d *Delivery) Snapshot() Snapshot {
	return Snapshot{
		ID:               d.id,
		Seller:           d.seller,
		Buyer:            d.buyer,
		Description:      d.description,
		Amount:           d.amount,
		Status:           d.status,
		Otp:              d.otp,
		CreatedAt:        d.createdAt,
		InTransitAt:      d.inTransitAt,
		DeliveredAt:      d.deliveredAt,
		ConfirmedAt:      d.confirmedAt,
		EscrowReleasedAt: d.escrowReleasedAt,
		CancelledAt:      d.cancelledAt,
		History:          d.History(),
	}
}

// Validate ensures the Delivery was built through NewDelivery or RestoreDelivery.
//
// Returns:
//   - nil if the delivery is valid
//   - ErrDeliveryIsNotConstructed for a nil or zero-value Delivery
func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

// ID returns the delivery identifier.
func (d *Delivery) ID() kernel.UUID {
	return d.id
}

// Seller returns the principal that created the delivery.
func (d *Delivery) Seller() kernel.Principal {
	return d.seller
}

// Buyer returns the principal that receives the goods and redeems the OTP.
func (d *Delivery) Buyer() kernel.Principal {
	return d.buyer
}

// Description returns the free-text description.
func (d *Delivery) Description() string {
	return d.description
}

// Amount returns the value locked in escrow at creation.
func (d *Delivery) Amount() kernel.Amount {
	return d.amount
}

// Status returns the current lifecycle status.
func (d *Delivery) Status() Status {
	return d.status
}

// Otp returns the live code, or nil outside InTransit or before one was issued.
func (d *Delivery) Otp() *otp.Code {
	return d.otp
}

// CreatedAt returns the creation time.
func (d *Delivery) CreatedAt() time.Time {
	return d.createdAt
}

// InTransitAt returns when the seller started the delivery, or nil.
func (d *Delivery) InTransitAt() *time.Time {
	return d.inTransitAt
}

// DeliveredAt returns when the OTP was redeemed, or nil.
func (d *Delivery) DeliveredAt() *time.Time {
	return d.deliveredAt
}

// ConfirmedAt returns when receipt was confirmed, or nil before Delivered.
// Automatic escrow release counts its delay from this time.
func (d *Delivery) ConfirmedAt() *time.Time {
	return d.confirmedAt
}

// EscrowReleasedAt returns when escrow was paid out, or nil.
func (d *Delivery) EscrowReleasedAt() *time.Time {
	return d.escrowReleasedAt
}

// CancelledAt returns when the delivery was cancelled, or nil.
func (d *Delivery) CancelledAt() *time.Time {
	return d.cancelledAt
}

// History returns a copy of the status changes, oldest first.
func (d *Delivery) History() []StatusChange {
	return append([]StatusChange(nil), d.history...)
}

// IsSeller reports whether p is the seller.
func (d *Delivery) IsSeller(p kernel.Principal) bool {
	return d.seller.IsEqual(p)
}

// IsBuyer reports whether p is the buyer.
func (d *Delivery) IsBuyer(p kernel.Principal) bool {
	return d.buyer.IsEqual(p)
}

// Start moves a Pending delivery in transit.
func (d *Delivery) Start(now time.Time) error {
	next, err := d.status.Start()
	if err != nil {
		return err
	}

	d.inTransitAt = &now
	d.transition(next, now)
	return nil
}

// IssueOtp stores code as the live OTP, replacing any earlier one.
func (d *Delivery) IssueOtp(code otp.Code) error {
	if err := d.status.ValidateIssueOtp(); err != nil {
		return err
	}
	if err := code.Validate(); err != nil {
		return err
	}

	d.otp = &code
	return nil
}

// Deliver redeems the live OTP. On success the delivery is Delivered, the
// confirmation time is stamped and the OTP is consumed. On any failure the
// delivery is left untouched. Once a code has been redeemed every further
// attempt reports OtpNotFound.
func (d *Delivery) Deliver(supplied string, now time.Time) error {
	if d.confirmedAt != nil {
		return errs.NewDomainErrorWithCause(
			errs.KindOtpNotFound,
			"no live delivery code",
			fmt.Errorf("code was already redeemed at %s", d.confirmedAt.Format(time.RFC3339)),
		)
	}

	next, err := d.status.Deliver()
	if err != nil {
		return err
	}

	if err = otp.Verify(d.otp, supplied, now); err != nil {
		return err
	}

	d.otp = nil
	d.deliveredAt = &now
	d.confirmedAt = &now
	d.transition(next, now)
	return nil
}

// Confirm finalizes a Delivered delivery once its receipt has been minted.
func (d *Delivery) Confirm(now time.Time) error {
	next, err := d.status.Confirm()
	if err != nil {
		return err
	}

	d.transition(next, now)
	return nil
}

// ReleaseEscrow records that the escrowed funds were paid out.
func (d *Delivery) ReleaseEscrow(now time.Time) error {
	next, err := d.status.ReleaseEscrow()
	if err != nil {
		return err
	}

	d.escrowReleasedAt = &now
	d.transition(next, now)
	return nil
}

// Cancel aborts a Pending or InTransit delivery and discards any live OTP.
func (d *Delivery) Cancel(now time.Time) error {
	next, err := d.status.Cancel()
	if err != nil {
		return err
	}

	d.otp = nil
	d.cancelledAt = &now
	d.transition(next, now)
	return nil
}

func (d *Delivery) transition(next Status, now time.Time) {
	d.status = next
	d.history = append(d.history, StatusChange{Status: next, At: now})
}

func (d *Delivery) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Delivery) setParties(seller, buyer kernel.Principal) error {
	if err := errors.Join(seller.Validate(), buyer.Validate()); err != nil {
		return err
	}
	if seller.IsEqual(buyer) {
		return errs.NewDomainError(errs.KindInvalidParty, "buyer and seller must be different principals")
	}
	d.seller = seller
	d.buyer = buyer
	return nil
}

func (d *Delivery) setDescription(description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return errs.NewValueIsRequiredError("description")
	}
	if length := len([]rune(description)); length > MaxDescriptionLength {
		return errs.NewValueIsOutOfRangeError("description length", length, 1, MaxDescriptionLength)
	}
	d.description = description
	return nil
}

func (d *Delivery) setAmount(amount kernel.Amount) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	d.amount = amount
	return nil
}

func (d *Delivery) setStatus(status Status, code *otp.Code) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if err := status.ValidateCanHaveOtp(code != nil); err != nil {
		return err
	}
	if code != nil {
		if err := code.Validate(); err != nil {
			return err
		}
	}
	d.status = status
	d.otp = code
	return nil
}

func (d *Delivery) validateTimeline() error {
	reached := func(s Status) bool {
		switch s {
		case InTransit:
			return d.status == InTransit || d.status == Delivered || d.status == Confirmed ||
				d.status == EscrowReleased || (d.status == Cancelled && d.inTransitAt != nil)
		case Delivered:
			return d.status == Delivered || d.status == Confirmed || d.status == EscrowReleased
		default:
			return d.status == s
		}
	}

	checks := []struct {
		name   string
		value  *time.Time
		status Status
	}{
		{"in transit at", d.inTransitAt, InTransit},
		{"delivered at", d.deliveredAt, Delivered},
		{"confirmed at", d.confirmedAt, Delivered},
		{"escrow released at", d.escrowReleasedAt, EscrowReleased},
		{"cancelled at", d.cancelledAt, Cancelled},
	}

	for _, c := range checks {
		if (c.value != nil) != reached(c.status) {
			return errs.NewValueIsInvalidErrorWithCause(
				c.name,
				fmt.Errorf("inconsistent with %s status", d.status),
			)
		}
	}

	return nil
}
