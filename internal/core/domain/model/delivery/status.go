package delivery

import (
	"fmt"

	"proofparcel/internal/pkg/errs"
)

// Status is the lifecycle state of a delivery.
//
// State transitions:
//
//	Pending ──> InTransit ──> Delivered ──> Confirmed ──> EscrowReleased
//	   │            │
//	   └────────────┴──> Cancelled
//
// EscrowReleased and Cancelled are terminal. Delivered is transient: a
// successful confirmation passes through it and ends in Confirmed within the
// same unit of work.
type Status int

const (
	// Unknown (0) catches uninitialized Status values.
	Unknown Status = iota
	Pending
	InTransit
	Delivered
	Confirmed
	EscrowReleased
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		Pending:        "Pending",
		InTransit:      "InTransit",
		Delivered:      "Delivered",
		Confirmed:      "Confirmed",
		EscrowReleased: "EscrowReleased",
		Cancelled:      "Cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:        "Pending",
		InTransit:      "InTransit",
		Delivered:      "Delivered",
		Confirmed:      "Confirmed",
		EscrowReleased: "EscrowReleased",
		Cancelled:      "Cancelled",
	}
}

// ParseStatus maps a status name back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out-of-range values, e.g. from storage.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String implements fmt.Stringer and is safe on invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == EscrowReleased || s == Cancelled
}

// ValidateCanHaveOtp checks that a live OTP only accompanies InTransit.
func (s Status) ValidateCanHaveOtp(hasOtp bool) error {
	if hasOtp && s != InTransit {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have an otp", s),
		)
	}
	return nil
}

// ValidateIssueOtp checks that an OTP may be issued from s.
func (s Status) ValidateIssueOtp() error {
	if s != InTransit {
		return invalidTransition(s, "issue an otp")
	}
	return nil
}

// Start transitions Pending -> InTransit.
func (s Status) Start() (Status, error) {
	if s != Pending {
		return Unknown, invalidTransition(s, "start")
	}
	return InTransit, nil
}

// Deliver transitions InTransit -> Delivered.
func (s Status) Deliver() (Status, error) {
	if s != InTransit {
		return Unknown, invalidTransition(s, "deliver")
	}
	return Delivered, nil
}

// Confirm transitions Delivered -> Confirmed.
func (s Status) Confirm() (Status, error) {
	if s != Delivered {
		return Unknown, invalidTransition(s, "confirm")
	}
	return Confirmed, nil
}

// ReleaseEscrow transitions Confirmed -> EscrowReleased.
func (s Status) ReleaseEscrow() (Status, error) {
	if s != Confirmed {
		return Unknown, invalidTransition(s, "release escrow")
	}
	return EscrowReleased, nil
}

// Cancel transitions Pending or InTransit -> Cancelled.
func (s Status) Cancel() (Status, error) {
	if s != Pending && s != InTransit {
		return Unknown, invalidTransition(s, "cancel")
	}
	return Cancelled, nil
}

func invalidTransition(s Status, action string) error {
	return errs.NewDomainErrorWithCause(
		errs.KindInvalidState,
		"status is invalid",
		fmt.Errorf("%s is not a valid status to %s", s, action),
	)
}
