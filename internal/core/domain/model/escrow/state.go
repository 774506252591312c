package escrow

import (
	"fmt"

	"proofparcel/internal/pkg/errs"
)

// State is the lifecycle of the funds locked for one delivery.
//
//	Locked ──┬──> Released   (paid out to the seller)
//	         └──> Refunded   (returned to the buyer on cancellation)
type State int

const (
	Unknown State = iota
	Locked
	Released
	Refunded
)

func getStateStrings() map[State]string {
	return map[State]string{
		Unknown:  "Unknown",
		Locked:   "Locked",
		Released: "Released",
		Refunded: "Refunded",
	}
}

func getValidStateStrings() map[State]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[State]string{
		Locked:   "Locked",
		Released: "Released",
		Refunded: "Refunded",
	}
}

// ParseState maps a persisted name back to a State.
func ParseState(s string) (State, error) {
	for state, name := range getValidStateStrings() {
		if name == s {
			return state, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("escrow state", fmt.Errorf("%q is not a valid state", s))
}

// Validate rejects Unknown and out-of-range states.
func (s State) Validate() error {
	if _, ok := getValidStateStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("escrow state", fmt.Errorf("%d is not a valid state", s))
	}
	return nil
}

// String returns the state name used in memory snapshots and logs.
func (s State) String() string {
	if str, ok := getStateStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Release moves Locked funds to Released. A second release fails with
// AlreadyReleased; refunded funds cannot be released.
func (s State) Release() (State, error) {
	switch s {
	case Locked:
		return Released, nil
	case Released:
		return Unknown, errs.NewDomainError(errs.KindAlreadyReleased, "escrow has already been released")
	default:
		return Unknown, errs.NewDomainError(errs.KindInvalidState, fmt.Sprintf("escrow in %s state cannot be released", s))
	}
}

// Refund moves Locked funds to Refunded.
func (s State) Refund() (State, error) {
	switch s {
	case Locked:
		return Refunded, nil
	case Released:
		return Unknown, errs.NewDomainError(errs.KindAlreadyReleased, "escrow has already been released")
	default:
		return Unknown, errs.NewDomainError(errs.KindInvalidState, fmt.Sprintf("escrow in %s state cannot be refunded", s))
	}
}
