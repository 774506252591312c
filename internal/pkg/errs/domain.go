package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure of a delivery operation. Kinds are stable and
// surface to callers as the tag of a failed result.
type Kind string

const (
	KindUnauthorized    Kind = "Unauthorized"
	KindInvalidState    Kind = "InvalidState"
	KindInvalidAmount   Kind = "InvalidAmount"
	KindInvalidParty    Kind = "InvalidParty"
	KindOtpNotFound     Kind = "OtpNotFound"
	KindOtpExpired      Kind = "OtpExpired"
	KindOtpMismatch     Kind = "OtpMismatch"
	KindAlreadyReleased Kind = "AlreadyReleased"
	KindAlreadyMinted   Kind = "AlreadyMinted"
	KindNotFound        Kind = "NotFound"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidState    = errors.New("invalid state")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidParty    = errors.New("invalid party")
	ErrOtpNotFound     = errors.New("otp not found")
	ErrOtpExpired      = errors.New("otp expired")
	ErrOtpMismatch     = errors.New("otp mismatch")
	ErrAlreadyReleased = errors.New("escrow already released")
	ErrAlreadyMinted   = errors.New("receipt already minted")
)

func getKindSentinels() map[Kind]error {
	return map[Kind]error{
		KindUnauthorized:    ErrUnauthorized,
		KindInvalidState:    ErrInvalidState,
		KindInvalidAmount:   ErrInvalidAmount,
		KindInvalidParty:    ErrInvalidParty,
		KindOtpNotFound:     ErrOtpNotFound,
		KindOtpExpired:      ErrOtpExpired,
		KindOtpMismatch:     ErrOtpMismatch,
		KindAlreadyReleased: ErrAlreadyReleased,
		KindAlreadyMinted:   ErrAlreadyMinted,
		KindNotFound:        ErrObjectNotFound,
	}
}

// DomainError is a tagged failure of a delivery operation: a Kind plus a
// human-readable message. It unwraps to the sentinel of its kind so callers
// can match with errors.Is(err, errs.ErrOtpMismatch).
type DomainError struct {
	Kind    Kind
	Message string
	Cause   error
}

func NewDomainError(kind Kind, message string) *DomainError {
	return &DomainError{Kind: kind, Message: message}
}

func NewDomainErrorWithCause(kind Kind, message string, cause error) *DomainError {
	return &DomainError{Kind: kind, Message: message, Cause: cause}
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DomainError) Unwrap() error {
	if sentinel, ok := getKindSentinels()[e.Kind]; ok {
		return sentinel
	}
	return nil
}

// KindOf reports the Kind carried by err. Not-found errors from repositories
// map to KindNotFound. The second result is false for errors outside the
// domain taxonomy.
func KindOf(err error) (Kind, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind, true
	}
	if errors.Is(err, ErrObjectNotFound) {
		return KindNotFound, true
	}
	return "", false
}
