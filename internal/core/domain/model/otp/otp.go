// Package otp implements the single-use delivery confirmation code: generation
// from a cryptographically strong source and validation against a stored code
// and expiry.
package otp

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"

	"proofparcel/internal/pkg/errs"
	"proofparcel/internal/pkg/guard"
)

// Alphabet is the character set of issued codes.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	MinLength = 6
	MaxLength = 64
)

var (
	ErrCodeIsNotConstructed   = errors.New("Code must be created via NewCode or Issuer.Issue")
	ErrIssuerIsNotConstructed = errors.New("Issuer must be created via NewIssuer constructor")
)

// Code is a live one-time code together with the instant it stops being valid.
type Code struct {
	value     string
	expiresAt time.Time
	guard     guard.ConstructorGuard
}

// NewCode restores a stored code.
func NewCode(value string, expiresAt time.Time) (Code, error) {
	if value == "" {
		return Code{}, errs.NewValueIsRequiredError("otp code")
	}
	if expiresAt.IsZero() {
		return Code{}, errs.NewValueIsRequiredError("otp expiry")
	}
	return Code{value: value, expiresAt: expiresAt, guard: guard.NewConstructorGuard()}, nil
}

// Value returns the code as issued.
func (c Code) Value() string {
	return c.value
}

// ExpiresAt returns the last instant at which the code is accepted.
func (c Code) ExpiresAt() time.Time {
	return c.expiresAt
}

// Validate ensures the Code was built through NewCode.
func (c Code) Validate() error {
	return c.guard.Validate(ErrCodeIsNotConstructed)
}

// Verify checks supplied against the code at instant now. A code is still
// valid at exactly its expiry and expired strictly after it. Expiry is
// checked before the comparison, so an expired code reports OtpExpired even
// when supplied matches. The comparison is constant time in the code length.
func (c Code) Verify(supplied string, now time.Time) error {
	if now.After(c.expiresAt) {
		return errs.NewDomainError(errs.KindOtpExpired, "otp has expired")
	}

	if subtle.ConstantTimeCompare([]byte(c.value), []byte(supplied)) != 1 {
		return errs.NewDomainError(errs.KindOtpMismatch, "otp does not match")
	}

	return nil
}

// Verify is Code.Verify for an optional stored code; nil reports OtpNotFound.
func Verify(stored *Code, supplied string, now time.Time) error {
	if stored == nil {
		return errs.NewDomainError(errs.KindOtpNotFound, "no otp has been generated for this delivery")
	}
	return stored.Verify(supplied, now)
}

// Issuer generates codes of a fixed length valid for a fixed window.
type Issuer struct {
	length int
	ttl    time.Duration
	random io.Reader
	guard  guard.ConstructorGuard
}

// NewIssuer builds an Issuer. A nil random source selects crypto/rand.Reader.
func NewIssuer(length int, ttl time.Duration, random io.Reader) (Issuer, error) {
	if length < MinLength || length > MaxLength {
		return Issuer{}, errs.NewValueIsOutOfRangeError("otp length", length, MinLength, MaxLength)
	}
	if ttl < time.Second {
		return Issuer{}, errs.NewValueIsInvalidErrorWithCause("otp ttl", fmt.Errorf("%s is shorter than one second", ttl))
	}
	if random == nil {
		random = rand.Reader
	}

	return Issuer{
		length: length,
		ttl:    ttl,
		random: random,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Issuer was built through NewIssuer.
func (i Issuer) Validate() error {
	return i.guard.Validate(ErrIssuerIsNotConstructed)
}

// TTL returns the validity window of issued codes.
func (i Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue draws a fresh code expiring ttl after now, truncated to the whole
// second so the stored expiry equals the one clients see. Each character is
// chosen uniformly from Alphabet.
func (i Issuer) Issue(now time.Time) (Code, error) {
	if err := i.Validate(); err != nil {
		return Code{}, err
	}

	limit := big.NewInt(int64(len(Alphabet)))
	buf := make([]byte, i.length)
	for n := range buf {
		idx, err := rand.Int(i.random, limit)
		if err != nil {
			return Code{}, fmt.Errorf("failed to generate otp: %w", err)
		}
		buf[n] = Alphabet[idx.Int64()]
	}

	return NewCode(string(buf), now.Add(i.ttl).Truncate(time.Second))
}
