package kernel

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"proofparcel/internal/pkg/errs"
	"proofparcel/internal/pkg/guard"
)

// MaxPrincipalLength bounds the opaque identity text accepted from the transport.
const MaxPrincipalLength = 128

var ErrPrincipalIsNotConstructed = errors.New("Principal must be created via NewPrincipal constructor")

// Principal is the opaque caller identity supplied by the transport. The core
// only compares principals; it never interprets their content.
type Principal struct {
	value string
	guard guard.ConstructorGuard
}

// NewPrincipal validates raw identity text. Leading and trailing whitespace is
// trimmed; the result must be non-empty, at most MaxPrincipalLength
// characters and free of inner whitespace.
func NewPrincipal(raw string) (Principal, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Principal{}, errs.NewValueIsRequiredError("principal")
	}

	if length := len([]rune(value)); length > MaxPrincipalLength {
		return Principal{}, errs.NewValueIsOutOfRangeError("principal length", length, 1, MaxPrincipalLength)
	}

	if strings.IndexFunc(value, unicode.IsSpace) >= 0 {
		return Principal{}, errs.NewValueIsInvalidErrorWithCause(
			"principal",
			fmt.Errorf("%q contains whitespace", value),
		)
	}

	return Principal{value: value, guard: guard.NewConstructorGuard()}, nil
}

// MustNewPrincipal is NewPrincipal for literals known to be valid. It panics otherwise.
func MustNewPrincipal(raw string) Principal {
	p, err := NewPrincipal(raw)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Principal) String() string {
	return p.value
}

// IsEqual compares principals by their raw identity.
func (p Principal) IsEqual(other Principal) bool {
	return p.value == other.value
}

// Validate ensures the Principal was built through NewPrincipal.
func (p Principal) Validate() error {
	return p.guard.Validate(ErrPrincipalIsNotConstructed)
}
