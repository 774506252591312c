package services

import (
	"fmt"
	"strings"

	"proofparcel/internal/pkg/errs"
)

// ReleasePolicy selects which party may release escrow on request. The
// automatic release job is not subject to it.
type ReleasePolicy string

const (
	ReleaseBySeller ReleasePolicy = "seller"
	ReleaseByBuyer  ReleasePolicy = "buyer"
	ReleaseByEither ReleasePolicy = "either"
)

// ParseReleasePolicy accepts the configuration names seller, buyer and either.
func ParseReleasePolicy(s string) (ReleasePolicy, error) {
	switch p := ReleasePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case ReleaseBySeller, ReleaseByBuyer, ReleaseByEither:
		return p, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause(
			"release policy",
			fmt.Errorf("%q is not one of seller, buyer, either", s),
		)
	}
}

// Role is the party the policy requires.
func (p ReleasePolicy) Role() Role {
	switch p {
	case ReleaseByBuyer:
		return RoleBuyer
	case ReleaseByEither:
		return RoleParty
	default:
		return RoleSeller
	}
}
