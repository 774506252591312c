package services

import (
	"fmt"

	"proofparcel/internal/core/domain/model/delivery"
	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/pkg/errs"
)

// Role is the party of a delivery an operation requires.
type Role int

const (
	RoleSeller Role = iota + 1
	RoleBuyer
	// RoleParty accepts either the seller or the buyer.
	RoleParty
)

func (r Role) String() string {
	switch r {
	case RoleSeller:
		return "seller"
	case RoleBuyer:
		return "buyer"
	case RoleParty:
		return "seller or buyer"
	default:
		return "unknown role"
	}
}

// IdentityGuard authorizes a caller for an action on a delivery.
//
// Example:
//
//	if err := services.NewIdentityGuard().Authorize(caller, services.RoleSeller, d, "start a delivery"); err != nil {
//	    return err // Unauthorized
//	}
type IdentityGuard struct{}

func NewIdentityGuard() IdentityGuard {
	return IdentityGuard{}
}

// Authorize returns an Unauthorized domain error unless caller holds role on d.
func (IdentityGuard) Authorize(caller kernel.Principal, role Role, d *delivery.Delivery, action string) error {
	if err := d.Validate(); err != nil {
		return err
	}

	var allowed bool
	switch role {
	case RoleSeller:
		allowed = d.IsSeller(caller)
	case RoleBuyer:
		allowed = d.IsBuyer(caller)
	case RoleParty:
		allowed = d.IsSeller(caller) || d.IsBuyer(caller)
	}

	if !allowed || caller.Validate() != nil {
		return errs.NewDomainError(errs.KindUnauthorized, fmt.Sprintf("only the %s can %s", role, action))
	}
	return nil
}
