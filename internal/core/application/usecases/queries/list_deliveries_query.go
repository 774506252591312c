package queries

import (
	"errors"

	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/core/ports"
	"proofparcel/internal/pkg/guard"
)

var ErrListDeliveriesQueryIsNotConstructed = errors.New(
	"ListDeliveriesQuery must be created via one of the NewListDeliveries constructors",
)

// ListDeliveriesQuery lists all deliveries, or those of one buyer or one seller.
//
// Example:
//
//	all := NewListAllDeliveriesQuery(nil)
//	mine := NewListDeliveriesByBuyerQuery(caller, &caller)
type ListDeliveriesQuery struct {
	filter ports.DeliveryFilter
	viewer *kernel.Principal

	guard guard.ConstructorGuard
}

// NewListAllDeliveriesQuery lists every delivery. viewer may be nil for an
// anonymous caller.
func NewListAllDeliveriesQuery(viewer *kernel.Principal) ListDeliveriesQuery {
	return ListDeliveriesQuery{viewer: viewer, guard: guard.NewConstructorGuard()}
}

// NewListDeliveriesByBuyerQuery lists the deliveries bought by buyer.
func NewListDeliveriesByBuyerQuery(buyer kernel.Principal, viewer *kernel.Principal) (ListDeliveriesQuery, error) {
	if err := buyer.Validate(); err != nil {
		return ListDeliveriesQuery{}, err
	}
	return ListDeliveriesQuery{
		filter: ports.DeliveryFilter{Buyer: &buyer},
		viewer: viewer,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// NewListDeliveriesBySellerQuery lists the deliveries sold by seller.
func NewListDeliveriesBySellerQuery(seller kernel.Principal, viewer *kernel.Principal) (ListDeliveriesQuery, error) {
	if err := seller.Validate(); err != nil {
		return ListDeliveriesQuery{}, err
	}
	return ListDeliveriesQuery{
		filter: ports.DeliveryFilter{Seller: &seller},
		viewer: viewer,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (q ListDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrListDeliveriesQueryIsNotConstructed)
}

func (q ListDeliveriesQuery) Filter() ports.DeliveryFilter {
	return q.filter
}

// Viewer returns the caller the views are rendered for, or nil.
func (q ListDeliveriesQuery) Viewer() *kernel.Principal {
	return q.viewer
}
