package memory

import (
	"context"
	"fmt"
	"math"
	"math/bits"
	"sort"

	"proofparcel/internal/core/domain/model/delivery"
	"proofparcel/internal/core/domain/model/escrow"
	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/core/domain/model/notification"
	"proofparcel/internal/core/domain/model/receipt"
	"proofparcel/internal/core/ports"
	"proofparcel/internal/pkg/errs"
)

var _ ports.ReadModel = &Store{}

func (s *Store) GetDelivery(_ context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.committed.deliveries[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("delivery", id)
	}
	return rec.toDomain()
}

func (s *Store) ListDeliveries(_ context.Context, filter ports.DeliveryFilter) ([]*delivery.Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*delivery.Delivery, 0)
	for _, id := range s.committed.deliveryOrder {
		rec := s.committed.deliveries[id]
		if filter.Buyer != nil && rec.Buyer != filter.Buyer.String() {
			continue
		}
		if filter.Seller != nil && rec.Seller != filter.Seller.String() {
			continue
		}
		d, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt().Before(result[j].CreatedAt())
	})
	return result, nil
}

func (s *Store) GetReceipt(_ context.Context, id kernel.UUID) (*receipt.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.committed.receipts[id.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("receipt", id)
	}
	return rec.toDomain()
}

func (s *Store) GetReceiptByDelivery(_ context.Context, deliveryID kernel.UUID) (*receipt.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.committed.receiptByDelivery[deliveryID.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("receipt for delivery", deliveryID)
	}
	return s.committed.receipts[id].toDomain()
}

func (s *Store) ListReceiptsByOwner(_ context.Context, owner kernel.Principal) ([]*receipt.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*receipt.Receipt, 0)
	for _, id := range s.committed.receiptOrder {
		rec := s.committed.receipts[id]
		if rec.Owner != owner.String() {
			continue
		}
		r, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, nil
}

func (s *Store) LockedEscrowBalance(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]escrowRecord, 0, len(s.committed.escrows))
	for _, rec := range s.committed.escrows {
		records = append(records, rec)
	}
	return sumLocked(records)
}

// sumLocked adds up the Locked amounts and fails instead of wrapping.
func sumLocked(records []escrowRecord) (uint64, error) {
	locked := escrow.Locked.String()
	var total, carry uint64
	for _, rec := range records {
		if rec.State != locked {
			continue
		}
		total, carry = bits.Add64(total, rec.Amount, 0)
		if carry != 0 {
			return 0, fmt.Errorf("locked escrow balance exceeds %d", uint64(math.MaxUint64))
		}
	}
	return total, nil
}

func (s *Store) ListNotifications(_ context.Context, recipient kernel.Principal) ([]*notification.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*notification.Notification, 0)
	for i := len(s.committed.notifications) - 1; i >= 0; i-- {
		rec := s.committed.notifications[i]
		if rec.Recipient != recipient.String() {
			continue
		}
		n, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt().After(result[j].CreatedAt())
	})
	return result, nil
}
