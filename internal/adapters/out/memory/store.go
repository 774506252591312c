// Package memory is the in-process storage backend. A Store keeps committed
// state as plain records; a UnitOfWork stages its writes and publishes them on
// Commit. Only one unit of work is active at a time, which serializes every
// state transition while readers keep seeing the last committed state.
package memory

import (
	"log/slog"
	"sync"
)

// state is one consistent version of everything the store holds. Orders
// preserve insertion so listings and snapshots are stable.
type state struct {
	deliveries        map[string]deliveryRecord
	deliveryOrder     []string
	escrows           map[string]escrowRecord
	receipts          map[string]receiptRecord
	receiptOrder      []string
	receiptByDelivery map[string]string
	notifications     []notificationRecord
}

func newState() *state {
	return &state{
		deliveries:        make(map[string]deliveryRecord),
		escrows:           make(map[string]escrowRecord),
		receipts:          make(map[string]receiptRecord),
		receiptByDelivery: make(map[string]string),
	}
}

type Store struct {
	// writer is held by the active unit of work from Begin to Commit or Rollback.
	writer chan struct{}

	mu        sync.RWMutex
	committed *state

	logger *slog.Logger
}

func NewStore(logger *slog.Logger) *Store {
	return &Store{
		writer:    make(chan struct{}, 1),
		committed: newState(),
		logger:    logger.With("component", "memory-store"),
	}
}

// apply publishes a unit of work's staged writes. The caller holds writer.
func (s *Store) apply(tx *stagedWrites) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range tx.deliveryOrder {
		s.committed.deliveryOrder = append(s.committed.deliveryOrder, id)
	}
	for id, r := range tx.deliveries {
		s.committed.deliveries[id] = r
	}
	for id, r := range tx.escrows {
		s.committed.escrows[id] = r
	}
	for _, id := range tx.receiptOrder {
		r := tx.receipts[id]
		s.committed.receipts[id] = r
		s.committed.receiptOrder = append(s.committed.receiptOrder, id)
		s.committed.receiptByDelivery[r.DeliveryID] = id
	}
	s.committed.notifications = append(s.committed.notifications, tx.notifications...)
}
