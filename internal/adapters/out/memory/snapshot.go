package memory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"proofparcel/internal/pkg/codec"
)

const snapshotVersion = 1

type snapshot struct {
	Version       int                  `cbor:"version"`
	Deliveries    []deliveryRecord     `cbor:"deliveries"`
	Escrows       []escrowRecord       `cbor:"escrows"`
	Receipts      []receiptRecord      `cbor:"receipts"`
	Notifications []notificationRecord `cbor:"notifications"`
}

// Save writes the committed state to w as deterministic CBOR.
func (s *Store) Save(w io.Writer) error {
	s.mu.RLock()
	snap := snapshot{
		Version:       snapshotVersion,
		Deliveries:    make([]deliveryRecord, 0, len(s.committed.deliveryOrder)),
		Escrows:       make([]escrowRecord, 0, len(s.committed.deliveryOrder)),
		Receipts:      make([]receiptRecord, 0, len(s.committed.receiptOrder)),
		Notifications: append([]notificationRecord{}, s.committed.notifications...),
	}
	for _, id := range s.committed.deliveryOrder {
		snap.Deliveries = append(snap.Deliveries, s.committed.deliveries[id])
		if e, ok := s.committed.escrows[id]; ok {
			snap.Escrows = append(snap.Escrows, e)
		}
	}
	for _, id := range s.committed.receiptOrder {
		snap.Receipts = append(snap.Receipts, s.committed.receipts[id])
	}
	s.mu.RUnlock()

	return codec.NewEncoder(w).Encode(snap)
}

// Load replaces the committed state with the snapshot read from r. Every
// record is checked against the domain invariants before anything is replaced.
func (s *Store) Load(ctx context.Context, r io.Reader) error {
	var snap snapshot
	if err := codec.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}

	next := newState()
	for _, rec := range snap.Deliveries {
		if _, err := rec.toDomain(); err != nil {
			return fmt.Errorf("delivery %s: %w", rec.ID, err)
		}
		next.deliveries[rec.ID] = rec
		next.deliveryOrder = append(next.deliveryOrder, rec.ID)
	}
	for _, rec := range snap.Escrows {
		if _, err := rec.toDomain(); err != nil {
			return fmt.Errorf("escrow %s: %w", rec.DeliveryID, err)
		}
		next.escrows[rec.DeliveryID] = rec
	}
	for _, rec := range snap.Receipts {
		if _, err := rec.toDomain(); err != nil {
			return fmt.Errorf("receipt %s: %w", rec.ID, err)
		}
		next.receipts[rec.ID] = rec
		next.receiptOrder = append(next.receiptOrder, rec.ID)
		next.receiptByDelivery[rec.DeliveryID] = rec.ID
	}
	for _, rec := range snap.Notifications {
		if _, err := rec.toDomain(); err != nil {
			return fmt.Errorf("notification %s: %w", rec.ID, err)
		}
		next.notifications = append(next.notifications, rec)
	}

	select {
	case s.writer <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-s.writer }()

	s.mu.Lock()
	s.committed = next
	s.mu.Unlock()
	return nil
}

// SaveFile writes the snapshot to path through a temporary file so a crash
// never leaves a truncated snapshot behind.
func (s *Store) SaveFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err = s.Save(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return err
	}

	s.logger.Info("snapshot saved", "path", path)
	return nil
}

// LoadFile restores the snapshot at path. A missing file leaves the store empty.
func (s *Store) LoadFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.InfoContext(ctx, "no snapshot to restore", "path", path)
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	if err = s.Load(ctx, f); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "snapshot restored", "path", path)
	return nil
}
