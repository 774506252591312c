package commands_test

import (
	"context"
	"testing"
	"time"

	"proofparcel/internal/core/application/usecases/commands"
	"proofparcel/internal/core/domain/model/delivery"
	"proofparcel/internal/core/domain/model/escrow"
	"proofparcel/internal/core/domain/model/kernel"
	"proofparcel/internal/core/domain/model/notification"
	"proofparcel/internal/core/domain/model/otp"
	"proofparcel/internal/core/domain/model/receipt"
	"proofparcel/internal/core/ports"
	"proofparcel/internal/pkg/clock"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	t0     = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seller = kernel.MustNewPrincipal("seller-principal")
	buyer  = kernel.MustNewPrincipal("buyer-principal")
	other  = kernel.MustNewPrincipal("someone-else")
)

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) ListConfirmedBefore(ctx context.Context, before time.Time) ([]*delivery.Delivery, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Delivery), args.Error(1)
}

type MockEscrowRepository struct{ mock.Mock }

func (m *MockEscrowRepository) Add(ctx context.Context, e *escrow.Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEscrowRepository) Update(ctx context.Context, e *escrow.Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEscrowRepository) Get(ctx context.Context, id kernel.UUID) (*escrow.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*escrow.Entry), args.Error(1)
}

func (m *MockEscrowRepository) LockedBalance(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

type MockReceiptRepository struct{ mock.Mock }

func (m *MockReceiptRepository) Add(ctx context.Context, r *receipt.Receipt) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReceiptRepository) GetByDelivery(ctx context.Context, id kernel.UUID) (*receipt.Receipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receipt.Receipt), args.Error(1)
}

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Add(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) DeliveryRepository() ports.DeliveryRepository {
	args := m.Called()
	return args.Get(0).(ports.DeliveryRepository)
}

func (m *MockUoW) EscrowRepository() ports.EscrowRepository {
	args := m.Called()
	return args.Get(0).(ports.EscrowRepository)
}

func (m *MockUoW) ReceiptRepository() ports.ReceiptRepository {
	args := m.Called()
	return args.Get(0).(ports.ReceiptRepository)
}

func (m *MockUoW) NotificationRepository() ports.NotificationRepository {
	args := m.Called()
	return args.Get(0).(ports.NotificationRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

// uowFixture wires a MockUoW to one mock of each repository. Repository
// accessors may be called any number of times.
type uowFixture struct {
	uow           *MockUoW
	factory       *MockUoWFactory
	deliveries    *MockDeliveryRepository
	escrows       *MockEscrowRepository
	receipts      *MockReceiptRepository
	notifications *MockNotificationRepository
}

func newUoWFixture() *uowFixture {
	f := &uowFixture{
		uow:           new(MockUoW),
		factory:       new(MockUoWFactory),
		deliveries:    new(MockDeliveryRepository),
		escrows:       new(MockEscrowRepository),
		receipts:      new(MockReceiptRepository),
		notifications: new(MockNotificationRepository),
	}
	f.factory.On("Create").Return(f.uow)
	f.uow.On("DeliveryRepository").Return(f.deliveries).Maybe()
	f.uow.On("EscrowRepository").Return(f.escrows).Maybe()
	f.uow.On("ReceiptRepository").Return(f.receipts).Maybe()
	f.uow.On("NotificationRepository").Return(f.notifications).Maybe()
	return f
}

func (f *uowFixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.uow.AssertExpectations(t)
	f.deliveries.AssertExpectations(t)
	f.escrows.AssertExpectations(t)
	f.receipts.AssertExpectations(t)
	f.notifications.AssertExpectations(t)
}

func fixedClock() *clock.FakeClock {
	return clock.Fake(t0)
}

func newPendingDelivery(t *testing.T) *delivery.Delivery {
	t.Helper()
	amount, err := kernel.NewAmount(100)
	require.NoError(t, err)
	d, err := delivery.NewDelivery(kernel.NewUUID(), seller, buyer, "widget", amount, t0)
	require.NoError(t, err)
	return d
}

func newInTransitDelivery(t *testing.T, code string) *delivery.Delivery {
	t.Helper()
	d := newPendingDelivery(t)
	require.NoError(t, d.Start(t0))
	if code != "" {
		c, err := otp.NewCode(code, t0.Add(5*time.Minute))
		require.NoError(t, err)
		require.NoError(t, d.IssueOtp(c))
	}
	return d
}

func newConfirmedDelivery(t *testing.T) *delivery.Delivery {
	t.Helper()
	d := newInTransitDelivery(t, "ABCDEF12")
	require.NoError(t, d.Deliver("ABCDEF12", t0))
	require.NoError(t, d.Confirm(t0))
	return d
}

func lockedEntryFor(t *testing.T, d *delivery.Delivery) *escrow.Entry {
	t.Helper()
	e, err := escrow.Lock(d.ID(), d.Amount(), t0)
	require.NoError(t, err)
	return e
}
