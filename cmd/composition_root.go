package cmd

import (
	"log/slog"

	"proofparcel/internal/adapters/in/http"
	"proofparcel/internal/adapters/out/memory"
	"proofparcel/internal/adapters/out/postgres"
	"proofparcel/internal/core/application/usecases/commands"
	"proofparcel/internal/core/application/usecases/queries"
	"proofparcel/internal/core/domain/model/otp"
	"proofparcel/internal/core/domain/services"
	"proofparcel/internal/core/ports"
	"proofparcel/internal/jobs"
	"proofparcel/internal/pkg/clock"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Backend is one storage implementation: transactional writes plus the
// committed-state reader.
type Backend struct {
	UoWFactory ports.UnitOfWorkFactory
	Reader     ports.ReadModel
	// Store is set for the memory backend only.
	Store *memory.Store
}

// NewMemoryBackend serves writes and reads from the in-process store.
func NewMemoryBackend(store *memory.Store) Backend {
	return Backend{
		UoWFactory: memory.NewUnitOfWorkFactory(store),
		Reader:     store,
		Store:      store,
	}
}

// NewPostgresBackend serves writes and reads from PostgreSQL through gorm.
func NewPostgresBackend(db *gorm.DB) Backend {
	return Backend{
		UoWFactory: postgres.NewGormUnitOfWorkFactory(db),
		Reader:     postgres.NewGormReadModel(db),
	}
}

// CompositionRoot builds handlers, jobs and the HTTP server from one Config.
type CompositionRoot struct {
	config  Config
	backend Backend
	clock   clock.Clock
	issuer  otp.Issuer
	policy  services.ReleasePolicy
	metrics *http.Metrics
	logger  *slog.Logger
}

// NewCompositionRoot resolves the OTP issuer and release policy from config.
//
// Returns:
//   - *CompositionRoot: ready to build handlers
//   - error: if the OTP settings or the release policy are invalid
func NewCompositionRoot(config Config, backend Backend, clk clock.Clock, logger *slog.Logger) (*CompositionRoot, error) {
	issuer, err := otp.NewIssuer(config.OtpLength, config.OtpTTL, nil)
	if err != nil {
		return nil, err
	}
	policy, err := services.ParseReleasePolicy(config.ReleasePolicy)
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		config:  config,
		backend: backend,
		clock:   clk,
		issuer:  issuer,
		policy:  policy,
		logger:  logger,
	}
	c.metrics = http.NewMetrics(c.CreateGetEscrowBalanceQueryHandler())
	return c, nil
}

func (c *CompositionRoot) uowFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.backend.UoWFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateDeliveryCommandHandler() commands.CreateDeliveryCommandHandler {
	return commands.NewCreateDeliveryCommandHandler(c.uowFactory(), c.clock)
}

func (c *CompositionRoot) CreateStartDeliveryCommandHandler() commands.StartDeliveryCommandHandler {
	return commands.NewStartDeliveryCommandHandler(c.uowFactory(), c.clock)
}

func (c *CompositionRoot) CreateGenerateDeliveryOtpCommandHandler() commands.GenerateDeliveryOtpCommandHandler {
	return commands.NewGenerateDeliveryOtpCommandHandler(c.uowFactory(), c.issuer, c.clock)
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	return commands.NewConfirmDeliveryCommandHandler(c.uowFactory(), c.clock)
}

func (c *CompositionRoot) CreateReleaseEscrowCommandHandler() commands.ReleaseEscrowCommandHandler {
	return commands.NewReleaseEscrowCommandHandler(c.uowFactory(), c.policy, c.clock)
}

func (c *CompositionRoot) CreateCancelDeliveryCommandHandler() commands.CancelDeliveryCommandHandler {
	return commands.NewCancelDeliveryCommandHandler(c.uowFactory(), c.clock)
}

func (c *CompositionRoot) CreateAutoReleaseEscrowCommandHandler() commands.AutoReleaseEscrowCommandHandler {
	return commands.NewAutoReleaseEscrowCommandHandler(c.uowFactory(), c.clock)
}

func (c *CompositionRoot) CreateGetEscrowBalanceQueryHandler() queries.GetEscrowBalanceQueryHandler {
	return queries.NewGetEscrowBalanceQueryHandler(c.backend.Reader)
}

func (c *CompositionRoot) CreateCommandHandlers() http.CommandHandlers {
	return http.CommandHandlers{
		Create:      c.CreateCreateDeliveryCommandHandler(),
		Start:       c.CreateStartDeliveryCommandHandler(),
		GenerateOtp: c.CreateGenerateDeliveryOtpCommandHandler(),
		Confirm:     c.CreateConfirmDeliveryCommandHandler(),
		Release:     c.CreateReleaseEscrowCommandHandler(),
		Cancel:      c.CreateCancelDeliveryCommandHandler(),
	}
}

func (c *CompositionRoot) CreateQueryHandlers() http.QueryHandlers {
	reader := c.backend.Reader
	return http.QueryHandlers{
		GetDelivery:         queries.NewGetDeliveryQueryHandler(reader),
		ListDeliveries:      queries.NewListDeliveriesQueryHandler(reader),
		GetReceipt:          queries.NewGetReceiptQueryHandler(reader),
		ListReceiptsByOwner: queries.NewListReceiptsByOwnerQueryHandler(reader),
		GetEscrowBalance:    c.CreateGetEscrowBalanceQueryHandler(),
		GetNotifications:    queries.NewGetNotificationsQueryHandler(reader),
		HealthCheck:         queries.NewHealthCheckQueryHandler(),
	}
}

// CreateHTTPServer returns the fully routed echo instance.
func (c *CompositionRoot) CreateHTTPServer() (*echo.Echo, error) {
	server := http.NewServer(c.CreateCommandHandlers(), c.CreateQueryHandlers(), c.metrics, c.logger)
	e, err := http.NewRouter(server, c.metrics, c.config.Identity())
	if err != nil {
		return nil, err
	}
	e.Logger.SetLevel(c.config.EchoLevel())
	return e, nil
}

// CreateJobManager wires the jobs the configuration enables: auto-release
// when AUTO_RELEASE_AFTER is positive, snapshots when the memory backend has
// a SNAPSHOT_PATH.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	var scheduled []jobs.ScheduledJob
	if c.config.AutoReleaseAfter > 0 {
		scheduled = append(scheduled, jobs.NewEscrowAutoReleaseJob(
			c.CreateAutoReleaseEscrowCommandHandler(),
			c.config.AutoReleaseAfter,
			c.config.AutoReleaseSchedule,
			c.metrics,
			c.logger,
		))
	}
	if c.backend.Store != nil && c.config.SnapshotPath != "" {
		scheduled = append(scheduled, jobs.NewSnapshotJob(
			c.backend.Store,
			c.config.SnapshotPath,
			c.config.SnapshotSchedule,
			c.logger,
		))
	}
	return jobs.NewJobManager(scheduled...)
}

// FuncUoWFactory adapts a function to commands.UoWFactory.
type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
