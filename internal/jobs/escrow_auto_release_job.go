package jobs

import (
	"context"
	"log/slog"
	"time"

	"proofparcel/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// TransitionObserver counts committed transitions made outside the HTTP layer.
type TransitionObserver interface {
	ObserveTransitions(transition string, n int)
}

// EscrowAutoReleaseJob releases escrow for deliveries that have stayed
// Confirmed for at least releaseAfter.
type EscrowAutoReleaseJob struct {
	handler      commands.AutoReleaseEscrowCommandHandler
	releaseAfter time.Duration
	schedule     string
	observer     TransitionObserver
	cron         *cron.Cron
	logger       *slog.Logger
}

// NewEscrowAutoReleaseJob creates a job releasing deliveries confirmed at
// least releaseAfter ago. schedule uses the standard five-field cron format
// or a descriptor such as "@every 1m". Releases are reported to observer.
func NewEscrowAutoReleaseJob(
	handler commands.AutoReleaseEscrowCommandHandler,
	releaseAfter time.Duration,
	schedule string,
	observer TransitionObserver,
	logger *slog.Logger,
) *EscrowAutoReleaseJob {
	return &EscrowAutoReleaseJob{
		handler:      handler,
		releaseAfter: releaseAfter,
		schedule:     schedule,
		observer:     observer,
		cron:         cron.New(),
		logger:       logger.With("component", "escrow_auto_release_job"),
	}
}

func (j *EscrowAutoReleaseJob) Name() string {
	return "escrow auto-release"
}

// Start validates the delay and schedule, then starts the cron scheduler.
func (j *EscrowAutoReleaseJob) Start() error {
	if _, err := commands.NewAutoReleaseEscrowCommand(j.releaseAfter); err != nil {
		return err
	}

	_, err := j.cron.AddFunc(j.schedule, func() {
		j.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Escrow auto-release job started",
		"schedule", j.schedule, "release_after", j.releaseAfter)
	return nil
}

// RunOnce performs a single sweep and returns how many deliveries it released.
// Per-delivery failures are logged; the sweep itself never aborts on them.
func (j *EscrowAutoReleaseJob) RunOnce(ctx context.Context) int {
	cmd, err := commands.NewAutoReleaseEscrowCommand(j.releaseAfter)
	if err != nil {
		j.logger.ErrorContext(ctx, "Escrow auto-release misconfigured", "error", err)
		return 0
	}

	released, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Escrow auto-release failed for some deliveries", "error", err)
	}
	if released > 0 {
		j.observer.ObserveTransitions("release", released)
		j.logger.InfoContext(ctx, "Escrow auto-released", "count", released)
	}
	return released
}

// Stop waits for a running sweep to finish.
func (j *EscrowAutoReleaseJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Escrow auto-release job stopped")
}
