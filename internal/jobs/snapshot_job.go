package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

type snapshotSaver interface {
	SaveFile(path string) error
}

// SnapshotJob periodically writes the in-memory store to disk, so a crash
// loses at most one interval of transitions.
type SnapshotJob struct {
	store    snapshotSaver
	path     string
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewSnapshotJob creates a job writing the memory store to path on schedule.
func NewSnapshotJob(store snapshotSaver, path, schedule string, logger *slog.Logger) *SnapshotJob {
	return &SnapshotJob{
		store:    store,
		path:     path,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With("component", "snapshot_job"),
	}
}

func (j *SnapshotJob) Name() string {
	return "snapshot"
}

func (j *SnapshotJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		_ = j.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Snapshot job started", "schedule", j.schedule, "path", j.path)
	return nil
}

// RunOnce writes one snapshot. Failures are logged and returned.
func (j *SnapshotJob) RunOnce(ctx context.Context) error {
	if err := j.store.SaveFile(j.path); err != nil {
		j.logger.ErrorContext(ctx, "Snapshot failed", "path", j.path, "error", err)
		return err
	}
	return nil
}

// Stop waits for a running snapshot to finish.
func (j *SnapshotJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Snapshot job stopped")
}
