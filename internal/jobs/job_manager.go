package jobs

import (
	"fmt"
)

// ScheduledJob is a cron-driven background task.
type ScheduledJob interface {
	Name() string
	Start() error
	Stop()
}

// JobManager starts and stops the configured jobs together.
type JobManager struct {
	jobs []ScheduledJob
}

// NewJobManager starts jobs in the given order and stops them in reverse.
func NewJobManager(jobs ...ScheduledJob) *JobManager {
	return &JobManager{jobs: jobs}
}

// StartAll starts every job in order. If one fails, the jobs already started
// are stopped again.
func (jm *JobManager) StartAll() error {
	for i, job := range jm.jobs {
		if err := job.Start(); err != nil {
			for _, started := range jm.jobs[:i] {
				started.Stop()
			}
			return fmt.Errorf("failed to start %s job: %w", job.Name(), err)
		}
	}
	return nil
}

// StopAll stops jobs in reverse start order.
func (jm *JobManager) StopAll() {
	for i := len(jm.jobs) - 1; i >= 0; i-- {
		jm.jobs[i].Stop()
	}
}
