// Package jobs provides scheduled background tasks for ProofParcel.
//
// Jobs run on github.com/robfig/cron/v3 with second-level schedules; any cron
// spec or descriptor such as "@every 1m" is accepted.
//
// # Available Jobs
//
//  1. EscrowAutoReleaseJob - releases escrow of deliveries confirmed at least
//     AUTO_RELEASE_AFTER ago, bypassing the caller release policy.
//  2. SnapshotJob - writes the in-memory store to SNAPSHOT_PATH.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewEscrowAutoReleaseJob(handler, time.Hour, "@every 1m", metrics, logger),
//	)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failure to release one delivery is logged and does not stop the sweep.
// Failed job starts stop any already running jobs.
package jobs
