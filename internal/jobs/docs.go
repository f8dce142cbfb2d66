// Package jobs provides scheduled background tasks for the freight broker.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the brokering engine.
//
// # Available Jobs
//
// 1. ExpirationMonitorJob - Runs every five minutes to notify customers of
// unmatched orders whose pickup window has opened, and to expire and archive
// orders that stayed unmatched past the window end plus the grace period.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(processExpirationsHandler, cronSpec, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The monitor uses the six-field cron expression "0 */5 * * * *" (every five
// minutes) by default. Ticks are serialized: cron.SkipIfStillRunning drops a
// tick while the previous one is still working, so a slow mail relay can
// never pile up overlapping scans.
//
// # Error Handling
//
// A tick that fails for some orders still commits the successful ones; the
// per-order failures are joined into a single error and logged. The failed
// orders are retried on the next tick because their flags were never set.
package jobs
