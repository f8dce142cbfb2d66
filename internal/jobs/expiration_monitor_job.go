package jobs

import (
	"context"
	"log/slog"

	"freight/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ExpirationMonitorJob manages the scheduled scan over unmatched orders.
// Each tick notifies customers whose pickup window has opened and archives
// orders that stayed unmatched past the grace period.
type ExpirationMonitorJob struct {
	handler commands.ProcessExpirationsCommandHandler
	spec    string
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewExpirationMonitorJob creates the monitor job. The spec is a six-field
// cron expression; ticks are serialized so a slow tick is skipped rather
// than overlapped.
func NewExpirationMonitorJob(
	handler commands.ProcessExpirationsCommandHandler,
	spec string,
	logger *slog.Logger,
) *ExpirationMonitorJob {
	jobLogger := logger.With("component", "expiration_monitor_job")

	return &ExpirationMonitorJob{
		handler: handler,
		spec:    spec,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		logger: jobLogger,
	}
}

// Start schedules the monitor ticks.
func (j *ExpirationMonitorJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		ctx := context.Background()
		cmd := commands.NewProcessExpirationsCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Expiration monitor tick failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Expiration monitor started", "spec", j.spec)
	return nil
}

// Stop stops the monitor job.
func (j *ExpirationMonitorJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Expiration monitor stopped")
}
