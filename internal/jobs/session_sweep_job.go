package jobs

import (
	"context"
	"log/slog"
	"time"

	"voiceorder/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// SessionSweepJob periodically evicts expired call sessions from the session
// store. Stores with native TTL eviction make the sweep a no-op; the
// in-memory store depends on it.
type SessionSweepJob struct {
	handler commands.PurgeExpiredSessionsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewSessionSweepJob creates a new job for purging expired sessions.
func NewSessionSweepJob(handler commands.PurgeExpiredSessionsCommandHandler, logger *slog.Logger) *SessionSweepJob {
	return &SessionSweepJob{
		handler: handler,
		cron:    cron.New(),
		logger:  logger.With("component", "session_sweep_job"),
	}
}

// Start begins the session sweep job to run every minute.
func (j *SessionSweepJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewPurgeExpiredSessionsCommand()

		started := time.Now()
		purged, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Session sweep failed", "error", err)
			return
		}
		if purged > 0 {
			j.logger.InfoContext(ctx, "Expired sessions purged",
				"count", purged, "took", time.Since(started))
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Session sweep job started (running every minute)")
	return nil
}

// Stop stops the session sweep job.
func (j *SessionSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Session sweep job stopped")
}
