// Package scheduler runs the periodic housekeeping jobs on robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/crucial707/monster-mashup/internal/metrics"
)

// jobTimeout bounds a single run of any job.
const jobTimeout = time.Minute

// Job is a named function run on a cron schedule.
type Job struct {
	Name string
	Spec string // cron expression or descriptor, e.g. "@every 1h"
	Run  func(ctx context.Context) error
}

// Start registers jobs and starts the cron runner. Overlapping runs of the
// same job are skipped and panics are recovered. Stop the returned cron
// (and wait on its context) during shutdown.
func Start(ctx context.Context, jobs ...Job) (*cron.Cron, error) {
	logger := slogLogger{}
	c := cron.New(cron.WithChain(
		cron.Recover(logger),
		cron.SkipIfStillRunning(logger),
	))

	for _, j := range jobs {
		j := j
		_, err := c.AddFunc(j.Spec, func() {
			runCtx, cancel := context.WithTimeout(ctx, jobTimeout)
			defer cancel()
			start := time.Now()
			if err := j.Run(runCtx); err != nil {
				slog.Error("scheduler: job failed", "job", j.Name, "error", err)
				return
			}
			slog.Debug("scheduler: job done", "job", j.Name, "duration_ms", time.Since(start).Milliseconds())
		})
		if err != nil {
			return nil, fmt.Errorf("scheduler: invalid spec %q for job %s: %w", j.Spec, j.Name, err)
		}
		slog.Info("scheduler: added job", "job", j.Name, "spec", j.Spec)
	}

	c.Start()
	return c, nil
}

// PurgeSessions wraps a session purge as a Job body, counting what it removed.
func PurgeSessions(purge func(ctx context.Context) (int64, error)) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		n, err := purge(ctx)
		if err != nil {
			return fmt.Errorf("purge sessions: %w", err)
		}
		metrics.AddSessionsPurged(n)
		if n > 0 {
			slog.Info("scheduler: purged expired sessions", "count", n)
		}
		return nil
	}
}

// slogLogger adapts slog to cron.Logger.
type slogLogger struct{}

func (slogLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (slogLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
