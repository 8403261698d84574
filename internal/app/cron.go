package app

import (
	"context"
	"time"

	"github.com/gistify/core/internal/modules/task"
	pkgcron "github.com/gistify/core/internal/pkg/cron"
	"go.uber.org/zap"
)

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, tasks *task.Service, logger *zap.Logger) {
	cronLogger := logger.Named("CronService")

	sched.Register(pkgcron.Job{
		Name:        "cleanup_tasks",
		Description: "remove finished task records older than 24 hours",
		Interval:    time.Hour,
		Fn: func(ctx context.Context) error {
			if err := tasks.Cleanup(); err != nil {
				cronLogger.Warn("task cleanup failed", zap.Error(err))
				return err
			}
			return nil
		},
	})
}
