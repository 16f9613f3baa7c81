// Package report runs the periodic background jobs: the stats summary log
// and the rescan that backstops lost filesystem events.
package report

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/ohare93/immich-auto-uploader/internal/config"
	"github.com/ohare93/immich-auto-uploader/internal/logging"
	"github.com/ohare93/immich-auto-uploader/internal/worker"
)

type Reporter struct {
	cron  *cron.Cron
	stats *worker.Stats
	log   logging.Logger
}

func New(stats *worker.Stats, log logging.Logger) *Reporter {
	return &Reporter{
		cron:  cron.New(),
		stats: stats,
		log:   log,
	}
}

// Start schedules the summary and optional rescan jobs and begins running
// them. Cron specs come straight from the configuration, e.g. "@every 5m".
func (r *Reporter) Start(ctx context.Context, cfg config.ScheduleConfig, rescan func(context.Context)) error {
	if _, err := r.cron.AddFunc(cfg.StatsSummary, func() {
		r.log.Info("processing stats", "summary", r.stats.Summary())
	}); err != nil {
		return fmt.Errorf("invalid statsSummary schedule %q: %w", cfg.StatsSummary, err)
	}

	if cfg.Rescan != "" {
		if _, err := r.cron.AddFunc(cfg.Rescan, func() {
			r.log.Debug("periodic rescan")
			rescan(ctx)
		}); err != nil {
			return fmt.Errorf("invalid rescan schedule %q: %w", cfg.Rescan, err)
		}
	}

	r.cron.Start()
	return nil
}

// Stop halts scheduling and waits for a running job to finish.
func (r *Reporter) Stop() {
	<-r.cron.Stop().Done()
}
