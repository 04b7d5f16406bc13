// Package cleanup runs the retention job: events whose span ended
// before the configured horizon are purged on a cron schedule.
package cleanup

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/opsdash/calgrid/internal/config"
	"github.com/opsdash/calgrid/internal/storage"
)

type Janitor struct {
	cfg    config.RetentionConfig
	store  storage.Store
	logger zerolog.Logger
	cron   *cron.Cron
	now    func() time.Time
}

func New(cfg config.RetentionConfig, store storage.Store, logger zerolog.Logger) (*Janitor, error) {
	j := &Janitor{
		cfg:    cfg,
		store:  store,
		logger: logger,
		cron:   cron.New(),
		now:    time.Now,
	}
	if _, err := j.cron.AddFunc(cfg.Schedule, j.runOnce); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *Janitor) Start() {
	j.cron.Start()
	j.logger.Info().
		Str("schedule", j.cfg.Schedule).
		Dur("horizon", j.cfg.Horizon).
		Msg("retention job scheduled")
}

// Stop halts the schedule and waits for a running purge to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

func (j *Janitor) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := j.now().Add(-j.cfg.Horizon)
	n, err := j.store.PurgeEventsBefore(ctx, cutoff)
	if err != nil {
		j.logger.Error().Err(err).Time("cutoff", cutoff).Msg("retention purge failed")
		return
	}
	j.logger.Info().Int64("purged", n).Time("cutoff", cutoff).Msg("retention purge done")
}
