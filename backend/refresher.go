package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/etnz/pdash"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Updater receives new snapshots, *pdash.Engine implements it.
type Updater interface {
	Update(snap *pdash.Snapshot)
}

// Refresher pulls a snapshot from a Source on a fixed interval and pushes it
// to an Updater. A failed pull keeps the previous snapshot.
type Refresher struct {
	cron    *cron.Cron
	src     Source
	dst     Updater
	every   time.Duration
	timeout time.Duration
	log     zerolog.Logger
}

// NewRefresher returns a refresher pulling src every interval.
func NewRefresher(src Source, dst Updater, every time.Duration, log zerolog.Logger) *Refresher {
	return &Refresher{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		src:     src,
		dst:     dst,
		every:   every,
		timeout: 30 * time.Second,
		log:     log.With().Str("component", "refresher").Logger(),
	}
}

// Start schedules the periodic refresh. It does not run a first refresh,
// call RunNow for that.
func (r *Refresher) Start() error {
	if r.every <= 0 {
		return fmt.Errorf("invalid refresh interval %v", r.every)
	}
	schedule := "@every " + r.every.String()
	_, err := r.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := r.RunNow(ctx); err != nil {
			r.log.Error().Err(err).Msg("Refresh failed, keeping the previous snapshot")
		}
	})
	if err != nil {
		return fmt.Errorf("cannot schedule refresh: %w", err)
	}
	r.cron.Start()
	r.log.Info().Str("schedule", schedule).Msg("Refresher started")
	return nil
}

// Stop stops the schedule and waits for a running refresh to complete.
func (r *Refresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.log.Info().Msg("Refresher stopped")
}

// RunNow pulls a snapshot immediately.
func (r *Refresher) RunNow(ctx context.Context) error {
	start := time.Now()
	snap, err := r.src.Snapshot(ctx)
	if err != nil {
		return err
	}
	r.dst.Update(snap)
	r.log.Debug().
		Int("positions", len(snap.Positions)).
		Bool("empty", snap.Empty).
		Dur("took", time.Since(start)).
		Msg("Snapshot refreshed")
	return nil
}
