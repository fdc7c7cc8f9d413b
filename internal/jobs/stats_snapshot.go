// Package jobs runs periodic background work next to the HTTP server.
package jobs

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/adora-ads/adora-api/internal/stats"
)

// StatsSnapshot recomputes the admin dashboard summary on a schedule and
// stores it so GET /v1/admin/stats does not scan every table per request.
type StatsSnapshot struct {
	Source  stats.Source
	Store   *stats.Store
	Timeout time.Duration
	now     func() time.Time
}

func NewStatsSnapshot(src stats.Source, store *stats.Store) *StatsSnapshot {
	return &StatsSnapshot{
		Source:  src,
		Store:   store,
		Timeout: 30 * time.Second,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Run computes and saves one snapshot. When a write invalidated the stats
// while they were being loaded the snapshot is returned with
// stats.ErrStaleSnapshot and nothing is stored.
func (j *StatsSnapshot) Run(ctx context.Context) (stats.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, j.Timeout)
	defer cancel()

	gen, err := j.Store.Generation(ctx)
	if err != nil {
		return stats.Snapshot{}, err
	}
	sum, err := stats.Load(ctx, j.Source)
	if err != nil {
		return stats.Snapshot{}, err
	}
	snap := stats.Snapshot{Summary: sum, ComputedAt: j.now()}
	if err := j.Store.Save(ctx, gen, snap); err != nil {
		return snap, err
	}
	return snap, nil
}

// Start schedules Run with a standard five-field cron spec or a descriptor
// such as "@every 5m" and runs it once immediately. The returned cron is
// already started; callers stop it on shutdown.
func (j *StatsSnapshot) Start(spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, j.tick)
	if err != nil {
		return nil, err
	}
	log.Printf("stats-snapshot: scheduled (%s)", spec)
	go j.tick()
	c.Start()
	return c, nil
}

func (j *StatsSnapshot) tick() {
	snap, err := j.Run(context.Background())
	if errors.Is(err, stats.ErrStaleSnapshot) {
		log.Printf("stats-snapshot: superseded by a write, next run will store it")
		return
	}
	if err != nil {
		log.Printf("stats-snapshot: failed: %v", err)
		return
	}
	log.Printf("stats-snapshot: %d users, %d spaces, %d bookings", snap.TotalUsers, snap.TotalSpaces, snap.TotalBookings)
}
