package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adora-ads/adora-api/internal/model"
)

// SnapshotKey is the Redis key holding the latest Snapshot.
const SnapshotKey = "adora:admin:stats"

// GenerationKey counts invalidations. A snapshot is only stored when the
// counter still holds the value read before its figures were loaded.
const GenerationKey = "adora:admin:stats:gen"

// Source loads the collections Compute reduces.
type Source interface {
	Profiles(ctx context.Context) ([]model.Profile, error)
	Spaces(ctx context.Context) ([]model.AdvertisingSpace, error)
	Bookings(ctx context.Context) ([]model.Booking, error)
}

// Load fetches all three collections and reduces them.
func Load(ctx context.Context, src Source) (Summary, error) {
	profiles, err := src.Profiles(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load profiles: %w", err)
	}
	spaces, err := src.Spaces(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load spaces: %w", err)
	}
	bookings, err := src.Bookings(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load bookings: %w", err)
	}
	return Compute(profiles, spaces, bookings), nil
}

// Store keeps snapshots in Redis. A nil client makes every call a no-op so
// the API works without Redis.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore returns a Store whose entries expire after ttl.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// ErrNoSnapshot is returned by Get when nothing fresh is stored.
var ErrNoSnapshot = errors.New("no stats snapshot")

// ErrStaleSnapshot is returned by Save when an Invalidate ran after gen was
// read. The snapshot was computed from data that has since changed and is
// not stored.
var ErrStaleSnapshot = errors.New("stats snapshot superseded by a newer write")

// Generation returns the current invalidation counter. Read it before
// loading the figures and pass it to Save.
func (s *Store) Generation(ctx context.Context) (int64, error) {
	if s == nil || s.rdb == nil {
		return 0, nil
	}
	n, err := s.rdb.Get(ctx, GenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// Save writes snap under SnapshotKey if the generation is still gen.
func (s *Store) Save(ctx context.Context, gen int64, snap Snapshot) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	err = s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, GenerationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return ErrStaleSnapshot
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, SnapshotKey, b, s.ttl)
			return nil
		})
		return err
	}, GenerationKey)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrStaleSnapshot
	}
	return err
}

// Get returns the stored snapshot or ErrNoSnapshot.
func (s *Store) Get(ctx context.Context) (Snapshot, error) {
	if s == nil || s.rdb == nil {
		return Snapshot{}, ErrNoSnapshot
	}
	b, err := s.rdb.Get(ctx, SnapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, ErrNoSnapshot
		}
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Invalidate drops the stored snapshot after writes that change the counts
// and bumps the generation, so a computation already in flight cannot store
// its older figures.
func (s *Store) Invalidate(ctx context.Context) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenerationKey)
		pipe.Del(ctx, SnapshotKey)
		return nil
	})
	return err
}
