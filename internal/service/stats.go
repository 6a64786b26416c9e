package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/tedris-portal/internal/catalog"
	"github.com/iliyamo/tedris-portal/internal/repository"
)

const (
	// TopRegions is how many regions the snapshot ranks.
	TopRegions = 10
	// RecentWindow is the look-back for RecentRegistrations.
	RecentWindow = 7 * 24 * time.Hour
)

// StatsReader is the read-only aggregate surface of the store.
type StatsReader interface {
	CountUsers(ctx context.Context) (int64, error)
	CountByCategory(ctx context.Context) (map[string]int64, error)
	CountByRegion(ctx context.Context, topN int) ([]repository.RegionCount, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

// RegionCount is one ranked region in a Snapshot.
type RegionCount struct {
	Region string `json:"region"`
	Count  int64  `json:"count"`
}

// Snapshot is the admin dashboard payload. Each figure is read
// independently, so under concurrent registrations they may disagree by
// the rows inserted between reads.
type Snapshot struct {
	TotalUsers          int64            `json:"total_users"`
	ByCategory          map[string]int64 `json:"by_category"`
	ByRegion            map[string]int64 `json:"by_region"`
	TopRegions          []RegionCount    `json:"top_regions"`
	RecentRegistrations int64            `json:"recent_registrations"`
	GeneratedAt         time.Time        `json:"generated_at"`
}

// Stats builds dashboard snapshots. Now is replaceable in tests.
type Stats struct {
	Store StatsReader
	Log   *zap.Logger
	Now   func() time.Time
}

// NewStats returns a Stats on the wall clock; a nil log discards output.
func NewStats(store StatsReader, log *zap.Logger) *Stats {
	if log == nil {
		log = zap.NewNop()
	}
	return &Stats{Store: store, Log: log, Now: time.Now}
}

// Snapshot aggregates the user table. Every known category appears in
// ByCategory, zero when empty.
func (s *Stats) Snapshot(ctx context.Context) (Snapshot, error) {
	now := s.Now().UTC()
	snap := Snapshot{GeneratedAt: now}

	var err error
	if snap.TotalUsers, err = s.Store.CountUsers(ctx); err != nil {
		return Snapshot{}, s.fail("count users", err)
	}

	byCat, err := s.Store.CountByCategory(ctx)
	if err != nil {
		return Snapshot{}, s.fail("count by category", err)
	}
	snap.ByCategory = make(map[string]int64, len(byCat))
	for _, c := range catalog.Categories() {
		snap.ByCategory[c.Value] = 0
	}
	for k, v := range byCat {
		snap.ByCategory[k] = v
	}

	regions, err := s.Store.CountByRegion(ctx, TopRegions)
	if err != nil {
		return Snapshot{}, s.fail("count by region", err)
	}
	snap.ByRegion = make(map[string]int64, len(regions))
	snap.TopRegions = make([]RegionCount, 0, len(regions))
	for _, r := range regions {
		snap.ByRegion[r.Region] = r.Count
		snap.TopRegions = append(snap.TopRegions, RegionCount{Region: r.Region, Count: r.Count})
	}

	if snap.RecentRegistrations, err = s.Store.CountSince(ctx, now.Add(-RecentWindow)); err != nil {
		return Snapshot{}, s.fail("count recent", err)
	}
	return snap, nil
}

func (s *Stats) fail(step string, err error) error {
	s.Log.Error("stats query failed", zap.String("step", step), zap.Error(err))
	return ErrPersistence
}
