package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/Collins-II/loudear-music-sub000/internal/models"
)

// Score weights. These define observable ranking output and are fixed;
// tuning them invalidates historical comparability of charts.
const (
	weightView     = 1.0
	weightLike     = 2.0
	weightShare    = 3.0
	weightDownload = 1.5
)

// RankedItem is one row of a trending listing.
type RankedItem struct {
	ItemID string  `json:"itemId"`
	Score  float64 `json:"score"`
}

type TrendingServiceInterface interface {
	Rank(category string, lookbackDays, limit int) ([]RankedItem, error)
}

// TrendingService is a pure full-rescan scorer: no incremental index,
// cost O(items in window) per call. Acceptable at catalog sizes this
// platform serves; front with the cache provider for hot listings.
type TrendingService struct {
	registry *models.Registry
	nowFn    func() time.Time
}

func NewTrendingService(registry *models.Registry) TrendingServiceInterface {
	return &TrendingService{registry: registry, nowFn: time.Now}
}

// Score computes the weighted interaction score for one counter set.
func Score(c models.CountSet) float64 {
	return float64(c.Views)*weightView +
		float64(c.Likes)*weightLike +
		float64(c.Shares)*weightShare +
		float64(c.Downloads)*weightDownload
}

// Rank scores all items of category created within the last
// lookbackDays and returns them ordered best-first. lookbackDays <= 0
// ranks the full catalog (weekly charts), limit <= 0 returns all rows.
// Equal scores order by item id ascending so the result is
// deterministic regardless of store iteration order.
func (ts *TrendingService) Rank(category string, lookbackDays, limit int) ([]RankedItem, error) {
	catalog, ok := ts.registry.Catalog(category)
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedCategory, category)
	}

	var since time.Time
	if lookbackDays > 0 {
		since = ts.nowFn().AddDate(0, 0, -lookbackDays)
	}

	stats := catalog.Stats(since)
	ranked := make([]RankedItem, 0, len(stats))
	for _, s := range stats {
		ranked = append(ranked, RankedItem{ItemID: s.ID, Score: Score(s.Counts)})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ItemID < ranked[j].ItemID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
