package services

import (
	"fmt"
	"time"

	"github.com/Collins-II/loudear-music-sub000/internal/models"
	"github.com/Collins-II/loudear-music-sub000/internal/structures"
)

const (
	WeeksOnConsecutive = "consecutive"
	WeeksOnLifetime    = "lifetime"
)

// HistoryEntry is one week of an item's chart record, most recent first
// in History results.
type HistoryEntry struct {
	Week     string `json:"week"`
	Position int    `json:"position"`
	Peak     int    `json:"peak"`
	WeeksOn  int    `json:"weeksOn"`
}

// PositionChange reports an item whose rank moved during a refresh.
type PositionChange struct {
	ItemID string
	NewPos int
}

type ChartServiceInterface interface {
	GetOrCreate(category, week string) (*models.ChartSnapshot, error)
	History(itemID, category string, limit int) ([]HistoryEntry, error)
	RefreshCurrent(category string) (*models.ChartSnapshot, []PositionChange, error)
}

// ChartService materializes weekly chart snapshots from the trending
// scorer and derives peak/weeks-on-chart from stored history. The
// current week is recomputed on demand; past weeks are read-only.
type ChartService struct {
	conf     *structures.Config
	registry *models.Registry
	store    *models.ChartStore
	trending TrendingServiceInterface
	nowFn    func() time.Time
}

func NewChartService(conf *structures.Config, registry *models.Registry, store *models.ChartStore, trending TrendingServiceInterface) ChartServiceInterface {
	return &ChartService{
		conf:     conf,
		registry: registry,
		store:    store,
		trending: trending,
		nowFn:    time.Now,
	}
}

// GetOrCreate returns the snapshot for (category, week). An empty week
// means the current week. The current week is always recomputed from
// live counters; a past week returns stored history unchanged, or an
// empty snapshot when none was ever materialized.
func (cs *ChartService) GetOrCreate(category, week string) (*models.ChartSnapshot, error) {
	if _, ok := cs.registry.Catalog(category); !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedCategory, category)
	}

	current := models.WeekKey(cs.nowFn())
	if week == "" {
		week = current
	} else if _, _, err := models.ParseWeekKey(week); err != nil {
		return nil, err
	}

	if week == current {
		snap, _, err := cs.RefreshCurrent(category)
		return snap, err
	}

	if snap, ok := cs.store.Get(category, week); ok {
		return snap, nil
	}
	return &models.ChartSnapshot{Week: week, Category: category, Items: []models.ChartEntry{}}, nil
}

// RefreshCurrent recomputes the current week's snapshot from the full
// catalog, persists it, and reports which items changed position since
// the previously stored revision. Two concurrent refreshes race benignly:
// the later Put wins and ranks are at most one recompute stale.
func (cs *ChartService) RefreshCurrent(category string) (*models.ChartSnapshot, []PositionChange, error) {
	if _, ok := cs.registry.Catalog(category); !ok {
		return nil, nil, fmt.Errorf("%w: %q", models.ErrUnsupportedCategory, category)
	}

	week := models.WeekKey(cs.nowFn())
	ranked, err := cs.trending.Rank(category, 0, 0)
	if err != nil {
		return nil, nil, err
	}

	prevRevision, _ := cs.store.Get(category, week)
	prevWeekKey, err := models.PreviousWeekKey(week)
	if err != nil {
		return nil, nil, err
	}
	prevWeek, hasPrevWeek := cs.store.Get(category, prevWeekKey)

	snap := &models.ChartSnapshot{
		Week:       week,
		Category:   category,
		Items:      make([]models.ChartEntry, 0, len(ranked)),
		ComputedAt: cs.nowFn(),
	}

	var changes []PositionChange
	for i, row := range ranked {
		position := i + 1

		peak := position
		if priorPeak, ok := cs.lastPeak(category, week, row.ItemID); ok && priorPeak < peak {
			peak = priorPeak
		}

		weeksOn := 1
		switch cs.conf.Charts.WeeksOnPolicy {
		case WeeksOnLifetime:
			weeksOn = cs.appearances(category, week, row.ItemID) + 1
		default:
			if hasPrevWeek {
				if entry, ok := prevWeek.Entry(row.ItemID); ok {
					weeksOn = entry.WeeksOn + 1
				}
			}
		}

		snap.Items = append(snap.Items, models.ChartEntry{
			ItemID:   row.ItemID,
			Position: position,
			Peak:     peak,
			WeeksOn:  weeksOn,
		})

		if prevRevision == nil {
			changes = append(changes, PositionChange{ItemID: row.ItemID, NewPos: position})
		} else if entry, ok := prevRevision.Entry(row.ItemID); !ok || entry.Position != position {
			changes = append(changes, PositionChange{ItemID: row.ItemID, NewPos: position})
		}
	}

	cs.store.Put(snap)
	return snap, changes, nil
}

// lastPeak finds the peak recorded at the item's most recent appearance
// in any week before the given one.
func (cs *ChartService) lastPeak(category, beforeWeek, itemID string) (int, bool) {
	for _, week := range cs.store.Weeks(category) {
		if week >= beforeWeek {
			continue
		}
		snap, ok := cs.store.Get(category, week)
		if !ok {
			continue
		}
		if entry, ok := snap.Entry(itemID); ok {
			return entry.Peak, true
		}
	}
	return 0, false
}

// appearances counts stored snapshots before the given week in which
// the item charted (lifetime weeks-on policy).
func (cs *ChartService) appearances(category, beforeWeek, itemID string) int {
	count := 0
	for _, week := range cs.store.Weeks(category) {
		if week >= beforeWeek {
			continue
		}
		snap, ok := cs.store.Get(category, week)
		if !ok {
			continue
		}
		if _, ok := snap.Entry(itemID); ok {
			count++
		}
	}
	return count
}

// History projects the item's per-week chart entries across the most
// recent limit stored weeks, most recent first. The current week is
// refreshed before scanning so history always includes live ranks.
func (cs *ChartService) History(itemID, category string, limit int) ([]HistoryEntry, error) {
	if _, ok := cs.registry.Catalog(category); !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedCategory, category)
	}
	if limit <= 0 {
		limit = cs.conf.Charts.HistoryWeeks
	}

	if _, _, err := cs.RefreshCurrent(category); err != nil {
		return nil, err
	}

	history := make([]HistoryEntry, 0, limit)
	for i, week := range cs.store.Weeks(category) {
		if i >= limit {
			break
		}
		snap, ok := cs.store.Get(category, week)
		if !ok {
			continue
		}
		if entry, ok := snap.Entry(itemID); ok {
			history = append(history, HistoryEntry{
				Week:     week,
				Position: entry.Position,
				Peak:     entry.Peak,
				WeeksOn:  entry.WeeksOn,
			})
		}
	}
	return history, nil
}
