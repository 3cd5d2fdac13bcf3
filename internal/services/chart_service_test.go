package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Collins-II/loudear-music-sub000/internal/models"
	"github.com/Collins-II/loudear-music-sub000/internal/structures"
)

// 2025-09-10 sits in ISO week 2025-W37; the preceding week is 2025-W36.
var chartNow = time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC)

func chartConfig(policy string) *structures.Config {
	return &structures.Config{
		Charts: structures.ChartsConfig{
			RefreshInterval:    60,
			TrendingWindowDays: 14,
			HistoryWeeks:       12,
			WeeksOnPolicy:      policy,
		},
	}
}

type chartFixture struct {
	service  *ChartService
	registry *models.Registry
	store    *models.ChartStore
}

func newChartFixture(t *testing.T, policy string) *chartFixture {
	t.Helper()
	registry := models.NewRegistry()
	store := models.NewChartStore()
	trending := NewTrendingService(registry)
	service := NewChartService(chartConfig(policy), registry, store, trending).(*ChartService)
	service.nowFn = func() time.Time { return chartNow }
	return &chartFixture{service: service, registry: registry, store: store}
}

func (f *chartFixture) put(t *testing.T, id string, views int) {
	t.Helper()
	putItem(t, f.registry, models.CategorySongs, id, chartNow.AddDate(0, 0, -1), models.CountSet{Views: views})
}

func TestGetOrCreate_PositionsAreContiguousPermutation(t *testing.T) {
	f := newChartFixture(t, WeeksOnConsecutive)
	f.put(t, "a", 30)
	f.put(t, "b", 20)
	f.put(t, "c", 10)
	f.put(t, "d", 40)

	snap, err := f.service.GetOrCreate(models.CategorySongs, "")
	require.NoError(t, err)
	require.Len(t, snap.Items, 4)

	seen := make(map[int]bool)
	for _, entry := range snap.Items {
		assert.False(t, seen[entry.Position], "duplicate position %d", entry.Position)
		seen[entry.Position] = true
		assert.GreaterOrEqual(t, entry.Position, 1)
		assert.LessOrEqual(t, entry.Position, len(snap.Items))
	}
	assert.Equal(t, "d", snap.Items[0].ItemID)
}

func TestGetOrCreate_FirstAppearanceDefaults(t *testing.T) {
	f := newChartFixture(t, WeeksOnConsecutive)
	f.put(t, "a", 10)

	snap, err := f.service.GetOrCreate(models.CategorySongs, "")
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 1, snap.Items[0].Peak)
	assert.Equal(t, 1, snap.Items[0].WeeksOn)
}

func TestGetOrCreate_EmptyCatalog(t *testing.T) {
	f := newChartFixture(t, WeeksOnConsecutive)

	snap, err := f.service.GetOrCreate(models.CategorySongs, "")
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
}

func TestGetOrCreate_UnknownCategory(t *testing.T) {
	f := newChartFixture(t, WeeksOnConsecutive)
	_, err := f.service.GetOrCreate("podcasts", "")
	assert.ErrorIs(t, err, models.ErrUnsupportedCategory)
}

func TestGetOrCreate_MalformedWeek(t *testing.T) {
	f := newChartFixture(t, WeeksOnConsecutive)
	_, err := f.service.GetOrCreate(models.CategorySongs, "2025-37")
	assert.Error(t, err)
}

func TestGetOrCreate_PastWeekIsImmutable(t *testing.T) {
	f := newChartFixture(t, WeeksOnConsecutive)
	f.put(t, "a", 10)

	stored := &models.ChartSnapshot{
		Week:     "2025-W30",
		Category: models.CategorySongs,
		Items:    []models.ChartEntry{{ItemID: "z", Position: 1, Peak: 1, WeeksOn: 7}},
	}
	f.store.Put(stored)

	snap, err := f.service.GetOrCreate(models.CategorySongs, "2025-W30")
	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "z", snap.Items[0].ItemID)
	assert.Equal(t, 7, snap.Items[0].WeeksOn)
}

func TestGetOrCreate_PastWeekWithoutSnapshotIsEmpty(t *testing.T) {
	f := newChartFixture(t, WeeksOnConsecutive)
	f.put(t, "a", 10)

	snap, err := f.service.GetOrCreate(models.CategorySongs, "2025-W01")
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
}

func TestRefreshCurrent_WeeksOnIncrementsFromPrecedingWeek(t *testing.T) {
	f := newChartFixture(t, WeeksOnConsecutive)
	f.put(t, "a", 10)
	f.put(t, "b", 20)

	f.store.Put(&models.ChartSnapshot{
		Week:     "2025-W36",
		Category: models.CategorySongs,
		Items:    []models.ChartEntry{{ItemID: "a", Position: 3, Peak: 2, WeeksOn: 4}},
	})

	snap, _, err := f.service.RefreshCurrent(models.CategorySongs)
	require.NoError(t, err)

	entryA, ok := snap.Entry("a")
	require.True(t, ok)
	assert.Equal(t, 2, entryA.Position)
	assert.Equal(t, 5, entryA.WeeksOn, "weeksOn increments by exactly 1 from the preceding week")
	assert.Equal(t, 2, entryA.Peak, "peak carries forward when better than the current position")

	entryB, ok := snap.Entry("b")
	require.True(t, ok)
	assert.Equal(t, 1, entryB.WeeksOn, "absent from the preceding week resets to 1")
}

func TestRefreshCurrent_WeeksOnResetsAfterGap(t *testing.T) {
	f := newChartFixture(t, WeeksOnConsecutive)
	f.put(t, "a", 10)

	// Charted two weeks ago, missed last week.
	f.store.Put(&models.ChartSnapshot{
		Week:     "2025-W35",
		Category: models.CategorySongs,
		Items:    []models.ChartEntry{{ItemID: "a", Position: 1, Peak: 1, WeeksOn: 9}},
	})

	snap, _, err := f.service.RefreshCurrent(models.CategorySongs)
	require.NoError(t, err)

	entry, _ := snap.Entry("a")
	assert.Equal(t, 1, entry.WeeksOn)
	assert.Equal(t, 1, entry.Peak, "peak still carries across the gap")
}

func TestRefreshCurrent_LifetimePolicyCountsAllAppearances(t *testing.T) {
	f := newChartFixture(t, WeeksOnLifetime)
	f.put(t, "a", 10)

	f.store.Put(&models.ChartSnapshot{
		Week:     "2025-W30",
		Category: models.CategorySongs,
		Items:    []models.ChartEntry{{ItemID: "a", Position: 1, Peak: 1, WeeksOn: 1}},
	})
	f.store.Put(&models.ChartSnapshot{
		Week:     "2025-W35",
		Category: models.CategorySongs,
		Items:    []models.ChartEntry{{ItemID: "a", Position: 2, Peak: 1, WeeksOn: 2}},
	})

	snap, _, err := f.service.RefreshCurrent(models.CategorySongs)
	require.NoError(t, err)

	entry, _ := snap.Entry("a")
	assert.Equal(t, 3, entry.WeeksOn)
}

func TestRefreshCurrent_PeakNeverWorseThanPosition(t *testing.T) {
	f := newChartFixture(t, WeeksOnConsecutive)
	f.put(t, "a", 30)
	f.put(t, "b", 20)
	f.put(t, "c", 10)

	f.store.Put(&models.ChartSnapshot{
		Week:     "2025-W36",
		Category: models.CategorySongs,
		Items:    []models.ChartEntry{{ItemID: "c", Position: 1, Peak: 1, WeeksOn: 1}},
	})

	snap, _, err := f.service.RefreshCurrent(models.CategorySongs)
	require.NoError(t, err)

	for _, entry := range snap.Items {
		assert.LessOrEqual(t, entry.Peak, entry.Position)
	}
	entryC, _ := snap.Entry("c")
	assert.Equal(t, 3, entryC.Position)
	assert.Equal(t, 1, entryC.Peak)
}

func TestRefreshCurrent_ReportsPositionChanges(t *testing.T) {
	f := newChartFixture(t, WeeksOnConsecutive)
	f.put(t, "a", 20)
	f.put(t, "b", 10)

	_, changes, err := f.service.RefreshCurrent(models.CategorySongs)
	require.NoError(t, err)
	assert.Len(t, changes, 2, "first revision reports every position")

	// No interactions in between: nothing moved.
	_, changes, err = f.service.RefreshCurrent(models.CategorySongs)
	require.NoError(t, err)
	assert.Empty(t, changes)

	// b overtakes a.
	catalog, _ := f.registry.Catalog(models.CategorySongs)
	for i := 0; i < 20; i++ {
		catalog.IncView("b")
	}
	_, changes, err = f.service.RefreshCurrent(models.CategorySongs)
	require.NoError(t, err)
	assert.Len(t, changes, 2)
}

func TestRefreshCurrent_PersistsSnapshot(t *testing.T) {
	f := newChartFixture(t, WeeksOnConsecutive)
	f.put(t, "a", 10)

	_, _, err := f.service.RefreshCurrent(models.CategorySongs)
	require.NoError(t, err)

	stored, ok := f.store.Get(models.CategorySongs, "2025-W37")
	require.True(t, ok)
	assert.Len(t, stored.Items, 1)
}

func TestHistory_MostRecentFirst(t *testing.T) {
	f := newChartFixture(t, WeeksOnConsecutive)
	f.put(t, "a", 10)

	f.store.Put(&models.ChartSnapshot{
		Week:     "2025-W35",
		Category: models.CategorySongs,
		Items:    []models.ChartEntry{{ItemID: "a", Position: 5, Peak: 3, WeeksOn: 1}},
	})
	f.store.Put(&models.ChartSnapshot{
		Week:     "2025-W36",
		Category: models.CategorySongs,
		Items:    []models.ChartEntry{{ItemID: "a", Position: 3, Peak: 3, WeeksOn: 2}},
	})

	history, err := f.service.History("a", models.CategorySongs, 12)
	require.NoError(t, err)
	require.Len(t, history, 3)

	assert.Equal(t, "2025-W37", history[0].Week)
	assert.Equal(t, "2025-W36", history[1].Week)
	assert.Equal(t, "2025-W35", history[2].Week)
	assert.Equal(t, 3, history[1].Position)
}

func TestHistory_LimitCapsScannedWeeks(t *testing.T) {
	f := newChartFixture(t, WeeksOnConsecutive)
	f.put(t, "a", 10)

	for _, week := range []string{"2025-W33", "2025-W34", "2025-W35", "2025-W36"} {
		f.store.Put(&models.ChartSnapshot{
			Week:     week,
			Category: models.CategorySongs,
			Items:    []models.ChartEntry{{ItemID: "a", Position: 1, Peak: 1, WeeksOn: 1}},
		})
	}

	history, err := f.service.History("a", models.CategorySongs, 2)
	require.NoError(t, err)
	assert.Len(t, history, 2)
	assert.Equal(t, "2025-W37", history[0].Week)
}

func TestHistory_ItemNeverCharted(t *testing.T) {
	f := newChartFixture(t, WeeksOnConsecutive)
	f.put(t, "a", 10)

	history, err := f.service.History("ghost", models.CategorySongs, 12)
	require.NoError(t, err)
	assert.Empty(t, history)
}
