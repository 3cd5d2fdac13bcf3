package services

import (
	"fmt"

	"github.com/Collins-II/loudear-music-sub000/internal/models"
	"github.com/Collins-II/loudear-music-sub000/internal/structures"
)

// ItemView is the metadata block of a composed response. The raw like
// set never leaves the store boundary; counters travel as a CountSet.
type ItemView struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Artist      string   `json:"artist"`
	Genre       string   `json:"genre,omitempty"`
	DurationSec int      `json:"duration_sec,omitempty"`
	AlbumID     string   `json:"album_id,omitempty"`
	TrackIDs    []string `json:"track_ids,omitempty"`
	CreatedAt   string   `json:"created_at"`
}

// ComposedView denormalizes one item: metadata, live counters, current
// trending rank, current chart position, and recent chart history.
type ComposedView struct {
	Item             ItemView        `json:"item"`
	Counts           models.CountSet `json:"counts"`
	TrendingPosition *int            `json:"trendingPosition"`
	TrendingScore    *float64        `json:"trendingScore"`
	ChartPosition    *int            `json:"chartPosition"`
	ChartHistory     []HistoryEntry  `json:"chartHistory"`
}

type ComposeServiceInterface interface {
	Compose(category, itemID string) (*ComposedView, error)
}

// ComposeService runs multiple full-catalog scans per call. That is the
// accepted cost model here; the controller caches composed responses.
type ComposeService struct {
	conf     *structures.Config
	registry *models.Registry
	trending TrendingServiceInterface
	charts   ChartServiceInterface
}

func NewComposeService(conf *structures.Config, registry *models.Registry, trending TrendingServiceInterface, charts ChartServiceInterface) ComposeServiceInterface {
	return &ComposeService{
		conf:     conf,
		registry: registry,
		trending: trending,
		charts:   charts,
	}
}

func (cps *ComposeService) Compose(category, itemID string) (*ComposedView, error) {
	catalog, ok := cps.registry.Catalog(category)
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedCategory, category)
	}

	item, ok := catalog.Get(itemID)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", models.ErrNotFound, category, itemID)
	}

	view := &ComposedView{
		Item: ItemView{
			ID:          item.ID,
			Title:       item.Title,
			Artist:      item.Artist,
			Genre:       item.Genre,
			DurationSec: item.DurationSec,
			AlbumID:     item.AlbumID,
			TrackIDs:    item.TrackIDs,
			CreatedAt:   item.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		},
		Counts:       item.Counts(),
		ChartHistory: []HistoryEntry{},
	}

	ranked, err := cps.trending.Rank(category, cps.conf.Charts.TrendingWindowDays, 0)
	if err != nil {
		return nil, err
	}
	for i, row := range ranked {
		if row.ItemID == itemID {
			position := i + 1
			score := row.Score
			view.TrendingPosition = &position
			view.TrendingScore = &score
			break
		}
	}

	snap, err := cps.charts.GetOrCreate(category, "")
	if err != nil {
		return nil, err
	}
	if entry, ok := snap.Entry(itemID); ok {
		position := entry.Position
		view.ChartPosition = &position
	}

	history, err := cps.charts.History(itemID, category, cps.conf.Charts.HistoryWeeks)
	if err != nil {
		return nil, err
	}
	view.ChartHistory = history

	return view, nil
}
