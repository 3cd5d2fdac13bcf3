package realtime

import (
	"github.com/Collins-II/loudear-music-sub000/internal/models"
)

const (
	EventInteractionUpdate    = "interaction:update"
	EventChartsUpdateCategory = "charts:update:category"
	EventChartsUpdateItem     = "charts:update:item"
)

// Event is the envelope written to subscribers. Data is marshaled once
// per publish and fanned out to every room member.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

// InteractionUpdate is sent to an item's room after every successful
// interaction, carrying the resulting counters.
type InteractionUpdate struct {
	ItemID string          `json:"itemId"`
	Model  string          `json:"model"`
	Type   string          `json:"type"`
	Counts models.CountSet `json:"counts"`
}

// ChartsUpdateCategory carries the full re-ranked list for a category.
// Comparatively expensive; only published after a snapshot recompute.
type ChartsUpdateCategory struct {
	Category string              `json:"category"`
	Items    []models.ChartEntry `json:"items"`
}

// ChartsUpdateItem notifies an item's room of its new chart position.
type ChartsUpdateItem struct {
	ID     string `json:"id"`
	NewPos int    `json:"newPos"`
}

// ItemRoom names the per-item topic.
func ItemRoom(category, itemID string) string {
	return category + ":" + itemID
}
