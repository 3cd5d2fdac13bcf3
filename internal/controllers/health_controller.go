package controllers

import (
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/Collins-II/loudear-music-sub000/internal/models"
	"github.com/Collins-II/loudear-music-sub000/internal/realtime"
)

type HealthController struct {
	registry  *models.Registry
	charts    *models.ChartStore
	hub       realtime.BroadcasterInterface
	startTime time.Time
}

type healthResponse struct {
	Status          string         `json:"status"`
	Uptime          string         `json:"uptime"`
	UptimeSeconds   float64        `json:"uptime_seconds"`
	CatalogItems    map[string]int `json:"catalog_items"`
	ChartSnapshots  int            `json:"chart_snapshots"`
	RealtimeClients int            `json:"realtime_clients"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	items := make(map[string]int)
	for _, category := range hc.registry.Categories() {
		if catalog, ok := hc.registry.Catalog(category); ok {
			items[category] = catalog.Len()
		}
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:          "ok",
		Uptime:          formatDuration(uptime),
		UptimeSeconds:   uptime.Seconds(),
		CatalogItems:    items,
		ChartSnapshots:  hc.charts.Len(),
		RealtimeClients: hc.hub.ClientCount(),
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func NewHealthController(registry *models.Registry, charts *models.ChartStore, hub realtime.BroadcasterInterface) *HealthController {
	return &HealthController{
		registry:  registry,
		charts:    charts,
		hub:       hub,
		startTime: time.Now(),
	}
}
