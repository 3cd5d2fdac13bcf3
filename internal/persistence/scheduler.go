package persistence

import (
	"sync"
	"time"

	"github.com/roylee0704/gron"

	"github.com/Collins-II/loudear-music-sub000/internal/models"
	"github.com/Collins-II/loudear-music-sub000/internal/persistence/interfaces"
	"github.com/Collins-II/loudear-music-sub000/internal/providers"
	"github.com/Collins-II/loudear-music-sub000/internal/realtime"
	"github.com/Collins-II/loudear-music-sub000/internal/services"
	"github.com/Collins-II/loudear-music-sub000/internal/structures"
)

// Scheduler owns the two periodic jobs: persisting state to disk and
// refreshing charts for dirty categories. Chart-wide broadcasts are
// emitted only here, never per interaction — that is the rate limit on
// the expensive charts:update fan-out.
type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	registry    *models.Registry
	charts      services.ChartServiceInterface
	dirty       *services.DirtyFlags
	publisher   realtime.BroadcasterInterface
	fileManager *FileManager
	cron        *gron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	saveInterval := s.config.Persistence.SaveInterval
	refreshInterval := s.config.Charts.RefreshInterval

	s.cron.AddFunc(gron.Every(saveInterval*time.Second), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		start := time.Now()
		err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
		if err != nil {
			s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
			return
		}
		s.metrics.ObservePersistenceDuration(time.Since(start))
		s.updateCatalogGauges()
		s.logger.Infof(providers.TypeApp, "Persisted data to file %s", s.config.Persistence.FilePath)
	})

	s.cron.AddFunc(gron.Every(refreshInterval*time.Second), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()
		s.refreshDirtyCharts()
	})

	s.cron.Start()
}

func (s *Scheduler) refreshDirtyCharts() {
	for _, category := range s.registry.Categories() {
		if !s.dirty.TestAndClear(category) {
			continue
		}

		snap, changes, err := s.charts.RefreshCurrent(category)
		if err != nil {
			s.logger.Errorf(providers.TypeApp, "Chart refresh failed for %s: %s", category, err)
			continue
		}
		s.metrics.IncSnapshotRecomputes(category)

		s.publisher.Publish(category, realtime.Event{
			Name: realtime.EventChartsUpdateCategory,
			Data: realtime.ChartsUpdateCategory{Category: category, Items: snap.Items},
		})
		for _, change := range changes {
			s.publisher.Publish(realtime.ItemRoom(category, change.ItemID), realtime.Event{
				Name: realtime.EventChartsUpdateItem,
				Data: realtime.ChartsUpdateItem{ID: change.ItemID, NewPos: change.NewPos},
			})
		}

		s.logger.Infof(providers.TypeApp, "Refreshed %s chart: %d ranked, %d moved", category, len(snap.Items), len(changes))
	}
}

func (s *Scheduler) updateCatalogGauges() {
	for _, category := range s.registry.Categories() {
		if catalog, ok := s.registry.Catalog(category); ok {
			s.metrics.SetCatalogSize(category, catalog.Len())
		}
	}
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	err := s.fileManager.LoadFromFile(s.config.Persistence.FilePath)
	if err != nil {
		return err
	}
	s.updateCatalogGauges()
	return nil
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeApp, "Persisting catalogs and charts to file...")
	err := s.fileManager.SaveToFile(s.config.Persistence.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, registry *models.Registry, charts services.ChartServiceInterface, dirty *services.DirtyFlags, publisher realtime.BroadcasterInterface, fileManager *FileManager) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		metrics:     metrics,
		registry:    registry,
		charts:      charts,
		dirty:       dirty,
		publisher:   publisher,
		fileManager: fileManager,
	}
}
