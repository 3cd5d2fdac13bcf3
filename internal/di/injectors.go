//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"

	"github.com/Collins-II/loudear-music-sub000/internal"
	"github.com/Collins-II/loudear-music-sub000/internal/controllers"
	"github.com/Collins-II/loudear-music-sub000/internal/models"
	"github.com/Collins-II/loudear-music-sub000/internal/persistence"
	"github.com/Collins-II/loudear-music-sub000/internal/providers"
	"github.com/Collins-II/loudear-music-sub000/internal/realtime"
	"github.com/Collins-II/loudear-music-sub000/internal/services"
	"github.com/Collins-II/loudear-music-sub000/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewMetricsProvider,

		models.NewRegistry,
		models.NewChartStore,

		realtime.NewBroadcaster,

		services.NewDirtyFlags,
		services.NewTrendingService,
		services.NewChartService,
		services.NewInteractionService,
		services.NewComposeService,

		persistence.NewZstdCompressor,
		persistence.NewFileManager,
		persistence.NewScheduler,

		controllers.NewApiController,
		controllers.NewRealtimeController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
