package internal

import (
	"net/http"

	"github.com/Collins-II/loudear-music-sub000/internal/controllers"
	"github.com/Collins-II/loudear-music-sub000/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController, realtimeController *controllers.RealtimeController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Post("/interactions", http.HandlerFunc(apiController.ReceiveInteraction))
	routers.Put("/items", http.HandlerFunc(apiController.RegisterItem))
	routers.Get("/items", http.HandlerFunc(apiController.GetItem))
	routers.Get("/trending", http.HandlerFunc(apiController.GetTrending))
	routers.Get("/charts", http.HandlerFunc(apiController.GetCharts))
	routers.Get("/charts/history", http.HandlerFunc(apiController.GetChartHistory))
	routers.Get("/realtime", http.HandlerFunc(realtimeController.Subscribe))
	return routers
}
