// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"swiftpost/internal/http/handlers"
	"swiftpost/internal/http/middleware"
	"swiftpost/internal/modules/fleet"
	"swiftpost/internal/modules/order"
	"swiftpost/internal/modules/pricing"
)

type RouterDeps struct {
	Pricing  *pricing.Service
	Settings handlers.PricingSettings
	Orders   *order.Service
	Fleet    *fleet.Service
	// Distance is nil when no Maps API key is configured; the route is
	// then not registered and clients enter distances manually.
	Distance handlers.DistanceLookup
}

func NewRouter(deps RouterDeps) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	quoteHandler := handlers.NewQuoteHandler(deps.Pricing)
	r.POST("/api/quotes", quoteHandler.Preview)

	orderHandler := handlers.NewOrderHandler(deps.Orders)
	r.POST("/api/orders", orderHandler.Create)
	r.GET("/api/orders/:id", orderHandler.Get)
	r.POST("/api/orders/:id/assign", orderHandler.Assign)
	r.POST("/api/orders/:id/pickup", orderHandler.Pickup)
	r.POST("/api/orders/:id/deliver", orderHandler.Deliver)
	r.POST("/api/orders/:id/release", orderHandler.Release)
	r.POST("/api/orders/:id/cancel", orderHandler.Cancel)

	driverHandler := handlers.NewDriverHandler(deps.Fleet, deps.Orders)
	r.PUT("/api/drivers/:id/location", driverHandler.UpdateLocation)
	r.GET("/api/drivers/:id/jobs", driverHandler.ListJobs)

	pricingHandler := handlers.NewPricingHandler(deps.Settings)
	r.GET("/api/admin/pricing", pricingHandler.GetConfig)
	r.PUT("/api/admin/pricing", pricingHandler.UpdateConfig)
	r.GET("/api/admin/drivers/nearby", driverHandler.Nearby)

	if deps.Distance != nil {
		distanceHandler := handlers.NewDistanceHandler(deps.Distance)
		r.POST("/api/distance", distanceHandler.Estimate)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
