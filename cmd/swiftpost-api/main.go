// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"swiftpost/internal/config"
	httptransport "swiftpost/internal/http"
	"swiftpost/internal/http/handlers"
	"swiftpost/internal/infra"
	"swiftpost/internal/maps"
	"swiftpost/internal/modules/fleet"
	"swiftpost/internal/modules/order"
	"swiftpost/internal/modules/pricing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	cacheTTL := time.Duration(cfg.Pricing.ConfigCacheSeconds) * time.Second
	pricingStore := pricing.NewStore(dbPool, redisClient, cacheTTL)
	pricingSvc := pricing.NewService(pricingStore)

	orderStore := order.NewStore(dbPool)
	orderSvc := order.NewService(orderStore, pricingSvc)

	fleetStore := fleet.NewStore(dbPool, redisClient)
	fleetSvc := fleet.NewService(fleetStore)

	var distance handlers.DistanceLookup
	if cfg.Maps.APIKey != "" {
		svc, err := maps.NewDistanceService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatalf("maps init: %v", err)
		}
		distance = svc
	} else {
		log.Println("GOOGLE_MAPS_API_KEY not set; distance lookup disabled, manual entry only")
	}

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Pricing:  pricingSvc,
		Settings: pricingStore,
		Orders:   orderSvc,
		Fleet:    fleetSvc,
		Distance: distance,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
