package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"solar-estimator/internal/api/handlers"
	"solar-estimator/internal/api/middleware"
	"solar-estimator/internal/climate"
	"solar-estimator/internal/config"
	"solar-estimator/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	config.LoadDotEnv()

	rt, err := config.ResolveRuntime()
	if err != nil {
		log.Fatalf("Invalid environment: %v", err)
	}

	params, err := config.LoadParams(rt.ParamsFile)
	if err != nil {
		log.Fatalf("Failed to load cost parameters: %v", err)
	}
	if rt.ParamsFile != "" {
		log.Printf("Cost parameters loaded from %s", rt.ParamsFile)
	}

	if wd, err := os.Getwd(); err == nil {
		log.Printf("Working directory: %s", wd)
	}
	log.Printf("Climate cache directory: %s (ttl %s)", rt.CacheDir, rt.CacheTTL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	// Live services behind disk and in-process caches.
	provider := climate.NewPipeline(climate.PipelineConfig{
		NominatimURL:       rt.NominatimURL,
		NominatimUserAgent: rt.NominatimUserAgent,
		NASAPowerURL:       rt.NASAPowerURL,
		HTTPTimeout:        rt.HTTPTimeout,
		Retry:              climate.DefaultRetry,
		RateLimit:          climate.DefaultRateLimit,
		CacheDir:           rt.CacheDir,
		CacheTTL:           rt.CacheTTL,
		Memory:             climate.NewMemoryCache(ctx, time.Hour, 10*time.Minute),
		Metrics:            metrics.ClimateRecorder{},
	})

	// Set up Gin router
	if rt.APIEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply middleware
	router.Use(middleware.CORS(corsOrigins()...))
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	// Initialize handlers
	simulationHandler := handlers.NewSimulationHandler(provider, params)
	climateHandler := handlers.NewClimateHandler(provider)
	rankHandler := handlers.NewRankHandler(provider, params)
	catalogHandler := handlers.NewCatalogHandler(params, rt.PlacesFile)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api/v1")
	{
		api.POST("/simulate", simulationHandler.Simulate)
		api.POST("/simulate/compare", simulationHandler.Compare)
		api.POST("/report", simulationHandler.Report)

		api.GET("/climate", climateHandler.GetClimate)
		api.GET("/rank", rankHandler.RankPlaces)

		api.GET("/defaults", catalogHandler.Defaults)
		api.GET("/places", catalogHandler.ListPlaces)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})

	// Start server
	srv := &http.Server{Addr: fmt.Sprintf(":%s", rt.APIPort), Handler: router}
	log.Printf("Starting API server on %s", srv.Addr)
	if err := serve(ctx, srv, shutdownTimeout); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Printf("Server stopped")
}

const shutdownTimeout = 10 * time.Second

// serve runs srv until it fails or ctx ends, then drains in-flight requests
// for up to grace.
func serve(ctx context.Context, srv *http.Server, grace time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// corsOrigins reads a comma-separated CORS_ORIGINS; empty allows any origin.
func corsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return nil
	}
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
