// Package main is the entry point for the RateMyRA API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/ratemyra/api/internal/api"
	"github.com/ratemyra/api/internal/auth"
	"github.com/ratemyra/api/internal/cache"
	"github.com/ratemyra/api/internal/config"
	"github.com/ratemyra/api/internal/db"
	"github.com/ratemyra/api/internal/health"
	"github.com/ratemyra/api/internal/middleware"
	"github.com/ratemyra/api/internal/profanity"
	"github.com/ratemyra/api/internal/review"
	"github.com/ratemyra/api/internal/roster"
	"github.com/ratemyra/api/internal/school"
)

func main() {
	help := flag.Bool("help", false, "display help message")
	configPath := flag.String("config", "", "path to YAML config file (env vars take precedence)")
	flag.Parse()

	if *help {
		fmt.Println("RateMyRA API Server")
		fmt.Println()
		fmt.Println("Usage: api [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configPath)
	if len(errs) > 0 {
		for _, err := range errs {
			slog.Error("configuration error", "error", err)
		}
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	summary := cfg.LogSummary()
	attrs := make([]any, 0, len(summary)*2)
	for k, v := range summary {
		attrs = append(attrs, k, v)
	}
	logger.Info("configuration loaded", attrs...)

	ctx := context.Background()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	schoolRepo := school.NewPostgresRepository(database)
	rosterRepo := roster.NewPostgresRepository(database)
	reviewRepo := review.NewPostgresRepository(database)

	// Metrics registry with process and Go runtime collectors.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics()
	if err := metrics.Register(registry); err != nil {
		logger.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	// Redis is optional: without it summaries are computed per request
	// and rate limiting falls back to per-process counters.
	var (
		redisClient  *redis.Client
		summaryCache *cache.SummaryCache
		limitStore   middleware.RateLimitStore
	)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("invalid redis URL", "error", err)
			os.Exit(1)
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()

		summaryCache = cache.NewSummaryCache(redisClient, time.Duration(cfg.CacheTTLSeconds)*time.Second)
		limitStore = middleware.NewRedisRateLimitStore(redisClient).WithMetrics(metrics)
	} else {
		logger.Warn("redis not configured, using in-process rate limiting and no summary cache")
		memStore := middleware.NewInMemoryRateLimitStore()
		limitStore = memStore

		go func() {
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for range ticker.C {
				memStore.Cleanup()
			}
		}()
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret)
	detector := profanity.DefaultDetector()

	schoolHandlers := api.NewSchoolHandlers(schoolRepo)
	rosterHandlers := api.NewRosterHandlers(rosterRepo, schoolRepo, reviewRepo, summaryCache)
	reviewHandlers := api.NewReviewHandlers(reviewRepo, rosterRepo, detector, summaryCache)
	searchHandlers := api.NewSearchHandlers(rosterRepo, schoolRepo, reviewRepo)
	adminHandlers := api.NewAdminHandlers(reviewRepo, summaryCache)

	checkers := map[string]api.HealthChecker{
		"database": health.NewDBChecker(database),
	}
	if redisClient != nil {
		checkers["redis"] = health.NewRedisChecker(redisClient)
	}
	healthHandlers := api.NewHealthHandlers(checkers)

	globalLimit := middleware.DefaultGlobalLimit()
	if cfg.RateLimitPerMinute > 0 {
		globalLimit.RequestsPerWindow = cfg.RateLimitPerMinute
	}
	submitLimiter := middleware.RateLimiter(limitStore, middleware.DefaultSubmitLimit(), middleware.IPKeyFunc(), metrics)
	searchLimiter := middleware.RateLimiter(limitStore, middleware.DefaultSearchLimit(), middleware.IPKeyFunc(), metrics)
	adminOnly := middleware.RequireAdmin(jwtService)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandlers.Liveness)
	mux.HandleFunc("GET /health/ready", healthHandlers.Readiness)
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /schools", schoolHandlers.CreateSchool)
	mux.Handle("GET /schools/search", searchLimiter(http.HandlerFunc(schoolHandlers.SearchSchools)))
	mux.HandleFunc("GET /schools/{id}", schoolHandlers.GetSchool)

	mux.Handle("POST /schools/{id}/roster", submitLimiter(http.HandlerFunc(rosterHandlers.CreateEntity)))
	mux.HandleFunc("GET /schools/{id}/roster", rosterHandlers.ListRoster)
	mux.Handle("GET /schools/{id}/roster/search", searchLimiter(http.HandlerFunc(searchHandlers.SearchRoster)))

	mux.HandleFunc("GET /roster/{id}", rosterHandlers.GetEntity)
	mux.Handle("PUT /roster/{id}", adminOnly(http.HandlerFunc(rosterHandlers.UpdateEntity)))
	mux.Handle("DELETE /roster/{id}", adminOnly(http.HandlerFunc(rosterHandlers.DeleteEntity)))

	mux.Handle("POST /roster/{id}/reviews", submitLimiter(http.HandlerFunc(reviewHandlers.SubmitReview)))
	mux.HandleFunc("GET /roster/{id}/reviews", reviewHandlers.ListReviews)
	mux.Handle("POST /reviews/{id}/vote", submitLimiter(http.HandlerFunc(reviewHandlers.VoteReview)))

	mux.Handle("GET /admin/reviews", adminOnly(http.HandlerFunc(adminHandlers.ListReviews)))
	mux.Handle("PUT /admin/reviews/{id}/status", adminOnly(http.HandlerFunc(adminHandlers.SetReviewStatus)))
	mux.Handle("DELETE /admin/reviews/{id}", adminOnly(http.HandlerFunc(adminHandlers.DeleteReview)))

	// Apply middleware: RequestID -> HTTPMetrics -> Logging -> CORS -> global rate limit
	var handler http.Handler = mux
	handler = middleware.RateLimiter(limitStore, globalLimit, middleware.IPKeyFunc(), metrics)(handler)
	handler = middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		MaxAge:           300,
	})(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.HTTPMetrics(metrics)(handler)
	handler = middleware.RequestID(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
