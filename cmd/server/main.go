package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/laaraari2/theatre-management-system-sub001/internal/config"
	"github.com/laaraari2/theatre-management-system-sub001/internal/handler"
	"github.com/laaraari2/theatre-management-system-sub001/internal/middleware"
	"github.com/laaraari2/theatre-management-system-sub001/internal/months"
	"github.com/laaraari2/theatre-management-system-sub001/internal/repository"
	"github.com/laaraari2/theatre-management-system-sub001/internal/service"
	"github.com/laaraari2/theatre-management-system-sub001/pkg/db"
	"github.com/laaraari2/theatre-management-system-sub001/pkg/logger"
	"github.com/laaraari2/theatre-management-system-sub001/pkg/metrics"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.NewLogger(cfg.ServiceName)
	if envErr != nil {
		log.WithService().Warnf(".env file not found: %v", envErr)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(cfg.ServiceName, reg)

	var (
		store      months.Store
		activities repository.ActivityRepositoryInterface
		ping       handler.PingFunc
	)

	if cfg.CatalogStore != config.StoreMemory {
		connectCtx, connectCancel := context.WithTimeout(context.Background(), 2*time.Minute)
		sqlDB, err := db.Open(connectCtx, cfg.DB, log.WithComponent("db"))
		connectCancel()
		if err != nil {
			log.WithService().Fatalf("Failed to connect to database: %v", err)
		}
		defer sqlDB.Close()
		log.WithService().Info("Successfully connected to database")

		tables := []db.Table{repository.ActivitiesTable}
		if cfg.CatalogStore == config.StoreMySQL {
			tables = append(tables, repository.SettingsTable)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = db.NewSchemaGuard(sqlDB).CheckAll(ctx, tables)
		cancel()
		if err != nil {
			log.WithService().Fatalf("Database schema check failed: %v", err)
		}

		activities = repository.NewActivityRepository(sqlDB)
		store = repository.NewSettingsRepository(sqlDB)
		ping = sqlDB.PingContext

		go recordPoolStats(sqlDB, m)
	}

	switch cfg.CatalogStore {
	case config.StoreMySQL:
	case config.StoreRedis:
		client, err := newRedisClient(cfg.Redis)
		if err != nil {
			log.WithService().Fatalf("Failed to connect to Redis: %v", err)
		}
		defer client.Close()
		log.WithService().Info("Successfully connected to Redis")

		store = repository.NewRedisSettingsRepository(client)
		dbPing := ping
		ping = func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			return dbPing(ctx)
		}
	case config.StoreMemory:
		store = months.NewMemoryStore()
		activities = repository.NewMemoryActivityRepository(nil)
	default:
		log.WithService().Fatalf("Unknown CATALOG_STORE %q", cfg.CatalogStore)
	}

	catalog := months.NewCatalog(store, log.WithComponent("catalog"), months.WithFallbackCounter(m.CatalogFallbacks))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := catalog.EnsureDefaults(ctx); err != nil {
		cancel()
		log.WithService().Fatalf("Failed to load month catalog: %v", err)
	}
	cancel()

	calendarService := service.NewCalendarService(catalog, activities, m, log.WithComponent("service"))

	router := mux.NewRouter()
	router.Use(logger.HTTPMiddleware(log))
	router.Use(metrics.HTTPMiddleware(m, middleware.RouteName))

	handler.RegisterCalendarHandler(router, calendarService)
	handler.RegisterHealthHandler(router, cfg.ServiceName, catalog, ping)
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           middleware.CORSMiddleware(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithService().Infof("Calendar service listening on port %s (catalog store: %s)", cfg.HTTPPort, cfg.CatalogStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithService().Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.WithService().Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithService().Errorf("Graceful shutdown failed: %v", err)
	}
	log.WithService().Info("Server stopped")
}

func newRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Addr(),
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func recordPoolStats(sqlDB *sql.DB, m *metrics.Metrics) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		s := sqlDB.Stats()
		m.RecordDBPoolStats(s.OpenConnections, s.InUse, s.Idle, s.WaitCount, s.WaitDuration)
	}
}
