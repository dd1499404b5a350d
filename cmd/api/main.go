package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/user/dataset-explorer/internal/adapter/catalog"
	"github.com/user/dataset-explorer/internal/adapter/chromedp_fetcher"
	"github.com/user/dataset-explorer/internal/adapter/echarts"
	"github.com/user/dataset-explorer/internal/adapter/filesystem"
	"github.com/user/dataset-explorer/internal/adapter/memory"
	"github.com/user/dataset-explorer/internal/adapter/postgres"
	redis_adapter "github.com/user/dataset-explorer/internal/adapter/redis"
	"github.com/user/dataset-explorer/internal/delivery/http/handler"
	"github.com/user/dataset-explorer/internal/delivery/http/router"
	"github.com/user/dataset-explorer/internal/proxy"
	"github.com/user/dataset-explorer/internal/repository"
	"github.com/user/dataset-explorer/internal/usecase"
	"github.com/user/dataset-explorer/pkg/config"
	"github.com/user/dataset-explorer/pkg/logger"
	"github.com/user/dataset-explorer/pkg/metrics"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		panic("could not load config: " + err.Error())
	}

	// --- Logger ---
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic("could not build logger: " + err.Error())
	}
	defer log.Sync()

	// --- Metrics ---
	m := metrics.New(prometheus.DefaultRegisterer)

	ctx := context.Background()

	// --- Optional stores ---
	var runs repository.RunRepository
	if cfg.PostgresURL != "" {
		dbpool, err := postgres.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer dbpool.Close()
		runs = postgres.NewRunRepo(dbpool)
		log.Info("run history enabled")
	}

	var lock repository.WorkspaceLock = memory.NewLock()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("unable to connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		lock = redis_adapter.NewLock(rdb, cfg.LockTTL(), log)
		log.Info("workspace lock shared through redis", zap.String("addr", cfg.RedisAddr))
	}

	// --- Catalog adapters ---
	proxies := proxy.NewManager(cfg.Proxies())
	client := catalog.NewClient(cfg.RequestTimeout(), proxies)

	var pages repository.PageFetcher = client
	if cfg.MetadataFetchMode == "browser" {
		pages = chromedp_fetcher.NewChromedpFetcher(proxies.UserAgent(), cfg.RequestTimeout(), log)
	}

	recordsRepo := catalog.NewRecordsRepo(client, cfg.CatalogAPIBase, m, log)
	metadataRepo := catalog.NewMetadataRepo(pages, cfg.CatalogPortalBase, m, log)

	// --- Use Cases ---
	workspace := filesystem.NewWorkspace(cfg.WorkspaceDir, echarts.NewRenderer())
	pipeline := usecase.NewPipeline(
		recordsRepo,
		metadataRepo,
		usecase.NewColumnClassifier(log),
		usecase.NewVisualizationGenerator(m, log),
		runs,
		m,
		log,
	)
	search := usecase.NewSearchService(pipeline, workspace, lock, workspace.Dir(), runs, log)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(search, workspace, log)
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router.New(apiHandler, log, m, prometheus.DefaultGatherer),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("could not start server", zap.Error(err))
		}
	}()
	log.Info("server started",
		zap.String("port", cfg.ServerPort),
		zap.String("workspace", workspace.Dir()),
		zap.String("metadata_fetch_mode", cfg.MetadataFetchMode),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exiting")
}
