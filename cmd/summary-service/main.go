package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinisearch-ai/summary-service/pkg/common/config"
	"github.com/clinisearch-ai/summary-service/pkg/common/database"
	"github.com/clinisearch-ai/summary-service/pkg/common/kafka"
	"github.com/clinisearch-ai/summary-service/pkg/common/logger"
	"github.com/clinisearch-ai/summary-service/pkg/extract"
	"github.com/clinisearch-ai/summary-service/pkg/fhir"
	"github.com/clinisearch-ai/summary-service/pkg/ingest"
	"github.com/clinisearch-ai/summary-service/pkg/observability/metrics"
	"github.com/clinisearch-ai/summary-service/pkg/serving"
	"github.com/clinisearch-ai/summary-service/pkg/summary"
	"github.com/clinisearch-ai/summary-service/pkg/terminology"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
)

func main() {
	logger.Init("summary-service")
	cfg := config.Load()

	catalog, err := terminology.Load(cfg.CatalogPath)
	if err != nil {
		logger.Log.WithError(err).Warn("falling back to default terminology catalog")
	}
	extractor := extract.NewExtractor(catalog)

	var summaryRepo *summary.Repository
	var ingestRepo *ingest.Repository
	if cfg.PostgresEnabled {
		db, err := database.GetPostgres()
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to connect to postgres")
		}
		summaryRepo = summary.NewRepository(db)
		if err := summaryRepo.AutoMigrate(); err != nil {
			logger.Log.WithError(err).Fatal("failed to migrate summary tables")
		}
		ingestRepo = ingest.NewRepository(db)
		if err := ingestRepo.AutoMigrate(); err != nil {
			logger.Log.WithError(err).Fatal("failed to migrate ingest tables")
		}
	}

	var cache *redis.Client
	if cfg.RedisEnabled {
		cache = database.GetRedis()
	}

	service := serving.NewService(summaryRepo, cache, cfg.SummaryCacheTTL, cfg.ExportCSV, cfg.DefaultTopK)

	var producer *kafka.Producer
	if cfg.IngestionEnabled {
		producer = kafka.NewProducer(cfg.RebuiltTopic)
		defer producer.Close()
	}
	ingestService := ingest.NewService(extractor, service, ingestRepo, producer, cfg.RebuildDebounce)

	reader := fhir.NewReader()
	resources, err := reader.LoadDir(cfg.FHIRDir)
	if err != nil {
		logger.Log.WithError(err).WithField("dir", cfg.FHIRDir).Warn("failed to load resource directory, starting with empty corpus")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := ingestService.Bootstrap(ctx, resources); err != nil {
		logger.Log.WithError(err).Fatal("failed to build initial index")
	}

	if cfg.IngestionEnabled {
		consumer := kafka.NewConsumer(cfg.ResourceTopic, cfg.KafkaGroupID)
		defer consumer.Close()
		go func() {
			if err := ingestService.Run(ctx, consumer); err != nil && ctx.Err() == nil {
				logger.Log.WithError(err).Error("resource consumer stopped")
			}
		}()
	}

	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)
	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)
	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1/summaries").Subrouter()
	serving.NewHandler(service).Register(api)

	address := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithField("addr", address).Info("Summary service listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start summary service")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down summary service...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("Summary service forced to shutdown")
	}
	logger.Log.Info("Summary service stopped")
}
