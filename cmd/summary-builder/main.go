package main

import (
	"context"
	"fmt"

	"github.com/clinisearch-ai/summary-service/pkg/common/config"
	"github.com/clinisearch-ai/summary-service/pkg/common/database"
	"github.com/clinisearch-ai/summary-service/pkg/common/logger"
	"github.com/clinisearch-ai/summary-service/pkg/eval"
	"github.com/clinisearch-ai/summary-service/pkg/extract"
	"github.com/clinisearch-ai/summary-service/pkg/fhir"
	"github.com/clinisearch-ai/summary-service/pkg/retrieval"
	"github.com/clinisearch-ai/summary-service/pkg/summary"
	"github.com/clinisearch-ai/summary-service/pkg/terminology"
)

// summary-builder runs the offline pipeline once: load resources, build the
// corpus, persist and export it, and print a retrieval smoke report with a
// few example queries.
func main() {
	logger.Init("summary-builder")
	cfg := config.Load()
	ctx := context.Background()

	catalog, err := terminology.Load(cfg.CatalogPath)
	if err != nil {
		logger.Log.WithError(err).Warn("falling back to default terminology catalog")
	}

	reader := fhir.NewReader()
	resources, err := reader.LoadDir(cfg.FHIRDir)
	if err != nil {
		logger.Log.WithError(err).WithField("dir", cfg.FHIRDir).Fatal("failed to load resource directory")
	}
	if reader.Skipped() > 0 {
		logger.Log.WithField("skipped_lines", reader.Skipped()).Warn("some resource lines were unparseable")
	}

	result := extract.NewExtractor(catalog).Extract(resources)
	logger.Log.WithFields(map[string]interface{}{
		"patients":   result.Stats.Patients,
		"conditions": result.Stats.Conditions,
		"ignored":    result.Stats.Ignored,
		"malformed":  result.Stats.Malformed,
	}).Info("Extraction complete")

	corpus := summary.Build(result.Demographics, result.Conditions)
	logger.Log.WithField("corpus_size", len(corpus)).Info("Corpus built")

	if cfg.PostgresEnabled {
		db, err := database.GetPostgres()
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to connect to postgres")
		}
		repo := summary.NewRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			logger.Log.WithError(err).Fatal("failed to migrate summary tables")
		}
		if err := repo.ReplaceAll(ctx, corpus); err != nil {
			logger.Log.WithError(err).Fatal("failed to persist summaries")
		}
	}

	if err := summary.ExportCSV(corpus, cfg.ExportCSV); err != nil {
		logger.Log.WithError(err).Fatal("failed to export summaries")
	}
	logger.Log.WithField("path", cfg.ExportCSV).Info("Summaries exported")

	accuracy := eval.RetrievalAccuracy(corpus)
	lengths := eval.LengthStatistics(corpus)
	logger.Log.WithFields(map[string]interface{}{
		"retrieval_accuracy": fmt.Sprintf("%.2f%%", accuracy*100),
		"min_length":         lengths.Min,
		"max_length":         lengths.Max,
		"mean_length":        fmt.Sprintf("%.1f", lengths.Mean),
	}).Info("Evaluation report")

	index := retrieval.Build(corpus)
	queries := []string{"heart failure", "pneumonia diabetes"}
	if len(corpus) > 0 {
		id := corpus[0].PatientID
		if len(id) > 8 {
			id = id[:8]
		}
		queries = append(queries, id)
	}
	for _, q := range queries {
		results := index.Query(q, 1)
		entry := logger.Log.WithField("query", q)
		if len(results) == 0 {
			entry.Info("No result")
			continue
		}
		entry.WithFields(map[string]interface{}{
			"patient_id": results[0].PatientID,
			"score":      fmt.Sprintf("%.4f", results[0].Score),
			"summary":    results[0].Summary,
		}).Info("Example query result")
	}
}
