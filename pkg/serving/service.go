package serving

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/clinisearch-ai/summary-service/pkg/common/logger"
	"github.com/clinisearch-ai/summary-service/pkg/common/models"
	"github.com/clinisearch-ai/summary-service/pkg/observability/metrics"
	"github.com/clinisearch-ai/summary-service/pkg/retrieval"
	"github.com/clinisearch-ai/summary-service/pkg/summary"
	"github.com/redis/go-redis/v9"
)

// ErrPatientNotFound signals an unknown identifier on direct lookup. It is
// distinct from an empty search result so callers can tell "no such patient"
// from "no similar patients".
var ErrPatientNotFound = errors.New("patient not found")

// snapshot pairs one corpus with the index built over it. The pair is
// replaced as a unit so readers never see an index misaligned with its
// summaries.
type snapshot struct {
	index     *retrieval.Index
	summaries map[string]string
	corpus    summary.Corpus
}

// Service answers summary lookups and similarity queries against the current
// index snapshot. Queries read the snapshot through an atomic pointer and
// take no locks; Rebuild installs a brand-new frozen snapshot, so in-flight
// readers always see either the old index or the new one, never a partial
// build.
type Service struct {
	current     atomic.Pointer[snapshot]
	repo        *summary.Repository
	cache       *redis.Client
	cacheTTL    time.Duration
	exportPath  string
	defaultTopK int
}

// NewService wires the serving layer. repo and cache may be nil; persistence
// and caching are then skipped.
func NewService(repo *summary.Repository, cache *redis.Client, cacheTTL time.Duration, exportPath string, defaultTopK int) *Service {
	if defaultTopK <= 0 {
		defaultTopK = retrieval.DefaultTopK
	}
	return &Service{
		repo:        repo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		exportPath:  exportPath,
		defaultTopK: defaultTopK,
	}
}

// Rebuild indexes the corpus and atomically swaps it in, then refreshes the
// persisted rows and CSV artifact. The swap happens first: a persistence
// failure must not leave queries on a stale index.
func (s *Service) Rebuild(ctx context.Context, corpus summary.Corpus) error {
	index := retrieval.Build(corpus)
	summaries := make(map[string]string, len(corpus))
	for _, entry := range corpus {
		summaries[entry.PatientID] = entry.Text
	}
	s.current.Store(&snapshot{index: index, summaries: summaries, corpus: corpus})
	metrics.ObserveIndexBuild(index.Size(), index.VocabularySize())

	logger.Log.WithFields(map[string]interface{}{
		"corpus_size":     index.Size(),
		"vocabulary_size": index.VocabularySize(),
	}).Info("Index rebuilt")

	if s.repo != nil {
		if err := s.repo.ReplaceAll(ctx, corpus); err != nil {
			return fmt.Errorf("persisting summaries: %w", err)
		}
	}
	if s.exportPath != "" {
		if err := summary.ExportCSV(corpus, s.exportPath); err != nil {
			return fmt.Errorf("exporting summaries: %w", err)
		}
	}
	return nil
}

// Query runs the two-tier retrieval dispatch against the current snapshot.
// An unbuilt or empty index yields an empty result, not an error.
func (s *Service) Query(ctx context.Context, q string, topK int) ([]models.QueryResult, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, nil
	}
	if topK <= 0 {
		topK = s.defaultTopK
	}
	metrics.ObserveQuery()
	return snap.index.Query(q, topK), nil
}

// GetSummary returns the summary text for an exact identifier, consulting
// the cache first when one is configured.
func (s *Service) GetSummary(ctx context.Context, patientID string) (string, error) {
	metrics.ObserveLookup()

	cacheKey := "summary:" + patientID
	if s.cache != nil {
		if text, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			metrics.ObserveCacheHit()
			return text, nil
		}
	}

	snap := s.current.Load()
	if snap == nil {
		metrics.ObserveLookupMiss()
		return "", ErrPatientNotFound
	}
	text, ok := snap.summaries[patientID]
	if !ok {
		metrics.ObserveLookupMiss()
		return "", ErrPatientNotFound
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, text, s.cacheTTL).Err(); err != nil {
			logger.Log.WithError(err).Debug("Failed to cache summary")
		}
	}
	return text, nil
}

// Corpus returns the corpus backing the current snapshot, nil before the
// first rebuild.
func (s *Service) Corpus() summary.Corpus {
	snap := s.current.Load()
	if snap == nil {
		return nil
	}
	return snap.corpus
}

// Stats reports index and traffic counters for the stats endpoint.
func (s *Service) Stats() models.ServiceStats {
	stats := models.ServiceStats{
		IndexBuilds:   metrics.IndexBuilds(),
		QueriesServed: metrics.QueriesServed(),
		LookupsServed: metrics.LookupsServed(),
	}
	if snap := s.current.Load(); snap != nil {
		stats.CorpusSize = snap.index.Size()
		stats.VocabularySize = snap.index.VocabularySize()
	}
	return stats
}
