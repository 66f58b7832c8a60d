package ingest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/clinisearch-ai/summary-service/pkg/common/kafka"
	"github.com/clinisearch-ai/summary-service/pkg/common/logger"
	"github.com/clinisearch-ai/summary-service/pkg/common/models"
	"github.com/clinisearch-ai/summary-service/pkg/extract"
	"github.com/clinisearch-ai/summary-service/pkg/observability/metrics"
	"github.com/clinisearch-ai/summary-service/pkg/serving"
	"github.com/clinisearch-ai/summary-service/pkg/summary"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Service accumulates streamed resource events on top of the bootstrap batch
// and triggers debounced full rebuilds of the serving index. The index itself
// is append-only-then-frozen: every change goes through a complete rebuild
// and atomic swap, never a partial patch.
type Service struct {
	extractor *extract.Extractor
	serving   *serving.Service
	repo      *Repository
	producer  *kafka.Producer
	debounce  time.Duration

	mu        sync.Mutex
	resources []models.Resource
	timer     *time.Timer
}

// NewService wires the streaming path. repo and producer may be nil; event
// auditing and rebuild notifications are then skipped.
func NewService(extractor *extract.Extractor, srv *serving.Service, repo *Repository, producer *kafka.Producer, debounce time.Duration) *Service {
	if debounce <= 0 {
		debounce = 5 * time.Second
	}
	return &Service{
		extractor: extractor,
		serving:   srv,
		repo:      repo,
		producer:  producer,
		debounce:  debounce,
	}
}

// Bootstrap installs the initial record batch and builds the first index.
func (s *Service) Bootstrap(ctx context.Context, resources []models.Resource) error {
	s.mu.Lock()
	s.resources = append([]models.Resource(nil), resources...)
	s.mu.Unlock()
	return s.rebuild(ctx)
}

// Run consumes resource events until ctx is cancelled.
func (s *Service) Run(ctx context.Context, consumer *kafka.Consumer) error {
	return consumer.Consume(ctx, s.HandleEvent)
}

// HandleEvent accepts one resource event. Events without a payload or a
// resourceType are skipped and counted, never retried.
func (s *Service) HandleEvent(ctx context.Context, event models.Event) error {
	if event.Data == nil {
		metrics.ObserveIngestSkip()
		return nil
	}
	kind, _ := event.Data["resourceType"].(string)
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		metrics.ObserveIngestSkip()
		return nil
	}

	if s.repo != nil {
		record := &Record{
			ID:      uuid.New().String(),
			EventID: event.ID,
			Source:  event.Source,
			Kind:    kind,
			Payload: datatypes.JSONMap(event.Data),
		}
		if err := s.repo.Create(ctx, record); err != nil {
			// returning the error leaves the message uncommitted for retry
			return err
		}
	}

	s.mu.Lock()
	s.resources = append(s.resources, models.Resource{Kind: kind, Data: event.Data})
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		if err := s.rebuild(context.Background()); err != nil {
			logger.Log.WithError(err).Error("failed to rebuild after ingest")
		}
	})
	s.mu.Unlock()

	metrics.ObserveIngest()
	return nil
}

// rebuild re-runs the whole pipeline over the accumulated records and swaps
// the serving index. Concurrent rebuild triggers serialize on the mutex; the
// serving layer's atomic swap keeps in-flight queries consistent.
func (s *Service) rebuild(ctx context.Context) error {
	s.mu.Lock()
	batch := append([]models.Resource(nil), s.resources...)
	s.mu.Unlock()

	result := s.extractor.Extract(batch)
	corpus := summary.Build(result.Demographics, result.Conditions)
	if err := s.serving.Rebuild(ctx, corpus); err != nil {
		return err
	}

	if s.producer != nil {
		payload := map[string]interface{}{
			"corpus_size": len(corpus),
			"patients":    result.Stats.Patients,
			"conditions":  result.Stats.Conditions,
			"malformed":   result.Stats.Malformed,
		}
		if err := s.producer.PublishEvent(ctx, "summary.rebuilt", "summary-service", payload); err != nil {
			logger.Log.WithError(err).Error("failed to publish rebuilt event")
		}
	}
	return nil
}
