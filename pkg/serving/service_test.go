package serving

import (
	"context"
	"errors"
	"testing"

	"github.com/clinisearch-ai/summary-service/pkg/common/logger"
	"github.com/clinisearch-ai/summary-service/pkg/summary"
)

func init() {
	logger.Init("serving-test")
}

func testCorpus() summary.Corpus {
	return summary.Corpus{
		{PatientID: "P1", Text: "Patient P1: gender=female, birthDate=2083-04-10. Diagnosed conditions include: Septicemia, Hypertension."},
		{PatientID: "P2", Text: "Patient P2: gender=male, birthDate=2090-01-01. Diagnosed conditions include: none recorded."},
	}
}

func TestQueryBeforeFirstBuildIsEmpty(t *testing.T) {
	service := NewService(nil, nil, 0, "", 5)
	results, err := service.Query(context.Background(), "hypertension", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty result before first build, got %v", results)
	}
}

func TestGetSummaryNotFound(t *testing.T) {
	service := NewService(nil, nil, 0, "", 5)
	if err := service.Rebuild(context.Background(), testCorpus()); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	if _, err := service.GetSummary(context.Background(), "nope"); !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
	text, err := service.GetSummary(context.Background(), "P1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text == "" {
		t.Fatal("expected summary text for P1")
	}
}

func TestRebuildSwapsIndex(t *testing.T) {
	service := NewService(nil, nil, 0, "", 5)
	if err := service.Rebuild(context.Background(), testCorpus()); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}

	results, err := service.Query(context.Background(), "hypertension", 3)
	if err != nil || len(results) != 1 || results[0].PatientID != "P1" {
		t.Fatalf("expected P1 hit before swap, got %v (err %v)", results, err)
	}

	replacement := summary.Corpus{
		{PatientID: "P3", Text: "Patient P3: gender=other, birthDate=unknown. Diagnosed conditions include: Hypertension."},
	}
	if err := service.Rebuild(context.Background(), replacement); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}

	results, err = service.Query(context.Background(), "hypertension", 3)
	if err != nil || len(results) != 1 || results[0].PatientID != "P3" {
		t.Fatalf("expected swapped index to serve P3, got %v (err %v)", results, err)
	}
	if _, err := service.GetSummary(context.Background(), "P1"); !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("expected P1 gone after swap, got %v", err)
	}
}

func TestQueryUsesConfiguredDefaultTopK(t *testing.T) {
	corpus := make(summary.Corpus, 0, 4)
	for _, id := range []string{"X1", "X2", "X3", "X4"} {
		corpus = append(corpus, summary.PatientSummary{
			PatientID: id,
			Text:      "Patient " + id + ": gender=male, birthDate=unknown. Diagnosed conditions include: Pneumonia.",
		})
	}
	service := NewService(nil, nil, 0, "", 2)
	if err := service.Rebuild(context.Background(), corpus); err != nil {
		t.Fatalf("rebuild failed: %v", err)
	}
	results, err := service.Query(context.Background(), "pneumonia", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected configured default top-k of 2, got %d", len(results))
	}
}
