package eval

import (
	"testing"

	"github.com/clinisearch-ai/summary-service/pkg/summary"
)

func TestRetrievalAccuracyPerfectOnDistinctPrefixes(t *testing.T) {
	corpus := summary.Corpus{
		{PatientID: "aaaa1111-x", Text: "Patient aaaa1111-x: gender=female, birthDate=unknown. Diagnosed conditions include: Septicemia."},
		{PatientID: "bbbb2222-y", Text: "Patient bbbb2222-y: gender=male, birthDate=unknown. Diagnosed conditions include: none recorded."},
	}
	if acc := RetrievalAccuracy(corpus); acc != 1.0 {
		t.Fatalf("expected accuracy 1.0, got %v", acc)
	}
}

func TestRetrievalAccuracyEmptyCorpus(t *testing.T) {
	if acc := RetrievalAccuracy(nil); acc != 0 {
		t.Fatalf("expected 0 for empty corpus, got %v", acc)
	}
}

func TestLengthStatistics(t *testing.T) {
	corpus := summary.Corpus{
		{PatientID: "P1", Text: "abcd"},
		{PatientID: "P2", Text: "ab"},
	}
	stats := LengthStatistics(corpus)
	if stats.Min != 2 || stats.Max != 4 || stats.Mean != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
