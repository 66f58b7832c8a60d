package eval

import (
	"github.com/clinisearch-ai/summary-service/pkg/retrieval"
	"github.com/clinisearch-ai/summary-service/pkg/summary"
)

// prefixLen simulates a clinician typing the first characters of a patient
// identifier into the search box.
const prefixLen = 8

// RetrievalAccuracy measures the fraction of patients whose own summary is
// the top result when querying by identifier prefix. Acts as a smoke test of
// the identifier short-circuit, not a summarization metric: the summaries
// are generated, so there is no ground truth to score against.
func RetrievalAccuracy(corpus summary.Corpus) float64 {
	if len(corpus) == 0 {
		return 0
	}
	index := retrieval.Build(corpus)
	correct := 0
	for _, entry := range corpus {
		q := entry.PatientID
		if len(q) > prefixLen {
			q = q[:prefixLen]
		}
		results := index.Query(q, 1)
		if len(results) > 0 && results[0].PatientID == entry.PatientID {
			correct++
		}
	}
	return float64(correct) / float64(len(corpus))
}

// LengthStats holds character-length statistics over summary texts.
type LengthStats struct {
	Min  int
	Max  int
	Mean float64
}

// LengthStatistics computes min, max, and mean summary length.
func LengthStatistics(corpus summary.Corpus) LengthStats {
	if len(corpus) == 0 {
		return LengthStats{}
	}
	stats := LengthStats{Min: len(corpus[0].Text), Max: len(corpus[0].Text)}
	total := 0
	for _, entry := range corpus {
		n := len(entry.Text)
		if n < stats.Min {
			stats.Min = n
		}
		if n > stats.Max {
			stats.Max = n
		}
		total += n
	}
	stats.Mean = float64(total) / float64(len(corpus))
	return stats
}
