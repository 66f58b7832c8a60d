package retrieval

import (
	"sort"
	"strings"

	"github.com/clinisearch-ai/summary-service/pkg/common/models"
	"github.com/clinisearch-ai/summary-service/pkg/summary"
)

// DefaultTopK is used when a caller asks for a non-positive result count.
const DefaultTopK = 5

// Index is a frozen term-weighted vector space over one corpus snapshot.
// Once built it is never mutated, so any number of goroutines may query it
// concurrently without synchronization. A corpus change requires a full
// rebuild; the serving layer swaps whole Index values atomically.
type Index struct {
	ids      []string
	lowerIDs []string
	texts    []string
	vec      *vectorizer
	rows     []sparseVec
}

// Build constructs the vector index for the given corpus. Row i of the
// weight matrix corresponds exactly to corpus position i.
func Build(corpus summary.Corpus) *Index {
	idx := &Index{
		ids:      make([]string, len(corpus)),
		lowerIDs: make([]string, len(corpus)),
		texts:    make([]string, len(corpus)),
	}
	for i, s := range corpus {
		idx.ids[i] = s.PatientID
		idx.lowerIDs[i] = strings.ToLower(s.PatientID)
		idx.texts[i] = s.Text
	}
	idx.vec, idx.rows = fit(idx.texts)
	return idx
}

// Size reports the number of indexed documents.
func (idx *Index) Size() int {
	return len(idx.ids)
}

// VocabularySize reports the number of distinct terms observed at build time.
func (idx *Index) VocabularySize() int {
	if idx.vec == nil {
		return 0
	}
	return len(idx.vec.vocabulary)
}

// Query ranks corpus documents against q. Identifier lookups and text search
// are a two-tier dispatch: when q case-insensitively equals or prefixes a
// corpus identifier, that single patient is returned with score 1.0 and
// vector search is skipped entirely. Otherwise q is projected into the
// frozen vocabulary and documents are ranked by cosine similarity,
// descending, ties broken by corpus order. Zero-score documents are excluded;
// an empty corpus or an all-zero scoring yields an empty result, never an
// error.
func (idx *Index) Query(q string, topK int) []models.QueryResult {
	q = strings.TrimSpace(q)
	if q == "" || len(idx.ids) == 0 {
		return nil
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	if i, ok := idx.matchIdentifier(q); ok {
		return []models.QueryResult{{
			PatientID: idx.ids[i],
			Summary:   idx.texts[i],
			Score:     1.0,
		}}
	}

	return idx.similaritySearch(q, topK)
}

// matchIdentifier implements the exact-or-prefix identifier short-circuit.
// When a prefix is ambiguous the first corpus-order match wins.
func (idx *Index) matchIdentifier(q string) (int, bool) {
	lower := strings.ToLower(q)
	for i, id := range idx.lowerIDs {
		if strings.HasPrefix(id, lower) {
			return i, true
		}
	}
	return 0, false
}

func (idx *Index) similaritySearch(q string, topK int) []models.QueryResult {
	qv := idx.vec.transform(q)
	if len(qv.cols) == 0 {
		return nil
	}

	var hits []int
	scores := make([]float64, len(idx.rows))
	for i, row := range idx.rows {
		score := qv.dot(row)
		if score > 0 {
			scores[i] = score
			hits = append(hits, i)
		}
	}
	if len(hits) == 0 {
		return nil
	}

	// hits is in ascending corpus order; a stable sort keeps that order
	// for equal scores.
	sort.SliceStable(hits, func(a, b int) bool {
		return scores[hits[a]] > scores[hits[b]]
	})

	if topK > len(hits) {
		topK = len(hits)
	}
	results := make([]models.QueryResult, 0, topK)
	for _, i := range hits[:topK] {
		results = append(results, models.QueryResult{
			PatientID: idx.ids[i],
			Summary:   idx.texts[i],
			Score:     scores[i],
		})
	}
	return results
}
