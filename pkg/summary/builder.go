package summary

import (
	"fmt"
	"sort"
	"strings"

	"github.com/clinisearch-ai/summary-service/pkg/common/models"
)

// PatientSummary is one rendered narrative in the corpus. Entries are never
// mutated; a source change regenerates the whole corpus.
type PatientSummary struct {
	PatientID string `json:"patient_id"`
	Text      string `json:"summary"`
}

// Corpus is the ordered collection of patient summaries the retrieval index
// is built over. Index rows align one-to-one with corpus positions, so the
// order must be reproducible: identifiers are sorted lexicographically.
type Corpus []PatientSummary

const noConditions = "none recorded"

// Build folds demographics and condition lists into one summary per patient.
// The identifier universe is the union of both maps: a patient with
// conditions but no demographic record still gets a summary, and vice versa.
func Build(demographics map[string]models.Demographics, conditions map[string][]string) Corpus {
	ids := make([]string, 0, len(demographics))
	seen := make(map[string]struct{}, len(demographics))
	for id := range demographics {
		ids = append(ids, id)
		seen[id] = struct{}{}
	}
	for id := range conditions {
		if _, ok := seen[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	corpus := make(Corpus, 0, len(ids))
	for _, id := range ids {
		demo, ok := demographics[id]
		if !ok {
			demo = models.Demographics{Gender: "unknown", BirthDate: "unknown"}
		}
		corpus = append(corpus, PatientSummary{
			PatientID: id,
			Text:      render(id, demo, conditions[id]),
		})
	}
	return corpus
}

// render produces the fixed summary sentence. Duplicate condition entries are
// rendered verbatim; the source's duplicate diagnoses are part of the
// contract, not noise to be collapsed.
func render(id string, demo models.Demographics, conds []string) string {
	condClause := noConditions
	if len(conds) > 0 {
		condClause = strings.Join(conds, ", ")
	}
	return fmt.Sprintf(
		"Patient %s: gender=%s, birthDate=%s. Diagnosed conditions include: %s.",
		id, demo.Gender, demo.BirthDate, condClause,
	)
}

// IDs returns corpus identifiers in corpus order.
func (c Corpus) IDs() []string {
	ids := make([]string, len(c))
	for i, s := range c {
		ids[i] = s.PatientID
	}
	return ids
}

// Texts returns summary texts in corpus order.
func (c Corpus) Texts() []string {
	texts := make([]string, len(c))
	for i, s := range c {
		texts[i] = s.Text
	}
	return texts
}
