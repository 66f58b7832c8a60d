package models

import "time"

// Resource kinds consumed by the extraction pipeline. Unrecognized kinds are
// ignored, not errors, so new kinds are additive.
const (
	KindPatient   = "patient"
	KindCondition = "condition"
)

// Resource is one flat record from an upstream source, tagged with the kind
// of clinical resource it carries.
type Resource struct {
	Kind string                 `json:"resource_type"`
	Data map[string]interface{} `json:"data"`
}

// Event is the envelope for messages on the resource and rebuild topics.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // resource, summary.rebuilt
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
}

// Demographics holds per-patient demographic fields. Missing values are
// rendered with the "unknown" sentinel rather than dropped.
type Demographics struct {
	Gender    string `json:"gender"`
	BirthDate string `json:"birth_date"`
}

// QueryResult is one ranked hit returned by the retrieval layer. Score is in
// [0.0, 1.0]; identifier lookups always score 1.0.
type QueryResult struct {
	PatientID string  `json:"patient_id"`
	Summary   string  `json:"summary"`
	Score     float64 `json:"score"`
}

// ExtractStats counts records processed and skipped during extraction.
// Malformed records are skipped and counted, never fatal.
type ExtractStats struct {
	Patients   int `json:"patients"`
	Conditions int `json:"conditions"`
	Ignored    int `json:"ignored"`
	Malformed  int `json:"malformed"`
}

// ServiceStats is the payload of the serving layer's stats endpoint.
type ServiceStats struct {
	CorpusSize     int   `json:"corpus_size"`
	VocabularySize int   `json:"vocabulary_size"`
	IndexBuilds    int64 `json:"index_builds"`
	QueriesServed  int64 `json:"queries_served"`
	LookupsServed  int64 `json:"lookups_served"`
}
