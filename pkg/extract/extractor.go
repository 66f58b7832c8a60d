package extract

import (
	"fmt"
	"strings"

	"github.com/clinisearch-ai/summary-service/pkg/common/logger"
	"github.com/clinisearch-ai/summary-service/pkg/common/models"
	"github.com/clinisearch-ai/summary-service/pkg/terminology"
)

// Result carries the two keyed mappings the summary builder folds together.
// Condition lists keep input order and preserve duplicate diagnoses verbatim;
// deduplication is deliberately not applied.
type Result struct {
	Demographics map[string]models.Demographics
	Conditions   map[string][]string
	Stats        models.ExtractStats
}

// Extractor turns resource-kind-tagged flat records into demographics and
// condition mappings keyed by patient identifier. It never writes anywhere;
// callers own the returned maps.
type Extractor struct {
	catalog terminology.Catalog
}

func NewExtractor(cat terminology.Catalog) *Extractor {
	return &Extractor{catalog: cat}
}

func (e *Extractor) Extract(resources []models.Resource) Result {
	result := Result{
		Demographics: make(map[string]models.Demographics),
		Conditions:   make(map[string][]string),
	}

	for _, resource := range resources {
		switch resource.Kind {
		case models.KindPatient:
			e.extractPatient(resource.Data, &result)
		case models.KindCondition:
			e.extractCondition(resource.Data, &result)
		default:
			result.Stats.Ignored++
		}
	}

	if result.Stats.Malformed > 0 {
		logger.Log.WithField("malformed", result.Stats.Malformed).Warn("Skipped malformed resources")
	}

	return result
}

func (e *Extractor) extractPatient(data map[string]interface{}, result *Result) {
	id := getString(data["id"])
	if id == "" {
		result.Stats.Malformed++
		return
	}

	gender := getString(data["gender"])
	if gender == "" {
		gender = "unknown"
	}
	birthDate := getString(data["birthDate"])
	if birthDate == "" {
		birthDate = "unknown"
	}

	result.Demographics[id] = models.Demographics{
		Gender:    gender,
		BirthDate: birthDate,
	}
	result.Stats.Patients++
}

func (e *Extractor) extractCondition(data map[string]interface{}, result *Result) {
	patientID := getString(data["patient_id"])
	if patientID == "" {
		patientID = extractPatientReference(data)
	}
	if patientID == "" {
		result.Stats.Malformed++
		return
	}

	description := e.conditionDescription(data)
	if description == "" {
		result.Stats.Malformed++
		return
	}

	result.Conditions[patientID] = append(result.Conditions[patientID], description)
	result.Stats.Conditions++
}

// conditionDescription resolves the display text for a condition. Preference
// order: coding display, code text, terminology catalog lookup of the raw
// code, then the raw code itself. Empty means the record is malformed.
func (e *Extractor) conditionDescription(data map[string]interface{}) string {
	if desc := getString(data["description"]); desc != "" {
		return desc
	}

	codeMap := extractMap(data["code"])
	codings := extractSlice(codeMap["coding"])
	for _, c := range codings {
		coding := extractMap(c)
		if display := getString(coding["display"]); display != "" {
			return display
		}
	}

	if text := getString(codeMap["text"]); text != "" {
		return text
	}

	rawCode := ""
	if len(codings) > 0 {
		rawCode = getString(extractMap(codings[0])["code"])
	}
	if rawCode == "" {
		rawCode = getString(data["rawCode"])
	}
	if rawCode == "" {
		return ""
	}
	if display, ok := e.catalog.Lookup(rawCode); ok {
		return display
	}
	return rawCode
}

func extractPatientReference(data map[string]interface{}) string {
	subject := extractMap(data["subject"])
	ref := getString(subject["reference"])
	if !strings.HasPrefix(ref, "Patient/") {
		return ""
	}
	parts := strings.SplitN(ref, "/", 2)
	return parts[1]
}

func extractMap(value interface{}) map[string]interface{} {
	if m, ok := value.(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

func extractSlice(value interface{}) []interface{} {
	if s, ok := value.([]interface{}); ok {
		return s
	}
	return nil
}

func getString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		return ""
	}
}
