package extract

import (
	"testing"

	"github.com/clinisearch-ai/summary-service/pkg/common/logger"
	"github.com/clinisearch-ai/summary-service/pkg/common/models"
	"github.com/clinisearch-ai/summary-service/pkg/terminology"
)

func init() {
	logger.Init("extract-test")
}

func patientResource(data map[string]interface{}) models.Resource {
	return models.Resource{Kind: models.KindPatient, Data: data}
}

func conditionResource(data map[string]interface{}) models.Resource {
	return models.Resource{Kind: models.KindCondition, Data: data}
}

func TestExtractPatientDefaults(t *testing.T) {
	extractor := NewExtractor(terminology.DefaultCatalog())
	result := extractor.Extract([]models.Resource{
		patientResource(map[string]interface{}{"id": "P1"}),
	})
	demo, ok := result.Demographics["P1"]
	if !ok {
		t.Fatal("expected P1 demographics")
	}
	if demo.Gender != "unknown" || demo.BirthDate != "unknown" {
		t.Fatalf("expected unknown defaults, got %+v", demo)
	}
}

func TestExtractPatientMissingIDSkipped(t *testing.T) {
	extractor := NewExtractor(terminology.DefaultCatalog())
	result := extractor.Extract([]models.Resource{
		patientResource(map[string]interface{}{"gender": "female"}),
	})
	if len(result.Demographics) != 0 {
		t.Fatalf("expected no demographics, got %v", result.Demographics)
	}
	if result.Stats.Malformed != 1 {
		t.Fatalf("expected 1 malformed, got %d", result.Stats.Malformed)
	}
}

func TestExtractConditionDescriptionFallbacks(t *testing.T) {
	extractor := NewExtractor(terminology.DefaultCatalog())
	result := extractor.Extract([]models.Resource{
		// coding display wins
		conditionResource(map[string]interface{}{
			"subject": map[string]interface{}{"reference": "Patient/P1"},
			"code": map[string]interface{}{
				"coding": []interface{}{
					map[string]interface{}{"code": "I10", "display": "Essential hypertension"},
				},
			},
		}),
		// no display, code.text wins
		conditionResource(map[string]interface{}{
			"subject": map[string]interface{}{"reference": "Patient/P1"},
			"code": map[string]interface{}{
				"text": "Heart failure",
				"coding": []interface{}{
					map[string]interface{}{"code": "I50.9"},
				},
			},
		}),
		// only a catalog-known code
		conditionResource(map[string]interface{}{
			"subject": map[string]interface{}{"reference": "Patient/P1"},
			"code": map[string]interface{}{
				"coding": []interface{}{
					map[string]interface{}{"code": "A41.9"},
				},
			},
		}),
		// unknown raw code passes through verbatim
		conditionResource(map[string]interface{}{
			"subject": map[string]interface{}{"reference": "Patient/P1"},
			"code": map[string]interface{}{
				"coding": []interface{}{
					map[string]interface{}{"code": "Z99.999"},
				},
			},
		}),
	})

	conds := result.Conditions["P1"]
	want := []string{"Essential hypertension", "Heart failure", "Septicemia", "Z99.999"}
	if len(conds) != len(want) {
		t.Fatalf("expected %d conditions, got %v", len(want), conds)
	}
	for i, c := range conds {
		if c != want[i] {
			t.Fatalf("condition %d: expected %q, got %q", i, want[i], c)
		}
	}
}

func TestExtractConditionWithoutDescriptionOrCodeSkipped(t *testing.T) {
	extractor := NewExtractor(terminology.DefaultCatalog())
	result := extractor.Extract([]models.Resource{
		conditionResource(map[string]interface{}{
			"subject": map[string]interface{}{"reference": "Patient/P1"},
		}),
	})
	if len(result.Conditions) != 0 {
		t.Fatalf("expected no conditions, got %v", result.Conditions)
	}
	if result.Stats.Malformed != 1 {
		t.Fatalf("expected 1 malformed, got %d", result.Stats.Malformed)
	}
}

func TestExtractConditionDuplicatesPreserved(t *testing.T) {
	extractor := NewExtractor(terminology.DefaultCatalog())
	cond := conditionResource(map[string]interface{}{
		"subject":     map[string]interface{}{"reference": "Patient/P1"},
		"description": "Septicemia",
	})
	result := extractor.Extract([]models.Resource{cond, cond})
	if len(result.Conditions["P1"]) != 2 {
		t.Fatalf("duplicate diagnoses must accumulate, got %v", result.Conditions["P1"])
	}
}

func TestExtractIgnoresUnknownKinds(t *testing.T) {
	extractor := NewExtractor(terminology.DefaultCatalog())
	result := extractor.Extract([]models.Resource{
		{Kind: "observation", Data: map[string]interface{}{"id": "O1"}},
		patientResource(map[string]interface{}{"id": "P1", "gender": "female", "birthDate": "2083-04-10"}),
	})
	if result.Stats.Ignored != 1 {
		t.Fatalf("expected 1 ignored resource, got %d", result.Stats.Ignored)
	}
	if result.Stats.Malformed != 0 {
		t.Fatalf("unknown kinds are not malformed, got %d", result.Stats.Malformed)
	}
	if result.Demographics["P1"].Gender != "female" {
		t.Fatalf("expected P1 extracted, got %v", result.Demographics)
	}
}
