package summary

import (
	"strings"
	"testing"

	"github.com/clinisearch-ai/summary-service/pkg/common/models"
)

func TestBuildRendersFixedFormat(t *testing.T) {
	demographics := map[string]models.Demographics{
		"P1": {Gender: "female", BirthDate: "2083-04-10"},
	}
	conditions := map[string][]string{
		"P1": {"Septicemia", "Hypertension"},
	}

	corpus := Build(demographics, conditions)
	if len(corpus) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(corpus))
	}
	want := "Patient P1: gender=female, birthDate=2083-04-10. Diagnosed conditions include: Septicemia, Hypertension."
	if corpus[0].Text != want {
		t.Fatalf("unexpected summary text:\nwant %q\ngot  %q", want, corpus[0].Text)
	}
}

func TestBuildNoConditionsSentinel(t *testing.T) {
	demographics := map[string]models.Demographics{
		"P2": {Gender: "male", BirthDate: "2090-01-01"},
	}
	corpus := Build(demographics, nil)
	if !strings.HasSuffix(corpus[0].Text, "Diagnosed conditions include: none recorded.") {
		t.Fatalf("expected none recorded sentinel, got %q", corpus[0].Text)
	}
}

func TestBuildUnionOfIdentifiers(t *testing.T) {
	demographics := map[string]models.Demographics{
		"B": {Gender: "female", BirthDate: "2080-01-01"},
	}
	conditions := map[string][]string{
		"A": {"Pneumonia"},
	}
	corpus := Build(demographics, conditions)
	if len(corpus) != 2 {
		t.Fatalf("expected union of both maps, got %d summaries", len(corpus))
	}
	// sorted identifier order
	if corpus[0].PatientID != "A" || corpus[1].PatientID != "B" {
		t.Fatalf("expected sorted order [A B], got %v", corpus.IDs())
	}
	// condition-only patient renders unknown demographics
	if !strings.Contains(corpus[0].Text, "gender=unknown, birthDate=unknown") {
		t.Fatalf("expected unknown demographics for A, got %q", corpus[0].Text)
	}
}

func TestBuildPreservesDuplicateConditions(t *testing.T) {
	conditions := map[string][]string{
		"P1": {"Septicemia", "Septicemia"},
	}
	corpus := Build(nil, conditions)
	if !strings.Contains(corpus[0].Text, "Septicemia, Septicemia") {
		t.Fatalf("duplicate conditions must render verbatim, got %q", corpus[0].Text)
	}
}

func TestBuildIsReproducible(t *testing.T) {
	demographics := map[string]models.Demographics{
		"P3": {Gender: "other", BirthDate: "2075-06-30"},
		"P1": {Gender: "female", BirthDate: "2083-04-10"},
		"P2": {Gender: "male", BirthDate: "2090-01-01"},
	}
	first := Build(demographics, nil)
	second := Build(demographics, nil)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("corpus order not reproducible at %d: %v vs %v", i, first[i], second[i])
		}
	}
}
