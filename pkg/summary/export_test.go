package summary

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
)

func TestExportCSVLayout(t *testing.T) {
	corpus := Corpus{
		{PatientID: "P1", Text: "Patient P1: gender=female, birthDate=2083-04-10. Diagnosed conditions include: Septicemia."},
		{PatientID: "P2", Text: "Patient P2: gender=male, birthDate=unknown. Diagnosed conditions include: none recorded."},
	}
	path := filepath.Join(t.TempDir(), "out", "patient_summaries.csv")
	if err := ExportCSV(corpus, path); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening export: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "patient_id" || rows[0][1] != "summary" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "P1" || rows[2][0] != "P2" {
		t.Fatalf("rows not in corpus order: %v", rows)
	}
	if rows[1][1] != corpus[0].Text {
		t.Fatalf("summary text mangled: %q", rows[1][1])
	}
}
