package summary

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// ExportCSV writes the corpus to a two-column CSV, one row per patient in
// corpus order. The file is a transparent artifact for downstream consumers;
// the retrieval core never reads it back.
func ExportCSV(corpus Corpus, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"patient_id", "summary"}); err != nil {
		return fmt.Errorf("writing export header: %w", err)
	}
	for _, s := range corpus {
		if err := w.Write([]string{s.PatientID, s.Text}); err != nil {
			return fmt.Errorf("writing export row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing export: %w", err)
	}
	return nil
}
