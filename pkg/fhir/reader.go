package fhir

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/clinisearch-ai/summary-service/pkg/common/logger"
	"github.com/clinisearch-ai/summary-service/pkg/common/models"
)

// Reader streams flat resources out of newline-delimited JSON files, plain or
// gzip-compressed. Blank and malformed lines are skipped and counted, never
// fatal, so one bad export line cannot poison a batch.
type Reader struct {
	skipped int
}

func NewReader() *Reader {
	return &Reader{}
}

// Skipped reports how many lines were dropped across all reads.
func (r *Reader) Skipped() int {
	return r.skipped
}

// ReadFile parses one NDJSON file into resources. Files ending in .gz are
// transparently decompressed.
func (r *Reader) ReadFile(path string) ([]models.Resource, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("opening resource file: %w", err)
	}
	defer f.Close()

	var src io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		defer gz.Close()
		src = gz
	}

	return r.read(src)
}

func (r *Reader) read(src io.Reader) ([]models.Resource, error) {
	var resources []models.Resource

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var data map[string]interface{}
		if err := json.Unmarshal([]byte(line), &data); err != nil {
			r.skipped++
			continue
		}
		kind, _ := data["resourceType"].(string)
		resources = append(resources, models.Resource{
			Kind: strings.ToLower(strings.TrimSpace(kind)),
			Data: data,
		})
	}
	if err := scanner.Err(); err != nil {
		return resources, fmt.Errorf("scanning resource stream: %w", err)
	}

	return resources, nil
}

// LoadDir reads every .ndjson and .ndjson.gz file under dir, in lexical file
// order so repeated loads yield the same record sequence.
func (r *Reader) LoadDir(dir string) ([]models.Resource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading resource directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".ndjson") || strings.HasSuffix(name, ".ndjson.gz") {
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)

	var all []models.Resource
	for _, path := range files {
		resources, err := r.ReadFile(path)
		if err != nil {
			return nil, err
		}
		logger.Log.WithFields(map[string]interface{}{
			"file":      filepath.Base(path),
			"resources": len(resources),
		}).Info("Loaded resource file")
		all = append(all, resources...)
	}

	return all, nil
}
