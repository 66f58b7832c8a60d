package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	corpusSize     atomic.Int64
	vocabularySize atomic.Int64
	indexBuilds    atomic.Int64
	queriesServed  atomic.Int64
	lookupsServed  atomic.Int64
	lookupMisses   atomic.Int64
	cacheHits      atomic.Int64
	ingestAccepted atomic.Int64
	ingestSkipped  atomic.Int64
)

func ObserveIndexBuild(corpus, vocabulary int) {
	corpusSize.Store(int64(corpus))
	vocabularySize.Store(int64(vocabulary))
	indexBuilds.Add(1)
}

func ObserveQuery()      { queriesServed.Add(1) }
func ObserveLookup()     { lookupsServed.Add(1) }
func ObserveLookupMiss() { lookupMisses.Add(1) }
func ObserveCacheHit()   { cacheHits.Add(1) }
func ObserveIngest()     { ingestAccepted.Add(1) }
func ObserveIngestSkip() { ingestSkipped.Add(1) }

func IndexBuilds() int64   { return indexBuilds.Load() }
func QueriesServed() int64 { return queriesServed.Load() }
func LookupsServed() int64 { return lookupsServed.Load() }

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP clinisearch_corpus_size Number of patient summaries in the active index.\n")
	fmt.Fprintf(w, "# TYPE clinisearch_corpus_size gauge\n")
	fmt.Fprintf(w, "clinisearch_corpus_size %d\n", corpusSize.Load())

	fmt.Fprintf(w, "# HELP clinisearch_vocabulary_size Number of distinct terms in the active index vocabulary.\n")
	fmt.Fprintf(w, "# TYPE clinisearch_vocabulary_size gauge\n")
	fmt.Fprintf(w, "clinisearch_vocabulary_size %d\n", vocabularySize.Load())

	fmt.Fprintf(w, "# HELP clinisearch_index_builds_total Number of index builds since start.\n")
	fmt.Fprintf(w, "# TYPE clinisearch_index_builds_total counter\n")
	fmt.Fprintf(w, "clinisearch_index_builds_total %d\n", indexBuilds.Load())

	fmt.Fprintf(w, "# HELP clinisearch_queries_total Number of similarity queries served.\n")
	fmt.Fprintf(w, "# TYPE clinisearch_queries_total counter\n")
	fmt.Fprintf(w, "clinisearch_queries_total %d\n", queriesServed.Load())

	fmt.Fprintf(w, "# HELP clinisearch_lookups_total Number of direct identifier lookups served.\n")
	fmt.Fprintf(w, "# TYPE clinisearch_lookups_total counter\n")
	fmt.Fprintf(w, "clinisearch_lookups_total %d\n", lookupsServed.Load())

	fmt.Fprintf(w, "# HELP clinisearch_lookup_misses_total Number of identifier lookups for unknown patients.\n")
	fmt.Fprintf(w, "# TYPE clinisearch_lookup_misses_total counter\n")
	fmt.Fprintf(w, "clinisearch_lookup_misses_total %d\n", lookupMisses.Load())

	fmt.Fprintf(w, "# HELP clinisearch_summary_cache_hits_total Number of summary lookups answered from cache.\n")
	fmt.Fprintf(w, "# TYPE clinisearch_summary_cache_hits_total counter\n")
	fmt.Fprintf(w, "clinisearch_summary_cache_hits_total %d\n", cacheHits.Load())

	fmt.Fprintf(w, "# HELP clinisearch_ingest_accepted_total Number of streamed resource events accepted.\n")
	fmt.Fprintf(w, "# TYPE clinisearch_ingest_accepted_total counter\n")
	fmt.Fprintf(w, "clinisearch_ingest_accepted_total %d\n", ingestAccepted.Load())

	fmt.Fprintf(w, "# HELP clinisearch_ingest_skipped_total Number of streamed resource events skipped as malformed.\n")
	fmt.Fprintf(w, "# TYPE clinisearch_ingest_skipped_total counter\n")
	fmt.Fprintf(w, "clinisearch_ingest_skipped_total %d\n", ingestSkipped.Load())
}
