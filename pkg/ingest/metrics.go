package ingest

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	once sync.Once

	filesProcessed    prometheus.Counter
	filesIgnored      prometheus.Counter
	parseErrors       prometheus.Counter
	entitiesAdded     prometheus.Counter
	entitiesModified  prometheus.Counter
	entitiesDeleted   prometheus.Counter
	edgesUnresolved   prometheus.Counter
	batchesSent       prometheus.Counter
	parseDuration     prometheus.Histogram
	writeDuration     prometheus.Histogram
	totalDuration     prometheus.Histogram
}

var ingestMetrics metrics

func (m *metrics) init() {
	m.once.Do(func() {
		m.filesProcessed = prometheus.NewCounter(prometheus.CounterOpts{Name: "parseltongue_ingest_files_processed_total", Help: "Files successfully parsed"})
		m.filesIgnored = prometheus.NewCounter(prometheus.CounterOpts{Name: "parseltongue_ingest_files_ignored_total", Help: "Files skipped for unsupported extension"})
		m.parseErrors = prometheus.NewCounter(prometheus.CounterOpts{Name: "parseltongue_ingest_parse_errors_total", Help: "Files that failed to parse"})
		m.entitiesAdded = prometheus.NewCounter(prometheus.CounterOpts{Name: "parseltongue_ingest_entities_added_total", Help: "Entities classified Added"})
		m.entitiesModified = prometheus.NewCounter(prometheus.CounterOpts{Name: "parseltongue_ingest_entities_modified_total", Help: "Entities classified Modified"})
		m.entitiesDeleted = prometheus.NewCounter(prometheus.CounterOpts{Name: "parseltongue_ingest_entities_deleted_total", Help: "Entities classified Deleted"})
		m.edgesUnresolved = prometheus.NewCounter(prometheus.CounterOpts{Name: "parseltongue_ingest_edges_unresolved_total", Help: "Dependency edges pointing at an unresolved callee"})
		m.batchesSent = prometheus.NewCounter(prometheus.CounterOpts{Name: "parseltongue_ingest_batches_sent_total", Help: "Datalog batches committed to the graph store"})

		buckets := []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
		m.parseDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "parseltongue_ingest_parse_seconds", Help: "Time spent parsing source files", Buckets: buckets})
		m.writeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "parseltongue_ingest_write_seconds", Help: "Time spent committing batches", Buckets: buckets})
		m.totalDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "parseltongue_ingest_total_seconds", Help: "Total duration of one ingest run", Buckets: buckets})

		prometheus.MustRegister(
			m.filesProcessed, m.filesIgnored, m.parseErrors,
			m.entitiesAdded, m.entitiesModified, m.entitiesDeleted, m.edgesUnresolved,
			m.batchesSent, m.parseDuration, m.writeDuration, m.totalDuration,
		)
	})
}
