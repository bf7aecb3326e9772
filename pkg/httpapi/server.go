package httpapi

import (
	"net/http"
	"time"

	"github.com/parseltongue/parseltongue/pkg/graphstore"
	"github.com/parseltongue/parseltongue/pkg/watcher"
)

// Server holds the dependencies every handler needs: the graph store, the
// watcher (for the status endpoint), and the process start time (for
// uptime reporting).
type Server struct {
	store     *graphstore.Store
	watcher   *watcher.Watcher
	startedAt time.Time
	mux       *http.ServeMux
}

// New builds a Server wiring every canonical endpoint into a ServeMux. w
// may be nil if the file watcher is disabled.
func New(store *graphstore.Store, w *watcher.Watcher) *Server {
	s := &Server{store: store, watcher: w, startedAt: time.Now(), mux: http.NewServeMux()}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/server-health-check-status", s.handleHealth)
	s.mux.HandleFunc("/codebase-statistics-overview-summary", s.handleStatsOverview)
	s.mux.HandleFunc("/api-reference-documentation-help", s.handleAPIReference)
	s.mux.HandleFunc("/code-entities-list-all", s.handleEntitiesListAll)
	s.mux.HandleFunc("/code-entity-detail-view", s.handleEntityDetail)
	s.mux.HandleFunc("/code-entities-search-fuzzy", s.handleEntitiesFuzzy)
	s.mux.HandleFunc("/dependency-edges-list-all", s.handleEdgesListAll)
	s.mux.HandleFunc("/reverse-callers-query-graph", s.handleReverseCallers)
	s.mux.HandleFunc("/forward-callees-query-graph", s.handleForwardCallees)
	s.mux.HandleFunc("/blast-radius-impact-analysis", s.handleBlastRadius)
	s.mux.HandleFunc("/circular-dependency-detection-scan", s.handleCycles)
	s.mux.HandleFunc("/complexity-hotspots-ranking-view", s.handleHotspots)
	s.mux.HandleFunc("/semantic-cluster-grouping-list", s.handleSemanticClusters)
	s.mux.HandleFunc("/smart-context-token-budget", s.handleSmartContext)
	s.mux.HandleFunc("/strongly-connected-components-detection", s.handleSCC)
	s.mux.HandleFunc("/kcore-decomposition-layering-view", s.handleKCore)
	s.mux.HandleFunc("/centrality-measures-entity-ranking", s.handleCentrality)
	s.mux.HandleFunc("/entropy-complexity-measurement-view", s.handleEntropy)
	s.mux.HandleFunc("/coupling-cohesion-metrics-report", s.handleCKMetrics)
	s.mux.HandleFunc("/technical-debt-sqale-rating-view", s.handleSQALE)
	s.mux.HandleFunc("/leiden-community-detection-report", s.handleLeiden)
	s.mux.HandleFunc("/folder-structure-discovery-tree", s.handleFolderTree)
	s.mux.HandleFunc("/ingestion-diagnostics-coverage-report", s.handleDiagnostics)
	s.mux.HandleFunc("/file-watcher-status-check", s.handleWatcherStatus)
	s.mux.HandleFunc("/incremental-reindex-file-update", s.handleReindexFile)
}
