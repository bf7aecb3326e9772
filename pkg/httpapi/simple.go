package httpapi

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeOK(w, "/server-health-check-status", healthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
	})
}

type statsOverviewResponse struct {
	EntityCount int      `json:"entity_count"`
	EdgeCount   int      `json:"edge_count"`
	Languages   []string `json:"languages"`
}

func (s *Server) handleStatsOverview(w http.ResponseWriter, r *http.Request) {
	entityCount, edgeCount, languages, err := s.store.QueryCounts(r.Context())
	if err != nil {
		writeErr(w, "/codebase-statistics-overview-summary", err)
		return
	}
	writeOK(w, "/codebase-statistics-overview-summary", statsOverviewResponse{
		EntityCount: entityCount, EdgeCount: edgeCount, Languages: languages,
	})
}

type endpointDoc struct {
	Path   string `json:"path"`
	Method string `json:"method"`
	Params string `json:"params"`
}

var apiCatalog = []endpointDoc{
	{"/server-health-check-status", "GET", "—"},
	{"/codebase-statistics-overview-summary", "GET", "—"},
	{"/api-reference-documentation-help", "GET", "—"},
	{"/code-entities-list-all", "GET", "entity_type?, scope?"},
	{"/code-entity-detail-view", "GET", "key, scope?"},
	{"/code-entities-search-fuzzy", "GET", "q, scope?"},
	{"/dependency-edges-list-all", "GET", "limit?=100, offset?=0"},
	{"/reverse-callers-query-graph", "GET", "entity, scope?"},
	{"/forward-callees-query-graph", "GET", "entity, scope?"},
	{"/blast-radius-impact-analysis", "GET", "entity, hops?=3, scope?"},
	{"/circular-dependency-detection-scan", "GET", "scope?"},
	{"/complexity-hotspots-ranking-view", "GET", "top?=10, scope?"},
	{"/semantic-cluster-grouping-list", "GET", "scope?"},
	{"/smart-context-token-budget", "GET", "focus, tokens?=4000, scope?"},
	{"/strongly-connected-components-detection", "GET", "scope?"},
	{"/kcore-decomposition-layering-view", "GET", "scope?"},
	{"/centrality-measures-entity-ranking", "GET", "method=pagerank|betweenness, scope?"},
	{"/entropy-complexity-measurement-view", "GET", "scope?"},
	{"/coupling-cohesion-metrics-report", "GET", "scope?"},
	{"/technical-debt-sqale-rating-view", "GET", "scope?"},
	{"/leiden-community-detection-report", "GET", "scope?"},
	{"/folder-structure-discovery-tree", "GET", "—"},
	{"/ingestion-diagnostics-coverage-report", "GET", "section? in {summary, test_entities, word_coverage, ignored_files}"},
	{"/file-watcher-status-check", "GET", "—"},
	{"/incremental-reindex-file-update", "POST", "path"},
}

func (s *Server) handleAPIReference(w http.ResponseWriter, r *http.Request) {
	writeOK(w, "/api-reference-documentation-help", apiCatalog)
}

func (s *Server) handleFolderTree(w http.ResponseWriter, r *http.Request) {
	tree, err := s.store.QueryFolderTree(r.Context())
	if err != nil {
		writeErr(w, "/folder-structure-discovery-tree", err)
		return
	}
	writeOK(w, "/folder-structure-discovery-tree", tree)
}

func (s *Server) handleWatcherStatus(w http.ResponseWriter, r *http.Request) {
	if s.watcher == nil {
		writeOK(w, "/file-watcher-status-check", map[string]bool{"enabled": false})
		return
	}
	writeOK(w, "/file-watcher-status-check", s.watcher.StatusOf())
}
