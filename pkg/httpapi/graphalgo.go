package httpapi

import (
	"net/http"

	pterrors "github.com/parseltongue/parseltongue/internal/errors"
	"github.com/parseltongue/parseltongue/pkg/queryengine"
)

func (s *Server) handleBlastRadius(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/blast-radius-impact-analysis"
	entity, ok := requiredParam(r, "entity")
	if !ok {
		writeErr(w, endpoint, pterrors.NewKindError(pterrors.KindInvalidParameter, "missing required parameter: entity", nil))
		return
	}
	hops := intParam(r, "hops", 3)
	scopeFilter, err := resolveScope(r.Context(), s.store, r)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	g, err := loadGraph(r.Context(), s.store, scopeFilter)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	result, found := queryengine.BlastRadiusBFS(r.Context(), g, entity, hops)
	if !found {
		writeErr(w, endpoint, pterrors.NewKindError(pterrors.KindNotFound, "entity not found: "+entity, nil))
		return
	}
	writeOK(w, endpoint, result)
}

func (s *Server) handleCycles(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/circular-dependency-detection-scan"
	s.serveCycles(w, r, endpoint)
}

func (s *Server) handleSCC(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/strongly-connected-components-detection"
	s.serveCycles(w, r, endpoint)
}

func (s *Server) serveCycles(w http.ResponseWriter, r *http.Request, endpoint string) {
	scopeFilter, err := resolveScope(r.Context(), s.store, r)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	g, err := loadGraph(r.Context(), s.store, scopeFilter)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	writeOK(w, endpoint, queryengine.DetectCycles(g))
}

func (s *Server) handleHotspots(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/complexity-hotspots-ranking-view"
	top := intParam(r, "top", 10)
	scopeFilter, err := resolveScope(r.Context(), s.store, r)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	g, err := loadGraph(r.Context(), s.store, scopeFilter)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	scores := queryengine.SQALETechnicalDebt(g)
	if top < len(scores) {
		scores = scores[:top]
	}
	writeOK(w, endpoint, scores)
}

func (s *Server) handleSemanticClusters(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/semantic-cluster-grouping-list"
	scopeFilter, err := resolveScope(r.Context(), s.store, r)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	g, err := loadGraph(r.Context(), s.store, scopeFilter)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	writeOK(w, endpoint, queryengine.LabelPropagation(g))
}

func (s *Server) handleSmartContext(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/smart-context-token-budget"
	focus, ok := requiredParam(r, "focus")
	if !ok {
		writeErr(w, endpoint, pterrors.NewKindError(pterrors.KindInvalidParameter, "missing required parameter: focus", nil))
		return
	}
	tokens := intParam(r, "tokens", 4000)
	scopeFilter, err := resolveScope(r.Context(), s.store, r)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	g, err := loadGraph(r.Context(), s.store, scopeFilter)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	writeOK(w, endpoint, queryengine.SelectSmartContext(g, focus, tokens))
}

func (s *Server) handleKCore(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/kcore-decomposition-layering-view"
	scopeFilter, err := resolveScope(r.Context(), s.store, r)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	g, err := loadGraph(r.Context(), s.store, scopeFilter)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	writeOK(w, endpoint, queryengine.KCoreDecomposition(g))
}

func (s *Server) handleCentrality(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/centrality-measures-entity-ranking"
	method := r.URL.Query().Get("method")
	if method == "" {
		method = "pagerank"
	}
	scopeFilter, err := resolveScope(r.Context(), s.store, r)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	g, err := loadGraph(r.Context(), s.store, scopeFilter)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	top := intParam(r, "top", 0)
	switch method {
	case "pagerank":
		writeOK(w, endpoint, queryengine.PageRank(g, top))
	case "betweenness":
		writeOK(w, endpoint, queryengine.BetweennessCentrality(g))
	default:
		writeErr(w, endpoint, pterrors.NewKindError(pterrors.KindInvalidParameter, "unknown method: "+method, nil))
	}
}

func (s *Server) handleEntropy(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/entropy-complexity-measurement-view"
	scopeFilter, err := resolveScope(r.Context(), s.store, r)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	g, err := loadGraph(r.Context(), s.store, scopeFilter)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	writeOK(w, endpoint, queryengine.Entropy(g))
}

func (s *Server) handleCKMetrics(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/coupling-cohesion-metrics-report"
	scopeFilter, err := resolveScope(r.Context(), s.store, r)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	g, err := loadGraph(r.Context(), s.store, scopeFilter)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	writeOK(w, endpoint, queryengine.CKMetricsSuite(g))
}

func (s *Server) handleSQALE(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/technical-debt-sqale-rating-view"
	scopeFilter, err := resolveScope(r.Context(), s.store, r)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	g, err := loadGraph(r.Context(), s.store, scopeFilter)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	writeOK(w, endpoint, queryengine.SQALETechnicalDebt(g))
}

func (s *Server) handleLeiden(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/leiden-community-detection-report"
	scopeFilter, err := resolveScope(r.Context(), s.store, r)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	g, err := loadGraph(r.Context(), s.store, scopeFilter)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	writeOK(w, endpoint, queryengine.LeidenRefine(g))
}
