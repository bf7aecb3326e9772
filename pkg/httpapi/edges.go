package httpapi

import (
	"net/http"

	pterrors "github.com/parseltongue/parseltongue/internal/errors"
)

func (s *Server) handleEdgesListAll(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/dependency-edges-list-all"
	limit := intParam(r, "limit", 100)
	offset := intParam(r, "offset", 0)
	edges, err := s.store.QueryEdgesPaged(r.Context(), limit, offset)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	writeOK(w, endpoint, edges)
}

func (s *Server) handleReverseCallers(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/reverse-callers-query-graph"
	entity, ok := requiredParam(r, "entity")
	if !ok {
		writeErr(w, endpoint, pterrors.NewKindError(pterrors.KindInvalidParameter, "missing required parameter: entity", nil))
		return
	}
	edges, err := s.store.QueryReverseCallers(r.Context(), entity)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	writeOK(w, endpoint, edges)
}

func (s *Server) handleForwardCallees(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/forward-callees-query-graph"
	entity, ok := requiredParam(r, "entity")
	if !ok {
		writeErr(w, endpoint, pterrors.NewKindError(pterrors.KindInvalidParameter, "missing required parameter: entity", nil))
		return
	}
	edges, err := s.store.QueryForwardCallees(r.Context(), entity)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	writeOK(w, endpoint, edges)
}
