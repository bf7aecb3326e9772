package httpapi

import (
	"net/http"

	pterrors "github.com/parseltongue/parseltongue/internal/errors"
)

func (s *Server) handleEntitiesListAll(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/code-entities-list-all"
	scopeFilter, err := resolveScope(r.Context(), s.store, r)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	entityType := r.URL.Query().Get("entity_type")
	entities, err := s.store.QueryEntityTypeAndScope(r.Context(), entityType, scopeFilter)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	writeOK(w, endpoint, entities)
}

func (s *Server) handleEntityDetail(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/code-entity-detail-view"
	key, ok := requiredParam(r, "key")
	if !ok {
		writeErr(w, endpoint, pterrors.NewKindError(pterrors.KindInvalidParameter, "missing required parameter: key", nil))
		return
	}
	entity, ok, err := s.store.QueryEntityByKey(r.Context(), key)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	if !ok {
		writeErr(w, endpoint, pterrors.NewKindError(pterrors.KindNotFound, "entity not found: "+key, nil))
		return
	}
	writeOK(w, endpoint, entity)
}

func (s *Server) handleEntitiesFuzzy(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/code-entities-search-fuzzy"
	q, ok := requiredParam(r, "q")
	if !ok {
		writeErr(w, endpoint, pterrors.NewKindError(pterrors.KindInvalidParameter, "missing required parameter: q", nil))
		return
	}
	scopeFilter, err := resolveScope(r.Context(), s.store, r)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	entities, err := s.store.QueryEntitiesFuzzy(r.Context(), q, scopeFilter)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	writeOK(w, endpoint, entities)
}
