package httpapi

import (
	"context"

	"github.com/parseltongue/parseltongue/pkg/graphstore"
	"github.com/parseltongue/parseltongue/pkg/queryengine"
)

// loadGraph builds a queryengine.Graph from every entity and edge in
// scopeFilter, the common first step of every Graph Query Engine
// endpoint.
func loadGraph(ctx context.Context, store *graphstore.Store, scopeFilter string) (*queryengine.Graph, error) {
	entities, err := store.QueryAllEntitiesScoped(ctx, scopeFilter)
	if err != nil {
		return nil, err
	}
	edges, err := store.QueryAllEdgesScoped(ctx, scopeFilter)
	if err != nil {
		return nil, err
	}
	return queryengine.BuildGraph(entities, edges), nil
}
