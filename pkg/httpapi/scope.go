package httpapi

import (
	"context"
	"net/http"

	pterrors "github.com/parseltongue/parseltongue/internal/errors"
	"github.com/parseltongue/parseltongue/pkg/graphstore"
	"github.com/parseltongue/parseltongue/pkg/pathkey"
)

// resolveScope parses the request's ?scope= value and validates it
// against the store's known L1/L2 values, returning the Datalog filter
// fragment BuildScopeFilter produces. An unknown scope surfaces as a
// KindInvalidScope error carrying the fuzzy suggestion.
func resolveScope(ctx context.Context, store *graphstore.Store, r *http.Request) (string, error) {
	raw := r.URL.Query().Get("scope")
	l1, l2 := pathkey.ParseScope(raw)
	if l1 == "" {
		return "", nil
	}

	knownL1, knownL2, err := store.QueryKnownScopes(ctx, l1)
	if err != nil {
		return "", pterrors.NewKindError(pterrors.KindQueryError, "resolving scope", err)
	}

	filter, err := pathkey.BuildScopeFilter(l1, l2, knownL1, knownL2)
	if err != nil {
		return "", pterrors.NewKindError(pterrors.KindInvalidScope, err.Error(), nil)
	}
	return filter, nil
}
