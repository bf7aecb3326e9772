package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pterrors "github.com/parseltongue/parseltongue/internal/errors"
)

func TestWriteOK_EnvelopeShapeAndTokenEstimate(t *testing.T) {
	w := httptest.NewRecorder()
	writeOK(w, "/some-endpoint", map[string]string{"name": "A"})

	assert.Equal(t, http.StatusOK, w.Code)
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "/some-endpoint", env.Endpoint)
	assert.Empty(t, env.Error)
	assert.Greater(t, env.Tokens, 0)
}

func TestWriteErr_KindErrorMapsToStatusAndMessage(t *testing.T) {
	w := httptest.NewRecorder()
	writeErr(w, "/code-entity-detail-view", pterrors.NewKindError(pterrors.KindNotFound, "entity not found: X", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "not_found")
	assert.Contains(t, env.Error, "entity not found: X")
}

func TestWriteErr_PlainErrorFallsBackToQueryError(t *testing.T) {
	w := httptest.NewRecorder()
	writeErr(w, "/endpoint", assertErr("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Contains(t, env.Error, "query_error")
}

type assertErr string

func (e assertErr) Error() string { return string(e) }

func TestStatusForKind(t *testing.T) {
	cases := map[pterrors.Kind]int{
		pterrors.KindNotFound:         http.StatusNotFound,
		pterrors.KindInvalidScope:     http.StatusBadRequest,
		pterrors.KindInvalidParameter: http.StatusBadRequest,
		pterrors.KindReindexConflict:  http.StatusConflict,
		pterrors.KindStoreUnavailable: http.StatusServiceUnavailable,
		pterrors.KindQueryError:       http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, statusForKind(kind), "kind=%s", kind)
	}
}

func TestIntParam_FallsBackOnMissingOrInvalid(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=25&bad=notanumber", nil)
	assert.Equal(t, 25, intParam(r, "limit", 100))
	assert.Equal(t, 100, intParam(r, "offset", 100))
	assert.Equal(t, 7, intParam(r, "bad", 7))
}

func TestRequiredParam_ReportsPresence(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?key=abc", nil)
	v, ok := requiredParam(r, "key")
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	_, ok = requiredParam(r, "missing")
	assert.False(t, ok)
}

func TestResolveScope_EmptyScopeSkipsStoreLookup(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	filter, err := resolveScope(r.Context(), nil, r)
	require.NoError(t, err)
	assert.Empty(t, filter)
}

func TestHandleWatcherStatus_NilWatcherReportsDisabled(t *testing.T) {
	s := &Server{mux: http.NewServeMux()}
	r := httptest.NewRequest(http.MethodGet, "/file-watcher-status-check", nil)
	w := httptest.NewRecorder()
	s.handleWatcherStatus(w, r)

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)
	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, data["enabled"])
}

func TestHandleAPIReference_ListsEveryCatalogEntry(t *testing.T) {
	s := &Server{mux: http.NewServeMux()}
	r := httptest.NewRequest(http.MethodGet, "/api-reference-documentation-help", nil)
	w := httptest.NewRecorder()
	s.handleAPIReference(w, r)

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	data, ok := env.Data.([]any)
	require.True(t, ok)
	assert.Len(t, data, len(apiCatalog))
}
