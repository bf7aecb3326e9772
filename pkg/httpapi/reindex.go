package httpapi

import (
	"net/http"
	"path/filepath"

	pterrors "github.com/parseltongue/parseltongue/internal/errors"
	"github.com/parseltongue/parseltongue/pkg/langreg"
	"github.com/parseltongue/parseltongue/pkg/reindex"
)

// handleReindexFile runs a synchronous incremental reindex of one file,
// the HTTP-triggered counterpart to the file watcher's debounced path. A
// fresh Reindexer is built per request since Reindexer only guards
// concurrent reindexes of the same path, not shared cross-request state.
func (s *Server) handleReindexFile(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/incremental-reindex-file-update"
	if r.Method != http.MethodPost {
		writeErr(w, endpoint, pterrors.NewKindError(pterrors.KindInvalidParameter, "method not allowed: "+r.Method, nil))
		return
	}
	path, ok := requiredParam(r, "path")
	if !ok {
		writeErr(w, endpoint, pterrors.NewKindError(pterrors.KindInvalidParameter, "missing required parameter: path", nil))
		return
	}
	if !filepath.IsAbs(path) {
		writeErr(w, endpoint, pterrors.NewKindError(pterrors.KindInvalidParameter, "path must be absolute: "+path, nil))
		return
	}
	lang, ok := langreg.ByExtension(filepath.Ext(path))
	if !ok {
		writeErr(w, endpoint, pterrors.NewKindError(pterrors.KindUnsupportedLanguage, "no language registered for: "+path, nil))
		return
	}

	rx := reindex.New(s.store)
	result, err := rx.ReindexFile(r.Context(), path, path, lang)
	if err != nil {
		writeErr(w, endpoint, err)
		return
	}
	writeOK(w, endpoint, result)
}
