// Package httpapi exposes the Graph Store and Graph Query Engine over
// HTTP: every endpoint answers the {success, endpoint, data, tokens}
// envelope, scope-filters via ?scope=, and surfaces failures as a
// machine-readable error kind rather than a bare HTTP status.
package httpapi

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	pterrors "github.com/parseltongue/parseltongue/internal/errors"
)

// Envelope is the response shape every endpoint returns.
type Envelope struct {
	Success  bool   `json:"success"`
	Endpoint string `json:"endpoint"`
	Data     any    `json:"data,omitempty"`
	Error    string `json:"error,omitempty"`
	Tokens   int    `json:"tokens"`
}

// estimateTokens applies the chars/4 heuristic to a marshaled payload.
func estimateTokens(data any) int {
	b, err := json.Marshal(data)
	if err != nil {
		return 0
	}
	return len(b) / 4
}

func writeOK(w http.ResponseWriter, endpoint string, data any) {
	env := Envelope{Success: true, Endpoint: endpoint, Data: data, Tokens: estimateTokens(data)}
	writeJSON(w, http.StatusOK, env)
}

func writeErr(w http.ResponseWriter, endpoint string, err error) {
	kind := pterrors.KindQueryError
	msg := err.Error()
	var ke *pterrors.KindError
	if stderrors.As(err, &ke) {
		kind = ke.Kind
		msg = ke.Error()
	}
	env := Envelope{Success: false, Endpoint: endpoint, Error: string(kind) + ": " + msg}
	writeJSON(w, statusForKind(kind), env)
}

func statusForKind(k pterrors.Kind) int {
	switch k {
	case pterrors.KindNotFound:
		return http.StatusNotFound
	case pterrors.KindInvalidScope, pterrors.KindInvalidParameter:
		return http.StatusBadRequest
	case pterrors.KindReindexConflict:
		return http.StatusConflict
	case pterrors.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}
