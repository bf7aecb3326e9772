package httpapi

import (
	"net/http"

	pterrors "github.com/parseltongue/parseltongue/internal/errors"
)

type diagnosticsSummary struct {
	CoverageFileCount int `json:"coverage_file_count"`
	ExcludedCount     int `json:"excluded_count"`
	IgnoredCount      int `json:"ignored_count"`
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/ingestion-diagnostics-coverage-report"
	section := r.URL.Query().Get("section")
	if section == "" {
		section = "summary"
	}

	switch section {
	case "word_coverage":
		rows, err := s.store.QueryCoverageRows(r.Context())
		if err != nil {
			writeErr(w, endpoint, err)
			return
		}
		writeOK(w, endpoint, rows)
	case "test_entities":
		rows, err := s.store.QueryExcludedRows(r.Context())
		if err != nil {
			writeErr(w, endpoint, err)
			return
		}
		writeOK(w, endpoint, rows)
	case "ignored_files":
		rows, err := s.store.QueryIgnoredRows(r.Context())
		if err != nil {
			writeErr(w, endpoint, err)
			return
		}
		writeOK(w, endpoint, rows)
	case "summary":
		coverage, err := s.store.QueryCoverageRows(r.Context())
		if err != nil {
			writeErr(w, endpoint, err)
			return
		}
		excluded, err := s.store.QueryExcludedRows(r.Context())
		if err != nil {
			writeErr(w, endpoint, err)
			return
		}
		ignored, err := s.store.QueryIgnoredRows(r.Context())
		if err != nil {
			writeErr(w, endpoint, err)
			return
		}
		writeOK(w, endpoint, diagnosticsSummary{
			CoverageFileCount: len(coverage),
			ExcludedCount:     len(excluded),
			IgnoredCount:      len(ignored),
		})
	default:
		writeErr(w, endpoint, pterrors.NewKindError(pterrors.KindInvalidParameter, "unknown section: "+section, nil))
	}
}
