package graphstore

// Relation names, per the Data Model's five analytical relations plus the
// file-hash cache that the incremental reindex short-circuit reads.
const (
	RelEntity       = "pt_entity"
	RelEdge         = "pt_edge"
	RelFileCoverage = "pt_file_coverage"
	RelTestExcluded = "pt_test_excluded"
	RelIgnoredFile  = "pt_ignored_file"
	RelFileHash     = "pt_file_hash"
)

var schemaStatements = []string{
	`:create ` + RelEntity + ` {
		key: String
		=>
		name: String,
		entity_type: String,
		language: String,
		file_path: String,
		line_start: Int,
		line_end: Int,
		root_subfolder_L1: String,
		root_subfolder_L2: String,
		entity_class: String,
		content_hash: Int,
		birth_timestamp: Int,
		semantic_path: String,
		code: String,
		signature: String,
	}`,
	`:create ` + RelEdge + ` {
		from_key: String,
		to_key: String,
		edge_type: String
		=>
		source_location: String,
	}`,
	`:create ` + RelFileCoverage + ` {
		folder_path: String,
		filename: String
		=>
		language: String,
		source_word_count: Int,
		entity_word_count: Int,
		import_word_count: Int,
		comment_word_count: Int,
		raw_coverage_pct: Float,
		effective_coverage_pct: Float,
		entity_count: Int,
	}`,
	`:create ` + RelTestExcluded + ` {
		entity_name: String,
		folder_path: String,
		filename: String
		=>
		entity_class: String,
		language: String,
		line_start: Int,
		line_end: Int,
		detection_reason: String,
	}`,
	`:create ` + RelIgnoredFile + ` {
		folder_path: String,
		filename: String
		=>
		extension: String,
		reason: String,
	}`,
	`:create ` + RelFileHash + ` {
		file_path: String
		=>
		content_hash: Int,
		last_ingested_at: Int,
	}`,
}

// createSchema applies every :create statement and ignores any error a
// statement returns, so opening a previously-ingested store (where each
// relation already exists) is a no-op. Errors other than "already exists"
// are ignored too.
func (s *Store) createSchema() error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.run(stmt, nil, false); err != nil {
			continue
		}
	}
	return nil
}
