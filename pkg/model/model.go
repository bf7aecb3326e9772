// Package model holds the row types shared across the ingestion,
// identity, storage, reindex, and query-engine packages: Entity,
// DependencyEdge, and the three diagnostic row kinds.
package model

// EntityClass partitions entities into the query-visible CODE set, the
// excluded TEST set, and schema-shaped definitions that don't carry
// executable behavior (struct/interface/type bodies).
type EntityClass string

const (
	ClassCode             EntityClass = "CODE"
	ClassTest             EntityClass = "TEST"
	ClassSchemaDefinition EntityClass = "SchemaDefinition"
)

// EdgeType enumerates the dependency relations tracked between entities.
type EdgeType string

const (
	EdgeCalls      EdgeType = "Calls"
	EdgeUses       EdgeType = "Uses"
	EdgeImplements EdgeType = "Implements"
	EdgeExtends    EdgeType = "Extends"
	EdgeContains   EdgeType = "Contains"
)

// Entity is a named code construct, keyed by the ISGL1 v2 grammar.
type Entity struct {
	Key             string      `json:"key"`
	Name            string      `json:"name"`
	EntityType      string      `json:"entity_type"`
	Language        string      `json:"language"`
	FilePath        string      `json:"file_path"`
	LineStart       int         `json:"line_start"`
	LineEnd         int         `json:"line_end"`
	RootSubfolderL1 string      `json:"root_subfolder_l1,omitempty"`
	RootSubfolderL2 string      `json:"root_subfolder_l2,omitempty"`
	EntityClass     EntityClass `json:"entity_class"`
	ContentHash     uint64      `json:"content_hash"`
	BirthTimestamp  int64       `json:"birth_timestamp"`
	SemanticPath    string      `json:"semantic_path"`
	Code            string      `json:"code,omitempty"`
	Signature       string      `json:"signature,omitempty"`
}

// DependencyEdge is a directed relation between two entities, or between
// an entity and an unresolved external reference.
type DependencyEdge struct {
	FromKey        string   `json:"from_key"`
	ToKey          string   `json:"to_key"`
	EdgeType       EdgeType `json:"edge_type"`
	SourceLocation string   `json:"source_location,omitempty"`
}

// FileWordCoverageRow records per-file parse quality diagnostics.
type FileWordCoverageRow struct {
	FolderPath          string
	Filename            string
	Language            string
	SourceWordCount     int
	EntityWordCount     int
	ImportWordCount     int
	CommentWordCount    int
	RawCoveragePct      float64
	EffectiveCoveragePct float64
	EntityCount         int
}

// ExcludedTestEntityRow records an entity classified as TEST and hence
// excluded from the default CODE-set query endpoints.
type ExcludedTestEntityRow struct {
	EntityName      string
	FolderPath      string
	Filename        string
	EntityClass     EntityClass
	Language        string
	LineStart       int
	LineEnd         int
	DetectionReason string
}

// IgnoredFileRow records a file skipped during ingestion because its
// extension maps to no known language.
type IgnoredFileRow struct {
	FolderPath string
	Filename   string
	Extension  string
	Reason     string
}

// ComputeCoverage derives raw/effective coverage percentages from word
// counts, per the Data Model invariant: raw may exceed 100% (entities
// double-count parent byte ranges), effective saturates at 100 when
// imports+comments consume the whole file.
func ComputeCoverage(sourceWords, entityWords, importWords, commentWords int) (raw, effective float64) {
	if sourceWords == 0 {
		return 0, 100
	}
	raw = 100 * float64(entityWords) / float64(sourceWords)

	nonEntitySource := sourceWords - importWords - commentWords
	if nonEntitySource <= 0 {
		return raw, 100
	}
	effective = 100 * float64(entityWords) / float64(nonEntitySource)
	if effective > 100 {
		effective = 100
	}
	return raw, effective
}
