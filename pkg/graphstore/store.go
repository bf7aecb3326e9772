package graphstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/parseltongue/parseltongue/pkg/model"
)

// Config configures a Store, mirroring the teacher's EmbeddedConfig shape.
type Config struct {
	// DataDir is where the engine persists its files. Ignored for "mem".
	DataDir string
	// Engine selects the storage engine: "rocksdb" (default), "sqlite", or "mem".
	Engine string
}

// Store is the Graph Store Adapter: an open CozoDB instance plus the
// relation schema and batching the rest of the pipeline relies on.
type Store struct {
	db     *db
	mu     sync.RWMutex
	closed bool
}

// Open opens (creating if absent) a CozoDB-backed Store and applies the
// relation schema. Safe to call against an already-ingested data
// directory — schema application is idempotent.
func Open(cfg Config) (*Store, error) {
	if cfg.Engine == "" {
		cfg.Engine = "rocksdb"
	}
	if cfg.Engine != "mem" {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("graphstore: create data dir: %w", err)
		}
	}

	d, err := openDB(cfg.Engine, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("graphstore: open %s store at %s: %w", cfg.Engine, cfg.DataDir, err)
	}

	s := &Store{db: d}
	if err := s.createSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.db.close()
	return nil
}

// RunQuery executes a read-only Datalog query.
func (s *Store) RunQuery(ctx context.Context, script string) (NamedRows, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return NamedRows{}, fmt.Errorf("graphstore: store is closed")
	}
	select {
	case <-ctx.Done():
		return NamedRows{}, ctx.Err()
	default:
	}
	return s.db.run(script, nil, true)
}

// Execute runs a Datalog mutation script in a single call to the engine.
// It does not split the script; callers that batch with Batcher call
// Execute once per batch.
func (s *Store) Execute(ctx context.Context, script string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("graphstore: store is closed")
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	_, err := s.db.run(script, nil, false)
	return err
}

// BackupToFile writes a full database snapshot to outPath.
func (s *Store) BackupToFile(outPath string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return fmt.Errorf("graphstore: store is closed")
	}
	return s.db.backup(outPath)
}

// InsertEntitiesScript builds a :put statement inserting rows into
// pt_entity, one row per entity.
func InsertEntitiesScript(entities []model.Entity) string {
	if len(entities) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("?[key, name, entity_type, language, file_path, line_start, line_end, root_subfolder_L1, root_subfolder_L2, entity_class, content_hash, birth_timestamp, semantic_path, code, signature] <- [\n")
	for i, e := range entities {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "\t[%q, %q, %q, %q, %q, %d, %d, %q, %q, %q, %d, %d, %q, %q, %q]",
			e.Key, e.Name, e.EntityType, e.Language, e.FilePath, e.LineStart, e.LineEnd,
			e.RootSubfolderL1, e.RootSubfolderL2, string(e.EntityClass), int64(e.ContentHash),
			e.BirthTimestamp, e.SemanticPath, e.Code, e.Signature)
	}
	b.WriteString("\n]\n")
	fmt.Fprintf(&b, ":put %s { key => name, entity_type, language, file_path, line_start, line_end, root_subfolder_L1, root_subfolder_L2, entity_class, content_hash, birth_timestamp, semantic_path, code, signature }\n", RelEntity)
	return b.String()
}

// InsertEdgesScript builds a :put statement inserting rows into pt_edge.
func InsertEdgesScript(edges []model.DependencyEdge) string {
	if len(edges) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("?[from_key, to_key, edge_type, source_location] <- [\n")
	for i, e := range edges {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "\t[%q, %q, %q, %q]", e.FromKey, e.ToKey, string(e.EdgeType), e.SourceLocation)
	}
	b.WriteString("\n]\n")
	fmt.Fprintf(&b, ":put %s { from_key, to_key, edge_type => source_location }\n", RelEdge)
	return b.String()
}

// DeleteEntitiesByKeysScript removes rows from pt_entity by primary key.
func DeleteEntitiesByKeysScript(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("?[key] <- [\n")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "\t[%q]", k)
	}
	b.WriteString("\n]\n")
	fmt.Fprintf(&b, ":rm %s { key }\n", RelEntity)
	return b.String()
}

// DeleteEdgesFromFileScript removes every edge whose from_key embeds the
// given file slot, per the incremental-reindex step that replaces all
// edges originating from a re-parsed file before inserting the fresh set.
func DeleteEdgesFromFileScript(fileSlot string) string {
	return fmt.Sprintf(`
?[from_key, to_key, edge_type] := *%s { from_key, to_key, edge_type }, str_includes(from_key, %q)
:rm %s { from_key, to_key, edge_type }
`, RelEdge, fileSlot, RelEdge)
}

// UpsertFileHashScript records the content hash last ingested for a file,
// the cache the reindex short-circuit reads before re-parsing.
func UpsertFileHashScript(filePath string, hash uint64, ingestedAt int64) string {
	return fmt.Sprintf(`
?[file_path, content_hash, last_ingested_at] <- [[%q, %d, %d]]
:put %s { file_path => content_hash, last_ingested_at }
`, filePath, int64(hash), ingestedAt, RelFileHash)
}

// QueryStoredFileHash looks up the cached content hash for a file, used to
// short-circuit a reindex when the file is unchanged on disk.
func (s *Store) QueryStoredFileHash(ctx context.Context, filePath string) (uint64, bool, error) {
	script := fmt.Sprintf(`?[content_hash] := *%s { file_path, content_hash }, file_path = %q`, RelFileHash, filePath)
	rows, err := s.RunQuery(ctx, script)
	if err != nil {
		return 0, false, err
	}
	if len(rows.Rows) == 0 {
		return 0, false, nil
	}
	return toUint64(rows.Rows[0][0]), true, nil
}

const entityColumns = "key, name, entity_type, language, file_path, line_start, line_end, root_subfolder_L1, root_subfolder_L2, entity_class, content_hash, birth_timestamp, semantic_path, code, signature"

func entityFromRow(r []any) model.Entity {
	return model.Entity{
		Key:             toString(r[0]),
		Name:            toString(r[1]),
		EntityType:      toString(r[2]),
		Language:        toString(r[3]),
		FilePath:        toString(r[4]),
		LineStart:       int(toInt64(r[5])),
		LineEnd:         int(toInt64(r[6])),
		RootSubfolderL1: toString(r[7]),
		RootSubfolderL2: toString(r[8]),
		EntityClass:     model.EntityClass(toString(r[9])),
		ContentHash:     toUint64(r[10]),
		BirthTimestamp:  toInt64(r[11]),
		SemanticPath:    toString(r[12]),
		Code:            toString(r[13]),
		Signature:       toString(r[14]),
	}
}

func entitiesFromRows(rows NamedRows) []model.Entity {
	out := make([]model.Entity, 0, len(rows.Rows))
	for _, r := range rows.Rows {
		out = append(out, entityFromRow(r))
	}
	return out
}

// QueryEntitiesForFile fetches every stored entity whose file_path
// matches, the "old" side of a reindex Match call.
func (s *Store) QueryEntitiesForFile(ctx context.Context, filePath string) ([]model.Entity, error) {
	script := fmt.Sprintf(`
?[%s] :=
	*%s { %s },
	file_path = %q
`, entityColumns, RelEntity, entityColumns, filePath)

	rows, err := s.RunQuery(ctx, script)
	if err != nil {
		return nil, err
	}
	return entitiesFromRows(rows), nil
}

// QueryEntityByKey fetches a single entity by its primary key.
func (s *Store) QueryEntityByKey(ctx context.Context, key string) (model.Entity, bool, error) {
	script := fmt.Sprintf(`
?[%s] :=
	*%s { %s },
	key = %q
`, entityColumns, RelEntity, entityColumns, key)

	rows, err := s.RunQuery(ctx, script)
	if err != nil {
		return model.Entity{}, false, err
	}
	if len(rows.Rows) == 0 {
		return model.Entity{}, false, nil
	}
	return entityFromRow(rows.Rows[0]), true, nil
}

// QueryEntitiesFuzzy returns every entity whose name contains the query
// substring, case-insensitively, scoped by scopeFilter (a fragment from
// pathkey.BuildScopeFilter, or "" for no scope). Filters case-insensitive
// substring matching in Go rather than a Datalog string function, since
// Cozo's case-folding builtins aren't exercised anywhere else in this
// codebase and the relation is small enough that fetch-then-filter costs
// nothing extra.
func (s *Store) QueryEntitiesFuzzy(ctx context.Context, q, scopeFilter string) ([]model.Entity, error) {
	all, err := s.QueryAllEntitiesScoped(ctx, scopeFilter)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(q)
	out := make([]model.Entity, 0, len(all))
	for _, e := range all {
		if strings.Contains(strings.ToLower(e.Name), needle) {
			out = append(out, e)
		}
	}
	return out, nil
}

// QueryEntityTypeAndScope lists entities filtered by optional entityType
// (empty = all) and scopeFilter (a fragment from pathkey.BuildScopeFilter).
func (s *Store) QueryEntityTypeAndScope(ctx context.Context, entityType, scopeFilter string) ([]model.Entity, error) {
	typeClause := ""
	if entityType != "" {
		typeClause = fmt.Sprintf(", entity_type = %q", entityType)
	}
	script := fmt.Sprintf(`
?[%s] :=
	*%s { %s }%s%s
`, entityColumns, RelEntity, entityColumns, typeClause, scopeFilter)

	rows, err := s.RunQuery(ctx, script)
	if err != nil {
		return nil, err
	}
	return entitiesFromRows(rows), nil
}

// QueryAllEntitiesScoped lists every entity in scopeFilter, the input to
// every Graph Query Engine algorithm.
func (s *Store) QueryAllEntitiesScoped(ctx context.Context, scopeFilter string) ([]model.Entity, error) {
	return s.QueryEntityTypeAndScope(ctx, "", scopeFilter)
}

const edgeColumns = "from_key, to_key, edge_type, source_location"

func edgeFromRow(r []any) model.DependencyEdge {
	return model.DependencyEdge{
		FromKey:        toString(r[0]),
		ToKey:          toString(r[1]),
		EdgeType:       model.EdgeType(toString(r[2])),
		SourceLocation: toString(r[3]),
	}
}

func edgesFromRows(rows NamedRows) []model.DependencyEdge {
	out := make([]model.DependencyEdge, 0, len(rows.Rows))
	for _, r := range rows.Rows {
		out = append(out, edgeFromRow(r))
	}
	return out
}

// QueryAllEdgesScoped lists every edge whose source entity falls in
// scopeFilter (edges to out-of-scope or unresolved callees are still
// included, since the query engine's Graph keeps raw and scoped adjacency
// distinct). An unscoped query (scopeFilter == "") skips the entity lookup
// entirely and returns every stored edge.
func (s *Store) QueryAllEdgesScoped(ctx context.Context, scopeFilter string) ([]model.DependencyEdge, error) {
	script := fmt.Sprintf(`?[%s] := *%s { %s }`, edgeColumns, RelEdge, edgeColumns)
	rows, err := s.RunQuery(ctx, script)
	if err != nil {
		return nil, err
	}
	all := edgesFromRows(rows)
	if scopeFilter == "" {
		return all, nil
	}

	scoped, err := s.QueryAllEntitiesScoped(ctx, scopeFilter)
	if err != nil {
		return nil, err
	}
	inScope := make(map[string]bool, len(scoped))
	for _, e := range scoped {
		inScope[e.Key] = true
	}

	out := make([]model.DependencyEdge, 0, len(all))
	for _, e := range all {
		if inScope[e.FromKey] {
			out = append(out, e)
		}
	}
	return out, nil
}

// QueryEdgesPaged lists edges with a limit/offset, for the unscoped
// dependency-edge listing endpoint.
func (s *Store) QueryEdgesPaged(ctx context.Context, limit, offset int) ([]model.DependencyEdge, error) {
	script := fmt.Sprintf(`
?[%s] := *%s { %s }
:limit %d
:offset %d
`, edgeColumns, RelEdge, edgeColumns, limit, offset)

	rows, err := s.RunQuery(ctx, script)
	if err != nil {
		return nil, err
	}
	return edgesFromRows(rows), nil
}

// QueryReverseCallers returns every edge whose to_key is entityKey.
func (s *Store) QueryReverseCallers(ctx context.Context, entityKey string) ([]model.DependencyEdge, error) {
	script := fmt.Sprintf(`?[%s] := *%s { %s }, to_key = %q`, edgeColumns, RelEdge, edgeColumns, entityKey)
	rows, err := s.RunQuery(ctx, script)
	if err != nil {
		return nil, err
	}
	return edgesFromRows(rows), nil
}

// QueryForwardCallees returns every edge whose from_key is entityKey.
func (s *Store) QueryForwardCallees(ctx context.Context, entityKey string) ([]model.DependencyEdge, error) {
	script := fmt.Sprintf(`?[%s] := *%s { %s }, from_key = %q`, edgeColumns, RelEdge, edgeColumns, entityKey)
	rows, err := s.RunQuery(ctx, script)
	if err != nil {
		return nil, err
	}
	return edgesFromRows(rows), nil
}

// QueryKnownScopes returns the distinct L1 values, and (if l1 is set) the
// distinct L2 values under that L1 — the known-value sets BuildScopeFilter
// validates a requested scope against.
func (s *Store) QueryKnownScopes(ctx context.Context, l1 string) (l1s, l2s []string, err error) {
	rows, err := s.RunQuery(ctx, fmt.Sprintf(`?[root_subfolder_L1] := *%s { root_subfolder_L1 }`, RelEntity))
	if err != nil {
		return nil, nil, err
	}
	seen := make(map[string]bool)
	for _, r := range rows.Rows {
		v := toString(r[0])
		if v != "" && !seen[v] {
			seen[v] = true
			l1s = append(l1s, v)
		}
	}

	if l1 == "" {
		return l1s, nil, nil
	}
	rows, err = s.RunQuery(ctx, fmt.Sprintf(`?[root_subfolder_L2] := *%s { root_subfolder_L1, root_subfolder_L2 }, root_subfolder_L1 = %q`, RelEntity, l1))
	if err != nil {
		return l1s, nil, err
	}
	seen2 := make(map[string]bool)
	for _, r := range rows.Rows {
		v := toString(r[0])
		if v != "" && !seen2[v] {
			seen2[v] = true
			l2s = append(l2s, v)
		}
	}
	return l1s, l2s, nil
}

// QueryFolderTree returns the distinct (L1, L2) pairs present, for the
// folder-structure discovery endpoint.
func (s *Store) QueryFolderTree(ctx context.Context) (map[string][]string, error) {
	rows, err := s.RunQuery(ctx, fmt.Sprintf(`?[root_subfolder_L1, root_subfolder_L2] := *%s { root_subfolder_L1, root_subfolder_L2 }`, RelEntity))
	if err != nil {
		return nil, err
	}
	tree := make(map[string][]string)
	seen := make(map[string]map[string]bool)
	for _, r := range rows.Rows {
		l1, l2 := toString(r[0]), toString(r[1])
		if seen[l1] == nil {
			seen[l1] = make(map[string]bool)
		}
		if l2 != "" && !seen[l1][l2] {
			seen[l1][l2] = true
			tree[l1] = append(tree[l1], l2)
		} else if l2 == "" {
			if _, ok := tree[l1]; !ok {
				tree[l1] = nil
			}
		}
	}
	return tree, nil
}

// QueryCounts returns the total entity and edge counts, plus the distinct
// languages present, for the statistics-overview endpoint. Counts in Go
// rather than a Datalog aggregate, since the relation sizes here (one row
// per indexed entity/edge) are small enough that fetch-then-len costs
// nothing extra and avoids depending on Cozo aggregate syntax this
// codebase doesn't otherwise exercise.
func (s *Store) QueryCounts(ctx context.Context) (entityCount, edgeCount int, languages []string, err error) {
	rows, err := s.RunQuery(ctx, fmt.Sprintf(`?[key] := *%s { key }`, RelEntity))
	if err != nil {
		return 0, 0, nil, err
	}
	entityCount = len(rows.Rows)

	rows, err = s.RunQuery(ctx, fmt.Sprintf(`?[from_key] := *%s { from_key }`, RelEdge))
	if err != nil {
		return 0, 0, nil, err
	}
	edgeCount = len(rows.Rows)

	rows, err = s.RunQuery(ctx, fmt.Sprintf(`?[language] := *%s { language }`, RelEntity))
	if err != nil {
		return 0, 0, nil, err
	}
	seen := make(map[string]bool)
	for _, r := range rows.Rows {
		l := toString(r[0])
		if !seen[l] {
			seen[l] = true
			languages = append(languages, l)
		}
	}
	return entityCount, edgeCount, languages, nil
}

// QueryCoverageRows lists every pt_file_coverage row.
func (s *Store) QueryCoverageRows(ctx context.Context) ([]model.FileWordCoverageRow, error) {
	script := fmt.Sprintf(`
?[folder_path, filename, language, source_word_count, entity_word_count, import_word_count, comment_word_count, raw_coverage_pct, effective_coverage_pct, entity_count] :=
	*%s { folder_path, filename, language, source_word_count, entity_word_count, import_word_count, comment_word_count, raw_coverage_pct, effective_coverage_pct, entity_count }
`, RelFileCoverage)
	rows, err := s.RunQuery(ctx, script)
	if err != nil {
		return nil, err
	}
	out := make([]model.FileWordCoverageRow, 0, len(rows.Rows))
	for _, r := range rows.Rows {
		out = append(out, model.FileWordCoverageRow{
			FolderPath: toString(r[0]), Filename: toString(r[1]), Language: toString(r[2]),
			SourceWordCount: int(toInt64(r[3])), EntityWordCount: int(toInt64(r[4])),
			ImportWordCount: int(toInt64(r[5])), CommentWordCount: int(toInt64(r[6])),
			RawCoveragePct: toFloat64(r[7]), EffectiveCoveragePct: toFloat64(r[8]),
			EntityCount: int(toInt64(r[9])),
		})
	}
	return out, nil
}

// QueryExcludedRows lists every pt_test_excluded row.
func (s *Store) QueryExcludedRows(ctx context.Context) ([]model.ExcludedTestEntityRow, error) {
	script := fmt.Sprintf(`
?[entity_name, folder_path, filename, entity_class, language, line_start, line_end, detection_reason] :=
	*%s { entity_name, folder_path, filename, entity_class, language, line_start, line_end, detection_reason }
`, RelTestExcluded)
	rows, err := s.RunQuery(ctx, script)
	if err != nil {
		return nil, err
	}
	out := make([]model.ExcludedTestEntityRow, 0, len(rows.Rows))
	for _, r := range rows.Rows {
		out = append(out, model.ExcludedTestEntityRow{
			EntityName: toString(r[0]), FolderPath: toString(r[1]), Filename: toString(r[2]),
			EntityClass: model.EntityClass(toString(r[3])), Language: toString(r[4]),
			LineStart: int(toInt64(r[5])), LineEnd: int(toInt64(r[6])), DetectionReason: toString(r[7]),
		})
	}
	return out, nil
}

// QueryIgnoredRows lists every pt_ignored_file row.
func (s *Store) QueryIgnoredRows(ctx context.Context) ([]model.IgnoredFileRow, error) {
	script := fmt.Sprintf(`?[folder_path, filename, extension, reason] := *%s { folder_path, filename, extension, reason }`, RelIgnoredFile)
	rows, err := s.RunQuery(ctx, script)
	if err != nil {
		return nil, err
	}
	out := make([]model.IgnoredFileRow, 0, len(rows.Rows))
	for _, r := range rows.Rows {
		out = append(out, model.IgnoredFileRow{
			FolderPath: toString(r[0]), Filename: toString(r[1]), Extension: toString(r[2]), Reason: toString(r[3]),
		})
	}
	return out, nil
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	}
	return 0
}

func toUint64(v any) uint64 {
	return uint64(toInt64(v))
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

// InsertCoverageScript builds a :put statement for pt_file_coverage rows.
func InsertCoverageScript(rows []model.FileWordCoverageRow) string {
	if len(rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("?[folder_path, filename, language, source_word_count, entity_word_count, import_word_count, comment_word_count, raw_coverage_pct, effective_coverage_pct, entity_count] <- [\n")
	for i, r := range rows {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "\t[%q, %q, %q, %d, %d, %d, %d, %f, %f, %d]",
			r.FolderPath, r.Filename, r.Language, r.SourceWordCount, r.EntityWordCount,
			r.ImportWordCount, r.CommentWordCount, r.RawCoveragePct, r.EffectiveCoveragePct, r.EntityCount)
	}
	b.WriteString("\n]\n")
	fmt.Fprintf(&b, ":put %s { folder_path, filename => language, source_word_count, entity_word_count, import_word_count, comment_word_count, raw_coverage_pct, effective_coverage_pct, entity_count }\n", RelFileCoverage)
	return b.String()
}

// InsertExcludedScript builds a :put statement for pt_test_excluded rows.
func InsertExcludedScript(rows []model.ExcludedTestEntityRow) string {
	if len(rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("?[entity_name, folder_path, filename, entity_class, language, line_start, line_end, detection_reason] <- [\n")
	for i, r := range rows {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "\t[%q, %q, %q, %q, %q, %d, %d, %q]",
			r.EntityName, r.FolderPath, r.Filename, string(r.EntityClass), r.Language, r.LineStart, r.LineEnd, r.DetectionReason)
	}
	b.WriteString("\n]\n")
	fmt.Fprintf(&b, ":put %s { entity_name, folder_path, filename => entity_class, language, line_start, line_end, detection_reason }\n", RelTestExcluded)
	return b.String()
}

// InsertIgnoredScript builds a :put statement for pt_ignored_file rows.
func InsertIgnoredScript(rows []model.IgnoredFileRow) string {
	if len(rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("?[folder_path, filename, extension, reason] <- [\n")
	for i, r := range rows {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "\t[%q, %q, %q, %q]", r.FolderPath, r.Filename, r.Extension, r.Reason)
	}
	b.WriteString("\n]\n")
	fmt.Fprintf(&b, ":put %s { folder_path, filename => extension, reason }\n", RelIgnoredFile)
	return b.String()
}

// DataDirForProject joins a base directory with a project ID; an empty
// project ID returns base unchanged, which is how the ingest command
// calls it.
func DataDirForProject(base, projectID string) string {
	if projectID == "" {
		return base
	}
	return filepath.Join(base, projectID)
}
