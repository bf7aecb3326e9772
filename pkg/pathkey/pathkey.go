// Package pathkey normalizes repository-relative file paths and encodes
// them into the entity key grammar described in the system's external
// interface: lang:type:name:file-slot:Ttimestamp.
package pathkey

import (
	"fmt"
	"path/filepath"
	"strings"
)

// UnresolvedTimestamp is the sentinel birth timestamp for edges that point
// at a callee never found in the indexed entity set.
const UnresolvedTimestamp = 0

// UnresolvedFileSlot is the sentinel file-slot for unresolved references.
const UnresolvedFileSlot = "unknown"

// Normalize converts path to forward slashes, strips a leading "./" and
// any leading "/", and cleans redundant separators. Mirrors the teacher's
// normalizePath but is exported as the single normalization point every
// other package should use instead of re-implementing it.
func Normalize(path string) string {
	if strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	path = filepath.ToSlash(filepath.Clean(path))
	if strings.HasPrefix(path, "/") {
		path = path[1:]
	}
	if path == "." {
		return ""
	}
	return path
}

// Subfolders returns the first two path components of a normalized,
// repo-relative path. Root-level files yield two empty strings.
func Subfolders(normalizedPath string) (l1, l2 string) {
	if normalizedPath == "" {
		return "", ""
	}
	parts := strings.Split(normalizedPath, "/")
	if len(parts) > 1 {
		l1 = parts[0]
	}
	if len(parts) > 2 {
		l2 = parts[1]
	}
	return l1, l2
}

// FileSlot encodes a normalized path into the key grammar's file-slot
// component: "__" followed by the path with "/" replaced by "_".
func FileSlot(normalizedPath string) string {
	if normalizedPath == "" {
		return "__"
	}
	return "__" + strings.ReplaceAll(normalizedPath, "/", "_")
}

// SanitizeName sanitizes an entity name for inclusion in a key: "::"
// becomes "__", backslashes become "_", and angle-bracketed generic
// parameters are stripped.
func SanitizeName(name string) string {
	name = stripGenerics(name)
	name = strings.ReplaceAll(name, "::", "__")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, ":", "_")
	return name
}

func stripGenerics(name string) string {
	if idx := strings.IndexByte(name, '<'); idx >= 0 {
		return name[:idx]
	}
	return name
}

// Key is the parsed form of an entity key.
type Key struct {
	Lang      string
	Type      string
	Name      string
	FileSlot  string
	Timestamp int64
}

// Unresolved reports whether this key is the sentinel for an external,
// unindexed reference (file-slot "unknown", timestamp 0).
func (k Key) Unresolved() bool {
	return k.FileSlot == UnresolvedFileSlot && k.Timestamp == UnresolvedTimestamp
}

// SemanticPath is the key with the ":T<timestamp>" suffix removed — the
// identity that survives a re-index.
func (k Key) SemanticPath() string {
	return fmt.Sprintf("%s:%s:%s:%s", k.Lang, k.Type, k.Name, k.FileSlot)
}

// Encode renders the key grammar string.
func (k Key) Encode() string {
	return fmt.Sprintf("%s:T%d", k.SemanticPath(), k.Timestamp)
}

// EncodeSemanticPath renders sp:T<timestamp> for a semantic path and
// timestamp obtained separately (used by the Matcher, which tracks the two
// independently).
func EncodeSemanticPath(semanticPath string, timestamp int64) string {
	return fmt.Sprintf("%s:T%d", semanticPath, timestamp)
}

// NewKey builds a Key from entity attributes, sanitizing the name and
// deriving the file slot from the path. filePath must already be
// repo-relative; callers normalize it first via Normalize.
func NewKey(lang, entityType, name, normalizedFilePath string, timestamp int64) Key {
	return Key{
		Lang:      lang,
		Type:      entityType,
		Name:      SanitizeName(name),
		FileSlot:  FileSlot(normalizedFilePath),
		Timestamp: timestamp,
	}
}

// UnresolvedKey builds the sentinel key for a callee identifier that
// doesn't resolve to any indexed entity.
func UnresolvedKey(lang, name string) Key {
	return Key{
		Lang:      lang,
		Type:      "ref",
		Name:      SanitizeName(name),
		FileSlot:  UnresolvedFileSlot,
		Timestamp: UnresolvedTimestamp,
	}
}

// Parse splits a key string produced by Encode back into its components.
// Returns an error if the string doesn't match the grammar.
func Parse(key string) (Key, error) {
	parts := strings.SplitN(key, ":", 5)
	if len(parts) != 5 {
		return Key{}, fmt.Errorf("pathkey: malformed key %q: expected 5 colon-separated fields, got %d", key, len(parts))
	}
	tsField := parts[4]
	if !strings.HasPrefix(tsField, "T") {
		return Key{}, fmt.Errorf("pathkey: malformed key %q: timestamp field must start with T", key)
	}
	var ts int64
	if _, err := fmt.Sscanf(tsField[1:], "%d", &ts); err != nil {
		return Key{}, fmt.Errorf("pathkey: malformed key %q: invalid timestamp: %w", key, err)
	}
	return Key{
		Lang:      parts[0],
		Type:      parts[1],
		Name:      parts[2],
		FileSlot:  parts[3],
		Timestamp: ts,
	}, nil
}
