// Package testclass implements the Test Classifier: deciding whether an
// entity belongs to the excluded TEST set by filename, directory, or name
// pattern, and recording which rule fired.
package testclass

import (
	"path/filepath"
	"strings"
)

var testFilenamePatterns = []struct {
	reason string
	match  func(name string) bool
}{
	{"filename matches *_test.*", func(n string) bool { return hasSuffixAfterUnderscore(n, "_test") }},
	{"filename matches test_*.*", func(n string) bool { return strings.HasPrefix(n, "test_") }},
	{"filename matches *.test.*", func(n string) bool { return strings.Contains(n, ".test.") }},
	{"filename matches *.spec.*", func(n string) bool { return strings.Contains(n, ".spec.") }},
}

var testDirMarkers = []string{"/tests/", "/test/", "/__tests__/", "/spec/"}

var testNamePatterns = []struct {
	reason string
	match  func(name string) bool
}{
	{"entity name matches test_*", func(n string) bool { return strings.HasPrefix(n, "test_") }},
	{"entity name matches Test*", func(n string) bool { return strings.HasPrefix(n, "Test") }},
	{"entity name matches *Test", func(n string) bool { return strings.HasSuffix(n, "Test") }},
	{"entity name matches *_test", func(n string) bool { return strings.HasSuffix(n, "_test") }},
}

// hasSuffixAfterUnderscore checks "name_test.ext" shapes where the
// filename (without extension) ends in "_test".
func hasSuffixAfterUnderscore(filename, suffix string) bool {
	base := filename
	if idx := strings.LastIndex(base, "."); idx >= 0 {
		base = base[:idx]
	}
	return strings.HasSuffix(base, suffix)
}

// Classify decides whether an entity is TEST, returning the triggering
// rule's description as detectionReason, or ("", false) if the entity
// belongs to the CODE set.
//
// filePath is the normalized, repo-relative path; entityName and
// entityBody are the extracted entity's name and (for JS/TS it(...)/
// describe(...) block detection) source text.
func Classify(filePath, entityName, entityBody string) (detectionReason string, isTest bool) {
	filename := filepath.Base(filePath)
	slashPath := "/" + filePath + "/"

	for _, p := range testFilenamePatterns {
		if p.match(filename) {
			return p.reason, true
		}
	}

	for _, marker := range testDirMarkers {
		if strings.Contains(slashPath, marker) {
			return "directory path contains " + marker, true
		}
	}

	for _, p := range testNamePatterns {
		if p.match(entityName) {
			return p.reason, true
		}
	}

	trimmedBody := strings.TrimSpace(entityBody)
	if strings.HasPrefix(trimmedBody, "it(") || strings.HasPrefix(trimmedBody, "describe(") {
		return "it(...)/describe(...) block", true
	}

	return "", false
}
