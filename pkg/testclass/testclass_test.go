package testclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_FilenamePatterns(t *testing.T) {
	cases := []struct {
		path string
	}{
		{"pkg/auth/auth_test.go"},
		{"scripts/test_migrate.py"},
		{"src/utils.test.ts"},
		{"src/utils.spec.ts"},
	}
	for _, c := range cases {
		reason, isTest := Classify(c.path, "Helper", "")
		assert.True(t, isTest, c.path)
		assert.NotEmpty(t, reason)
	}
}

func TestClassify_DirectoryMarkers(t *testing.T) {
	reason, isTest := Classify("project/tests/fixtures.go", "LoadFixture", "")
	assert.True(t, isTest)
	assert.Contains(t, reason, "/tests/")
}

func TestClassify_NamePatterns(t *testing.T) {
	cases := []string{"test_login", "TestLogin", "LoginTest", "login_test"}
	for _, name := range cases {
		_, isTest := Classify("pkg/auth/auth.go", name, "")
		assert.True(t, isTest, name)
	}
}

func TestClassify_JSBlockBody(t *testing.T) {
	reason, isTest := Classify("src/auth.js", "anonymous", `describe("auth", () => {})`)
	assert.True(t, isTest)
	assert.Contains(t, reason, "describe")
}

func TestClassify_CodeEntityIsNotTest(t *testing.T) {
	reason, isTest := Classify("pkg/auth/auth.go", "HandleLogin", "func HandleLogin() {}")
	assert.False(t, isTest)
	assert.Empty(t, reason)
}
