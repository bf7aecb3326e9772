package pathkey

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"./src/auth.rs":  "src/auth.rs",
		"src/auth.rs":    "src/auth.rs",
		"/src/auth.rs":   "src/auth.rs",
		"src//auth.rs":   "src/auth.rs",
		".":              "",
		"":                "",
	}
	for in, want := range cases {
		require.Equal(t, want, Normalize(in), "input %q", in)
	}
}

func TestSubfolders(t *testing.T) {
	l1, l2 := Subfolders("crates/core/lib.rs")
	require.Equal(t, "crates", l1)
	require.Equal(t, "core", l2)

	l1, l2 = Subfolders("main.go")
	require.Equal(t, "", l1)
	require.Equal(t, "", l2)

	l1, l2 = Subfolders("pkg/foo.go")
	require.Equal(t, "pkg", l1)
	require.Equal(t, "", l2)
}

func TestFileSlotEncoding(t *testing.T) {
	require.Equal(t, "__src_auth_rs", FileSlot("src/auth.rs"))
	require.Equal(t, "__", FileSlot(""))
}

func TestSanitizeName(t *testing.T) {
	require.Equal(t, "Vec", SanitizeName("Vec<T>"))
	require.Equal(t, "foo__bar", SanitizeName("foo::bar"))
	require.Equal(t, "foo_bar", SanitizeName("foo\\bar"))
}

func TestKeyRoundTrip(t *testing.T) {
	k := NewKey("rust", "fn", "foo::bar<T>", "src/auth.rs", 1700000000)
	encoded := k.Encode()

	parsed, err := Parse(encoded)
	require.NoError(t, err)
	require.Equal(t, k.Lang, parsed.Lang)
	require.Equal(t, k.Type, parsed.Type)
	require.Equal(t, k.Name, parsed.Name)
	require.Equal(t, k.FileSlot, parsed.FileSlot)
	require.Equal(t, k.Timestamp, parsed.Timestamp)
}

func TestKeyStableUnderTimestampOnly(t *testing.T) {
	k1 := NewKey("go", "fn", "Foo", "pkg/a.go", 100)
	k2 := NewKey("go", "fn", "Foo", "pkg/a.go", 200)
	require.Equal(t, k1.SemanticPath(), k2.SemanticPath())
	require.NotEqual(t, k1.Encode(), k2.Encode())
}

func TestUnresolvedKey(t *testing.T) {
	k := UnresolvedKey("go", "fmt.Println")
	require.True(t, k.Unresolved())
	require.Equal(t, UnresolvedFileSlot, k.FileSlot)
	require.Equal(t, int64(UnresolvedTimestamp), k.Timestamp)
}

func TestParseMalformedKey(t *testing.T) {
	_, err := Parse("not-a-key")
	require.Error(t, err)

	_, err = Parse("go:fn:Foo:__pkg_a_go:X100")
	require.Error(t, err)
}

func TestEscapeUnescapeRoundTrip(t *testing.T) {
	samples := []string{"", "plain", "O'Brien", "''already''", "a'b'c'd"}
	for _, s := range samples {
		require.Equal(t, s, UnescapeLiteral(EscapeLiteral(s)), "round trip for %q", s)
	}
}

func TestParseScope(t *testing.T) {
	l1, l2 := ParseScope("")
	require.Equal(t, "", l1)
	require.Equal(t, "", l2)

	l1, l2 = ParseScope("crates")
	require.Equal(t, "crates", l1)
	require.Equal(t, "", l2)

	l1, l2 = ParseScope("crates||core")
	require.Equal(t, "crates", l1)
	require.Equal(t, "core", l2)
}

func TestBuildScopeFilter(t *testing.T) {
	frag, err := BuildScopeFilter("crates", "core", []string{"crates", "pkg"}, []string{"core", "server"})
	require.NoError(t, err)
	require.Contains(t, frag, "root_subfolder_L1 = 'crates'")
	require.Contains(t, frag, "root_subfolder_L2 = 'core'")

	frag, err = BuildScopeFilter("", "", nil, nil)
	require.NoError(t, err)
	require.Equal(t, "", frag)
}

func TestBuildScopeFilterInvalidSuggestsFuzzy(t *testing.T) {
	_, err := BuildScopeFilter("crats", "", []string{"crates", "pkg"}, nil)
	require.Error(t, err)
	var scopeErr *ErrInvalidScope
	require.ErrorAs(t, err, &scopeErr)
	require.Equal(t, "crates", scopeErr.Suggestion)
}
