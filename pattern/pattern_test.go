package pattern

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func match(t *testing.T, pat, s string, flags Flag) bool {
	t.Helper()
	p, err := Compile(pat, flags)
	if err != nil {
		t.Fatalf("Compile(%q): %v", pat, err)
	}
	return p.Match(s)
}

func TestLiteralFastPath(t *testing.T) {
	c := qt.New(t)
	p, err := Compile("foo.txt", 0)
	c.Assert(err, qt.IsNil)
	c.Assert(p.literal, qt.Equals, "foo.txt")
	c.Assert(p.Match("foo.txt"), qt.IsTrue)
	c.Assert(p.Match("foo.tx"), qt.IsFalse)
}

func TestStarAndQuestion(t *testing.T) {
	c := qt.New(t)
	c.Assert(match(t, "*.go", "pattern.go", 0), qt.IsTrue)
	c.Assert(match(t, "*.go", "pattern.go.bak", 0), qt.IsFalse)
	c.Assert(match(t, "fi?e", "file", 0), qt.IsTrue)
	c.Assert(match(t, "fi?e", "fiile", 0), qt.IsFalse)
}

func TestPathnameDoesNotCrossSlash(t *testing.T) {
	c := qt.New(t)
	c.Assert(match(t, "a*b", "a/b", 0), qt.IsTrue)
	c.Assert(match(t, "a*b", "a/b", PATHNAME), qt.IsFalse)
	c.Assert(match(t, "a/*", "a/b", PATHNAME), qt.IsTrue)
}

func TestPeriodMustBeExplicit(t *testing.T) {
	c := qt.New(t)
	c.Assert(match(t, "*", ".hidden", PERIOD), qt.IsFalse)
	c.Assert(match(t, ".*", ".hidden", PERIOD), qt.IsTrue)
	c.Assert(match(t, "*", "visible", PERIOD), qt.IsTrue)
	// not at a leading position, so PERIOD doesn't restrict it
	c.Assert(match(t, "a*", "a.b", PERIOD), qt.IsTrue)
}

func TestPeriodPerPathElement(t *testing.T) {
	c := qt.New(t)
	c.Assert(match(t, "*/*", "a/.b", PATHNAME|PERIOD), qt.IsFalse)
	c.Assert(match(t, "*/.*", "a/.b", PATHNAME|PERIOD), qt.IsTrue)
}

func TestBracketExpr(t *testing.T) {
	c := qt.New(t)
	c.Assert(match(t, "[abc]", "b", 0), qt.IsTrue)
	c.Assert(match(t, "[abc]", "d", 0), qt.IsFalse)
	c.Assert(match(t, "[!abc]", "d", 0), qt.IsTrue)
	c.Assert(match(t, "[a-c]", "b", 0), qt.IsTrue)
	c.Assert(match(t, "[[:digit:]]", "5", 0), qt.IsTrue)
	c.Assert(match(t, "[[:digit:]]", "x", 0), qt.IsFalse)
	c.Assert(match(t, "[]a]", "]", 0), qt.IsTrue)
}

func TestCasefold(t *testing.T) {
	c := qt.New(t)
	c.Assert(match(t, "README*", "readme.md", CASEFOLD), qt.IsTrue)
	c.Assert(match(t, "README*", "readme.md", 0), qt.IsFalse)
}

func TestNoEscape(t *testing.T) {
	c := qt.New(t)
	c.Assert(match(t, `a\*b`, `a\xb`, NOESCAPE), qt.IsTrue)
	c.Assert(match(t, `a\*b`, "axb", NOESCAPE), qt.IsFalse)
	c.Assert(match(t, `a\*b`, "a*b", 0), qt.IsTrue)
}

func TestHasMeta(t *testing.T) {
	c := qt.New(t)
	c.Assert(HasMeta("plain", 0), qt.IsFalse)
	c.Assert(HasMeta("*.go", 0), qt.IsTrue)
	c.Assert(HasMeta(`\*`, 0), qt.IsFalse)
	c.Assert(HasMeta(`\*`, NOESCAPE), qt.IsTrue)
}

func TestSyntaxErrors(t *testing.T) {
	c := qt.New(t)
	_, err := Compile("[abc", 0)
	c.Assert(err, qt.Not(qt.IsNil))
	_, err = Compile(`a\`, 0)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestExpandPathNoMeta(t *testing.T) {
	c := qt.New(t)
	_, ok := ExpandPath("plain/path")
	c.Assert(ok, qt.IsFalse)
}

func TestExpandPathNoMatches(t *testing.T) {
	c := qt.New(t)
	_, ok := ExpandPath("/no/such/dir/*.nonexistent-ext")
	c.Assert(ok, qt.IsFalse)
}

func TestExpandPathMatchesCurrentDir(t *testing.T) {
	c := qt.New(t)
	matches, ok := ExpandPath("pattern*.go")
	c.Assert(ok, qt.IsTrue)
	c.Assert(len(matches) >= 1, qt.IsTrue)
}
