package expand

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"poshix.dev/poshix/frame"
	"poshix.dev/poshix/past"
	"poshix.dev/poshix/wtok"
)

func lit(s string) wtok.Part { return wtok.Part{Kind: wtok.Literal, Text: s} }

func word(parts ...wtok.Part) *wtok.Word { return &wtok.Word{Parts: parts} }

func param(name string, subtype wtok.ParamSubtype, colon bool, operand *wtok.Word) wtok.Part {
	return wtok.Part{Kind: wtok.Parameter, ParamName: name, ParamSubtype: subtype, ParamColon: colon, OptionalWord: operand}
}

func TestExpandWordPlainLiteral(t *testing.T) {
	c := qt.New(t)
	f := frame.NewRoot("sh", nil)
	got, err := ExpandWord(f, word(lit("hello")))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"hello"})
}

func TestExpandTildeHome(t *testing.T) {
	c := qt.New(t)
	f := frame.NewRoot("sh", nil)
	c.Assert(f.Set("HOME", "/home/me"), qt.IsNil)
	got, err := ExpandWord(f, word(wtok.Part{Kind: wtok.Tilde, Text: "~"}, lit("/x")))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"/home/me/x"})
}

func TestExpandTildePlusUsesPWD(t *testing.T) {
	c := qt.New(t)
	f := frame.NewRoot("sh", nil)
	c.Assert(f.Set("PWD", "/work"), qt.IsNil)
	got, err := ExpandWord(f, word(wtok.Part{Kind: wtok.Tilde, Text: "~+"}))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"/work"})
}

func TestParamPlainUnsetIsEmpty(t *testing.T) {
	c := qt.New(t)
	f := frame.NewRoot("sh", nil)
	got, err := ExpandWord(f, word(param("FOO", wtok.ParamPlain, false, nil)))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{""})
}

func TestParamLength(t *testing.T) {
	c := qt.New(t)
	f := frame.NewRoot("sh", nil)
	c.Assert(f.Set("FOO", "hello"), qt.IsNil)
	got, err := ExpandWord(f, word(param("FOO", wtok.ParamLength, false, nil)))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"5"})
}

func TestParamDefaultWhenUnset(t *testing.T) {
	c := qt.New(t)
	f := frame.NewRoot("sh", nil)
	got, err := ExpandWord(f, word(param("FOO", wtok.ParamDefault, true, word(lit("fallback")))))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"fallback"})
}

func TestParamDefaultWhenSetUsesValue(t *testing.T) {
	c := qt.New(t)
	f := frame.NewRoot("sh", nil)
	c.Assert(f.Set("FOO", "present"), qt.IsNil)
	got, err := ExpandWord(f, word(param("FOO", wtok.ParamDefault, true, word(lit("fallback")))))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"present"})
}

func TestParamAssignDefaultSetsVariable(t *testing.T) {
	c := qt.New(t)
	f := frame.NewRoot("sh", nil)
	got, err := ExpandWord(f, word(param("FOO", wtok.ParamAssignDefault, true, word(lit("assigned")))))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"assigned"})
	c.Assert(f.Get("FOO").Value, qt.Equals, "assigned")
}

func TestParamErrorIfUnset(t *testing.T) {
	c := qt.New(t)
	f := frame.NewRoot("sh", nil)
	_, err := ExpandWord(f, word(param("FOO", wtok.ParamErrorIfUnset, true, word(lit("must be set")))))
	c.Assert(err, qt.Not(qt.IsNil))
	var uerr *UnsetParameterError
	c.Assert(errorsAs(err, &uerr), qt.IsTrue)
	c.Assert(uerr.Message, qt.Equals, "must be set")
}

func TestParamAlternativeOnlyWhenSet(t *testing.T) {
	c := qt.New(t)
	f := frame.NewRoot("sh", nil)
	got, err := ExpandWord(f, word(param("FOO", wtok.ParamAlternative, true, word(lit("alt")))))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{""})

	c.Assert(f.Set("FOO", "x"), qt.IsNil)
	got, err = ExpandWord(f, word(param("FOO", wtok.ParamAlternative, true, word(lit("alt")))))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"alt"})
}

func TestParamStripPrefixAndSuffix(t *testing.T) {
	c := qt.New(t)
	f := frame.NewRoot("sh", nil)
	c.Assert(f.Set("FOO", "aa/bb/cc"), qt.IsNil)

	got, err := ExpandWord(f, word(param("FOO", wtok.ParamStripPrefix, false, word(lit("*/")))))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"bb/cc"})

	got, err = ExpandWord(f, word(param("FOO", wtok.ParamStripPrefixLong, false, word(lit("*/")))))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"cc"})

	got, err = ExpandWord(f, word(param("FOO", wtok.ParamStripSuffix, false, word(lit("/*")))))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"aa/bb"})

	got, err = ExpandWord(f, word(param("FOO", wtok.ParamStripSuffixLong, false, word(lit("/*")))))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"aa"})
}

func TestFieldSplitDefaultIFS(t *testing.T) {
	c := qt.New(t)
	f := frame.NewRoot("sh", nil)
	c.Assert(f.Set("FOO", "a  b\tc"), qt.IsNil)
	got, err := ExpandWord(f, word(param("FOO", wtok.ParamPlain, false, nil)))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"a", "b", "c"})
}

func TestFieldSplitCustomIFSProducesEmptyField(t *testing.T) {
	c := qt.New(t)
	f := frame.NewRoot("sh", nil)
	c.Assert(f.Set("IFS", ":"), qt.IsNil)
	c.Assert(f.Set("FOO", "a::b"), qt.IsNil)
	got, err := ExpandWord(f, word(param("FOO", wtok.ParamPlain, false, nil)))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"a", "", "b"})
}

func TestFieldSplitEmptyIFSDisablesSplitting(t *testing.T) {
	c := qt.New(t)
	f := frame.NewRoot("sh", nil)
	c.Assert(f.Set("IFS", ""), qt.IsNil)
	c.Assert(f.Set("FOO", "a b c"), qt.IsNil)
	got, err := ExpandWord(f, word(param("FOO", wtok.ParamPlain, false, nil)))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"a b c"})
}

func TestFieldSplitQuotedExpansionNotSplit(t *testing.T) {
	c := qt.New(t)
	f := frame.NewRoot("sh", nil)
	c.Assert(f.Set("FOO", "a b c"), qt.IsNil)
	p := param("FOO", wtok.ParamPlain, false, nil)
	p.WasDoubleQuoted = true
	got, err := ExpandWord(f, word(p))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"a b c"})
}

func TestPathnameExpansionNoMatchKeepsLiteral(t *testing.T) {
	c := qt.New(t)
	f := frame.NewRoot("sh", nil)
	got, err := ExpandWord(f, word(lit("no-such-file-*.zzz")))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"no-such-file-*.zzz"})
}

func TestPathnameExpansionMatchesRealFiles(t *testing.T) {
	c := qt.New(t)
	f := frame.NewRoot("sh", nil)
	got, err := ExpandWord(f, word(lit("expand*.go")))
	c.Assert(err, qt.IsNil)
	c.Assert(len(got) >= 2, qt.IsTrue)
}

func TestPathnameExpansionSuppressedByNoGlob(t *testing.T) {
	c := qt.New(t)
	f := frame.NewRoot("sh", nil)
	f.Options.NoGlob = true
	got, err := ExpandWord(f, word(lit("expand*.go")))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"expand*.go"})
}

func TestCommandSubstNoCapabilityErrors(t *testing.T) {
	c := qt.New(t)
	f := frame.NewRoot("sh", nil)
	_, err := ExpandWord(f, word(wtok.Part{Kind: wtok.CommandSubst, Nested: []wtok.Item{
		{Kind: wtok.ItemWord, Word: word(lit("echo"))},
	}}))
	c.Assert(err, qt.Not(qt.IsNil))
	var nerr *NoCapabilityError
	c.Assert(errorsAs(err, &nerr), qt.IsTrue)
}

func TestCommandSubstInvokesCapabilityAndTrimsNewline(t *testing.T) {
	c := qt.New(t)
	f := frame.NewRoot("sh", nil)
	f.RunCommandCaptureStdout = func(ast *past.Node) (string, int, error) {
		return "hi\n", 0, nil
	}
	got, err := ExpandWord(f, word(wtok.Part{Kind: wtok.CommandSubst, Nested: []wtok.Item{
		{Kind: wtok.ItemWord, Word: word(lit("echo"))},
		{Kind: wtok.ItemWord, Word: word(lit("hi"))},
	}}))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"hi"})
}

func TestArithmeticNoCapabilityErrors(t *testing.T) {
	c := qt.New(t)
	f := frame.NewRoot("sh", nil)
	_, err := ExpandWord(f, word(wtok.Part{Kind: wtok.Arithmetic, Nested: []wtok.Item{
		{Kind: wtok.ItemWord, Word: word(lit("1"))},
	}}))
	c.Assert(err, qt.Not(qt.IsNil))
	var nerr *NoCapabilityError
	c.Assert(errorsAs(err, &nerr), qt.IsTrue)
}

func TestArithmeticInvokesCapability(t *testing.T) {
	c := qt.New(t)
	f := frame.NewRoot("sh", nil)
	f.EvaluateArithmetic = func(text string) (int64, error) { return 42, nil }
	got, err := ExpandWord(f, word(wtok.Part{Kind: wtok.Arithmetic, Nested: []wtok.Item{
		{Kind: wtok.ItemWord, Word: word(lit("1"))},
		{Kind: wtok.ItemWord, Word: word(lit("+"))},
		{Kind: wtok.ItemWord, Word: word(lit("1"))},
	}}))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"42"})
}

func TestExpandStringHeredocPreset(t *testing.T) {
	c := qt.New(t)
	f := frame.NewRoot("sh", nil)
	c.Assert(f.Set("NAME", "world"), qt.IsNil)
	got, err := ExpandString(f, "hello $NAME", Heredoc)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "hello world")
}

func TestExpandStringNoSplitGlobDoesNotGlob(t *testing.T) {
	c := qt.New(t)
	f := frame.NewRoot("sh", nil)
	got, err := ExpandString(f, "expand*.go", NoSplitGlob)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "expand*.go")
}

// errorsAs is a minimal stand-in for errors.As so the test package does not
// need to know errors.As's target-type reflection details: every error type
// under test here is returned unwrapped.
func errorsAs[T any](err error, target *T) bool {
	v, ok := err.(T)
	if !ok {
		return false
	}
	*target = v
	return true
}
