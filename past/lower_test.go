package past

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"poshix.dev/poshix/gram"
	"poshix.dev/poshix/lexer"
	"poshix.dev/poshix/token"
)

func lower(t *testing.T, src string) *Node {
	t.Helper()
	l := lexer.New()
	st := l.Feed([]byte(src), true)
	if st != lexer.Ok {
		t.Fatalf("lexer status for %q: %v", src, st)
	}
	root, status, perr := gram.New(l.Take()).Parse()
	if status != gram.Ok {
		t.Fatalf("parser status for %q: %v (%v)", src, status, perr)
	}
	return Lower(root)
}

func TestLowerSingleSimpleCommandFlattens(t *testing.T) {
	c := qt.New(t)
	n := lower(t, "echo hi\n")
	c.Assert(n.Kind, qt.Equals, SimpleCommandNode)
	c.Assert(len(n.Words), qt.Equals, 2)
}

func TestLowerAssignmentSplit(t *testing.T) {
	c := qt.New(t)
	n := lower(t, "FOO=bar echo hi\n")
	c.Assert(n.Kind, qt.Equals, SimpleCommandNode)
	c.Assert(len(n.Assignments), qt.Equals, 1)
	c.Assert(n.Assignments[0].Name, qt.Equals, "FOO")
	lit, ok := n.Assignments[0].Value.Lit()
	c.Assert(ok, qt.IsTrue)
	c.Assert(lit, qt.Equals, "bar")
}

func TestLowerBackgroundSeparator(t *testing.T) {
	c := qt.New(t)
	n := lower(t, "a & b\n")
	c.Assert(n.Kind, qt.Equals, CommandList)
	c.Assert(n.Seps[0], qt.Equals, Background)
	c.Assert(n.Seps[1], qt.Equals, End)
}

func TestLowerPipelineNegation(t *testing.T) {
	c := qt.New(t)
	n := lower(t, "! false | true\n")
	c.Assert(n.Kind, qt.Equals, PipelineNode)
	c.Assert(n.Negated, qt.IsTrue)
	c.Assert(len(n.Commands), qt.Equals, 2)
}

func TestLowerSinglePipelineFlattensWithoutBang(t *testing.T) {
	c := qt.New(t)
	n := lower(t, "echo hi\n")
	c.Assert(n.Kind, qt.Equals, SimpleCommandNode)
}

func TestLowerAndOrLeftAssociative(t *testing.T) {
	c := qt.New(t)
	n := lower(t, "a && b || c\n")
	c.Assert(n.Kind, qt.Equals, AndOrList)
	c.Assert(n.Op, qt.Equals, token.LOR)
	c.Assert(n.Left.Kind, qt.Equals, AndOrList)
	c.Assert(n.Left.Op, qt.Equals, token.LAND)
}

func TestLowerElifBecomesNestedIf(t *testing.T) {
	c := qt.New(t)
	n := lower(t, "if a; then b; elif c; then d; else e; fi\n")
	c.Assert(n.Kind, qt.Equals, IfClauseNode)
	c.Assert(n.ElseBody.Kind, qt.Equals, IfClauseNode)
	c.Assert(n.ElseBody.ElseBody.Kind, qt.Not(qt.Equals, IfClauseNode))
}

func TestLowerForClauseWords(t *testing.T) {
	c := qt.New(t)
	n := lower(t, "for x in a b; do echo $x; done\n")
	c.Assert(n.Kind, qt.Equals, ForClauseNode)
	c.Assert(n.VariableName, qt.Equals, "x")
	c.Assert(len(n.ForWords), qt.Equals, 2)
}

func TestLowerForClauseWithoutInIsNilWords(t *testing.T) {
	c := qt.New(t)
	n := lower(t, "for x; do echo $x; done\n")
	c.Assert(n.Kind, qt.Equals, ForClauseNode)
	c.Assert(n.ForWords, qt.IsNil)
}

func TestLowerCaseItemsAndAction(t *testing.T) {
	c := qt.New(t)
	n := lower(t, "case $x in a) echo a;; *) echo b\nesac\n")
	c.Assert(n.Kind, qt.Equals, CaseClauseNode)
	c.Assert(len(n.CaseItems), qt.Equals, 2)
	c.Assert(n.CaseItems[0].Action, qt.Equals, ActionBreak)
	c.Assert(n.CaseItems[1].Action, qt.Equals, ActionNone)
}

func TestLowerRedirectionKindsAndTargets(t *testing.T) {
	c := qt.New(t)
	n := lower(t, "cat < in.txt > out.txt\n")
	c.Assert(n.Kind, qt.Equals, SimpleCommandNode)
	c.Assert(len(n.Redirections), qt.Equals, 2)
	c.Assert(n.Redirections[0].RedirKind, qt.Equals, Read)
	c.Assert(n.Redirections[0].TargetKind, qt.Equals, TargetFile)
	c.Assert(n.Redirections[1].RedirKind, qt.Equals, Write)
}

func TestLowerFdDupClose(t *testing.T) {
	c := qt.New(t)
	n := lower(t, "exec 3<&-\n")
	c.Assert(n.Kind, qt.Equals, SimpleCommandNode)
	c.Assert(len(n.Redirections), qt.Equals, 1)
	r := n.Redirections[0]
	c.Assert(r.RedirKind, qt.Equals, FdDupIn)
	c.Assert(r.TargetKind, qt.Equals, TargetClose)
	c.Assert(*r.IoNumber, qt.Equals, 3)
}

func TestLowerHeredocBuffer(t *testing.T) {
	c := qt.New(t)
	n := lower(t, "cat <<EOF\nhello\nEOF\n")
	c.Assert(n.Kind, qt.Equals, SimpleCommandNode)
	r := n.Redirections[0]
	c.Assert(r.RedirKind, qt.Equals, FromBuffer)
	c.Assert(r.TargetKind, qt.Equals, TargetBuffer)
	c.Assert(*r.Buffer, qt.Equals, "hello\n")
}

func TestLowerSubshellAndBraceGroup(t *testing.T) {
	c := qt.New(t)
	n := lower(t, "(echo hi)\n")
	c.Assert(n.Kind, qt.Equals, SubshellNode)

	n = lower(t, "{ echo hi; }\n")
	c.Assert(n.Kind, qt.Equals, BraceGroupNode)
}

func TestLowerFunctionDefinitionWithRedirections(t *testing.T) {
	c := qt.New(t)
	n := lower(t, "greet() { echo hi; } > out.txt\n")
	c.Assert(n.Kind, qt.Equals, FunctionDefNode)
	c.Assert(n.Name, qt.Equals, "greet")
	c.Assert(n.Body.Kind, qt.Equals, BraceGroupNode)
	c.Assert(len(n.Redirections), qt.Equals, 1)
}
