package past

import (
	"strconv"

	"poshix.dev/poshix/gram"
	"poshix.dev/poshix/token"
	"poshix.dev/poshix/wtok"
)

// Lower implements the GNode::Program -> AstNode contract of spec §4.3:
// deterministic, total over any well-formed grammar tree.
func Lower(root *gram.Node) *Node {
	items := make([]*Node, len(root.Children))
	seps := make([]Sep, len(root.Children))
	for i, cc := range root.Children {
		items[i] = lowerList(cc.Child)
		seps[i] = End
	}
	return wrapOrFlatten(items, seps)
}

func wrapOrFlatten(items []*Node, seps []Sep) *Node {
	if len(items) == 1 && seps[0] == End {
		return items[0]
	}
	return &Node{Kind: CommandList, Items: items, Seps: seps}
}

func sepFromToken(t token.Token, isLast bool) Sep {
	switch t {
	case token.AMP:
		return Background
	case token.SEMI, token.NEWLINE:
		if isLast {
			return End
		}
		return Sequential
	default: // token.ILLEGAL: nothing followed, end of input
		return End
	}
}

func lowerList(n *gram.Node) *Node {
	items := make([]*Node, len(n.Children))
	seps := make([]Sep, len(n.Children))
	last := len(n.Children) - 1
	for i, child := range n.Children {
		items[i] = lowerAndOr(child)
		seps[i] = sepFromToken(n.Seps[i], i == last)
	}
	return wrapOrFlatten(items, seps)
}

func lowerAndOr(n *gram.Node) *Node {
	if n.Tag == gram.AndOr {
		return &Node{Kind: AndOrList, Pos: n.Pos, Left: lowerAndOr(n.A), Right: lowerAndOr(n.B), Op: n.Op}
	}
	return lowerPipeline(n)
}

func lowerPipeline(n *gram.Node) *Node {
	seq := n.Child
	cmds := make([]*Node, len(seq.Children))
	for i, c := range seq.Children {
		cmds[i] = lowerCommand(c)
	}
	if len(cmds) == 1 && !n.Negated {
		return cmds[0]
	}
	return &Node{Kind: PipelineNode, Pos: n.Pos, Commands: cmds, Negated: n.Negated}
}

func lowerCommand(n *gram.Node) *Node {
	switch n.Tag {
	case gram.SimpleCommand:
		return lowerSimpleCommand(n)
	case gram.CompoundCommand:
		return lowerCompoundCommand(n)
	case gram.FunctionDefinition:
		return lowerFunctionDefinition(n)
	default:
		panic("past: unexpected command node tag " + n.Tag.String())
	}
}

func lowerSimpleCommand(n *gram.Node) *Node {
	var assigns []Assignment
	var redirs []*Node
	if n.A != nil { // CmdPrefix
		for _, c := range n.A.Children {
			switch c.Tag {
			case gram.WordLeaf:
				if name, value, ok := splitAssignmentWord(c.Word); ok {
					assigns = append(assigns, Assignment{Name: name, Value: value})
				}
			case gram.IoFile, gram.IoHere:
				redirs = append(redirs, lowerRedirect(c))
			}
		}
	}
	var words []*wtok.Word
	if n.B != nil {
		words = append(words, n.B.Word)
	}
	if n.C != nil { // CmdSuffix
		for _, c := range n.C.Children {
			switch c.Tag {
			case gram.WordLeaf:
				words = append(words, c.Word)
			case gram.IoFile, gram.IoHere:
				redirs = append(redirs, lowerRedirect(c))
			}
		}
	}
	return &Node{Kind: SimpleCommandNode, Pos: n.Pos, Words: words, Assignments: assigns, Redirections: redirs}
}

func lowerCompoundCommand(n *gram.Node) *Node {
	body := lowerBareCompound(n.Child)
	redirs := lowerRedirectList(n.A)
	if len(redirs) == 0 {
		return body
	}
	return &Node{Kind: RedirectedCommandNode, Pos: n.Pos, Body: body, Redirections: redirs}
}

func lowerBareCompound(n *gram.Node) *Node {
	switch n.Tag {
	case gram.Subshell:
		return &Node{Kind: SubshellNode, Pos: n.Pos, Body: lowerList(n.Child)}
	case gram.BraceGroup:
		return &Node{Kind: BraceGroupNode, Pos: n.Pos, Body: lowerList(n.Child)}
	case gram.IfClause:
		return lowerIfClause(n)
	case gram.WhileClause:
		return &Node{Kind: WhileClauseNode, Pos: n.Pos, Condition: lowerList(n.A), Body: lowerList(n.B)}
	case gram.UntilClause:
		return &Node{Kind: UntilClauseNode, Pos: n.Pos, Condition: lowerList(n.A), Body: lowerList(n.B)}
	case gram.ForClause:
		return lowerForClause(n)
	case gram.CaseClause:
		return lowerCaseClause(n)
	default:
		panic("past: unexpected compound node tag " + n.Tag.String())
	}
}

// lowerIfClause rewrites elif chains as nested IfClause in ElseBody
// (spec §4.3).
func lowerIfClause(n *gram.Node) *Node {
	node := &Node{Kind: IfClauseNode, Pos: n.Pos, Condition: lowerList(n.A), Body: lowerList(n.B)}
	if n.C != nil {
		node.ElseBody = lowerElsePart(n.C)
	}
	return node
}

func lowerElsePart(n *gram.Node) *Node {
	if n.A == nil { // unconditional else
		return lowerList(n.B)
	}
	node := &Node{Kind: IfClauseNode, Pos: n.Pos, Condition: lowerList(n.A), Body: lowerList(n.B)}
	if n.C != nil {
		node.ElseBody = lowerElsePart(n.C)
	}
	return node
}

func lowerForClause(n *gram.Node) *Node {
	name, _ := n.A.Word.Lit()
	node := &Node{Kind: ForClauseNode, Pos: n.Pos, VariableName: name, Body: lowerList(n.C)}
	if n.B != nil {
		words := make([]*wtok.Word, len(n.B.Children))
		for i, w := range n.B.Children {
			words[i] = w.Word
		}
		node.ForWords = words
	}
	return node
}

func lowerCaseClause(n *gram.Node) *Node {
	items := make([]*Node, len(n.Children))
	for i, it := range n.Children {
		items[i] = lowerCaseItem(it)
	}
	return &Node{Kind: CaseClauseNode, Pos: n.Pos, SubjectWord: n.A.Word, CaseItems: items}
}

func lowerCaseItem(n *gram.Node) *Node {
	pats := make([]*wtok.Word, len(n.A.Children))
	for i, w := range n.A.Children {
		pats[i] = w.Word
	}
	var body *Node
	if n.B != nil {
		body = lowerList(n.B)
	}
	action := ActionNone
	if n.Tag == gram.CaseItem {
		action = ActionBreak
	}
	return &Node{Kind: CaseItemNode, Pos: n.Pos, Patterns: pats, Body: body, Action: action}
}

func lowerFunctionDefinition(n *gram.Node) *Node {
	name, _ := n.A.Word.Lit()
	raw := lowerCommand(n.B.Child) // n.B is FunctionBody; its Child is a CompoundCommand
	node := &Node{Kind: FunctionDefNode, Pos: n.Pos, Name: name}
	if raw.Kind == RedirectedCommandNode {
		node.Body = raw.Body
		node.Redirections = raw.Redirections
	} else {
		node.Body = raw
	}
	return node
}

func lowerRedirectList(n *gram.Node) []*Node {
	if n == nil {
		return nil
	}
	out := make([]*Node, len(n.Children))
	for i, c := range n.Children {
		out[i] = lowerRedirect(c)
	}
	return out
}

func lowerRedirect(n *gram.Node) *Node {
	switch n.Tag {
	case gram.IoFile:
		return lowerIoFile(n)
	case gram.IoHere:
		return lowerIoHere(n)
	default:
		panic("past: unexpected redirect node tag " + n.Tag.String())
	}
}

func lowerIoFile(n *gram.Node) *Node {
	r := &Node{Kind: RedirectionNode, Pos: n.Pos, RedirKind: redirKindFor(n.Op)}
	if n.A != nil {
		attachIoNumber(r, n.A)
	}
	targetWord := n.B.Word
	r.TargetWord = targetWord
	lit, litOk := targetWord.Lit()
	r.TargetKind = targetKindFor(n.Op, lit, litOk)
	if r.TargetKind == TargetFd && litOk {
		fd := lit
		r.FdString = &fd
	}
	return r
}

func lowerIoHere(n *gram.Node) *Node {
	r := &Node{Kind: RedirectionNode, Pos: n.Pos, TargetKind: TargetBuffer}
	if n.Op == token.DHEREDOC {
		r.RedirKind = FromBufferStripTabs
	} else {
		r.RedirKind = FromBuffer
	}
	if n.A != nil {
		attachIoNumber(r, n.A)
	}
	delimWord := n.Pair[0].Word
	r.TargetWord = delimWord
	if hd := delimWord.Heredoc; hd != nil {
		body := hd.Body
		r.Buffer = &body
		r.BufferNeedsExpansion = hd.BodyNeedsExpand
	}
	return r
}

func redirKindFor(op token.Token) RedirKind {
	switch op {
	case token.LSS:
		return Read
	case token.GTR:
		return Write
	case token.SHR:
		return Append
	case token.RDRINOUT:
		return ReadWrite
	case token.CLOBBER:
		return WriteForce
	case token.DPLIN:
		return FdDupIn
	case token.DPLOUT:
		return FdDupOut
	default:
		return Read
	}
}

// targetKindFor implements spec §4.3's target_kind derivation: "-" after
// <&/>& means Close, all-digits means Fd, everything else (including any
// word that isn't a plain literal, resolved only at execution time)
// means File — except a non-literal <&/>& target, which is also Fd since
// Close is only ever spelled literally "-".
func targetKindFor(op token.Token, lit string, litOk bool) TargetKind {
	if op != token.DPLIN && op != token.DPLOUT {
		return TargetFile
	}
	if !litOk {
		return TargetFd
	}
	if lit == "-" {
		return TargetClose
	}
	if isAllDigits(lit) {
		return TargetFd
	}
	return TargetFile
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func attachIoNumber(r *Node, numNode *gram.Node) {
	text := numNode.Word.Parts[0].Text
	if numNode.Op == token.IONUMBER {
		n, err := strconv.Atoi(text)
		if err != nil {
			return
		}
		r.IoNumber = &n
		return
	}
	s := text
	r.FdString = &s
}

// splitAssignmentWord reports whether w has the shape "name=value" at
// its leading literal part (same predicate gram.Parser uses to decide
// cmd_prefix membership), splitting it into the Assignment's parts. The
// grammar tree keeps the word whole; only lowering performs the split.
func splitAssignmentWord(w *wtok.Word) (name string, value *wtok.Word, ok bool) {
	if len(w.Parts) == 0 || w.Parts[0].Kind != wtok.Literal {
		return "", nil, false
	}
	if w.Parts[0].WasSingleQuoted || w.Parts[0].WasDoubleQuoted {
		return "", nil, false
	}
	text := w.Parts[0].Text
	if len(text) == 0 || !isNameStartByte(text[0]) {
		return "", nil, false
	}
	j := 1
	for j < len(text) && isNameContByte(text[j]) {
		j++
	}
	if j >= len(text) || text[j] != '=' {
		return "", nil, false
	}
	name = text[:j]
	rest := text[j+1:]
	var parts []wtok.Part
	if rest != "" || len(w.Parts) == 1 {
		p0 := w.Parts[0]
		p0.Text = rest
		parts = append(parts, p0)
	}
	parts = append(parts, w.Parts[1:]...)
	if len(parts) == 0 {
		parts = append(parts, wtok.Part{Kind: wtok.Literal, Text: ""})
	}
	return name, &wtok.Word{Parts: parts, Pos: w.Pos}, true
}

func isNameStartByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isNameContByte(b byte) bool {
	return isNameStartByte(b) || (b >= '0' && b <= '9')
}
