package gram

import (
	"fmt"

	"poshix.dev/poshix/token"
	"poshix.dev/poshix/wtok"
)

// Status is the parser's top-level result (spec §4.2 contract).
type Status int

const (
	Ok Status = iota
	Empty
	Incomplete
	ErrStatus
)

func (s Status) String() string {
	switch s {
	case Ok:
		return "Ok"
	case Empty:
		return "Empty"
	case Incomplete:
		return "Incomplete"
	case ErrStatus:
		return "Error"
	default:
		return "unknown"
	}
}

// ParseError carries the offending token's position and a message.
type ParseError struct {
	Pos token.Pos
	Msg string
}

func (e *ParseError) Error() string { return fmt.Sprintf("pos %d: %s", e.Pos, e.Msg) }

// incompleteSignal is returned internally in place of a ParseError when
// EOF arrives in a grammar position that allows more tokens. It carries
// no state: Go's interface equality makes every instance of this zero-
// size type compare equal, so isIncomplete's type assertion alone is a
// sufficient check.
type incompleteSignal struct{}

func (incompleteSignal) Error() string { return "need more tokens" }

func isIncomplete(err error) bool {
	_, ok := err.(incompleteSignal)
	return ok
}

// Parser is a strict recursive-descent parser over a fixed token list
// (spec §4.2). It never mutates the tokens it consumes, only the read
// cursor; rewinding is a plain index assignment (spec's "rewindable
// position").
type Parser struct {
	items []wtok.Item
	idx   int
}

// New returns a Parser over a complete token list (spec's "movable token
// list" contract — this parser is not itself streaming; a caller that
// wants incremental behavior re-invokes New/Parse once the lexer has
// produced more tokens).
func New(items []wtok.Item) *Parser {
	return &Parser{items: items}
}

// Parse attempts to parse the entire token list as one Program.
func (p *Parser) Parse() (*Node, Status, *ParseError) {
	if len(p.items) == 0 {
		return nil, Empty, nil
	}
	p.skipNewlines()
	if p.atEOF() {
		return nil, Empty, nil
	}
	var cmds []*Node
	for {
		cc, err := p.completeCommand()
		if err != nil {
			if isIncomplete(err) {
				return nil, Incomplete, nil
			}
			return nil, ErrStatus, err.(*ParseError)
		}
		cmds = append(cmds, cc)
		p.skipNewlines()
		if p.atEOF() {
			break
		}
	}
	root := &Node{Tag: Program, Children: cmds}
	if perr := p.pairHeredocs(root); perr != nil {
		return nil, ErrStatus, perr
	}
	return root, Ok, nil
}

// --- token cursor helpers ---

func (p *Parser) mark() int    { return p.idx }
func (p *Parser) reset(m int)  { p.idx = m }
func (p *Parser) atEOF() bool  { return p.idx >= len(p.items) }

func (p *Parser) peek() (wtok.Item, bool) {
	if p.atEOF() {
		return wtok.Item{}, false
	}
	return p.items[p.idx], true
}

func (p *Parser) advance() wtok.Item {
	it := p.items[p.idx]
	p.idx++
	return it
}

func (p *Parser) isOp(k token.Token) bool {
	it, ok := p.peek()
	return ok && it.Kind == wtok.ItemOp && it.Op.Kind == k
}

func (p *Parser) isWord() bool {
	it, ok := p.peek()
	return ok && it.Kind == wtok.ItemWord
}

// isReserved reports whether the current token is a word eligible for
// keyword promotion (spec's promotion condition: single-part, Literal,
// unquoted) whose text matches s exactly.
func (p *Parser) isReserved(s string) bool {
	it, ok := p.peek()
	if !ok || it.Kind != wtok.ItemWord {
		return false
	}
	lit, ok := it.Word.Lit()
	return ok && lit == s
}

func (p *Parser) errHere(msg string) error {
	var pos token.Pos
	if it, ok := p.peek(); ok {
		if it.Kind == wtok.ItemWord {
			pos = it.Word.Pos
		} else {
			pos = it.Op.Pos
		}
	}
	return &ParseError{Pos: pos, Msg: msg}
}

// errOrIncomplete signals Incomplete when EOF has been reached (the
// grammar allows more tokens here) and a hard ParseError otherwise.
func (p *Parser) errOrIncomplete(msg string) error {
	if p.atEOF() {
		return incompleteSignal{}
	}
	return p.errHere(msg)
}

// skipNewlines also skips ENDHEREDOC items, which the lexer emits after
// the newline that ends a heredoc's line; pairHeredocs pairs them later.
func (p *Parser) skipNewlines() {
	for p.isOp(token.NEWLINE) || p.isOp(token.ENDHEREDOC) {
		p.advance()
	}
}

func (p *Parser) peekSeparatorOp() (token.Token, bool) {
	switch {
	case p.isOp(token.SEMI):
		return token.SEMI, true
	case p.isOp(token.AMP):
		return token.AMP, true
	case p.isOp(token.NEWLINE):
		return token.NEWLINE, true
	}
	return 0, false
}

// isTerminator reports whether the grammar position expects the
// enclosing list/compound_list to stop (the keyword or operator that
// closes whichever construct is currently open).
func (p *Parser) isTerminator() bool {
	if p.atEOF() {
		return true
	}
	if p.isReserved("then") || p.isReserved("else") || p.isReserved("elif") ||
		p.isReserved("fi") || p.isReserved("done") || p.isReserved("}") ||
		p.isReserved("esac") {
		return true
	}
	if p.isOp(token.RPAREN) || p.isOp(token.DSEMI) || p.isOp(token.SEMIFALL) {
		return true
	}
	return false
}

func (p *Parser) consumeSequentialSep() {
	if p.isOp(token.SEMI) {
		p.advance()
	}
	p.skipNewlines()
}

// --- grammar productions ---

func (p *Parser) completeCommand() (*Node, error) {
	lst, err := p.list()
	if err != nil {
		return nil, err
	}
	return &Node{Tag: CompleteCommand, Child: lst}, nil
}

// list implements both list (separator_op-joined) and term/compound_list
// (separator-joined, i.e. also accepting a bare newline); POSIX's grammar
// keeps these as distinct productions, but a plain newline is accepted as
// a list separator in both positions by every shell in practice, so one
// implementation serves both (documented in DESIGN.md).
func (p *Parser) list() (*Node, error) {
	first, err := p.andOr()
	if err != nil {
		return nil, err
	}
	children := []*Node{first}
	var seps []token.Token
	for {
		sepTok, ok := p.peekSeparatorOp()
		if !ok {
			break
		}
		p.advance()
		seps = append(seps, sepTok)
		p.skipNewlines()
		if p.isTerminator() {
			break
		}
		nxt, err := p.andOr()
		if err != nil {
			return nil, err
		}
		children = append(children, nxt)
	}
	for len(seps) < len(children) {
		seps = append(seps, token.ILLEGAL)
	}
	return &Node{Tag: List, Children: children, Seps: seps}, nil
}

func (p *Parser) compoundList() (*Node, error) {
	p.skipNewlines()
	return p.list()
}

func (p *Parser) andOr() (*Node, error) {
	left, err := p.pipeline()
	if err != nil {
		return nil, err
	}
	for {
		var opTok token.Token
		switch {
		case p.isOp(token.LAND):
			opTok = token.LAND
		case p.isOp(token.LOR):
			opTok = token.LOR
		default:
			return left, nil
		}
		p.advance()
		p.skipNewlines()
		right, err := p.pipeline()
		if err != nil {
			return nil, err
		}
		left = &Node{Tag: AndOr, A: left, B: right, Op: opTok}
	}
}

func (p *Parser) pipeline() (*Node, error) {
	negated := false
	if p.isReserved("!") {
		p.advance()
		negated = true
	}
	seq, err := p.pipeSequence()
	if err != nil {
		return nil, err
	}
	return &Node{Tag: Pipeline, Child: seq, Negated: negated}, nil
}

func (p *Parser) pipeSequence() (*Node, error) {
	first, err := p.command()
	if err != nil {
		return nil, err
	}
	children := []*Node{first}
	for p.isOp(token.PIPE) {
		p.advance()
		p.skipNewlines()
		nxt, err := p.command()
		if err != nil {
			return nil, err
		}
		children = append(children, nxt)
	}
	return &Node{Tag: PipeSequence, Children: children}, nil
}

func (p *Parser) isCompoundStart() bool {
	return p.isOp(token.LPAREN) || p.isReserved("{") || p.isReserved("if") ||
		p.isReserved("while") || p.isReserved("until") || p.isReserved("for") ||
		p.isReserved("case")
}

func (p *Parser) command() (*Node, error) {
	if p.isCompoundStart() {
		cc, err := p.compoundCommand()
		if err != nil {
			return nil, err
		}
		return p.withTrailingRedirects(cc)
	}
	if fn, ok, err := p.tryFunctionDefinition(); err != nil {
		return nil, err
	} else if ok {
		return fn, nil
	}
	return p.simpleCommand()
}

func (p *Parser) compoundCommand() (*Node, error) {
	switch {
	case p.isOp(token.LPAREN):
		return p.subshell()
	case p.isReserved("{"):
		return p.braceGroup()
	case p.isReserved("if"):
		return p.ifClause()
	case p.isReserved("while"):
		return p.whileClause(false)
	case p.isReserved("until"):
		return p.whileClause(true)
	case p.isReserved("for"):
		return p.forClause()
	case p.isReserved("case"):
		return p.caseClause()
	default:
		return nil, p.errOrIncomplete("expected compound command")
	}
}

func (p *Parser) withTrailingRedirects(cc *Node) (*Node, error) {
	var redirs []*Node
	for {
		r, ok, err := p.tryIoRedirect()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		redirs = append(redirs, r)
	}
	var rl *Node
	if len(redirs) > 0 {
		rl = &Node{Tag: RedirectList, Children: redirs}
	}
	return &Node{Tag: CompoundCommand, Child: cc, A: rl}, nil
}

func (p *Parser) subshell() (*Node, error) {
	p.advance() // (
	body, err := p.compoundList()
	if err != nil {
		return nil, err
	}
	if !p.isOp(token.RPAREN) {
		return nil, p.errOrIncomplete("expected ) to close subshell")
	}
	p.advance()
	return &Node{Tag: Subshell, Child: body}, nil
}

func (p *Parser) braceGroup() (*Node, error) {
	p.advance() // "{"
	body, err := p.compoundList()
	if err != nil {
		return nil, err
	}
	if !p.isReserved("}") {
		return nil, p.errOrIncomplete("expected } to close brace group")
	}
	p.advance()
	return &Node{Tag: BraceGroup, Child: body}, nil
}

func (p *Parser) ifClause() (*Node, error) {
	p.advance() // if
	cond, err := p.compoundList()
	if err != nil {
		return nil, err
	}
	if !p.isReserved("then") {
		return nil, p.errOrIncomplete("expected then")
	}
	p.advance()
	body, err := p.compoundList()
	if err != nil {
		return nil, err
	}
	var elseNode *Node
	if p.isReserved("elif") || p.isReserved("else") {
		elseNode, err = p.elsePart()
		if err != nil {
			return nil, err
		}
	}
	if !p.isReserved("fi") {
		return nil, p.errOrIncomplete("expected fi")
	}
	p.advance()
	return &Node{Tag: IfClause, A: cond, B: body, C: elseNode}, nil
}

func (p *Parser) elsePart() (*Node, error) {
	if p.isReserved("elif") {
		p.advance()
		cond, err := p.compoundList()
		if err != nil {
			return nil, err
		}
		if !p.isReserved("then") {
			return nil, p.errOrIncomplete("expected then")
		}
		p.advance()
		body, err := p.compoundList()
		if err != nil {
			return nil, err
		}
		var nested *Node
		if p.isReserved("elif") || p.isReserved("else") {
			nested, err = p.elsePart()
			if err != nil {
				return nil, err
			}
		}
		return &Node{Tag: ElsePart, A: cond, B: body, C: nested}, nil
	}
	p.advance() // else
	body, err := p.compoundList()
	if err != nil {
		return nil, err
	}
	return &Node{Tag: ElsePart, B: body}, nil
}

func (p *Parser) whileClause(isUntil bool) (*Node, error) {
	p.advance() // while/until
	cond, err := p.compoundList()
	if err != nil {
		return nil, err
	}
	body, err := p.doGroup()
	if err != nil {
		return nil, err
	}
	tag := WhileClause
	if isUntil {
		tag = UntilClause
	}
	return &Node{Tag: tag, A: cond, B: body}, nil
}

func (p *Parser) doGroup() (*Node, error) {
	if !p.isReserved("do") {
		return nil, p.errOrIncomplete("expected do")
	}
	p.advance()
	body, err := p.compoundList()
	if err != nil {
		return nil, err
	}
	if !p.isReserved("done") {
		return nil, p.errOrIncomplete("expected done")
	}
	p.advance()
	return body, nil
}

func (p *Parser) forClause() (*Node, error) {
	p.advance() // for
	if !p.isWord() {
		return nil, p.errOrIncomplete("expected name after for")
	}
	nameNode := word(p.advance())
	p.skipNewlines()
	var list *Node
	if p.isReserved("in") {
		p.advance()
		list = p.wordlistOpt()
		p.consumeSequentialSep()
	} else {
		p.consumeSequentialSep()
	}
	body, err := p.doGroup()
	if err != nil {
		return nil, err
	}
	return &Node{Tag: ForClause, A: nameNode, B: list, C: body}, nil
}

func (p *Parser) wordlistOpt() *Node {
	var words []*Node
	for p.isWord() {
		words = append(words, word(p.advance()))
	}
	return &Node{Tag: Wordlist, Children: words}
}

func (p *Parser) caseClause() (*Node, error) {
	p.advance() // case
	if !p.isWord() {
		return nil, p.errOrIncomplete("expected word after case")
	}
	subj := word(p.advance())
	p.skipNewlines()
	if !p.isReserved("in") {
		return nil, p.errOrIncomplete("expected in")
	}
	p.advance()
	p.skipNewlines()
	var items []*Node
	for !p.isReserved("esac") {
		if p.atEOF() {
			return nil, incompleteSignal{}
		}
		item, err := p.caseItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	p.advance() // esac
	return &Node{Tag: CaseClause, A: subj, Children: items}, nil
}

func (p *Parser) caseItem() (*Node, error) {
	if p.isOp(token.LPAREN) {
		p.advance()
	}
	pats, err := p.patternList()
	if err != nil {
		return nil, err
	}
	if !p.isOp(token.RPAREN) {
		return nil, p.errOrIncomplete("expected ) in case pattern")
	}
	p.advance()
	p.skipNewlines()
	var body *Node
	if !p.isOp(token.DSEMI) && !p.isOp(token.SEMIFALL) && !p.isReserved("esac") {
		body, err = p.compoundList()
		if err != nil {
			return nil, err
		}
	}
	tag := CaseItemNs
	if p.isOp(token.DSEMI) || p.isOp(token.SEMIFALL) {
		p.advance()
		p.skipNewlines()
		tag = CaseItem
	}
	return &Node{Tag: tag, A: pats, B: body}, nil
}

func (p *Parser) patternList() (*Node, error) {
	if !p.isWord() {
		return nil, p.errOrIncomplete("expected case pattern")
	}
	pats := []*Node{word(p.advance())}
	for p.isOp(token.PIPE) {
		p.advance()
		if !p.isWord() {
			return nil, p.errOrIncomplete("expected case pattern")
		}
		pats = append(pats, word(p.advance()))
	}
	return &Node{Tag: PatternList, Children: pats}, nil
}

// tryFunctionDefinition speculatively parses "fname ( ) linebreak
// function_body", backtracking to the entry cursor if the NAME isn't
// immediately followed by "()".
func (p *Parser) tryFunctionDefinition() (*Node, bool, error) {
	if !p.isWord() {
		return nil, false, nil
	}
	mark := p.mark()
	nameItem, _ := p.peek()
	lit, ok := nameItem.Word.Lit()
	if !ok || !isValidName(lit) {
		return nil, false, nil
	}
	p.advance()
	if !p.isOp(token.LPAREN) {
		p.reset(mark)
		return nil, false, nil
	}
	p.advance()
	if !p.isOp(token.RPAREN) {
		p.reset(mark)
		return nil, false, nil
	}
	p.advance()
	p.skipNewlines()
	body, err := p.functionBody()
	if err != nil {
		return nil, false, err
	}
	return &Node{Tag: FunctionDefinition, A: word(nameItem), B: body}, true, nil
}

func (p *Parser) functionBody() (*Node, error) {
	cc, err := p.compoundCommand()
	if err != nil {
		return nil, err
	}
	wrapped, err := p.withTrailingRedirects(cc)
	if err != nil {
		return nil, err
	}
	return &Node{Tag: FunctionBody, Child: wrapped}, nil
}

func (p *Parser) simpleCommand() (*Node, error) {
	var prefix []*Node
	for {
		if r, ok, err := p.tryIoRedirect(); err != nil {
			return nil, err
		} else if ok {
			prefix = append(prefix, r)
			continue
		}
		if p.isWord() {
			it, _ := p.peek()
			if _, _, ok := splitAssignment(it.Word); ok {
				prefix = append(prefix, word(p.advance()))
				continue
			}
		}
		break
	}
	var name *Node
	var suffix []*Node
	if p.isWord() {
		name = word(p.advance())
		for {
			if r, ok, err := p.tryIoRedirect(); err != nil {
				return nil, err
			} else if ok {
				suffix = append(suffix, r)
				continue
			}
			if p.isWord() {
				suffix = append(suffix, word(p.advance()))
				continue
			}
			break
		}
	}
	if name == nil && len(prefix) == 0 {
		return nil, p.errOrIncomplete("expected a command")
	}
	var prefixNode, suffixNode *Node
	if len(prefix) > 0 {
		prefixNode = &Node{Tag: CmdPrefix, Children: prefix}
	}
	if len(suffix) > 0 {
		suffixNode = &Node{Tag: CmdSuffix, Children: suffix}
	}
	return &Node{Tag: SimpleCommand, A: prefixNode, B: name, C: suffixNode}, nil
}

func (p *Parser) redirectOpKind() (token.Token, bool, bool) {
	it, ok := p.peek()
	if !ok || it.Kind != wtok.ItemOp {
		return 0, false, false
	}
	switch it.Op.Kind {
	case token.LSS, token.GTR, token.SHR, token.DPLIN, token.DPLOUT, token.RDRINOUT, token.CLOBBER:
		return it.Op.Kind, false, true
	case token.SHL, token.DHEREDOC:
		return it.Op.Kind, true, true
	default:
		return 0, false, false
	}
}

func (p *Parser) tryIoRedirect() (*Node, bool, error) {
	mark := p.mark()
	var numNode *Node
	if it, ok := p.peek(); ok && it.Kind == wtok.ItemOp &&
		(it.Op.Kind == token.IONUMBER || it.Op.Kind == token.IOLOCATION) {
		numNode = &Node{
			Tag: TokenLeaf, Pos: it.Op.Pos, Op: it.Op.Kind,
			Word: &wtok.Word{Parts: []wtok.Part{{Kind: wtok.Literal, Text: it.Op.Text}}},
		}
		p.advance()
	}
	opKind, isHeredoc, ok := p.redirectOpKind()
	if !ok {
		p.reset(mark)
		return nil, false, nil
	}
	opTok, _ := p.peek()
	p.advance()
	if !p.isWord() {
		return nil, false, p.errOrIncomplete("expected word after redirection operator")
	}
	targetNode := word(p.advance())
	if isHeredoc {
		io := &Node{Tag: IoHere, A: numNode, Op: opKind, Pos: opTok.Op.Pos, Pair: [2]*Node{targetNode, nil}}
		return io, true, nil
	}
	io := &Node{Tag: IoFile, A: numNode, Op: opKind, Pos: opTok.Op.Pos, B: targetNode}
	return io, true, nil
}

// --- heredoc pairing ---

func (p *Parser) pairHeredocs(root *Node) *ParseError {
	var ioHeres []*Node
	collectIoHeres(root, &ioHeres)
	var ends []wtok.Item
	for _, it := range p.items {
		if it.Kind == wtok.ItemOp && it.Op.Kind == token.ENDHEREDOC {
			ends = append(ends, it)
		}
	}
	if len(ioHeres) != len(ends) {
		return &ParseError{Msg: "here-document count mismatch while pairing bodies"}
	}
	for i, io := range ioHeres {
		delimWord := io.Pair[0].Word
		if delimWord.Heredoc == nil || delimWord.Heredoc != ends[i].Op.Heredoc {
			return &ParseError{Msg: "here-document pairing mismatch"}
		}
		io.Pair[1] = &Node{Tag: TokenLeaf, Pos: ends[i].Op.Pos, Op: token.ENDHEREDOC}
	}
	return nil
}

func collectIoHeres(n *Node, out *[]*Node) {
	if n == nil {
		return
	}
	if n.Tag == IoHere {
		*out = append(*out, n)
	}
	collectIoHeres(n.Child, out)
	collectIoHeres(n.A, out)
	collectIoHeres(n.B, out)
	collectIoHeres(n.C, out)
	collectIoHeres(n.D, out)
	for _, c := range n.Children {
		collectIoHeres(c, out)
	}
}

// --- assignment-word and name helpers ---

func isNameStartByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isNameContByte(b byte) bool {
	return isNameStartByte(b) || (b >= '0' && b <= '9')
}

func isValidName(s string) bool {
	if s == "" || !isNameStartByte(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isNameContByte(s[i]) {
			return false
		}
	}
	return true
}

// splitAssignment reports whether w has the shape "name=value" at its
// leading literal part, returning the split name and the remaining word
// as the value (spec §4.2 / POSIX cmd_prefix assignment_word rule).
func splitAssignment(w *wtok.Word) (name string, value *wtok.Word, ok bool) {
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
