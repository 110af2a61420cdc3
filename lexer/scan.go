package lexer

import (
	"fmt"
	"strings"

	"poshix.dev/poshix/token"
	"poshix.dev/poshix/wtok"
)

// scanItem produces the next complete item (word or operator token)
// starting at pos, or a needMore/SyntaxError. It commits nothing to the
// receiver's persistent state on failure.
func (l *Lexer) scanItem(pos int, atEOF bool) (*wtok.Item, int, error) {
	if l.drainPending {
		return l.drainHeredocs(pos, atEOF)
	}
	i, err := l.skipBlanks(pos, atEOF)
	if err != nil {
		return nil, pos, err
	}
	if i >= len(l.buf) {
		return nil, i, nil
	}
	b := l.buf[i]

	switch {
	case b == '\n':
		l.noteNewline(i)
		item := &wtok.Item{Kind: wtok.ItemOp, Op: wtok.Token{Kind: token.NEWLINE, Pos: token.Pos(i + 1)}}
		if l.hasUndrainedHeredocs() {
			l.drainPending = true
		}
		return item, i + 1, nil

	case b == '#':
		j := i
		for j < len(l.buf) && l.buf[j] != '\n' {
			j++
		}
		if j >= len(l.buf) && !atEOF {
			return nil, pos, &needMore{needWordLookahead}
		}
		return nil, j, nil

	case isDigit(b):
		item, next, applicable, err := l.tryIONumber(i, atEOF)
		if err != nil {
			return nil, pos, err
		}
		if applicable {
			return item, next, nil
		}
		return l.scanWord(i, atEOF, true)

	case b == '{':
		item, next, applicable, err := l.tryIOLocation(i, atEOF)
		if err != nil {
			return nil, pos, err
		}
		if applicable {
			return item, next, nil
		}
		return l.scanWord(i, atEOF, true)

	case isOperatorStart(b):
		return l.scanOperator(i, atEOF)

	default:
		return l.scanWord(i, atEOF, true)
	}
}

// tryIONumber recognizes a run of digits immediately followed (no blank)
// by a redirection operator as an IONUMBER pseudo-token (spec §4.1).
// applicable is false when the digits are an ordinary word instead.
func (l *Lexer) tryIONumber(i int, atEOF bool) (item *wtok.Item, next int, applicable bool, err error) {
	j := i
	for j < len(l.buf) && isDigit(l.buf[j]) {
		j++
	}
	if j < len(l.buf) && (l.buf[j] == '<' || l.buf[j] == '>') {
		item := &wtok.Item{Kind: wtok.ItemOp, Op: wtok.Token{Kind: token.IONUMBER, Pos: token.Pos(i + 1), Text: string(l.buf[i:j])}}
		return item, j, true, nil
	}
	if j >= len(l.buf) && !atEOF {
		return nil, i, false, &needMore{needWordLookahead}
	}
	return nil, i, false, nil
}

// tryIOLocation recognizes "{name}" immediately followed by a redirection
// operator as an IOLOCATION pseudo-token (spec §4.1). applicable is false
// when "{" instead starts an ordinary word (e.g. a bare "{" reserved word).
func (l *Lexer) tryIOLocation(i int, atEOF bool) (item *wtok.Item, next int, applicable bool, err error) {
	j := i + 1
	k := j
	for k < len(l.buf) && isNameCont(l.buf[k]) {
		k++
	}
	if k >= len(l.buf) {
		if !atEOF {
			return nil, i, false, &needMore{needWordLookahead}
		}
		return nil, i, false, nil
	}
	if l.buf[k] != '}' || k == j {
		return nil, i, false, nil
	}
	m := k + 1
	if m >= len(l.buf) {
		if !atEOF {
			return nil, i, false, &needMore{needWordLookahead}
		}
		return nil, i, false, nil
	}
	if l.buf[m] != '<' && l.buf[m] != '>' {
		return nil, i, false, nil
	}
	item = &wtok.Item{Kind: wtok.ItemOp, Op: wtok.Token{Kind: token.IOLOCATION, Pos: token.Pos(i + 1), Text: string(l.buf[j:k])}}
	return item, m, true, nil
}

func (l *Lexer) skipBlanks(pos int, atEOF bool) (int, error) {
	i := pos
	for i < len(l.buf) {
		b := l.buf[i]
		switch {
		case b == ' ' || b == '\t' || b == '\r':
			i++
		case b == '\\' && i+1 < len(l.buf) && l.buf[i+1] == '\n':
			l.noteNewline(i + 1)
			i += 2
		case b == '\\' && i+1 >= len(l.buf):
			if atEOF {
				return i, nil
			}
			return pos, &needMore{needWordLookahead}
		default:
			return i, nil
		}
	}
	return i, nil
}

func (l *Lexer) hasUndrainedHeredocs() bool {
	for _, hd := range l.heredocQueue {
		if !hd.BodyAttached {
			return true
		}
	}
	return false
}

func (l *Lexer) drainHeredocs(pos int, atEOF bool) (*wtok.Item, int, error) {
	var hd *wtok.Heredoc
	for _, h := range l.heredocQueue {
		if !h.BodyAttached {
			hd = h
			break
		}
	}
	if hd == nil {
		l.drainPending = false
		return l.scanItem(pos, atEOF)
	}
	i := pos
	var body strings.Builder
	for {
		lineStart := i
		j := i
		for j < len(l.buf) && l.buf[j] != '\n' {
			j++
		}
		if j >= len(l.buf) {
			return nil, pos, &needMore{needHeredocBody}
		}
		line := l.buf[lineStart:j]
		check := line
		if hd.StripTabs {
			check = bytesTrimLeadingTabs(line)
		}
		if string(check) == hd.Delimiter {
			hd.Body = body.String()
			hd.BodyAttached = true
			hd.BodyNeedsExpand = !hd.DelimiterQuoted
			l.noteNewline(j)
			item := &wtok.Item{Kind: wtok.ItemOp, Op: wtok.Token{Kind: token.ENDHEREDOC, Heredoc: hd}}
			return item, j + 1, nil
		}
		body.Write(check)
		body.WriteByte('\n')
		l.noteNewline(j)
		i = j + 1
	}
}

// --- operators ---

func (l *Lexer) scanOperator(pos int, atEOF bool) (*wtok.Item, int, error) {
	b := l.buf[pos]
	has := func(n int) bool { return pos+n < len(l.buf) }
	mk := func(t token.Token, n int) (*wtok.Item, int, error) {
		return &wtok.Item{Kind: wtok.ItemOp, Op: wtok.Token{Kind: t, Pos: token.Pos(pos + 1)}}, pos + n, nil
	}
	switch b {
	case '&':
		if !has(1) && !atEOF {
			return nil, pos, &needMore{needWordLookahead}
		}
		if has(1) && l.buf[pos+1] == '&' {
			return mk(token.LAND, 2)
		}
		return mk(token.AMP, 1)
	case '|':
		if !has(1) && !atEOF {
			return nil, pos, &needMore{needWordLookahead}
		}
		if has(1) && l.buf[pos+1] == '|' {
			return mk(token.LOR, 2)
		}
		return mk(token.PIPE, 1)
	case ';':
		if !has(1) && !atEOF {
			return nil, pos, &needMore{needWordLookahead}
		}
		if has(1) && l.buf[pos+1] == ';' {
			return mk(token.DSEMI, 2)
		}
		if has(1) && l.buf[pos+1] == '&' {
			return mk(token.SEMIFALL, 2)
		}
		return mk(token.SEMI, 1)
	case '(':
		return mk(token.LPAREN, 1)
	case ')':
		return mk(token.RPAREN, 1)
	case '<':
		if !has(1) && !atEOF {
			return nil, pos, &needMore{needWordLookahead}
		}
		if has(1) {
			switch l.buf[pos+1] {
			case '<':
				if !has(2) && !atEOF {
					return nil, pos, &needMore{needWordLookahead}
				}
				if has(2) && l.buf[pos+2] == '-' {
					l.pendingHeredocOp, l.pendingStripTabs = true, true
					return mk(token.DHEREDOC, 3)
				}
				l.pendingHeredocOp, l.pendingStripTabs = true, false
				return mk(token.SHL, 2)
			case '>':
				return mk(token.RDRINOUT, 2)
			case '&':
				return mk(token.DPLIN, 2)
			}
		}
		return mk(token.LSS, 1)
	case '>':
		if !has(1) && !atEOF {
			return nil, pos, &needMore{needWordLookahead}
		}
		if has(1) {
			switch l.buf[pos+1] {
			case '>':
				return mk(token.SHR, 2)
			case '|':
				return mk(token.CLOBBER, 2)
			case '&':
				return mk(token.DPLOUT, 2)
			}
		}
		return mk(token.GTR, 1)
	}
	return nil, pos, &SyntaxError{Pos: l.position(pos), Msg: fmt.Sprintf("illegal character %q in operator position", b)}
}

// --- words ---

func (l *Lexer) scanWord(pos int, atEOF bool, breakOnBoundary bool) (*wtok.Item, int, error) {
	w := &wtok.Word{Pos: token.Pos(pos + 1)}
	var lit strings.Builder
	flushLit := func() {
		if lit.Len() > 0 {
			w.Parts = append(w.Parts, wtok.Part{Kind: wtok.Literal, Text: lit.String()})
			lit.Reset()
		}
	}
	i := pos
	for {
		if i >= len(l.buf) {
			if !atEOF {
				return nil, pos, &needMore{needWordLookahead}
			}
			break
		}
		b := l.buf[i]
		if breakOnBoundary && isWordBreak(b) {
			break
		}
		switch b {
		case '\\':
			if i+1 >= len(l.buf) {
				if !atEOF {
					return nil, pos, &needMore{needWordLookahead}
				}
				lit.WriteByte('\\')
				i++
				continue
			}
			if l.buf[i+1] == '\n' {
				l.noteNewline(i + 1)
				i += 2
				continue
			}
			lit.WriteByte(l.buf[i+1])
			i += 2
			continue
		case '\'':
			flushLit()
			text, next, err := l.scanSingleQuoted(i)
			if err != nil {
				return nil, pos, err
			}
			w.Parts = append(w.Parts, wtok.Part{Kind: wtok.Literal, Text: text, WasSingleQuoted: true})
			w.SingleQuoted = true
			i = next
			continue
		case '"':
			flushLit()
			parts, next, err := l.scanDoubleQuoted(i, atEOF)
			if err != nil {
				return nil, pos, err
			}
			w.Parts = append(w.Parts, parts...)
			w.DoubleQuoted = true
			i = next
			continue
		case '`':
			flushLit()
			part, next, err := l.scanBacktick(i)
			if err != nil {
				return nil, pos, err
			}
			w.Parts = append(w.Parts, *part)
			i = next
			continue
		case '$':
			flushLit()
			part, next, err := l.scanDollar(i, atEOF)
			if err != nil {
				return nil, pos, err
			}
			if part == nil {
				lit.WriteByte('$')
				i = next
				continue
			}
			w.Parts = append(w.Parts, *part)
			i = next
			continue
		case '~':
			if len(w.Parts) == 0 && lit.Len() == 0 {
				text, next := l.scanTilde(i)
				w.Parts = append(w.Parts, wtok.Part{Kind: wtok.Tilde, Text: text})
				i = next
				continue
			}
			lit.WriteByte(b)
			i++
		default:
			if b == '\n' {
				l.noteNewline(i)
			}
			lit.WriteByte(b)
			i++
		}
	}
	flushLit()
	if len(w.Parts) == 0 {
		w.Parts = append(w.Parts, wtok.Part{Kind: wtok.Literal, Text: ""})
	}
	return &wtok.Item{Kind: wtok.ItemWord, Word: w}, i, nil
}

func (l *Lexer) scanTilde(pos int) (string, int) {
	i := pos + 1
	for i < len(l.buf) {
		b := l.buf[i]
		if b == '/' || isWordBreak(b) || b == '\'' || b == '"' || b == '`' || b == '$' {
			break
		}
		i++
	}
	return string(l.buf[pos:i]), i
}

// --- quoting ---

func (l *Lexer) scanSingleQuoted(pos int) (string, int, error) {
	i := pos + 1
	start := i
	for {
		if i >= len(l.buf) {
			return "", pos, &needMore{needQuoteClose}
		}
		if l.buf[i] == '\'' {
			return string(l.buf[start:i]), i + 1, nil
		}
		if l.buf[i] == '\n' {
			l.noteNewline(i)
		}
		i++
	}
}

func (l *Lexer) scanDoubleQuoted(pos int, atEOF bool) ([]wtok.Part, int, error) {
	i := pos + 1
	var parts []wtok.Part
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, wtok.Part{Kind: wtok.Literal, Text: lit.String(), WasDoubleQuoted: true})
			lit.Reset()
		}
	}
	for {
		if i >= len(l.buf) {
			return nil, pos, &needMore{needQuoteClose}
		}
		b := l.buf[i]
		switch b {
		case '"':
			flush()
			if len(parts) == 0 {
				parts = append(parts, wtok.Part{Kind: wtok.Literal, Text: "", WasDoubleQuoted: true})
			}
			return parts, i + 1, nil
		case '\\':
			if i+1 >= len(l.buf) {
				return nil, pos, &needMore{needQuoteClose}
			}
			n := l.buf[i+1]
			switch n {
			case '$', '`', '"', '\\':
				lit.WriteByte(n)
				i += 2
			case '\n':
				l.noteNewline(i + 1)
				i += 2
			default:
				lit.WriteByte('\\')
				lit.WriteByte(n)
				i += 2
			}
		case '`':
			flush()
			part, next, err := l.scanBacktick(i)
			if err != nil {
				return nil, pos, err
			}
			part.WasDoubleQuoted = true
			parts = append(parts, *part)
			i = next
		case '$':
			flush()
			part, next, err := l.scanDollar(i, atEOF)
			if err != nil {
				return nil, pos, err
			}
			if part == nil {
				lit.WriteByte('$')
				i = next
				continue
			}
			part.WasDoubleQuoted = true
			parts = append(parts, *part)
			i = next
		default:
			if b == '\n' {
				l.noteNewline(i)
			}
			lit.WriteByte(b)
			i++
		}
	}
}

func (l *Lexer) scanBacktick(pos int) (*wtok.Part, int, error) {
	i := pos + 1
	var sb strings.Builder
	for {
		if i >= len(l.buf) {
			return nil, pos, &needMore{needQuoteClose}
		}
		b := l.buf[i]
		if b == '`' {
			return &wtok.Part{Kind: wtok.CommandSubst, Nested: l.lexNested(sb.String())}, i + 1, nil
		}
		if b == '\\' && i+1 < len(l.buf) {
			n := l.buf[i+1]
			if n == '`' || n == '\\' || n == '$' {
				sb.WriteByte(n)
				i += 2
				continue
			}
			if n == '\n' {
				l.noteNewline(i + 1)
				i += 2
				continue
			}
		}
		if b == '\n' {
			l.noteNewline(i)
		}
		sb.WriteByte(b)
		i++
	}
}

// --- expansions ---

func (l *Lexer) scanDollar(pos int, atEOF bool) (*wtok.Part, int, error) {
	i := pos + 1
	if i >= len(l.buf) {
		if atEOF {
			return nil, i, nil
		}
		return nil, pos, &needMore{needWordLookahead}
	}
	b := l.buf[i]
	switch {
	case b == '(':
		if i+1 < len(l.buf) && l.buf[i+1] == '(' {
			return l.scanArithmetic(pos, atEOF)
		}
		if i+1 >= len(l.buf) && !atEOF {
			return nil, pos, &needMore{needWordLookahead}
		}
		return l.scanCmdSubstParen(pos, atEOF)
	case b == '{':
		return l.scanParamBraced(pos, atEOF)
	case strings.IndexByte("@*#?-$!", b) >= 0 || isDigit(b) || isNameStart(b):
		return l.scanParamPlain(pos, atEOF)
	default:
		return nil, i, nil
	}
}

func (l *Lexer) scanParamPlain(pos int, atEOF bool) (*wtok.Part, int, error) {
	i := pos + 1
	b := l.buf[i]
	switch {
	case strings.IndexByte("@*#?-$!", b) >= 0:
		return &wtok.Part{Kind: wtok.Parameter, ParamName: string(b)}, i + 1, nil
	case isDigit(b):
		return &wtok.Part{Kind: wtok.Parameter, ParamName: string(b)}, i + 1, nil
	default:
		j := i
		for j < len(l.buf) && isNameCont(l.buf[j]) {
			j++
		}
		if j >= len(l.buf) && !atEOF {
			return nil, pos, &needMore{needWordLookahead}
		}
		return &wtok.Part{Kind: wtok.Parameter, ParamName: string(l.buf[i:j])}, j, nil
	}
}

func (l *Lexer) scanParamBraced(pos int, atEOF bool) (*wtok.Part, int, error) {
	i := pos + 2 // skip "${"
	start := i
	closeAt := -1
	for {
		if i >= len(l.buf) {
			return nil, pos, &needMore{needQuoteClose}
		}
		b := l.buf[i]
		switch b {
		case '}':
			closeAt = i
		case '\'':
			_, next, err := l.scanSingleQuoted(i)
			if err != nil {
				return nil, pos, err
			}
			i = next
			continue
		case '"':
			_, next, err := l.scanDoubleQuoted(i, atEOF)
			if err != nil {
				return nil, pos, err
			}
			i = next
			continue
		case '`':
			_, next, err := l.scanBacktick(i)
			if err != nil {
				return nil, pos, err
			}
			i = next
			continue
		case '$':
			_, next, err := l.scanDollar(i, atEOF)
			if err != nil {
				return nil, pos, err
			}
			i = next
			continue
		}
		if closeAt >= 0 {
			break
		}
		i++
	}
	inner := string(l.buf[start:closeAt])
	return l.parseParamBody(inner), closeAt + 1, nil
}

func (l *Lexer) parseParamBody(inner string) *wtok.Part {
	p := &wtok.Part{Kind: wtok.Parameter}
	s := inner
	if strings.HasPrefix(s, "#") && s != "#" {
		p.ParamSubtype = wtok.ParamLength
		name, _ := splitParamName(s[1:])
		p.ParamName = name
		return p
	}
	name, rest := splitParamName(s)
	p.ParamName = name
	switch {
	case strings.HasPrefix(rest, ":-"):
		p.ParamSubtype, p.ParamColon, rest = wtok.ParamDefault, true, rest[2:]
	case strings.HasPrefix(rest, "-"):
		p.ParamSubtype, rest = wtok.ParamDefault, rest[1:]
	case strings.HasPrefix(rest, ":="):
		p.ParamSubtype, p.ParamColon, rest = wtok.ParamAssignDefault, true, rest[2:]
	case strings.HasPrefix(rest, "="):
		p.ParamSubtype, rest = wtok.ParamAssignDefault, rest[1:]
	case strings.HasPrefix(rest, ":?"):
		p.ParamSubtype, p.ParamColon, rest = wtok.ParamErrorIfUnset, true, rest[2:]
	case strings.HasPrefix(rest, "?"):
		p.ParamSubtype, rest = wtok.ParamErrorIfUnset, rest[1:]
	case strings.HasPrefix(rest, ":+"):
		p.ParamSubtype, p.ParamColon, rest = wtok.ParamAlternative, true, rest[2:]
	case strings.HasPrefix(rest, "+"):
		p.ParamSubtype, rest = wtok.ParamAlternative, rest[1:]
	case strings.HasPrefix(rest, "##"):
		p.ParamSubtype, rest = wtok.ParamStripPrefixLong, rest[2:]
	case strings.HasPrefix(rest, "#"):
		p.ParamSubtype, rest = wtok.ParamStripPrefix, rest[1:]
	case strings.HasPrefix(rest, "%%"):
		p.ParamSubtype, rest = wtok.ParamStripSuffixLong, rest[2:]
	case strings.HasPrefix(rest, "%"):
		p.ParamSubtype, rest = wtok.ParamStripSuffix, rest[1:]
	default:
		p.ParamSubtype = wtok.ParamPlain
	}
	if rest != "" {
		p.OptionalWord = l.lexNestedWord(rest)
	}
	return p
}

func splitParamName(s string) (name, rest string) {
	if s == "" {
		return "", ""
	}
	b := s[0]
	if strings.IndexByte("@*#?-$!", b) >= 0 {
		return s[:1], s[1:]
	}
	i := 0
	if isDigit(b) {
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		return s[:i], s[i:]
	}
	if isNameStart(b) {
		for i < len(s) && isNameCont(s[i]) {
			i++
		}
		return s[:i], s[i:]
	}
	return "", s
}

func (l *Lexer) scanCmdSubstParen(pos int, atEOF bool) (*wtok.Part, int, error) {
	i := pos + 2 // skip "$("
	start := i
	depth := 0
	for {
		if i >= len(l.buf) {
			return nil, pos, &needMore{needQuoteClose}
		}
		b := l.buf[i]
		switch b {
		case '\'':
			_, next, err := l.scanSingleQuoted(i)
			if err != nil {
				return nil, pos, err
			}
			i = next
		case '"':
			_, next, err := l.scanDoubleQuoted(i, atEOF)
			if err != nil {
				return nil, pos, err
			}
			i = next
		case '`':
			_, next, err := l.scanBacktick(i)
			if err != nil {
				return nil, pos, err
			}
			i = next
		case '$':
			_, next, err := l.scanDollar(i, atEOF)
			if err != nil {
				return nil, pos, err
			}
			i = next
		case '(':
			depth++
			i++
		case ')':
			if depth == 0 {
				text := string(l.buf[start:i])
				return &wtok.Part{Kind: wtok.CommandSubst, Nested: l.lexNested(text)}, i + 1, nil
			}
			depth--
			i++
		default:
			if b == '\n' {
				l.noteNewline(i)
			}
			i++
		}
	}
}

func (l *Lexer) scanArithmetic(pos int, atEOF bool) (*wtok.Part, int, error) {
	i := pos + 3 // skip "$(("
	start := i
	depth := 0
	for {
		if i >= len(l.buf) {
			return nil, pos, &needMore{needQuoteClose}
		}
		b := l.buf[i]
		switch b {
		case '\'':
			_, next, err := l.scanSingleQuoted(i)
			if err != nil {
				return nil, pos, err
			}
			i = next
		case '"':
			_, next, err := l.scanDoubleQuoted(i, atEOF)
			if err != nil {
				return nil, pos, err
			}
			i = next
		case '`':
			_, next, err := l.scanBacktick(i)
			if err != nil {
				return nil, pos, err
			}
			i = next
		case '$':
			_, next, err := l.scanDollar(i, atEOF)
			if err != nil {
				return nil, pos, err
			}
			i = next
		case '(':
			depth++
			i++
		case ')':
			if depth > 0 {
				depth--
				i++
				continue
			}
			if i+1 >= len(l.buf) {
				if !atEOF {
					return nil, pos, &needMore{needQuoteClose}
				}
				i++
				continue
			}
			if l.buf[i+1] == ')' {
				text := string(l.buf[start:i])
				return &wtok.Part{Kind: wtok.Arithmetic, Nested: l.lexNested(text)}, i + 2, nil
			}
			i++
		default:
			if b == '\n' {
				l.noteNewline(i)
			}
			i++
		}
	}
}

// lexNested re-lexes a fully-known, complete nested token list (the body
// of a command substitution or arithmetic expansion) with the same state
// machine, per spec §9 ("the nested content is lexed by the identical
// state machine").
func (l *Lexer) lexNested(text string) []wtok.Item {
	sub := New()
	sub.Feed([]byte(text), true)
	return sub.Take()
}

// lexNestedWord lexes a complete, already-extracted span of text (a
// parameter expansion's default/alternative/assign word operand) as a
// single word, without breaking on blanks: POSIX treats that operand as
// one word whose literal content may include spaces.
func (l *Lexer) lexNestedWord(text string) *wtok.Word {
	sub := New()
	sub.buf = []byte(text)
	item, _, err := sub.scanWord(0, true, false)
	if err != nil || item == nil {
		return &wtok.Word{Parts: []wtok.Part{{Kind: wtok.Literal, Text: text}}}
	}
	return item.Word
}

// --- character classes ---

func isWordBreak(b byte) bool {
	switch b {
	case ' ', '\t', '\n', ';', '&', '>', '<', '|', '(', ')', '\r':
		return true
	}
	return false
}

func isOperatorStart(b byte) bool {
	switch b {
	case '&', '|', ';', '(', ')', '<', '>':
		return true
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isNameStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isNameCont(b byte) bool { return isNameStart(b) || isDigit(b) }

func bytesTrimLeadingTabs(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] == '\t' {
		i++
	}
	return b[i:]
}
