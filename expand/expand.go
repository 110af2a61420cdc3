// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package expand implements the Expander spec §4.4 names: tilde,
// parameter, command-substitution, and arithmetic expansion over a
// wtok.Word, followed by IFS field splitting and pathname expansion. It
// keeps the teacher's idea of threading expansion state through one
// small struct and building fields out of quote-tagged parts
// (_examples/mvdan-sh/expand/expand.go's Context/fieldPart), rebuilt
// around wtok.Word's typed parts and a frame.Frame instead of the
// teacher's syntax.Word/Environ pair.
package expand

import (
	"fmt"
	"os/user"
	"strconv"
	"strings"
	"unicode/utf8"

	"poshix.dev/poshix/frame"
	"poshix.dev/poshix/gram"
	"poshix.dev/poshix/lexer"
	"poshix.dev/poshix/past"
	"poshix.dev/poshix/pattern"
	"poshix.dev/poshix/wtok"
)

// Flags selects which expansions ExpandString applies, per spec §4.4.
type Flags uint

const (
	Tilde Flags = 1 << iota
	Parameter
	CommandSubst
	Arithmetic
	FieldSplit
	Pathname
)

// allExpansions is every per-part expansion kind, the set expand_word
// (spec §4.4) always applies.
const allExpansions = Tilde | Parameter | CommandSubst | Arithmetic

// NoSplitGlob is the preset spec §4.4 names for assignment right-hand
// sides: every expansion except field splitting and pathname expansion.
const NoSplitGlob = allExpansions

// Heredoc is the preset spec §4.4 names for here-document bodies:
// parameter, command, and arithmetic expansion only.
const Heredoc = Parameter | CommandSubst | Arithmetic

// UnsetParameterError is returned when a `${name:?word}` / `${name?word}`
// expansion's parameter is unset (or, with the colon form, empty).
type UnsetParameterError struct {
	Name    string
	Message string
}

func (e *UnsetParameterError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// NoCapabilityError is returned when an expansion needs a frame
// capability (command substitution, arithmetic evaluation) that the
// embedding host left nil. Both capabilities are explicit core Non-goals
// (spec §1): the expander only defines their input/output contract.
type NoCapabilityError struct {
	Capability string
}

func (e *NoCapabilityError) Error() string {
	return fmt.Sprintf("expand: no %s capability wired into the frame", e.Capability)
}

// piece is one quote-tagged fragment of expanded word content, the
// analogue of the teacher's fieldPart.
type piece struct {
	text string
	// quoted marks a fragment whose glob metacharacters must stay
	// literal during pathname expansion (the teacher's quoteDouble /
	// quoteSingle distinction, collapsed to one bit since nothing here
	// distinguishes the two quote kinds downstream).
	quoted bool
	// splittable marks a fragment produced by an unquoted parameter,
	// command-substitution, or arithmetic expansion: only these bytes
	// are IFS field-split boundaries (spec §4.4 "Field splitting").
	splittable bool
}

// ExpandWord implements spec §4.4's expand_word entry point: tilde,
// parameter, command, and arithmetic expansion, then field splitting on
// unquoted expansion output, then pathname expansion per field.
func ExpandWord(f *frame.Frame, w *wtok.Word) ([]string, error) {
	pieces, err := wordPieces(f, w, allExpansions)
	if err != nil {
		return nil, err
	}
	fields := splitFields(f, pieces)
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		plain := joinPlain(field)
		if !f.Options.NoGlob {
			patText := joinForGlob(field)
			if pattern.HasMeta(patText, 0) {
				if matches, ok := pattern.ExpandPath(patText); ok {
					out = append(out, matches...)
					continue
				}
			}
		}
		out = append(out, plain)
	}
	return out, nil
}

// ExpandString implements spec §4.4's expand_string entry point: a named
// subset of expansions (flags) applied over raw text rather than an
// already-lexed wtok.Word, used for here-document bodies, assignment
// right-hand sides not already captured as a Word, and trap actions.
// ExpandString performs no pathname expansion: Pathname in flags has no
// effect.
func ExpandString(f *frame.Frame, text string, flags Flags) (string, error) {
	w := lexer.LexWord(text)
	pieces, err := wordPieces(f, w, flags)
	if err != nil {
		return "", err
	}
	if flags&FieldSplit == 0 {
		return joinPlain(pieces), nil
	}
	fields := splitFields(f, pieces)
	strs := make([]string, len(fields))
	for i, field := range fields {
		strs[i] = joinPlain(field)
	}
	return strings.Join(strs, " "), nil
}

func joinPlain(field []piece) string {
	var b strings.Builder
	for _, p := range field {
		b.WriteString(p.text)
	}
	return b.String()
}

// joinForGlob rebuilds field as pattern text, escaping the glob
// metacharacters of any quoted fragment so pattern.ExpandPath treats
// them literally (the teacher's syntax.QuotePattern equivalent).
func joinForGlob(field []piece) string {
	var b strings.Builder
	for _, p := range field {
		if p.quoted {
			b.WriteString(quoteGlobMeta(p.text))
		} else {
			b.WriteString(p.text)
		}
	}
	return b.String()
}

func quoteGlobMeta(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// wordPieces expands every part of w in order, without field splitting
// or pathname expansion. flags selects which per-part expansion kinds
// apply; a part whose kind is not in flags is left untouched as literal
// text (spec §4.4's expand_string named subset).
func wordPieces(f *frame.Frame, w *wtok.Word, flags Flags) ([]piece, error) {
	if w == nil {
		return nil, nil
	}
	var out []piece
	for _, part := range w.Parts {
		quoted := w.SingleQuoted || w.DoubleQuoted || part.WasSingleQuoted || part.WasDoubleQuoted
		switch part.Kind {
		case wtok.Literal:
			out = append(out, piece{text: part.Text, quoted: quoted})
		case wtok.Tilde:
			if flags&Tilde == 0 {
				out = append(out, piece{text: part.Text, quoted: quoted})
				continue
			}
			out = append(out, piece{text: expandTilde(f, part.Text)})
		case wtok.Parameter:
			if flags&Parameter == 0 {
				out = append(out, piece{text: part.Text, quoted: quoted})
				continue
			}
			v, err := expandParameter(f, &part, flags)
			if err != nil {
				return nil, err
			}
			out = append(out, piece{text: v, quoted: quoted, splittable: !quoted})
		case wtok.CommandSubst:
			if flags&CommandSubst == 0 {
				out = append(out, piece{text: part.Text, quoted: quoted})
				continue
			}
			v, err := expandCommandSubst(f, part.Nested)
			if err != nil {
				return nil, err
			}
			out = append(out, piece{text: v, quoted: quoted, splittable: !quoted})
		case wtok.Arithmetic:
			if flags&Arithmetic == 0 {
				out = append(out, piece{text: part.Text, quoted: quoted})
				continue
			}
			v, err := expandArithmeticPart(f, part.Nested, flags)
			if err != nil {
				return nil, err
			}
			out = append(out, piece{text: v, quoted: quoted, splittable: !quoted})
		default:
			return nil, fmt.Errorf("expand: unhandled word part kind %v", part.Kind)
		}
	}
	if len(out) == 0 {
		out = append(out, piece{})
	}
	return out, nil
}

// expandOperand expands w (a parameter expansion's optional word) as a
// single literal string: the teacher's ExpandLiteral, never subject to
// field splitting or pathname expansion.
func expandOperand(f *frame.Frame, w *wtok.Word, flags Flags) (string, error) {
	pieces, err := wordPieces(f, w, flags)
	if err != nil {
		return "", err
	}
	return joinPlain(pieces), nil
}

func expandTilde(f *frame.Frame, text string) string {
	name := text[1:]
	switch name {
	case "":
		if v := f.Get("HOME"); v.Set {
			return v.Value
		}
		return text
	case "+":
		if v := f.Get("PWD"); v.Set {
			return v.Value
		}
		return text
	case "-":
		if v := f.Get("OLDPWD"); v.Set {
			return v.Value
		}
		return text
	default:
		// TODO: don't hard-code os/user into the expansion package
		u, err := user.Lookup(name)
		if err != nil {
			return text
		}
		return u.HomeDir
	}
}

// splitFields implements spec §4.4's field-splitting algorithm over the
// frame's IFS: whitespace runs are single separators, a lone
// non-whitespace IFS byte is its own mandatory separator (and may
// produce empty fields), and only bytes from splittable pieces are ever
// considered as separators.
func splitFields(f *frame.Frame, pieces []piece) [][]piece {
	ifs := ifsOf(f)
	if ifs == "" {
		return [][]piece{pieces}
	}
	isIFS := func(r rune) bool { return strings.ContainsRune(ifs, r) }
	isWS := func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' }

	var fields [][]piece
	var cur []piece
	flush := func() {
		fields = append(fields, cur)
		cur = nil
	}
	for _, p := range pieces {
		if !p.splittable {
			cur = append(cur, p)
			continue
		}
		text := p.text
		start := 0
		i := 0
		for i < len(text) {
			r, size := utf8.DecodeRuneInString(text[i:])
			if !isIFS(r) {
				i += size
				continue
			}
			if i > start {
				cur = append(cur, piece{text: text[start:i], quoted: p.quoted, splittable: true})
			}
			if isWS(r) {
				j := i + size
				for j < len(text) {
					r2, size2 := utf8.DecodeRuneInString(text[j:])
					if !isWS(r2) {
						break
					}
					j += size2
				}
				i = j
			} else {
				i += size
			}
			flush()
			start = i
		}
		if start < len(text) {
			cur = append(cur, piece{text: text[start:], quoted: p.quoted, splittable: true})
		}
	}
	flush()
	return fields
}

func ifsOf(f *frame.Frame) string {
	if v := f.Get("IFS"); v.Set {
		return v.Value
	}
	return " \t\n"
}

// expandParameter implements the Parameter per-part semantics of spec
// §4.4. "$@" and "$*" unquoted are approximated by joining the
// positional parameters before field splitting runs over the result
// (teacher's ifsJoin idea), rather than threading a per-field pre-split
// boundary through the pipeline; true POSIX preserves quoted "$@" as
// independent words, which this simplification does not reproduce (see
// DESIGN.md).
func expandParameter(f *frame.Frame, p *wtok.Part, flags Flags) (string, error) {
	name := p.ParamName
	switch p.ParamSubtype {
	case wtok.ParamLength:
		_, v := lookupSetAndValue(f, name)
		return strconv.Itoa(utf8.RuneCountInString(v)), nil
	case wtok.ParamStripPrefix, wtok.ParamStripPrefixLong,
		wtok.ParamStripSuffix, wtok.ParamStripSuffixLong:
		_, v := lookupSetAndValue(f, name)
		pat, err := expandOperand(f, p.OptionalWord, flags)
		if err != nil {
			return "", err
		}
		return stripMatch(v, pat, p.ParamSubtype), nil
	case wtok.ParamDefault, wtok.ParamAssignDefault, wtok.ParamErrorIfUnset, wtok.ParamAlternative:
		set, v := lookupSetAndValue(f, name)
		useDefault := !set || (p.ParamColon && v == "")
		switch p.ParamSubtype {
		case wtok.ParamDefault:
			if useDefault {
				return expandOperand(f, p.OptionalWord, flags)
			}
			return v, nil
		case wtok.ParamAssignDefault:
			if !useDefault {
				return v, nil
			}
			nv, err := expandOperand(f, p.OptionalWord, flags)
			if err != nil {
				return "", err
			}
			if err := f.Set(name, nv); err != nil {
				return "", err
			}
			return nv, nil
		case wtok.ParamErrorIfUnset:
			if !useDefault {
				return v, nil
			}
			msg, _ := expandOperand(f, p.OptionalWord, flags)
			if msg == "" {
				msg = "parameter not set"
			}
			return "", &UnsetParameterError{Name: name, Message: msg}
		default: // ParamAlternative
			if useDefault {
				return "", nil
			}
			return expandOperand(f, p.OptionalWord, flags)
		}
	default: // ParamPlain
		_, v := lookupSetAndValue(f, name)
		return v, nil
	}
}

func lookupSetAndValue(f *frame.Frame, name string) (bool, string) {
	switch name {
	case "@", "*":
		args := f.PositionalAll()
		sep := " "
		if name == "*" {
			ifs := ifsOf(f)
			sep = ""
			if ifs != "" {
				sep = ifs[:1]
			}
		}
		return len(args) > 0, strings.Join(args, sep)
	case "#":
		return true, strconv.Itoa(f.PositionalCount())
	case "?":
		return true, strconv.Itoa(f.LastStatus)
	case "0":
		return true, f.Arg0()
	default:
		if n, err := strconv.Atoi(name); err == nil && n >= 1 {
			v, ok := f.Positional(n)
			return ok, v
		}
		v := f.Get(name)
		return v.Set, v.Value
	}
}

// stripMatch implements the four strip-prefix/strip-suffix subtypes by
// probing candidate prefixes/suffixes of v, shortest- or longest-first,
// against the compiled glob pattern — the teacher's removePattern
// (expand/param.go) achieved the same result through a single anchored
// regexp; this rebuilds it on top of the pattern package's Match instead
// of hand-rolling a second regexp translation.
func stripMatch(v, pat string, subtype wtok.ParamSubtype) string {
	if pat == "" {
		return v
	}
	p, err := pattern.Compile(pat, 0)
	if err != nil {
		return v
	}
	runes := []rune(v)
	switch subtype {
	case wtok.ParamStripPrefixLong:
		for i := len(runes); i >= 0; i-- {
			if p.Match(string(runes[:i])) {
				return string(runes[i:])
			}
		}
	case wtok.ParamStripPrefix:
		for i := 0; i <= len(runes); i++ {
			if p.Match(string(runes[:i])) {
				return string(runes[i:])
			}
		}
	case wtok.ParamStripSuffixLong:
		for i := 0; i <= len(runes); i++ {
			if p.Match(string(runes[i:])) {
				return string(runes[:i])
			}
		}
	case wtok.ParamStripSuffix:
		for i := len(runes); i >= 0; i-- {
			if p.Match(string(runes[i:])) {
				return string(runes[:i])
			}
		}
	}
	return v
}

// expandCommandSubst implements the CommandSubst per-part semantics: it
// parses and lowers the already-lexed nested token stream, invokes the
// frame's run-command-capture-stdout capability, and strips trailing
// newlines (spec §4.4).
func expandCommandSubst(f *frame.Frame, nested []wtok.Item) (string, error) {
	if f.RunCommandCaptureStdout == nil {
		return "", &NoCapabilityError{Capability: "run-command-capture-stdout"}
	}
	root, status, perr := gram.New(nested).Parse()
	if status != gram.Ok {
		if perr != nil {
			return "", perr
		}
		return "", fmt.Errorf("expand: command substitution did not parse to completion")
	}
	ast := past.Lower(root)
	out, _, err := f.RunCommandCaptureStdout(ast)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}

// expandArithmeticPart implements the Arithmetic per-part semantics: it
// reconstructs source text from the already-lexed nested token stream
// (arithmetic-expression parsing is an explicit core Non-goal, spec §1)
// and invokes the frame's evaluate-arithmetic capability.
func expandArithmeticPart(f *frame.Frame, nested []wtok.Item, flags Flags) (string, error) {
	if f.EvaluateArithmetic == nil {
		return "", &NoCapabilityError{Capability: "evaluate-arithmetic"}
	}
	text, err := reconstructArithmeticText(f, nested, flags)
	if err != nil {
		return "", err
	}
	n, err := f.EvaluateArithmetic(text)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n, 10), nil
}

// reconstructArithmeticText rebuilds an approximation of an arithmetic
// expression's source text from its re-lexed token stream: word items
// are expanded (parameter/command/arithmetic substitution still applies
// inside arithmetic, per POSIX) and operator items print their fixed
// spelling.
func reconstructArithmeticText(f *frame.Frame, items []wtok.Item, flags Flags) (string, error) {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch item.Kind {
		case wtok.ItemWord:
			pieces, err := wordPieces(f, item.Word, flags)
			if err != nil {
				return "", err
			}
			b.WriteString(joinPlain(pieces))
		case wtok.ItemOp:
			if item.Op.Text != "" {
				b.WriteString(item.Op.Text)
			} else {
				b.WriteString(item.Op.Kind.String())
			}
		}
	}
	return b.String(), nil
}
