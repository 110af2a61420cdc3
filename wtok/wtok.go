// Package wtok implements the canonical syntactic unit the rest of poshix
// operates on: a word token composed of typed parts, plus the small set of
// sibling types (quoting flags, heredoc metadata) the lexer and parser
// thread through the pipeline.
//
// This is the TokenModel component of spec §2: a tagged sequence of parts
// rather than an open hierarchy of node types, per spec §9's guidance to
// encode sum types as tag-plus-union and avoid open polymorphism.
package wtok

import "poshix.dev/poshix/token"

// PartKind tags the variant a Part holds.
type PartKind uint8

const (
	Literal PartKind = iota
	Tilde
	Parameter
	CommandSubst
	Arithmetic
)

func (k PartKind) String() string {
	switch k {
	case Literal:
		return "Literal"
	case Tilde:
		return "Tilde"
	case Parameter:
		return "Parameter"
	case CommandSubst:
		return "CommandSubst"
	case Arithmetic:
		return "Arithmetic"
	default:
		return "Unknown"
	}
}

// ParamSubtype enumerates the parameter-expansion subtypes spec §4.4 names.
type ParamSubtype uint8

const (
	ParamPlain          ParamSubtype = iota // $name, ${name}
	ParamDefault                            // ${name:-word} / ${name-word}
	ParamAssignDefault                      // ${name:=word} / ${name=word}
	ParamErrorIfUnset                       // ${name:?word} / ${name?word}
	ParamAlternative                        // ${name:+word} / ${name+word}
	ParamLength                             // ${#name}
	ParamStripPrefix                        // ${name#word}
	ParamStripPrefixLong                    // ${name##word}
	ParamStripSuffix                        // ${name%word}
	ParamStripSuffixLong                    // ${name%%word}
)

// Part is one segment of a Word, carrying its own quoting history
// independent of the word's overall quoting flags (spec §3).
type Part struct {
	Kind PartKind

	// Literal, Tilde
	Text string

	// Parameter
	ParamName    string
	ParamSubtype ParamSubtype
	ParamColon   bool // true if the POSIX ":"-prefixed spelling was used
	OptionalWord *Word
	ParamIndexed bool // not set by the lexer; $@ and $* are recognized by ParamName

	// CommandSubst, Arithmetic
	Nested []Item // the nested token list re-lexed/parsed on demand

	// WasSingleQuoted / WasDoubleQuoted record the quoting state in
	// effect when this part was created; they govern whether the
	// expansion of this part is later subject to field splitting.
	WasSingleQuoted bool
	WasDoubleQuoted bool
}

// Heredoc carries the metadata and (once drained) body of a here-document
// attached to a word token that introduced it with << or <<-.
type Heredoc struct {
	Delimiter        string
	StripTabs        bool // <<- was used
	DelimiterQuoted  bool // any portion of the delimiter was quoted
	Body             string
	BodyAttached     bool // false until the matching delimiter line is found
	BodyNeedsExpand  bool // !DelimiterQuoted: body is re-expanded by the executor
}

// Word is the canonical syntactic unit: an ordered sequence of parts plus
// whole-word quoting flags and optional heredoc metadata (spec §3).
type Word struct {
	Parts []Part

	// SingleQuoted / DoubleQuoted record whether the whole word was, at
	// any point, enclosed in that quote kind.
	SingleQuoted bool
	DoubleQuoted bool

	// Heredoc is non-nil only for the word token that introduced a
	// here-document with << or <<-.
	Heredoc *Heredoc

	Pos token.Pos
}

// Empty reports whether w is the canonical empty word: exactly one
// Literal("") part, per spec §3's invariant ("the empty word is itself one
// part of type Literal("")").
func (w *Word) Empty() bool {
	return len(w.Parts) == 1 && w.Parts[0].Kind == Literal && w.Parts[0].Text == ""
}

// Lit returns (text, true) if w is a single unquoted Literal part, the
// shape keyword promotion requires.
func (w *Word) Lit() (string, bool) {
	if len(w.Parts) != 1 || w.Parts[0].Kind != Literal {
		return "", false
	}
	if w.SingleQuoted || w.DoubleQuoted || w.Parts[0].WasSingleQuoted || w.Parts[0].WasDoubleQuoted {
		return "", false
	}
	return w.Parts[0].Text, true
}

// Token is an operator/keyword token: it carries only its tag, plus the
// source position and, for IONUMBER/IOLOCATION, the literal text matched
// (spec §3 "Operator/keyword token").
type Token struct {
	Kind token.Token
	Pos  token.Pos
	Text string // set for IONUMBER, IOLOCATION; empty otherwise

	// Heredoc is set only on ENDHEREDOC tokens, carrying the drained
	// body back out of the lexer's FIFO queue.
	Heredoc *Heredoc
}

// ItemKind tags what an Item in a token stream holds.
type ItemKind uint8

const (
	ItemWord ItemKind = iota
	ItemOp
)

// Item is one element of a lexer's output stream: either a word token or
// an operator/keyword token. A CommandSubst or Arithmetic part's nested
// token list is a []Item, the same shape the top-level lexer produces,
// since the nested content is lexed by the identical state machine.
type Item struct {
	Kind ItemKind
	Word *Word
	Op   Token
}
