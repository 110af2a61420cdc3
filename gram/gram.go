// Package gram implements the concrete grammar tree (spec §3 "Grammar
// tree") and the recursive-descent parser that builds one from a token
// list (spec §4.2).
package gram

import (
	"poshix.dev/poshix/token"
	"poshix.dev/poshix/wtok"
)

// Tag identifies which POSIX grammar nonterminal (or leaf wrapper) a Node
// represents.
type Tag int

const (
	Program Tag = iota
	CompleteCommand
	List
	AndOr
	Pipeline
	PipeSequence
	CommandTag
	SimpleCommand
	CmdPrefix
	CmdSuffix
	CompoundCommand
	Subshell
	BraceGroup
	IfClause
	ElsePart
	WhileClause
	UntilClause
	ForClause
	CaseClause
	CaseItem
	CaseItemNs
	PatternList
	FunctionDefinition
	FunctionBody
	RedirectList
	IoRedirect
	IoFile
	IoHere
	SeparatorOp
	Separator
	Wordlist

	// Leaf wrappers.
	WordLeaf
	TokenLeaf
)

func (t Tag) String() string {
	switch t {
	case Program:
		return "Program"
	case CompleteCommand:
		return "CompleteCommand"
	case List:
		return "List"
	case AndOr:
		return "AndOr"
	case Pipeline:
		return "Pipeline"
	case PipeSequence:
		return "PipeSequence"
	case CommandTag:
		return "Command"
	case SimpleCommand:
		return "SimpleCommand"
	case CmdPrefix:
		return "CmdPrefix"
	case CmdSuffix:
		return "CmdSuffix"
	case CompoundCommand:
		return "CompoundCommand"
	case Subshell:
		return "Subshell"
	case BraceGroup:
		return "BraceGroup"
	case IfClause:
		return "IfClause"
	case ElsePart:
		return "ElsePart"
	case WhileClause:
		return "WhileClause"
	case UntilClause:
		return "UntilClause"
	case ForClause:
		return "ForClause"
	case CaseClause:
		return "CaseClause"
	case CaseItem:
		return "CaseItem"
	case CaseItemNs:
		return "CaseItemNs"
	case PatternList:
		return "PatternList"
	case FunctionDefinition:
		return "FunctionDefinition"
	case FunctionBody:
		return "FunctionBody"
	case RedirectList:
		return "RedirectList"
	case IoRedirect:
		return "IoRedirect"
	case IoFile:
		return "IoFile"
	case IoHere:
		return "IoHere"
	case SeparatorOp:
		return "SeparatorOp"
	case Separator:
		return "Separator"
	case Wordlist:
		return "Wordlist"
	case WordLeaf:
		return "WordLeaf"
	case TokenLeaf:
		return "TokenLeaf"
	default:
		return "Unknown"
	}
}

// Node is the single tagged type backing the grammar tree, per spec §9's
// instruction to encode the tree as a tag plus union rather than one Go
// type (interface) per nonterminal. Every node carries one of: a child
// list (Children), a single child (Child), up to four named children
// (A, B, C, D), a token (Op), a word (Word), or a pair (Pair) — whichever
// the Tag calls for; the others are left zero.
type Node struct {
	Tag Tag
	Pos token.Pos

	Children []*Node
	Child     *Node
	A, B, C, D *Node

	Op   token.Token
	Word *wtok.Word

	// Pair is used by IoHere: Pair[0] is the delimiter WordLeaf, Pair[1]
	// is the TokenLeaf wrapping the paired ENDHEREDOC token (nil until
	// paired).
	Pair [2]*Node

	// Seps holds, for a List node only, the separator that followed each
	// entry in Children (same length as Children; token.ILLEGAL means no
	// explicit separator followed, i.e. end of the list). Lowering reads
	// this to normalize trailing "&"/";"/newline into Background/End.
	Seps []token.Token

	// Negated marks a Pipeline introduced by a leading "!".
	Negated bool
}

func word(tok wtok.Item) *Node {
	return &Node{Tag: WordLeaf, Pos: tok.Word.Pos, Word: tok.Word}
}
