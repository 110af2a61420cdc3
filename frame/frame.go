// Package frame implements the FrameFacade spec §4.6 names: the single
// abstraction through which the expander and executor read and write
// environment state. A Frame owns variables, positional parameters,
// function and alias definitions, named options, the last exit status, a
// pending control-flow signal, a trap table, and handles to an alias
// store and a job store. Frames nest (function call, subshell,
// dot-script, eval): reads walk outward to the root, writes target the
// frame they are made on. There is no option to direct a write to an
// outer frame.
//
// The package follows the teacher's approach to environment state
// (_examples/mvdan-sh/expand/environ.go's Variable/Environ split) but
// rebuilds it around a mutable, nesting-aware facade instead of a
// read-mostly interface, since spec §4.6 requires set/unset and scoped
// lookup that the teacher's Environ does not model on its own.
package frame

import (
	"poshix.dev/poshix/config"
	"poshix.dev/poshix/past"
)

// Variable is one shell variable binding.
type Variable struct {
	Value    string
	Set      bool
	Exported bool
	ReadOnly bool
}

// Signal names a pending control-flow request raised by `return`,
// `break`, or `continue` and not yet consumed by the construct it targets.
type Signal int

const (
	SignalNone Signal = iota
	SignalReturn
	SignalBreak
	SignalContinue
)

// ControlFlow is the frame's single pending-signal slot. Depth is the
// loop-nesting count named by `break N` / `continue N` (1 if unspecified).
type ControlFlow struct {
	Signal Signal
	Depth  int
}

// RunCapture is the "run command and capture standard output" capability
// spec §4.4/§4.6 requires from the host: it executes ast and returns its
// captured stdout; the caller strips the trailing newlines.
// Command execution itself is a Non-goal of the core (spec §1); this is
// the hook boundary, left nil until an executor is wired in.
type RunCapture func(ast *past.Node) (output string, exitStatus int, err error)

// EvalArithmetic is the "evaluate arithmetic" capability spec §4.4/§4.6
// requires from the host. Arithmetic-expression evaluation is a Non-goal
// of the core (spec §1) and is modeled purely as this hook.
type EvalArithmetic func(text string) (int64, error)

// AliasStore is the opaque alias-storage boundary spec §4.6 names.
type AliasStore interface {
	Get(name string) (string, bool)
	Set(name, value string)
	Unset(name string)
}

// mapAliasStore is the default, in-memory AliasStore.
type mapAliasStore struct {
	m map[string]string
}

// NewAliasStore returns the default in-memory AliasStore.
func NewAliasStore() AliasStore {
	return &mapAliasStore{m: make(map[string]string)}
}

func (s *mapAliasStore) Get(name string) (string, bool) {
	v, ok := s.m[name]
	return v, ok
}

func (s *mapAliasStore) Set(name, value string) { s.m[name] = value }
func (s *mapAliasStore) Unset(name string)       { delete(s.m, name) }

// Frame is the FrameFacade: the environment abstraction the expander and
// executor operate through (spec §4.6).
type Frame struct {
	parent *Frame

	vars  map[string]*Variable
	funcs map[string]*past.Node
	pos   []string // positional parameters $1, $2, ...
	arg0  string   // $0

	Options config.Options

	LastStatus int
	Flow       ControlFlow

	Traps   map[int]string // signal number -> trap action text; 0 is EXIT
	Aliases AliasStore
	Jobs    *JobStore

	RunCommandCaptureStdout RunCapture
	EvaluateArithmetic      EvalArithmetic
}

// NewRoot creates the top-level frame of an interpretation, with its own
// fresh alias store and job store.
func NewRoot(arg0 string, positional []string) *Frame {
	return &Frame{
		vars:    make(map[string]*Variable),
		funcs:   make(map[string]*past.Node),
		pos:     append([]string(nil), positional...),
		arg0:    arg0,
		Traps:   make(map[int]string),
		Aliases: NewAliasStore(),
		Jobs:    NewJobStore(),
	}
}

// Push creates a nested frame (function call, subshell, dot-script,
// eval) whose reads fall back to f and whose own writes start empty. It
// shares f's traps, alias store, and job store by reference, since those
// are process-wide rather than per-scope state; options are copied, so a
// change in the child does not reach f.
func (f *Frame) Push(positional []string) *Frame {
	child := &Frame{
		parent:  f,
		vars:    make(map[string]*Variable),
		funcs:   make(map[string]*past.Node),
		arg0:    f.arg0,
		Options: f.Options,
		Traps:   f.Traps,
		Aliases: f.Aliases,
		Jobs:    f.Jobs,

		RunCommandCaptureStdout: f.RunCommandCaptureStdout,
		EvaluateArithmetic:      f.EvaluateArithmetic,
	}
	if positional != nil {
		child.pos = append([]string(nil), positional...)
	} else {
		child.pos = f.pos
	}
	return child
}

// Get walks outward from f until name is found or the root is reached.
func (f *Frame) Get(name string) Variable {
	for fr := f; fr != nil; fr = fr.parent {
		if v, ok := fr.vars[name]; ok {
			return *v
		}
	}
	return Variable{}
}

// Set writes name in f itself (the nearest writable frame), unless an
// outer frame already declared it read-only, in which case it errors.
func (f *Frame) Set(name, value string) error {
	for fr := f; fr != nil; fr = fr.parent {
		if v, ok := fr.vars[name]; ok {
			if v.ReadOnly {
				return &ReadOnlyError{Name: name}
			}
			break
		}
	}
	f.vars[name] = &Variable{Value: value, Set: true, Exported: f.existingExported(name)}
	return nil
}

func (f *Frame) existingExported(name string) bool {
	if v, ok := f.vars[name]; ok {
		return v.Exported
	}
	if f.parent != nil {
		return f.parent.existingExported(name)
	}
	return false
}

// Export marks name exported in the nearest frame that declares it,
// creating an empty, unset-but-declared binding in f if none exists yet.
func (f *Frame) Export(name string) {
	for fr := f; fr != nil; fr = fr.parent {
		if v, ok := fr.vars[name]; ok {
			v.Exported = true
			return
		}
	}
	f.vars[name] = &Variable{Exported: true}
}

// MarkReadOnly marks name read-only in the nearest frame that declares
// it, creating an empty, unset-but-declared binding in f if none exists.
func (f *Frame) MarkReadOnly(name string) {
	for fr := f; fr != nil; fr = fr.parent {
		if v, ok := fr.vars[name]; ok {
			v.ReadOnly = true
			return
		}
	}
	f.vars[name] = &Variable{ReadOnly: true}
}

// Unset removes name from whichever frame declares it.
func (f *Frame) Unset(name string) error {
	for fr := f; fr != nil; fr = fr.parent {
		if v, ok := fr.vars[name]; ok {
			if v.ReadOnly {
				return &ReadOnlyError{Name: name}
			}
			delete(fr.vars, name)
			return nil
		}
	}
	return nil
}

// ReadOnlyError is returned when Set or Unset targets a read-only
// variable.
type ReadOnlyError struct{ Name string }

func (e *ReadOnlyError) Error() string { return "frame: " + e.Name + " is read-only" }

// Each iterates every variable visible from f, innermost binding first;
// fn's return value false stops iteration early.
func (f *Frame) Each(fn func(name string, v Variable) bool) {
	seen := make(map[string]bool)
	for fr := f; fr != nil; fr = fr.parent {
		for name, v := range fr.vars {
			if seen[name] {
				continue
			}
			seen[name] = true
			if !fn(name, *v) {
				return
			}
		}
	}
}

// Arg0 returns $0.
func (f *Frame) Arg0() string { return f.arg0 }

// PositionalCount returns $#.
func (f *Frame) PositionalCount() int { return len(f.pos) }

// Positional returns $i (1-based) and whether it is set.
func (f *Frame) Positional(i int) (string, bool) {
	if i < 1 || i > len(f.pos) {
		return "", false
	}
	return f.pos[i-1], true
}

// PositionalAll returns the full $@ / $* slice.
func (f *Frame) PositionalAll() []string {
	return append([]string(nil), f.pos...)
}

// Shift drops the first n positional parameters, as `shift n` would. It
// errors if n exceeds the current count.
func (f *Frame) Shift(n int) error {
	if n < 0 || n > len(f.pos) {
		return &ShiftError{N: n, Count: len(f.pos)}
	}
	f.pos = f.pos[n:]
	return nil
}

// ShiftError is returned by Shift when n is out of range.
type ShiftError struct{ N, Count int }

func (e *ShiftError) Error() string {
	return "frame: shift count out of range"
}

// SetPositional replaces the entire positional-parameter list, as `set
// -- args...` would.
func (f *Frame) SetPositional(args []string) {
	f.pos = append([]string(nil), args...)
}

// Func returns the body of a defined function and whether it exists.
// Function lookup, like variable lookup, walks f and its ancestors'
// function tables, since POSIX functions are dynamically scoped through
// the call stack.
func (f *Frame) Func(name string) (*past.Node, bool) {
	for fr := f; fr != nil; fr = fr.parent {
		if body, ok := fr.funcs[name]; ok {
			return body, true
		}
	}
	return nil, false
}

// SetFunc defines or replaces a function in f.
func (f *Frame) SetFunc(name string, body *past.Node) {
	f.funcs[name] = body
}

// UnsetFunc removes a function definition from whichever frame declares
// it.
func (f *Frame) UnsetFunc(name string) {
	for fr := f; fr != nil; fr = fr.parent {
		if _, ok := fr.funcs[name]; ok {
			delete(fr.funcs, name)
			return
		}
	}
}
