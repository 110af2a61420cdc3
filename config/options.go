// Package config implements the named shell options spec §6 lists
// (`errexit`, `nounset`, `xtrace`, `noglob`, `noclobber`, `pipefail`,
// `verbose`, `vi`, `ignoreeof`, `allexport`, `noexec`, plus their
// single-letter aliases). It is a fixed-field struct with a
// name/letter-to-field lookup table rather than a generic `map[string]bool`,
// per spec §9's guidance to prefer tagged structs over open maps wherever
// the set of cases is closed and known up front.
package config

import "fmt"

// Options holds the boolean state of every named option a frame exposes
// to `set -o name` / `set +o name` / `set -x` style single-letter flags.
type Options struct {
	AllExport bool // -a / allexport
	ErrExit   bool // -e / errexit
	IgnoreEOF bool // ignoreeof
	NoClobber bool // -C / noclobber
	NoGlob    bool // -f / noglob
	NoExec    bool // -n / noexec
	NoUnset   bool // -u / nounset
	PipeFail  bool // pipefail
	Verbose   bool // -v / verbose
	Vi        bool // vi
	XTrace    bool // -x / xtrace
}

// field describes one named option: its long spelling, optional
// single-letter spelling (0 if none), and the pointer into an *Options
// instance where its state lives.
type field struct {
	name   string
	letter byte
	get    func(*Options) *bool
}

var fields = []field{
	{"allexport", 'a', func(o *Options) *bool { return &o.AllExport }},
	{"errexit", 'e', func(o *Options) *bool { return &o.ErrExit }},
	{"ignoreeof", 0, func(o *Options) *bool { return &o.IgnoreEOF }},
	{"noclobber", 'C', func(o *Options) *bool { return &o.NoClobber }},
	{"noglob", 'f', func(o *Options) *bool { return &o.NoGlob }},
	{"noexec", 'n', func(o *Options) *bool { return &o.NoExec }},
	{"nounset", 'u', func(o *Options) *bool { return &o.NoUnset }},
	{"pipefail", 0, func(o *Options) *bool { return &o.PipeFail }},
	{"verbose", 'v', func(o *Options) *bool { return &o.Verbose }},
	{"vi", 0, func(o *Options) *bool { return &o.Vi }},
	{"xtrace", 'x', func(o *Options) *bool { return &o.XTrace }},
}

var (
	byName   = make(map[string]*field, len(fields))
	byLetter = make(map[byte]*field, len(fields))
)

func init() {
	for i := range fields {
		f := &fields[i]
		byName[f.name] = f
		if f.letter != 0 {
			byLetter[f.letter] = f
		}
	}
}

// UnknownOptionError is returned by Set/Unset/SetLetter/UnsetLetter/Get
// when the name or letter given does not name a recognized option.
type UnknownOptionError struct {
	Name string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("config: unknown option %q", e.Name)
}

// Set turns the named long option on, as `set -o name` would.
func (o *Options) Set(name string) error {
	f, ok := byName[name]
	if !ok {
		return &UnknownOptionError{Name: name}
	}
	*f.get(o) = true
	return nil
}

// Unset turns the named long option off, as `set +o name` would.
func (o *Options) Unset(name string) error {
	f, ok := byName[name]
	if !ok {
		return &UnknownOptionError{Name: name}
	}
	*f.get(o) = false
	return nil
}

// Get reports the current state of the named long option.
func (o *Options) Get(name string) (bool, error) {
	f, ok := byName[name]
	if !ok {
		return false, &UnknownOptionError{Name: name}
	}
	return *f.get(o), nil
}

// SetLetter turns the option named by its single-letter spelling (e.g.
// 'e' for errexit) on, as `set -e` would.
func (o *Options) SetLetter(letter byte) error {
	f, ok := byLetter[letter]
	if !ok {
		return &UnknownOptionError{Name: string(letter)}
	}
	*f.get(o) = true
	return nil
}

// UnsetLetter turns the option named by its single-letter spelling off,
// as `set +e` would.
func (o *Options) UnsetLetter(letter byte) error {
	f, ok := byLetter[letter]
	if !ok {
		return &UnknownOptionError{Name: string(letter)}
	}
	*f.get(o) = false
	return nil
}

// Names returns every recognized long option name, in a fixed order
// matching spec §6's listing.
func Names() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}
