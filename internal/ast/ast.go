// Package ast is the surface syntax data model consumed from the upstream
// parser collaborator (spec.md §6 "From the parser"; the lexer/parser
// itself is out of scope per spec.md §1 — this package only defines the
// shapes it hands off). internal/desugar lowers these forms to
// internal/calculus per spec.md §4.2.
//
// Grounded on funvibe-funxy/internal/ast's closed Node interface set: one
// struct per surface form, every node span-stamped for diagnostics.
package ast

import (
	"github.com/funvibe/par/internal/calculus"
	"github.com/funvibe/par/internal/name"
	"github.com/funvibe/par/internal/types"
)

// Program is the root node spec.md §6 describes.
type Program struct {
	TypeDefs     []*TypeDef
	Declarations []*Declaration
	Definitions  []*Definition
}

// TypeDef is one global type definition: `type Name<params> = body`.
type TypeDef struct {
	At     name.Span
	Name   name.Global
	Params []string
	Body   types.Type
}

// Declaration annotates a top-level definition's type ahead of its body.
type Declaration struct {
	At   name.Span
	Name name.Global
	Type types.Type
}

// Definition gives a top-level name its process/expression body.
type Definition struct {
	At   name.Span
	Name name.Global
	Body Expression
}

// Pattern is the surface destructuring grammar compiled by
// internal/desugar's `pattern.elim` (spec.md §4.2).
type Pattern interface {
	isPattern()
	Span() name.Span
	// Annotation returns the pattern's declared type shape if the surface
	// carried one (e.g. `[a: Int, b: String] p`), or nil.
	Annotation() types.Type
}

// NamePattern binds a single local name (the pattern base case).
type NamePattern struct {
	At   name.Span
	Name name.Local
	Type types.Type // nilable
}

func (NamePattern) isPattern()            {}
func (p NamePattern) Span() name.Span     { return p.At }
func (p NamePattern) Annotation() types.Type { return p.Type }

// TuplePattern destructures a Pair chain: `[a, b, c] p` matches a value of
// type Pair(A, Pair(B, Pair(C, Break))).
type TuplePattern struct {
	At       name.Span
	Elements []Pattern
	Type     types.Type // nilable
}

func (TuplePattern) isPattern()            {}
func (p TuplePattern) Span() name.Span     { return p.At }
func (p TuplePattern) Annotation() types.Type { return p.Type }

// Expression is the surface expression grammar.
type Expression interface {
	isExpression()
	Span() name.Span
}

// Var references a bound local name.
type Var struct {
	At   name.Span
	Name name.Local
}

func (Var) isExpression()      {}
func (v Var) Span() name.Span { return v.At }

// Lit is a literal constant, reusing calculus.Literal since surface and
// desugared literals carry identical payloads.
type Lit struct {
	At    name.Span
	Value calculus.Literal
}

func (Lit) isExpression()      {}
func (l Lit) Span() name.Span { return l.At }

// ForkExpr is `fork c { process }` (spec.md §4.2).
type ForkExpr struct {
	At         name.Span
	Channel    name.Local
	Annotation types.Type // nilable
	Body       Process
}

func (ForkExpr) isExpression()      {}
func (f ForkExpr) Span() name.Span { return f.At }

// DoIn is `do { p } in e`: runs process p against a fresh Result channel,
// then links that channel to e (spec.md §4.2).
type DoIn struct {
	At    name.Span
	Body  Process
	Value Expression
}

func (DoIn) isExpression()      {}
func (d DoIn) Span() name.Span { return d.At }

// Construction builds a value by running a process against the implicit
// Result channel (spec.md §4.2 "Construction forms").
type Construction struct {
	At      name.Span
	Process Process
}

func (Construction) isExpression()      {}
func (c Construction) Span() name.Span { return c.At }

// Process is the surface process grammar.
type Process interface {
	isProcess()
	Span() name.Span
}

// LetSimple is `let name = e in k` for a bare identifier pattern.
type LetSimple struct {
	At         name.Span
	Name       name.Local
	Annotation types.Type // nilable
	Value      Expression
	Then       Process
}

func (LetSimple) isProcess()      {}
func (l LetSimple) Span() name.Span { return l.At }

// LetPattern is `let p = e in k` for a nested pattern (spec.md §4.2).
type LetPattern struct {
	At      name.Span
	Pattern Pattern
	Value   Expression
	Then    Process
}

func (LetPattern) isProcess()      {}
func (l LetPattern) Span() name.Span { return l.At }

// CommandProcess is `object.cmd` possibly chained via `Then`: a surface
// method-call on a named channel, which is already shaped like a Do against
// that object (spec.md §4.2's "apply" equation folds directly into this
// form — no separate surface node is needed because surface method chains
// already name their object and command explicitly).
type CommandProcess struct {
	At      name.Span
	Object  name.Local
	Command SurfaceCommand
}

func (CommandProcess) isProcess()      {}
func (c CommandProcess) Span() name.Span { return c.At }

// Hole marks the point in a `do { p } in e` body (DoIn.Body) where
// desugaring splices in `Link(e)` against the implicit Result channel
// (spec.md §4.2's "do-in" equation). It must not appear anywhere else; a
// top-level process containing a Hole is desugared with MustEndProcess.
type Hole struct{ At name.Span }

func (Hole) isProcess()      {}
func (h Hole) Span() name.Span { return h.At }

// Telltypes is the surface form of the diagnostic probe.
type Telltypes struct {
	At   name.Span
	Then Process
}

func (Telltypes) isProcess()      {}
func (t Telltypes) Span() name.Span { return t.At }

// SurfaceCommand mirrors calculus.Command one-for-one at the surface level,
// except LetSimple/LetPattern-bound names and the object are still
// name.Local (desugaring renumbers them to name.Internal).
type SurfaceCommand interface {
	isSurfaceCommand()
	Span() name.Span
}

type SLink struct {
	At    name.Span
	Value Expression
}

func (SLink) isSurfaceCommand() {}
func (s SLink) Span() name.Span { return s.At }

type SSend struct {
	At    name.Span
	Value Expression
	Then  Process
}

func (SSend) isSurfaceCommand() {}
func (s SSend) Span() name.Span { return s.At }

type SReceive struct {
	At         name.Span
	Pattern    Pattern
	Annotation types.Type // nilable
	Then       Process
}

func (SReceive) isSurfaceCommand() {}
func (s SReceive) Span() name.Span { return s.At }

type SSignal struct {
	At    name.Span
	Label string
	Then  Process
}

func (SSignal) isSurfaceCommand() {}
func (s SSignal) Span() name.Span { return s.At }

type SCaseBranch struct {
	Label string
	Then  Process
}

type SCase struct {
	At          name.Span
	Branches    []SCaseBranch
	Fallthrough Process // nilable
}

func (SCase) isSurfaceCommand() {}
func (s SCase) Span() name.Span { return s.At }

type SBreak struct{ At name.Span }

func (SBreak) isSurfaceCommand() {}
func (s SBreak) Span() name.Span { return s.At }

type SContinue struct {
	At   name.Span
	Then Process
}

func (SContinue) isSurfaceCommand() {}
func (s SContinue) Span() name.Span { return s.At }

type SBegin struct {
	At        name.Span
	Unfounded bool
	Label     string
	Body      Process
}

func (SBegin) isSurfaceCommand() {}
func (s SBegin) Span() name.Span { return s.At }

type SLoop struct {
	At    name.Span
	Label string
}

func (SLoop) isSurfaceCommand() {}
func (s SLoop) Span() name.Span { return s.At }

type SSendType struct {
	At   name.Span
	Arg  types.Type
	Then Process
}

func (SSendType) isSurfaceCommand() {}
func (s SSendType) Span() name.Span { return s.At }

type SReceiveType struct {
	At    name.Span
	Param string
	Then  Process
}

func (SReceiveType) isSurfaceCommand() {}
func (s SReceiveType) Span() name.Span { return s.At }
