// Package calculus is the desugared process calculus of spec.md §3: the
// minimal IR the type checker and runtime operate over, reached by lowering
// the surface internal/ast forms (internal/desugar implements that lowering).
//
// Grounded on funvibe-funxy/internal/ast's closed Node interface set
// (struct-per-variant, every node carrying a span), narrowed here to the
// three-node-kind calculus spec.md §2 step 3 describes.
package calculus

import (
	"github.com/funvibe/par/internal/name"
	"github.com/funvibe/par/internal/types"
)

// Literal is a closed set of primitive constant values, the payload of a
// Primitive expression.
type Literal interface {
	isLiteral()
	Kind() types.PrimitiveKind
}

type NatLiteral struct{ Value uint64 }

func (NatLiteral) isLiteral()               {}
func (NatLiteral) Kind() types.PrimitiveKind { return types.Nat }

type IntLiteral struct{ Value int64 }

func (IntLiteral) isLiteral()               {}
func (IntLiteral) Kind() types.PrimitiveKind { return types.Int }

type StringLiteral struct{ Value string }

func (StringLiteral) isLiteral()               {}
func (StringLiteral) Kind() types.PrimitiveKind { return types.StringKind }

type CharLiteral struct{ Value rune }

func (CharLiteral) isLiteral()               {}
func (CharLiteral) Kind() types.PrimitiveKind { return types.Char }

type ByteLiteral struct{ Value byte }

func (ByteLiteral) isLiteral()               {}
func (ByteLiteral) Kind() types.PrimitiveKind { return types.Byte }

type BytesLiteral struct{ Value []byte }

func (BytesLiteral) isLiteral()               {}
func (BytesLiteral) Kind() types.PrimitiveKind { return types.Bytes }

// Expression is spec.md §3's desugared expression grammar.
type Expression interface {
	isExpression()
	Span() name.Span
}

// Reference reads a previously-bound name. The annotation, when present, is
// the type the desugarer already knows for this occurrence (used by
// inference to avoid re-deriving what a declaration already pins down).
type Reference struct {
	At         name.Span
	Name       name.Internal
	Annotation types.Type // nilable
}

func (Reference) isExpression()      {}
func (r Reference) Span() name.Span { return r.At }

// Fork spawns a child process bound to a fresh channel; the expression's
// value is the other end of that channel.
type Fork struct {
	At         name.Span
	Channel    name.Internal
	Annotation types.Type // nilable: declared protocol of Channel, if known
	Process    Process
}

func (Fork) isExpression()      {}
func (f Fork) Span() name.Span { return f.At }

// PrimitiveExpr is a literal constant.
type PrimitiveExpr struct {
	At    name.Span
	Value Literal
}

func (PrimitiveExpr) isExpression()      {}
func (p PrimitiveExpr) Span() name.Span { return p.At }

// Process is spec.md §3's desugared process grammar.
type Process interface {
	isProcess()
	Span() name.Span
}

// Let binds the value of an expression under a name for the remainder of
// the process.
type Let struct {
	At         name.Span
	Name       name.Internal
	Annotation types.Type // nilable
	Value      Expression
	Then       Process
}

func (Let) isProcess()      {}
func (l Let) Span() name.Span { return l.At }

// Do performs cmd against the object channel named Object.
type Do struct {
	At      name.Span
	Object  name.Internal
	Command Command
}

func (Do) isProcess()      {}
func (d Do) Span() name.Span { return d.At }

// Telltypes is a diagnostic-only probe: it has no effect on checking or
// runtime outcomes (spec.md §9 Open Questions), but records a snapshot of
// the linear context's types at this point for a caller to inspect.
type Telltypes struct {
	At   name.Span
	Then Process
}

func (Telltypes) isProcess()      {}
func (t Telltypes) Span() name.Span { return t.At }

// Command is spec.md §3's desugared command grammar, each operating on the
// enclosing Do's object channel.
type Command interface {
	isCommand()
	Span() name.Span
}

// Link is terminal: it forwards the object to e's value; any continuation
// is discarded, and the linear context must be empty.
type Link struct {
	At    name.Span
	Value Expression
}

func (Link) isCommand()      {}
func (l Link) Span() name.Span { return l.At }

type Send struct {
	At    name.Span
	Value Expression
	Then  Process
}

func (Send) isCommand()      {}
func (s Send) Span() name.Span { return s.At }

type Receive struct {
	At         name.Span
	Param      name.Internal
	Annotation types.Type // nilable
	Then       Process
}

func (Receive) isCommand()      {}
func (r Receive) Span() name.Span { return r.At }

type Signal struct {
	At    name.Span
	Label string
	Then  Process
}

func (Signal) isCommand()      {}
func (s Signal) Span() name.Span { return s.At }

// CaseBranch is one arm of a Case command.
type CaseBranch struct {
	Label string
	Then  Process
}

// Case dispatches on the label received from the object. Fallthrough, when
// present, is the surface `_` arm compiled into an extra "else" process
// bound to the same object under its original type (used for recursive
// defaults); it is optional.
type Case struct {
	At          name.Span
	Branches    []CaseBranch
	Fallthrough Process // nilable
}

func (Case) isCommand()      {}
func (c Case) Span() name.Span { return c.At }

// BreakCmd is terminal: it requires the linear context to be empty.
type BreakCmd struct {
	At name.Span
}

func (BreakCmd) isCommand()      {}
func (b BreakCmd) Span() name.Span { return b.At }

type ContinueCmd struct {
	At   name.Span
	Then Process
}

func (ContinueCmd) isCommand()      {}
func (c ContinueCmd) Span() name.Span { return c.At }

// Begin/Loop form a control pair (spec.md §3 "Invariants of the desugared
// calculus"). Captures record which free variables survive to the next
// iteration.
type Begin struct {
	At        name.Span
	Unfounded bool
	Label     string
	Captures  []name.Internal
	Body      Process
}

func (Begin) isCommand()      {}
func (b Begin) Span() name.Span { return b.At }

type Loop struct {
	At       name.Span
	Label    string
	Captures []name.Internal
}

func (Loop) isCommand()      {}
func (l Loop) Span() name.Span { return l.At }

type SendType struct {
	At   name.Span
	Arg  types.Type
	Then Process
}

func (SendType) isCommand()      {}
func (s SendType) Span() name.Span { return s.At }

type ReceiveType struct {
	At    name.Span
	Param string
	Then  Process
}

func (ReceiveType) isCommand()      {}
func (r ReceiveType) Span() name.Span { return r.At }
