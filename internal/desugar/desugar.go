// Package desugar lowers internal/ast's surface forms to internal/calculus's
// three-node IR, implementing spec.md §4.2's equations: simple and
// nested-pattern Let, Fork, the implicit-object method-chain form, and
// do-in/Construction's implicit Result channel.
//
// Grounded on funvibe-funxy/internal/analyzer's walker: a single struct
// threading a renaming scope over a syntax tree, producing the next IR down
// plus a list of errors rather than panicking on the first one.
package desugar

import (
	"github.com/funvibe/par/internal/ast"
	"github.com/funvibe/par/internal/calculus"
	"github.com/funvibe/par/internal/diagnostics"
	"github.com/funvibe/par/internal/name"
)

// scope tracks the running Match-depth counter for one definition's pattern
// eliminations (spec.md §4.2 "let p = e in k" for a nested pattern). Depths
// only need to be unique within a single elimination chain, but threading one
// counter per top-level definition keeps generated names stable for tests.
type scope struct {
	depth int
}

func (s *scope) nextMatch() name.Internal {
	d := s.depth
	s.depth++
	return name.NewMatch(d)
}

// hole is invoked in place of an ast.Hole encountered while desugaring a
// process. A nil hole means "no Hole is valid here"; encountering one then
// raises MustEndProcessError.
type hole func() calculus.Process

// Definition lowers one top-level ast.Definition to a calculus.Expression
// (spec.md §3: top-level names bind to expressions, since every process is
// ultimately wrapped by the Fork that gives it a channel).
func Definition(def *ast.Definition) (calculus.Expression, error) {
	s := &scope{}
	return expression(s, def.Body, nil)
}

func expression(s *scope, e ast.Expression, h hole) (calculus.Expression, error) {
	switch x := e.(type) {
	case ast.Var:
		return calculus.Reference{At: x.At, Name: name.NewOriginal(x.Name.Ident)}, nil

	case ast.Lit:
		return calculus.PrimitiveExpr{At: x.At, Value: x.Value}, nil

	case ast.ForkExpr:
		channel := name.NewOriginal(x.Channel.Ident)
		body, err := process(s, x.Body, nil)
		if err != nil {
			return nil, err
		}
		return calculus.Fork{At: x.At, Channel: channel, Annotation: x.Annotation, Process: body}, nil

	case ast.DoIn:
		// do { p } in e: runs p against a fresh Result channel, then links
		// that channel to e (spec.md §4.2). p's Hole marks the splice point.
		result := name.NewResult("")
		value, err := expression(s, x.Value, h)
		if err != nil {
			return nil, err
		}
		filler := func() calculus.Process {
			return calculus.Do{At: x.At, Object: result, Command: calculus.Link{At: x.At, Value: value}}
		}
		body, err := process(s, x.Body, filler)
		if err != nil {
			return nil, err
		}
		return calculus.Fork{At: x.At, Channel: result, Process: body}, nil

	case ast.Construction:
		result := name.NewResult("")
		body, err := process(s, x.Process, nil)
		if err != nil {
			return nil, err
		}
		return calculus.Fork{At: x.At, Channel: result, Process: body}, nil

	default:
		return nil, &diagnostics.SyntaxError{At: e.Span(), Message: "unrecognized expression form"}
	}
}

func process(s *scope, p ast.Process, h hole) (calculus.Process, error) {
	switch x := p.(type) {
	case ast.LetSimple:
		value, err := expression(s, x.Value, h)
		if err != nil {
			return nil, err
		}
		then, err := process(s, x.Then, h)
		if err != nil {
			return nil, err
		}
		return calculus.Let{
			At: x.At, Name: name.NewOriginal(x.Name.Ident), Annotation: x.Annotation,
			Value: value, Then: then,
		}, nil

	case ast.LetPattern:
		value, err := expression(s, x.Value, h)
		if err != nil {
			return nil, err
		}
		then, err := process(s, x.Then, h)
		if err != nil {
			return nil, err
		}
		match := s.nextMatch()
		elimChain := elim(s, x.Pattern, match, then)
		return calculus.Let{
			At: x.At, Name: match, Annotation: x.Pattern.Annotation(),
			Value: value, Then: elimChain,
		}, nil

	case ast.CommandProcess:
		cmd, err := command(s, x.Command, h)
		if err != nil {
			return nil, err
		}
		return calculus.Do{At: x.At, Object: name.NewOriginal(x.Object.Ident), Command: cmd}, nil

	case ast.Telltypes:
		then, err := process(s, x.Then, h)
		if err != nil {
			return nil, err
		}
		return calculus.Telltypes{At: x.At, Then: then}, nil

	case ast.Hole:
		if h == nil {
			return nil, &diagnostics.MustEndProcessError{At: x.At}
		}
		return h(), nil

	case nil:
		return nil, &diagnostics.MustEndProcessError{}

	default:
		return nil, &diagnostics.SyntaxError{At: p.Span(), Message: "unrecognized process form"}
	}
}

// elim compiles pattern.elim(source, k) from spec.md §4.2: NamePattern binds
// source directly under its name; TuplePattern peels one Pair element at a
// time off source via a Receive chain, terminating with Continue once the
// object's remaining type is Break.
func elim(s *scope, pat ast.Pattern, source name.Internal, k calculus.Process) calculus.Process {
	switch p := pat.(type) {
	case ast.NamePattern:
		return calculus.Let{
			At: p.At, Name: name.NewOriginal(p.Name.Ident), Annotation: p.Type,
			Value: calculus.Reference{At: p.At, Name: source}, Then: k,
		}
	case ast.TuplePattern:
		return elimElements(s, p.Elements, 0, p.At, source, k)
	default:
		return k
	}
}

func elimElements(s *scope, elements []ast.Pattern, idx int, at name.Span, object name.Internal, k calculus.Process) calculus.Process {
	if idx == len(elements) {
		return calculus.Do{At: at, Object: object, Command: calculus.ContinueCmd{At: at, Then: k}}
	}
	elem := elements[idx]
	if np, ok := elem.(ast.NamePattern); ok {
		rest := elimElements(s, elements, idx+1, at, object, k)
		return calculus.Do{
			At: at, Object: object,
			Command: calculus.Receive{At: np.At, Param: name.NewOriginal(np.Name.Ident), Annotation: np.Type, Then: rest},
		}
	}
	fresh := s.nextMatch()
	rest := elimElements(s, elements, idx+1, at, object, k)
	bound := elim(s, elem, fresh, rest)
	return calculus.Do{
		At: at, Object: object,
		Command: calculus.Receive{At: elem.Span(), Param: fresh, Annotation: elem.Annotation(), Then: bound},
	}
}

func command(s *scope, c ast.SurfaceCommand, h hole) (calculus.Command, error) {
	switch x := c.(type) {
	case ast.SLink:
		value, err := expression(s, x.Value, h)
		if err != nil {
			return nil, err
		}
		return calculus.Link{At: x.At, Value: value}, nil

	case ast.SSend:
		value, err := expression(s, x.Value, h)
		if err != nil {
			return nil, err
		}
		then, err := process(s, x.Then, h)
		if err != nil {
			return nil, err
		}
		return calculus.Send{At: x.At, Value: value, Then: then}, nil

	case ast.SReceive:
		// A bare NamePattern receive binds directly; a nested pattern receives
		// into a fresh Match name and runs elim before the continuation.
		then, err := process(s, x.Then, h)
		if err != nil {
			return nil, err
		}
		if np, ok := x.Pattern.(ast.NamePattern); ok {
			return calculus.Receive{At: x.At, Param: name.NewOriginal(np.Name.Ident), Annotation: x.Annotation, Then: then}, nil
		}
		fresh := s.nextMatch()
		bound := elim(s, x.Pattern, fresh, then)
		return calculus.Receive{At: x.At, Param: fresh, Annotation: x.Annotation, Then: bound}, nil

	case ast.SSignal:
		then, err := process(s, x.Then, h)
		if err != nil {
			return nil, err
		}
		return calculus.Signal{At: x.At, Label: x.Label, Then: then}, nil

	case ast.SCase:
		branches := make([]calculus.CaseBranch, len(x.Branches))
		for i, b := range x.Branches {
			then, err := process(s, b.Then, h)
			if err != nil {
				return nil, err
			}
			branches[i] = calculus.CaseBranch{Label: b.Label, Then: then}
		}
		var fallthrough_ calculus.Process
		if x.Fallthrough != nil {
			ft, err := process(s, x.Fallthrough, h)
			if err != nil {
				return nil, err
			}
			fallthrough_ = ft
		}
		return calculus.Case{At: x.At, Branches: branches, Fallthrough: fallthrough_}, nil

	case ast.SBreak:
		return calculus.BreakCmd{At: x.At}, nil

	case ast.SContinue:
		then, err := process(s, x.Then, h)
		if err != nil {
			return nil, err
		}
		return calculus.ContinueCmd{At: x.At, Then: then}, nil

	case ast.SBegin:
		body, err := process(s, x.Body, h)
		if err != nil {
			return nil, err
		}
		return calculus.Begin{At: x.At, Unfounded: x.Unfounded, Label: x.Label, Captures: nil, Body: body}, nil

	case ast.SLoop:
		return calculus.Loop{At: x.At, Label: x.Label, Captures: nil}, nil

	case ast.SSendType:
		then, err := process(s, x.Then, h)
		if err != nil {
			return nil, err
		}
		return calculus.SendType{At: x.At, Arg: x.Arg, Then: then}, nil

	case ast.SReceiveType:
		then, err := process(s, x.Then, h)
		if err != nil {
			return nil, err
		}
		return calculus.ReceiveType{At: x.At, Param: x.Param, Then: then}, nil

	default:
		return nil, &diagnostics.SyntaxError{At: c.Span(), Message: "unrecognized command form"}
	}
}
