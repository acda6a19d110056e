// Package check implements spec.md §4.3's bidirectional checker: a
// syntax-directed pass over internal/calculus deciding, for each process and
// command, whether the linear context it is given suffices to run to
// completion without leftover or missing obligations.
//
// Grounded on funvibe-funxy/internal/analyzer/analyzer.go's Analyzer/walker
// split: a shared read-only table (type defs, declarations) plus one mutable
// walker-like value (Context) threaded through a single recursive descent,
// and inference_solver.go's declared-vs-inferred dispatch, generalized here
// to check_expression/infer_expression as spec.md §4.3 names them.
package check

import (
	"github.com/funvibe/par/internal/diagnostics"
	"github.com/funvibe/par/internal/name"
	"github.com/funvibe/par/internal/types"
)

// Context is the linear obligation set threaded through one definition's
// check: every channel currently owned, and the type still owed on it.
// Insertion order is preserved so obligation-list diagnostics are stable.
type Context struct {
	order []name.Internal
	binds map[name.Internal]types.Type
}

func NewContext() *Context {
	return &Context{binds: map[name.Internal]types.Type{}}
}

// put introduces a binding. Reusing a name that still carries a linear
// obligation is the "shadow-on-reuse" error (spec.md §7.3); a nonlinear
// previous binding (plain data, already fully produced) may be shadowed
// freely, keeping its original position in the obligation order.
func (c *Context) put(defs *types.Defs, at name.Span, n name.Internal, t types.Type) error {
	if prev, ok := c.binds[n]; ok {
		linear, err := types.IsLinear(defs, prev)
		if err != nil {
			return err
		}
		if linear {
			return &diagnostics.ShadowedObligationError{At: at, Name: n.String()}
		}
		c.binds[n] = t
		return nil
	}
	c.binds[n] = t
	c.order = append(c.order, n)
	return nil
}

// forcePut (re-)installs a binding unconditionally, used when a command
// threads the SAME channel name back into the context under its
// continuation type (or, for nonlinear resources, its original type).
func (c *Context) forcePut(n name.Internal, t types.Type) {
	if _, ok := c.binds[n]; !ok {
		c.order = append(c.order, n)
	}
	c.binds[n] = t
}

// take removes and returns an obligation.
func (c *Context) take(at name.Span, n name.Internal) (types.Type, error) {
	t, ok := c.binds[n]
	if !ok {
		return nil, &diagnostics.NameNotDefinedError{At: at, Name: n.String()}
	}
	delete(c.binds, n)
	for i, o := range c.order {
		if o.Equal(n) {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return t, nil
}

// peek reads without consuming.
func (c *Context) peek(n name.Internal) (types.Type, bool) {
	t, ok := c.binds[n]
	return t, ok
}

// remaining lists the names still owed, in insertion order.
func (c *Context) remaining() []name.Internal {
	out := make([]name.Internal, len(c.order))
	copy(out, c.order)
	return out
}

// snapshot captures every current binding other than except, used by Begin
// to record the loop's captured variables (spec.md §3 Begin/Loop captures).
func (c *Context) snapshot(except name.Internal) map[name.Internal]types.Type {
	out := make(map[name.Internal]types.Type, len(c.binds))
	for n, t := range c.binds {
		if n.Equal(except) {
			continue
		}
		out[n] = t
	}
	return out
}

// invalidateAscendant strips label from every ascendant set anywhere in the
// context's bindings, called when the checker enters a new `begin label`
// (spec.md §4.1): unfoldings attributed to an older binder of the same label
// must not satisfy the new binder's descent requirement.
func (c *Context) invalidateAscendant(label string) {
	for n, t := range c.binds {
		c.binds[n] = types.InvalidateAscendant(t, label)
	}
}

// clone makes an independent copy, used to check each Case branch against
// its own divergent continuation of the shared context.
func (c *Context) clone() *Context {
	out := &Context{
		order: append([]name.Internal{}, c.order...),
		binds: make(map[name.Internal]types.Type, len(c.binds)),
	}
	for n, t := range c.binds {
		out.binds[n] = t
	}
	return out
}

// resolveShape unfolds Name references and Recursive/Iterative fixpoints
// transparently until it reaches a concrete shape a command can match on,
// tracking whether a Box/DualBox layer was passed through. A boxed resource
// is used by peeking its contents; the ORIGINAL boxed binding is
// re-installed afterward rather than being replaced by a continuation
// (spec.md §3 Lifecycle: "nonlinear types ... may be used multiple times by
// re-inserting on consumption").
func resolveShape(defs *types.Defs, t types.Type) (shape types.Type, boxed bool, err error) {
	cur := t
	for {
		u, err := types.UnfoldFull(defs, cur)
		if err != nil {
			return nil, false, err
		}
		switch x := u.(type) {
		case types.Box:
			boxed = true
			cur = x.Inner
		case types.DualBox:
			boxed = true
			cur = x.Inner
		case types.Recursive:
			cur = types.ExpandRecursive(x)
		case types.Iterative:
			cur = types.ExpandIterative(x)
		default:
			return u, boxed, nil
		}
	}
}

// resolveFixpoint unfolds Name references and Box layers but stops at the
// first Recursive/Iterative, for the two commands (Begin, Loop) that must
// see the fixpoint itself rather than its unrolling (spec.md §4.3: the
// object's type unfolds through Recursive only "when the command is not
// Begin/Loop").
func resolveFixpoint(defs *types.Defs, t types.Type) (types.Type, error) {
	cur := t
	for {
		u, err := types.UnfoldFull(defs, cur)
		if err != nil {
			return nil, err
		}
		switch x := u.(type) {
		case types.Box:
			cur = x.Inner
		case types.DualBox:
			cur = x.Inner
		default:
			return u, nil
		}
	}
}
