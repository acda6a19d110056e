package check

import (
	"github.com/funvibe/par/internal/calculus"
	"github.com/funvibe/par/internal/diagnostics"
	"github.com/funvibe/par/internal/types"
)

// inferExpression implements spec.md §4.3's infer_expression: synthesize a
// type for e without a target, consuming whatever linear names it reads
// from ctx.
func (c *Checker) inferExpression(ctx *Context, e calculus.Expression) (types.Type, error) {
	switch x := e.(type) {
	case calculus.Reference:
		if t, ok := ctx.peek(x.Name); ok {
			linear, err := types.IsLinear(c.Defs, t)
			if err != nil {
				return nil, err
			}
			if linear {
				ctx.take(x.At, x.Name)
			}
			return t, nil
		}
		return c.globalType(x.At, x.Name.String())

	case calculus.PrimitiveExpr:
		return types.Primitive{Kind: x.Value.Kind()}, nil

	case calculus.Fork:
		sub := NewContext()
		if err := c.captureInto(ctx, sub, x); err != nil {
			return nil, err
		}
		if x.Annotation == nil {
			// No annotation on the fork itself: synthesize x.Channel's
			// protocol bottom-up from how x.Process uses it (spec.md §4.3
			// infer_process), rather than failing immediately.
			chanType, err := c.inferProcess(sub, x.Process, x.Channel)
			if err != nil {
				return nil, err
			}
			return types.Dual(chanType), nil
		}
		sub.forcePut(x.Channel, x.Annotation)
		if err := c.checkProcess(sub, x.Process); err != nil {
			return nil, err
		}
		// x.Annotation is x.Channel's own protocol (the provider's side);
		// the fork expression's value is the other end of that pair, so it
		// carries the dual (spec.md §4.1 Dual).
		return types.Dual(x.Annotation), nil

	default:
		return nil, &diagnostics.SyntaxError{At: e.Span(), Message: "unrecognized expression form"}
	}
}

// checkExpression implements check_expression: verify e produces a value
// assignable to want. Fork is the one syntax-directed case where an absent
// annotation is filled in from want instead of failing.
func (c *Checker) checkExpression(ctx *Context, e calculus.Expression, want types.Type) error {
	if f, ok := e.(calculus.Fork); ok && f.Annotation == nil {
		// want describes the VALUE the fork expression must produce, i.e.
		// the far end of f.Channel; the channel f.Process actually runs on
		// is the near end, so it's bound to the dual (spec.md §4.1 Dual,
		// mirrored by inferExpression's Fork case above).
		sub := NewContext()
		if err := c.captureInto(ctx, sub, f); err != nil {
			return err
		}
		sub.forcePut(f.Channel, types.Dual(want))
		return c.checkProcess(sub, f.Process)
	}
	got, err := c.inferExpression(ctx, e)
	if err != nil {
		return err
	}
	ok, err := types.AssignableTo(c.Defs, got, want)
	if err != nil {
		return err
	}
	if !ok {
		return &diagnostics.CannotAssignError{At: e.Span(), From: got.String(), To: want.String()}
	}
	return nil
}
