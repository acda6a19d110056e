package check

import (
	"github.com/funvibe/par/internal/calculus"
	"github.com/funvibe/par/internal/diagnostics"
	"github.com/funvibe/par/internal/name"
	"github.com/funvibe/par/internal/types"
)

// inferProcess implements spec.md §4.3's infer_process: when a definition
// carries no declared type and its body's outermost Fork has no inline
// annotation either, the checker instead synthesizes subject's type
// bottom-up by watching how the process uses it. Every process form other
// than Do just threads subject through unchanged; Do on some other channel
// checks that command normally (its own type is already known) while still
// propagating the inference through its continuation.
func (c *Checker) inferProcess(ctx *Context, p calculus.Process, subject name.Internal) (types.Type, error) {
	switch x := p.(type) {
	case calculus.Let:
		var t types.Type
		var err error
		if x.Annotation != nil {
			err = c.checkExpression(ctx, x.Value, x.Annotation)
			t = x.Annotation
		} else {
			t, err = c.inferExpression(ctx, x.Value)
		}
		if err != nil {
			return nil, err
		}
		if err := ctx.put(c.Defs, x.At, x.Name, t); err != nil {
			return nil, err
		}
		return c.inferProcess(ctx, x.Then, subject)

	case calculus.Do:
		if x.Object.Equal(subject) {
			return c.inferCommand(ctx, subject, x.Command)
		}
		objType, err := ctx.take(x.At, x.Object)
		if err != nil {
			return nil, err
		}
		return c.checkCommand(ctx, x.Object, objType, x.Command, func(ctx *Context, p calculus.Process) (types.Type, error) {
			return c.inferProcess(ctx, p, subject)
		})

	case calculus.Telltypes:
		c.recordSnapshot(ctx, x.At)
		return c.inferProcess(ctx, x.Then, subject)

	default:
		return nil, &diagnostics.SyntaxError{At: p.Span(), Message: "unrecognized process form"}
	}
}

// inferCommand implements spec.md §4.3's infer_command: subject performs cmd
// with no required shape known ahead of time, so each case builds the shape
// that usage demands instead of matching one. Signal and SendType cannot be
// inferred this way -- the table's branches/substitution target would have
// to already be known -- and produce TypeMustBeKnownError, matching
// spec.md's "some forms ... require the type already be known".
func (c *Checker) inferCommand(ctx *Context, subject name.Internal, cmd calculus.Command) (types.Type, error) {
	switch x := cmd.(type) {
	case calculus.Link:
		t, err := c.inferExpression(ctx, x.Value)
		if err != nil {
			return nil, err
		}
		if err := c.cannotHaveObligations(ctx, x.At); err != nil {
			return nil, err
		}
		return types.Dual(t), nil

	case calculus.Send:
		argType, err := c.inferExpression(ctx, x.Value)
		if err != nil {
			return nil, err
		}
		resultType, err := c.inferProcess(ctx, x.Then, subject)
		if err != nil {
			return nil, err
		}
		return types.Function{Param: argType, Result: resultType}, nil

	case calculus.Receive:
		if x.Annotation == nil {
			return nil, &diagnostics.ParamTypeMustBeKnownError{At: x.At, Name: x.Param.String()}
		}
		if err := ctx.put(c.Defs, x.At, x.Param, x.Annotation); err != nil {
			return nil, err
		}
		resultType, err := c.inferProcess(ctx, x.Then, subject)
		if err != nil {
			return nil, err
		}
		return types.Pair{First: x.Annotation, Second: resultType}, nil

	case calculus.Signal:
		return nil, &diagnostics.TypeMustBeKnownError{At: x.At}

	case calculus.Case:
		branches := make(map[string]types.Type, len(x.Branches))
		for _, b := range x.Branches {
			branchCtx := ctx.clone()
			t, err := c.inferProcess(branchCtx, b.Then, subject)
			if err != nil {
				return nil, err
			}
			branches[b.Label] = t
		}
		if x.Fallthrough != nil {
			return nil, &diagnostics.TypeMustBeKnownError{At: x.At}
		}
		return types.Either{Branches: branches}, nil

	case calculus.BreakCmd:
		if err := c.cannotHaveObligations(ctx, x.At); err != nil {
			return nil, err
		}
		return types.Continue{}, nil

	case calculus.ContinueCmd:
		if err := c.checkProcess(ctx, x.Then); err != nil {
			return nil, err
		}
		return types.Break{}, nil

	case calculus.Begin:
		// The subject has no concrete type yet, so there is no begin-time
		// fixpoint to record; the loop point carries only the context
		// snapshot, and the finished body is wrapped in a Recursive whose
		// ascendant set is seeded with this begin's own label.
		captures := ctx.snapshot(subject)
		c.loopStack = append(c.loopStack, loopPoint{
			Label: x.Label, ObjectName: subject,
			Captures: captures, BeginAt: x.At,
		})
		c.Captures[x.At] = sortedCaptureNames(captures)
		bodyType, err := c.inferProcess(ctx, x.Body, subject)
		c.loopStack = c.loopStack[:len(c.loopStack)-1]
		if err != nil {
			return nil, err
		}
		asc := map[string]bool{}
		if !x.Unfounded {
			asc[x.Label] = true
		}
		return types.Recursive{Asc: asc, Label: x.Label, Body: bodyType}, nil

	case calculus.Loop:
		lp, ok := c.findLoop(x.Label)
		if !ok {
			return nil, &diagnostics.NoSuchLoopPointError{At: x.At, Label: x.Label}
		}
		if !lp.ObjectName.Equal(subject) {
			// Looping some other channel's begin while the subject's own
			// protocol is still being synthesized cannot be typed bottom-up.
			return nil, &diagnostics.TypeMustBeKnownError{At: x.At}
		}
		for _, captured := range sortedCaptureNames(lp.Captures) {
			wantType := lp.Captures[captured]
			gotType, err := ctx.take(x.At, captured)
			if err != nil {
				return nil, &diagnostics.LoopVariableNotPreservedError{At: x.At, Label: x.Label, Name: captured.String()}
			}
			ok, err := types.AssignableTo(c.Defs, gotType, wantType)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, &diagnostics.LoopVariableChangedTypeError{
					At: x.At, Label: x.Label, Name: captured.String(), Was: wantType.String(), IsNow: gotType.String(),
				}
			}
		}
		if err := c.cannotHaveObligations(ctx, x.At); err != nil {
			return nil, err
		}
		return types.Self_{Label: x.Label}, nil

	case calculus.SendType:
		return nil, &diagnostics.TypeMustBeKnownError{At: x.At}

	case calculus.ReceiveType:
		resultType, err := c.inferProcess(ctx, x.Then, subject)
		if err != nil {
			return nil, err
		}
		return types.Exists{Var: x.Param, Body: resultType}, nil

	default:
		return nil, &diagnostics.SyntaxError{At: cmd.Span(), Message: "unrecognized command form"}
	}
}
