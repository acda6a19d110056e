package check

import (
	"sort"

	"github.com/funvibe/par/internal/calculus"
	"github.com/funvibe/par/internal/diagnostics"
	"github.com/funvibe/par/internal/name"
	"github.com/funvibe/par/internal/types"
)

// analyzeFunc is the continuation strategy threaded through checkCommand:
// checkProcess's Do case supplies checkProcessAnalyze, which just runs
// checkProcess and reports no inferred type; inferProcess's Do case (when
// the command's own object isn't the subject being inferred) supplies a
// closure that recurses into inferProcess instead and threads the inferred
// subject type back out. This mirrors spec.md §4.3's check_command being
// shared, unmodified, by both the checking and inferring passes.
type analyzeFunc func(ctx *Context, p calculus.Process) (types.Type, error)

// checkProcessAnalyze adapts checkProcess to analyzeFunc's shape for the
// plain-checking case, where there is no subject type to synthesize.
func (c *Checker) checkProcessAnalyze(ctx *Context, p calculus.Process) (types.Type, error) {
	return nil, c.checkProcess(ctx, p)
}

// checkCommand implements check_command's per-command table (spec.md §4.3),
// dispatching on the object's resolved shape. resolveShape transparently
// unwraps Box/DualBox for reuse (a boxed resource is peeked for its shape and
// the ORIGINAL boxed type is re-installed afterward rather than the
// command's continuation, matching nonlinear reuse per spec.md §3 Lifecycle)
// and unrolls Recursive/Iterative on demand, since commands only ever act on
// a channel's concrete shape. The returned type is non-nil only when analyze
// is itself inferring a subject (see analyzeFunc).
func (c *Checker) checkCommand(ctx *Context, object name.Internal, objType types.Type, cmd calculus.Command, analyze analyzeFunc) (types.Type, error) {
	shape, boxed, err := resolveShape(c.Defs, objType)
	if err != nil {
		return nil, err
	}
	reinsert := func(continuation types.Type) {
		if boxed {
			ctx.forcePut(object, objType)
			return
		}
		ctx.forcePut(object, continuation)
	}

	switch x := cmd.(type) {
	case calculus.Link:
		if err := c.checkExpression(ctx, x.Value, types.Dual(objType)); err != nil {
			return nil, err
		}
		return nil, c.cannotHaveObligations(ctx, x.At)

	case calculus.Send:
		fn, ok := shape.(types.Function)
		if !ok {
			return nil, &diagnostics.InvalidOperationError{At: x.At, Type: shape.String(), Op: "send"}
		}
		if err := c.checkExpression(ctx, x.Value, fn.Param); err != nil {
			return nil, err
		}
		reinsert(fn.Result)
		return analyze(ctx, x.Then)

	case calculus.Receive:
		pair, ok := shape.(types.Pair)
		if !ok {
			return nil, &diagnostics.InvalidOperationError{At: x.At, Type: shape.String(), Op: "receive"}
		}
		paramType := pair.First
		if x.Annotation != nil {
			ok, err := types.AssignableTo(c.Defs, pair.First, x.Annotation)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, &diagnostics.CannotAssignError{At: x.At, From: pair.First.String(), To: x.Annotation.String()}
			}
			paramType = x.Annotation
		}
		if err := ctx.put(c.Defs, x.At, x.Param, paramType); err != nil {
			return nil, err
		}
		reinsert(pair.Second)
		return analyze(ctx, x.Then)

	case calculus.Signal:
		choice, ok := shape.(types.Choice)
		if !ok {
			return nil, &diagnostics.InvalidOperationError{At: x.At, Type: shape.String(), Op: "signal"}
		}
		branch, ok := choice.Branches[x.Label]
		if !ok {
			return nil, &diagnostics.InvalidBranchError{At: x.At, Label: x.Label, Type: shape.String()}
		}
		reinsert(branch)
		return analyze(ctx, x.Then)

	case calculus.Case:
		either, ok := shape.(types.Either)
		if !ok {
			return nil, &diagnostics.InvalidOperationError{At: x.At, Type: shape.String(), Op: "case"}
		}
		covered := map[string]bool{}
		var result types.Type
		for _, b := range x.Branches {
			branchType, ok := either.Branches[b.Label]
			if !ok {
				return nil, &diagnostics.RedundantBranchError{At: x.At, Label: b.Label, Type: shape.String()}
			}
			covered[b.Label] = true
			branchCtx := ctx.clone()
			branchCtx.forcePut(object, branchType)
			t, err := analyze(branchCtx, b.Then)
			if err != nil {
				return nil, err
			}
			if result, err = mergeInferred(c.Defs, x.At, result, t); err != nil {
				return nil, err
			}
		}
		if x.Fallthrough != nil {
			fallCtx := ctx.clone()
			fallCtx.forcePut(object, objType)
			t, err := analyze(fallCtx, x.Fallthrough)
			if err != nil {
				return nil, err
			}
			if result, err = mergeInferred(c.Defs, x.At, result, t); err != nil {
				return nil, err
			}
		} else {
			missing := make([]string, 0, len(either.Branches))
			for l := range either.Branches {
				if !covered[l] {
					missing = append(missing, l)
				}
			}
			if len(missing) > 0 {
				sort.Strings(missing)
				return nil, &diagnostics.MissingBranchError{At: x.At, Label: missing[0], Type: shape.String()}
			}
		}
		return result, nil

	case calculus.BreakCmd:
		if _, ok := shape.(types.Continue); !ok {
			return nil, &diagnostics.InvalidOperationError{At: x.At, Type: shape.String(), Op: "break"}
		}
		return nil, c.cannotHaveObligations(ctx, x.At)

	case calculus.ContinueCmd:
		if _, ok := shape.(types.Break); !ok {
			return nil, &diagnostics.InvalidOperationError{At: x.At, Type: shape.String(), Op: "continue"}
		}
		return analyze(ctx, x.Then)

	case calculus.Begin:
		fix, err := resolveFixpoint(c.Defs, objType)
		if err != nil {
			return nil, err
		}
		rec, ok := fix.(types.Recursive)
		if !ok {
			return nil, &diagnostics.InvalidOperationError{At: x.At, Type: fix.String(), Op: "begin"}
		}
		asc := rec.Asc
		if !x.Unfounded {
			asc = types.AscWith(asc, x.Label)
		}
		// A new binder of this label owns descent from here on; older
		// unfoldings held by other variables no longer count.
		ctx.invalidateAscendant(x.Label)
		grown := types.Recursive{Asc: asc, Label: rec.Label, Body: rec.Body}
		captures := ctx.snapshot(object)
		c.loopStack = append(c.loopStack, loopPoint{
			Label: x.Label, ObjectName: object, ObjectType: grown,
			Captures: captures, BeginAt: x.At,
		})
		c.Captures[x.At] = sortedCaptureNames(captures)
		ctx.forcePut(object, types.ExpandRecursive(grown))
		t, err := analyze(ctx, x.Body)
		c.loopStack = c.loopStack[:len(c.loopStack)-1]
		if err != nil {
			return nil, err
		}
		if t != nil {
			// An inference subject living through this loop repeats with it:
			// its protocol is iterative at the begin's label.
			t = types.Iterative{Asc: asc, Label: x.Label, Body: t}
		}
		return t, nil

	case calculus.Loop:
		lp, ok := c.findLoop(x.Label)
		if !ok {
			return nil, &diagnostics.NoSuchLoopPointError{At: x.At, Label: x.Label}
		}
		fix, err := resolveFixpoint(c.Defs, objType)
		if err != nil {
			return nil, err
		}
		rec, ok := fix.(types.Recursive)
		if !ok {
			return nil, &diagnostics.InvalidOperationError{At: x.At, Type: fix.String(), Op: "loop"}
		}
		if beginRec, ok := lp.ObjectType.(types.Recursive); ok {
			// Every label in the begin-time ascendant set must survive in the
			// subject: losing one means the loop did not come back through an
			// unfolding of its own begin.
			if !types.AscSubset(beginRec.Asc, rec.Asc) {
				return nil, &diagnostics.DoesNotDescendSubjectOfBeginError{At: x.At, BeginAt: lp.BeginAt, Label: x.Label}
			}
			ok, err := types.AssignableTo(c.Defs, rec, beginRec)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, &diagnostics.CannotAssignError{At: x.At, From: rec.String(), To: beginRec.String()}
			}
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
		fa, ok := shape.(types.Forall)
		if !ok {
			return nil, &diagnostics.InvalidOperationError{At: x.At, Type: shape.String(), Op: "send type"}
		}
		reinsert(types.Substitute(fa.Body, fa.Var, x.Arg))
		return analyze(ctx, x.Then)

	case calculus.ReceiveType:
		ex, ok := shape.(types.Exists)
		if !ok {
			return nil, &diagnostics.InvalidOperationError{At: x.At, Type: shape.String(), Op: "receive type"}
		}
		reinsert(types.Substitute(ex.Body, ex.Var, types.Var{Name: x.Param}))
		return analyze(ctx, x.Then)

	default:
		return nil, &diagnostics.SyntaxError{At: cmd.Span(), Message: "unrecognized command form"}
	}
}

// mergeInferred folds one more analyzed branch's result into the running
// total: nil results (the plain-checking pass never produces one) are
// ignored, and two real results are unified per spec.md §4.3's Case rule
// ("branches unify their result types").
func mergeInferred(defs *types.Defs, at name.Span, have, got types.Type) (types.Type, error) {
	if got == nil {
		return have, nil
	}
	if have == nil {
		return got, nil
	}
	return unifyTypes(defs, at, have, got)
}

// unifyTypes widens two independently-derived types into one via
// assignability in whichever direction succeeds.
func unifyTypes(defs *types.Defs, at name.Span, a, b types.Type) (types.Type, error) {
	if a.String() == b.String() {
		return a, nil
	}
	if ok, err := types.AssignableTo(defs, a, b); err != nil {
		return nil, err
	} else if ok {
		return b, nil
	}
	if ok, err := types.AssignableTo(defs, b, a); err != nil {
		return nil, err
	} else if ok {
		return a, nil
	}
	return nil, &diagnostics.TypesCannotBeUnifiedError{At: at, Left: a.String(), Right: b.String()}
}

// cannotHaveObligations is the check every terminal command (Link, Break,
// Loop) performs: nothing besides what the command itself consumes may be
// left owing. Nonlinear bindings (Box/DualBox/Primitive/DualPrimitive data)
// are inert values, not channels with a protocol still to run, so holding one
// past a terminal command isn't an unfulfilled obligation (spec.md §3
// Lifecycle) -- only names whose type is still linear are reported.
func (c *Checker) cannotHaveObligations(ctx *Context, at name.Span) error {
	var names []string
	for _, n := range ctx.remaining() {
		t, ok := ctx.peek(n)
		if !ok {
			continue
		}
		linear, err := types.IsLinear(c.Defs, t)
		if err != nil {
			return err
		}
		if linear {
			names = append(names, n.String())
		}
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)
	return &diagnostics.UnfulfilledObligationsError{At: at, Names: names}
}

func (c *Checker) findLoop(label string) (loopPoint, bool) {
	for i := len(c.loopStack) - 1; i >= 0; i-- {
		if c.loopStack[i].Label == label {
			return c.loopStack[i], true
		}
	}
	return loopPoint{}, false
}

func sortedCaptureNames(m map[name.Internal]types.Type) []name.Internal {
	out := make([]name.Internal, 0, len(m))
	for n := range m {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
