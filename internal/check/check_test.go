package check

import (
	"errors"
	"testing"

	"github.com/funvibe/par/internal/calculus"
	"github.com/funvibe/par/internal/diagnostics"
	"github.com/funvibe/par/internal/name"
	"github.com/funvibe/par/internal/types"
)

func nat() types.Type { return types.Primitive{Kind: types.Nat} }

// TestIdentityFunction is spec.md §8 scenario 1: [Nat] (Nat)! implemented by
// receiving a value and immediately sending it back.
func TestIdentityFunction(t *testing.T) {
	r := name.NewResult("")
	x := name.NewOriginal("x")
	fnType := types.Pair{First: nat(), Second: types.Function{Param: nat(), Result: types.Continue{}}}

	body := calculus.Fork{
		Channel:    r,
		Annotation: fnType,
		Process: calculus.Do{Object: r, Command: calculus.Receive{
			Param: x,
			Then: calculus.Do{Object: r, Command: calculus.Send{
				Value: calculus.Reference{Name: x},
				Then:  calculus.Do{Object: r, Command: calculus.BreakCmd{}},
			}},
		}},
	}

	defs := types.NewDefs(nil)
	c := NewChecker(defs, map[string]types.Type{}, map[string]calculus.Expression{"id": body})
	if errs := c.CheckAll(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

// TestMissingBranchRejected is spec.md §8 scenario 4: a Case over an Either
// that does not cover every branch and carries no fallthrough must fail.
func TestMissingBranchRejected(t *testing.T) {
	r := name.NewResult("")
	either := types.Either{Branches: map[string]types.Type{
		"a": types.Continue{},
		"b": types.Continue{},
	}}
	body := calculus.Fork{
		Channel:    r,
		Annotation: either,
		Process: calculus.Do{Object: r, Command: calculus.Case{
			Branches: []calculus.CaseBranch{
				{Label: "a", Then: calculus.Do{Object: r, Command: calculus.BreakCmd{}}},
			},
		}},
	}
	defs := types.NewDefs(nil)
	c := NewChecker(defs, map[string]types.Type{}, map[string]calculus.Expression{"f": body})
	errs := c.CheckAll()
	if len(errs) == 0 {
		t.Fatal("expected a MissingBranch error")
	}
}

// TestExhaustiveCaseAccepted is the positive counterpart: every branch of
// the Either is covered, so checking succeeds.
func TestExhaustiveCaseAccepted(t *testing.T) {
	r := name.NewResult("")
	either := types.Either{Branches: map[string]types.Type{
		"a": types.Continue{},
		"b": types.Continue{},
	}}
	body := calculus.Fork{
		Channel:    r,
		Annotation: either,
		Process: calculus.Do{Object: r, Command: calculus.Case{
			Branches: []calculus.CaseBranch{
				{Label: "a", Then: calculus.Do{Object: r, Command: calculus.BreakCmd{}}},
				{Label: "b", Then: calculus.Do{Object: r, Command: calculus.BreakCmd{}}},
			},
		}},
	}
	defs := types.NewDefs(nil)
	c := NewChecker(defs, map[string]types.Type{}, map[string]calculus.Expression{"f": body})
	if errs := c.CheckAll(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

// TestRecursiveListLength is spec.md §8 scenario 3: a loop over
// recursive:list that consumes a Nat-tagged either chain down to .end,
// looping back with no captured variables left over.
func TestRecursiveListLength(t *testing.T) {
	list := types.Recursive{
		Label: "list",
		Body: types.Either{Branches: map[string]types.Type{
			"end":  types.Continue{},
			"step": types.Function{Param: nat(), Result: types.Self_{Label: "list"}},
		}},
	}
	obj := name.NewOriginal("l")

	// list's "step" branch is Function(Nat, Self): the channel offering
	// `list` accepts a Nat then recurses (Function is send-then-continue
	// from the Send command's point of view, spec.md §4.3's per-command
	// table).
	body := calculus.Fork{
		Channel:    obj,
		Annotation: list,
		Process: calculus.Do{Object: obj, Command: calculus.Begin{
			Label: "list",
			Body: calculus.Do{Object: obj, Command: calculus.Case{
				Branches: []calculus.CaseBranch{
					{Label: "end", Then: calculus.Do{Object: obj, Command: calculus.BreakCmd{}}},
					{Label: "step", Then: calculus.Do{Object: obj, Command: calculus.Send{
						Value: calculus.PrimitiveExpr{Value: calculus.NatLiteral{Value: 0}},
						Then:  calculus.Do{Object: obj, Command: calculus.Loop{Label: "list"}},
					}}},
				},
			}},
		}},
	}
	defs := types.NewDefs(nil)
	c := NewChecker(defs, map[string]types.Type{}, map[string]calculus.Expression{"len": body})
	if errs := c.CheckAll(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

// loopOnForeignRecursive builds the begin/loop shape of spec.md §8 scenario
// 5: a begin on a Tree whose .node branch hands over a FRESH Tree, followed
// by a loop issued against that fresh value instead of anything descended
// from the begin's own unfolding.
func loopOnForeignRecursive(unfounded bool) (*types.Defs, calculus.Expression) {
	treeRef := types.NameRef{Global: name.Global{Ident: "Tree"}}
	tree := &types.Def{
		Global: name.Global{Ident: "Tree"},
		Body: types.Recursive{
			Label: "t",
			Body: types.Either{Branches: map[string]types.Type{
				"leaf": types.Continue{},
				"node": types.Pair{First: treeRef, Second: types.Break{}},
			}},
		},
	}
	obj := name.NewOriginal("tr")
	child := name.NewOriginal("child")

	body := calculus.Fork{
		Channel:    obj,
		Annotation: treeRef,
		Process: calculus.Do{Object: obj, Command: calculus.Begin{
			Label:     "outer",
			Unfounded: unfounded,
			Body: calculus.Do{Object: obj, Command: calculus.Case{
				Branches: []calculus.CaseBranch{
					{Label: "leaf", Then: calculus.Do{Object: obj, Command: calculus.BreakCmd{}}},
					{Label: "node", Then: calculus.Do{Object: obj, Command: calculus.Receive{
						Param: child,
						Then: calculus.Do{Object: obj, Command: calculus.ContinueCmd{
							Then: calculus.Do{Object: child, Command: calculus.Loop{Label: "outer"}},
						}},
					}}},
				},
			}},
		}},
	}
	return types.NewDefs([]*types.Def{tree}), body
}

// TestLoopMustDescendFromBegin: looping a value that never passed through
// the begin's own unfolding loses the begin label from its ascendant set and
// is rejected as potentially divergent.
func TestLoopMustDescendFromBegin(t *testing.T) {
	defs, body := loopOnForeignRecursive(false)
	c := NewChecker(defs, map[string]types.Type{}, map[string]calculus.Expression{"walk": body})
	errs := c.CheckAll()
	if len(errs) == 0 {
		t.Fatal("expected a DoesNotDescendSubjectOfBegin error")
	}
	var descErr *diagnostics.DoesNotDescendSubjectOfBeginError
	if !errors.As(errs[0], &descErr) {
		t.Fatalf("expected DoesNotDescendSubjectOfBegin, got %v", errs[0])
	}
}

// TestUnfoundedBeginDisablesDescentCheck is the flip side: marking the same
// begin unfounded drops the descent requirement and the loop is accepted.
func TestUnfoundedBeginDisablesDescentCheck(t *testing.T) {
	defs, body := loopOnForeignRecursive(true)
	c := NewChecker(defs, map[string]types.Type{}, map[string]calculus.Expression{"walk": body})
	if errs := c.CheckAll(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

// TestLoopCaptureChangedTypeRejected: a variable captured at the begin must
// come back to the loop with an assignable type.
func TestLoopCaptureChangedTypeRejected(t *testing.T) {
	list := types.Recursive{
		Label: "list",
		Body: types.Either{Branches: map[string]types.Type{
			"end":  types.Continue{},
			"step": types.Function{Param: nat(), Result: types.Self_{Label: "list"}},
		}},
	}
	obj := name.NewOriginal("l")
	n := name.NewOriginal("n")

	body := calculus.Fork{
		Channel:    obj,
		Annotation: list,
		Process: calculus.Let{
			Name:  n,
			Value: calculus.PrimitiveExpr{Value: calculus.NatLiteral{Value: 0}},
			Then: calculus.Do{Object: obj, Command: calculus.Begin{
				Label: "list",
				Body: calculus.Do{Object: obj, Command: calculus.Case{
					Branches: []calculus.CaseBranch{
						{Label: "end", Then: calculus.Do{Object: obj, Command: calculus.BreakCmd{}}},
						{Label: "step", Then: calculus.Do{Object: obj, Command: calculus.Send{
							Value: calculus.PrimitiveExpr{Value: calculus.NatLiteral{Value: 1}},
							Then: calculus.Let{
								Name:  n,
								Value: calculus.PrimitiveExpr{Value: calculus.StringLiteral{Value: "oops"}},
								Then:  calculus.Do{Object: obj, Command: calculus.Loop{Label: "list"}},
							},
						}}},
					},
				}},
			}},
		},
	}
	defs := types.NewDefs(nil)
	c := NewChecker(defs, map[string]types.Type{}, map[string]calculus.Expression{"len": body})
	errs := c.CheckAll()
	if len(errs) == 0 {
		t.Fatal("expected a LoopVariableChangedType error")
	}
	var changed *diagnostics.LoopVariableChangedTypeError
	if !errors.As(errs[0], &changed) {
		t.Fatalf("expected LoopVariableChangedType, got %v", errs[0])
	}
}

// TestInferUnannotatedFork: with no declaration and no fork annotation, the
// subject's protocol is synthesized bottom-up from its use (spec.md §4.3
// infer_process/infer_command) and the definition's type is its dual.
func TestInferUnannotatedFork(t *testing.T) {
	ch := name.NewOriginal("c")
	x := name.NewOriginal("x")
	body := calculus.Fork{
		Channel: ch,
		Process: calculus.Do{Object: ch, Command: calculus.Receive{
			Param:      x,
			Annotation: nat(),
			Then: calculus.Do{Object: ch, Command: calculus.Send{
				Value: calculus.Reference{Name: x},
				Then:  calculus.Do{Object: ch, Command: calculus.BreakCmd{}},
			}},
		}},
	}
	defs := types.NewDefs(nil)
	c := NewChecker(defs, map[string]types.Type{}, map[string]calculus.Expression{"echo": body})
	if errs := c.CheckAll(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	got, ok := c.DefinitionType("echo")
	if !ok {
		t.Fatal("expected an inferred type for echo")
	}
	want := types.Function{Param: nat(), Result: types.Pair{First: nat(), Second: types.Break{}}}
	if got.String() != want.String() {
		t.Errorf("inferred type = %s, want %s", got, want)
	}
}

// TestForkCapturesParentBinding: a fork body may read bindings from its
// enclosing scope; nonlinear data is copied into the child context, so the
// parent keeps its own copy too.
func TestForkCapturesParentBinding(t *testing.T) {
	r := name.NewOriginal("r")
	q := name.NewOriginal("q")
	n := name.NewOriginal("n")
	v := name.NewOriginal("v")

	inner := calculus.Fork{
		Channel: q,
		Process: calculus.Do{Object: q, Command: calculus.Send{
			Value: calculus.Reference{Name: n},
			Then:  calculus.Do{Object: q, Command: calculus.BreakCmd{}},
		}},
	}
	body := calculus.Fork{
		Channel:    r,
		Annotation: types.Continue{},
		Process: calculus.Let{
			Name:  n,
			Value: calculus.PrimitiveExpr{Value: calculus.NatLiteral{Value: 7}},
			Then: calculus.Let{
				Name:       v,
				Annotation: types.Pair{First: nat(), Second: types.Break{}},
				Value:      inner,
				Then:       calculus.Do{Object: r, Command: calculus.BreakCmd{}},
			},
		},
	}
	defs := types.NewDefs(nil)
	c := NewChecker(defs, map[string]types.Type{}, map[string]calculus.Expression{"pack": body})
	if errs := c.CheckAll(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

// TestDependencyCycleReportsWholeChain: mutual value-level recursion is
// rejected with the full chain in the diagnostic, not just the closing
// ident, matching types.Validate's type-level cycle reports.
func TestDependencyCycleReportsWholeChain(t *testing.T) {
	defs := types.NewDefs(nil)
	c := NewChecker(defs, map[string]types.Type{}, map[string]calculus.Expression{
		"a": calculus.Reference{Name: name.NewOriginal("b")},
		"b": calculus.Reference{Name: name.NewOriginal("a")},
	})
	errs := c.CheckAll()
	if len(errs) == 0 {
		t.Fatal("expected a DependencyCycle error")
	}
	var cyc *diagnostics.DependencyCycleError
	if !errors.As(errs[0], &cyc) {
		t.Fatalf("expected DependencyCycle, got %v", errs[0])
	}
	if len(cyc.Cycle) < 3 {
		t.Fatalf("expected the whole chain in the cycle, got %v", cyc.Cycle)
	}
	if cyc.Cycle[0] != cyc.Cycle[len(cyc.Cycle)-1] {
		t.Errorf("cycle should close on its opening ident, got %v", cyc.Cycle)
	}
}
