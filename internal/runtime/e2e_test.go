package runtime

import (
	"context"
	"testing"

	"github.com/funvibe/par/internal/calculus"
	"github.com/funvibe/par/internal/check"
	"github.com/funvibe/par/internal/name"
	"github.com/funvibe/par/internal/types"
)

// TestIdentityAppliedEndToEnd is spec.md §8 scenario 1 across the whole
// pipeline: an inferred identity definition is checked together with a
// declared main that applies it to 3, then the checked program runs and the
// result reads back as 3.
func TestIdentityAppliedEndToEnd(t *testing.T) {
	natT := types.Primitive{Kind: types.Nat}
	ch := name.NewOriginal("c")
	x := name.NewOriginal("x")

	id := calculus.Fork{
		Channel: ch,
		Process: calculus.Do{Object: ch, Command: calculus.Receive{
			Param:      x,
			Annotation: natT,
			Then: calculus.Do{Object: ch, Command: calculus.Send{
				Value: calculus.Reference{Name: x},
				Then:  calculus.Do{Object: ch, Command: calculus.BreakCmd{}},
			}},
		}},
	}

	r := name.NewResult("")
	f := name.NewOriginal("f")
	y := name.NewOriginal("y")
	main := calculus.Fork{
		Channel: r,
		Process: calculus.Let{
			Name:  f,
			Value: calculus.Reference{Name: name.NewOriginal("id")},
			Then: calculus.Do{Object: f, Command: calculus.Send{
				Value: calculus.PrimitiveExpr{Value: calculus.NatLiteral{Value: 3}},
				Then: calculus.Do{Object: f, Command: calculus.Receive{
					Param: y,
					Then: calculus.Do{Object: f, Command: calculus.ContinueCmd{
						Then: calculus.Do{Object: r, Command: calculus.Send{
							Value: calculus.Reference{Name: y},
							Then:  calculus.Do{Object: r, Command: calculus.BreakCmd{}},
						}},
					}},
				}},
			}},
		},
	}

	globals := map[string]calculus.Expression{"id": id, "main": main}
	declared := map[string]types.Type{
		"main": types.Pair{First: natT, Second: types.Break{}},
	}
	c := check.NewChecker(types.NewDefs(nil), declared, globals)
	if errs := c.CheckAll(); len(errs) != 0 {
		t.Fatalf("checking: %v", errs)
	}

	node, err := Run(context.Background(), globals, nil, "main")
	if err != nil {
		t.Fatalf("running: %v", err)
	}
	if got, want := String(node), "(3) !"; got != want {
		t.Errorf("result = %q, want %q", got, want)
	}
}
