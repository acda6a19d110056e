package builtin

import (
	"context"
	"testing"

	"github.com/funvibe/par/internal/calculus"
	"github.com/funvibe/par/internal/name"
	"github.com/funvibe/par/internal/runtime"
	"github.com/funvibe/par/internal/types"
)

// TestInstallManifestAgreement: every prelude.yaml entry has a registered
// implementation and vice versa, so Install succeeds.
func TestInstallManifestAgreement(t *testing.T) {
	lib, err := Install()
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if len(lib.Declared) != len(lib.Externals) {
		t.Fatalf("declared %d ops but registered %d externals", len(lib.Declared), len(lib.Externals))
	}
	for _, op := range []string{"Nat.Add", "List.Length", "Map.Nat", "Debug.Log"} {
		if _, ok := lib.Externals[op]; !ok {
			t.Errorf("missing external %s", op)
		}
	}
	if errs := types.Validate(types.NewDefs(lib.TypeDefs)); len(errs) != 0 {
		t.Fatalf("type defs do not validate: %v", errs)
	}
}

func natLit(n uint64) calculus.Expression {
	return calculus.PrimitiveExpr{Value: calculus.NatLiteral{Value: n}}
}

// entryFork builds one (key) (value)! entry of the Map.Nat constructor
// list: send the key, then the value session (a Nat followed by break).
func entryFork(k, v uint64) calculus.Expression {
	e := name.NewOriginal("e")
	return calculus.Fork{
		Channel: e,
		Process: calculus.Do{Object: e, Command: calculus.Send{
			Value: natLit(k),
			Then: calculus.Do{Object: e, Command: calculus.Send{
				Value: natLit(v),
				Then: calculus.Do{Object: e, Command: calculus.BreakCmd{}},
			}},
		}},
	}
}

// entriesFork produces the List<(Nat) box (Nat)!> the Map.Nat constructor
// consumes: .item per entry, closed by .end.
func entriesFork(pairs [][2]uint64) calculus.Expression {
	l := name.NewOriginal("entries")
	proc := calculus.Process(calculus.Do{Object: l, Command: calculus.Signal{
		Label: "end",
		Then:  calculus.Do{Object: l, Command: calculus.BreakCmd{}},
	}})
	for i := len(pairs) - 1; i >= 0; i-- {
		p := pairs[i]
		proc = calculus.Do{Object: l, Command: calculus.Signal{
			Label: "item",
			Then: calculus.Do{Object: l, Command: calculus.Send{
				Value: entryFork(p[0], p[1]),
				Then:  proc,
			}},
		}}
	}
	return calculus.Fork{Channel: l, Process: proc}
}

// TestMapEntryAndList drives Map.Nat end to end: construct a two-entry map,
// probe key 2 (removing it), read its value back, delete, then drain the
// remaining map as a list so every session terminates.
func TestMapEntryAndList(t *testing.T) {
	lib, err := Install()
	if err != nil {
		t.Fatalf("Install: %v", err)
	}

	m := name.NewOriginal("m")
	res := name.NewOriginal("res")
	p := name.NewOriginal("p")
	kk := name.NewOriginal("kk")
	vv := name.NewOriginal("vv")
	x := name.NewOriginal("x")
	r := name.NewResult("")

	drain := calculus.Do{Object: m, Command: calculus.Case{
		Branches: []calculus.CaseBranch{
			{Label: "item", Then: calculus.Do{Object: m, Command: calculus.Receive{
				Param: p,
				Then: calculus.Do{Object: p, Command: calculus.Receive{
					Param: kk,
					Then: calculus.Do{Object: p, Command: calculus.Receive{
						Param: vv,
						Then: calculus.Do{Object: p, Command: calculus.ContinueCmd{
							Then: calculus.Do{Object: m, Command: calculus.Loop{Label: "drain"}},
						}},
					}},
				}},
			}}},
			{Label: "end", Then: calculus.Do{Object: m, Command: calculus.ContinueCmd{
				Then: calculus.Do{Object: r, Command: calculus.Send{
					Value: calculus.Reference{Name: x},
					Then:  calculus.Do{Object: r, Command: calculus.BreakCmd{}},
				}},
			}}},
		},
	}}

	afterEntry := calculus.Do{Object: res, Command: calculus.Case{
		Branches: []calculus.CaseBranch{
			{Label: "ok", Then: calculus.Do{Object: res, Command: calculus.Receive{
				Param: x,
				Then: calculus.Do{Object: res, Command: calculus.ContinueCmd{
					Then: calculus.Do{Object: m, Command: calculus.Signal{
						Label: "delete",
						Then: calculus.Do{Object: m, Command: calculus.Signal{
							Label: "list",
							Then:  calculus.Do{Object: m, Command: calculus.Begin{Label: "drain", Body: drain}},
						}},
					}},
				}},
			}}},
		},
	}}

	main := calculus.Fork{
		Channel: r,
		Process: calculus.Let{
			Name:  m,
			Value: calculus.Reference{Name: name.NewOriginal("Map.Nat")},
			Then: calculus.Do{Object: m, Command: calculus.SendType{
				Arg: types.Pair{First: types.Primitive{Kind: types.Nat}, Second: types.Break{}},
				Then: calculus.Do{Object: m, Command: calculus.Send{
					Value: entriesFork([][2]uint64{{1, 10}, {2, 20}}),
					Then: calculus.Do{Object: m, Command: calculus.Signal{
						Label: "entry",
						Then: calculus.Do{Object: m, Command: calculus.Send{
							Value: natLit(2),
							Then: calculus.Do{Object: m, Command: calculus.Receive{
								Param: res,
								Then:  afterEntry,
							}},
						}},
					}},
				}},
			}},
		},
	}

	globals := map[string]calculus.Expression{"main": main}
	node, err := runtime.Run(context.Background(), globals, lib.Externals, "main")
	if err != nil {
		t.Fatalf("running: %v", err)
	}
	if got, want := runtime.String(node), "(20) !"; got != want {
		t.Errorf("result = %q, want %q", got, want)
	}
}
