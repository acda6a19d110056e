package main

import (
	"github.com/funvibe/par/internal/calculus"
	"github.com/funvibe/par/internal/name"
	"github.com/funvibe/par/internal/types"
)

// demoProgram hand-builds spec.md §8 scenario 2 ("call a built-in binary
// operation") directly as calculus IR, the same way internal/check's own
// tests do (there is no surface parser in this module -- spec.md §1 scopes
// lexing/parsing to an out-of-scope front end). It computes 2+3 through the
// Nat.Add external and returns the result on the program's own channel.
//
// Referencing Nat.Add gives the caller its declared type directly
// (internal/check.globalType): Nat.Add is declared
// Function(Nat, Function(Nat, (Nat)!)), so the reference here is typed
// the same way -- two Sends (the arguments) followed by a Receive (the
// result) followed by a Continue draining Nat.Add's own Break.
func demoProgram() (entry string, declared types.Type, body calculus.Expression) {
	r := name.NewResult("")
	f := name.NewOriginal("sum")
	result := name.NewOriginal("result")

	natAdd := calculus.Reference{Name: name.NewOriginal("Nat.Add")}

	two := calculus.PrimitiveExpr{Value: calculus.NatLiteral{Value: 2}}
	three := calculus.PrimitiveExpr{Value: calculus.NatLiteral{Value: 3}}

	process := calculus.Let{
		Name:  f,
		Value: natAdd,
		Then: calculus.Do{Object: f, Command: calculus.Send{
			Value: two,
			Then: calculus.Do{Object: f, Command: calculus.Send{
				Value: three,
				Then: calculus.Do{Object: f, Command: calculus.Receive{
					Param: result,
					Then: calculus.Do{Object: f, Command: calculus.ContinueCmd{
						Then: calculus.Do{Object: r, Command: calculus.Send{
							Value: calculus.Reference{Name: result},
							Then:  calculus.Do{Object: r, Command: calculus.BreakCmd{}},
						}},
					}},
				}},
			}},
		}},
	}

	natT := types.Primitive{Kind: types.Nat}
	return "main", types.Pair{First: natT, Second: types.Break{}},
		calculus.Fork{Channel: r, Process: process}
}
