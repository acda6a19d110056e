package desugar

import (
	"testing"

	"github.com/funvibe/par/internal/ast"
	"github.com/funvibe/par/internal/calculus"
	"github.com/funvibe/par/internal/check"
	"github.com/funvibe/par/internal/name"
	"github.com/funvibe/par/internal/types"
)

func nat() types.Type { return types.Primitive{Kind: types.Nat} }

// TestIdentityFunctionDesugars lowers spec.md §8 scenario 1's identity
// function from its surface (ast) form -- the same program
// internal/check/check_test.go's TestIdentityFunction builds directly as
// calculus IR -- and feeds the desugared result straight into the checker.
func TestIdentityFunctionDesugars(t *testing.T) {
	fnType := types.Pair{First: nat(), Second: types.Function{Param: nat(), Result: types.Continue{}}}

	def := &ast.Definition{
		Name: name.Global{Ident: "id"},
		Body: ast.ForkExpr{
			Channel:    name.Local{Ident: "r"},
			Annotation: fnType,
			Body: ast.CommandProcess{
				Object: name.Local{Ident: "r"},
				Command: ast.SReceive{
					Pattern: ast.NamePattern{Name: name.Local{Ident: "x"}},
					Then: ast.CommandProcess{
						Object: name.Local{Ident: "r"},
						Command: ast.SSend{
							Value: ast.Var{Name: name.Local{Ident: "x"}},
							Then: ast.CommandProcess{
								Object:  name.Local{Ident: "r"},
								Command: ast.SBreak{},
							},
						},
					},
				},
			},
		},
	}

	body, err := Definition(def)
	if err != nil {
		t.Fatalf("desugaring: %v", err)
	}

	fork, ok := body.(calculus.Fork)
	if !ok {
		t.Fatalf("expected a Fork, got %T", body)
	}
	if fork.Channel.String() != "r" {
		t.Fatalf("expected channel r, got %s", fork.Channel)
	}

	defs := types.NewDefs(nil)
	c := check.NewChecker(defs, map[string]types.Type{}, map[string]calculus.Expression{"id": body})
	if errs := c.CheckAll(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

// TestDoInSplicesHoleAtResult is spec.md §4.2's do-in equation: the Hole
// inside the process body is replaced with a Link against the implicit
// Result channel carrying the "in" expression's value.
func TestDoInSplicesHoleAtResult(t *testing.T) {
	def := &ast.Definition{
		Name: name.Global{Ident: "f"},
		Body: ast.DoIn{
			Body:  ast.Hole{},
			Value: ast.Lit{Value: calculus.NatLiteral{Value: 0}},
		},
	}

	body, err := Definition(def)
	if err != nil {
		t.Fatalf("desugaring: %v", err)
	}
	fork, ok := body.(calculus.Fork)
	if !ok {
		t.Fatalf("expected do-in to desugar to a Fork, got %T", body)
	}
	do, ok := fork.Process.(calculus.Do)
	if !ok {
		t.Fatalf("expected the Hole to splice in a Do, got %T", fork.Process)
	}
	if _, ok := do.Command.(calculus.Link); !ok {
		t.Fatalf("expected a Link spliced at the Hole, got %T", do.Command)
	}
}

// TestHoleOutsideDoInRejected is spec.md §4.2: a bare Hole with no do-in
// splice point to fill it must be rejected rather than silently dropped.
func TestHoleOutsideDoInRejected(t *testing.T) {
	def := &ast.Definition{
		Name: name.Global{Ident: "bad"},
		Body: ast.Construction{Process: ast.Hole{}},
	}
	if _, err := Definition(def); err == nil {
		t.Fatal("expected a MustEndProcessError for a top-level Hole")
	}
}

// TestPairDestructureDesugarsAndChecks is spec.md §8 scenario 2: a pair
// (1, "hi")! bound by let, destructured by a tuple pattern into a
// receive/receive/continue chain, with everything checking cleanly.
func TestPairDestructureDesugarsAndChecks(t *testing.T) {
	intT := types.Primitive{Kind: types.Int}
	strT := types.Primitive{Kind: types.StringKind}
	pairT := types.Pair{First: intT, Second: types.Pair{First: strT, Second: types.Break{}}}

	def := &ast.Definition{
		Name: name.Global{Ident: "destructure"},
		Body: ast.ForkExpr{
			Channel:    name.Local{Ident: "r"},
			Annotation: types.Continue{},
			Body: ast.LetSimple{
				Name:       name.Local{Ident: "p"},
				Annotation: pairT,
				Value: ast.ForkExpr{
					Channel: name.Local{Ident: "q"},
					Body: ast.CommandProcess{
						Object: name.Local{Ident: "q"},
						Command: ast.SSend{
							Value: ast.Lit{Value: calculus.IntLiteral{Value: 1}},
							Then: ast.CommandProcess{
								Object: name.Local{Ident: "q"},
								Command: ast.SSend{
									Value: ast.Lit{Value: calculus.StringLiteral{Value: "hi"}},
									Then: ast.CommandProcess{
										Object:  name.Local{Ident: "q"},
										Command: ast.SBreak{},
									},
								},
							},
						},
					},
				},
				Then: ast.LetPattern{
					Pattern: ast.TuplePattern{Elements: []ast.Pattern{
						ast.NamePattern{Name: name.Local{Ident: "a"}},
						ast.NamePattern{Name: name.Local{Ident: "b"}},
					}},
					Value: ast.Var{Name: name.Local{Ident: "p"}},
					Then: ast.CommandProcess{
						Object:  name.Local{Ident: "r"},
						Command: ast.SBreak{},
					},
				},
			},
		},
	}

	body, err := Definition(def)
	if err != nil {
		t.Fatalf("desugaring: %v", err)
	}

	// The tuple pattern must compile into a Let of a match intermediate
	// followed by a receive chain closed by a continue.
	fork := body.(calculus.Fork)
	letP, ok := fork.Process.(calculus.Let)
	if !ok {
		t.Fatalf("expected the outer let, got %T", fork.Process)
	}
	letMatch, ok := letP.Then.(calculus.Let)
	if !ok {
		t.Fatalf("expected the pattern to bind a match intermediate, got %T", letP.Then)
	}
	if letMatch.Name.Kind != name.Match {
		t.Fatalf("expected a match-kind intermediate, got %v", letMatch.Name)
	}
	recvA, ok := letMatch.Then.(calculus.Do)
	if !ok {
		t.Fatalf("expected a receive chain, got %T", letMatch.Then)
	}
	if _, ok := recvA.Command.(calculus.Receive); !ok {
		t.Fatalf("expected the first element to compile to Receive, got %T", recvA.Command)
	}

	defs := types.NewDefs(nil)
	c := check.NewChecker(defs, map[string]types.Type{}, map[string]calculus.Expression{"destructure": body})
	if errs := c.CheckAll(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}
