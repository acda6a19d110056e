package types

import (
	"testing"

	"github.com/funvibe/par/internal/name"
)

func g(ident string) name.Global { return name.Global{Ident: ident} }

func TestDualInvolution(t *testing.T) {
	list := Recursive{
		Label: "list",
		Body: Either{Branches: map[string]Type{
			"end":  Break{},
			"step": Pair{First: Primitive{Kind: Nat}, Second: Self_{Label: "list"}},
		}},
	}
	cases := []Type{
		Primitive{Kind: Nat},
		Pair{First: Primitive{Kind: Int}, Second: Break{}},
		Function{Param: Primitive{Kind: StringKind}, Result: Continue{}},
		Either{Branches: map[string]Type{"a": Break{}, "b": Continue{}}},
		Choice{Branches: map[string]Type{"a": Break{}, "b": Continue{}}},
		Box{Inner: Primitive{Kind: Char}},
		list,
	}
	for _, c := range cases {
		got := Dual(Dual(c))
		if got.String() != c.String() {
			t.Errorf("dual(dual(%s)) = %s, want %s", c, got, c)
		}
	}
}

func TestDualChoiceRoundTrip(t *testing.T) {
	// spec.md §8 scenario 6.
	choice := Choice{Branches: map[string]Type{"a": Break{}, "b": Continue{}}}
	want := Either{Branches: map[string]Type{"a": Continue{}, "b": Break{}}}
	got := Dual(choice)
	if got.String() != want.String() {
		t.Errorf("dual(Choice{.a->!, .b->?}) = %s, want %s", got, want)
	}
}

func TestAssignableReflexive(t *testing.T) {
	defs := NewDefs(nil)
	list := Recursive{
		Label: "list",
		Body: Either{Branches: map[string]Type{
			"end":  Break{},
			"step": Pair{First: Primitive{Kind: Nat}, Second: Self_{Label: "list"}},
		}},
	}
	cases := []Type{
		Primitive{Kind: Nat},
		Pair{First: Primitive{Kind: Int}, Second: Break{}},
		Function{Param: Var{Name: "a"}, Result: Continue{}},
		list,
	}
	for _, c := range cases {
		ok, err := AssignableTo(defs, c, c)
		if err != nil {
			t.Fatalf("AssignableTo(%s,%s): %v", c, c, err)
		}
		if !ok {
			t.Errorf("AssignableTo(%s, %s) = false, want true", c, c)
		}
	}
}

func TestAssignableStableUnderDuality(t *testing.T) {
	defs := NewDefs(nil)
	s := Pair{First: Primitive{Kind: Nat}, Second: Break{}}
	u := Pair{First: Primitive{Kind: Nat}, Second: Break{}}
	ok1, err := AssignableTo(defs, s, u)
	if err != nil {
		t.Fatal(err)
	}
	ok2, err := AssignableTo(defs, Dual(u), Dual(s))
	if err != nil {
		t.Fatal(err)
	}
	if ok1 != ok2 {
		t.Errorf("assignability not stable under duality: s<=t=%v, dual(t)<=dual(s)=%v", ok1, ok2)
	}
}

func TestValidateRejectsSelfInNegativePosition(t *testing.T) {
	// recursive:bad [self:bad] !   -- self occurs as the Function
	// parameter, a negative position of its own binder.
	bad := &Def{
		Global: g("Bad"),
		Body: Recursive{
			Label: "bad",
			Body:  Function{Param: Self_{Label: "bad"}, Result: Break{}},
		},
	}
	defs := NewDefs([]*Def{bad})
	errs := Validate(defs)
	if len(errs) == 0 {
		t.Fatal("expected a SelfInNegativePosition error")
	}
}

func TestValidateRejectsDependencyCycle(t *testing.T) {
	a := &Def{Global: g("A"), Body: NameRef{Global: g("B")}}
	b := &Def{Global: g("B"), Body: NameRef{Global: g("A")}}
	defs := NewDefs([]*Def{a, b})
	errs := Validate(defs)
	if len(errs) == 0 {
		t.Fatal("expected a DependencyCycle error")
	}
}

func TestPrettyPrintConventions(t *testing.T) {
	cases := []struct {
		typ  Type
		want string
	}{
		{Pair{First: Primitive{Kind: Int}, Second: Break{}}, "(Int)!"},
		{Pair{First: Primitive{Kind: Int}, Second: Pair{First: Primitive{Kind: StringKind}, Second: Break{}}}, "(Int, String)!"},
		{Pair{First: Primitive{Kind: Int}, Second: Continue{}}, "(Int) ?"},
		{Function{Param: Primitive{Kind: Nat}, Result: Continue{}}, "[Nat]?"},
		{Function{Param: Primitive{Kind: Nat}, Result: Pair{First: Primitive{Kind: Nat}, Second: Break{}}}, "[Nat] (Nat)!"},
		{Either{Branches: map[string]Type{"red": Break{}, "blue": Break{}}}, "either { .blue !, .red ! }"},
		{Choice{Branches: map[string]Type{"a": Break{}}}, "{ .a => ! }"},
		{Recursive{Label: "l", Body: Break{}}, "recursive:l !"},
	}
	for _, c := range cases {
		if got := c.typ.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}

// TestExpandRecursiveUnrollsSelf confirms unrolling substitutes the binder
// itself (ascendant set intact) for every self occurrence, and nothing else.
func TestExpandRecursiveUnrollsSelf(t *testing.T) {
	r := Recursive{
		Asc:   map[string]bool{"outer": true},
		Label: "list",
		Body: Either{Branches: map[string]Type{
			"end":  Break{},
			"step": Pair{First: Primitive{Kind: Nat}, Second: Self_{Label: "list"}},
		}},
	}
	unrolled, ok := ExpandRecursive(r).(Either)
	if !ok {
		t.Fatalf("expected unrolling to expose the Either body, got %T", ExpandRecursive(r))
	}
	step, ok := unrolled.Branches["step"].(Pair)
	if !ok {
		t.Fatalf("expected step branch to stay a Pair, got %T", unrolled.Branches["step"])
	}
	inner, ok := step.Second.(Recursive)
	if !ok {
		t.Fatalf("expected self to become the binder, got %T", step.Second)
	}
	if !inner.Asc["outer"] {
		t.Error("unrolling dropped the ascendant set")
	}
	if inner.Asc["list"] {
		t.Error("unrolling must not grow the ascendant set by itself")
	}
}

func TestInvalidateAscendant(t *testing.T) {
	r := Pair{
		First: Recursive{Asc: map[string]bool{"a": true, "b": true}, Label: "x", Body: Break{}},
		Second: Iterative{Asc: map[string]bool{"a": true}, Label: "y", Body: Continue{}},
	}
	out := InvalidateAscendant(r, "a").(Pair)
	if out.First.(Recursive).Asc["a"] || out.Second.(Iterative).Asc["a"] {
		t.Error("label a should have been removed from every ascendant set")
	}
	if !out.First.(Recursive).Asc["b"] {
		t.Error("other labels must survive invalidation")
	}
}

// TestLinearIsComplementOfPositive is the is_linear(t) == ¬is_positive(t)
// invariant: fully positive types are plain data, everything with a
// negative component is a single-use obligation.
func TestLinearIsComplementOfPositive(t *testing.T) {
	defs := NewDefs(nil)
	cases := []Type{
		Primitive{Kind: Nat},
		Pair{First: Primitive{Kind: Int}, Second: Break{}},
		Pair{First: Primitive{Kind: Nat}, Second: Function{Param: Primitive{Kind: Nat}, Result: Continue{}}},
		Function{Param: Primitive{Kind: Nat}, Result: Continue{}},
		Either{Branches: map[string]Type{"t": Break{}, "f": Break{}}},
		Choice{Branches: map[string]Type{"go": Break{}}},
		Continue{},
	}
	for _, c := range cases {
		pos, err := IsPositive(defs, c)
		if err != nil {
			t.Fatal(err)
		}
		lin, err := IsLinear(defs, c)
		if err != nil {
			t.Fatal(err)
		}
		if lin != !pos {
			t.Errorf("IsLinear(%s) = %v, want %v", c, lin, !pos)
		}
	}
	lin, err := IsLinear(defs, Function{Param: Primitive{Kind: Nat}, Result: Continue{}})
	if err != nil || !lin {
		t.Errorf("a Function obligation must be linear (got %v, err %v)", lin, err)
	}
}

// TestBoxAssignableToUnboxed: a duplicable value may be consumed once where
// its bare type is expected, but not the other way around.
func TestBoxAssignableToUnboxed(t *testing.T) {
	defs := NewDefs(nil)
	boxed := Box{Inner: Primitive{Kind: Nat}}
	ok, err := AssignableTo(defs, boxed, Primitive{Kind: Nat})
	if err != nil || !ok {
		t.Errorf("Box(Nat) should be assignable to Nat (got %v, err %v)", ok, err)
	}
	ok, err = AssignableTo(defs, Primitive{Kind: Nat}, boxed)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("bare Nat must not be assignable to Box(Nat)")
	}
}

func TestRecursiveWithNoSelfIsAssignableAsNonRecursive(t *testing.T) {
	// spec.md §8 "Boundary behaviors": a Recursive with no Self_ inside its
	// body is assignable just like any other non-recursive protocol, since
	// asc never blocks assignability by itself.
	defs := NewDefs(nil)
	r := Recursive{Label: "l", Body: Pair{First: Primitive{Kind: Nat}, Second: Break{}}}
	ok, err := AssignableTo(defs, r, r)
	if err != nil || !ok {
		t.Fatalf("expected reflexive assignability, got ok=%v err=%v", ok, err)
	}
}
