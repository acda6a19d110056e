package lsp

import (
	"testing"

	"github.com/funvibe/par/internal/ast"
	"github.com/funvibe/par/internal/diagnostics"
	"github.com/funvibe/par/internal/name"
	"github.com/funvibe/par/internal/types"
)

// TestDiagnosticsConvertsSpanAndSeverity confirms an error with a span
// becomes a Diagnostic at that span's Range, and that an Error-severity
// diagnostic maps to SeverityError (spec.md §6 "To the language-server").
func TestDiagnosticsConvertsSpanAndSeverity(t *testing.T) {
	span := name.Span{Start: name.Position{Row: 1, Column: 2}, End: name.Position{Row: 1, Column: 5}}
	err := &diagnostics.NameNotDefinedError{At: span, Name: "foo"}

	out := Diagnostics([]error{err})
	if len(out) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(out))
	}
	d := out[0]
	if d.Range.Start.Line != 1 || d.Range.Start.Character != 2 {
		t.Fatalf("unexpected range start: %+v", d.Range.Start)
	}
	if d.Severity != SeverityError {
		t.Fatalf("expected SeverityError, got %v", d.Severity)
	}
}

// TestBuildIndexHoverAndSymbols confirms a type def and a declared
// definition both surface in the outline and answer hover queries, pulling
// the checker's resolved type over the declaration's surface annotation
// when one is available.
func TestBuildIndexHoverAndSymbols(t *testing.T) {
	natT := types.Primitive{Kind: types.Nat}

	typeDefAt := name.Span{Start: name.Position{Row: 0, Column: 0}, End: name.Position{Row: 0, Column: 10}}
	declAt := name.Span{Start: name.Position{Row: 1, Column: 0}, End: name.Position{Row: 1, Column: 10}}
	defAt := name.Span{Start: name.Position{Row: 2, Column: 0}, End: name.Position{Row: 2, Column: 10}}

	prog := &ast.Program{
		TypeDefs: []*ast.TypeDef{
			{At: typeDefAt, Name: name.Global{Ident: "Counter"}, Body: natT},
		},
		Declarations: []*ast.Declaration{
			{At: declAt, Name: name.Global{Ident: "id"}, Type: natT},
		},
		Definitions: []*ast.Definition{
			{At: defAt, Name: name.Global{Ident: "id"}},
		},
	}

	idx := BuildIndex(prog, nil, types.NewDefs(nil))

	hover, ok := idx.Hover("Counter")
	if !ok || hover.Type != natT.String() {
		t.Fatalf("expected Counter hover %q, got %+v (ok=%v)", natT.String(), hover, ok)
	}

	idHover, ok := idx.Hover("id")
	if !ok || idHover.Type != natT.String() {
		t.Fatalf("expected id hover %q, got %+v (ok=%v)", natT.String(), idHover, ok)
	}

	symbols := idx.Symbols()
	if len(symbols) != 2 {
		t.Fatalf("expected 2 symbols (type def + definition), got %d", len(symbols))
	}
	if symbols[0].Name != "Counter" || symbols[0].Kind != SymbolKindClass {
		t.Fatalf("expected Counter first as a Class symbol, got %+v", symbols[0])
	}
	if symbols[1].Name != "id" || symbols[1].Kind != SymbolKindFunction {
		t.Fatalf("expected id as a Function symbol, got %+v", symbols[1])
	}
}

// TestHoverAtFindsEnclosingForm: a position inside a top-level form's range
// answers with that form's hover; a position outside every range answers
// nothing.
func TestHoverAtFindsEnclosingForm(t *testing.T) {
	natT := types.Primitive{Kind: types.Nat}
	at := name.Span{Start: name.Position{Row: 4, Column: 0}, End: name.Position{Row: 4, Column: 12}}
	prog := &ast.Program{
		TypeDefs: []*ast.TypeDef{
			{At: at, Name: name.Global{Ident: "Counter"}, Body: natT},
		},
	}
	idx := BuildIndex(prog, nil, types.NewDefs(nil))

	h, ok := idx.HoverAt(Position{Line: 4, Character: 3})
	if !ok || h.Name != "Counter" {
		t.Fatalf("expected Counter at 4:3, got %+v (ok=%v)", h, ok)
	}
	if _, ok := idx.HoverAt(Position{Line: 5, Character: 0}); ok {
		t.Fatal("expected no hover outside every range")
	}
}
