// Package lsp implements spec.md §6's "To the language-server" boundary:
// translating a checked program into the three shapes a language server
// needs (Diagnostic, HoverInfo, DocumentSymbol), without speaking the LSP
// wire protocol itself -- that transport is a host-tool concern outside
// this module's scope (spec.md §1).
//
// Grounded on _examples/original_source/src/language_server/{data,feedback}.rs
// (Span/Point -> lsp::Range/Position conversion, one Diagnostic per
// CompileError) and funvibe-funxy/cmd/lsp/protocol.go's plain,
// stdlib-encoding/json request/response structs -- the teacher speaks raw
// JSON-RPC over stdlib types rather than an LSP client library, so this
// package's Range/Position mirror that same plain-struct shape instead of
// reaching for a third-party LSP SDK.
package lsp

import (
	"sort"

	"github.com/funvibe/par/internal/ast"
	"github.com/funvibe/par/internal/check"
	"github.com/funvibe/par/internal/diagnostics"
	"github.com/funvibe/par/internal/name"
	"github.com/funvibe/par/internal/types"
)

// Position is zero-based line/character, the convention every LSP client
// expects (funvibe-funxy/cmd/lsp/protocol.go's Position).
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open span of positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

func toPosition(p name.Position) Position { return Position{Line: p.Row, Character: p.Column} }

func toRange(s name.Span) Range { return Range{Start: toPosition(s.Start), End: toPosition(s.End)} }

// Severity mirrors the LSP wire values (1 Error .. 4 Hint); this module
// only ever produces Error and Warning.
type Severity int

const (
	SeverityError   Severity = 1
	SeverityWarning Severity = 2
)

// Diagnostic is one reported problem, ready for a host to attach to a
// document (spec.md §6; original_source's feedback.rs diagnostic_for_error).
type Diagnostic struct {
	Range    Range    `json:"range"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Diagnostics translates every error CheckAll (or desugaring) produced into
// the language-server-facing shape, one per error, in the order given.
func Diagnostics(errs []error) []Diagnostic {
	out := make([]Diagnostic, 0, len(errs))
	for _, err := range errs {
		d := diagnostics.FromError(err)
		sev := SeverityError
		if d.Severity == diagnostics.Warning {
			sev = SeverityWarning
		}
		out = append(out, Diagnostic{Range: toRange(d.Span), Severity: sev, Message: d.Message})
	}
	return out
}

// HoverInfo is the content shown for a top-level name: the declared or
// inferred type, pretty-printed the way spec.md §6 specifies.
type HoverInfo struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Range Range  `json:"range"`
}

// SymbolKind mirrors the handful of LSP SymbolKind values this module's
// top-level forms map onto (Class for a type definition, Function for a
// process/expression definition).
type SymbolKind int

const (
	SymbolKindClass    SymbolKind = 5
	SymbolKindFunction SymbolKind = 12
)

// DocumentSymbol is one top-level form's outline entry (spec.md §6
// "To the language-server").
type DocumentSymbol struct {
	Name           string     `json:"name"`
	Kind           SymbolKind `json:"kind"`
	Range          Range      `json:"range"`
	SelectionRange Range      `json:"selectionRange"`
}

// Index is built once per checked program and answers hover/outline
// queries without re-walking the AST each time.
type Index struct {
	hovers  map[string]HoverInfo
	ordered []HoverInfo // program order, for position lookups
	symbols []DocumentSymbol
}

func (idx *Index) addHover(key string, h HoverInfo) {
	if _, have := idx.hovers[key]; have {
		return
	}
	idx.hovers[key] = h
	idx.ordered = append(idx.ordered, h)
}

// BuildIndex walks prog's top-level forms, pulling resolved types from
// checker (already run via CheckAll) for declarations/definitions and each
// type definition's own AST body for type definitions; defs is not read.
func BuildIndex(prog *ast.Program, checker *check.Checker, defs *types.Defs) *Index {
	idx := &Index{hovers: map[string]HoverInfo{}}

	for _, td := range prog.TypeDefs {
		qualified := td.Name.String()
		idx.addHover(qualified, HoverInfo{
			Name:  qualified,
			Type:  td.Body.String(),
			Range: toRange(td.At),
		})
		idx.symbols = append(idx.symbols, DocumentSymbol{
			Name:           qualified,
			Kind:           SymbolKindClass,
			Range:          toRange(td.At),
			SelectionRange: toRange(td.Name.Span),
		})
	}

	for _, decl := range prog.Declarations {
		qualified := decl.Name.String()
		t := decl.Type
		if checker != nil {
			if resolved, ok := checker.Declared[qualified]; ok {
				t = resolved
			}
		}
		idx.addHover(qualified, HoverInfo{Name: qualified, Type: t.String(), Range: toRange(decl.At)})
	}

	for _, def := range prog.Definitions {
		qualified := def.Name.String()
		idx.symbols = append(idx.symbols, DocumentSymbol{
			Name:           qualified,
			Kind:           SymbolKindFunction,
			Range:          toRange(def.At),
			SelectionRange: toRange(def.Name.Span),
		})
		if checker != nil {
			if t, ok := checker.DefinitionType(qualified); ok {
				idx.addHover(qualified, HoverInfo{Name: qualified, Type: t.String(), Range: toRange(def.At)})
			}
		}
	}

	sort.Slice(idx.symbols, func(i, j int) bool { return idx.symbols[i].Name < idx.symbols[j].Name })
	return idx
}

// Hover returns the hover content for a qualified top-level name, if any.
func (idx *Index) Hover(qualified string) (HoverInfo, bool) {
	h, ok := idx.hovers[qualified]
	return h, ok
}

// HoverAt returns the hover for the first top-level form, in program order,
// whose range contains the given position (spec.md §6: hover is looked up
// by (row, column)).
func (idx *Index) HoverAt(pos Position) (HoverInfo, bool) {
	for _, h := range idx.ordered {
		if containsPosition(h.Range, pos) {
			return h, true
		}
	}
	return HoverInfo{}, false
}

func containsPosition(r Range, pos Position) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}
	if pos.Line == r.End.Line && pos.Character >= r.End.Character {
		return false
	}
	return true
}

// Symbols returns every top-level symbol, sorted by name for deterministic
// output.
func (idx *Index) Symbols() []DocumentSymbol { return idx.symbols }
