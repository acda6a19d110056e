// Package diagnostics implements spec.md §7's error taxonomy: one Go type
// per row, each carrying a primary span and (when relevant) a related span,
// plus the Diagnostic value used at the §6 language-server boundary.
//
// Modeled on funvibe-funxy/internal/typesystem/error.go (one struct per
// error kind) and analyzer.walker's dedup-by-position Diagnostic pattern.
package diagnostics

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/funvibe/par/internal/name"
)

// Severity mirrors the LSP-adjacent severities a downstream tool expects.
type Severity int

const (
	Error Severity = iota
	Warning
	Info
)

// Diagnostic is the language-server-facing shape from spec.md §6.
type Diagnostic struct {
	Span     name.Span
	Severity Severity
	Message  string
}

// FromError renders any error produced by this module as a Diagnostic. Only
// errors implementing Spanner carry a precise span; others fall back to a
// zero span.
func FromError(err error) Diagnostic {
	msg := err.Error()
	span := name.Span{}
	if s, ok := err.(Spanner); ok {
		span = s.Span()
	}
	return Diagnostic{Span: span, Severity: Error, Message: msg}
}

// Spanner is implemented by every error type in this package.
type Spanner interface {
	error
	Span() name.Span
}

// --- Syntax errors (spec.md §7.1) -----------------------------------------

// SyntaxError wraps a single offending span reported by the upstream
// parser collaborator, classifying a Program's precondition failures
// uniformly; the core itself also returns one for an unrecognized node form
// met while desugaring, checking or running.
type SyntaxError struct {
	At      name.Span
	Message string
}

func (e *SyntaxError) Error() string  { return "syntax error: " + e.Message }
func (e *SyntaxError) Span() name.Span { return e.At }

// --- Compile (desugaring) errors (spec.md §7.2) ----------------------------

// MustEndProcessError fires when a process body does not end in a terminal
// command (spec.md §4.2).
type MustEndProcessError struct {
	At name.Span
}

func (e *MustEndProcessError) Error() string {
	return "process body must end in a terminal command (Link, Break, Continue, or a saturated Case)"
}
func (e *MustEndProcessError) Span() name.Span { return e.At }

// --- Type errors (spec.md §7.3) --------------------------------------------

type NameAlreadyDeclaredError struct {
	At, PrevAt name.Span
	Name       string
}

func (e *NameAlreadyDeclaredError) Error() string {
	return fmt.Sprintf("%q is already declared", e.Name)
}
func (e *NameAlreadyDeclaredError) Span() name.Span { return e.At }

type NameAlreadyDefinedError struct {
	At, PrevAt name.Span
	Name       string
}

func (e *NameAlreadyDefinedError) Error() string {
	return fmt.Sprintf("%q is already defined", e.Name)
}
func (e *NameAlreadyDefinedError) Span() name.Span { return e.At }

type DeclaredButNotDefinedError struct {
	At   name.Span
	Name string
}

func (e *DeclaredButNotDefinedError) Error() string {
	return fmt.Sprintf("%q is declared but never defined", e.Name)
}
func (e *DeclaredButNotDefinedError) Span() name.Span { return e.At }

type TypeNameNotDefinedError struct {
	At   name.Span
	Name string
}

func (e *TypeNameNotDefinedError) Error() string {
	return fmt.Sprintf("type %q is not defined", e.Name)
}
func (e *TypeNameNotDefinedError) Span() name.Span { return e.At }

type DependencyCycleError struct {
	At    name.Span
	Cycle []string
}

func (e *DependencyCycleError) Error() string {
	return fmt.Sprintf("dependency cycle: %v", e.Cycle)
}
func (e *DependencyCycleError) Span() name.Span { return e.At }

type WrongNumberOfTypeArgsError struct {
	At       name.Span
	Name     string
	Expected int
	Got      int
}

func (e *WrongNumberOfTypeArgsError) Error() string {
	return fmt.Sprintf("%q expects %s, got %s",
		e.Name, humanize.Comma(int64(e.Expected))+" type argument(s)", humanize.Comma(int64(e.Got))+" argument(s)")
}
func (e *WrongNumberOfTypeArgsError) Span() name.Span { return e.At }

type SelfInNegativePositionError struct {
	At    name.Span
	Label string
}

func (e *SelfInNegativePositionError) Error() string {
	return fmt.Sprintf("self:%s occurs in a negative position of its binder", e.Label)
}
func (e *SelfInNegativePositionError) Span() name.Span { return e.At }

type NoMatchingFixpointError struct {
	At    name.Span
	Label string
}

func (e *NoMatchingFixpointError) Error() string {
	return fmt.Sprintf("no enclosing recursive/iterative binds self:%s", e.Label)
}
func (e *NoMatchingFixpointError) Span() name.Span { return e.At }

type NameNotDefinedError struct {
	At   name.Span
	Name string
}

func (e *NameNotDefinedError) Error() string { return fmt.Sprintf("%q is not defined", e.Name) }
func (e *NameNotDefinedError) Span() name.Span { return e.At }

type ShadowedObligationError struct {
	At, PrevAt name.Span
	Name       string
}

func (e *ShadowedObligationError) Error() string {
	return fmt.Sprintf("%q already carries an unfulfilled linear obligation", e.Name)
}
func (e *ShadowedObligationError) Span() name.Span { return e.At }

type TypeMustBeKnownError struct {
	At name.Span
}

func (e *TypeMustBeKnownError) Error() string { return "type must be known at this point" }
func (e *TypeMustBeKnownError) Span() name.Span { return e.At }

type ParamTypeMustBeKnownError struct {
	At   name.Span
	Name string
}

func (e *ParamTypeMustBeKnownError) Error() string {
	return fmt.Sprintf("type of parameter %q must be known (add an annotation)", e.Name)
}
func (e *ParamTypeMustBeKnownError) Span() name.Span { return e.At }

type CannotAssignError struct {
	At       name.Span
	From, To string
}

func (e *CannotAssignError) Error() string {
	return fmt.Sprintf("cannot assign from %s to %s", e.From, e.To)
}
func (e *CannotAssignError) Span() name.Span { return e.At }

type UnfulfilledObligationsError struct {
	At    name.Span
	Names []string
}

func (e *UnfulfilledObligationsError) Error() string {
	return fmt.Sprintf("%s unfulfilled: %v",
		humanize.Comma(int64(len(e.Names)))+" obligation(s)", e.Names)
}
func (e *UnfulfilledObligationsError) Span() name.Span { return e.At }

type InvalidOperationError struct {
	At   name.Span
	Type string
	Op   string
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("invalid operation %q for type %s", e.Op, e.Type)
}
func (e *InvalidOperationError) Span() name.Span { return e.At }

type InvalidBranchError struct {
	At    name.Span
	Label string
	Type  string
}

func (e *InvalidBranchError) Error() string {
	return fmt.Sprintf("branch .%s is not valid for type %s", e.Label, e.Type)
}
func (e *InvalidBranchError) Span() name.Span { return e.At }

type MissingBranchError struct {
	At    name.Span
	Label string
	Type  string
}

func (e *MissingBranchError) Error() string {
	return fmt.Sprintf("missing branch .%s of %s", e.Label, e.Type)
}
func (e *MissingBranchError) Span() name.Span { return e.At }

type RedundantBranchError struct {
	At    name.Span
	Label string
	Type  string
}

func (e *RedundantBranchError) Error() string {
	return fmt.Sprintf("redundant branch .%s not present in %s", e.Label, e.Type)
}
func (e *RedundantBranchError) Span() name.Span { return e.At }

type TypesCannotBeUnifiedError struct {
	At         name.Span
	Left, Right string
}

func (e *TypesCannotBeUnifiedError) Error() string {
	return fmt.Sprintf("types cannot be unified: %s vs %s", e.Left, e.Right)
}
func (e *TypesCannotBeUnifiedError) Span() name.Span { return e.At }

type NoSuchLoopPointError struct {
	At    name.Span
	Label string
}

func (e *NoSuchLoopPointError) Error() string { return fmt.Sprintf("no such loop point :%s", e.Label) }
func (e *NoSuchLoopPointError) Span() name.Span { return e.At }

// DoesNotDescendSubjectOfBeginError is the totality failure of spec.md §4.1
// / §8 scenario 5.
type DoesNotDescendSubjectOfBeginError struct {
	At, BeginAt name.Span
	Label       string
}

func (e *DoesNotDescendSubjectOfBeginError) Error() string {
	return fmt.Sprintf("loop :%s does not descend from its begin (totality check failed)", e.Label)
}
func (e *DoesNotDescendSubjectOfBeginError) Span() name.Span { return e.At }

type LoopVariableNotPreservedError struct {
	At    name.Span
	Label string
	Name  string
}

func (e *LoopVariableNotPreservedError) Error() string {
	return fmt.Sprintf("loop :%s does not preserve captured variable %q", e.Label, e.Name)
}
func (e *LoopVariableNotPreservedError) Span() name.Span { return e.At }

type LoopVariableChangedTypeError struct {
	At         name.Span
	Label      string
	Name       string
	Was, IsNow string
}

func (e *LoopVariableChangedTypeError) Error() string {
	return fmt.Sprintf("loop :%s changes the type of %q from %s to %s", e.Label, e.Name, e.Was, e.IsNow)
}
func (e *LoopVariableChangedTypeError) Span() name.Span { return e.At }

// --- Runtime errors (spec.md §7.4) -----------------------------------------

type RuntimeNameNotDefinedError struct {
	Name string
}

func (e *RuntimeNameNotDefinedError) Error() string {
	return fmt.Sprintf("runtime: %q is not defined", e.Name)
}
func (e *RuntimeNameNotDefinedError) Span() name.Span { return name.Span{} }

type RuntimeShadowedObligationError struct {
	Name string
}

func (e *RuntimeShadowedObligationError) Error() string {
	return fmt.Sprintf("runtime: %q already carries an unfulfilled obligation", e.Name)
}
func (e *RuntimeShadowedObligationError) Span() name.Span { return name.Span{} }

type RuntimeUnfulfilledObligationsError struct {
	Names []string
}

func (e *RuntimeUnfulfilledObligationsError) Error() string {
	return fmt.Sprintf("runtime: task exited with %s: %v",
		humanize.Comma(int64(len(e.Names)))+" unfulfilled obligation(s)", e.Names)
}
func (e *RuntimeUnfulfilledObligationsError) Span() name.Span { return name.Span{} }

// IncompatibleOperationError fires when a message does not match its peer's
// outstanding request (spec.md §4.4 Request/Message table).
type IncompatibleOperationError struct {
	Requested string
	Got       string
}

func (e *IncompatibleOperationError) Error() string {
	return fmt.Sprintf("runtime: peer requested %s but received %s", e.Requested, e.Got)
}
func (e *IncompatibleOperationError) Span() name.Span { return name.Span{} }

// ChannelBrokenError is raised when a peer drops its endpoints without
// sending (spec.md §5 "Cancellation & timeouts").
type ChannelBrokenError struct{}

func (e *ChannelBrokenError) Error() string   { return "runtime: channel broken (peer dropped its endpoint)" }
func (e *ChannelBrokenError) Span() name.Span { return name.Span{} }

// MultipleError composes the errors observed while draining a failing
// cluster of tasks (spec.md §7.4 "Multiple").
type MultipleError struct {
	Errors []error
}

func (e *MultipleError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("runtime: %d errors: %v", len(e.Errors), msgs)
}
func (e *MultipleError) Span() name.Span { return name.Span{} }
