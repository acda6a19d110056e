package check

import (
	"sort"

	"github.com/funvibe/par/internal/calculus"
	"github.com/funvibe/par/internal/diagnostics"
	"github.com/funvibe/par/internal/name"
	"github.com/funvibe/par/internal/types"
)

// loopPoint is the state recorded by a Begin command for later Loop jumps
// (spec.md §3 "Begin/Loop").
type loopPoint struct {
	Label      string
	ObjectName name.Internal
	ObjectType types.Type // nil while the subject's own type is being inferred
	Captures   map[name.Internal]types.Type
	BeginAt    name.Span
}

// Checker is the shared, read-only table of installed global information
// plus the memo caches accumulated across CheckAll (spec.md §4.3
// "check_definition" memoizing already-checked bodies).
type Checker struct {
	Defs         *types.Defs
	Declared     map[string]types.Type        // bare ident -> declared type
	Definitions  map[string]calculus.Expression // bare ident -> body
	inferred     map[string]types.Type
	inProgress   map[string]bool
	// currentDeps is the ordered chain of definitions currently being
	// checked (spec.md §4.3 "current_deps"), so a cycle diagnostic can name
	// the whole chain rather than just its closing ident.
	currentDeps []string
	loopStack   []loopPoint
	// Captures records, per Begin span, the capture set computed during
	// checking -- the variables that survive to the next iteration, for
	// hosts and diagnostics to report.
	Captures map[name.Span][]name.Internal
	// Externals names Declared entries backed by a host process
	// (internal/builtin, spec.md §6) rather than a calculus.Expression:
	// CheckAll must not demand a body for these, and checkDefinition is
	// never invoked on them since their type is already trusted.
	Externals map[string]bool
	// TypeSnapshots holds, per Telltypes span, the "name: type" lines of the
	// linear context at that point -- the probe's output, with no effect on
	// checking itself.
	TypeSnapshots map[name.Span][]string
	// Logf, when set, receives one line per failed definition; nil (the
	// default) keeps checking silent. log.Printf satisfies it.
	Logf func(format string, args ...any)
}

func NewChecker(defs *types.Defs, declared map[string]types.Type, definitions map[string]calculus.Expression) *Checker {
	return &Checker{
		Defs:          defs,
		Declared:      declared,
		Definitions:   definitions,
		inferred:      map[string]types.Type{},
		inProgress:    map[string]bool{},
		Captures:      map[name.Span][]name.Internal{},
		Externals:     map[string]bool{},
		TypeSnapshots: map[name.Span][]string{},
	}
}

// CheckAll checks every definition, returning every error encountered rather
// than stopping at the first (spec.md §7 diagnostics are collected, not
// fail-fast).
func (c *Checker) CheckAll() []error {
	var errs []error
	for decl := range c.Declared {
		if c.Externals[decl] {
			continue
		}
		if _, ok := c.Definitions[decl]; !ok {
			errs = append(errs, &diagnostics.DeclaredButNotDefinedError{Name: decl})
		}
	}
	keys := make([]string, 0, len(c.Definitions))
	for k := range c.Definitions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := c.checkDefinition(k); err != nil {
			if c.Logf != nil {
				c.Logf("checking %s: %v", k, err)
			}
			errs = append(errs, err)
		}
	}
	return errs
}

func (c *Checker) checkDefinition(ident string) (types.Type, error) {
	if t, ok := c.inferred[ident]; ok {
		return t, nil
	}
	body := c.Definitions[ident]
	c.inProgress[ident] = true
	c.currentDeps = append(c.currentDeps, ident)
	defer func() {
		delete(c.inProgress, ident)
		c.currentDeps = c.currentDeps[:len(c.currentDeps)-1]
	}()

	ctx := NewContext()
	if want, ok := c.Declared[ident]; ok {
		if err := c.checkExpression(ctx, body, want); err != nil {
			return nil, err
		}
		c.inferred[ident] = want
		return want, nil
	}
	t, err := c.inferExpression(ctx, body)
	if err != nil {
		return nil, err
	}
	c.inferred[ident] = t
	return t, nil
}

// DefinitionType returns the declared or synthesized type of a checked
// top-level definition, for downstream consumers (internal/lsp hover) that
// need inferred types after CheckAll has run.
func (c *Checker) DefinitionType(ident string) (types.Type, bool) {
	if t, ok := c.Declared[ident]; ok {
		return t, true
	}
	t, ok := c.inferred[ident]
	return t, ok
}

// globalType resolves a reference that isn't in the local linear context: a
// forward or mutually-recursive reference to another top-level definition.
// It returns checkDefinition's own result directly -- a Reference to a
// global is resolved exactly like a local variable of that type (spec.md
// §4.3 infer_expression's Reference case reads straight through self.get,
// with no extra dual applied either for a Declared ident or a checked
// Definitions body).
func (c *Checker) globalType(at name.Span, ident string) (types.Type, error) {
	if t, ok := c.Declared[ident]; ok {
		return t, nil
	}
	if _, ok := c.Definitions[ident]; !ok {
		return nil, &diagnostics.NameNotDefinedError{At: at, Name: ident}
	}
	if c.inProgress[ident] {
		// Report the whole chain from the ident's in-flight frame back to
		// this reference, the same shape types.Validate gives for type-level
		// cycles.
		cycle := []string{ident}
		for i, dep := range c.currentDeps {
			if dep == ident {
				cycle = append([]string{}, c.currentDeps[i:]...)
				cycle = append(cycle, ident)
				break
			}
		}
		return nil, &diagnostics.DependencyCycleError{At: at, Cycle: cycle}
	}
	return c.checkDefinition(ident)
}
