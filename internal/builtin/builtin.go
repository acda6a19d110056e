package builtin

import (
	"fmt"
	"sort"

	"github.com/funvibe/par/internal/runtime"
	"github.com/funvibe/par/internal/types"
)

// Library is the installed built-in package: the type definitions the
// checker resolves names against, the declared types for every external
// op, and the host functions the runtime dispatches them to.
type Library struct {
	TypeDefs  []*types.Def
	Declared  map[string]types.Type
	Externals map[string]runtime.External
}

// Install builds the library and cross-validates it against prelude.yaml:
// every manifest entry must have a registered Go implementation and vice
// versa, so the two never silently drift apart (manifest.go's doc comment).
func Install() (*Library, error) {
	m, err := loadManifest()
	if err != nil {
		return nil, err
	}

	groups := []map[string]declared{
		boolOps(),
		natOps(),
		intOps(),
		charOps(),
		stringOps(),
		listOps(),
		mapOps(),
		debugOps(),
	}

	declaredNames := map[string]bool{}
	lib := &Library{
		TypeDefs:  typeDefs(),
		Declared:  map[string]types.Type{},
		Externals: map[string]runtime.External{},
	}
	for _, g := range groups {
		for name, d := range g {
			declaredNames[name] = true
			lib.Declared[name] = d.Type
			lib.Externals[name] = d.Impl
		}
	}

	manifestNames := map[string]bool{}
	for _, name := range m.names() {
		manifestNames[name] = true
		if !declaredNames[name] {
			return nil, fmt.Errorf("builtin: prelude.yaml lists %s with no registered implementation", name)
		}
	}
	var missing []string
	for name := range declaredNames {
		if !manifestNames[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("builtin: %s registered with no prelude.yaml entry", missing[0])
	}

	return lib, nil
}

// Doc returns the manifest's human-facing signature for "Module.Op" or a
// bare module name, for internal/lsp's hover boundary.
func (lib *Library) Doc(qualified string) string {
	m, err := loadManifest()
	if err != nil {
		return ""
	}
	return m.docFor(qualified)
}
