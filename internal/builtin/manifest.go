package builtin

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed prelude.yaml
var preludeYAML []byte

// manifestOp is one operation's human-facing signature, for the
// language-server hover boundary (spec.md §6) and for the load-time
// cross-check Install performs against the Go-registered Externals.
type manifestOp struct {
	Name string `yaml:"name"`
	Doc  string `yaml:"doc"`
}

// manifestModule is one host module's manifest entry.
type manifestModule struct {
	Name string       `yaml:"name"`
	Doc  string       `yaml:"doc"`
	Ops  []manifestOp `yaml:"ops"`
}

type manifest struct {
	Modules []manifestModule `yaml:"modules"`
}

func loadManifest() (*manifest, error) {
	var m manifest
	if err := yaml.Unmarshal(preludeYAML, &m); err != nil {
		return nil, fmt.Errorf("builtin: parsing prelude.yaml: %w", err)
	}
	return &m, nil
}

// docFor returns the manifest doc string for "Module.Op", or "" if absent.
func (m *manifest) docFor(qualified string) string {
	for _, mod := range m.Modules {
		for _, op := range mod.Ops {
			if mod.Name+"."+op.Name == qualified {
				return op.Doc
			}
		}
	}
	for _, mod := range m.Modules {
		if mod.Name == qualified {
			return mod.Doc
		}
	}
	return ""
}

// names returns every "Module.Op" the manifest lists.
func (m *manifest) names() []string {
	var out []string
	for _, mod := range m.Modules {
		for _, op := range mod.Ops {
			out = append(out, mod.Name+"."+op.Name)
		}
	}
	return out
}
