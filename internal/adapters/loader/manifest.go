package loader

import (
	"go.trai.ch/postcompile/internal/core/domain"
	"go.trai.ch/postcompile/unit"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// manifest is the unit manifest found at the root of a classpath entry.
//
//	units:
//	  - com.example.Generate          # a unit linked into the binary
//	  - name: com.example.Lint        # a unit run as an external command
//	    exec: [bin/lint, --strict]
type manifest struct {
	Units []manifestUnit `yaml:"units"`
}

type manifestUnit struct {
	Name string   `yaml:"name"`
	Exec []string `yaml:"exec"`
}

// UnmarshalYAML accepts either a bare unit name or a mapping.
func (u *manifestUnit) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&u.Name)
	}

	type plain manifestUnit
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*u = manifestUnit(p)
	return nil
}

// exports indexes the manifest by unit name, preserving declaration order.
type exports struct {
	order  []string
	byName map[string]manifestUnit
}

func (e *exports) lookup(name string) (manifestUnit, bool) {
	if e == nil {
		return manifestUnit{}, false
	}
	u, ok := e.byName[name]
	return u, ok
}

func parseManifest(data []byte, entry string) (*exports, error) {
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestParseFailed.Error()), "entry", entry)
	}

	e := &exports{
		order:  make([]string, 0, len(m.Units)),
		byName: make(map[string]manifestUnit, len(m.Units)),
	}
	for _, u := range m.Units {
		if !unit.ValidName(u.Name) {
			return nil, manifestError(unit.ErrInvalidName, entry, u.Name)
		}
		if _, dup := e.byName[u.Name]; dup {
			return nil, manifestError(unit.ErrDuplicateUnit, entry, u.Name)
		}
		e.order = append(e.order, u.Name)
		e.byName[u.Name] = u
	}
	return e, nil
}

func manifestError(cause error, entry, name string) error {
	err := zerr.Wrap(cause, domain.ErrManifestParseFailed.Error())
	err = zerr.With(err, "entry", entry)
	return zerr.With(err, "unit", name)
}
