// Package unit defines the contract between postcompile and the execution units it runs.
//
// A unit is any type with a zero-argument constructor registered under a name.
// Units whose type implements Runnable can be run; the registry records that
// capability once, when the unit is registered.
package unit

import (
	"reflect"
	"regexp"
	"slices"
	"sync"

	"go.trai.ch/zerr"
)

// Runnable is the capability every executed unit must have.
type Runnable interface {
	Run() error
}

// Func adapts an ordinary function to Runnable.
type Func func() error

// Run calls f.
func (f Func) Run() error {
	return f()
}

var (
	// ErrDuplicateUnit is returned when a name is registered twice in one registry.
	ErrDuplicateUnit = zerr.New("unit already registered")

	// ErrInvalidName is returned when a unit name is not a dotted identifier.
	ErrInvalidName = zerr.New("invalid unit name")

	// ErrNilInstance is returned when a constructor yields a nil unit without an error.
	ErrNilInstance = zerr.New("constructor returned a nil unit")
)

var (
	runnableType = reflect.TypeFor[Runnable]()
	validName    = regexp.MustCompile(`^[A-Za-z0-9_$-]+(\.[A-Za-z0-9_$-]+)*$`)
)

// Definition is a registered unit type.
type Definition struct {
	Name string
	// Runnable reports whether the registered type implements Runnable.
	Runnable bool
	// Constructible reports whether a constructor was supplied.
	Constructible bool
	// New builds a fresh instance. Nil unless both Runnable and Constructible hold.
	New func() (Runnable, error)
}

// Registry maps unit names to their definitions.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Linked holds units compiled into the host binary. They are only visible to a
// run when a classpath entry exports them through its unit manifest.
var Linked = NewRegistry()

// Platform holds built-in units that every loading scope can see.
var Platform = NewRegistry()

// Register adds a unit of type T under name. A nil ctor declares a type without
// an accessible zero-argument constructor.
func Register[T any](r *Registry, name string, ctor func() (T, error)) error {
	if !ValidName(name) {
		return zerr.With(ErrInvalidName, "unit", name)
	}

	def := Definition{
		Name:          name,
		Runnable:      reflect.TypeFor[T]().Implements(runnableType),
		Constructible: ctor != nil,
	}
	if def.Runnable && def.Constructible {
		def.New = func() (Runnable, error) {
			v, err := ctor()
			if err != nil {
				return nil, err
			}
			// The capability was checked at registration, so only a nil value can fail here.
			run, ok := any(v).(Runnable)
			if !ok || isNil(run) {
				return nil, ErrNilInstance
			}
			return run, nil
		}
	}

	return r.add(def)
}

// MustRegister is like Register but panics on error. It is meant for init functions.
func MustRegister[T any](r *Registry, name string, ctor func() (T, error)) {
	if err := Register(r, name, ctor); err != nil {
		panic(err)
	}
}

// ValidName reports whether name is a dotted identifier such as com.example.Gen.
func ValidName(name string) bool {
	return validName.MatchString(name)
}

func (r *Registry) add(def Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[def.Name]; exists {
		return zerr.With(ErrDuplicateUnit, "unit", def.Name)
	}
	r.defs[def.Name] = def
	return nil
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[name]
	return def, ok
}

// Names returns every registered name in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
