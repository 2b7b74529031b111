package loader

import (
	"errors"
	"sync"

	"go.trai.ch/postcompile/internal/core/domain"
	"go.trai.ch/postcompile/internal/core/ports"
	"go.trai.ch/postcompile/unit"
)

var _ ports.Scope = (*Scope)(nil)

// source is a classpath entry as seen by a scope.
type source interface {
	lookup(name string) (domain.UnitClass, bool, error)
	units() ([]domain.UnitClass, error)
	close() error
}

// Scope resolves units from its classpath entries in order, then from the platform registry.
type Scope struct {
	mu       sync.Mutex
	sources  []source
	platform *unit.Registry
	closed   bool
}

// Load implements ports.Scope.
func (s *Scope) Load(name string) (domain.UnitClass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.UnitClass{}, domain.ErrScopeClosed
	}

	for _, src := range s.sources {
		class, ok, err := src.lookup(name)
		if err != nil {
			return domain.UnitClass{}, err
		}
		if ok {
			return class, nil
		}
	}

	if def, ok := s.platform.Lookup(name); ok {
		return fromDefinition(def, domain.PlatformSource), nil
	}

	return domain.UnitClass{}, domain.ErrExecutionClassNotFound
}

// Units implements ports.Scope. A name provided by several entries is listed once,
// from the entry Load would use.
func (s *Scope) Units() ([]domain.UnitClass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, domain.ErrScopeClosed
	}

	seen := make(map[string]struct{})
	var classes []domain.UnitClass
	add := func(class domain.UnitClass) {
		if _, dup := seen[class.Name]; dup {
			return
		}
		seen[class.Name] = struct{}{}
		classes = append(classes, class)
	}

	for _, src := range s.sources {
		found, err := src.units()
		if err != nil {
			return nil, err
		}
		for _, class := range found {
			add(class)
		}
	}

	for _, name := range s.platform.Names() {
		def, _ := s.platform.Lookup(name)
		add(fromDefinition(def, domain.PlatformSource))
	}

	return classes, nil
}

// Close implements ports.Scope.
func (s *Scope) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for _, src := range s.sources {
		if err := src.close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.sources = nil
	return errors.Join(errs...)
}
