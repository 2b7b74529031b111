package ports

import (
	"context"

	"go.trai.ch/postcompile/internal/core/domain"
)

//go:generate mockgen -source=scope.go -destination=mocks/mock_scope.go -package=mocks

// ScopeFactory builds isolated loading scopes.
type ScopeFactory interface {
	// Open returns a scope that resolves units from exactly the given classpath,
	// followed by the platform scope.
	Open(ctx context.Context, classpath domain.Classpath) (Scope, error)
}

// Scope resolves execution units by name. It is owned by a single invocation.
type Scope interface {
	// Load returns the unit class registered under name.
	// It returns domain.ErrExecutionClassNotFound when no entry exports the name.
	Load(name string) (domain.UnitClass, error)

	// Units lists every unit class visible through the scope, in lookup order.
	Units() ([]domain.UnitClass, error)

	// Close releases resources held by the scope. Calling it more than once is a no-op.
	Close() error
}
