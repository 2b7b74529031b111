package domain

import "go.trai.ch/postcompile/unit"

// PlatformSource is the Source of units resolved from the platform scope.
const PlatformSource = "platform"

// UnitClass describes an execution unit type visible through a loading scope.
type UnitClass struct {
	Name string
	// Source is the classpath entry URL that exported the unit, or PlatformSource.
	Source string
	// Runnable reports whether the type satisfies unit.Runnable.
	Runnable bool
	// New constructs a fresh instance. It is nil when the type is not runnable
	// or has no accessible zero-argument constructor.
	New func() (unit.Runnable, error)
	// Constructible reports whether the type declares a zero-argument constructor.
	Constructible bool
}
