package ports

import "time"

// Renderer is the abstraction for progress output.
// It decouples telemetry collection from presentation.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// OnStepStart is called when a span begins.
	// spanID: unique identifier for this span
	// parentID: spanID of the parent span (empty if root)
	// name: human-readable step name
	OnStepStart(spanID, parentID, name string, startTime time.Time)

	// OnStepComplete is called when a span ends.
	// err is nil if the step succeeded.
	OnStepComplete(spanID string, endTime time.Time, err error)
}
