// Package runner implements the post-compile runner: it assembles a project's
// classpath, opens an isolated loading scope over it and runs the configured
// execution units one after another.
package runner

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/postcompile/internal/core/domain"
	"go.trai.ch/postcompile/internal/core/ports"
	"go.trai.ch/zerr"
)

// Runner executes invocations. It holds no per-invocation state, so one Runner
// may serve concurrent invocations.
type Runner struct {
	scopes ports.ScopeFactory
	logger ports.Logger
	tracer ports.Tracer
}

// New creates a new Runner.
func New(scopes ports.ScopeFactory, logger ports.Logger, tracer ports.Tracer) *Runner {
	return &Runner{
		scopes: scopes,
		logger: logger,
		tracer: tracer,
	}
}

// Run executes a single invocation. The first failing unit aborts the run; the
// returned error is then a *domain.Failure naming it. The loading scope is
// released exactly once whenever it was opened, and a release failure is only logged.
func (r *Runner) Run(ctx context.Context, inv *domain.Invocation) (report domain.Report, err error) {
	report = domain.Report{Project: inv.Project.Name, State: domain.StateIdle}

	ctx, span := r.tracer.Start(ctx, inv.Project.Name, ports.WithAttribute(ports.AttrProject, inv.Project.Name))
	defer func() {
		if err != nil {
			report.State = domain.StateFailed
			span.RecordError(err)
		}
		span.End()
	}()

	report.State = domain.StateAssemblingClasspath
	report.Classpath, err = r.assemble(ctx, inv)
	if err != nil {
		return report, err
	}

	names := inv.Configuration.UnitNames()
	if len(names) == 0 {
		return report, domain.NewFailure(domain.KindNoExecutionClassesConfigured, "", nil)
	}

	scope, err := r.scopes.Open(ctx, report.Classpath)
	if err != nil {
		return report, &domain.Failure{
			Kind:      domain.KindClasspathInvalid,
			Classpath: report.Classpath,
			Err:       err,
		}
	}
	defer r.release(scope)
	report.State = domain.StateLoaderReady

	for _, name := range names {
		report.State = domain.StateExecutingUnit
		if err := r.execute(ctx, scope, name); err != nil {
			return report, err
		}
		report.Completed = append(report.Completed, name)
	}

	report.State = domain.StateCompleted
	return report, nil
}

func (r *Runner) assemble(ctx context.Context, inv *domain.Invocation) (domain.Classpath, error) {
	_, span := r.tracer.Start(ctx, "classpath")
	defer span.End()

	if r.logger.DebugEnabled() {
		r.logger.Debug(fmt.Sprintf("Additional resources: %v", inv.Configuration.AdditionalResources))
	}

	classpath, err := Assemble(inv.Project, inv.Configuration.AdditionalResources)
	if err != nil {
		span.RecordError(err)
		return classpath, err
	}

	span.SetAttribute(ports.AttrClasspathEntries, len(classpath))
	span.SetAttribute(ports.AttrClasspathFingerprint, classpath.Fingerprint())
	if r.logger.DebugEnabled() {
		r.logger.Debug(fmt.Sprintf("Found class path urls: %v", classpath.Strings()))
	}
	return classpath, nil
}

// execute loads, verifies, constructs and runs one unit. A panic anywhere in
// those steps becomes an ExecutionUnitFailed failure.
func (r *Runner) execute(ctx context.Context, scope ports.Scope, name string) (err error) {
	_, span := r.tracer.Start(ctx, name, ports.WithAttribute(ports.AttrUnit, name))
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()
	defer zerr.Defer(func(panicErr error) {
		err = domain.NewFailure(domain.KindExecutionUnitFailed, name, panicErr)
	})

	class, err := scope.Load(name)
	if errors.Is(err, domain.ErrExecutionClassNotFound) {
		return domain.NewFailure(domain.KindExecutionClassNotFound, name, nil)
	}
	if err != nil {
		return domain.NewFailure(domain.KindExecutionUnitFailed, name, err)
	}
	span.SetAttribute(ports.AttrUnitSource, class.Source)
	r.logger.Debug("Loaded execution class: " + class.Name + " from " + class.Source)

	if !class.Runnable {
		return domain.NewFailure(domain.KindExecutionClassNotRunnable, name, nil)
	}
	if !class.Constructible || class.New == nil {
		return domain.NewFailure(domain.KindExecutionClassNotConstructible, name, nil)
	}

	instance, err := class.New()
	if err != nil {
		return domain.NewFailure(domain.KindExecutionClassInitFailed, name, err)
	}

	if err := instance.Run(); err != nil {
		return domain.NewFailure(domain.KindExecutionUnitFailed, name, err)
	}

	r.logger.Debug("Completed run() method: " + name)
	return nil
}

func (r *Runner) release(scope ports.Scope) {
	if err := scope.Close(); err != nil {
		r.logger.Error(zerr.Wrap(err, "failed to release loading scope"))
	}
}
