// Package app implements the application layer for postcompile.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/postcompile/internal/adapters/detector"
	"go.trai.ch/postcompile/internal/adapters/linear"
	"go.trai.ch/postcompile/internal/adapters/telemetry"
	"go.trai.ch/postcompile/internal/core/domain"
	"go.trai.ch/postcompile/internal/core/ports"
	"go.trai.ch/postcompile/internal/engine/runner"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// LogConfigurer is implemented by loggers whose verbosity and format can change at runtime.
type LogConfigurer interface {
	SetVerbose(enable bool)
	SetJSON(enable bool)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	scopes       ports.ScopeFactory
	logger       ports.Logger

	workingDir string
	stdout     io.Writer
	progress   io.Writer
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, scopes ports.ScopeFactory, log ports.Logger) *App {
	return &App{
		configLoader: loader,
		scopes:       scopes,
		logger:       log,
		workingDir:   ".",
		stdout:       os.Stdout,
		progress:     os.Stderr,
	}
}

// WithWorkingDir sets the directory configuration discovery starts from.
func (a *App) WithWorkingDir(dir string) *App {
	a.workingDir = dir
	return a
}

// WithOutput sets the writers for command output and progress lines.
// A nil progress writer disables progress output.
func (a *App) WithOutput(stdout, progress io.Writer) *App {
	a.stdout = stdout
	a.progress = progress
	return a
}

// LoggingOptions configures the logger for one command.
type LoggingOptions struct {
	Verbose bool
	// Format is one of auto, pretty or json.
	Format string
}

// ConfigureLogging applies the logging options. JSON logging also disables progress output.
func (a *App) ConfigureLogging(opts LoggingOptions) error {
	userFormat, err := detector.ParseFormat(opts.Format)
	if err != nil {
		return err
	}
	format := detector.ResolveFormat(detector.DetectEnvironment(), userFormat)

	if lc, ok := a.logger.(LogConfigurer); ok {
		lc.SetVerbose(opts.Verbose)
		lc.SetJSON(format == detector.FormatJSON)
	}
	if format == detector.FormatJSON {
		a.progress = nil
	}
	return nil
}

// RunOptions configuration for the Run and Units methods.
// Flag values override or extend the configuration file.
type RunOptions struct {
	// ConfigPath is an explicit project or workspace file.
	ConfigPath string
	// Projects restricts a workspace run to the named projects.
	Projects []string
	// Units replaces the configured execution units when set.
	Units []string
	// Resources are appended to the configured additional resources.
	Resources []string
	// Artifacts are appended to each project's artifacts.
	Artifacts []string
	// OutputDir replaces each project's output directory when set.
	OutputDir string
	// Jobs limits how many projects run at once. Zero or less means no limit.
	Jobs int
}

// Run executes the post-compile units of every configured project.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	invocations, err := a.loadInvocations(opts)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	tp := setupOTel(a.renderer())
	defer func() {
		_ = tp.Shutdown(ctx)
	}()

	run := runner.New(a.scopes, a.logger, telemetry.NewOTelTracer(telemetry.InstrumentationName))

	errs := make([]error, len(invocations))
	var g errgroup.Group
	if opts.Jobs > 0 {
		g.SetLimit(opts.Jobs)
	}

	for i, inv := range invocations {
		g.Go(func() error {
			report, err := run.Run(ctx, inv)
			if err != nil {
				errs[i] = err
				a.logger.Error(zerr.With(err, "project", inv.Project.Name))
				return nil
			}
			a.logger.Info(fmt.Sprintf("%s: %d execution unit(s) completed", report.Project, len(report.Completed)))
			return nil
		})
	}
	_ = g.Wait()

	if err := errors.Join(errs...); err != nil {
		return errors.Join(domain.ErrInvocationFailed, err)
	}
	return nil
}

// Units lists the execution units visible to each project without running them.
func (a *App) Units(ctx context.Context, opts RunOptions) error {
	invocations, err := a.loadInvocations(opts)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	for _, inv := range invocations {
		classes, err := a.listUnits(ctx, inv)
		if err != nil {
			return zerr.With(err, "project", inv.Project.Name)
		}

		if _, err := fmt.Fprintf(a.stdout, "%s\n%s\n", inv.Project.Name, renderUnits(a.stdout, classes)); err != nil {
			return zerr.Wrap(err, "failed to write unit listing")
		}
	}
	return nil
}

func (a *App) listUnits(ctx context.Context, inv *domain.Invocation) ([]domain.UnitClass, error) {
	classpath, err := runner.Assemble(inv.Project, inv.Configuration.AdditionalResources)
	if err != nil {
		return nil, err
	}

	scope, err := a.scopes.Open(ctx, classpath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := scope.Close(); closeErr != nil {
			a.logger.Error(zerr.Wrap(closeErr, "failed to release loading scope"))
		}
	}()

	return scope.Units()
}

func (a *App) renderer() ports.Renderer {
	if a.progress == nil {
		return nil
	}
	return linear.NewRenderer(a.progress)
}

// loadInvocations reads the configuration and applies the flag overrides. Without
// any configuration file, an output directory flag defines a single project.
func (a *App) loadInvocations(opts RunOptions) ([]*domain.Invocation, error) {
	var (
		invocations []*domain.Invocation
		err         error
	)
	if opts.ConfigPath != "" {
		invocations, err = a.configLoader.LoadFile(opts.ConfigPath)
	} else {
		invocations, err = a.configLoader.Load(a.workingDir)
	}

	if errors.Is(err, domain.ErrConfigNotFound) && opts.OutputDir != "" {
		dir, absErr := filepath.Abs(a.workingDir)
		if absErr != nil {
			return nil, zerr.Wrap(absErr, "failed to resolve working directory")
		}
		a.logger.Debug("No configuration file found, using command line flags only")
		invocations = []*domain.Invocation{{
			Project: domain.Project{Name: filepath.Base(dir), Dir: dir},
		}}
		err = nil
	}
	if err != nil {
		return nil, err
	}

	invocations, err = selectProjects(invocations, opts.Projects)
	if err != nil {
		return nil, err
	}

	for _, inv := range invocations {
		if err := applyOverrides(inv, opts); err != nil {
			return nil, err
		}
	}
	return invocations, nil
}

func selectProjects(invocations []*domain.Invocation, names []string) ([]*domain.Invocation, error) {
	if len(names) == 0 {
		return invocations, nil
	}

	byName := make(map[string]*domain.Invocation, len(invocations))
	for _, inv := range invocations {
		byName[inv.Project.Name] = inv
	}

	selected := make([]*domain.Invocation, 0, len(names))
	for _, name := range names {
		inv, ok := byName[name]
		if !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrProjectNotFound, "unknown project"), "project", name)
		}
		selected = append(selected, inv)
	}
	return selected, nil
}

func applyOverrides(inv *domain.Invocation, opts RunOptions) error {
	if len(opts.Units) > 0 {
		inv.Configuration.ExecutionUnits = append([]string(nil), opts.Units...)
	}
	inv.Configuration.AdditionalResources = append(inv.Configuration.AdditionalResources, opts.Resources...)

	if opts.OutputDir != "" {
		dir, err := filepath.Abs(opts.OutputDir)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to resolve output directory"), "output_directory", opts.OutputDir)
		}
		inv.Project.OutputDirectory = dir
	}

	for _, artifact := range opts.Artifacts {
		file, err := filepath.Abs(artifact)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to resolve artifact"), "artifact", artifact)
		}
		inv.Project.Artifacts = append(inv.Project.Artifacts, domain.Artifact{File: file})
	}
	return nil
}

// setupOTel configures the OpenTelemetry SDK to report spans to renderer.
func setupOTel(renderer ports.Renderer) *sdktrace.TracerProvider {
	tp := telemetry.NewProvider(renderer)

	// Register it as the global provider.
	otel.SetTracerProvider(tp)
	return tp
}
