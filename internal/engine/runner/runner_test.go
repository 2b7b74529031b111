package runner_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/postcompile/internal/adapters/telemetry"
	"go.trai.ch/postcompile/internal/core/domain"
	"go.trai.ch/postcompile/internal/core/ports"
	"go.trai.ch/postcompile/internal/core/ports/mocks"
	"go.trai.ch/postcompile/internal/engine/runner"
	"go.trai.ch/postcompile/unit"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	scopes *mocks.MockScopeFactory
	scope  *mocks.MockScope
	logger *mocks.MockLogger
	debug  []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		scopes: mocks.NewMockScopeFactory(ctrl),
		scope:  mocks.NewMockScope(ctrl),
		logger: mocks.NewMockLogger(ctrl),
	}
	f.logger.EXPECT().DebugEnabled().Return(true).AnyTimes()
	f.logger.EXPECT().Debug(gomock.Any()).Do(func(msg string) {
		f.debug = append(f.debug, msg)
	}).AnyTimes()
	return f
}

func (f *fixture) runner(tracer ports.Tracer) *runner.Runner {
	if tracer == nil {
		tracer = telemetry.NewNoOpTracer()
	}
	return runner.New(f.scopes, f.logger, tracer)
}

// expectScope expects the scope to be opened and closed exactly once.
func (f *fixture) expectScope() {
	f.scopes.EXPECT().Open(gomock.Any(), gomock.Any()).Return(f.scope, nil)
	f.scope.EXPECT().Close().Return(nil).Times(1)
}

func invocation(t *testing.T, units ...string) *domain.Invocation {
	t.Helper()
	return &domain.Invocation{
		Project: domain.Project{
			Name:            "app",
			Dir:             t.TempDir(),
			OutputDirectory: "out",
			Artifacts:       []domain.Artifact{{File: "libs/a.jar"}},
		},
		Configuration: domain.Configuration{
			ExecutionUnits:      units,
			AdditionalResources: []string{"file:///opt/shared/"},
		},
	}
}

func runnable(name string, run func() error) domain.UnitClass {
	return domain.UnitClass{
		Name:          name,
		Source:        "file:///out",
		Runnable:      true,
		Constructible: true,
		New: func() (unit.Runnable, error) {
			return unit.Func(run), nil
		},
	}
}

func TestRun_ExecutesUnitsInOrder(t *testing.T) {
	f := newFixture(t)

	var order []string
	record := func(name string) func() error {
		return func() error {
			order = append(order, name)
			return nil
		}
	}

	f.scopes.EXPECT().Open(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cp domain.Classpath) (ports.Scope, error) {
			assert.Len(t, cp, 3)
			return f.scope, nil
		})
	gomock.InOrder(
		f.scope.EXPECT().Load("com.example.A").Return(runnable("com.example.A", record("A")), nil),
		f.scope.EXPECT().Load("com.example.B").Return(runnable("com.example.B", record("B")), nil),
		f.scope.EXPECT().Load("com.example.A").Return(runnable("com.example.A", record("A")), nil),
		f.scope.EXPECT().Close().Return(nil),
	)

	report, err := f.runner(nil).Run(context.Background(),
		invocation(t, " com.example.A ", "", "com.example.B", "   ", "com.example.A"))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "A"}, order)
	assert.Equal(t, []string{"com.example.A", "com.example.B", "com.example.A"}, report.Completed)
	assert.Equal(t, domain.StateCompleted, report.State)
	assert.Equal(t, "app", report.Project)
	assert.Len(t, report.Classpath, 3)
}

func TestRun_FirstFailureAborts(t *testing.T) {
	f := newFixture(t)
	f.expectScope()

	runErr := errors.New("generation failed")
	f.scope.EXPECT().Load("com.example.A").Return(runnable("com.example.A", func() error { return nil }), nil)
	f.scope.EXPECT().Load("com.example.B").Return(runnable("com.example.B", func() error { return runErr }), nil)

	report, err := f.runner(nil).Run(context.Background(),
		invocation(t, "com.example.A", "com.example.B", "com.example.C"))
	require.Error(t, err)

	require.ErrorIs(t, err, domain.ErrExecutionUnitFailed)
	require.ErrorIs(t, err, runErr)
	var failure *domain.Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "com.example.B", failure.Unit)
	assert.Equal(t, 1, domain.ExitCode(err))

	assert.Equal(t, []string{"com.example.A"}, report.Completed)
	assert.Equal(t, domain.StateFailed, report.State)
}

func TestRun_Classification(t *testing.T) {
	initErr := errors.New("missing settings")
	loadErr := errors.New("manifest unreadable")

	tests := []struct {
		name      string
		class     domain.UnitClass
		loadErr   error
		wantKind  domain.FailureKind
		wantCause error
	}{
		{
			name:     "not found",
			loadErr:  domain.ErrExecutionClassNotFound,
			wantKind: domain.KindExecutionClassNotFound,
		},
		{
			name:      "load error",
			loadErr:   loadErr,
			wantKind:  domain.KindExecutionUnitFailed,
			wantCause: loadErr,
		},
		{
			name:     "not runnable",
			class:    domain.UnitClass{Name: "com.example.X", Constructible: true},
			wantKind: domain.KindExecutionClassNotRunnable,
		},
		{
			name:     "not constructible",
			class:    domain.UnitClass{Name: "com.example.X", Runnable: true},
			wantKind: domain.KindExecutionClassNotConstructible,
		},
		{
			name: "init failed",
			class: domain.UnitClass{
				Name: "com.example.X", Runnable: true, Constructible: true,
				New: func() (unit.Runnable, error) { return nil, initErr },
			},
			wantKind:  domain.KindExecutionClassInitFailed,
			wantCause: initErr,
		},
		{
			name: "constructor panics",
			class: domain.UnitClass{
				Name: "com.example.X", Runnable: true, Constructible: true,
				New: func() (unit.Runnable, error) { panic("bad constructor") },
			},
			wantKind: domain.KindExecutionUnitFailed,
		},
		{
			name:     "run panics",
			class:    runnable("com.example.X", func() error { panic(errors.New("nil map")) }),
			wantKind: domain.KindExecutionUnitFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.expectScope()
			f.scope.EXPECT().Load("com.example.X").Return(tt.class, tt.loadErr)

			_, err := f.runner(nil).Run(context.Background(), invocation(t, "com.example.X", "com.example.Y"))
			require.Error(t, err)

			var failure *domain.Failure
			require.ErrorAs(t, err, &failure)
			assert.Equal(t, tt.wantKind, failure.Kind)
			assert.Equal(t, "com.example.X", failure.Unit)
			require.ErrorIs(t, err, tt.wantKind.Sentinel())
			if tt.wantCause != nil {
				require.ErrorIs(t, err, tt.wantCause)
			}
		})
	}
}

func TestRun_PanicMessageIsKept(t *testing.T) {
	f := newFixture(t)
	f.expectScope()
	f.scope.EXPECT().Load("com.example.X").
		Return(runnable("com.example.X", func() error { panic("index out of range") }), nil)

	_, err := f.runner(nil).Run(context.Background(), invocation(t, "com.example.X"))
	require.ErrorIs(t, err, domain.ErrExecutionUnitFailed)
	assert.ErrorContains(t, err, "index out of range")
}

func TestRun_NoExecutionClassesConfigured(t *testing.T) {
	for _, units := range [][]string{nil, {}, {"", "  ", "\t"}} {
		// No Open expectation: the scope factory must not be called.
		f := newFixture(t)

		report, err := f.runner(nil).Run(context.Background(), invocation(t, units...))
		require.ErrorIs(t, err, domain.ErrNoExecutionClassesConfigured)
		assert.Equal(t, 2, domain.ExitCode(err))
		assert.Empty(t, report.Completed)
		assert.Equal(t, domain.StateFailed, report.State)
		assert.Len(t, report.Classpath, 3)
	}
}

func TestRun_AssemblyFailureOpensNoScope(t *testing.T) {
	f := newFixture(t)

	inv := invocation(t, "com.example.A")
	inv.Configuration.AdditionalResources = []string{"no-scheme"}

	report, err := f.runner(nil).Run(context.Background(), inv)
	require.ErrorIs(t, err, domain.ErrClasspathInvalid)
	assert.Len(t, report.Classpath, 2)
	assert.Equal(t, domain.StateFailed, report.State)
}

func TestRun_OpenFailure(t *testing.T) {
	f := newFixture(t)
	openErr := errors.New("permission denied")
	f.scopes.EXPECT().Open(gomock.Any(), gomock.Any()).Return(nil, openErr)

	_, err := f.runner(nil).Run(context.Background(), invocation(t, "com.example.A"))
	require.ErrorIs(t, err, domain.ErrClasspathInvalid)
	require.ErrorIs(t, err, openErr)

	var failure *domain.Failure
	require.ErrorAs(t, err, &failure)
	assert.Len(t, failure.Classpath, 3)
}

func TestRun_CloseErrorIsOnlyLogged(t *testing.T) {
	f := newFixture(t)
	closeErr := errors.New("archive busy")

	f.scopes.EXPECT().Open(gomock.Any(), gomock.Any()).Return(f.scope, nil)
	f.scope.EXPECT().Load("com.example.A").Return(runnable("com.example.A", func() error { return nil }), nil)
	f.scope.EXPECT().Close().Return(closeErr).Times(1)
	f.logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, closeErr)
	}).Times(1)

	report, err := f.runner(nil).Run(context.Background(), invocation(t, "com.example.A"))
	require.NoError(t, err)
	assert.Equal(t, domain.StateCompleted, report.State)
}

func TestRun_CloseErrorDoesNotMaskFailure(t *testing.T) {
	f := newFixture(t)

	f.scopes.EXPECT().Open(gomock.Any(), gomock.Any()).Return(f.scope, nil)
	f.scope.EXPECT().Load("com.example.A").Return(domain.UnitClass{}, domain.ErrExecutionClassNotFound)
	f.scope.EXPECT().Close().Return(errors.New("archive busy")).Times(1)
	f.logger.EXPECT().Error(gomock.Any()).Times(1)

	_, err := f.runner(nil).Run(context.Background(), invocation(t, "com.example.A"))
	require.ErrorIs(t, err, domain.ErrExecutionClassNotFound)
}

func TestRun_DebugTraces(t *testing.T) {
	f := newFixture(t)
	f.expectScope()
	f.scope.EXPECT().Load("com.example.A").Return(runnable("com.example.A", func() error { return nil }), nil)

	inv := invocation(t, "com.example.A")
	_, err := f.runner(nil).Run(context.Background(), inv)
	require.NoError(t, err)

	require.Len(t, f.debug, 4)
	assert.Equal(t, "Additional resources: [file:///opt/shared/]", f.debug[0])
	assert.Contains(t, f.debug[1], "Found class path urls: [file://")
	assert.Equal(t, "Loaded execution class: com.example.A from file:///out", f.debug[2])
	assert.Equal(t, "Completed run() method: com.example.A", f.debug[3])
}

func TestRun_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	f := newFixture(t)
	f.expectScope()
	f.scope.EXPECT().Load("com.example.A").Return(runnable("com.example.A", func() error { return nil }), nil)
	f.scope.EXPECT().Load("com.example.B").
		Return(runnable("com.example.B", func() error { return errors.New("boom") }), nil)

	_, err := f.runner(telemetry.NewOTelTracerFromProvider(tp, "test")).
		Run(context.Background(), invocation(t, "com.example.A", "com.example.B"))
	require.Error(t, err)

	ended := recorder.Ended()
	names := make([]string, len(ended))
	for i, s := range ended {
		names[i] = s.Name()
	}
	assert.Equal(t, []string{"classpath", "com.example.A", "com.example.B", "app"}, names)

	assert.Equal(t, codes.Unset, ended[1].Status().Code)
	assert.Equal(t, codes.Error, ended[2].Status().Code)
	assert.Equal(t, codes.Error, ended[3].Status().Code)
	for _, s := range ended[:3] {
		assert.Equal(t, ended[3].SpanContext().SpanID(), s.Parent().SpanID())
	}
}

func TestRun_RecordsFailureOnSpans(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	tracer := mocks.NewMockTracer(ctrl)
	projectSpan := mocks.NewMockSpan(ctrl)
	classpathSpan := mocks.NewMockSpan(ctrl)
	unitSpan := mocks.NewMockSpan(ctrl)

	f.expectScope()
	f.scope.EXPECT().Load("com.example.A").Return(domain.UnitClass{}, domain.ErrExecutionClassNotFound)

	tracer.EXPECT().Start(gomock.Any(), "app", gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, projectSpan
		})
	tracer.EXPECT().Start(gomock.Any(), "classpath").
		DoAndReturn(func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, classpathSpan
		})
	tracer.EXPECT().Start(gomock.Any(), "com.example.A", gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, unitSpan
		})

	classpathSpan.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).Times(2)
	classpathSpan.EXPECT().End()

	unitSpan.EXPECT().RecordError(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, domain.ErrExecutionClassNotFound)
	})
	unitSpan.EXPECT().End()

	projectSpan.EXPECT().RecordError(gomock.Any())
	projectSpan.EXPECT().End()

	_, err := f.runner(tracer).Run(context.Background(), invocation(t, "com.example.A"))
	require.ErrorIs(t, err, domain.ErrExecutionClassNotFound)
}
