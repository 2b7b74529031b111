// Package postcompile runs execution units against a compiled project.
//
// The postcompile binary only sees the units linked into it. A custom binary
// registers its own units and reuses the command line:
//
//	func init() {
//		unit.MustRegister(unit.Linked, "com.example.Generate", NewGenerate)
//	}
//
//	func main() {
//		os.Exit(postcompile.Main())
//	}
package postcompile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/postcompile/cmd/postcompile/commands"
	"go.trai.ch/postcompile/internal/app"
	"go.trai.ch/postcompile/internal/core/domain"
	_ "go.trai.ch/postcompile/internal/wiring"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

// Main runs the command line with the process arguments and returns the exit code.
func Main() int {
	return run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	})
}

func run(
	ctx context.Context,
	args []string,
	stdout, stderr io.Writer,
	provider ComponentProvider,
	opts ...func(*app.App),
) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, cleanup, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		// Write directly to stderr passed in
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 2
	}
	defer cleanup()

	components.App.WithOutput(stdout, stderr)
	if lw, ok := components.Logger.(interface{ SetOutput(w io.Writer) }); ok {
		lw.SetOutput(stderr)
	}

	// Apply options
	for _, opt := range opts {
		opt(components.App)
	}

	// 2. Interface - CLI
	cli := commands.New(components.App)
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		// Failed invocations were already logged per project.
		if !errors.Is(err, domain.ErrInvocationFailed) {
			components.Logger.Error(err)
		}
		return domain.ExitCode(err)
	}
	return 0
}
