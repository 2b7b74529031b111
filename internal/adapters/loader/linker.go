package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/postcompile/internal/core/domain"
	"go.trai.ch/postcompile/internal/core/ports"
	"go.trai.ch/postcompile/unit"
)

// linker turns manifest exports and executable files into unit classes.
// One linker is shared by every source of a scope.
type linker struct {
	ctx      context.Context
	logger   ports.Logger
	linked   *unit.Registry
	executor ports.Executor
	// env is the base environment handed to executable units.
	env map[string]string
}

// fromManifest resolves an exported unit. Names exported without a command must
// be linked into the binary; otherwise the entry does not provide them.
func (l *linker) fromManifest(source, root string, u manifestUnit) (domain.UnitClass, bool) {
	if len(u.Exec) > 0 {
		path := u.Exec[0]
		if root != "" && !filepath.IsAbs(path) && strings.ContainsAny(path, `/\`) {
			path = filepath.Join(root, filepath.FromSlash(path))
		}
		return l.command(source, u.Name, path, u.Exec[1:], root, true), true
	}

	def, ok := l.linked.Lookup(u.Name)
	if !ok {
		l.logger.Debug("Manifest of " + source + " exports " + u.Name + " which is not linked")
		return domain.UnitClass{}, false
	}
	return fromDefinition(def, source), true
}

// fromFile resolves the executable a/b/C below root for unit a.b.C.
func (l *linker) fromFile(source, root, name string) (domain.UnitClass, bool) {
	if !unit.ValidName(name) {
		return domain.UnitClass{}, false
	}

	path := filepath.Join(root, filepath.FromSlash(strings.ReplaceAll(name, ".", "/")))
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return domain.UnitClass{}, false
	}

	return l.command(source, name, path, nil, root, info.Mode()&0o111 != 0), true
}

func (l *linker) command(source, name, path string, args []string, dir string, runnable bool) domain.UnitClass {
	class := domain.UnitClass{
		Name:          name,
		Source:        source,
		Runnable:      runnable,
		Constructible: true,
	}
	if !runnable {
		return class
	}

	env := make(map[string]string, len(l.env)+1)
	for k, v := range l.env {
		env[k] = v
	}
	env[domain.EnvUnit] = name

	cmd := domain.Command{Unit: name, Path: path, Args: args, Dir: dir, Env: env}
	class.New = func() (unit.Runnable, error) {
		return &commandUnit{ctx: l.ctx, executor: l.executor, cmd: cmd}, nil
	}
	return class
}

func fromDefinition(def unit.Definition, source string) domain.UnitClass {
	return domain.UnitClass{
		Name:          def.Name,
		Source:        source,
		Runnable:      def.Runnable,
		Constructible: def.Constructible,
		New:           def.New,
	}
}

// commandUnit runs an external command through the executor.
type commandUnit struct {
	ctx      context.Context //nolint:containedctx // bound to the scope that created the unit
	executor ports.Executor
	cmd      domain.Command
}

// Run implements unit.Runnable.
func (u *commandUnit) Run() error {
	cmd := u.cmd
	return u.executor.Execute(u.ctx, &cmd, nil, nil)
}

// unitEnv builds the environment shared by every executable unit of a classpath.
func unitEnv(classpath domain.Classpath) map[string]string {
	env := map[string]string{
		domain.EnvClasspath: strings.Join(classpath.LocalPaths(), string(os.PathListSeparator)),
	}
	for _, e := range classpath {
		if e.Origin != domain.OriginOutputDirectory {
			continue
		}
		if p, ok := e.LocalPath(); ok {
			env[domain.EnvOutputDir] = p
		}
		break
	}
	return env
}
