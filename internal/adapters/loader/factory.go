// Package loader builds isolated loading scopes over a classpath.
//
// A directory entry exports the units listed in its postcompile-units.yaml and
// every file at a/b/C for a unit named a.b.C; executable files run as commands.
// An archive entry exports the units listed in the manifest at its root.
// Missing paths and non-file URLs contribute nothing.
package loader

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strconv"

	"go.trai.ch/postcompile/internal/core/domain"
	"go.trai.ch/postcompile/internal/core/ports"
	"go.trai.ch/postcompile/unit"
	"go.trai.ch/zerr"
)

var _ ports.ScopeFactory = (*Factory)(nil)

// Factory implements ports.ScopeFactory.
type Factory struct {
	logger   ports.Logger
	executor ports.Executor
	linked   *unit.Registry
	platform *unit.Registry
}

// NewFactory creates a Factory resolving linked units from linked and built-in
// units from platform.
func NewFactory(logger ports.Logger, executor ports.Executor, linked, platform *unit.Registry) *Factory {
	return &Factory{
		logger:   logger,
		executor: executor,
		linked:   linked,
		platform: platform,
	}
}

// Open implements ports.ScopeFactory. Executable units of the scope run with ctx.
func (f *Factory) Open(ctx context.Context, classpath domain.Classpath) (ports.Scope, error) {
	l := &linker{
		ctx:      ctx,
		logger:   f.logger,
		linked:   f.linked,
		executor: f.executor,
		env:      unitEnv(classpath),
	}

	scope := &Scope{platform: f.platform}
	for _, entry := range classpath {
		src, err := f.source(entry, l)
		if err != nil {
			_ = scope.Close()
			return nil, err
		}
		if src != nil {
			scope.sources = append(scope.sources, src)
		}
	}

	if f.logger.DebugEnabled() {
		f.logger.Debug("Opened loading scope " + classpath.Fingerprint() + " over " + entryCount(classpath))
	}
	return scope, nil
}

func (f *Factory) source(entry domain.ClasspathEntry, l *linker) (source, error) {
	url := entry.String()

	path, ok := entry.LocalPath()
	if !ok {
		f.logger.Debug("Skipping class path entry " + url + ": only file URLs are searched")
		return nil, nil
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		f.logger.Debug("Skipping class path entry " + url + ": no such file or directory")
		return nil, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to inspect class path entry"), "entry", url)
	}

	if info.IsDir() {
		return &dirSource{url: url, root: path, linker: l}, nil
	}
	return &archiveSource{url: url, path: path, linker: l}, nil
}

func entryCount(classpath domain.Classpath) string {
	if len(classpath) == 1 {
		return "1 entry"
	}
	return strconv.Itoa(len(classpath)) + " entries"
}
