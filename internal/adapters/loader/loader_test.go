package loader_test

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/postcompile/internal/adapters/loader"
	"go.trai.ch/postcompile/internal/core/domain"
	"go.trai.ch/postcompile/internal/core/ports"
	"go.trai.ch/postcompile/internal/core/ports/mocks"
	"go.trai.ch/postcompile/unit"
	"go.uber.org/mock/gomock"
)

type generator struct{}

func (generator) Run() error { return nil }

type fixture struct {
	factory  *loader.Factory
	executor *mocks.MockExecutor
	linked   *unit.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().DebugEnabled().Return(true).AnyTimes()

	executor := mocks.NewMockExecutor(ctrl)
	linked := unit.NewRegistry()
	unit.MustRegister(linked, "com.example.Gen", func() (generator, error) { return generator{}, nil })

	return &fixture{
		factory:  loader.NewFactory(log, executor, linked, unit.Platform),
		executor: executor,
		linked:   linked,
	}
}

func (f *fixture) open(t *testing.T, entries ...domain.ClasspathEntry) ports.Scope {
	t.Helper()
	scope, err := f.factory.Open(context.Background(), domain.Classpath(entries))
	require.NoError(t, err)
	t.Cleanup(func() { _ = scope.Close() })
	return scope
}

func entry(path string, origin domain.Origin) domain.ClasspathEntry {
	return domain.ClasspathEntry{Location: domain.FileURL(path), Origin: origin}
}

func writeFile(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
}

func writeArchive(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path) //nolint:gosec // test file
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(w, content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestScope_LinkedUnitRequiresManifest(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()

	scope := f.open(t, entry(dir, domain.OriginOutputDirectory))

	_, err := scope.Load("com.example.Gen")
	require.ErrorIs(t, err, domain.ErrExecutionClassNotFound)
}

func TestScope_DirectoryManifest(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, domain.ManifestFileName), "units:\n  - com.example.Gen\n", domain.FilePerm)

	e := entry(dir, domain.OriginOutputDirectory)
	scope := f.open(t, e)

	class, err := scope.Load("com.example.Gen")
	require.NoError(t, err)
	assert.Equal(t, "com.example.Gen", class.Name)
	assert.Equal(t, e.String(), class.Source)
	assert.True(t, class.Runnable)
	assert.True(t, class.Constructible)

	run, err := class.New()
	require.NoError(t, err)
	require.NoError(t, run.Run())
}

func TestScope_ManifestExportsUnlinkedName(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, domain.ManifestFileName), "units: [com.example.Missing]\n", domain.FilePerm)

	scope := f.open(t, entry(dir, domain.OriginOutputDirectory))

	_, err := scope.Load("com.example.Missing")
	require.ErrorIs(t, err, domain.ErrExecutionClassNotFound)
}

func TestScope_PlatformFallback(t *testing.T) {
	f := newFixture(t)
	scope := f.open(t, entry(t.TempDir(), domain.OriginOutputDirectory))

	class, err := scope.Load(unit.NoopName)
	require.NoError(t, err)
	assert.Equal(t, domain.PlatformSource, class.Source)
	assert.True(t, class.Runnable)
}

func TestScope_ExecutableFile(t *testing.T) {
	f := newFixture(t)
	out := t.TempDir()
	lib := t.TempDir()
	script := filepath.Join(out, "com", "example", "Tool")
	writeFile(t, script, "#!/bin/sh\n", 0o755)

	scope := f.open(t, entry(out, domain.OriginOutputDirectory), entry(lib, domain.OriginArtifact))

	class, err := scope.Load("com.example.Tool")
	require.NoError(t, err)
	require.True(t, class.Runnable)

	f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), nil, nil).
		DoAndReturn(func(_ context.Context, cmd *domain.Command, _, _ io.Writer) error {
			assert.Equal(t, script, cmd.Path)
			assert.Equal(t, out, cmd.Dir)
			assert.Equal(t, "com.example.Tool", cmd.Env[domain.EnvUnit])
			assert.Equal(t, out, cmd.Env[domain.EnvOutputDir])
			assert.Equal(t, out+string(os.PathListSeparator)+lib, cmd.Env[domain.EnvClasspath])
			return nil
		})

	run, err := class.New()
	require.NoError(t, err)
	require.NoError(t, run.Run())
}

func TestScope_NonExecutableFile(t *testing.T) {
	f := newFixture(t)
	out := t.TempDir()
	writeFile(t, filepath.Join(out, "com", "example", "Data"), "data", domain.FilePerm)

	scope := f.open(t, entry(out, domain.OriginOutputDirectory))

	class, err := scope.Load("com.example.Data")
	require.NoError(t, err)
	assert.False(t, class.Runnable)
	assert.Nil(t, class.New)
}

func TestScope_ManifestCommand(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, domain.ManifestFileName), `units:
  - name: com.example.Lint
    exec: [bin/lint, --strict]
`, domain.FilePerm)

	scope := f.open(t, entry(dir, domain.OriginOutputDirectory))

	class, err := scope.Load("com.example.Lint")
	require.NoError(t, err)

	f.executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), nil, nil).
		DoAndReturn(func(_ context.Context, cmd *domain.Command, _, _ io.Writer) error {
			assert.Equal(t, filepath.Join(dir, "bin", "lint"), cmd.Path)
			assert.Equal(t, []string{"--strict"}, cmd.Args)
			return domain.ErrCommandFailed
		})

	run, err := class.New()
	require.NoError(t, err)
	require.ErrorIs(t, run.Run(), domain.ErrCommandFailed)
}

func TestScope_LookupOrder(t *testing.T) {
	f := newFixture(t)
	first := t.TempDir()
	second := t.TempDir()
	writeFile(t, filepath.Join(first, "a", "Tool"), "#!/bin/sh\n", 0o755)
	writeFile(t, filepath.Join(second, "a", "Tool"), "#!/bin/sh\n", 0o755)

	e := entry(first, domain.OriginArtifact)
	scope := f.open(t, e, entry(second, domain.OriginArtifact))

	class, err := scope.Load("a.Tool")
	require.NoError(t, err)
	assert.Equal(t, e.String(), class.Source)
}

func TestScope_Archive(t *testing.T) {
	f := newFixture(t)
	jar := filepath.Join(t.TempDir(), "units.jar")
	writeArchive(t, jar, map[string]string{
		domain.ManifestFileName: "units: [com.example.Gen]\n",
	})

	scope, err := f.factory.Open(context.Background(), domain.Classpath{entry(jar, domain.OriginArtifact)})
	require.NoError(t, err)

	class, err := scope.Load("com.example.Gen")
	require.NoError(t, err)
	assert.True(t, class.Runnable)

	require.NoError(t, scope.Close())
	require.NoError(t, scope.Close())

	_, err = scope.Load("com.example.Gen")
	require.ErrorIs(t, err, domain.ErrScopeClosed)
}

func TestScope_ArchiveWithoutManifest(t *testing.T) {
	f := newFixture(t)
	jar := filepath.Join(t.TempDir(), "lib.jar")
	writeArchive(t, jar, map[string]string{"com/example/Gen.class": "bytes"})

	scope := f.open(t, entry(jar, domain.OriginArtifact))

	_, err := scope.Load("com.example.Gen")
	require.ErrorIs(t, err, domain.ErrExecutionClassNotFound)
}

func TestScope_EntriesThatContributeNothing(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	notArchive := filepath.Join(dir, "notes.txt")
	writeFile(t, notArchive, "plain text", domain.FilePerm)

	remote := domain.ClasspathEntry{Origin: domain.OriginResource}
	remote.Location = domain.FileURL("/unused")
	remote.Location.Scheme = "https"
	remote.Location.Host = "repo.example.com"

	scope := f.open(t,
		entry(filepath.Join(dir, "missing"), domain.OriginOutputDirectory),
		entry(notArchive, domain.OriginArtifact),
		remote,
	)

	_, err := scope.Load("com.example.Gen")
	require.ErrorIs(t, err, domain.ErrExecutionClassNotFound)

	class, err := scope.Load(unit.NoopName)
	require.NoError(t, err)
	assert.Equal(t, domain.PlatformSource, class.Source)
}

func TestScope_MalformedManifest(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, domain.ManifestFileName), "units: {not: [a list\n", domain.FilePerm)

	scope := f.open(t, entry(dir, domain.OriginOutputDirectory))

	_, err := scope.Load("com.example.Gen")
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrExecutionClassNotFound)
	assert.ErrorContains(t, err, domain.ErrManifestParseFailed.Error())
}

func TestScope_Units(t *testing.T) {
	f := newFixture(t)
	out := t.TempDir()
	writeFile(t, filepath.Join(out, domain.ManifestFileName), "units: [com.example.Gen]\n", domain.FilePerm)
	writeFile(t, filepath.Join(out, "com", "example", "Tool"), "#!/bin/sh\n", 0o755)
	writeFile(t, filepath.Join(out, "com", "example", "Data"), "data", domain.FilePerm)

	jar := filepath.Join(t.TempDir(), "units.jar")
	writeArchive(t, jar, map[string]string{domain.ManifestFileName: "units: [com.example.Gen]\n"})

	scope := f.open(t, entry(out, domain.OriginOutputDirectory), entry(jar, domain.OriginArtifact))

	classes, err := scope.Units()
	require.NoError(t, err)

	names := make([]string, 0, len(classes))
	for _, c := range classes {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"com.example.Gen", "com.example.Tool", unit.NoopName}, names)
	assert.Equal(t, entry(out, domain.OriginOutputDirectory).String(), classes[0].Source)
}
