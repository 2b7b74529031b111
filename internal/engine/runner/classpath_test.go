package runner_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/postcompile/internal/core/domain"
	"go.trai.ch/postcompile/internal/engine/runner"
)

func testProject(t *testing.T) domain.Project {
	t.Helper()
	return domain.Project{
		Name:            "app",
		Dir:             t.TempDir(),
		OutputDirectory: "build/classes",
		Artifacts: []domain.Artifact{
			{ID: "com.example:a:1.0", File: "libs/a.jar"},
			{File: "/opt/libs/b.jar"},
			{File: "libs/a.jar"},
		},
	}
}

func TestAssemble_Order(t *testing.T) {
	project := testProject(t)
	resources := []string{"file:///opt/shared/", "https://repo.example.com/c.jar"}

	classpath, err := runner.Assemble(project, resources)
	require.NoError(t, err)

	require.Len(t, classpath, 1+len(project.Artifacts)+len(resources))
	assert.Equal(t, []string{
		domain.FileURL(filepath.Join(project.Dir, "build", "classes")).String(),
		domain.FileURL(filepath.Join(project.Dir, "libs", "a.jar")).String(),
		domain.FileURL("/opt/libs/b.jar").String(),
		domain.FileURL(filepath.Join(project.Dir, "libs", "a.jar")).String(),
		"file:///opt/shared/",
		"https://repo.example.com/c.jar",
	}, classpath.Strings())

	origins := make([]domain.Origin, len(classpath))
	for i, e := range classpath {
		origins[i] = e.Origin
	}
	assert.Equal(t, []domain.Origin{
		domain.OriginOutputDirectory,
		domain.OriginArtifact, domain.OriginArtifact, domain.OriginArtifact,
		domain.OriginResource, domain.OriginResource,
	}, origins)
}

func TestAssemble_NoArtifactsOrResources(t *testing.T) {
	project := domain.Project{Name: "app", Dir: t.TempDir(), OutputDirectory: "out"}

	classpath, err := runner.Assemble(project, nil)
	require.NoError(t, err)
	require.Len(t, classpath, 1)
}

func TestAssemble_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*domain.Project)
		resources   []string
		wantEntries int
		wantErr     string
	}{
		{
			name:        "missing output directory",
			mutate:      func(p *domain.Project) { p.OutputDirectory = "" },
			wantEntries: 0,
			wantErr:     domain.ErrMissingOutputDirectory.Error(),
		},
		{
			name:        "artifact without file",
			mutate:      func(p *domain.Project) { p.Artifacts[1].File = "" },
			wantEntries: 2,
			wantErr:     domain.ErrInvalidArtifact.Error(),
		},
		{
			name:        "malformed resource",
			resources:   []string{"file:///ok/", "://no-scheme"},
			wantEntries: 5,
			wantErr:     "malformed resource locator",
		},
		{
			name:        "resource without scheme",
			resources:   []string{"relative/path.jar"},
			wantEntries: 4,
			wantErr:     runner.ErrMissingScheme.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project := testProject(t)
			if tt.mutate != nil {
				tt.mutate(&project)
			}

			classpath, err := runner.Assemble(project, tt.resources)
			require.Error(t, err)
			require.ErrorIs(t, err, domain.ErrClasspathInvalid)
			assert.ErrorContains(t, err, tt.wantErr)

			var failure *domain.Failure
			require.ErrorAs(t, err, &failure)
			assert.Equal(t, domain.KindClasspathInvalid, failure.Kind)
			assert.Len(t, failure.Classpath, tt.wantEntries)
			assert.Equal(t, failure.Classpath, classpath)
		})
	}
}
