package runner

import (
	"net/url"
	"path/filepath"

	"go.trai.ch/postcompile/internal/core/domain"
	"go.trai.ch/zerr"
)

// ErrMissingScheme is returned for an additional resource that is not an absolute URL.
var ErrMissingScheme = zerr.New("resource locator has no scheme")

// Assemble builds the classpath of a project: its output directory, then every
// artifact in project order, then every additional resource in configured order.
// Nothing is added, reordered or deduplicated. A malformed location fails the
// whole assembly with a ClasspathInvalid failure carrying the entries built so far.
func Assemble(project domain.Project, resources []string) (domain.Classpath, error) {
	classpath := make(domain.Classpath, 0, 1+len(project.Artifacts)+len(resources))

	fail := func(err error) (domain.Classpath, error) {
		return classpath, &domain.Failure{
			Kind:      domain.KindClasspathInvalid,
			Classpath: classpath,
			Err:       err,
		}
	}

	if project.OutputDirectory == "" {
		return fail(zerr.With(domain.ErrMissingOutputDirectory, "project", project.Name))
	}
	loc, err := fileLocation(project.Dir, project.OutputDirectory)
	if err != nil {
		return fail(zerr.With(err, "output_directory", project.OutputDirectory))
	}
	classpath = append(classpath, domain.ClasspathEntry{Location: loc, Origin: domain.OriginOutputDirectory})

	for i, artifact := range project.Artifacts {
		if artifact.File == "" {
			err := zerr.With(domain.ErrInvalidArtifact, "index", i)
			return fail(zerr.With(err, "artifact", artifact.ID))
		}
		loc, err := fileLocation(project.Dir, artifact.File)
		if err != nil {
			return fail(zerr.With(err, "artifact", artifact.File))
		}
		classpath = append(classpath, domain.ClasspathEntry{Location: loc, Origin: domain.OriginArtifact})
	}

	for _, resource := range resources {
		loc, err := url.Parse(resource)
		if err != nil {
			return fail(zerr.With(zerr.Wrap(err, "malformed resource locator"), "resource", resource))
		}
		if loc.Scheme == "" {
			return fail(zerr.With(ErrMissingScheme, "resource", resource))
		}
		classpath = append(classpath, domain.ClasspathEntry{Location: loc, Origin: domain.OriginResource})
	}

	return classpath, nil
}

func fileLocation(base, path string) (*url.URL, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve path")
	}
	return domain.FileURL(abs), nil
}
