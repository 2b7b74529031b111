package loader

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/postcompile/internal/core/domain"
	"go.trai.ch/postcompile/unit"
	"go.trai.ch/zerr"
)

// dirSource resolves units from a local directory entry.
type dirSource struct {
	url    string
	root   string
	linker *linker

	loaded  bool
	exports *exports
	err     error
}

func (s *dirSource) manifest() (*exports, error) {
	if s.loaded {
		return s.exports, s.err
	}
	s.loaded = true

	data, err := os.ReadFile(filepath.Join(s.root, domain.ManifestFileName))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil
	case err != nil:
		s.err = zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "entry", s.url)
	default:
		s.exports, s.err = parseManifest(data, s.url)
	}
	return s.exports, s.err
}

func (s *dirSource) lookup(name string) (domain.UnitClass, bool, error) {
	ex, err := s.manifest()
	if err != nil {
		return domain.UnitClass{}, false, err
	}

	if u, ok := ex.lookup(name); ok {
		if class, found := s.linker.fromManifest(s.url, s.root, u); found {
			return class, true, nil
		}
	}

	class, found := s.linker.fromFile(s.url, s.root, name)
	return class, found, nil
}

func (s *dirSource) units() ([]domain.UnitClass, error) {
	ex, err := s.manifest()
	if err != nil {
		return nil, err
	}

	var classes []domain.UnitClass
	if ex != nil {
		for _, name := range ex.order {
			if class, ok := s.linker.fromManifest(s.url, s.root, ex.byName[name]); ok {
				classes = append(classes, class)
			}
		}
	}

	err = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Mode()&0o111 == 0 {
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		name := strings.ReplaceAll(filepath.ToSlash(rel), "/", ".")
		if !unit.ValidName(name) {
			return nil
		}
		if class, ok := s.linker.fromFile(s.url, s.root, name); ok {
			classes = append(classes, class)
		}
		return nil
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to list class path entry"), "entry", s.url)
	}

	return classes, nil
}

func (s *dirSource) close() error {
	return nil
}
