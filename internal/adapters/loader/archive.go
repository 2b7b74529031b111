package loader

import (
	"archive/zip"
	"errors"
	"io"
	"io/fs"

	"go.trai.ch/postcompile/internal/core/domain"
	"go.trai.ch/zerr"
)

// archiveSource resolves units from the manifest of a zip or jar entry.
// The archive stays open until the scope is closed.
type archiveSource struct {
	url    string
	path   string
	linker *linker

	reader  *zip.ReadCloser
	loaded  bool
	exports *exports
	err     error
}

func (s *archiveSource) manifest() (*exports, error) {
	if s.loaded {
		return s.exports, s.err
	}
	s.loaded = true

	reader, err := zip.OpenReader(s.path)
	if errors.Is(err, zip.ErrFormat) {
		s.linker.logger.Debug("Class path entry " + s.url + " is not an archive")
		return nil, nil
	}
	if err != nil {
		s.err = zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "entry", s.url)
		return nil, s.err
	}
	s.reader = reader

	data, err := readArchiveFile(reader, domain.ManifestFileName)
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

func readArchiveFile(reader *zip.ReadCloser, name string) ([]byte, error) {
	f, err := reader.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return io.ReadAll(f)
}

func (s *archiveSource) lookup(name string) (domain.UnitClass, bool, error) {
	ex, err := s.manifest()
	if err != nil {
		return domain.UnitClass{}, false, err
	}

	u, ok := ex.lookup(name)
	if !ok {
		return domain.UnitClass{}, false, nil
	}
	class, found := s.linker.fromManifest(s.url, "", u)
	return class, found, nil
}

func (s *archiveSource) units() ([]domain.UnitClass, error) {
	ex, err := s.manifest()
	if err != nil || ex == nil {
		return nil, err
	}

	classes := make([]domain.UnitClass, 0, len(ex.order))
	for _, name := range ex.order {
		if class, ok := s.linker.fromManifest(s.url, "", ex.byName[name]); ok {
			classes = append(classes, class)
		}
	}
	return classes, nil
}

func (s *archiveSource) close() error {
	if s.reader == nil {
		return nil
	}
	err := s.reader.Close()
	s.reader = nil
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close archive"), "entry", s.url)
	}
	return nil
}
