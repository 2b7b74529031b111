package domain

import (
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Origin records which project input contributed a classpath entry.
type Origin uint8

const (
	// OriginOutputDirectory marks the project's compiled output directory.
	OriginOutputDirectory Origin = iota
	// OriginArtifact marks a dependency artifact.
	OriginArtifact
	// OriginResource marks a configured additional resource.
	OriginResource
)

// String returns a short label for the origin.
func (o Origin) String() string {
	switch o {
	case OriginOutputDirectory:
		return "output"
	case OriginArtifact:
		return "artifact"
	case OriginResource:
		return "resource"
	default:
		return "unknown"
	}
}

// ClasspathEntry is one location searched by a loading scope.
type ClasspathEntry struct {
	Location *url.URL
	Origin   Origin
}

// String returns the entry's URL.
func (e ClasspathEntry) String() string {
	if e.Location == nil {
		return ""
	}
	return e.Location.String()
}

// LocalPath returns the filesystem path of a file URL entry.
func (e ClasspathEntry) LocalPath() (string, bool) {
	if e.Location == nil || e.Location.Scheme != "file" {
		return "", false
	}
	p := e.Location.Path
	if p == "" {
		p = e.Location.Opaque
	}
	// file:///C:/dir carries the drive letter after the leading slash.
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p), p != ""
}

// Classpath is the ordered list of entries handed to a loading scope.
type Classpath []ClasspathEntry

// Strings returns the entries as URL strings, in order.
func (cp Classpath) Strings() []string {
	out := make([]string, len(cp))
	for i, e := range cp {
		out[i] = e.String()
	}
	return out
}

// LocalPaths returns the filesystem paths of the file entries, in order.
func (cp Classpath) LocalPaths() []string {
	out := make([]string, 0, len(cp))
	for _, e := range cp {
		if p, ok := e.LocalPath(); ok {
			out = append(out, p)
		}
	}
	return out
}

// Fingerprint returns a stable identifier for the classpath contents and order.
func (cp Classpath) Fingerprint() string {
	d := xxhash.New()
	for _, e := range cp {
		_, _ = d.WriteString(e.String())
		_, _ = d.Write([]byte{0})
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

// FileURL converts an absolute filesystem path to a file URL.
func FileURL(abs string) *url.URL {
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return &url.URL{Scheme: "file", Path: p}
}
