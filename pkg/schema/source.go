package schema

import (
	"fmt"
	"net/url"
	"path/filepath"
)

// Source identifies where a settings schema document originated so loaders
// can read files, fs.FS entries, or URLs without leaking those details to the
// validator.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

type fileSource struct {
	path string
}

func (s fileSource) Location() string { return s.path }
func (s fileSource) Kind() SourceKind { return SourceKindFile }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string { return s.name }
func (s fsSource) Kind() SourceKind { return SourceKindFS }

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

// SourceForVariant points at the embedded schema shipped for a page variant.
func SourceForVariant(variant string) Source {
	return SourceFromFS(variant + ".json")
}

type urlSource struct {
	raw string
}

func (s urlSource) Location() string { return s.raw }
func (s urlSource) Kind() SourceKind { return SourceKindURL }

// SourceFromURL parses the supplied URL string and returns a Source. It panics
// if the URL is invalid to surface configuration mistakes early.
func SourceFromURL(raw string) Source {
	if raw == "" {
		panic("schema: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		panic(fmt.Sprintf("schema: invalid URL %q: %v", raw, err))
	}
	return urlSource{raw: raw}
}

// ParseSource maps a configured location onto a Source: http(s) URLs become
// URL sources, "embed:<name>" selects an embedded schema and anything else is
// treated as a file path. An empty location yields nil.
func ParseSource(location string) (Source, error) {
	switch {
	case location == "":
		return nil, nil
	case len(location) > 6 && location[:6] == "embed:":
		return SourceFromFS(location[6:]), nil
	case hasHTTPScheme(location):
		if _, err := url.ParseRequestURI(location); err != nil {
			return nil, fmt.Errorf("schema: invalid URL %q: %w", location, err)
		}
		return urlSource{raw: location}, nil
	default:
		return SourceFromFile(location), nil
	}
}

func hasHTTPScheme(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
