package bwire

import (
	"context"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gabriel-vasile/mimetype"
)

// ErrStaticNotFound is returned by a [StaticSource] that has no resource at the requested path.
var ErrStaticNotFound = errors.New("bwire: static resource not found")

// StaticSource provides the resources served for GET requests that match no route but look like a file.
type StaticSource interface {
	Open(ctx context.Context, name string) ([]byte, error)
}

// DirSource serves static resources from a directory on disk.
type DirSource struct {
	dir string
}

// NewDirSource serves the files below dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// Open reads the file at name, relative to the source directory. Names cannot escape the directory.
func (s *DirSource) Open(_ context.Context, name string) ([]byte, error) {
	clean := strings.TrimPrefix(path.Clean("/"+name), "/")
	full := filepath.Join(s.dir, filepath.FromSlash(clean))

	info, err := os.Stat(full)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, errors.Mark(errors.Wrapf(err, "open %q", name), ErrStaticNotFound)
	case err != nil:
		return nil, errors.Wrapf(err, "open %q", name)
	case info.IsDir():
		return nil, errors.Wrapf(ErrStaticNotFound, "open %q: is a directory", name)
	}

	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Mark(errors.Wrapf(err, "open %q", name), ErrStaticNotFound)
	} else if err != nil {
		return nil, errors.Wrapf(err, "open %q", name)
	}

	return data, nil
}

// ContentType determines the MIME type of a static resource: by its extension when the extension is known, by
// sniffing the content otherwise.
func ContentType(name string, data []byte) string {
	// browsers save partial downloads as "name.ext.download"
	ext := path.Ext(strings.TrimSuffix(name, ".download"))
	if mt := mime.TypeByExtension(ext); mt != "" {
		return mt
	}

	return mimetype.Detect(data).String()
}

// isStaticCandidate reports whether an unmatched request should be looked up in the static source.
func isStaticCandidate(method, p string) bool {
	return method == string(MethodGet) && strings.Contains(p, ".")
}

// serveStatic reads the resource at p from src. It returns false when there is no such resource.
func serveStatic(ctx context.Context, src StaticSource, p string) (*Response, bool, error) {
	data, err := src.Open(ctx, p)
	if errors.Is(err, ErrStaticNotFound) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}

	return OK().SetBody(data).SetContentType(ContentType(p, data)), true, nil
}
