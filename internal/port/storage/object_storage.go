package storage

import (
	"context"
	"errors"
)

// ErrObjectExists is returned by Upload when overwrite is false and an
// object already lives at the given path.
var ErrObjectExists = errors.New("object already exists at path")

// ObjectStorage is the blob-store capability the listing workflows depend
// on. Paths are namespaced per listing ("<listing-id>/<file>"); PublicURL
// and PathFromURL must be pure inverses so a previously issued URL can be
// turned back into a deletable path.
type ObjectStorage interface {
	Upload(ctx context.Context, path string, data []byte, contentType string, overwrite bool) (string, error)
	Delete(ctx context.Context, path string) error
	PublicURL(path string) string
	PathFromURL(url string) (string, error)
}
