package ports

import (
	"context"
	"io"
)

// BlobStore guarda archivos adjuntos y devuelve una ruta relativa estable
// que se anota en el Document.
type BlobStore interface {
	Save(ctx context.Context, folder, fileName, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, path string) error
}
