package ports

import "context"

// FileStore persiste los documentos generados. folder es una de las carpetas de pkg/files
// y name el nombre relativo que se guarda en la base.
type FileStore interface {
	Save(ctx context.Context, folder, name string, content []byte) error
	Delete(ctx context.Context, folder, name string) error
}
