// Package storage implementa ports.FileStore sobre disco local o S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/epublit/epublit-api/internal/application/ports"
	"github.com/epublit/epublit-api/pkg/logger"
)

var _ ports.FileStore = (*LocalStore)(nil)

// LocalStore guarda los documentos bajo <root>/<folder>/<name>.
// El servidor HTTP publica root como estático en /files.
type LocalStore struct {
	root string
	log  *logger.Logger
}

// NewLocalStore crea la raíz si no existe.
func NewLocalStore(root string, log *logger.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear %s: %w", root, err)
	}
	return &LocalStore{root: root, log: log}, nil
}

// Root devuelve el directorio base.
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) Save(ctx context.Context, folder, name string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(folder, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("storage: crear carpeta %s: %w", folder, err)
	}
	// escritura atómica: tmp + rename
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return fmt.Errorf("storage: escribir %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("storage: escribir %s: %w", name, err)
	}
	s.log.Debug().Str("folder", folder).Str("name", name).Int("bytes", len(content)).Msg("documento guardado")
	return nil
}

// Delete es idempotente: un archivo inexistente no es error.
func (s *LocalStore) Delete(_ context.Context, folder, name string) error {
	path, err := s.path(folder, name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: borrar %s: %w", name, err)
	}
	return nil
}

// path rechaza nombres que escapan de la raíz.
func (s *LocalStore) path(folder, name string) (string, error) {
	rel := filepath.Join(folder, name)
	if name == "" || filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("storage: nombre inválido %q", filepath.Join(folder, name))
	}
	return filepath.Join(s.root, rel), nil
}
