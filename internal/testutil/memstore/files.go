package memstore

import (
	"context"
	"errors"
	"sync"

	"github.com/epublit/epublit-api/internal/application/ports"
)

// Files es un ports.FileStore en memoria.
type Files struct {
	mu      sync.Mutex
	objects map[string][]byte
	// SaveErr, si no es nil, lo devuelve Save.
	SaveErr error
}

// NewFiles crea un almacenamiento vacío.
func NewFiles() *Files {
	return &Files{objects: make(map[string][]byte)}
}

func (f *Files) Save(_ context.Context, folder, name string, content []byte) error {
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[folder+"/"+name] = append([]byte(nil), content...)
	return nil
}

func (f *Files) Delete(_ context.Context, folder, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := folder + "/" + name
	if _, ok := f.objects[key]; !ok {
		return errors.New("archivo inexistente: " + key)
	}
	delete(f.objects, key)
	return nil
}

// Has reporta si existe folder/name.
func (f *Files) Has(folder, name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[folder+"/"+name]
	return ok
}

// Len devuelve la cantidad de archivos guardados.
func (f *Files) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// Docs es un ports.DocumentGenerator que registra lo que se le pidió generar.
type Docs struct {
	mu          sync.Mutex
	Remitos     []ports.RemitoData
	Settlements []ports.SettlementData
}

func (d *Docs) Remito(_ context.Context, data ports.RemitoData) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Remitos = append(d.Remitos, data)
	return []byte("%PDF-remito"), nil
}

func (d *Docs) Settlement(_ context.Context, data ports.SettlementData) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Settlements = append(d.Settlements, data)
	return []byte("%PDF-liquidacion"), nil
}
