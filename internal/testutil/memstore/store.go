// Package memstore implementa los repositorios en memoria para tests de casos de uso.
// Las transacciones se serializan: cada Run trabaja sobre una copia del estado y la
// confirma sólo si fn no devuelve error.
package memstore

import (
	"context"
	"sync"

	"github.com/epublit/epublit-api/internal/domain/entity"
	"github.com/epublit/epublit-api/internal/domain/repository"
)

type bookKey struct {
	userID int64
	isbn   string
}

type stockKey struct {
	clientID int64
	isbn     string
}

type state struct {
	nextID       int64
	users        map[int64]entity.User
	books        map[bookKey]entity.Book
	personas     map[int64]entity.Persona
	bookPersonas []entity.BookPersona
	clients      map[int64]entity.Client
	clientStock  map[stockKey]int
	consignments map[int64]entity.Consignment
	sales        map[int64]entity.Sale
	settlements  map[int64]entity.Settlement
}

func newState() *state {
	return &state{
		users:        make(map[int64]entity.User),
		books:        make(map[bookKey]entity.Book),
		personas:     make(map[int64]entity.Persona),
		clients:      make(map[int64]entity.Client),
		clientStock:  make(map[stockKey]int),
		consignments: make(map[int64]entity.Consignment),
		sales:        make(map[int64]entity.Sale),
		settlements:  make(map[int64]entity.Settlement),
	}
}

func (s *state) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *state) clone() *state {
	c := newState()
	c.nextID = s.nextID
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.books {
		c.books[k] = v
	}
	for k, v := range s.personas {
		c.personas[k] = v
	}
	c.bookPersonas = append(c.bookPersonas, s.bookPersonas...)
	for k, v := range s.clients {
		c.clients[k] = v
	}
	for k, v := range s.clientStock {
		c.clientStock[k] = v
	}
	for k, v := range s.consignments {
		v.Lines = append([]entity.ConsignmentLine(nil), v.Lines...)
		c.consignments[k] = v
	}
	for k, v := range s.sales {
		v.Lines = append([]entity.SaleLine(nil), v.Lines...)
		c.sales[k] = v
	}
	for k, v := range s.settlements {
		c.settlements[k] = v
	}
	return c
}

// Store guarda el estado confirmado y serializa las transacciones.
type Store struct {
	txMu      sync.Mutex
	mu        sync.RWMutex
	committed *state

	// Runs cuenta las transacciones iniciadas.
	Runs int
}

// New crea un store vacío.
func New() *Store {
	return &Store{committed: newState()}
}

// access resuelve el estado sobre el que opera un repositorio: el de la tx o el confirmado.
type access struct {
	store *Store
	tx    *state
}

func (a access) read(fn func(*state)) {
	if a.tx != nil {
		fn(a.tx)
		return
	}
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()
	fn(a.store.committed)
}

func (a access) write(fn func(*state) error) error {
	if a.tx != nil {
		return fn(a.tx)
	}
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	return fn(a.store.committed)
}

func (s *Store) run(ctx context.Context, fn func(a access) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Runs++
	s.mu.RLock()
	work := s.committed.clone()
	s.mu.RUnlock()

	if err := fn(access{store: s, tx: work}); err != nil {
		return err
	}
	s.mu.Lock()
	s.committed = work
	s.mu.Unlock()
	return nil
}

func (s *Store) direct() access { return access{store: s} }

// Repositorios sobre el estado confirmado (sin transacción).
func (s *Store) Users() repository.UserRepository               { return &userRepo{s.direct()} }
func (s *Store) Books() repository.BookRepository               { return &bookRepo{s.direct()} }
func (s *Store) Personas() repository.PersonaRepository         { return &personaRepo{s.direct()} }
func (s *Store) Clients() repository.ClientRepository           { return &clientRepo{s.direct()} }
func (s *Store) Consignments() repository.ConsignmentRepository { return &consignmentRepo{s.direct()} }
func (s *Store) Sales() repository.SaleRepository               { return &saleRepo{s.direct()} }
func (s *Store) Settlements() repository.SettlementRepository   { return &settlementRepo{s.direct()} }

// RunConsignment implementa consignment.TxRunner.
func (s *Store) RunConsignment(ctx context.Context, fn func(
	books repository.BookRepository,
	personas repository.PersonaRepository,
	clients repository.ClientRepository,
	consignments repository.ConsignmentRepository,
) error) error {
	return s.run(ctx, func(a access) error {
		return fn(&bookRepo{a}, &personaRepo{a}, &clientRepo{a}, &consignmentRepo{a})
	})
}

// RunSale implementa sales.TxRunner.
func (s *Store) RunSale(ctx context.Context, fn func(
	books repository.BookRepository,
	clients repository.ClientRepository,
	sales repository.SaleRepository,
	settlements repository.SettlementRepository,
) error) error {
	return s.run(ctx, func(a access) error {
		return fn(&bookRepo{a}, &clientRepo{a}, &saleRepo{a}, &settlementRepo{a})
	})
}

// RunSettlement implementa settlement.TxRunner.
func (s *Store) RunSettlement(ctx context.Context, fn func(
	books repository.BookRepository,
	clients repository.ClientRepository,
	settlements repository.SettlementRepository,
	sales repository.SaleRepository,
) error) error {
	return s.run(ctx, func(a access) error {
		return fn(&bookRepo{a}, &clientRepo{a}, &settlementRepo{a}, &saleRepo{a})
	})
}

// RunCatalog implementa usecase.CatalogTxRunner.
func (s *Store) RunCatalog(ctx context.Context, fn func(
	books repository.BookRepository,
	personas repository.PersonaRepository,
) error) error {
	return s.run(ctx, func(a access) error {
		return fn(&bookRepo{a}, &personaRepo{a})
	})
}
