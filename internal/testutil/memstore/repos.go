package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/epublit/epublit-api/internal/domain"
	"github.com/epublit/epublit-api/internal/domain/entity"
	"github.com/epublit/epublit-api/internal/domain/repository"
)

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

type userRepo struct{ a access }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	return r.a.write(func(s *state) error {
		for _, x := range s.users {
			if x.Username == u.Username {
				return fmt.Errorf("%w: username", domain.ErrDuplicate)
			}
		}
		u.ID = s.id()
		s.users[u.ID] = *u
		return nil
	})
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	var out *entity.User
	r.a.read(func(s *state) {
		if u, ok := s.users[id]; ok {
			out = &u
		}
	})
	return out, nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	var out *entity.User
	r.a.read(func(s *state) {
		for _, u := range s.users {
			if u.Username == username {
				u := u
				out = &u
				return
			}
		}
	})
	return out, nil
}

func (r *userRepo) GetByCUIT(_ context.Context, cuit string) (*entity.User, error) {
	var out *entity.User
	r.a.read(func(s *state) {
		for _, u := range s.users {
			if u.CUIT == cuit {
				u := u
				out = &u
				return
			}
		}
	})
	return out, nil
}

type bookRepo struct{ a access }

func (r *bookRepo) Create(_ context.Context, b *entity.Book) error {
	return r.a.write(func(s *state) error {
		k := bookKey{b.UserID, b.ISBN}
		if _, ok := s.books[k]; ok {
			return fmt.Errorf("%w: isbn %s", domain.ErrDuplicate, b.ISBN)
		}
		s.books[k] = *b
		return nil
	})
}

func (r *bookRepo) GetByISBN(_ context.Context, userID int64, isbn string) (*entity.Book, error) {
	var out *entity.Book
	r.a.read(func(s *state) {
		if b, ok := s.books[bookKey{userID, isbn}]; ok {
			out = &b
		}
	})
	return out, nil
}

func (r *bookRepo) GetByISBNForUpdate(ctx context.Context, userID int64, isbn string) (*entity.Book, error) {
	return r.GetByISBN(ctx, userID, isbn)
}

func (r *bookRepo) List(_ context.Context, userID int64, limit, offset int) ([]*entity.Book, error) {
	var out []*entity.Book
	r.a.read(func(s *state) {
		for k, b := range s.books {
			if k.userID == userID {
				b := b
				out = append(out, &b)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return page(out, limit, offset), nil
}

func (r *bookRepo) UpdateStock(_ context.Context, userID int64, isbn string, stock int) error {
	return r.a.write(func(s *state) error {
		k := bookKey{userID, isbn}
		b, ok := s.books[k]
		if !ok {
			return domain.ErrNotFound
		}
		if stock < 0 {
			return fmt.Errorf("stock negativo para %s", isbn)
		}
		b.Stock = stock
		s.books[k] = b
		return nil
	})
}

type personaRepo struct{ a access }

func (r *personaRepo) Create(_ context.Context, p *entity.Persona) error {
	return r.a.write(func(s *state) error {
		p.ID = s.id()
		s.personas[p.ID] = *p
		return nil
	})
}

func (r *personaRepo) GetByID(_ context.Context, userID, id int64) (*entity.Persona, error) {
	var out *entity.Persona
	r.a.read(func(s *state) {
		if p, ok := s.personas[id]; ok && p.UserID == userID {
			out = &p
		}
	})
	return out, nil
}

func (r *personaRepo) List(_ context.Context, userID int64) ([]*entity.Persona, error) {
	var out []*entity.Persona
	r.a.read(func(s *state) {
		for _, p := range s.personas {
			if p.UserID == userID {
				p := p
				out = append(out, &p)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *personaRepo) AddToBook(_ context.Context, bp entity.BookPersona) error {
	return r.a.write(func(s *state) error {
		for _, x := range s.bookPersonas {
			if x.ID == bp.ID && x.ISBN == bp.ISBN && x.Role == bp.Role {
				return fmt.Errorf("%w: persona %d ya asociada", domain.ErrDuplicate, bp.ID)
			}
		}
		s.bookPersonas = append(s.bookPersonas, bp)
		return nil
	})
}

func (r *personaRepo) ListByBook(_ context.Context, userID int64, isbn string) ([]entity.BookPersona, error) {
	var out []entity.BookPersona
	r.a.read(func(s *state) {
		for _, bp := range s.bookPersonas {
			if bp.UserID == userID && bp.ISBN == isbn {
				out = append(out, bp)
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Role != out[j].Role {
			return out[i].Role < out[j].Role
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

type clientRepo struct{ a access }

func (r *clientRepo) Create(_ context.Context, c *entity.Client) error {
	return r.a.write(func(s *state) error {
		c.ID = s.id()
		s.clients[c.ID] = *c
		return nil
	})
}

func (r *clientRepo) GetByID(_ context.Context, userID, id int64) (*entity.Client, error) {
	var out *entity.Client
	r.a.read(func(s *state) {
		if c, ok := s.clients[id]; ok && c.UserID == userID {
			out = &c
		}
	})
	return out, nil
}

func (r *clientRepo) GetByCUIT(_ context.Context, userID int64, cuit string) (*entity.Client, error) {
	var out *entity.Client
	r.a.read(func(s *state) {
		for _, c := range s.clients {
			if c.UserID == userID && c.CUIT == cuit {
				c := c
				out = &c
				return
			}
		}
	})
	return out, nil
}

func (r *clientRepo) List(_ context.Context, userID int64, limit, offset int) ([]*entity.Client, error) {
	var out []*entity.Client
	r.a.read(func(s *state) {
		for _, c := range s.clients {
			if c.UserID == userID {
				c := c
				out = append(out, &c)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func (r *clientRepo) ListStock(_ context.Context, userID, clientID int64) ([]entity.ClientStock, error) {
	var out []entity.ClientStock
	r.a.read(func(s *state) {
		for k, n := range s.clientStock {
			if k.clientID != clientID {
				continue
			}
			b := s.books[bookKey{userID, k.isbn}]
			out = append(out, entity.ClientStock{ClientID: clientID, ISBN: k.isbn, Title: b.Title, Stock: n})
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ISBN < out[j].ISBN })
	return out, nil
}

func (r *clientRepo) GetStockForUpdate(_ context.Context, clientID int64, isbn string) (*entity.ClientStock, error) {
	out := &entity.ClientStock{ClientID: clientID, ISBN: isbn}
	r.a.read(func(s *state) {
		out.Stock = s.clientStock[stockKey{clientID, isbn}]
	})
	return out, nil
}

func (r *clientRepo) AddStock(_ context.Context, clientID int64, isbn string, delta int) error {
	return r.a.write(func(s *state) error {
		k := stockKey{clientID, isbn}
		if s.clientStock[k]+delta < 0 {
			return fmt.Errorf("stock de cliente negativo para %s", isbn)
		}
		s.clientStock[k] += delta
		return nil
	})
}

type consignmentRepo struct{ a access }

func (r *consignmentRepo) Create(_ context.Context, c *entity.Consignment) error {
	return r.a.write(func(s *state) error {
		c.ID = s.id()
		stored := *c
		stored.Lines = append([]entity.ConsignmentLine(nil), c.Lines...)
		s.consignments[c.ID] = stored
		return nil
	})
}

func (r *consignmentRepo) GetByID(_ context.Context, userID, id int64) (*entity.Consignment, error) {
	var out *entity.Consignment
	r.a.read(func(s *state) {
		if c, ok := s.consignments[id]; ok && c.UserID == userID {
			c.Lines = nil
			out = &c
		}
	})
	return out, nil
}

func (r *consignmentRepo) ListLines(_ context.Context, consignmentID int64) ([]entity.ConsignmentLine, error) {
	var out []entity.ConsignmentLine
	r.a.read(func(s *state) {
		for _, l := range s.consignments[consignmentID].Lines {
			out = append(out, entity.ConsignmentLine{
				Book:     entity.Book{ISBN: l.Book.ISBN, Title: l.Book.Title, UserID: l.Book.UserID},
				Quantity: l.Quantity,
			})
		}
	})
	return out, nil
}

func (r *consignmentRepo) List(_ context.Context, userID int64, f repository.ConsignmentFilter) ([]*entity.ConsignmentSummary, error) {
	var out []*entity.ConsignmentSummary
	r.a.read(func(s *state) {
		for _, c := range s.consignments {
			if c.UserID != userID || (f.ClientID > 0 && c.ClientID != f.ClientID) {
				continue
			}
			cl := s.clients[c.ClientID]
			out = append(out, &entity.ConsignmentSummary{
				ID:         c.ID,
				Date:       c.Date,
				RemitoPath: c.RemitoPath,
				ClientID:   c.ClientID,
				ClientName: cl.Name,
				CUIT:       cl.CUIT,
				Email:      cl.Email,
				CondFiscal: cl.CondFiscal,
				ClientType: cl.Type,
			})
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, f.Limit, f.Offset), nil
}

type saleRepo struct{ a access }

func (r *saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	return r.a.write(func(s *state) error {
		sale.ID = s.id()
		for i := range sale.Lines {
			sale.Lines[i].SaleID = sale.ID
		}
		stored := *sale
		stored.Lines = append([]entity.SaleLine(nil), sale.Lines...)
		s.sales[sale.ID] = stored
		return nil
	})
}

func (r *saleRepo) GetByID(_ context.Context, userID, id int64) (*entity.Sale, error) {
	var out *entity.Sale
	r.a.read(func(s *state) {
		if sale, ok := s.sales[id]; ok && sale.UserID == userID {
			sale.Lines = append([]entity.SaleLine(nil), sale.Lines...)
			out = &sale
		}
	})
	return out, nil
}

func (r *saleRepo) List(_ context.Context, userID int64, f repository.SaleFilter) ([]*entity.Sale, error) {
	var out []*entity.Sale
	r.a.read(func(s *state) {
		for _, sale := range s.sales {
			if sale.UserID != userID || (f.ClientID > 0 && sale.ClientID != f.ClientID) {
				continue
			}
			if f.ISBN != "" && !hasISBN(sale.Lines, f.ISBN) {
				continue
			}
			sale := sale
			sale.Lines = append([]entity.SaleLine(nil), sale.Lines...)
			out = append(out, &sale)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, f.Limit, f.Offset), nil
}

func (r *saleRepo) ListLines(_ context.Context, series entity.SettlementSeries, period entity.Period) ([]entity.SaleLine, error) {
	var out []entity.SaleLine
	r.a.read(func(s *state) {
		for _, sale := range s.sales {
			if sale.UserID != series.UserID || sale.ClientID != series.ClientID || !period.Contains(sale.Date) {
				continue
			}
			for _, l := range sale.Lines {
				if l.ISBN == series.ISBN {
					out = append(out, l)
				}
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].SaleID < out[j].SaleID
	})
	return out, nil
}

func hasISBN(lines []entity.SaleLine, isbn string) bool {
	for _, l := range lines {
		if l.ISBN == isbn {
			return true
		}
	}
	return false
}

type settlementRepo struct{ a access }

// LockSeries no hace nada: las transacciones del store ya están serializadas.
func (r *settlementRepo) LockSeries(context.Context, entity.SettlementSeries) error { return nil }

func (r *settlementRepo) ListOverlapping(_ context.Context, series entity.SettlementSeries, p entity.Period) ([]entity.Period, error) {
	var out []entity.Period
	r.a.read(func(s *state) {
		for _, st := range s.settlements {
			if st.Series() == series && st.Period.Overlaps(p) {
				out = append(out, st.Period)
			}
		}
	})
	return out, nil
}

func (r *settlementRepo) Create(_ context.Context, st *entity.Settlement) error {
	return r.a.write(func(s *state) error {
		st.ID = s.id()
		s.settlements[st.ID] = *st
		return nil
	})
}

func (r *settlementRepo) GetByID(_ context.Context, userID, id int64) (*entity.Settlement, error) {
	var out *entity.Settlement
	r.a.read(func(s *state) {
		if st, ok := s.settlements[id]; ok && st.UserID == userID {
			out = &st
		}
	})
	return out, nil
}

func (r *settlementRepo) List(_ context.Context, userID int64, f repository.SettlementFilter) ([]*entity.Settlement, error) {
	var out []*entity.Settlement
	r.a.read(func(s *state) {
		for _, st := range s.settlements {
			if st.UserID != userID || (f.ISBN != "" && st.ISBN != f.ISBN) || (f.ClientID > 0 && st.ClientID != f.ClientID) {
				continue
			}
			st := st
			out = append(out, &st)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, f.Limit, f.Offset), nil
}
