package consignment_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epublit/epublit-api/internal/application/consignment"
	"github.com/epublit/epublit-api/internal/application/dto"
	"github.com/epublit/epublit-api/internal/domain"
	"github.com/epublit/epublit-api/internal/domain/entity"
	"github.com/epublit/epublit-api/internal/testutil/memstore"
	"github.com/epublit/epublit-api/pkg/files"
	"github.com/epublit/epublit-api/pkg/logger"
)

const (
	userID  int64 = 1
	baseURL       = "https://files.example.com"
)

type fixture struct {
	store    *memstore.Store
	files    *memstore.Files
	docs     *memstore.Docs
	uc       *consignment.UseCase
	clientID int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()

	require.NoError(t, store.Users().Create(ctx, &entity.User{Username: "editorial", CUIT: "20173080329", RazonSocial: "Editorial Sur"}))
	require.NoError(t, store.Books().Create(ctx, &entity.Book{ISBN: "111", UserID: userID, Title: "Rayuela", Price: decimal.RequireFromString("1500.50"), Stock: 10}))
	require.NoError(t, store.Books().Create(ctx, &entity.Book{ISBN: "222", UserID: userID, Title: "Ficciones", Price: decimal.RequireFromString("980"), Stock: 2}))
	client := &entity.Client{UserID: userID, Name: "Librería Ñandú", CUIT: "20123456786", Type: entity.ClientTypeInscripto}
	require.NoError(t, store.Clients().Create(ctx, client))

	f := &fixture{store: store, files: memstore.NewFiles(), docs: &memstore.Docs{}, clientID: client.ID}
	f.uc = consignment.NewUseCase(store, store.Consignments(), store.Personas(), store.Users(), f.docs, f.files, baseURL, logger.Nop())
	return f
}

func (f *fixture) request(lines ...dto.BookQuantity) dto.CreateConsignmentRequest {
	return dto.CreateConsignmentRequest{IDCliente: f.clientID, Libros: lines}
}

func (f *fixture) stock(t *testing.T, isbn string) int {
	t.Helper()
	b, err := f.store.Books().GetByISBN(context.Background(), userID, isbn)
	require.NoError(t, err)
	require.NotNil(t, b)
	return b.Stock
}

func TestCreate_DecrementsStockAndRejectsOverdraw(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.uc.Create(ctx, userID, f.request(dto.BookQuantity{ISBN: "111", Cantidad: 5}))
	require.NoError(t, err)
	assert.Equal(t, 5, f.stock(t, "111"))
	require.Len(t, res.Libros, 1)
	assert.Equal(t, "Rayuela", res.Libros[0].Titulo)
	assert.True(t, strings.HasPrefix(res.RemitoPath, baseURL+"/remitos/remito-libreria-nandu-"), res.RemitoPath)

	cs, err := f.store.Clients().GetStockForUpdate(ctx, f.clientID, "111")
	require.NoError(t, err)
	assert.Equal(t, 5, cs.Stock)

	_, err = f.uc.Create(ctx, userID, f.request(dto.BookQuantity{ISBN: "111", Cantidad: 6}))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "111")
	assert.Equal(t, 5, f.stock(t, "111"))
	assert.Equal(t, 1, f.files.Len())
	require.Len(t, f.docs.Remitos, 1)
	assert.Equal(t, "Editorial Sur", f.docs.Remitos[0].Publisher.RazonSocial)
}

func TestCreate_BatchIsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, userID, f.request(
		dto.BookQuantity{ISBN: "111", Cantidad: 3},
		dto.BookQuantity{ISBN: "222", Cantidad: 5},
	))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ficciones")
	assert.Equal(t, 10, f.stock(t, "111"))
	assert.Equal(t, 2, f.stock(t, "222"))

	list, err := f.uc.List(ctx, userID, 0, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 0, f.files.Len())
}

func TestCreate_FirstFailingLineIsReported(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Create(context.Background(), userID, f.request(
		dto.BookQuantity{ISBN: "222", Cantidad: 3},
		dto.BookQuantity{ISBN: "111", Cantidad: 11},
	))
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Messages, 1)
	assert.Contains(t, ve.Messages[0], "222")
}

func TestCreate_RepeatedISBNConsumesRemainingStock(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Create(context.Background(), userID, f.request(
		dto.BookQuantity{ISBN: "111", Cantidad: 6},
		dto.BookQuantity{ISBN: "111", Cantidad: 5},
	))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, f.stock(t, "111"))

	res, err := f.uc.Create(context.Background(), userID, f.request(
		dto.BookQuantity{ISBN: "111", Cantidad: 6},
		dto.BookQuantity{ISBN: "111", Cantidad: 4},
	))
	require.NoError(t, err)
	assert.Len(t, res.Libros, 2)
	assert.Equal(t, 0, f.stock(t, "111"))
}

func TestCreate_NotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, userID, dto.CreateConsignmentRequest{
		IDCliente: 999,
		Libros:    []dto.BookQuantity{{ISBN: "111", Cantidad: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Create(ctx, userID, f.request(dto.BookQuantity{ISBN: "999", Cantidad: 1}))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "999")

	// Los libros de otro usuario no son visibles.
	_, err = f.uc.Create(ctx, userID+1, f.request(dto.BookQuantity{ISBN: "111", Cantidad: 1}))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 10, f.stock(t, "111"))
}

func TestCreate_StoreFailureLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	f.files.SaveErr = errors.New("disco lleno")

	_, err := f.uc.Create(context.Background(), userID, f.request(dto.BookQuantity{ISBN: "111", Cantidad: 2}))
	require.Error(t, err)
	assert.Equal(t, 10, f.stock(t, "111"))
}

func TestCreate_ConcurrentDualWrite(t *testing.T) {
	f := newFixture(t)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		errs   []error
		oks    int
		starts = make(chan struct{})
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-starts
			_, err := f.uc.Create(context.Background(), userID, f.request(dto.BookQuantity{ISBN: "111", Cantidad: 6}))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			oks++
		}()
	}
	close(starts)
	wg.Wait()

	assert.Equal(t, 1, oks)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], domain.ErrInsufficientStock)
	assert.Equal(t, 4, f.stock(t, "111"))
}

func TestGet_RewritesRemitoPathOnRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	autor := &entity.Persona{UserID: userID, Name: "Julio Cortázar"}
	require.NoError(t, f.store.Personas().Create(ctx, autor))
	require.NoError(t, f.store.Personas().AddToBook(ctx, entity.BookPersona{Persona: *autor, ISBN: "111", Role: entity.RoleAutor}))

	created, err := f.uc.Create(ctx, userID, f.request(dto.BookQuantity{ISBN: "111", Cantidad: 2}))
	require.NoError(t, err)

	stored, err := f.store.Consignments().GetByID(ctx, userID, created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotContains(t, stored.RemitoPath, "https://")
	assert.True(t, f.files.Has(files.FolderRemitos, stored.RemitoPath))

	got, err := f.uc.Get(ctx, userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, files.PublicURL(baseURL, files.FolderRemitos, stored.RemitoPath), got.RemitoPath)
	require.Len(t, got.Libros, 1)
	assert.Equal(t, 2, got.Libros[0].Cantidad)
	require.Len(t, got.Libros[0].Autores, 1)
	assert.Equal(t, "Julio Cortázar", got.Libros[0].Autores[0].Nombre)

	_, err = f.uc.Get(ctx, userID, created.ID+100)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.Get(ctx, userID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestList_IncludesClientData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, userID, f.request(dto.BookQuantity{ISBN: "111", Cantidad: 1}))
	require.NoError(t, err)
	_, err = f.uc.Create(ctx, userID, f.request(dto.BookQuantity{ISBN: "222", Cantidad: 1}))
	require.NoError(t, err)

	list, err := f.uc.List(ctx, userID, f.clientID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Greater(t, list[0].ID, list[1].ID)
	assert.Equal(t, "Librería Ñandú", list[0].NombreCliente)
	assert.Equal(t, "20123456786", list[0].CUIT)
	assert.True(t, strings.HasPrefix(list[0].RemitoPath, baseURL+"/remitos/"))

	other, err := f.uc.List(ctx, userID+1, 0, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestCreate_LongClientNameKeepsRemitoNameBounded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	long := &entity.Client{UserID: userID, Name: strings.Repeat("a", 250), CUIT: "20173080329", Type: entity.ClientTypeParticular}
	require.NoError(t, f.store.Clients().Create(ctx, long))

	res, err := f.uc.Create(ctx, userID, dto.CreateConsignmentRequest{
		IDCliente: long.ID,
		Libros:    []dto.BookQuantity{{ISBN: "111", Cantidad: 1}},
	})
	require.NoError(t, err)

	stored, err := f.store.Consignments().GetByID(ctx, userID, res.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(stored.RemitoPath), 255)
	assert.Regexp(t, `^remito-a{40}-[0-9a-f]{8}\.pdf$`, stored.RemitoPath)
	assert.True(t, f.files.Has(files.FolderRemitos, stored.RemitoPath))
}
