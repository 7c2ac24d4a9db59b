package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epublit/epublit-api/internal/application/dto"
	"github.com/epublit/epublit-api/internal/application/usecase"
	"github.com/epublit/epublit-api/internal/domain"
	"github.com/epublit/epublit-api/internal/testutil/memstore"
)

const userID int64 = 1

func TestBookUseCase_CreateWithPersonas(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	personas := usecase.NewPersonaUseCase(store.Personas())
	books := usecase.NewBookUseCase(store, store.Books(), store.Personas())

	autor, err := personas.Create(ctx, userID, dto.CreatePersonaRequest{Nombre: "Julio Cortázar"})
	require.NoError(t, err)
	ilus, err := personas.Create(ctx, userID, dto.CreatePersonaRequest{Nombre: "Alberto Breccia"})
	require.NoError(t, err)

	created, err := books.Create(ctx, userID, dto.CreateBookRequest{
		ISBN:         "111",
		Titulo:       "Rayuela",
		Precio:       decimal.RequireFromString("1500.50"),
		Stock:        10,
		Autores:      []int64{autor.ID},
		Ilustradores: []int64{ilus.ID},
	})
	require.NoError(t, err)
	require.Len(t, created.Autores, 1)
	require.Len(t, created.Ilustradores, 1)

	got, err := books.Get(ctx, userID, "111")
	require.NoError(t, err)
	assert.Equal(t, "Julio Cortázar", got.Autores[0].Nombre)
	assert.Equal(t, "Alberto Breccia", got.Ilustradores[0].Nombre)

	_, err = books.Create(ctx, userID, dto.CreateBookRequest{ISBN: "111", Titulo: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestBookUseCase_UnknownPersonaRollsBack(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	books := usecase.NewBookUseCase(store, store.Books(), store.Personas())

	_, err := books.Create(ctx, userID, dto.CreateBookRequest{ISBN: "111", Titulo: "Rayuela", Autores: []int64{42}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = books.Get(ctx, userID, "111")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookUseCase_AddStock(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	books := usecase.NewBookUseCase(store, store.Books(), store.Personas())

	_, err := books.Create(ctx, userID, dto.CreateBookRequest{ISBN: "111", Titulo: "Rayuela", Stock: 3})
	require.NoError(t, err)

	res, err := books.AddStock(ctx, userID, "111", dto.AddStockRequest{Cantidad: 7})
	require.NoError(t, err)
	assert.Equal(t, 10, res.Stock)

	_, err = books.AddStock(ctx, userID, "111", dto.AddStockRequest{Cantidad: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = books.AddStock(ctx, userID, "999", dto.AddStockRequest{Cantidad: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := books.List(ctx, userID, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 10, list[0].Stock)
}

func TestBookUseCase_RejectsNegativeValues(t *testing.T) {
	store := memstore.New()
	books := usecase.NewBookUseCase(store, store.Books(), store.Personas())

	_, err := books.Create(context.Background(), userID, dto.CreateBookRequest{ISBN: "1", Titulo: "x", Precio: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = books.Create(context.Background(), userID, dto.CreateBookRequest{ISBN: "1", Titulo: "x", Stock: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = books.Create(context.Background(), userID, dto.CreateBookRequest{ISBN: "1", Titulo: "x", Precio: decimal.RequireFromString("10.0005")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = books.Get(context.Background(), userID, "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClientUseCase(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	clients := usecase.NewClientUseCase(store.Clients())

	c, err := clients.Create(ctx, userID, dto.CreateClientRequest{Nombre: "Librería Ñandú", CUIT: "20-12345678-6"})
	require.NoError(t, err)
	assert.Equal(t, "20123456786", c.CUIT)
	assert.Equal(t, "inscripto", c.Tipo)

	_, err = clients.Create(ctx, userID, dto.CreateClientRequest{Nombre: "Duplicado", CUIT: "20123456786"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = clients.Create(ctx, userID, dto.CreateClientRequest{Nombre: "Mala", CUIT: "20123456780"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = clients.Create(ctx, userID, dto.CreateClientRequest{Nombre: "Rara", CUIT: "20173080329", Tipo: "mayorista"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, store.Clients().AddStock(ctx, c.ID, "111", 4))
	stock, err := clients.Stock(ctx, userID, c.ID)
	require.NoError(t, err)
	require.Len(t, stock, 1)
	assert.Equal(t, 4, stock[0].Stock)

	_, err = clients.Stock(ctx, userID, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = clients.Get(ctx, userID+1, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := clients.List(ctx, userID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
