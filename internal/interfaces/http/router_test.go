package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epublit/epublit-api/internal/application/auth"
	"github.com/epublit/epublit-api/internal/application/consignment"
	"github.com/epublit/epublit-api/internal/application/dto"
	"github.com/epublit/epublit-api/internal/application/sales"
	"github.com/epublit/epublit-api/internal/application/settlement"
	"github.com/epublit/epublit-api/internal/application/usecase"
	apphttp "github.com/epublit/epublit-api/internal/interfaces/http"
	"github.com/epublit/epublit-api/internal/testutil/memstore"
	"github.com/epublit/epublit-api/pkg/logger"
)

const filesURL = "https://files.example.com"

type apiTest struct {
	t     *testing.T
	app   *fiber.App
	files *memstore.Files
	token string
}

func newAPI(t *testing.T) *apiTest {
	t.Helper()
	log := logger.Nop()
	store := memstore.New()
	docs := &memstore.Docs{}
	fs := memstore.NewFiles()

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(store.Users(), nil, auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}),
		BookUC:        usecase.NewBookUseCase(store, store.Books(), store.Personas()),
		PersonaUC:     usecase.NewPersonaUseCase(store.Personas()),
		ClientUC:      usecase.NewClientUseCase(store.Clients()),
		ConsignmentUC: consignment.NewUseCase(store, store.Consignments(), store.Personas(), store.Users(), docs, fs, filesURL, log),
		SaleUC:        sales.NewUseCase(store, store.Sales(), log),
		SettlementUC: settlement.NewUseCase(store, store.Settlements(), store.Books(), store.Personas(),
			store.Sales(), store.Users(), docs, fs, filesURL, log),
		ServiceName: "epublit-test",
		JWTSecret:   testJWTSecret,
	})
	return &apiTest{t: t, app: app, files: fs}
}

// do envía body como JSON y devuelve status y cuerpo crudo.
func (a *apiTest) do(method, path string, body any) (int, []byte) {
	a.t.Helper()
	var r io.Reader
	if s, ok := body.(string); ok {
		r = strings.NewReader(s)
	} else if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

// create hace el POST y decodifica {success, message, data} de una alta.
func create[T any](a *apiTest, path string, body any) T {
	a.t.Helper()
	status, raw := a.do(http.MethodPost, path, body)
	require.Equal(a.t, fiber.StatusCreated, status, string(raw))
	var env struct {
		Success bool `json:"success"`
		Data    T    `json:"data"`
	}
	require.NoError(a.t, json.Unmarshal(raw, &env))
	require.True(a.t, env.Success)
	return env.Data
}

func errorMessages(t *testing.T, raw []byte) []string {
	t.Helper()
	body := decode[dto.ErrorResponse](t, raw)
	assert.False(t, body.Success)
	out := make([]string, 0, len(body.Errors))
	for _, e := range body.Errors {
		out = append(out, e.Message)
	}
	return out
}

func (a *apiTest) login() {
	a.t.Helper()
	create[dto.UserResponse](a, "/user/register", dto.RegisterRequest{
		Username: "editorial", Password: "secreto123", Email: "editorial@example.com", CUIT: "20-17308032-9",
	})

	status, raw := a.do(http.MethodPost, "/user/login", dto.LoginRequest{Username: "editorial", Password: "secreto123"})
	require.Equal(a.t, fiber.StatusOK, status, string(raw))
	a.token = decode[dto.LoginResponse](a.t, raw).Token
	require.NotEmpty(a.t, a.token)
}

func TestRouter_Health(t *testing.T) {
	api := newAPI(t)
	status, raw := api.do(http.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(raw), `"status":"ok"`)
}

func TestRouter_Auth(t *testing.T) {
	api := newAPI(t)

	status, raw := api.do(http.MethodGet, "/libros", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, []string{"header Authorization requerido"}, errorMessages(t, raw))

	status, raw = api.do(http.MethodPost, "/user/register", map[string]string{"username": "x"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.ElementsMatch(t, []string{
		"username debe tener al menos 3 caracteres",
		"password es requerido",
		"email es requerido",
		"cuit es requerido",
	}, errorMessages(t, raw))

	status, raw = api.do(http.MethodPost, "/user/register", dto.RegisterRequest{
		Username: "largo", Password: strings.Repeat("x", 73), Email: "largo@example.com", CUIT: "20173080329",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, []string{"password admite como máximo 72 caracteres"}, errorMessages(t, raw))

	api.login()

	status, raw = api.do(http.MethodPost, "/user/login", dto.LoginRequest{Username: "editorial", Password: "incorrecta"})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, []string{"usuario o contraseña incorrectos"}, errorMessages(t, raw))

	status, _ = api.do(http.MethodPost, "/user/register", dto.RegisterRequest{
		Username: "editorial", Password: "secreto123", Email: "otra@example.com", CUIT: "20173080329",
	})
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestRouter_ConsignmentSaleSettlementFlow(t *testing.T) {
	api := newAPI(t)
	api.login()

	client := create[dto.ClientResponse](api, "/clientes", dto.CreateClientRequest{
		Nombre: "Librería Ñandú", CUIT: "20123456786",
	})
	require.NotZero(t, client.ID)
	assert.Equal(t, "inscripto", client.Tipo)

	create[dto.BookResponse](api, "/libros", dto.CreateBookRequest{
		ISBN: "111", Titulo: "Rayuela", Precio: decimal.RequireFromString("1500.50"), Stock: 10,
	})

	// consignación que excede el stock: 400 y nada cambia
	status, raw := api.do(http.MethodPost, "/consignaciones", dto.CreateConsignmentRequest{
		IDCliente: client.ID, Libros: []dto.BookQuantity{{ISBN: "111", Cantidad: 20}},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, []string{"El libro Rayuela con isbn 111 no tiene suficiente stock"}, errorMessages(t, raw))
	assert.Zero(t, api.files.Len())

	cons := create[dto.ConsignmentResponse](api, "/consignaciones", dto.CreateConsignmentRequest{
		IDCliente: client.ID, Libros: []dto.BookQuantity{{ISBN: "111", Cantidad: 3}},
	})
	assert.True(t, strings.HasPrefix(cons.RemitoPath, filesURL+"/remitos/remito-libreria-nandu-"), cons.RemitoPath)
	assert.Equal(t, 1, api.files.Len())

	status, raw = api.do(http.MethodGet, "/libros/111", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 7, decode[dto.BookResponse](t, raw).Stock)

	status, raw = api.do(http.MethodGet, "/clientes/"+strconv.FormatInt(client.ID, 10)+"/stock", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []dto.ClientStockResponse{{ISBN: "111", Titulo: "Rayuela", Stock: 3}}, decode[[]dto.ClientStockResponse](t, raw))

	status, raw = api.do(http.MethodGet, "/consignaciones/"+strconv.FormatInt(cons.ID, 10), nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, cons.RemitoPath, decode[dto.ConsignmentResponse](t, raw).RemitoPath)

	status, raw = api.do(http.MethodGet, "/consignaciones?cliente="+strconv.FormatInt(client.ID, 10), nil)
	require.Equal(t, fiber.StatusOK, status)
	list := decode[[]dto.ConsignmentSummaryResponse](t, raw)
	require.Len(t, list, 1)
	assert.Equal(t, "Librería Ñandú", list[0].NombreCliente)

	create[dto.SaleResponse](api, "/ventas", dto.CreateSaleRequest{
		IDCliente: client.ID, Fecha: "2024-03-10", Libros: []dto.SaleLineRequest{{ISBN: "111", Cantidad: 2}},
	})

	// el cliente sólo tiene 1 ejemplar
	status, raw = api.do(http.MethodPost, "/ventas", dto.CreateSaleRequest{
		IDCliente: client.ID, Fecha: "2024-03-11", Libros: []dto.SaleLineRequest{{ISBN: "111", Cantidad: 2}},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, []string{"El cliente Librería Ñandú no tiene suficiente stock del libro Rayuela con isbn 111"}, errorMessages(t, raw))

	req := dto.CreateSettlementRequest{ISBN: "111", IDCliente: client.ID, FechaInicial: "2024-03-01", FechaFinal: "2024-03-31"}
	liq := create[dto.SettlementResponse](api, "/liquidaciones", req)
	assert.True(t, decimal.RequireFromString("3001").Equal(liq.Total), liq.Total.String())
	assert.True(t, strings.HasPrefix(liq.FilePath, filesURL+"/liquidaciones/"), liq.FilePath)

	status, raw = api.do(http.MethodPost, "/liquidaciones", dto.CreateSettlementRequest{
		ISBN: "111", IDCliente: client.ID, FechaInicial: "2024-03-31", FechaFinal: "2024-04-30",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, []string{"Ya existe una liquidacion en el periodo seleccionado"}, errorMessages(t, raw))

	status, raw = api.do(http.MethodGet, "/liquidaciones/"+strconv.FormatInt(liq.ID, 10), nil)
	require.Equal(t, fiber.StatusOK, status)
	detail := decode[dto.SettlementDetailResponse](t, raw)
	require.Len(t, detail.Ventas, 1)
	assert.Equal(t, 2, detail.Ventas[0].Cantidad)
	require.NotNil(t, detail.Libro)
	assert.Equal(t, "Rayuela", detail.Libro.Titulo)

	status, raw = api.do(http.MethodGet, "/liquidaciones?isbn=111", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, decode[[]dto.SettlementResponse](t, raw), 1)
}

func TestRouter_ValidationAndNotFound(t *testing.T) {
	api := newAPI(t)
	api.login()

	status, raw := api.do(http.MethodPost, "/consignaciones", map[string]any{})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.ElementsMatch(t, []string{"cliente es requerido", "libros es requerido"}, errorMessages(t, raw))

	status, raw = api.do(http.MethodPost, "/liquidaciones", map[string]any{
		"isbn": "111", "id_cliente": 1, "fecha_inicial": "01/03/2024", "fecha_final": "2024-03-31",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, []string{"fecha_inicial debe tener formato AAAA-MM-DD"}, errorMessages(t, raw))

	status, raw = api.do(http.MethodPost, "/consignaciones", dto.CreateConsignmentRequest{
		IDCliente: 99, Libros: []dto.BookQuantity{{ISBN: "111", Cantidad: 1}},
	})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Len(t, errorMessages(t, raw), 1)

	status, _ = api.do(http.MethodGet, "/consignaciones/abc", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = api.do(http.MethodGet, "/liquidaciones/999", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = api.do(http.MethodGet, "/libros?limit=500", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, raw = api.do(http.MethodPost, "/libros", "{")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.NotEmpty(t, errorMessages(t, raw))
}
