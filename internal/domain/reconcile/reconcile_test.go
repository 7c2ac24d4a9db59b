package reconcile_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epublit/epublit-api/internal/domain"
	"github.com/epublit/epublit-api/internal/domain/entity"
	"github.com/epublit/epublit-api/internal/domain/reconcile"
)

func TestTotal_Vacio(t *testing.T) {
	assert.True(t, reconcile.Total(nil).IsZero())
}

func TestTotal_SinDerivaDecimal(t *testing.T) {
	// 1000 líneas de 3 unidades a 0.001: Q×U = 3000 × 0.001 = 3 exacto.
	price := decimal.RequireFromString("0.001")
	lines := make([]entity.SaleLine, 1000)
	for i := range lines {
		lines[i] = entity.SaleLine{ISBN: "111", Quantity: 3, UnitPrice: price}
	}
	assert.Equal(t, "3", reconcile.Total(lines).String())

	// Precio con tres decimales que en float64 no es representable.
	price = decimal.RequireFromString("1234.567")
	lines = []entity.SaleLine{
		{Quantity: 7, UnitPrice: price},
		{Quantity: 11, UnitPrice: price},
		{Quantity: 1, UnitPrice: price},
	}
	want := price.Mul(decimal.NewFromInt(19))
	assert.True(t, want.Equal(reconcile.Total(lines)))
	assert.Equal(t, "23456.773", reconcile.Total(lines).String())
}

func TestTotal_PreciosMixtos(t *testing.T) {
	lines := []entity.SaleLine{
		{Quantity: 2, UnitPrice: decimal.RequireFromString("10.10")},
		{Quantity: 3, UnitPrice: decimal.RequireFromString("0.30")},
	}
	assert.Equal(t, "21.1", reconcile.Total(lines).String())
}

func TestValidPeriod(t *testing.T) {
	enero, err := entity.ParsePeriod("2025-01-01", "2025-01-31")
	require.NoError(t, err)
	solapado, err := entity.ParsePeriod("2025-01-15", "2025-02-15")
	require.NoError(t, err)
	febrero, err := entity.ParsePeriod("2025-02-01", "2025-02-28")
	require.NoError(t, err)

	assert.True(t, reconcile.ValidPeriod(nil, enero))
	assert.False(t, reconcile.ValidPeriod([]entity.Period{enero}, solapado))
	assert.True(t, reconcile.ValidPeriod([]entity.Period{enero}, febrero))
}

func TestStockLedger(t *testing.T) {
	l := reconcile.NewStockLedger()

	assert.True(t, l.Take("111", 10, 5))
	left, ok := l.Remaining("111")
	require.True(t, ok)
	assert.Equal(t, 5, left)

	// El mismo ISBN otra vez: se ignora el stock leído y se usa el remanente.
	assert.False(t, l.Take("111", 10, 6))
	left, _ = l.Remaining("111")
	assert.Equal(t, 5, left, "un Take fallido no descuenta")

	assert.True(t, l.Take("111", 10, 5))
	left, _ = l.Remaining("111")
	assert.Equal(t, 0, left)

	assert.False(t, l.Take("222", 3, 0), "cantidad cero no es válida")
	assert.Equal(t, []string{"111", "222"}, l.ISBNs())
}

func TestErrores(t *testing.T) {
	err := reconcile.InsufficientStockError("Rayuela", "111")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "111")
	assert.Contains(t, err.Error(), "Rayuela")

	err = reconcile.PeriodOverlapError()
	assert.ErrorIs(t, err, domain.ErrPeriodOverlap)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCheckPrice(t *testing.T) {
	tests := []struct {
		name  string
		price string
		ok    bool
	}{
		{"entero", "1500", true},
		{"tres decimales", "10.005", true},
		{"ceros de más", "10.5000", true},
		{"cero", "0", true},
		{"máximo", "99999999999.999", true},
		{"cuatro decimales", "10.0005", false},
		{"negativo", "-1", false},
		{"fuera de rango", "100000000000", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reconcile.CheckPrice("111", decimal.RequireFromString(tt.price))
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), "111")
		})
	}
}

func TestSettledSaleError(t *testing.T) {
	err := reconcile.SettledSaleError("111", "2025-01-10")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrPeriodOverlap)
	assert.Contains(t, err.Error(), "2025-01-10")
}
