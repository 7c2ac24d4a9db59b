package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epublit/epublit-api/internal/application/ports"
	"github.com/epublit/epublit-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$ 0,00"},
		{"1500.5", "$ 1.500,50"},
		{"8641.969", "$ 8.641,97"},
		{"1234567.891", "$ 1.234.567,89"},
		{"-25000", "-$ 25.000,00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, formatMoney(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestMarotoGenerator_Remito(t *testing.T) {
	g := NewMarotoGenerator()
	out, err := g.Remito(context.Background(), ports.RemitoData{
		Publisher: ports.Publisher{RazonSocial: "Editorial Sur", CUIT: "20173080329"},
		Client:    entity.Client{Name: "Librería Ñandú", CUIT: "20123456786", CondFiscal: "Responsable Inscripto"},
		Date:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Lines: []entity.ConsignmentLine{
			{
				Book:     entity.Book{ISBN: "111", Title: "Rayuela"},
				Quantity: 3,
				Authors:  []entity.Persona{{Name: "Julio Cortázar"}},
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestMarotoGenerator_Settlement(t *testing.T) {
	g := NewMarotoGenerator()
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	lines := []entity.SaleLine{
		{ISBN: "111", Title: "Rayuela", Quantity: 7, UnitPrice: decimal.RequireFromString("1234.567"), Date: day},
	}
	out, err := g.Settlement(context.Background(), ports.SettlementData{
		Publisher: ports.Publisher{RazonSocial: "Editorial Sur"},
		Client:    entity.Client{Name: "Librería Ñandú"},
		Book:      entity.Book{ISBN: "111", Title: "Rayuela"},
		Period:    entity.Period{Start: day.AddDate(0, 0, -9), End: day.AddDate(0, 0, 20)},
		Lines:     lines,
		Total:     lines[0].Subtotal(),
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))

	// sin ventas también genera documento
	out, err = g.Settlement(context.Background(), ports.SettlementData{Client: entity.Client{Name: "X"}})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}
