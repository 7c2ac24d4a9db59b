// Package pdf genera los documentos de la editorial con Maroto v2.
//
// Layout común (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Editorial + CUIT     │  Tipo de documento + Fecha   │
//	│  CLIENTE: Nombre + CUIT + condición fiscal + domicilio       │
//	│  TABLA: una fila por libro                                    │
//	│  TOTALES (sólo liquidación)                                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/epublit/epublit-api/internal/application/ports"
	"github.com/epublit/epublit-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ ports.DocumentGenerator = (*MarotoGenerator)(nil)

// MarotoGenerator implementa ports.DocumentGenerator usando Maroto v2.
type MarotoGenerator struct{}

// NewMarotoGenerator construye el generador.
func NewMarotoGenerator() *MarotoGenerator { return &MarotoGenerator{} }

// Remito genera el remito de una consignación: libros, autores y cantidades entregadas.
func (g *MarotoGenerator) Remito(_ context.Context, data ports.RemitoData) ([]byte, error) {
	m := newDocument("Remito de consignación", data.Publisher.RazonSocial)

	m.AddRows(headerRow(data.Publisher, "REMITO DE CONSIGNACIÓN", data.Date.Format("02/01/2006")))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(data.Client))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeader(
		cell{"ISBN", 3, align.Left},
		cell{"Título", 4, align.Left},
		cell{"Autores", 3, align.Left},
		cell{"Cant.", 2, align.Right},
	))
	var units int
	for _, l := range data.Lines {
		units += l.Quantity
		m.AddRows(tableRow(
			cell{l.Book.ISBN, 3, align.Left},
			cell{l.Book.Title, 4, align.Left},
			cell{names(l.Authors), 3, align.Left},
			cell{fmt.Sprint(l.Quantity), 2, align.Right},
		))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow("Total de ejemplares:", fmt.Sprint(units)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar remito: %w", err)
	}
	return doc.GetBytes(), nil
}

// Settlement genera la liquidación: ventas del período con subtotal por línea y total.
func (g *MarotoGenerator) Settlement(_ context.Context, data ports.SettlementData) ([]byte, error) {
	m := newDocument("Liquidación de ventas", data.Publisher.RazonSocial)

	period := data.Period.Start.Format("02/01/2006") + " al " + data.Period.End.Format("02/01/2006")
	m.AddRows(headerRow(data.Publisher, "LIQUIDACIÓN", period))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(data.Client))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Libro: %s (ISBN %s)", data.Book.Title, data.Book.ISBN), props.Text{
			Style: fontstyle.Bold, Size: 9, Top: 2,
		}),
	)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeader(
		cell{"Fecha", 3, align.Left},
		cell{"Cant.", 2, align.Right},
		cell{"Precio unit.", 3, align.Right},
		cell{"Subtotal", 4, align.Right},
	))
	if len(data.Lines) == 0 {
		m.AddRows(row.New(7).Add(col.New(12).Add(
			text.New("Sin ventas en el período", props.Text{Size: 8, Align: align.Center, Top: 1, Color: colorGray}),
		)))
	}
	for _, l := range data.Lines {
		m.AddRows(tableRow(
			cell{l.Date.Format("02/01/2006"), 3, align.Left},
			cell{fmt.Sprint(l.Quantity), 2, align.Right},
			cell{formatMoney(l.UnitPrice), 3, align.Right},
			cell{formatMoney(l.Subtotal()), 4, align.Right},
		))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow("TOTAL:", formatMoney(data.Total)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar liquidación: %w", err)
	}
	return doc.GetBytes(), nil
}

func newDocument(title, author string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(nonEmpty(author, "epublit"), true).
		Build()
	return maroto.New(cfg)
}

// headerRow: editorial + CUIT (izq) y tipo de documento + fecha (der).
func headerRow(p ports.Publisher, kind, date string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(p.RazonSocial, "—"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("CUIT: %s   |   %s", nonEmpty(p.CUIT, "—"), nonEmpty(p.CondFiscal, "—")), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(kind, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(date, props.Text{
				Size: 9, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func clientRow(c entity.Client) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(c.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 5}),
			text.New(fmt.Sprintf("CUIT: %s   |   %s   |   %s",
				nonEmpty(c.CUIT, "—"),
				nonEmpty(c.CondFiscal, "—"),
				nonEmpty(c.Address, "—"),
			), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

type cell struct {
	value string
	size  int
	align align.Type
}

func tableHeader(cells ...cell) core.Row {
	cols := make([]core.Col, 0, len(cells))
	for _, c := range cells {
		cols = append(cols, col.New(c.size).Add(text.New(c.value, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...)
}

func tableRow(cells ...cell) core.Row {
	cols := make([]core.Col, 0, len(cells))
	for _, c := range cells {
		cols = append(cols, col.New(c.size).Add(text.New(c.value, props.Text{
			Size: 8, Align: c.align, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(7).Add(cols...)
}

func totalRow(label, value string) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(3).Add(text.New(value, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

func names(list []entity.Persona) string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, p.Name)
	}
	return strings.Join(out, ", ")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea con separador de miles "." y decimales ",".
// Ej: 1500.5 → "$ 1.500,50", -25000 → "-$ 25.000,00".
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	s := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + "$ " + string(buf) + "," + frac
}
