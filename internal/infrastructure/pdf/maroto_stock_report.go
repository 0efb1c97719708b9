// Package pdf genera el reporte de valorización de inventario en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: ID | Ítem | Cantidad | Precio Unit. | Valor          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL: valor total del inventario                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

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

	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	"github.com/jhoicas/stock-tracker/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 240, Green: 244, Blue: 248}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoStockReport implementa inventory.StockReportGenerator usando Maroto v2.
type MarotoStockReport struct {
	title  string
	author string
}

var _ inventory.StockReportGenerator = (*MarotoStockReport)(nil)

// NewMarotoStockReport construye el generador; author aparece en los metadatos del PDF.
func NewMarotoStockReport(author string) *MarotoStockReport {
	return &MarotoStockReport{title: "Inventory Valuation", author: nonEmpty(author, "stock-tracker")}
}

// Generate arma el PDF del listado y devuelve sus bytes.
func (g *MarotoStockReport) Generate(ctx context.Context, listing *inventory.StockListing) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, fmt.Errorf("pdf: listado nil")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(listing))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(listing.Items) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(text.New("No items in stock.", props.Text{
			Size: 8, Align: align.Center, Color: colorGray, Top: 2,
		}))))
	}
	for _, r := range tableDetailRows(listing) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(listing))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoStockReport) headerRow(listing *inventory.StockListing) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(g.title, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Generated: "+listing.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"), props.Text{
				Size: 8, Align: align.Right, Color: colorGray, Top: 3,
			}),
			text.New(fmt.Sprintf("Items: %d", len(listing.Items)), props.Text{
				Size: 8, Align: align.Right, Color: colorGray, Top: 8,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("ID", 1, align.Center),
		h("Item", 5, align.Left),
		h("Quantity", 2, align.Right),
		h("Unit Price", 2, align.Right),
		h("Value", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableDetailRows una fila por ítem, con fondo alterno.
func tableDetailRows(listing *inventory.StockListing) []core.Row {
	result := make([]core.Row, 0, len(listing.Items))
	for i, it := range listing.Items {
		r := row.New(7).Add(
			col.New(1).Add(text.New(strconv.FormatInt(it.ID, 10),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(it.Name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(strconv.FormatInt(it.Quantity, 10),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(money.FormatWithSymbol(it.Subtotal),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(money.FormatWithSymbol(it.Value()),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		)
		if i%2 == 1 {
			r = r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		result = append(result, r)
	}
	return result
}

func totalRow(listing *inventory.StockListing) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(4).Add(text.New("Total Inventory Value:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(2).Add(text.New(money.FormatWithSymbol(listing.TotalValue), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
