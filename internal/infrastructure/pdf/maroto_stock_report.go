// Package pdf implementa la generación del reporte de stock por producto.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del producto + SKU  │  Fecha del reporte    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Stock total | Lotes activos | Por vencer          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Lote | Producción | Vencimiento | Inicial | Actual  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda del criterio FIFO                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

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

	"github.com/jhoicas/lotes-api/internal/application/dto"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 60, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoStockReport implementa reports.StockReportPDFGenerator usando Maroto v2.
type MarotoStockReport struct{}

// NewMarotoStockReport construye el generador.
func NewMarotoStockReport() *MarotoStockReport { return &MarotoStockReport{} }

// GenerateStockReport genera el PDF y devuelve sus bytes.
func (g *MarotoStockReport) GenerateStockReport(
	_ context.Context,
	product *entity.Product,
	summary *dto.StockSummaryResponse,
	batches []*entity.Batch,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de Stock por Lotes", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(product))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Tabla de lotes activos en orden FIFO
	m.AddRows(tableHeaderRow())
	for _, r := range tableBatchRows(batches) {
		m.AddRows(r)
	}
	if len(batches) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin lotes activos para este producto.", props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre del producto + SKU (izq) y fecha del reporte (der).
func headerRow(product *entity.Product) core.Row {
	fecha := time.Now().Format("02/01/2006 15:04")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(product.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("SKU: "+product.SKU, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REPORTE DE STOCK POR LOTES", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// summaryRow: rollup del producto en tres métricas.
func summaryRow(summary *dto.StockSummaryResponse) core.Row {
	metric := func(label, value string, color *props.Color) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Center,
				Color: colorGray, Top: 1,
			}),
			text.New(value, props.Text{
				Style: fontstyle.Bold, Size: 13, Align: align.Center,
				Color: color, Top: 7,
			}),
		)
	}
	expColor := colorPrimary
	if summary.ExpiringSoon > 0 {
		expColor = colorAlert
	}
	return row.New(18).Add(
		metric("STOCK TOTAL", summary.TotalStock.String(), colorPrimary),
		metric("LOTES ACTIVOS", fmt.Sprintf("%d", summary.ActiveBatches), colorPrimary),
		metric("POR VENCER", fmt.Sprintf("%d", summary.ExpiringSoon), expColor),
	)
}

// tableHeaderRow: cabecera de la tabla de lotes.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Lote", 4, align.Left),
		h("Producción", 2, align.Center),
		h("Vencimiento", 2, align.Center),
		h("Cant. Inicial", 2, align.Right),
		h("Cant. Actual", 2, align.Right),
	)
}

// tableBatchRows: una fila por lote activo, el más viejo primero.
func tableBatchRows(batches []*entity.Batch) []core.Row {
	result := make([]core.Row, 0, len(batches))
	for _, b := range batches {
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(
				b.ID,
				props.Text{Size: 7, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				b.ProductionDate.Format("02/01/2006"),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				b.ExpirationDate.Format("02/01/2006"),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				b.InitialQuantity.String(),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				b.CurrentQuantity.String(),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// footerRow: leyenda del criterio de ordenamiento.
func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			"Los lotes se listan del más antiguo al más reciente (FIFO por fecha de producción). "+
				"Las cantidades reflejan el estado del inventario al momento de generar el reporte.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}
