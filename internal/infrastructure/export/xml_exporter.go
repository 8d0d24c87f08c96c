// Package export implementa la exportación XML del historial de movimientos
// de un producto.
package export

import (
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// EtreeHistoryExporter implementa reports.HistoryXMLExporter usando etree.
//
// Formato del documento:
//
//	<StockHistory productId="..." sku="..." generatedAt="...">
//	  <Product><Name/><UnitMeasure/></Product>
//	  <Movements count="N">
//	    <Movement id="...">
//	      <BatchID/><Delta/><Reason/><CreatedAt/>
//	    </Movement>
//	  </Movements>
//	</StockHistory>
type EtreeHistoryExporter struct{}

// NewEtreeHistoryExporter construye el exportador.
func NewEtreeHistoryExporter() *EtreeHistoryExporter { return &EtreeHistoryExporter{} }

// ExportHistory serializa el ledger del producto en orden cronológico.
func (e *EtreeHistoryExporter) ExportHistory(product *entity.Product, movements []*entity.StockMovement) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("StockHistory")
	root.CreateAttr("productId", product.ID)
	root.CreateAttr("sku", product.SKU)
	root.CreateAttr("generatedAt", time.Now().UTC().Format(time.RFC3339))

	prodEl := root.CreateElement("Product")
	prodEl.CreateElement("Name").SetText(product.Name)
	prodEl.CreateElement("UnitMeasure").SetText(product.UnitMeasure)

	movsEl := root.CreateElement("Movements")
	movsEl.CreateAttr("count", fmt.Sprintf("%d", len(movements)))
	for _, m := range movements {
		movEl := movsEl.CreateElement("Movement")
		movEl.CreateAttr("id", m.ID)
		movEl.CreateElement("BatchID").SetText(m.BatchID)
		movEl.CreateElement("Delta").SetText(m.Delta.String())
		movEl.CreateElement("Reason").SetText(m.Reason)
		movEl.CreateElement("CreatedAt").SetText(m.CreatedAt.UTC().Format(time.RFC3339))
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("export: serializar historial: %w", err)
	}
	return out, nil
}
