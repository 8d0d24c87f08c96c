package export

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

func TestExportHistory(t *testing.T) {
	product := &entity.Product{
		ID:          "prod-001",
		SKU:         "YOG-001",
		Name:        "Yogur natural",
		UnitMeasure: "un",
	}
	movements := []*entity.StockMovement{
		{
			ID:        "mov-1",
			BatchID:   "batch-1",
			ProductID: product.ID,
			Delta:     decimal.NewFromInt(100),
			Reason:    entity.ReasonInitialStock,
			CreatedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:        "mov-2",
			BatchID:   "batch-1",
			ProductID: product.ID,
			Delta:     decimal.NewFromInt(-30),
			Reason:    "venta mostrador",
			CreatedAt: time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC),
		},
	}

	out, err := NewEtreeHistoryExporter().ExportHistory(product, movements)
	require.NoError(t, err)

	// El documento debe poder re-parsearse y conservar estructura y orden.
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))

	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "StockHistory", root.Tag)
	assert.Equal(t, product.ID, root.SelectAttrValue("productId", ""))
	assert.Equal(t, product.SKU, root.SelectAttrValue("sku", ""))

	movs := root.SelectElement("Movements")
	require.NotNil(t, movs)
	assert.Equal(t, "2", movs.SelectAttrValue("count", ""))

	items := movs.SelectElements("Movement")
	require.Len(t, items, 2)
	assert.Equal(t, "mov-1", items[0].SelectAttrValue("id", ""))
	assert.Equal(t, "100", items[0].SelectElement("Delta").Text())
	assert.Equal(t, "-30", items[1].SelectElement("Delta").Text())
	assert.Equal(t, "venta mostrador", items[1].SelectElement("Reason").Text())
}

func TestExportHistory_SinMovimientos(t *testing.T) {
	product := &entity.Product{ID: "prod-001", SKU: "YOG-001", Name: "Yogur natural"}

	out, err := NewEtreeHistoryExporter().ExportHistory(product, nil)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	movs := doc.Root().SelectElement("Movements")
	require.NotNil(t, movs)
	assert.Equal(t, "0", movs.SelectAttrValue("count", ""))
	assert.Empty(t, movs.SelectElements("Movement"))
}
