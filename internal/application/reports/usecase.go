package reports

import (
	"context"

	"github.com/jhoicas/lotes-api/internal/application/dto"
	appinventory "github.com/jhoicas/lotes-api/internal/application/inventory"
	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

// StockReportPDFGenerator puerto de generación del PDF de resumen de stock.
type StockReportPDFGenerator interface {
	GenerateStockReport(
		ctx context.Context,
		product *entity.Product,
		summary *dto.StockSummaryResponse,
		batches []*entity.Batch,
	) ([]byte, error)
}

// HistoryXMLExporter puerto de exportación XML del ledger de un producto.
type HistoryXMLExporter interface {
	ExportHistory(product *entity.Product, movements []*entity.StockMovement) ([]byte, error)
}

// ReportUseCase compone los documentos del servicio de reportes: PDF del
// resumen de stock de un producto y export XML de su historial de
// movimientos. Solo lectura.
type ReportUseCase struct {
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
	lifecycle   *appinventory.BatchLifecycleUseCase
	aggregator  *appinventory.StockAggregator
	pdf         StockReportPDFGenerator
	xml         HistoryXMLExporter
}

// NewReportUseCase construye el caso de uso de reportes.
func NewReportUseCase(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	lifecycle *appinventory.BatchLifecycleUseCase,
	aggregator *appinventory.StockAggregator,
	pdf StockReportPDFGenerator,
	xml HistoryXMLExporter,
) *ReportUseCase {
	return &ReportUseCase{
		productRepo: productRepo,
		movRepo:     movRepo,
		lifecycle:   lifecycle,
		aggregator:  aggregator,
		pdf:         pdf,
		xml:         xml,
	}
}

// GenerateStockPDF genera el PDF del resumen de stock del producto (rollup +
// lotes activos en orden FIFO).
func (uc *ReportUseCase) GenerateStockPDF(ctx context.Context, productID string) ([]byte, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFoundError("Product with ID %s not found", productID)
	}
	summary, err := uc.aggregator.StockSummaryByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	batches, err := uc.lifecycle.GetActiveBatchesByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateStockReport(ctx, product, summary, batches)
}

// ExportHistoryXML exporta el historial completo de movimientos del producto
// como XML (incluye lotes ya borrados: el ledger les sobrevive).
func (uc *ReportUseCase) ExportHistoryXML(ctx context.Context, productID string) ([]byte, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFoundError("Product with ID %s not found", productID)
	}
	movements, err := uc.movRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	return uc.xml.ExportHistory(product, movements)
}
