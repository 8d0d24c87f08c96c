package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/lotes-api/internal/application/auth"
	appinventory "github.com/jhoicas/lotes-api/internal/application/inventory"
	"github.com/jhoicas/lotes-api/internal/application/reports"
	"github.com/jhoicas/lotes-api/internal/application/usecase"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ProductUC  *usecase.ProductUseCase
	Lifecycle  *appinventory.BatchLifecycleUseCase
	Aggregator *appinventory.StockAggregator
	ReportUC   *reports.ReportUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)

	// Batches (protegido)
	batchHandler := NewBatchHandler(deps.Lifecycle, deps.Aggregator)
	batches := protected.Group("/batches")
	batches.Post("/", batchHandler.Create)
	batches.Post("/refresh-statuses", batchHandler.RefreshAllStatuses)
	batches.Get("/:id", batchHandler.GetByID)
	batches.Patch("/:id/quantity", batchHandler.UpdateQuantity)
	batches.Post("/:id/deplete", batchHandler.Deplete)
	batches.Post("/:id/refresh-status", batchHandler.RefreshStatus)
	batches.Delete("/:id", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), batchHandler.Delete)

	// Stock por producto (protegido)
	products.Get("/:id/batches/active", batchHandler.ActiveByProduct)
	products.Get("/:id/stock", batchHandler.TotalStock)
	products.Get("/:id/stock/summary", batchHandler.StockSummary)
	products.Post("/:id/out-of-stock", batchHandler.OutOfStock)

	// Historial del ledger (protegido)
	protected.Get("/inventory/history", batchHandler.History)

	// Reportes (protegido)
	reportHandler := NewReportHandler(deps.ReportUC)
	products.Get("/:id/report.pdf", reportHandler.StockPDF)
	products.Get("/:id/history.xml", reportHandler.HistoryXML)
}
