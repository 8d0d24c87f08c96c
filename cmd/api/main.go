package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/jhoicas/lotes-api/docs"
	"github.com/jhoicas/lotes-api/internal/application/auth"
	appinventory "github.com/jhoicas/lotes-api/internal/application/inventory"
	"github.com/jhoicas/lotes-api/internal/application/reports"
	"github.com/jhoicas/lotes-api/internal/application/usecase"
	infraexport "github.com/jhoicas/lotes-api/internal/infrastructure/export"
	infrapdf "github.com/jhoicas/lotes-api/internal/infrastructure/pdf"
	"github.com/jhoicas/lotes-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/lotes-api/internal/interfaces/http"
	"github.com/jhoicas/lotes-api/pkg/config"
	"github.com/jhoicas/lotes-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	clock := appinventory.SystemClock()
	lifecycleUC := appinventory.NewBatchLifecycleUseCase(txRunner, batchRepo, movementRepo, productRepo, clock)
	aggregator := appinventory.NewStockAggregator(batchRepo, clock, cfg.Inventory.NearExpiryDays)
	productUC := usecase.NewProductUseCase(productRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Reportes: PDF de stock (Maroto) y export XML del historial (etree)
	pdfGenerator := infrapdf.NewMarotoStockReport()
	xmlExporter := infraexport.NewEtreeHistoryExporter()
	reportUC := reports.NewReportUseCase(productRepo, movementRepo, lifecycleUC, aggregator, pdfGenerator, xmlExporter)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Lotes API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		ProductUC:  productUC,
		Lifecycle:  lifecycleUC,
		Aggregator: aggregator,
		ReportUC:   reportUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	// Loop de mantenimiento: recalcula estados de lotes contra el reloj para
	// que los vencimientos se reflejen aunque nadie consulte el lote.
	maintenanceCtx, stopMaintenance := context.WithCancel(ctx)
	if cfg.Inventory.RefreshIntervalMinute > 0 {
		go runStatusRefreshLoop(maintenanceCtx, lifecycleUC, time.Duration(cfg.Inventory.RefreshIntervalMinute)*time.Minute, log)
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stopMaintenance()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// runStatusRefreshLoop ejecuta el refresh masivo de estados cada interval
// hasta que el contexto se cancele. Las fallas por lote quedan en el log; el
// loop nunca se detiene por una iteración fallida.
func runStatusRefreshLoop(ctx context.Context, lifecycle *appinventory.BatchLifecycleUseCase, interval time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info().Dur("interval", interval).Msg("loop de refresh de estados iniciado")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("loop de refresh de estados detenido")
			return
		case <-ticker.C:
			outcomes, err := lifecycle.RefreshAllBatchStatuses(ctx)
			if err != nil {
				log.Error().Err(err).Msg("refresh masivo de estados")
				continue
			}
			failed := 0
			for _, o := range outcomes {
				if o.Error != "" {
					failed++
					log.Warn().Str("batch_id", o.BatchID).Str("error", o.Error).Msg("refresh de lote falló")
				}
			}
			log.Info().Int("total", len(outcomes)).Int("failed", failed).Msg("refresh masivo de estados completado")
		}
	}
}
