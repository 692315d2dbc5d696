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
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/pathassist/lab-billing/internal/application/analytics"
	"github.com/pathassist/lab-billing/internal/application/billing"
	"github.com/pathassist/lab-billing/internal/domain/repository"
	infracache "github.com/pathassist/lab-billing/internal/infrastructure/cache"
	infraevents "github.com/pathassist/lab-billing/internal/infrastructure/events"
	"github.com/pathassist/lab-billing/internal/infrastructure/memory"
	inframetrics "github.com/pathassist/lab-billing/internal/infrastructure/metrics"
	infrapdf "github.com/pathassist/lab-billing/internal/infrastructure/pdf"
	"github.com/pathassist/lab-billing/internal/infrastructure/postgres"
	"github.com/pathassist/lab-billing/internal/infrastructure/xlsx"
	httpRouter "github.com/pathassist/lab-billing/internal/interfaces/http"
	"github.com/pathassist/lab-billing/pkg/config"
	"github.com/pathassist/lab-billing/pkg/logger"
)

// repositories almacenamiento elegido por STORE_DRIVER.
type repositories struct {
	invoices repository.InvoiceRepository
	patients repository.PatientRepository
	services repository.ServiceCatalogRepository
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	repos := openRepositories(ctx, cfg, log)
	defer repos.close()

	// Métricas: registro propio con colectores de runtime
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := inframetrics.NewRecorder(reg)

	// Caché Redis opcional
	var cache billing.InvoiceCache
	if cfg.Redis.Enabled() {
		redisCache := infracache.NewRedisInvoiceCache(cfg.Redis, log.Component("cache"))
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, se continúa sin caché")
		} else {
			cache = redisCache
		}
	}

	// Eventos Kafka opcionales
	var publisher billing.InvoiceEventPublisher
	if cfg.Kafka.Enabled() {
		kafkaPublisher := infraevents.NewKafkaPublisher(cfg.Kafka, log.Component("kafka"))
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar publicador kafka")
			}
		}()
		publisher = kafkaPublisher
	}

	invoiceUC := billing.NewInvoiceUseCase(
		repos.invoices, repos.patients,
		cache, publisher, recorder,
		log.Component("billing"),
		billing.Settings{Currency: cfg.Billing.Currency, NumberPrefix: cfg.Billing.NumberPrefix},
	)
	draftUC := billing.NewDraftUseCase(invoiceUC, log.Component("drafts"), cfg.Billing.DraftTTL)
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(infrapdf.LabInfo{
		Name:    cfg.Billing.LabName,
		Address: cfg.Billing.LabAddress,
	})
	pdfUC := billing.NewPDFUseCase(invoiceUC, repos.patients, pdfGenerator, recorder)
	exportUC := billing.NewExportUseCase(invoiceUC, xlsx.NewExcelizeExporter())
	patientUC := billing.NewPatientUseCase(repos.patients)
	catalogUC := billing.NewCatalogUseCase(repos.services)
	dashboardUC := analytics.NewDashboardUseCase(repos.invoices, repos.patients)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "PathAssist Billing API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		InvoiceUC: invoiceUC,
		DraftUC:   draftUC,
		PDFUC:     pdfUC,
		ExportUC:  exportUC,
		PatientUC: patientUC,
		CatalogUC: catalogUC,
		Dashboard: dashboardUC,
		JWTSecret: cfg.JWT.Secret,
		Metrics:   reg,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openRepositories(ctx context.Context, cfg *config.Config, log *logger.Logger) repositories {
	if cfg.Store.Driver == config.StorePostgres {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		return repositories{
			invoices: postgres.NewInvoiceRepository(pool),
			patients: postgres.NewPatientRepository(pool),
			services: postgres.NewServiceCatalogRepository(pool),
			close:    pool.Close,
		}
	}

	latency := memory.Latency{Read: cfg.Store.ReadLatency, Write: cfg.Store.WriteLatency}
	store := memory.NewStore(latency)
	if cfg.Store.Seed {
		store = memory.NewSeededStore(latency)
	}
	return repositories{
		invoices: memory.NewInvoiceRepository(store),
		patients: memory.NewPatientRepository(store),
		services: memory.NewServiceCatalogRepository(store),
		close:    func() {},
	}
}
