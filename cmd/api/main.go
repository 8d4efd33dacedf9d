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
	"github.com/jhoicas/qoe-review-api/internal/application/adjustment"
	"github.com/jhoicas/qoe-review-api/internal/application/auth"
	"github.com/jhoicas/qoe-review-api/internal/application/report"
	"github.com/jhoicas/qoe-review-api/internal/application/usecase"
	infraexcel "github.com/jhoicas/qoe-review-api/internal/infrastructure/excel"
	infralock "github.com/jhoicas/qoe-review-api/internal/infrastructure/lock"
	infrapdf "github.com/jhoicas/qoe-review-api/internal/infrastructure/pdf"
	"github.com/jhoicas/qoe-review-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/qoe-review-api/internal/interfaces/http"
	"github.com/jhoicas/qoe-review-api/pkg/config"
	"github.com/jhoicas/qoe-review-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET no configurado")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, log); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	// Lock distribuido opcional; sin Redis la consistencia queda en FOR UPDATE + versión.
	var locker adjustment.Locker = adjustment.NopLocker{}
	if cfg.Redis.Enabled() {
		rdb, err := infralock.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = infralock.NewRedisLocker(rdb, cfg.Redis.LockTTL, log)
		log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.LockTTL).Msg("lock distribuido habilitado")
	}

	firmRepo := postgres.NewFirmRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	adjustmentRepo := postgres.NewAdjustmentRepository(pool)
	checklistRepo := postgres.NewChecklistRepository(pool)
	questionnaireRepo := postgres.NewQuestionnaireRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, firmRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	firmUC := usecase.NewFirmUseCase(firmRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	projectUC := usecase.NewProjectUseCase(txRunner, projectRepo, checklistRepo, usecase.MaterialityDefaults{
		Amount:     cfg.Materiality.DefaultAmount,
		Percentage: cfg.Materiality.DefaultPercentage,
	}, log)
	adjustmentUC := adjustment.NewAdjustmentUseCase(txRunner, adjustmentRepo, projectRepo, locker, log)
	questionnaireUC := usecase.NewQuestionnaireUseCase(txRunner, questionnaireRepo, projectRepo, log)

	// Generadores de reportes: Excel (excelize) y PDF (maroto)
	reportUC := report.NewReportUseCase(txRunner, map[report.Format]report.Generator{
		report.FormatExcel: infraexcel.NewReportGenerator(),
		report.FormatPDF:   infrapdf.NewReportGenerator(),
	}, report.Options{
		FirmName: cfg.Report.FirmName,
		Currency: cfg.Report.Currency,
	}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimit,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(log.FiberMiddleware())

	// Swagger UI en local: http://localhost:<port>/docs (requiere `swag init`)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "QoE Review API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		FirmUC:          firmUC,
		UserUC:          userUC,
		ProjectUC:       projectUC,
		AdjustmentUC:    adjustmentUC,
		ReportUC:        reportUC,
		QuestionnaireUC: questionnaireUC,
		JWTSecret:       cfg.JWT.Secret,
		Ping:            pool.Ping,
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
