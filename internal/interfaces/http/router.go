package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/qoe-review-api/internal/application/adjustment"
	"github.com/jhoicas/qoe-review-api/internal/application/auth"
	"github.com/jhoicas/qoe-review-api/internal/application/report"
	"github.com/jhoicas/qoe-review-api/internal/application/usecase"
	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	FirmUC          *usecase.FirmUseCase
	UserUC          *usecase.UserUseCase
	ProjectUC       *usecase.ProjectUseCase
	AdjustmentUC    *adjustment.AdjustmentUseCase
	ReportUC        *report.ReportUseCase
	QuestionnaireUC *usecase.QuestionnaireUseCase
	JWTSecret       string
	// Ping verifica dependencias para /health (nil = siempre ok).
	Ping func(ctx context.Context) error
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps.Ping))

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Firms (público: alta de la firma antes del primer usuario)
	firms := api.Group("/firms")
	firmHandler := NewFirmHandler(deps.FirmUC)
	firms.Get("/", firmHandler.List)
	firms.Post("/", firmHandler.Create)
	firms.Get("/:id", firmHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)
	reviewers := RequireRole(entity.RoleReviewer, entity.RoleAdmin)

	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/me", userHandler.Me)
	users.Get("/", adminOnly, userHandler.List)

	projects := protected.Group("/projects")
	projectHandler := NewProjectHandler(deps.ProjectUC)
	adjustmentHandler := NewAdjustmentHandler(deps.AdjustmentUC)
	reportHandler := NewReportHandler(deps.ReportUC)
	questionnaireHandler := NewQuestionnaireHandler(deps.QuestionnaireUC)
	projects.Post("/", projectHandler.Create)
	projects.Get("/", projectHandler.List)
	projects.Get("/:id", projectHandler.GetByID)
	projects.Put("/:id", projectHandler.Update)
	projects.Delete("/:id", adminOnly, projectHandler.Delete)

	projects.Get("/:id/adjustments", adjustmentHandler.ListByProject)
	projects.Post("/:id/adjustments", adjustmentHandler.CreateManual)
	projects.Post("/:id/adjustments/suggestions", adjustmentHandler.IngestSuggestions)

	projects.Get("/:id/questionnaires", questionnaireHandler.ListByProject)
	projects.Post("/:id/questionnaires", questionnaireHandler.Create)

	projects.Get("/:id/checklist", reportHandler.Checklist)
	projects.Put("/:id/checklist/:itemId", reviewers, projectHandler.UpdateChecklistItem)
	projects.Get("/:id/readiness", reportHandler.Readiness)
	projects.Get("/:id/summary", reportHandler.Summary)
	projects.Get("/:id/reports/excel", reportHandler.Excel)
	projects.Get("/:id/reports/pdf", reportHandler.PDF)

	adjustments := protected.Group("/adjustments")
	adjustments.Get("/:id", adjustmentHandler.GetByID)
	adjustments.Put("/:id", adjustmentHandler.Update)
	adjustments.Get("/:id/history", adjustmentHandler.History)
	adjustments.Post("/:id/review", reviewers, adjustmentHandler.Review)
	adjustments.Post("/:id/reopen", adminOnly, adjustmentHandler.Reopen)
	adjustments.Put("/:id/force-include", reviewers, adjustmentHandler.SetForceInclude)
	adjustments.Delete("/:id", adminOnly, adjustmentHandler.Delete)

	questionnaires := protected.Group("/questionnaires")
	questionnaires.Get("/:id", questionnaireHandler.GetByID)
	questionnaires.Put("/:id/active", reviewers, questionnaireHandler.SetActive)

	questions := protected.Group("/questions")
	questions.Get("/:id/responses", questionnaireHandler.Responses)
	questions.Post("/:id/respond", questionnaireHandler.Respond)
}

// healthHandler responde 200 si ping es nil o no falla; 503 en caso contrario.
func healthHandler(ping func(ctx context.Context) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
