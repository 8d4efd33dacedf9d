// seed crea una firma de demostración con sus usuarios (admin, reviewer, analyst), un proyecto
// y un lote de ajustes sugeridos, usando los mismos casos de uso que la API.
//
// Uso: go run ./cmd/seed [nombre de la firma]
// La contraseña de los usuarios se toma de SEED_PASSWORD (por defecto "cambiar-1234").
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/qoe-review-api/internal/application/adjustment"
	"github.com/jhoicas/qoe-review-api/internal/application/auth"
	"github.com/jhoicas/qoe-review-api/internal/application/dto"
	"github.com/jhoicas/qoe-review-api/internal/application/usecase"
	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
	"github.com/jhoicas/qoe-review-api/internal/infrastructure/postgres"
	"github.com/jhoicas/qoe-review-api/pkg/config"
	"github.com/jhoicas/qoe-review-api/pkg/logger"
	"github.com/shopspring/decimal"
)

func main() {
	firmName := "Firma Demo QoE"
	if len(os.Args) > 1 {
		firmName = os.Args[1]
	}
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "cambiar-1234"
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool, log); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	firmRepo := postgres.NewFirmRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	firmUC := usecase.NewFirmUseCase(firmRepo)
	authUC := auth.NewAuthUseCase(userRepo, firmRepo, auth.JWTConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})
	projectUC := usecase.NewProjectUseCase(txRunner, projectRepo, postgres.NewChecklistRepository(pool), usecase.MaterialityDefaults{
		Amount:     cfg.Materiality.DefaultAmount,
		Percentage: cfg.Materiality.DefaultPercentage,
	}, log)
	adjustmentUC := adjustment.NewAdjustmentUseCase(txRunner, postgres.NewAdjustmentRepository(pool), projectRepo, nil, log)
	questionnaireUC := usecase.NewQuestionnaireUseCase(txRunner, postgres.NewQuestionnaireRepository(pool), projectRepo, log)

	firm, err := firmUC.Create(ctx, dto.CreateFirmRequest{Name: firmName})
	if err != nil {
		log.Fatal().Err(err).Str("firm", firmName).Msg("crear firma")
	}

	// El primer usuario registrado de la firma queda como admin.
	slug := firm.ID[:8]
	users := make(map[string]*dto.UserResponse, 3)
	for _, role := range []string{entity.RoleAdmin, entity.RoleReviewer, entity.RoleAnalyst} {
		u, err := authUC.RegisterUser(ctx, dto.RegisterRequest{
			Email:    fmt.Sprintf("%s+%s@demo.local", role, slug),
			Password: password,
			FirmID:   firm.ID,
			Name:     "Demo " + role,
			Role:     role,
		})
		if err != nil {
			log.Fatal().Err(err).Str("role", role).Msg("registrar usuario")
		}
		users[role] = u
	}

	base := decimal.NewFromInt(2_500_000)
	project, err := projectUC.Create(ctx, firm.ID, users[entity.RoleAnalyst].ID, dto.CreateProjectRequest{
		Name:       "Adquisición Industrias Andinas",
		ClientName: "Industrias Andinas S.A.S.",
		BaseValue:  &base,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("crear proyecto")
	}

	confidence := func(v float64) *float64 { return &v }
	out, err := adjustmentUC.IngestSuggestions(ctx, firm.ID, users[entity.RoleAnalyst].ID, project.ID, dto.IngestSuggestionsRequest{
		Candidates: []dto.SuggestionCandidate{
			{
				AdjustmentType:  string(entity.AdjustmentExecutiveCompensation),
				Title:           "Bono extraordinario del gerente general",
				Amount:          180000,
				AINarrative:     "Pago único ligado a la venta; no recurrente.",
				ConfidenceScore: confidence(0.86),
				SourceData:      &dto.SourceDataDTO{Kind: string(entity.SourceLedgerLine), Reference: "5105-15", Period: "FY2024"},
			},
			{
				AdjustmentType:  string(entity.AdjustmentLitigationCosts),
				Title:           "Honorarios de litigio laboral",
				Amount:          42000,
				ConfidenceScore: confidence(0.74),
				SourceData:      &dto.SourceDataDTO{Kind: string(entity.SourceDocumentExcerpt), Reference: "Informe legal p. 4"},
			},
			{
				AdjustmentType:  string(entity.AdjustmentTravelEntertainment),
				Title:           "Viajes personales cargados a la compañía",
				Amount:          900,
				ConfidenceScore: confidence(0.55),
			},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("ingestar sugerencias")
	}

	qn, err := questionnaireUC.Create(ctx, firm.ID, users[entity.RoleAnalyst].ID, project.ID, dto.CreateQuestionnaireRequest{
		Title: "Preguntas a la gerencia",
		Questions: []dto.QuestionInput{
			{
				QuestionText:    "¿La indemnización del CFO responde a un hecho no recurrente?",
				QuestionType:    string(entity.QuestionBoolean),
				IsRequired:      true,
				IsAIGenerated:   true,
				GeneratedReason: "Ajuste sugerido de tipo severance",
				Followups: []dto.FollowupConditionDTO{
					{Operator: "equals", Value: "false", Prompt: "Indique cada cuánto se repiten estos pagos"},
				},
			},
			{
				QuestionText: "Criterio de reconocimiento de ingresos",
				QuestionType: string(entity.QuestionMultipleChoice),
				Options:      []string{"Devengado", "Caja"},
			},
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("crear cuestionario")
	}

	fmt.Printf("Firma %s (%s)\n", firm.Name, firm.ID)
	for _, role := range []string{entity.RoleAdmin, entity.RoleReviewer, entity.RoleAnalyst} {
		fmt.Printf("  %-8s %s\n", role, users[role].Email)
	}
	fmt.Printf("Proyecto %s con %d ajustes sugeridos y cuestionario %s\n", project.ID, len(out.Created), qn.ID)
}
