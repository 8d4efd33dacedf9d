package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/qoe-review-api/internal/application/adjustment"
	"github.com/jhoicas/qoe-review-api/internal/application/report"
	"github.com/jhoicas/qoe-review-api/internal/application/usecase"
	"github.com/jhoicas/qoe-review-api/internal/domain/repository"
)

var (
	_ adjustment.TxRunner           = (*TxRunner)(nil)
	_ usecase.ProjectTxRunner       = (*TxRunner)(nil)
	_ usecase.QuestionnaireTxRunner = (*TxRunner)(nil)
	_ report.SnapshotRunner         = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// run inicia una transacción con opts, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, opts pgx.TxOptions, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunAdjustments transacción READ COMMITTED con repos de ajustes y auditoría (mutaciones de revisión).
func (r *TxRunner) RunAdjustments(ctx context.Context, fn func(
	adjRepo repository.AdjustmentRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(NewAdjustmentRepository(tx), NewAuditLogRepository(tx))
	})
}

// RunProject transacción para crear un proyecto junto con su checklist.
func (r *TxRunner) RunProject(ctx context.Context, fn func(
	projectRepo repository.ProjectRepository,
	checklistRepo repository.ChecklistRepository,
) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(NewProjectRepository(tx), NewChecklistRepository(tx))
	})
}

// RunQuestionnaires transacción para cuestionarios y el ítem del checklist que depende de ellos.
func (r *TxRunner) RunQuestionnaires(ctx context.Context, fn func(
	questionnaireRepo repository.QuestionnaireRepository,
	checklistRepo repository.ChecklistRepository,
) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(NewQuestionnaireRepository(tx), NewChecklistRepository(tx))
	})
}

// RunSnapshot transacción REPEATABLE READ READ ONLY: todas las lecturas ven el mismo snapshot.
func (r *TxRunner) RunSnapshot(ctx context.Context, fn func(
	projectRepo repository.ProjectRepository,
	adjRepo repository.AdjustmentRepository,
	checklistRepo repository.ChecklistRepository,
) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	return r.run(ctx, opts, func(tx pgx.Tx) error {
		return fn(NewProjectRepository(tx), NewAdjustmentRepository(tx), NewChecklistRepository(tx))
	})
}
