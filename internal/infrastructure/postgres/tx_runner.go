package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/expertzappdev/bizfree-backend/internal/application/hierarchy"
	"github.com/expertzappdev/bizfree-backend/internal/domain/repository"
)

var _ hierarchy.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunCascade inicia una transacción READ COMMITTED, ejecuta fn con repos atados
// a la tx y hace Commit o Rollback.
func (r *TxRunner) RunCascade(ctx context.Context, fn func(
	taskListRepo repository.TaskListRepository,
	taskRepo repository.TaskRepository,
	documentRepo repository.DocumentRepository,
) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewTaskListRepository(tx), NewTaskRepository(tx), NewDocumentRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
