package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/farmacia-pos/internal/application/sales"
	"github.com/tu-usuario/farmacia-pos/internal/domain/repository"
)

// Ensure TxRunner implements sales.SalesTxRunner.
var _ sales.SalesTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Los bloqueos FOR UPDATE que tome fn viven hasta aquí.
func (r *TxRunner) Run(ctx context.Context, fn func(
	medRepo repository.MedicineRepository,
	saleRepo repository.SaleRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	medRepo := NewMedicineRepository(tx)
	saleRepo := NewSaleRepository(tx)

	if err := fn(medRepo, saleRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
