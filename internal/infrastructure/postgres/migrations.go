package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema crea las tablas e índices si no existen. Se ejecuta en el
// arranque del servidor, antes de aceptar tráfico.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS departments (
			id   TEXT PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS medicines (
			id                  TEXT PRIMARY KEY,
			brand_name          TEXT NOT NULL,
			item_name           TEXT NOT NULL DEFAULT '',
			batch_no            TEXT NOT NULL UNIQUE,
			manufacture_date    DATE,
			expire_date         DATE NOT NULL,
			buying_price        NUMERIC(12,2) NOT NULL DEFAULT 0,
			price               NUMERIC(12,2) NOT NULL DEFAULT 0,
			stock_carton        INTEGER NOT NULL DEFAULT 0,
			units_per_carton    INTEGER NOT NULL DEFAULT 1,
			stock_in_unit       INTEGER NOT NULL DEFAULT 0,
			low_stock_threshold INTEGER NOT NULL DEFAULT 10,
			unit                TEXT NOT NULL DEFAULT '',
			company_name        TEXT NOT NULL DEFAULT '',
			fsno                TEXT NOT NULL DEFAULT '',
			department_id       TEXT REFERENCES departments(id) ON DELETE SET NULL,
			created_by          TEXT NOT NULL DEFAULT '',
			created_at          TIMESTAMPTZ NOT NULL,
			updated_at          TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sales (
			id                  TEXT PRIMARY KEY,
			voucher_number      TEXT NOT NULL UNIQUE,
			sold_by             TEXT REFERENCES users(id),
			customer_name       TEXT NOT NULL DEFAULT '',
			customer_phone      TEXT NOT NULL DEFAULT '',
			tin_number          TEXT NOT NULL DEFAULT '',
			sale_date           TIMESTAMPTZ NOT NULL,
			payment_method      TEXT NOT NULL,
			discount_percentage NUMERIC(5,2) NOT NULL DEFAULT 0,
			base_price          NUMERIC(12,2) NOT NULL,
			discounted_amount   NUMERIC(12,2) NOT NULL DEFAULT 0,
			total_amount        NUMERIC(12,2) NOT NULL,
			discounted_by       TEXT REFERENCES users(id)
		)`,
		`CREATE TABLE IF NOT EXISTS sale_items (
			id          TEXT PRIMARY KEY,
			sale_id     TEXT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
			medicine_id TEXT NOT NULL REFERENCES medicines(id) ON DELETE RESTRICT,
			quantity    INTEGER NOT NULL,
			price       NUMERIC(12,2) NOT NULL,
			sale_type   TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			id                   TEXT PRIMARY KEY,
			discount             NUMERIC(5,2) NOT NULL DEFAULT 0,
			low_stock_threshold  INTEGER NOT NULL DEFAULT 10,
			expiry_reminder_days INTEGER NOT NULL DEFAULT 30,
			updated_at           TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_medicines_department ON medicines (department_id)`,
		`CREATE INDEX IF NOT EXISTS idx_medicines_expire ON medicines (expire_date)`,
		`CREATE INDEX IF NOT EXISTS idx_sales_date ON sales (sale_date)`,
		`CREATE INDEX IF NOT EXISTS idx_sale_items_sale ON sale_items (sale_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sale_items_medicine ON sale_items (medicine_id)`,
	}
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
