package db

import (
	"context"
	"database/sql"
	"fmt"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS menu (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		price REAL NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		rating REAL NOT NULL DEFAULT 0,
		image TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_id TEXT UNIQUE NOT NULL,
		customer_name TEXT NOT NULL,
		customer_address TEXT NOT NULL,
		customer_phone TEXT NOT NULL,
		items TEXT NOT NULL,
		total_amount REAL NOT NULL,
		order_status TEXT NOT NULL DEFAULT 'Preparing',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS menu (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
		category TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		image TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id SERIAL PRIMARY KEY,
		order_id TEXT UNIQUE NOT NULL,
		customer_name TEXT NOT NULL,
		customer_address TEXT NOT NULL,
		customer_phone TEXT NOT NULL,
		items TEXT NOT NULL,
		total_amount DOUBLE PRECISION NOT NULL,
		order_status TEXT NOT NULL DEFAULT 'Preparing',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at)`,
}

// Migrate создает таблицы menu и orders, повторный вызов ничего не ломает
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var statements []string
	switch driver {
	case DriverPostgres:
		statements = postgresSchema
	case DriverSQLite:
		statements = sqliteSchema
	default:
		return fmt.Errorf("unknown db driver %q", driver)
	}

	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i+1, err)
		}
	}
	return nil
}
