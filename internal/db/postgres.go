package db

import (
	"context"
	"database/sql"
	"fmt"

	"deliciousbites/internal/config"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func NewPostgresDB(ctx context.Context, cfg *config.Config, log *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		log.Error("postgres connection failed", zap.String("host", cfg.DBHost), zap.Error(err))
		db.Close()
		return nil, err
	}
	log.Info("connected to postgres", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))
	return db, nil
}

// Open подключение по DB_DRIVER из конфига
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*sql.DB, error) {
	switch cfg.DBDriver {
	case DriverPostgres:
		return NewPostgresDB(ctx, cfg, log)
	case DriverSQLite:
		return NewSQLiteDB(ctx, cfg.SQLitePath, log)
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.DBDriver)
	}
}
