package main

import (
	"context"
	"database/sql"
	"log"

	"deliciousbites/internal/config"
	"deliciousbites/internal/db"
	"deliciousbites/internal/logger"
	"deliciousbites/internal/repo"

	"go.uber.org/zap"
)

type migration struct {
	name string
	run  func(ctx context.Context, conn *sql.DB) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Panic("Ошибка конфига ", err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Panic("Ошибка логгера ", err)
	}
	defer zlog.Sync()

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	defer conn.Close()

	migrations := []migration{
		{"schema", func(ctx context.Context, conn *sql.DB) error {
			return db.Migrate(ctx, conn, cfg.DBDriver)
		}},
		{"menu seed", func(ctx context.Context, conn *sql.DB) error {
			inserted, err := repo.NewMenuRepo(conn).Seed(ctx, repo.DefaultMenu)
			if err == nil {
				zlog.Info("menu items inserted", zap.Int("count", inserted))
			}
			return err
		}},
	}

	successes := 0
	for _, m := range migrations {
		if err := m.run(ctx, conn); err != nil {
			zlog.Error("migration failed", zap.String("migration", m.name), zap.Error(err))
			break // без схемы сид не имеет смысла
		}
		zlog.Info("migration applied", zap.String("migration", m.name))
		successes++
	}
	zlog.Info("migrations finished", zap.Int("applied", successes), zap.Int("total", len(migrations)))
}
