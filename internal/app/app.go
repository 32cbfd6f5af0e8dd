package app

import (
	"context"
	"database/sql"
	"fmt"

	"deliciousbites/internal/chat"
	"deliciousbites/internal/config"
	"deliciousbites/internal/db"
	"deliciousbites/internal/events"
	"deliciousbites/internal/handlers"
	"deliciousbites/internal/metrics"
	"deliciousbites/internal/repo"
	"deliciousbites/internal/service"
	"deliciousbites/internal/session"

	"go.uber.org/zap"
)

// App собранные зависимости, общие для сервера и бота
type App struct {
	DB        *sql.DB
	Menu      *repo.MenuRepo
	Sessions  *session.Registry
	Engine    *chat.Engine
	Orders    *service.OrderService
	API       *handlers.API
	Metrics   *metrics.Registry
	publisher events.Publisher
	log       *zap.Logger
}

// New подключает базу, создает схему, сидирует меню и связывает компоненты
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	conn, err := db.Open(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(ctx, conn, cfg.DBDriver); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	menu := repo.NewMenuRepo(conn)
	inserted, err := menu.Seed(ctx, repo.DefaultMenu)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("seed menu: %w", err)
	}
	if inserted > 0 {
		log.Info("menu seeded", zap.Int("items", inserted))
	}

	m := metrics.NewRegistry()
	sessions := session.NewRegistry()
	publisher := events.New(cfg.KafkaBrokers, cfg.KafkaTopic)
	if len(cfg.KafkaBrokers) > 0 {
		log.Info("publishing order events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	engine := chat.NewEngine(menu, sessions, m, log)
	orders := service.NewOrderService(repo.NewOrderRepo(conn), sessions, publisher, m, log)

	return &App{
		DB:        conn,
		Menu:      menu,
		Sessions:  sessions,
		Engine:    engine,
		Orders:    orders,
		API:       handlers.NewAPI(engine, orders, sessions, menu, conn, m, log, cfg.RequestTimeout),
		Metrics:   m,
		publisher: publisher,
		log:       log,
	}, nil
}

func (a *App) Close() {
	if err := a.publisher.Close(); err != nil {
		a.log.Warn("event publisher close failed", zap.Error(err))
	}
	if err := a.DB.Close(); err != nil {
		a.log.Warn("database close failed", zap.Error(err))
	}
}
