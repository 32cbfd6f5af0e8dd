package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"deliciousbites/internal/app"
	"deliciousbites/internal/config"
	"deliciousbites/internal/handlers"
	"deliciousbites/internal/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:          "bot",
	Short:        "DeliciousBites Telegram bot without the HTTP API",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().BoolVar(&debug, "debug", false, "log raw Telegram API traffic")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.BotToken == "" {
		return errors.New("BOT_TOKEN is required")
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//инициализация бд, репозиториев и сервисов
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", zap.Error(err))
		return err
	}
	defer a.Close()

	//создание бота
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Error("telegram bot init failed", zap.Error(err))
		return err
	}
	api.Debug = debug
	log.Info("telegram bot authorized", zap.String("username", api.Self.UserName))

	return handlers.NewBot(api, a.Engine, a.Orders, log).HandleUpdates(ctx)
}
