package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deliciousbites/internal/app"
	"deliciousbites/internal/config"
	"deliciousbites/internal/handlers"
	"deliciousbites/internal/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	addr  string
	noBot bool
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "DeliciousBites ordering assistant: HTTP API and Telegram bot",
	Long: `Starts the JSON API on HTTP_ADDR (default :5000).
When BOT_TOKEN is set the Telegram bot runs in the same process and shares sessions and orders.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides HTTP_ADDR")
	rootCmd.Flags().BoolVar(&noBot, "no-bot", false, "do not start the Telegram bot even if BOT_TOKEN is set")
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
	if addr != "" {
		cfg.HTTPAddr = addr
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", zap.Error(err))
		return err
	}
	defer a.Close()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           a.API.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("🍕 DeliciousBites API started", zap.String("addr", cfg.HTTPAddr), zap.String("db_driver", cfg.DBDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})

	switch {
	case noBot:
		log.Info("telegram bot disabled by flag")
	case cfg.BotToken == "":
		log.Info("BOT_TOKEN not set, telegram bot disabled")
	default:
		api, err := tgbotapi.NewBotAPI(cfg.BotToken)
		if err != nil {
			log.Error("telegram bot init failed", zap.Error(err))
			stop()
			_ = g.Wait()
			return err
		}
		log.Info("telegram bot authorized", zap.String("username", api.Self.UserName))
		bot := handlers.NewBot(api, a.Engine, a.Orders, log)
		g.Go(func() error { return bot.HandleUpdates(gctx) })
	}

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		return err
	}
	log.Info("server stopped")
	return nil
}
