package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"visaguard_bot/internal/app"
	"visaguard_bot/internal/infra/config"
	idb "visaguard_bot/internal/infra/database"
	"visaguard_bot/internal/infra/logger"
	"visaguard_bot/internal/infra/scheduler"
	"visaguard_bot/internal/infra/sms"
	"visaguard_bot/internal/infra/telegram"

	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("VisaGuard Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg.LogLevel, cfg.Environment)
	mainLogger := logger.Get().WithField("component", "main")
	mainLogger.Infof("Configuration loaded. LogLevel: %s, Environment: %s, Admin ID: %d", cfg.LogLevel, cfg.Environment, cfg.AdminTelegramID)

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	mainLogger.Info("Database connection established successfully.")

	// Initialize State Store
	stateRepo := idb.NewPostgresStateRepository(db)
	recordStore := idb.NewRecordStore(stateRepo, logger.Get().WithField("component", "record_store"))
	mainLogger.Info("Record store initialized.")

	// Initialize Telegram Bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			errLogger := logger.Get().WithField("component", "telebot").WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				errLogger = errLogger.WithFields(map[string]interface{}{
					"message": c.Text(),
					"sender":  c.Sender().ID,
					"chat":    c.Chat().ID,
				})
			}
			errLogger.Error("Telegram bot error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not create Telegram bot: %v", err)
	}

	// Initialize Notifier and Messenger stub
	notifier := telegram.NewTelebotNotifier(bot, cfg.AlertChatID)
	messenger := sms.NewStubMessenger(logger.Get().WithField("component", "sms_stub"))
	mainLogger.Info("Notifier and messenger initialized.")

	// Initialize ExpirationService
	expirationService := app.NewExpirationService(
		recordStore,
		notifier,
		messenger,
		logger.Get().WithField("component", "expiration_service"),
	)
	mainLogger.Info("Expiration service initialized.")

	// Initialize PersonService
	personService := app.NewPersonService(recordStore, expirationService, cfg.AdminTelegramID)
	mainLogger.Info("Person service initialized.")

	// Initialize ExpirationScheduler (24h recurring + delayed startup check)
	expirationScheduler := scheduler.NewExpirationScheduler(
		expirationService,
		logger.Get().WithField("component", "scheduler"),
		cfg.CronSpecCheck,
		cfg.StartupCheckDelay,
	)
	expirationScheduler.Start()

	// Register Handlers
	ctx := context.Background()
	handlerLogger := logger.Get().WithField("component", "telegram_handlers")
	telegram.RegisterAdminHandlers(ctx, bot, personService, expirationService, notifier, cfg.AdminTelegramID, handlerLogger)
	telegram.RegisterBotCommands(bot, cfg, handlerLogger)
	mainLogger.Info("Command handlers registered.")

	mainLogger.Info("Application setup complete. Bot and Scheduler are starting...")

	// Start bot in a goroutine so it doesn't block graceful shutdown handling
	go bot.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	expirationScheduler.Stop()
	bot.Stop()
	// db.Close() is handled by defer
	mainLogger.Info("Application shut down gracefully.")
}
