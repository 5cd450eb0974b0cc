package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"donation_assistant_bot/internal/app"
	"donation_assistant_bot/internal/infra/config"
	idb "donation_assistant_bot/internal/infra/database"
	"donation_assistant_bot/internal/infra/gemini"
	"donation_assistant_bot/internal/infra/logger"
	"donation_assistant_bot/internal/infra/scheduler"
	"donation_assistant_bot/internal/infra/telegram"

	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	log := logger.Get()

	log.WithField("environment", cfg.Environment).Info("Donation assistant bot starting...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := idb.NewSQLiteConnection(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Could not open database: %v", err)
	}
	defer db.Close()
	if err := idb.Migrate(ctx, db); err != nil {
		log.Fatalf("FATAL: Could not migrate database schema: %v", err)
	}
	log.Info("Database ready.")

	// Repositories
	donationRepo := idb.NewSQLiteDonationRepository(db)
	donorRepo := idb.NewSQLiteDonorRepository(db)
	categoryRepo := idb.NewSQLiteCategoryRepository(db)
	goalRepo := idb.NewSQLiteGoalRepository(db)
	chatRepo := idb.NewSQLiteChatRepository(db)
	notifRepo := idb.NewSQLiteNotificationRepository(db)

	// Application services
	records := app.NewRecordService(db, donationRepo, donorRepo, categoryRepo, goalRepo, notifRepo,
		log.WithField("component", "records"))
	dispatcher := app.NewDispatcher(records, log.WithField("component", "dispatcher"))

	model, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("FATAL: Could not create Gemini client: %v", err)
	}
	defer model.Close()
	log.WithField("model", cfg.GeminiModel).Info("Gemini client initialized.")

	assistant := app.NewAssistantService(model, dispatcher, records, chatRepo,
		cfg.ContextWindow, log.WithField("component", "assistant"))

	// Telegram bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := log.WithError(err)
			if c != nil && c.Sender() != nil {
				entry = entry.WithField("sender_id", c.Sender().ID)
			}
			entry.Error("Telegram handler error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		log.Fatalf("FATAL: Could not create Telegram bot: %v", err)
	}

	telegram.RegisterHandlers(ctx, bot, records, assistant, cfg.OwnerTelegramID,
		log.WithField("component", "telegram"))
	log.Info("Telegram handlers registered.")

	// Recurring donation reminder scheduler
	reminderScheduler := scheduler.NewReminderScheduler(
		records,
		telegram.NewTelebotAdapter(bot),
		cfg.OwnerTelegramID,
		log.WithField("component", "scheduler"),
		cfg.CronSpecRecurringCheck,
	)
	if err := reminderScheduler.Start(); err != nil {
		log.Fatalf("FATAL: Could not start reminder scheduler: %v", err)
	}

	log.Info("Application setup complete. Bot and scheduler are starting...")
	go bot.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	log.Info("Shutting down application...")
	reminderScheduler.Stop()
	bot.Stop()
	log.Info("Application shut down gracefully.")
}
