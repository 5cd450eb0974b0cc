package scheduler

import (
	"context"
	"fmt"
	"time"

	"donation_assistant_bot/internal/app"
	domainTelegram "donation_assistant_bot/internal/domain/telegram"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// The sweep window matches the daily cron cadence so each due recurring
// donation produces exactly one reminder.
const recurringSweepWindow = 24 * time.Hour

// ReminderScheduler periodically scans for recurring donations whose next
// donation date has arrived, enqueues reminder notifications for them and
// pings the owner on Telegram.
type ReminderScheduler struct {
	cronEngine        *cron.Cron
	records           *app.RecordService
	telegramClient    domainTelegram.Client
	ownerTelegramID   int64
	logger            *logrus.Entry
	cronSpecRecurring string
}

func NewReminderScheduler(
	records *app.RecordService,
	telegramClient domainTelegram.Client,
	ownerTelegramID int64,
	logger *logrus.Entry,
	cronSpecRecurring string,
) *ReminderScheduler {
	return &ReminderScheduler{
		cronEngine:        cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		records:           records,
		telegramClient:    telegramClient,
		ownerTelegramID:   ownerTelegramID,
		logger:            logger,
		cronSpecRecurring: cronSpecRecurring,
	}
}

func (s *ReminderScheduler) Start() error {
	s.logger.Info("Starting reminder scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecRecurring, func() {
		s.logger.Info("Cron job triggered for recurring donation check.")
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()

		enqueued, err := s.records.EnqueueRecurringReminders(ctx, time.Now(), recurringSweepWindow)
		if err != nil {
			s.logger.WithError(err).Error("Error during recurring donation sweep")
			return
		}
		if enqueued > 0 {
			s.logger.WithField("enqueued", enqueued).Info("Recurring donation reminders enqueued")
			text := fmt.Sprintf("%d recurring donation(s) are due today. Use /recent or ask me for details.", enqueued)
			if err := s.telegramClient.SendMessage(s.ownerTelegramID, text, nil); err != nil {
				s.logger.WithError(err).Error("Failed to send recurring reminder summary")
			}
		}
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.logger.Info("Reminder scheduler started.")
	return nil
}

func (s *ReminderScheduler) Stop() {
	s.logger.Info("Stopping reminder scheduler...")
	ctx := s.cronEngine.Stop() // Stops new jobs, waits for running ones.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Reminder scheduler gracefully stopped.")
}
