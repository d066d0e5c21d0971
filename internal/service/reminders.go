package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReminderService periodically notifies users who have words due for review.
// Delivery is fire-and-forget: send failures are logged, never retried
// mid-run, and the next hourly pass picks the user up again.
type ReminderService struct {
	reviewRepo ReviewRepository
	notifier   ReminderNotifier
	logger     *zap.Logger
}

// NewReminderService creates a ReminderService.
func NewReminderService(reviewRepo ReviewRepository, logger *zap.Logger) *ReminderService {
	return &ReminderService{
		reviewRepo: reviewRepo,
		logger:     logger,
	}
}

// SetNotifier sets the notifier (called after the handler is created).
func (s *ReminderService) SetNotifier(notifier ReminderNotifier) {
	s.notifier = notifier
}

// Start runs the hourly reminder loop until the context is cancelled.
func (s *ReminderService) Start(ctx context.Context) {
	s.logger.Info("reminder service started")

	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc("0 * * * *", func() {
		if err := s.sendDueReminders(ctx); err != nil {
			s.logger.Error("failed to send due reminders", zap.Error(err))
		}
	})
	if err != nil {
		s.logger.Error("failed to add cron job", zap.Error(err))
		return
	}

	c.Start()

	<-ctx.Done()

	c.Stop()
	s.logger.Info("reminder service stopped")
}

func (s *ReminderService) sendDueReminders(ctx context.Context) error {
	if s.notifier == nil {
		return nil
	}

	now := time.Now().UTC()
	counts, err := s.reviewRepo.ListDueCounts(ctx, now)
	if err != nil {
		return err
	}

	sent := 0
	for _, c := range counts {
		if c.Due == 0 {
			continue
		}
		if err := s.notifier.SendDueReminder(c.UserID, c.Due); err != nil {
			s.logger.Warn("failed to deliver reminder",
				zap.Int64("user_id", c.UserID),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	s.logger.Info("due reminders processed",
		zap.Int("candidates", len(counts)),
		zap.Int("sent", sent),
	)
	return nil
}
