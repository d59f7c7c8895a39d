package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/dto"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/model"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/repository"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/infrastructure/mail"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/metrics"
	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
)

// Handler processes one dequeued notification task
type Handler interface {
	Handle(ctx context.Context, task dto.NotificationTask) error
}

// Worker stores notifications in the inbox and optionally mails the receiver
type Worker struct {
	repo     repository.NotificationRepository
	mailer   mail.Mailer
	logger   *zap.Logger
	attempts uint
	delay    time.Duration
}

// NewWorker creates a worker. mailer may be nil.
func NewWorker(repo repository.NotificationRepository, mailer mail.Mailer, attempts uint, delay time.Duration, logger *zap.Logger) *Worker {
	if attempts == 0 {
		attempts = 1
	}

	return &Worker{
		repo:     repo,
		mailer:   mailer,
		logger:   logger,
		attempts: attempts,
		delay:    delay,
	}
}

func (w *Worker) Handle(ctx context.Context, task dto.NotificationTask) error {
	notification := &model.Notification{
		SenderID:   task.SenderID,
		ReceiverID: task.ReceiverID,
		Title:      task.Title,
		Content:    task.Content,
	}
	if task.CourseID > 0 {
		courseID := task.CourseID
		notification.CourseID = &courseID
	}

	err := retry.Do(
		func() error {
			notification.ID = 0
			return w.repo.Create(ctx, notification)
		},
		retry.Context(ctx),
		retry.Attempts(w.attempts),
		retry.Delay(w.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			w.logger.Warn("Retrying notification insert",
				zap.Uint("attempt", n+1),
				zap.Int64("receiver_id", task.ReceiverID),
				zap.Error(err))
		}),
	)
	if err != nil {
		metrics.NotificationsDelivered.WithLabelValues(metrics.ResultError).Inc()
		return fmt.Errorf("failed to store notification: %w", err)
	}

	metrics.NotificationsDelivered.WithLabelValues(metrics.ResultSuccess).Inc()
	w.logger.Debug("Notification stored",
		zap.Int64("notification_id", notification.ID),
		zap.Int64("receiver_id", task.ReceiverID))

	if w.mailer != nil && task.ReceiverEmail != "" {
		body := mail.NotificationHTML(task.ReceiverName, task.Title, task.Content)
		if err := w.mailer.Send(ctx, task.ReceiverEmail, task.Title, body); err != nil {
			// the inbox entry is already stored
			w.logger.Warn("Failed to mail notification",
				zap.Int64("receiver_id", task.ReceiverID),
				zap.Error(err))
		}
	}

	return nil
}
