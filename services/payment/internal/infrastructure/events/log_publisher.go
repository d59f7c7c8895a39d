package events

import (
	"context"

	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/dto"
	"go.uber.org/zap"
)

// LogPublisher records events in the service log when no broker is configured.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event dto.PaymentEvent) error {
	p.logger.Info("Payment event",
		zap.String("type", event.Type),
		zap.Int64("payment_id", event.PaymentID),
		zap.Int64("student_id", event.StudentID),
		zap.Int64("course_id", event.CourseID),
		zap.String("amount", event.Amount.String()),
		zap.String("transaction_id", event.TransactionID))
	return nil
}

func (p *LogPublisher) Close() error { return nil }
