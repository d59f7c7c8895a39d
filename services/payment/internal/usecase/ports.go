package usecase

import (
	"context"

	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/dto"
)

// NotificationDispatcher hands a notification off for asynchronous delivery.
// Dispatch must not block on the delivery itself.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, task dto.NotificationTask) error
}

// PaymentEventPublisher announces committed payment transitions to other services.
type PaymentEventPublisher interface {
	Publish(ctx context.Context, event dto.PaymentEvent) error
}
