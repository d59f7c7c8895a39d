package repository

import (
	"context"

	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/model"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	ListByReceiver(ctx context.Context, receiverID int64, limit, offset int) ([]model.Notification, error)
	CountByReceiver(ctx context.Context, receiverID int64) (int64, error)
	CountUnread(ctx context.Context, receiverID int64) (int64, error)
	// MarkRead reports false when no notification with that id belongs to the receiver
	MarkRead(ctx context.Context, id, receiverID int64) (bool, error)
}
