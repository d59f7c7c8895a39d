package repository

import (
	"context"
	"fmt"

	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/model"
	domainRepo "github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type notificationRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewNotificationRepository(db *gorm.DB, logger *zap.Logger) domainRepo.NotificationRepository {
	return &notificationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	if err := conn(ctx, r.db).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) ListByReceiver(ctx context.Context, receiverID int64, limit, offset int) ([]model.Notification, error) {
	notifications := make([]model.Notification, 0)

	query := conn(ctx, r.db).
		Where("receiver_id = ?", receiverID).
		Order("created_at DESC").
		Order("id DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&notifications).Error; err != nil {
		r.logger.Error("Failed to list notifications",
			zap.Int64("receiver_id", receiverID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, nil
}

func (r *notificationRepository) CountByReceiver(ctx context.Context, receiverID int64) (int64, error) {
	var total int64
	err := conn(ctx, r.db).Model(&model.Notification{}).
		Where("receiver_id = ?", receiverID).
		Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return total, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, receiverID int64) (int64, error) {
	var total int64
	err := conn(ctx, r.db).Model(&model.Notification{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return total, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, receiverID int64) (bool, error) {
	result := conn(ctx, r.db).Model(&model.Notification{}).
		Where("id = ? AND receiver_id = ?", id, receiverID).
		Update("is_read", true)
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
