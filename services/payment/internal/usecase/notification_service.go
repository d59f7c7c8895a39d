package usecase

import (
	"context"

	apperrors "github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/pkg/errors"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/dto"
	domainErrors "github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/errors"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/repository"
	"go.uber.org/zap"
)

// NotificationService serves a user's notification inbox
type NotificationService struct {
	repo   repository.NotificationRepository
	logger *zap.Logger
}

func NewNotificationService(repo repository.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		repo:   repo,
		logger: logger,
	}
}

func (s *NotificationService) ListNotifications(ctx context.Context, receiverID int64, params dto.PaginationParams) (*dto.NotificationListResponse, error) {
	if receiverID <= 0 {
		return nil, apperrors.InvalidArgument("Invalid user ID", nil)
	}

	params.Normalize()

	notifications, err := s.repo.ListByReceiver(ctx, receiverID, params.Limit, params.Offset())
	if err != nil {
		return nil, apperrors.Internal("Failed to load notifications", err)
	}

	total, err := s.repo.CountByReceiver(ctx, receiverID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load notifications", err)
	}

	unread, err := s.repo.CountUnread(ctx, receiverID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load notifications", err)
	}

	return &dto.NotificationListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
		Pagination:    dto.NewPaginationMeta(params.Page, params.Limit, total),
	}, nil
}

func (s *NotificationService) MarkNotificationRead(ctx context.Context, notificationID, receiverID int64) error {
	if notificationID <= 0 {
		return apperrors.InvalidArgument("Invalid notification ID", nil)
	}

	ok, err := s.repo.MarkRead(ctx, notificationID, receiverID)
	if err != nil {
		return apperrors.Internal("Failed to update notification", err)
	}
	if !ok {
		return apperrors.NotFound("Notification not found", domainErrors.ErrNotificationNotFound)
	}

	s.logger.Debug("Notification marked as read",
		zap.Int64("notification_id", notificationID),
		zap.Int64("receiver_id", receiverID))
	return nil
}
