package http

import (
	"context"
	"net/http"
	"strconv"

	apperrors "github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/pkg/errors"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/dto"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/middleware/auth"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type NotificationUsecase interface {
	ListNotifications(ctx context.Context, receiverID int64, params dto.PaginationParams) (*dto.NotificationListResponse, error)
	MarkNotificationRead(ctx context.Context, notificationID, receiverID int64) error
}

type NotificationHandler struct {
	usecase NotificationUsecase
	logger  *zap.Logger
}

func NewNotificationHandler(usecase NotificationUsecase, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// ListNotifications handles GET /api/v1/notifications
func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var params dto.PaginationParams
	if err := c.Bind(&params); err != nil {
		return err
	}

	result, err := h.usecase.ListNotifications(c.Request().Context(), user.UserID, params)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "OK", result)
}

// MarkRead handles PATCH /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	notificationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || notificationID <= 0 {
		return apperrors.InvalidArgument("Invalid notification ID", err)
	}

	if err := h.usecase.MarkNotificationRead(c.Request().Context(), notificationID, user.UserID); err != nil {
		return err
	}

	h.logger.Debug("Notification marked as read",
		zap.Int64("notification_id", notificationID),
		zap.Int64("receiver_id", user.UserID))

	return respond(c, http.StatusOK, "Notification marked as read", nil)
}
