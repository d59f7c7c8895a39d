package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"

	apperrors "github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/pkg/errors"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/dto"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/model"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/middleware/auth"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// PaymentUsecase is the payment service surface the handler depends on
type PaymentUsecase interface {
	ConfirmPayment(ctx context.Context, paymentID int64, gatewayData datatypes.JSON) (*dto.PaymentView, error)
	CancelPayment(ctx context.Context, paymentID int64, requestingStudentID *int64) error
	CreatePayment(ctx context.Context, input dto.CreatePaymentInput) (*dto.PaymentView, error)
	GetPayment(ctx context.Context, paymentID int64, requestingStudentID *int64) (*dto.PaymentView, error)
	ListStudentPayments(ctx context.Context, studentID int64, params dto.PaginationParams) (*dto.PaymentListResponse, error)
}

type PaymentHandler struct {
	usecase PaymentUsecase
	logger  *zap.Logger
}

func NewPaymentHandler(usecase PaymentUsecase, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		usecase: usecase,
		logger:  logger,
	}
}

type confirmPaymentRequest struct {
	PaymentID   int64          `json:"payment_id"`
	GatewayData datatypes.JSON `json:"gateway_data"`
}

var errGatewayDataNotObject = errors.New("gateway_data is not a JSON object")

type cancelPaymentRequest struct {
	PaymentID int64  `json:"payment_id"`
	StudentID *int64 `json:"student_id"`
}

type createPaymentRequest struct {
	CourseID       int64  `json:"course_id" validate:"required,gt=0"`
	PaymentGateway string `json:"payment_gateway" validate:"required,oneof=momo vnpay bank_transfer"`
}

// ConfirmPayment handles POST /confirm-payment
func (h *PaymentHandler) ConfirmPayment(c echo.Context) error {
	var req confirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	paymentID, err := paymentIDOrQuery(c, req.PaymentID)
	if err != nil {
		return err
	}

	gatewayData, err := gatewayObject(req.GatewayData)
	if err != nil {
		return err
	}

	view, err := h.usecase.ConfirmPayment(c.Request().Context(), paymentID, gatewayData)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Payment confirmed", view)
}

// CancelPayment handles POST /cancel-payment
func (h *PaymentHandler) CancelPayment(c echo.Context) error {
	var req cancelPaymentRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	paymentID, err := paymentIDOrQuery(c, req.PaymentID)
	if err != nil {
		return err
	}

	// An authenticated student is always checked as themselves.
	studentID := req.StudentID
	if user, err := auth.GetUserFromContext(c); err == nil && user.Role == model.RoleStudent {
		studentID = &user.UserID
	}

	if err := h.usecase.CancelPayment(c.Request().Context(), paymentID, studentID); err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Payment cancelled", echo.Map{
		"payment_id": paymentID,
		"status":     model.PaymentStatusFailed,
	})
}

// CreatePayment handles POST /api/v1/payments
func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req createPaymentRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	view, err := h.usecase.CreatePayment(c.Request().Context(), dto.CreatePaymentInput{
		StudentID:      user.UserID,
		CourseID:       req.CourseID,
		PaymentGateway: model.PaymentGateway(req.PaymentGateway),
	})
	if err != nil {
		return err
	}

	h.logger.Info("Payment created",
		zap.Int64("payment_id", view.ID),
		zap.Int64("student_id", user.UserID),
		zap.Int64("course_id", req.CourseID))

	return respond(c, http.StatusCreated, "Payment created", view)
}

// GetPayment handles GET /api/v1/payments/:id
func (h *PaymentHandler) GetPayment(c echo.Context) error {
	paymentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return apperrors.InvalidArgument("Invalid payment ID", err)
	}

	var studentID *int64
	if user, err := auth.GetUserFromContext(c); err == nil && user.Role == model.RoleStudent {
		studentID = &user.UserID
	}

	view, err := h.usecase.GetPayment(c.Request().Context(), paymentID, studentID)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "OK", view)
}

// ListPayments handles GET /api/v1/payments
func (h *PaymentHandler) ListPayments(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var params dto.PaginationParams
	if err := c.Bind(&params); err != nil {
		return err
	}

	result, err := h.usecase.ListStudentPayments(c.Request().Context(), user.UserID, params)
	if err != nil {
		return err
	}

	h.logger.Debug("Retrieved student payments",
		zap.Int64("student_id", user.UserID),
		zap.Int("payment_count", len(result.Payments)))

	return respond(c, http.StatusOK, "OK", result)
}

// paymentIDOrQuery falls back to the payment_id query parameter when the body has none
func paymentIDOrQuery(c echo.Context, fromBody int64) (int64, error) {
	if fromBody != 0 {
		return fromBody, nil
	}

	raw := c.QueryParam("payment_id")
	if raw == "" {
		return 0, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.InvalidArgument("Invalid payment ID", err)
	}
	return id, nil
}

// gatewayObject treats an absent or null payload as none and rejects anything but an object
func gatewayObject(raw datatypes.JSON) (datatypes.JSON, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '{' {
		return nil, apperrors.InvalidArgument("Invalid field: GatewayData", errGatewayDataNotObject)
	}
	return datatypes.JSON(trimmed), nil
}
