package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/dto"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/model"
	domainRepo "github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const paymentViewColumns = `p.id, p.student_id, p.course_id, p.amount, p.payment_gateway,
	p.transaction_id, p.status, p.payment_date, p.gateway_data,
	COALESCE(c.course_name, '') AS course_name, COALESCE(c.title, '') AS course_title`

// paymentRepository implements the PaymentRepository interface
type paymentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment repository instance
func NewPaymentRepository(db *gorm.DB, logger *zap.Logger) domainRepo.PaymentRepository {
	return &paymentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	if err := conn(ctx, r.db).Create(payment).Error; err != nil {
		r.logger.Error("Failed to create payment",
			zap.Int64("student_id", payment.StudentID),
			zap.Int64("course_id", payment.CourseID),
			zap.Error(err))
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id int64) (*model.Payment, error) {
	var payment model.Payment

	err := conn(ctx, r.db).Where("id = ?", id).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return &payment, nil
}

func (r *paymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error) {
	var payment model.Payment

	err := conn(ctx, r.db).Where("transaction_id = ?", transactionID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment by transaction id: %w", err)
	}

	return &payment, nil
}

// TransitionStatus is a compare-and-swap on payments.status. Concurrent callers
// racing on the same pending row serialize on the row lock taken by UPDATE, and
// only the first one sees an affected row.
func (r *paymentRepository) TransitionStatus(ctx context.Context, id int64, from, to model.PaymentStatus, gatewayData datatypes.JSON) (bool, error) {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": now,
	}
	if to == model.PaymentStatusCompleted {
		updates["payment_date"] = now
	}
	if len(gatewayData) > 0 {
		updates["gateway_data"] = gatewayData
	}

	result := conn(ctx, r.db).
		Model(&model.Payment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)

	if result.Error != nil {
		r.logger.Error("Failed to transition payment status",
			zap.Int64("payment_id", id),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to update payment status: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (r *paymentRepository) GetView(ctx context.Context, id int64) (*dto.PaymentView, error) {
	var view dto.PaymentView

	result := conn(ctx, r.db).
		Table("payments AS p").
		Select(paymentViewColumns).
		Joins("LEFT JOIN courses AS c ON c.id = p.course_id").
		Where("p.id = ?", id).
		Limit(1).
		Scan(&view)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to get payment view: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	return &view, nil
}

func (r *paymentRepository) ListViewsByStudent(ctx context.Context, studentID int64, limit, offset int) ([]dto.PaymentView, error) {
	views := make([]dto.PaymentView, 0)

	query := conn(ctx, r.db).
		Table("payments AS p").
		Select(paymentViewColumns).
		Joins("LEFT JOIN courses AS c ON c.id = p.course_id").
		Where("p.student_id = ?", studentID).
		Order("p.created_at DESC").
		Order("p.id DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Scan(&views).Error; err != nil {
		r.logger.Error("Failed to list payments",
			zap.Int64("student_id", studentID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return views, nil
}

func (r *paymentRepository) CountByStudent(ctx context.Context, studentID int64) (int64, error) {
	var total int64
	err := conn(ctx, r.db).Model(&model.Payment{}).Where("student_id = ?", studentID).Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count payments: %w", err)
	}
	return total, nil
}
