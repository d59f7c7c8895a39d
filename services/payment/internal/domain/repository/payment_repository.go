package repository

import (
	"context"

	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/dto"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/model"
	"gorm.io/datatypes"
)

// PaymentRepository defines persistence for payments. Methods join the
// transaction carried by ctx when one is present.
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	// GetByID returns (nil, nil) when the payment does not exist
	GetByID(ctx context.Context, id int64) (*model.Payment, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error)

	// TransitionStatus moves the payment from `from` to `to` only if its
	// current status is `from`. It reports whether a row was changed.
	// A non-empty gatewayData replaces the stored gateway payload in the same update.
	TransitionStatus(ctx context.Context, id int64, from, to model.PaymentStatus, gatewayData datatypes.JSON) (bool, error)

	// GetView returns the payment joined with its course, or (nil, nil)
	GetView(ctx context.Context, id int64) (*dto.PaymentView, error)
	ListViewsByStudent(ctx context.Context, studentID int64, limit, offset int) ([]dto.PaymentView, error)
	CountByStudent(ctx context.Context, studentID int64) (int64, error)
}
