package dto

import (
	"time"

	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/model"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PaymentView is the payment as returned to clients, joined with its course.
type PaymentView struct {
	ID             int64                `json:"id"`
	StudentID      int64                `json:"student_id"`
	CourseID       int64                `json:"course_id"`
	Amount         decimal.Decimal      `json:"amount"`
	PaymentGateway model.PaymentGateway `json:"payment_gateway"`
	TransactionID  string               `json:"transaction_id"`
	Status         model.PaymentStatus  `json:"status"`
	PaymentDate    *time.Time           `json:"payment_date"`
	CourseName     string               `json:"course_name"`
	CourseTitle    string               `json:"course_title"`
	GatewayData    datatypes.JSON       `json:"gateway_data,omitempty"`
}

// CreatePaymentInput carries a checkout request for one course
type CreatePaymentInput struct {
	StudentID      int64
	CourseID       int64
	PaymentGateway model.PaymentGateway
}

// PaymentListResponse represents a paginated list of payment views
type PaymentListResponse struct {
	Payments   []PaymentView  `json:"payments"`
	Pagination PaginationMeta `json:"pagination"`
}
