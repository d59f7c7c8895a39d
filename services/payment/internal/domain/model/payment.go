package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type PaymentGateway string

const (
	PaymentGatewayMomo         PaymentGateway = "momo"
	PaymentGatewayVNPay        PaymentGateway = "vnpay"
	PaymentGatewayBankTransfer PaymentGateway = "bank_transfer"
)

// IsValid reports whether g is one of the supported gateways.
func (g PaymentGateway) IsValid() bool {
	switch g {
	case PaymentGatewayMomo, PaymentGatewayVNPay, PaymentGatewayBankTransfer:
		return true
	}
	return false
}

// Payment represents one student's attempt to pay for one course.
// Status only moves pending -> completed or pending -> failed.
type Payment struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	EnrollmentID   *int64          `gorm:"index" json:"enrollment_id,omitempty"`
	StudentID      int64           `gorm:"not null;index" json:"student_id"`
	CourseID       int64           `gorm:"not null;index" json:"course_id"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentGateway PaymentGateway  `gorm:"column:payment_gateway;size:20;not null" json:"payment_gateway"`
	TransactionID  string          `gorm:"column:transaction_id;size:64;not null;uniqueIndex" json:"transaction_id"`
	Status         PaymentStatus   `gorm:"size:20;not null;default:'pending';index" json:"status"`
	GatewayData    datatypes.JSON  `gorm:"column:gateway_data" json:"gateway_data,omitempty"`
	PaymentDate    *time.Time      `json:"payment_date,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

func (p *Payment) IsPending() bool {
	return p.Status == PaymentStatusPending
}
