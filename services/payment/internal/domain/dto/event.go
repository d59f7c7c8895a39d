package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventPaymentConfirmed = "payment.confirmed"
	EventPaymentCancelled = "payment.cancelled"
)

// PaymentEvent is published to the payment events topic after a status transition commits.
type PaymentEvent struct {
	Type          string          `json:"type"`
	PaymentID     int64           `json:"payment_id"`
	StudentID     int64           `json:"student_id"`
	CourseID      int64           `json:"course_id"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transaction_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
