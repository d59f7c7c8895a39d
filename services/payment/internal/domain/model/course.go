package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Course is the read model of a marketplace course. Courses are owned by the
// catalogue; this service only reads them.
type Course struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	TeacherID  int64           `gorm:"not null;index" json:"teacher_id"`
	CourseName string          `gorm:"size:255;not null" json:"course_name"`
	Title      string          `gorm:"size:255" json:"title"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Status     string          `gorm:"size:20;default:'published'" json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (Course) TableName() string {
	return "courses"
}
