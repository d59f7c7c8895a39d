package model

import "time"

// Notification is an inbox entry for a user, e.g. a teacher being told about a new enrollment.
type Notification struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID   int64     `gorm:"not null" json:"sender_id"`
	ReceiverID int64     `gorm:"not null;index:idx_notifications_receiver" json:"receiver_id"`
	CourseID   *int64    `json:"course_id,omitempty"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Content    string    `gorm:"type:text" json:"content"`
	IsRead     bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt  time.Time `gorm:"index:idx_notifications_receiver" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
