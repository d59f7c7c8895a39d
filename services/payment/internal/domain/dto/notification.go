package dto

import "github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/model"

// NotificationTask is the unit of work handed to the notification dispatcher.
// It is serialized as JSON when the redis driver is used.
type NotificationTask struct {
	SenderID      int64  `json:"sender_id"`
	ReceiverID    int64  `json:"receiver_id"`
	CourseID      int64  `json:"course_id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	ReceiverEmail string `json:"receiver_email,omitempty"`
	ReceiverName  string `json:"receiver_name,omitempty"`
}

// NotificationListResponse represents a receiver's inbox page
type NotificationListResponse struct {
	Notifications []model.Notification `json:"notifications"`
	UnreadCount   int64                `json:"unread_count"`
	Pagination    PaginationMeta       `json:"pagination"`
}
