package model

import "time"

type EnrollmentStatus string

const (
	EnrollmentStatusPending EnrollmentStatus = "pending"
	EnrollmentStatusActive  EnrollmentStatus = "active"
)

// Enrollment grants (or reserves) a student's access to a course.
// There is at most one row per (student_id, course_id).
type Enrollment struct {
	ID          int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID   int64            `gorm:"not null;uniqueIndex:idx_enrollments_student_course" json:"student_id"`
	CourseID    int64            `gorm:"not null;uniqueIndex:idx_enrollments_student_course" json:"course_id"`
	Status      EnrollmentStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	EnrolledAt  time.Time        `gorm:"not null" json:"enrolled_at"`
	ActivatedAt *time.Time       `json:"activated_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

func (e *Enrollment) IsActive() bool {
	return e.Status == EnrollmentStatusActive
}
