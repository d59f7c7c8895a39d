package repository

import (
	"context"

	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/model"
)

type EnrollmentRepository interface {
	// GetByStudentAndCourse returns (nil, nil) when the student has no enrollment
	GetByStudentAndCourse(ctx context.Context, studentID, courseID int64) (*model.Enrollment, error)
	Create(ctx context.Context, enrollment *model.Enrollment) error
	// Activate marks the enrollment active; activating an active enrollment is a no-op
	Activate(ctx context.Context, id int64) error
}
