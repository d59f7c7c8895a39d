package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/model"
	domainRepo "github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type enrollmentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewEnrollmentRepository(db *gorm.DB, logger *zap.Logger) domainRepo.EnrollmentRepository {
	return &enrollmentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *enrollmentRepository) GetByStudentAndCourse(ctx context.Context, studentID, courseID int64) (*model.Enrollment, error) {
	var enrollment model.Enrollment

	err := conn(ctx, r.db).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	return &enrollment, nil
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *model.Enrollment) error {
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now().UTC()
	}

	if err := conn(ctx, r.db).Create(enrollment).Error; err != nil {
		r.logger.Error("Failed to create enrollment",
			zap.Int64("student_id", enrollment.StudentID),
			zap.Int64("course_id", enrollment.CourseID),
			zap.String("status", string(enrollment.Status)),
			zap.Error(err))
		return fmt.Errorf("failed to create enrollment: %w", err)
	}

	return nil
}

// Activate only touches rows that are not active yet, so repeating it is harmless.
func (r *enrollmentRepository) Activate(ctx context.Context, id int64) error {
	now := time.Now().UTC()

	result := conn(ctx, r.db).
		Model(&model.Enrollment{}).
		Where("id = ? AND status <> ?", id, model.EnrollmentStatusActive).
		Updates(map[string]interface{}{
			"status":       model.EnrollmentStatusActive,
			"activated_at": now,
			"updated_at":   now,
		})

	if result.Error != nil {
		r.logger.Error("Failed to activate enrollment",
			zap.Int64("enrollment_id", id),
			zap.Error(result.Error))
		return fmt.Errorf("failed to activate enrollment: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		r.logger.Debug("Enrollment already active", zap.Int64("enrollment_id", id))
	}

	return nil
}
