package database

import (
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/adapter/repository"
	domainRepo "github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Transactor   domainRepo.Transactor
	Payment      domainRepo.PaymentRepository
	Enrollment   domainRepo.EnrollmentRepository
	Course       domainRepo.CourseRepository
	User         domainRepo.UserRepository
	Notification domainRepo.NotificationRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Transactor:   repository.NewTransactor(db, logger),
		Payment:      repository.NewPaymentRepository(db, logger),
		Enrollment:   repository.NewEnrollmentRepository(db, logger),
		Course:       repository.NewCourseRepository(db),
		User:         repository.NewUserRepository(db),
		Notification: repository.NewNotificationRepository(db, logger),
	}
}
