// Package testutil provides fixtures shared by the payment service tests.
package testutil

import (
	"testing"
	"time"

	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/config"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/model"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/infrastructure/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewDB opens a migrated in-memory sqlite database that lives as long as the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Driver:        config.DatabaseDriverSQLite,
		Path:          ":memory:",
		LogLevel:      "silent",
		SlowThreshold: time.Second,
	}

	db, err := database.NewConnection(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, zap.NewNop()))

	t.Cleanup(func() { _ = database.Close(db, zap.NewNop()) })
	return db
}

// Fixture is the marketplace state most payment tests start from: a teacher
// owning a course, a student, a pending enrollment and a pending payment.
type Fixture struct {
	Teacher    model.User
	Student    model.User
	Course     model.Course
	Enrollment model.Enrollment
	Payment    model.Payment
}

// SeedPendingPayment inserts a Fixture. The enrollment is skipped when withEnrollment is false.
func SeedPendingPayment(t *testing.T, db *gorm.DB, withEnrollment bool) *Fixture {
	t.Helper()

	f := &Fixture{
		Teacher: model.User{Username: "teacher01", FullName: "Nguyen Van A", Email: "teacher01@example.com", Role: model.RoleTeacher},
		Student: model.User{Username: "student07", FullName: "Tran Thi B", Email: "student07@example.com", Role: model.RoleStudent},
	}
	require.NoError(t, db.Create(&f.Teacher).Error)
	require.NoError(t, db.Create(&f.Student).Error)

	f.Course = model.Course{
		TeacherID:  f.Teacher.ID,
		CourseName: "Go for Backend Developers",
		Title:      "Go for Backend Developers",
		Price:      decimal.NewFromInt(499000),
		Status:     "published",
	}
	require.NoError(t, db.Create(&f.Course).Error)

	var enrollmentID *int64
	if withEnrollment {
		f.Enrollment = model.Enrollment{
			StudentID:  f.Student.ID,
			CourseID:   f.Course.ID,
			Status:     model.EnrollmentStatusPending,
			EnrolledAt: time.Now().UTC(),
		}
		require.NoError(t, db.Create(&f.Enrollment).Error)
		enrollmentID = &f.Enrollment.ID
	}

	f.Payment = model.Payment{
		EnrollmentID:   enrollmentID,
		StudentID:      f.Student.ID,
		CourseID:       f.Course.ID,
		Amount:         f.Course.Price,
		PaymentGateway: model.PaymentGatewayMomo,
		TransactionID:  "TXN01ABCDEFGHIJKL",
		Status:         model.PaymentStatusPending,
	}
	require.NoError(t, db.Create(&f.Payment).Error)

	return f
}
