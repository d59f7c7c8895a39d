package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/pkg/errors"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/adapter/repository"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/dto"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/model"
	domainRepo "github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/repository"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/testutil"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/usecase"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// failingActivation wraps a real enrollment repository and fails every Activate
type failingActivation struct {
	domainRepo.EnrollmentRepository
}

func (f failingActivation) Activate(context.Context, int64) error {
	return errors.New("disk I/O error")
}

func usecaseInput(studentID, courseID int64) dto.CreatePaymentInput {
	return dto.CreatePaymentInput{
		StudentID:      studentID,
		CourseID:       courseID,
		PaymentGateway: model.PaymentGatewayBankTransfer,
	}
}

func newStoreBackedService(db *gorm.DB, dispatcher usecase.NotificationDispatcher, enrollments domainRepo.EnrollmentRepository) *usecase.PaymentService {
	logger := zap.NewNop()
	if enrollments == nil {
		enrollments = repository.NewEnrollmentRepository(db, logger)
	}

	return usecase.NewPaymentService(usecase.PaymentServiceDeps{
		Transactor:     repository.NewTransactor(db, logger),
		Payments:       repository.NewPaymentRepository(db, logger),
		Enrollments:    enrollments,
		Courses:        repository.NewCourseRepository(db),
		Users:          repository.NewUserRepository(db),
		Dispatcher:     dispatcher,
		Logger:         logger,
		ConfirmTimeout: 5 * time.Second,
	})
}

// seedScenario stores payment 42 of student 7 for course 3 taught by teacher 11
func seedScenario(t *testing.T, db *gorm.DB, paymentStatus model.PaymentStatus) {
	t.Helper()

	require.NoError(t, db.Create(&model.User{ID: 7, Username: "student07", FullName: "Le Van C", Role: model.RoleStudent}).Error)
	require.NoError(t, db.Create(&model.User{ID: 11, Username: "teacher11", Email: "teacher11@example.com", Role: model.RoleTeacher}).Error)
	require.NoError(t, db.Create(&model.Course{ID: 3, TeacherID: 11, CourseName: "Kubernetes", Title: "Kubernetes từ A-Z", Price: decimal.NewFromInt(799000)}).Error)
	require.NoError(t, db.Create(&model.Enrollment{ID: 9, StudentID: 7, CourseID: 3, Status: model.EnrollmentStatusPending, EnrolledAt: time.Now().UTC()}).Error)

	enrollmentID := int64(9)
	require.NoError(t, db.Create(&model.Payment{
		ID:             42,
		EnrollmentID:   &enrollmentID,
		StudentID:      7,
		CourseID:       3,
		Amount:         decimal.NewFromInt(799000),
		PaymentGateway: model.PaymentGatewayMomo,
		TransactionID:  "TXN42QWERTYUIOPAS",
		Status:         paymentStatus,
	}).Error)
}

func loadState(t *testing.T, db *gorm.DB) (model.Payment, []model.Enrollment) {
	t.Helper()

	var payment model.Payment
	require.NoError(t, db.First(&payment, 42).Error)

	var enrollments []model.Enrollment
	require.NoError(t, db.Where("student_id = ? AND course_id = ?", 7, 3).Find(&enrollments).Error)
	return payment, enrollments
}

func TestConfirmPayment_PendingScenario(t *testing.T) {
	db := testutil.NewDB(t)
	seedScenario(t, db, model.PaymentStatusPending)
	dispatcher := &recordingDispatcher{}
	service := newStoreBackedService(db, dispatcher, nil)

	view, err := service.ConfirmPayment(context.Background(), 42, nil)

	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, view.Status)
	assert.Equal(t, "Kubernetes", view.CourseName)
	assert.Equal(t, "Kubernetes từ A-Z", view.CourseTitle)
	assert.NotNil(t, view.PaymentDate)

	payment, enrollments := loadState(t, db)
	assert.Equal(t, model.PaymentStatusCompleted, payment.Status)
	require.Len(t, enrollments, 1)
	assert.Equal(t, model.EnrollmentStatusActive, enrollments[0].Status)

	tasks := dispatcher.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, int64(11), tasks[0].ReceiverID)
	assert.Contains(t, tasks[0].Content, "799.000")
}

func TestConfirmPayment_StoresGatewayData(t *testing.T) {
	db := testutil.NewDB(t)
	seedScenario(t, db, model.PaymentStatusPending)
	service := newStoreBackedService(db, &recordingDispatcher{}, nil)
	payload := datatypes.JSON(`{"partnerCode":"MOMO","resultCode":0}`)

	view, err := service.ConfirmPayment(context.Background(), 42, payload)

	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(view.GatewayData))

	payment, _ := loadState(t, db)
	assert.JSONEq(t, string(payload), string(payment.GatewayData))
}

func TestConfirmPayment_AlreadyCompletedWritesNothing(t *testing.T) {
	db := testutil.NewDB(t)
	seedScenario(t, db, model.PaymentStatusCompleted)
	dispatcher := &recordingDispatcher{}
	service := newStoreBackedService(db, dispatcher, nil)
	before, beforeEnrollments := loadState(t, db)

	_, err := service.ConfirmPayment(context.Background(), 42, nil)

	assert.Equal(t, apperrors.ErrFailedPrecondition, apperrors.CodeOf(err))
	after, afterEnrollments := loadState(t, db)
	assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt))
	assert.Nil(t, after.PaymentDate)
	assert.Equal(t, beforeEnrollments, afterEnrollments)
	assert.Empty(t, dispatcher.Tasks())
}

func TestConfirmPayment_UnknownPayment(t *testing.T) {
	db := testutil.NewDB(t)
	service := newStoreBackedService(db, &recordingDispatcher{}, nil)

	_, err := service.ConfirmPayment(context.Background(), 4242, nil)

	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))
}

func TestConfirmPayment_RollsBackWhenActivationFails(t *testing.T) {
	db := testutil.NewDB(t)
	seedScenario(t, db, model.PaymentStatusPending)
	dispatcher := &recordingDispatcher{}
	enrollments := failingActivation{repository.NewEnrollmentRepository(db, zap.NewNop())}
	service := newStoreBackedService(db, dispatcher, enrollments)

	_, err := service.ConfirmPayment(context.Background(), 42, nil)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrInternal, appErr.Code())
	assert.NotContains(t, appErr.Message(), "disk")

	payment, rows := loadState(t, db)
	assert.Equal(t, model.PaymentStatusPending, payment.Status)
	require.Len(t, rows, 1)
	assert.Equal(t, model.EnrollmentStatusPending, rows[0].Status)
	assert.Empty(t, dispatcher.Tasks())
}

func TestConfirmPayment_CreatesMissingEnrollment(t *testing.T) {
	db := testutil.NewDB(t)
	seedScenario(t, db, model.PaymentStatusPending)
	require.NoError(t, db.Delete(&model.Enrollment{}, 9).Error)
	service := newStoreBackedService(db, &recordingDispatcher{}, nil)

	_, err := service.ConfirmPayment(context.Background(), 42, nil)

	require.NoError(t, err)
	_, enrollments := loadState(t, db)
	require.Len(t, enrollments, 1)
	assert.Equal(t, model.EnrollmentStatusActive, enrollments[0].Status)
}

func TestConfirmPayment_NotificationOutageDoesNotFail(t *testing.T) {
	db := testutil.NewDB(t)
	seedScenario(t, db, model.PaymentStatusPending)
	service := newStoreBackedService(db, &recordingDispatcher{err: errors.New("queue unavailable")}, nil)

	view, err := service.ConfirmPayment(context.Background(), 42, nil)

	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, view.Status)
}

func TestConfirmPayment_ConcurrentConfirmersExactlyOneWins(t *testing.T) {
	db := testutil.NewDB(t)
	seedScenario(t, db, model.PaymentStatusPending)
	dispatcher := &recordingDispatcher{}
	service := newStoreBackedService(db, dispatcher, nil)

	const confirmers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	start := make(chan struct{})

	for i := 0; i < confirmers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := service.ConfirmPayment(context.Background(), 42, nil)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case apperrors.CodeOf(err) == apperrors.ErrFailedPrecondition:
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, confirmers-1, rejected)
	assert.Len(t, dispatcher.Tasks(), 1)

	_, enrollments := loadState(t, db)
	assert.Len(t, enrollments, 1)
}

func TestCancelPayment_ForbiddenLeavesStatus(t *testing.T) {
	db := testutil.NewDB(t)
	seedScenario(t, db, model.PaymentStatusPending)
	service := newStoreBackedService(db, &recordingDispatcher{}, nil)
	stranger := int64(8)

	err := service.CancelPayment(context.Background(), 42, &stranger)

	assert.Equal(t, apperrors.ErrUnauthorized, apperrors.CodeOf(err))
	payment, _ := loadState(t, db)
	assert.Equal(t, model.PaymentStatusPending, payment.Status)

	owner := int64(7)
	require.NoError(t, service.CancelPayment(context.Background(), 42, &owner))
	payment, _ = loadState(t, db)
	assert.Equal(t, model.PaymentStatusFailed, payment.Status)

	_, err = service.ConfirmPayment(context.Background(), 42, nil)
	assert.Equal(t, apperrors.ErrFailedPrecondition, apperrors.CodeOf(err))
}

func TestCreatePayment_ThenConfirm(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.SeedPendingPayment(t, db, false)
	service := newStoreBackedService(db, &recordingDispatcher{}, nil)
	ctx := context.Background()

	created, err := service.CreatePayment(ctx, usecaseInput(f.Student.ID, f.Course.ID))
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, created.Status)
	assert.True(t, f.Course.Price.Equal(created.Amount))

	_, err = service.ConfirmPayment(ctx, created.ID, nil)
	require.NoError(t, err)

	_, err = service.CreatePayment(ctx, usecaseInput(f.Student.ID, f.Course.ID))
	assert.Equal(t, apperrors.ErrConflict, apperrors.CodeOf(err))
}
