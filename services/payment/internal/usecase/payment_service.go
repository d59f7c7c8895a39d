package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/pkg/errors"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/dto"
	domainErrors "github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/errors"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/model"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/repository"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/metrics"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	defaultConfirmTimeout = 10 * time.Second

	msgConfirmFailed = "Payment confirmation failed"
	msgCancelFailed  = "Payment cancellation failed"
	msgCreateFailed  = "Payment creation failed"
	msgLookupFailed  = "Failed to load payment"

	transactionIDPrefix   = "TXN"
	transactionIDDigits   = "0123456789"
	transactionIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// PaymentServiceDeps groups the collaborators of PaymentService
type PaymentServiceDeps struct {
	Transactor  repository.Transactor
	Payments    repository.PaymentRepository
	Enrollments repository.EnrollmentRepository
	Courses     repository.CourseRepository
	Users       repository.UserRepository
	Dispatcher  NotificationDispatcher
	// Publisher is optional
	Publisher PaymentEventPublisher
	Logger    *zap.Logger
	// ConfirmTimeout bounds a whole confirmation call; zero means 10s
	ConfirmTimeout time.Duration
}

// PaymentService confirms, cancels and creates course payments
type PaymentService struct {
	tx             repository.Transactor
	payments       repository.PaymentRepository
	enrollments    repository.EnrollmentRepository
	courses        repository.CourseRepository
	users          repository.UserRepository
	dispatcher     NotificationDispatcher
	publisher      PaymentEventPublisher
	logger         *zap.Logger
	confirmTimeout time.Duration
}

func NewPaymentService(deps PaymentServiceDeps) *PaymentService {
	timeout := deps.ConfirmTimeout
	if timeout <= 0 {
		timeout = defaultConfirmTimeout
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &PaymentService{
		tx:             deps.Transactor,
		payments:       deps.Payments,
		enrollments:    deps.Enrollments,
		courses:        deps.Courses,
		users:          deps.Users,
		dispatcher:     deps.Dispatcher,
		publisher:      deps.Publisher,
		logger:         logger,
		confirmTimeout: timeout,
	}
}

// ConfirmPayment completes a pending payment and activates the matching
// enrollment in one transaction. Of several concurrent confirmations of the
// same payment exactly one succeeds; the rest fail with FAILED_PRECONDITION.
// The teacher notification and the payment event are sent after commit and
// their failures never affect the result. A non-empty gatewayData is stored
// with the completed payment.
func (s *PaymentService) ConfirmPayment(ctx context.Context, paymentID int64, gatewayData datatypes.JSON) (*dto.PaymentView, error) {
	if paymentID <= 0 {
		return nil, apperrors.InvalidArgument("Invalid payment ID", domainErrors.ErrInvalidPaymentID)
	}

	ctx, cancel := context.WithTimeout(ctx, s.confirmTimeout)
	defer cancel()

	payment, err := s.loadPending(ctx, paymentID, msgConfirmFailed)
	if err != nil {
		metrics.Confirmations.WithLabelValues(resultLabel(err)).Inc()
		return nil, err
	}

	start := time.Now()
	err = s.completeAndEnroll(ctx, payment, gatewayData)
	metrics.ConfirmDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.Confirmations.WithLabelValues(resultLabel(err)).Inc()
		if errors.Is(err, domainErrors.ErrPaymentAlreadyProcessed) {
			s.logger.Info("Payment confirmed concurrently by another request",
				zap.Int64("payment_id", paymentID))
			return nil, apperrors.FailedPrecondition("Payment already processed", err)
		}

		s.logger.Error("Payment confirmation rolled back",
			zap.Int64("payment_id", paymentID),
			zap.Error(err))
		return nil, apperrors.Internal(msgConfirmFailed, err)
	}

	metrics.Confirmations.WithLabelValues(metrics.ResultSuccess).Inc()
	s.logger.Info("Payment confirmed",
		zap.Int64("payment_id", payment.ID),
		zap.Int64("student_id", payment.StudentID),
		zap.Int64("course_id", payment.CourseID),
		zap.String("transaction_id", payment.TransactionID))

	// The request may be abandoned now; the side effects still run.
	sideCtx := context.WithoutCancel(ctx)

	if err := s.notifyTeacher(sideCtx, payment); err != nil {
		metrics.NotificationsDispatched.WithLabelValues(metrics.ResultError).Inc()
		s.logger.Warn("Failed to dispatch enrollment notification",
			zap.Int64("payment_id", payment.ID),
			zap.Int64("course_id", payment.CourseID),
			zap.Error(err))
	} else {
		metrics.NotificationsDispatched.WithLabelValues(metrics.ResultSuccess).Inc()
	}

	s.publish(sideCtx, dto.EventPaymentConfirmed, payment)

	view, err := s.payments.GetView(ctx, payment.ID)
	if err != nil {
		return nil, apperrors.Internal(msgLookupFailed, err)
	}
	if view == nil {
		return nil, apperrors.Internal(msgLookupFailed, domainErrors.ErrPaymentNotFound)
	}

	return view, nil
}

// completeAndEnroll runs the status transition and enrollment activation as one unit
func (s *PaymentService) completeAndEnroll(ctx context.Context, payment *model.Payment, gatewayData datatypes.JSON) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ok, err := s.payments.TransitionStatus(ctx, payment.ID, model.PaymentStatusPending, model.PaymentStatusCompleted, gatewayData)
		if err != nil {
			return err
		}
		if !ok {
			return domainErrors.ErrPaymentAlreadyProcessed
		}

		return s.activateEnrollment(ctx, payment.StudentID, payment.CourseID)
	})
}

func (s *PaymentService) activateEnrollment(ctx context.Context, studentID, courseID int64) error {
	enrollment, err := s.enrollments.GetByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		return err
	}

	if enrollment == nil {
		// Normally created at checkout; a payment made without one still grants access.
		s.logger.Warn("No enrollment found for confirmed payment, creating one",
			zap.Int64("student_id", studentID),
			zap.Int64("course_id", courseID))

		now := time.Now().UTC()
		return s.enrollments.Create(ctx, &model.Enrollment{
			StudentID:   studentID,
			CourseID:    courseID,
			Status:      model.EnrollmentStatusActive,
			EnrolledAt:  now,
			ActivatedAt: &now,
		})
	}

	if enrollment.IsActive() {
		return nil
	}

	return s.enrollments.Activate(ctx, enrollment.ID)
}

// notifyTeacher is an error boundary: nothing it does may fail the confirmation.
func (s *PaymentService) notifyTeacher(ctx context.Context, payment *model.Payment) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notification panic: %v", r)
		}
	}()

	course, err := s.courses.GetByID(ctx, payment.CourseID)
	if err != nil {
		return err
	}
	if course == nil {
		return domainErrors.ErrCourseNotFound
	}

	student, err := s.users.GetByID(ctx, payment.StudentID)
	if err != nil {
		return err
	}

	teacher, err := s.users.GetByID(ctx, course.TeacherID)
	if err != nil {
		return err
	}

	return s.dispatcher.Dispatch(ctx, newEnrollmentNotification(payment, course, student, teacher))
}

// CancelPayment marks a pending payment as failed. When requestingStudentID is
// set the payment must belong to that student.
func (s *PaymentService) CancelPayment(ctx context.Context, paymentID int64, requestingStudentID *int64) error {
	if paymentID <= 0 {
		return apperrors.InvalidArgument("Invalid payment ID", domainErrors.ErrInvalidPaymentID)
	}

	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		metrics.Cancellations.WithLabelValues(metrics.ResultError).Inc()
		return apperrors.Internal(msgCancelFailed, err)
	}
	if payment == nil {
		metrics.Cancellations.WithLabelValues(metrics.ResultNotFound).Inc()
		return apperrors.NotFound("Payment not found", domainErrors.ErrPaymentNotFound)
	}

	if requestingStudentID != nil && *requestingStudentID != payment.StudentID {
		metrics.Cancellations.WithLabelValues(metrics.ResultForbidden).Inc()
		s.logger.Warn("Cancellation attempt on another student's payment",
			zap.Int64("payment_id", paymentID),
			zap.Int64("requesting_student_id", *requestingStudentID))
		return apperrors.Forbidden("You are not allowed to cancel this payment", domainErrors.ErrPaymentNotOwned)
	}

	if !payment.IsPending() {
		metrics.Cancellations.WithLabelValues(metrics.ResultInvalidState).Inc()
		return apperrors.FailedPrecondition("Only pending payments can be cancelled", domainErrors.ErrPaymentAlreadyProcessed)
	}

	ok, err := s.payments.TransitionStatus(ctx, paymentID, model.PaymentStatusPending, model.PaymentStatusFailed, nil)
	if err != nil {
		metrics.Cancellations.WithLabelValues(metrics.ResultError).Inc()
		return apperrors.Internal(msgCancelFailed, err)
	}
	if !ok {
		metrics.Cancellations.WithLabelValues(metrics.ResultInvalidState).Inc()
		return apperrors.FailedPrecondition("Only pending payments can be cancelled", domainErrors.ErrPaymentAlreadyProcessed)
	}

	metrics.Cancellations.WithLabelValues(metrics.ResultSuccess).Inc()
	s.logger.Info("Payment cancelled",
		zap.Int64("payment_id", paymentID),
		zap.Int64("student_id", payment.StudentID))

	s.publish(context.WithoutCancel(ctx), dto.EventPaymentCancelled, payment)
	return nil
}

// CreatePayment opens a pending payment for a course at the course's current
// price, reserving a pending enrollment for the student.
func (s *PaymentService) CreatePayment(ctx context.Context, input dto.CreatePaymentInput) (*dto.PaymentView, error) {
	if input.StudentID <= 0 || input.CourseID <= 0 {
		return nil, apperrors.InvalidArgument("Student ID and course ID are required", nil)
	}
	if !input.PaymentGateway.IsValid() {
		return nil, apperrors.InvalidArgument("Unsupported payment gateway", domainErrors.ErrInvalidGateway)
	}

	course, err := s.courses.GetByID(ctx, input.CourseID)
	if err != nil {
		return nil, apperrors.Internal(msgCreateFailed, err)
	}
	if course == nil {
		return nil, apperrors.NotFound("Course not found", domainErrors.ErrCourseNotFound)
	}

	transactionID, err := newTransactionID()
	if err != nil {
		return nil, apperrors.Internal(msgCreateFailed, err)
	}

	payment := &model.Payment{
		StudentID:      input.StudentID,
		CourseID:       course.ID,
		Amount:         course.Price,
		PaymentGateway: input.PaymentGateway,
		TransactionID:  transactionID,
		Status:         model.PaymentStatusPending,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		enrollment, err := s.enrollments.GetByStudentAndCourse(ctx, input.StudentID, course.ID)
		if err != nil {
			return err
		}

		if enrollment == nil {
			enrollment = &model.Enrollment{
				StudentID:  input.StudentID,
				CourseID:   course.ID,
				Status:     model.EnrollmentStatusPending,
				EnrolledAt: time.Now().UTC(),
			}
			if err := s.enrollments.Create(ctx, enrollment); err != nil {
				return err
			}
		} else if enrollment.IsActive() {
			return domainErrors.ErrAlreadyEnrolled
		}

		payment.EnrollmentID = &enrollment.ID
		return s.payments.Create(ctx, payment)
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyEnrolled) {
			return nil, apperrors.Conflict("You are already enrolled in this course", err)
		}
		return nil, apperrors.Internal(msgCreateFailed, err)
	}

	s.logger.Info("Payment created",
		zap.Int64("payment_id", payment.ID),
		zap.Int64("student_id", payment.StudentID),
		zap.Int64("course_id", payment.CourseID),
		zap.String("gateway", string(payment.PaymentGateway)),
		zap.String("transaction_id", payment.TransactionID))

	return s.GetPayment(ctx, payment.ID, nil)
}

// GetPayment returns the payment view. When requestingStudentID is set the
// payment must belong to that student.
func (s *PaymentService) GetPayment(ctx context.Context, paymentID int64, requestingStudentID *int64) (*dto.PaymentView, error) {
	if paymentID <= 0 {
		return nil, apperrors.InvalidArgument("Invalid payment ID", domainErrors.ErrInvalidPaymentID)
	}

	view, err := s.payments.GetView(ctx, paymentID)
	if err != nil {
		return nil, apperrors.Internal(msgLookupFailed, err)
	}
	if view == nil {
		return nil, apperrors.NotFound("Payment not found", domainErrors.ErrPaymentNotFound)
	}

	if requestingStudentID != nil && *requestingStudentID != view.StudentID {
		return nil, apperrors.Forbidden("You are not allowed to view this payment", domainErrors.ErrPaymentNotOwned)
	}

	return view, nil
}

// ListStudentPayments returns a student's payments, newest first
func (s *PaymentService) ListStudentPayments(ctx context.Context, studentID int64, params dto.PaginationParams) (*dto.PaymentListResponse, error) {
	if studentID <= 0 {
		return nil, apperrors.InvalidArgument("Invalid student ID", nil)
	}

	params.Normalize()

	views, err := s.payments.ListViewsByStudent(ctx, studentID, params.Limit, params.Offset())
	if err != nil {
		return nil, apperrors.Internal(msgLookupFailed, err)
	}

	total, err := s.payments.CountByStudent(ctx, studentID)
	if err != nil {
		return nil, apperrors.Internal(msgLookupFailed, err)
	}

	return &dto.PaymentListResponse{
		Payments:   views,
		Pagination: dto.NewPaginationMeta(params.Page, params.Limit, total),
	}, nil
}

// loadPending fetches the payment outside any transaction and checks it can still be processed
func (s *PaymentService) loadPending(ctx context.Context, paymentID int64, failMsg string) (*model.Payment, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, apperrors.Internal(failMsg, err)
	}
	if payment == nil {
		return nil, apperrors.NotFound("Payment not found", domainErrors.ErrPaymentNotFound)
	}
	if !payment.IsPending() {
		return nil, apperrors.FailedPrecondition("Payment already processed", domainErrors.ErrPaymentAlreadyProcessed)
	}
	return payment, nil
}

func (s *PaymentService) publish(ctx context.Context, eventType string, payment *model.Payment) {
	if s.publisher == nil {
		return
	}

	event := dto.PaymentEvent{
		Type:          eventType,
		PaymentID:     payment.ID,
		StudentID:     payment.StudentID,
		CourseID:      payment.CourseID,
		Amount:        payment.Amount,
		TransactionID: payment.TransactionID,
		OccurredAt:    time.Now().UTC(),
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		metrics.EventsPublished.WithLabelValues(eventType, metrics.ResultError).Inc()
		s.logger.Warn("Failed to publish payment event",
			zap.String("type", eventType),
			zap.Int64("payment_id", payment.ID),
			zap.Error(err))
		return
	}

	metrics.EventsPublished.WithLabelValues(eventType, metrics.ResultSuccess).Inc()
}

func newTransactionID() (string, error) {
	digits, err := gonanoid.Generate(transactionIDDigits, 2)
	if err != nil {
		return "", err
	}

	suffix, err := gonanoid.Generate(transactionIDAlphabet, 12)
	if err != nil {
		return "", err
	}

	return transactionIDPrefix + digits + suffix, nil
}

func resultLabel(err error) string {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrNotFound:
		return metrics.ResultNotFound
	case apperrors.ErrFailedPrecondition:
		return metrics.ResultInvalidState
	case apperrors.ErrUnauthorized:
		return metrics.ResultForbidden
	}
	if errors.Is(err, domainErrors.ErrPaymentAlreadyProcessed) {
		return metrics.ResultInvalidState
	}
	return metrics.ResultError
}
