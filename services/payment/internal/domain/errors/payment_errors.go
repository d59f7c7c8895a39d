package errors

import "errors"

var (
	// ErrInvalidPaymentID indicates a missing or non-positive payment id
	ErrInvalidPaymentID = errors.New("invalid payment id")

	// ErrPaymentNotFound indicates that no payment row exists for the id
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrPaymentAlreadyProcessed indicates the payment is no longer pending
	ErrPaymentAlreadyProcessed = errors.New("payment already processed")

	// ErrPaymentNotOwned indicates the payment belongs to another student
	ErrPaymentNotOwned = errors.New("payment does not belong to the requesting student")

	// ErrInvalidGateway indicates an unsupported payment gateway
	ErrInvalidGateway = errors.New("unsupported payment gateway")

	// ErrCourseNotFound indicates the referenced course does not exist
	ErrCourseNotFound = errors.New("course not found")

	// ErrAlreadyEnrolled indicates the student already has an active enrollment
	ErrAlreadyEnrolled = errors.New("student is already enrolled in this course")
)
