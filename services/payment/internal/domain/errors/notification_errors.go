package errors

import "errors"

var (
	// ErrNotificationNotFound indicates the notification does not exist or is not addressed to the user
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrDispatcherClosed is returned when dispatching after shutdown
	ErrDispatcherClosed = errors.New("notification dispatcher is closed")

	// ErrDispatchQueueFull is returned when the in-process queue cannot accept more tasks
	ErrDispatchQueueFull = errors.New("notification queue is full")
)
