package http

import (
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/middleware/auth"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the payment and notification endpoints.
// Confirm, cancel and get accept anonymous callers; everything else needs a token.
func RegisterRoutes(e *echo.Echo, payments *PaymentHandler, notifications *NotificationHandler, jwtConfig auth.JWTConfig) {
	optionalConfig := jwtConfig
	optionalConfig.Optional = true
	optionalAuth := auth.JWTMiddleware(optionalConfig)
	requireAuth := auth.JWTMiddleware(jwtConfig)

	// Legacy paths used by the storefront checkout page
	e.POST("/confirm-payment", payments.ConfirmPayment, optionalAuth)
	e.POST("/cancel-payment", payments.CancelPayment, optionalAuth)

	v1 := e.Group("/api/v1")

	v1.POST("/payments/confirm", payments.ConfirmPayment, optionalAuth)
	v1.POST("/payments/cancel", payments.CancelPayment, optionalAuth)
	v1.GET("/payments/:id", payments.GetPayment, optionalAuth)

	protected := v1.Group("", requireAuth)
	protected.POST("/payments", payments.CreatePayment)
	protected.GET("/payments", payments.ListPayments)
	protected.GET("/notifications", notifications.ListNotifications)
	protected.PATCH("/notifications/:id/read", notifications.MarkRead)
}
