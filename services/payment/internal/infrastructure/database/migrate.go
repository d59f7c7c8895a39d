package database

import (
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models lists every table owned or read by the payment service.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Course{},
		&model.Enrollment{},
		&model.Payment{},
		&model.Notification{},
	}
}

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running GORM auto-migrations...")
	if err := db.AutoMigrate(Models()...); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	logger.Info("Creating custom indexes...")
	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates partial indexes that struct tags cannot express
func createCustomIndexes(db *gorm.DB) error {
	// Pending payments are the only rows the confirm/cancel paths look for by status
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_payments_pending ON payments (id) WHERE status = 'pending'`).Error; err != nil {
		return err
	}

	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_notifications_unread ON notifications (receiver_id) WHERE is_read = false`).Error; err != nil {
		return err
	}

	return nil
}
