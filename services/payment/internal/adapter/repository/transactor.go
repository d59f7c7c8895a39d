package repository

import (
	"context"

	domainRepo "github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type txContextKey struct{}

// gormTransactor implements the Transactor interface on top of gorm transactions
type gormTransactor struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewTransactor creates a transaction runner bound to db
func NewTransactor(db *gorm.DB, logger *zap.Logger) domainRepo.Transactor {
	return &gormTransactor{
		db:     db,
		logger: logger,
	}
}

// WithinTransaction begins a transaction, or joins the one already in ctx.
func (t *gormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok && tx != nil {
		return fn(ctx)
	}

	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// conn returns the transaction stored in ctx, or db bound to ctx.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
