package repository

import (
	"context"

	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/domain/model"
)

// CourseRepository is a read-only view of the course catalogue
type CourseRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Course, error)
}

// UserRepository is a read-only view of marketplace accounts
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}
