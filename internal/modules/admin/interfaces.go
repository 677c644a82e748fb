package admin

import (
	"context"

	"servicebook/internal/domain"
	"servicebook/internal/repository"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

type ProfessionalRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Professional, error)
	SetVerified(ctx context.Context, id int64, verified bool) error
}

// Reports is the read side the admin panel delegates to.
type Reports interface {
	SearchUsers(ctx context.Context, name, email, role string) ([]repository.UserSearchRow, error)
	AuditLog(ctx context.Context, limit int) ([]domain.ReservationAuditLog, error)
}

type CatalogInvalidator interface {
	Invalidate(ctx context.Context)
}
