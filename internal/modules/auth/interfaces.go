package auth

import (
	"context"

	"servicebook/internal/domain"
)

// UserRepositoryInterface lists the user store methods the auth service uses.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	CreateProfessional(ctx context.Context, u *domain.User, p *domain.Professional) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type ProfessionalReader interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.Professional, error)
}

type jwtService interface {
	GenerateToken(userID int64, role string, professionalID int64) (string, error)
}
