package auth

import "servicebook/internal/domain"

type RegisterRequest struct {
	FirstName       string `json:"first_name" validate:"required,max=100"`
	LastName        string `json:"last_name" validate:"max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	Role            string `json:"role" validate:"omitempty,oneof=client professional"`
	ExperienceYears int    `json:"experience_years" validate:"gte=0,lte=80"`
	Bio             string `json:"bio" validate:"max=2000"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserPublic struct {
	ID             int64           `json:"id"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Email          string          `json:"email"`
	Role           domain.UserRole `json:"role"`
	IsActive       bool            `json:"is_active"`
	ProfessionalID int64           `json:"professional_id,omitempty"`
}

type AuthResponse struct {
	User  UserPublic `json:"user"`
	Token string     `json:"token"`
}

func toPublic(u *domain.User, professionalID int64) UserPublic {
	return UserPublic{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		Role:           u.Role,
		IsActive:       u.IsActive,
		ProfessionalID: professionalID,
	}
}
