package domain

import "time"

type UserRole string

const (
	RoleClient       UserRole = "client"
	RoleProfessional UserRole = "professional"
	RoleAdmin        UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleClient, RoleProfessional, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type Professional struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	IsVerified      bool      `json:"is_verified"`
	ExperienceYears int       `json:"experience_years"`
	Bio             string    `json:"bio,omitempty"`
	CreatedAt       time.Time `json:"created_at"`

	User *User `json:"user,omitempty"`
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID         int64
	Role           UserRole
	ProfessionalID int64
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
