package repository

import (
	"context"
	"strings"
	"time"

	"servicebook/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	FirstName    string    `gorm:"column:first_name;size:100;not null"`
	LastName     string    `gorm:"column:last_name;size:100"`
	Email        string    `gorm:"column:email;size:255;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"column:role;size:20;not null;index"`
	IsActive     bool      `gorm:"column:is_active;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

type professionalModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	UserID          int64     `gorm:"column:user_id;not null;uniqueIndex"`
	IsVerified      bool      `gorm:"column:is_verified;not null"`
	ExperienceYears int       `gorm:"column:experience_years;not null"`
	Bio             *string   `gorm:"column:bio;type:text"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (professionalModel) TableName() string { return "professionals" }

func toDomainUser(m userModel) *domain.User {
	return &domain.User{
		ID:           m.ID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         domain.UserRole(m.Role),
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	return userModel{
		ID:           u.ID,
		FirstName:    strings.TrimSpace(u.FirstName),
		LastName:     strings.TrimSpace(u.LastName),
		Email:        normalizeEmail(u.Email),
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toDomainProfessional(m professionalModel) *domain.Professional {
	var bio string
	if m.Bio != nil {
		bio = *m.Bio
	}
	return &domain.Professional{
		ID:              m.ID,
		UserID:          m.UserID,
		IsVerified:      m.IsVerified,
		ExperienceYears: m.ExperienceYears,
		Bio:             bio,
		CreatedAt:       m.CreatedAt,
	}
}

func toProfessionalModel(p *domain.Professional) professionalModel {
	var bio *string
	if p.Bio != "" {
		v := p.Bio
		bio = &v
	}
	return professionalModel{
		ID:              p.ID,
		UserID:          p.UserID,
		IsVerified:      p.IsVerified,
		ExperienceYears: p.ExperienceYears,
		Bio:             bio,
		CreatedAt:       p.CreatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate("users.create", err)
	}
	*u = *toDomainUser(m)
	return nil
}

// CreateProfessional inserts the user and its professional profile in one
// transaction. p.UserID is filled in from the new user.
func (r *UserRepository) CreateProfessional(ctx context.Context, u *domain.User, p *domain.Professional) error {
	return translate("users.create_professional", r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		um := toUserModel(u)
		if err := tx.Create(&um).Error; err != nil {
			return err
		}
		p.UserID = um.ID
		pm := toProfessionalModel(p)
		if err := tx.Create(&pm).Error; err != nil {
			return err
		}
		*u = *toDomainUser(um)
		*p = *toDomainProfessional(pm)
		return nil
	}))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).
		Where("email = ?", normalizeEmail(email)).
		First(&m)
	if tx.Error != nil {
		return nil, translate("users.get_by_email", tx.Error)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate("users.get_by_id", err)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&userModel{}).
		Where("email = ?", normalizeEmail(email)).
		Count(&cnt).Error
	if err != nil {
		return false, translate("users.exists_by_email", err)
	}
	return cnt > 0, nil
}

func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	tx := r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": active, "updated_at": time.Now().UTC()})
	if tx.Error != nil {
		return translate("users.set_active", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type ProfessionalRepository struct {
	db *gorm.DB
}

func NewProfessionalRepository(db *gorm.DB) *ProfessionalRepository {
	return &ProfessionalRepository{db: db}
}

func (r *ProfessionalRepository) GetByID(ctx context.Context, id int64) (*domain.Professional, error) {
	var m professionalModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate("professionals.get_by_id", err)
	}
	return toDomainProfessional(m), nil
}

func (r *ProfessionalRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Professional, error) {
	var m professionalModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		return nil, translate("professionals.get_by_user_id", err)
	}
	return toDomainProfessional(m), nil
}

func (r *ProfessionalRepository) SetVerified(ctx context.Context, id int64, verified bool) error {
	tx := r.db.WithContext(ctx).Model(&professionalModel{}).
		Where("id = ?", id).
		Update("is_verified", verified)
	if tx.Error != nil {
		return translate("professionals.set_verified", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
