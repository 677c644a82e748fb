package repository

import (
	"context"
	"time"

	"servicebook/internal/domain"

	"gorm.io/gorm"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

type categoryModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	Name        string    `gorm:"column:name;size:120;not null;uniqueIndex"`
	Description *string   `gorm:"column:description;type:text"`
	IsActive    bool      `gorm:"column:is_active;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (categoryModel) TableName() string { return "categories" }

type serviceModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	CategoryID  int64     `gorm:"column:category_id;not null;index"`
	Name        string    `gorm:"column:name;size:150;not null"`
	Description *string   `gorm:"column:description;type:text"`
	BasePrice   float64   `gorm:"column:base_price;not null"`
	IsActive    bool      `gorm:"column:is_active;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (serviceModel) TableName() string { return "services" }

type offeringModel struct {
	ProfessionalID int64     `gorm:"column:professional_id;primaryKey"`
	ServiceID      int64     `gorm:"column:service_id;primaryKey"`
	CustomPrice    *float64  `gorm:"column:custom_price"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (offeringModel) TableName() string { return "professional_services" }

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toDomainCategory(m categoryModel) domain.Category {
	return domain.Category{
		ID:          m.ID,
		Name:        m.Name,
		Description: derefString(m.Description),
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
	}
}

func toDomainService(m serviceModel) domain.Service {
	return domain.Service{
		ID:          m.ID,
		CategoryID:  m.CategoryID,
		Name:        m.Name,
		Description: derefString(m.Description),
		BasePrice:   m.BasePrice,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
	}
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	m := categoryModel{Name: c.Name, Description: optString(c.Description), IsActive: c.IsActive}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate("categories.create", err)
	}
	*c = toDomainCategory(m)
	return nil
}

func (r *CatalogRepository) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	var m categoryModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate("categories.get", err)
	}
	c := toDomainCategory(m)
	return &c, nil
}

func (r *CatalogRepository) ListActiveCategories(ctx context.Context) ([]domain.Category, error) {
	var rows []categoryModel
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name").Find(&rows).Error; err != nil {
		return nil, translate("categories.list", err)
	}
	out := make([]domain.Category, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainCategory(m))
	}
	return out, nil
}

func (r *CatalogRepository) CreateService(ctx context.Context, s *domain.Service) error {
	m := serviceModel{
		CategoryID:  s.CategoryID,
		Name:        s.Name,
		Description: optString(s.Description),
		BasePrice:   s.BasePrice,
		IsActive:    s.IsActive,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate("services.create", err)
	}
	*s = toDomainService(m)
	return nil
}

func (r *CatalogRepository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	var m serviceModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate("services.get", err)
	}
	s := toDomainService(m)
	return &s, nil
}

// ListActiveServices returns active services, optionally limited to one
// category when categoryID > 0.
func (r *CatalogRepository) ListActiveServices(ctx context.Context, categoryID int64) ([]domain.Service, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if categoryID > 0 {
		q = q.Where("category_id = ?", categoryID)
	}

	var rows []serviceModel
	if err := q.Order("name").Find(&rows).Error; err != nil {
		return nil, translate("services.list", err)
	}
	out := make([]domain.Service, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainService(m))
	}
	return out, nil
}

func (r *CatalogRepository) CreateOffering(ctx context.Context, o *domain.Offering) error {
	m := offeringModel{ProfessionalID: o.ProfessionalID, ServiceID: o.ServiceID, CustomPrice: o.CustomPrice}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate("offerings.create", err)
	}
	o.CreatedAt = m.CreatedAt
	return nil
}

func (r *CatalogRepository) DeleteOffering(ctx context.Context, professionalID, serviceID int64) error {
	tx := r.db.WithContext(ctx).
		Where("professional_id = ? AND service_id = ?", professionalID, serviceID).
		Delete(&offeringModel{})
	if tx.Error != nil {
		return translate("offerings.delete", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CatalogRepository) GetOffering(ctx context.Context, professionalID, serviceID int64) (*domain.Offering, error) {
	var m offeringModel
	err := r.db.WithContext(ctx).
		Where("professional_id = ? AND service_id = ?", professionalID, serviceID).
		First(&m).Error
	if err != nil {
		return nil, translate("offerings.get", err)
	}
	return &domain.Offering{
		ProfessionalID: m.ProfessionalID,
		ServiceID:      m.ServiceID,
		CustomPrice:    m.CustomPrice,
		CreatedAt:      m.CreatedAt,
	}, nil
}

type OfferingRow struct {
	ProfessionalID   int64    `json:"professional_id"`
	ProfessionalName string   `json:"professional_name"`
	ServiceID        int64    `json:"service_id"`
	ServiceName      string   `json:"service_name"`
	CategoryName     string   `json:"category_name"`
	BasePrice        float64  `json:"base_price"`
	CustomPrice      *float64 `json:"custom_price,omitempty"`
}

func (r *CatalogRepository) offeringQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("professional_services ps").
		Select(`ps.professional_id, u.first_name || ' ' || u.last_name AS professional_name,
			ps.service_id, s.name AS service_name, c.name AS category_name,
			s.base_price, ps.custom_price`).
		Joins("JOIN services s ON s.id = ps.service_id").
		Joins("JOIN categories c ON c.id = s.category_id").
		Joins("JOIN professionals p ON p.id = ps.professional_id").
		Joins("JOIN users u ON u.id = p.user_id")
}

func (r *CatalogRepository) ListOfferings(ctx context.Context, professionalID int64) ([]OfferingRow, error) {
	var rows []OfferingRow
	err := r.offeringQuery(ctx).
		Where("ps.professional_id = ?", professionalID).
		Order("s.name").
		Scan(&rows).Error
	if err != nil {
		return nil, translate("offerings.list", err)
	}
	return rows, nil
}

// BookableOfferings lists offerings of verified professionals for active
// services.
func (r *CatalogRepository) BookableOfferings(ctx context.Context) ([]OfferingRow, error) {
	var rows []OfferingRow
	err := r.offeringQuery(ctx).
		Where("s.is_active = ? AND p.is_verified = ?", true, true).
		Order("s.name, professional_name").
		Scan(&rows).Error
	if err != nil {
		return nil, translate("offerings.bookable", err)
	}
	return rows, nil
}
