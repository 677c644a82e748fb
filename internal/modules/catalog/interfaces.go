package catalog

import (
	"context"

	"servicebook/internal/domain"
	"servicebook/internal/repository"
)

type Store interface {
	CreateCategory(ctx context.Context, c *domain.Category) error
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	ListActiveCategories(ctx context.Context) ([]domain.Category, error)
	CreateService(ctx context.Context, s *domain.Service) error
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	ListActiveServices(ctx context.Context, categoryID int64) ([]domain.Service, error)
	CreateOffering(ctx context.Context, o *domain.Offering) error
	DeleteOffering(ctx context.Context, professionalID, serviceID int64) error
	ListOfferings(ctx context.Context, professionalID int64) ([]repository.OfferingRow, error)
	BookableOfferings(ctx context.Context) ([]repository.OfferingRow, error)
}

type ViewReader interface {
	ServiceCatalog(ctx context.Context, categoryName string) ([]repository.CatalogRow, error)
}
