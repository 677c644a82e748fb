package availability

import (
	"context"

	"servicebook/internal/domain"
)

// Store is the slice of the availability repository this module uses.
type Store interface {
	Create(ctx context.Context, a *domain.Availability) error
	ListByProfessional(ctx context.Context, professionalID int64) ([]domain.Availability, error)
	Delete(ctx context.Context, professionalID, id int64) error
}
