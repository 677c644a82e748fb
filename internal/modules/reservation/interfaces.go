package reservation

import (
	"context"

	"servicebook/internal/domain"
	"servicebook/internal/repository"
)

type ReservationStore interface {
	Book(ctx context.Context, res *domain.Reservation) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Transition(ctx context.Context, id int64, decide func(current domain.Reservation) (domain.ReservationStatus, error)) (*domain.Reservation, error)
	Delete(ctx context.Context, id, deletedBy int64) (*domain.ReservationAuditLog, error)
	ListForClient(ctx context.Context, userID int64) ([]repository.ClientReservationRow, error)
	ListForProfessional(ctx context.Context, professionalID int64) ([]repository.ProfessionalReservationRow, error)
}

type CatalogReader interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
	GetOffering(ctx context.Context, professionalID, serviceID int64) (*domain.Offering, error)
}

type ProfessionalReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Professional, error)
}
