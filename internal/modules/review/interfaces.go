package review

import (
	"context"

	"servicebook/internal/domain"
	"servicebook/internal/repository"
)

type ReviewStore interface {
	Create(ctx context.Context, rv *domain.Review) error
	ExistsForReservation(ctx context.Context, reservationID int64) (bool, error)
	ListForProfessional(ctx context.Context, professionalID int64) ([]repository.ProfessionalReviewRow, error)
}

type ReservationGate interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
}
