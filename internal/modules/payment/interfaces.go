package payment

import (
	"context"

	"servicebook/internal/domain"
	"servicebook/internal/repository"
)

type paymentRepo interface {
	RecordPaid(ctx context.Context, p *domain.Payment, check repository.PaymentCheck) (*domain.Reservation, error)
	ListByReservation(ctx context.Context, reservationID int64) ([]domain.Payment, error)
}

type reservationReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
}
