package payment

import (
	"context"
	"errors"
	"fmt"

	"servicebook/internal/domain"
	"servicebook/internal/events"
	"servicebook/internal/repository"

	"go.uber.org/zap"
)

type Service struct {
	payments     paymentRepo
	reservations reservationReader
	events       events.Publisher
	log          *zap.Logger
}

func NewService(payments paymentRepo, reservations reservationReader, publisher events.Publisher, log *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{payments: payments, reservations: reservations, events: publisher, log: log}
}

// RecordPayment stores a paid payment for the reservation. The reservation
// is marked paid and, if still pending, confirmed in the same transaction.
func (s *Service) RecordPayment(ctx context.Context, actor domain.Actor, reservationID int64, amount float64, method domain.PaymentMethod) (*domain.Payment, *domain.Reservation, error) {
	if !actor.IsAdmin() {
		return nil, nil, ErrForbidden
	}
	if amount <= 0 {
		return nil, nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if !method.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown method %q", ErrValidation, method)
	}

	p := &domain.Payment{ReservationID: reservationID, Amount: amount, Method: method}
	res, err := s.payments.RecordPaid(ctx, p, func(res domain.Reservation, alreadyPaid bool) error {
		if res.Status == domain.ReservationCancelled {
			return ErrReservationClosed
		}
		if alreadyPaid {
			return ErrAlreadyPaid
		}
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("payment recorded",
		zap.Int64("payment_id", p.ID),
		zap.Int64("reservation_id", reservationID),
		zap.Float64("amount", amount),
		zap.String("method", string(method)),
	)
	e := events.New(events.PaymentRecorded, res.ID, res.UserID, res.ProfessionalID, string(res.Status))
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.Warn("publish payment event", zap.Int64("reservation_id", res.ID), zap.Error(err))
	}
	return p, res, nil
}

func (s *Service) ListForReservation(ctx context.Context, actor domain.Actor, reservationID int64) ([]domain.Payment, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.UserID != res.UserID {
		return nil, ErrForbidden
	}
	return s.payments.ListByReservation(ctx, reservationID)
}
