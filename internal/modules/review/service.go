package review

import (
	"context"
	"errors"
	"strings"

	"servicebook/internal/domain"
	"servicebook/internal/events"
	"servicebook/internal/repository"

	"go.uber.org/zap"
)

type Service struct {
	reviews      ReviewStore
	reservations ReservationGate
	events       events.Publisher
	log          *zap.Logger
}

func NewService(reviews ReviewStore, reservations ReservationGate, publisher events.Publisher, log *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{reviews: reviews, reservations: reservations, events: publisher, log: log}
}

// Submit stores the client's review of a completed reservation.
func (s *Service) Submit(ctx context.Context, actor domain.Actor, req CreateReviewRequest) (*domain.Review, error) {
	if req.ReservationID <= 0 || req.Rating < domain.MinRating || req.Rating > domain.MaxRating {
		return nil, ErrInvalidRequest
	}

	res, err := s.reservations.GetByID(ctx, req.ReservationID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if res.UserID != actor.UserID {
		return nil, ErrForbidden
	}
	if res.Status != domain.ReservationCompleted {
		return nil, ErrNotEligible
	}

	exists, err := s.reviews.ExistsForReservation(ctx, res.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	rv := &domain.Review{
		ReservationID: res.ID,
		Rating:        req.Rating,
		Comment:       strings.TrimSpace(req.Comment),
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}

	e := events.New(events.ReviewSubmitted, res.ID, res.UserID, res.ProfessionalID, string(res.Status))
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.Warn("publish review event", zap.Int64("reservation_id", res.ID), zap.Error(err))
	}
	return rv, nil
}

func (s *Service) ListForProfessional(ctx context.Context, actor domain.Actor) ([]repository.ProfessionalReviewRow, error) {
	if actor.ProfessionalID <= 0 {
		return nil, ErrForbidden
	}
	return s.reviews.ListForProfessional(ctx, actor.ProfessionalID)
}
