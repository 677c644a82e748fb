package availability

import (
	"context"
	"errors"
	"fmt"

	"servicebook/internal/domain"
	"servicebook/internal/repository"

	"go.uber.org/zap"
)

type Service struct {
	store Store
	log   *zap.Logger
}

func NewService(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

func (s *Service) Add(ctx context.Context, actor domain.Actor, req AddRequest) (*domain.Availability, error) {
	if actor.ProfessionalID <= 0 {
		return nil, ErrForbidden
	}

	date, start, err := domain.ParseSlot(req.Date, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	_, end, err := domain.ParseSlot(req.Date, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if start >= end {
		return nil, fmt.Errorf("%w: start_time must be before end_time", ErrValidation)
	}
	status := domain.AvailabilityStatus(req.Status)
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, req.Status)
	}

	a := &domain.Availability{
		ProfessionalID: actor.ProfessionalID,
		Date:           date,
		StartTime:      start,
		EndTime:        end,
		Status:         status,
	}
	if err := s.store.Create(ctx, a); err != nil {
		return nil, err
	}

	s.log.Info("availability added",
		zap.Int64("professional_id", a.ProfessionalID),
		zap.String("date", a.Date),
		zap.String("status", string(a.Status)),
	)
	return a, nil
}

func (s *Service) List(ctx context.Context, actor domain.Actor) ([]domain.Availability, error) {
	if actor.ProfessionalID <= 0 {
		return nil, ErrForbidden
	}
	return s.store.ListByProfessional(ctx, actor.ProfessionalID)
}

// Delete removes one of the caller's own windows. A window owned by someone
// else is reported as not found.
func (s *Service) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	if actor.ProfessionalID <= 0 {
		return ErrForbidden
	}
	if err := s.store.Delete(ctx, actor.ProfessionalID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
