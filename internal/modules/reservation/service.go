package reservation

import (
	"context"
	"errors"
	"time"

	"servicebook/internal/domain"
	"servicebook/internal/events"
	"servicebook/internal/repository"

	"go.uber.org/zap"
)

type Service struct {
	reservations  ReservationStore
	catalog       CatalogReader
	professionals ProfessionalReader
	events        events.Publisher
	log           *zap.Logger
	now           func() time.Time
}

func NewService(
	reservations ReservationStore,
	catalog CatalogReader,
	professionals ProfessionalReader,
	publisher events.Publisher,
	log *zap.Logger,
) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		reservations:  reservations,
		catalog:       catalog,
		professionals: professionals,
		events:        publisher,
		log:           log,
		now:           time.Now,
	}
}

// Book reserves a slot for the calling client. The reservation starts out
// pending with an unpaid balance.
func (s *Service) Book(ctx context.Context, actor domain.Actor, req BookRequest) (*domain.Reservation, error) {
	if actor.Role != domain.RoleClient {
		return nil, ErrForbidden
	}
	if req.ProfessionalID <= 0 || req.ServiceID <= 0 {
		return nil, invalid("professional_id and service_id are required")
	}

	date, clock, err := domain.ParseSlot(req.Date, req.Time)
	if err != nil {
		return nil, invalid("%v", err)
	}
	if date < s.now().Format(domain.DateLayout) {
		return nil, invalid("date %s is in the past", date)
	}

	if err := s.checkBookable(ctx, req.ProfessionalID, req.ServiceID); err != nil {
		return nil, err
	}

	res := &domain.Reservation{
		UserID:         actor.UserID,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		Date:           date,
		Time:           clock,
		Status:         domain.ReservationPending,
		PaymentStatus:  domain.PaymentPending,
	}
	switch err := s.reservations.Book(ctx, res); {
	case err == nil:
	case errors.Is(err, repository.ErrSlotTaken):
		return nil, ErrSlotConflict
	case errors.Is(err, repository.ErrSlotBlocked):
		return nil, ErrSlotConflict
	default:
		return nil, err
	}

	s.publish(ctx, events.ReservationBooked, res)
	return res, nil
}

func (s *Service) checkBookable(ctx context.Context, professionalID, serviceID int64) error {
	pro, err := s.professionals.GetByID(ctx, professionalID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotBookable
	}
	if err != nil {
		return err
	}
	if !pro.IsVerified {
		return ErrNotBookable
	}

	svc, err := s.catalog.GetService(ctx, serviceID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotBookable
	}
	if err != nil {
		return err
	}
	if !svc.IsActive {
		return ErrNotBookable
	}

	if _, err := s.catalog.GetOffering(ctx, professionalID, serviceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotBookable
		}
		return err
	}
	return nil
}

// UpdateStatus moves a reservation along pending -> confirmed -> completed,
// or to cancelled from either open state. Only the reservation's
// professional or an admin may do it.
func (s *Service) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, next domain.ReservationStatus) (*domain.Reservation, error) {
	res, err := s.reservations.Transition(ctx, id, func(cur domain.Reservation) (domain.ReservationStatus, error) {
		if !canManage(actor, cur) {
			return "", ErrForbidden
		}
		// A closed reservation reports TerminalStateError even for unknown targets.
		if cur.Status.Terminal() {
			return "", ErrTerminalState
		}
		if !next.Valid() {
			return "", invalid("unknown status %q", next)
		}
		if !cur.Status.CanTransitionTo(next) {
			return "", ErrInvalidTransition
		}
		return next, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrNotFound
	case errors.Is(err, repository.ErrStaleStatus):
		return nil, ErrStatusChanged
	default:
		return nil, err
	}

	s.publish(ctx, events.ReservationStatusChanged, res)
	return res, nil
}

func canManage(actor domain.Actor, res domain.Reservation) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.Role == domain.RoleProfessional &&
		actor.ProfessionalID > 0 &&
		actor.ProfessionalID == res.ProfessionalID
}

// Delete removes a reservation with its payments and review and leaves an
// audit row behind. Admin only.
func (s *Service) Delete(ctx context.Context, actor domain.Actor, id int64) (*domain.ReservationAuditLog, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	entry, err := s.reservations.Delete(ctx, id, actor.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("reservation deleted",
		zap.Int64("reservation_id", id),
		zap.Int64("deleted_by", actor.UserID),
		zap.String("last_status", string(entry.Status)),
	)
	s.emit(ctx, events.New(events.ReservationDeleted, id, entry.UserID, entry.ProfessionalID, string(entry.Status)))
	return entry, nil
}

// Get returns the reservation to its client, its professional or an admin.
func (s *Service) Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if res.UserID != actor.UserID && !canManage(actor, *res) {
		return nil, ErrForbidden
	}
	return res, nil
}

func (s *Service) ListForClient(ctx context.Context, actor domain.Actor) ([]repository.ClientReservationRow, error) {
	return s.reservations.ListForClient(ctx, actor.UserID)
}

func (s *Service) ListForProfessional(ctx context.Context, actor domain.Actor) ([]repository.ProfessionalReservationRow, error) {
	if actor.ProfessionalID <= 0 {
		return nil, ErrForbidden
	}
	return s.reservations.ListForProfessional(ctx, actor.ProfessionalID)
}

func (s *Service) publish(ctx context.Context, t events.Type, res *domain.Reservation) {
	s.emit(ctx, events.New(t, res.ID, res.UserID, res.ProfessionalID, string(res.Status)))
}

func (s *Service) emit(ctx context.Context, e events.Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.Warn("publish reservation event", zap.String("type", string(e.Type)), zap.Int64("reservation_id", e.ReservationID), zap.Error(err))
	}
}
