package admin

import (
	"context"
	"errors"

	"servicebook/internal/domain"
	"servicebook/internal/repository"

	"go.uber.org/zap"
)

type Service struct {
	users         UserRepository
	professionals ProfessionalRepository
	reports       Reports
	catalog       CatalogInvalidator
	log           *zap.Logger
}

func NewService(
	users UserRepository,
	professionals ProfessionalRepository,
	reports Reports,
	catalog CatalogInvalidator,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		users:         users,
		professionals: professionals,
		reports:       reports,
		catalog:       catalog,
		log:           log,
	}
}

// -------------------- Users --------------------

func (s *Service) SearchUsers(ctx context.Context, actor domain.Actor, name, email, role string) ([]repository.UserSearchRow, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.reports.SearchUsers(ctx, name, email, role)
}

// SetActive activates or deactivates a user. Deactivated users cannot log in.
func (s *Service) SetActive(ctx context.Context, actor domain.Actor, userID int64, active bool) (*domain.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if !active && actor.UserID == userID {
		return nil, ErrSelfDeactivate
	}

	if err := s.users.SetActive(ctx, userID, active); err != nil {
		return nil, notFound(err)
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err)
	}

	s.log.Info("user activity changed",
		zap.Int64("user_id", userID),
		zap.Bool("active", active),
		zap.Int64("admin_id", actor.UserID),
	)
	return u, nil
}

// -------------------- Professionals --------------------

// SetVerified toggles a professional's verification. Only verified
// professionals appear in the catalog, so the cached view is dropped.
func (s *Service) SetVerified(ctx context.Context, actor domain.Actor, professionalID int64, verified bool) (*domain.Professional, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	if err := s.professionals.SetVerified(ctx, professionalID, verified); err != nil {
		return nil, notFound(err)
	}
	p, err := s.professionals.GetByID(ctx, professionalID)
	if err != nil {
		return nil, notFound(err)
	}
	if s.catalog != nil {
		s.catalog.Invalidate(ctx)
	}

	s.log.Info("professional verification changed",
		zap.Int64("professional_id", professionalID),
		zap.Bool("verified", verified),
		zap.Int64("admin_id", actor.UserID),
	)
	return p, nil
}

// -------------------- Audit --------------------

func (s *Service) AuditLog(ctx context.Context, actor domain.Actor, limit int) ([]domain.ReservationAuditLog, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.reports.AuditLog(ctx, limit)
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
