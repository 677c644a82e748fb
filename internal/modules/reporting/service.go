package reporting

import (
	"context"
	"fmt"
	"math"
	"time"

	"servicebook/internal/domain"
	"servicebook/internal/repository"

	"go.uber.org/zap"
)

const (
	openRangeStart  = "0001-01-01"
	openRangeEnd    = "9999-12-31"
	defaultAuditLog = 10
	maxAuditLog     = 500
)

type Service struct {
	reports ReportStore
	audit   AuditLogReader
	log     *zap.Logger
}

func NewService(reports ReportStore, audit AuditLogReader, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{reports: reports, audit: audit, log: log}
}

/* ---------- DASHBOARDS ---------- */

func (s *Service) ClientDashboard(ctx context.Context, actor domain.Actor) (*ClientDashboard, error) {
	if actor.Role != domain.RoleClient {
		return nil, ErrForbidden
	}

	total, err := s.reports.CountReservations(ctx, actor.UserID, "")
	if err != nil {
		return nil, err
	}
	completed, err := s.reports.CountReservations(ctx, actor.UserID, domain.ReservationCompleted)
	if err != nil {
		return nil, err
	}
	pending, err := s.reports.CountReservations(ctx, actor.UserID, domain.ReservationPending)
	if err != nil {
		return nil, err
	}

	return &ClientDashboard{
		Tier:                  domain.LoyaltyTierFor(completed),
		TotalReservations:     total,
		CompletedReservations: completed,
		PendingReservations:   pending,
	}, nil
}

// ClientTier counts the client's completed reservations and maps them to a
// loyalty tier.
func (s *Service) ClientTier(ctx context.Context, userID int64) (domain.LoyaltyTier, error) {
	completed, err := s.reports.CountReservations(ctx, userID, domain.ReservationCompleted)
	if err != nil {
		return "", err
	}
	return domain.LoyaltyTierFor(completed), nil
}

func (s *Service) ProfessionalDashboard(ctx context.Context, actor domain.Actor) (*repository.ProfessionalOverview, error) {
	if actor.ProfessionalID <= 0 {
		return nil, ErrForbidden
	}
	return s.reports.ProfessionalOverview(ctx, actor.ProfessionalID)
}

func (s *Service) Earnings(ctx context.Context, actor domain.Actor, r DateRange) (*Earnings, error) {
	if actor.ProfessionalID <= 0 {
		return nil, ErrForbidden
	}
	from, to, err := normalizeRange(r)
	if err != nil {
		return nil, err
	}

	total, err := s.reports.ProfessionalEarnings(ctx, actor.ProfessionalID, from, to)
	if err != nil {
		return nil, err
	}
	return &Earnings{ProfessionalID: actor.ProfessionalID, From: from, To: to, Total: total}, nil
}

func (s *Service) AdminDashboard(ctx context.Context) (*repository.AdminOverview, error) {
	return s.reports.AdminOverview(ctx)
}

/* ---------- REPORTS ---------- */

func (s *Service) Revenue(ctx context.Context, r DateRange, categoryID int64) ([]repository.RevenueRow, error) {
	from, to, err := normalizeRange(r)
	if err != nil {
		return nil, err
	}
	return s.reports.RevenueByCategory(ctx, from, to, categoryID)
}

// Frequency reports bookings per service with a completion rate in percent,
// rounded to two decimals.
func (s *Service) Frequency(ctx context.Context, r DateRange, categoryID int64) ([]FrequencyItem, error) {
	from, to, err := normalizeRange(r)
	if err != nil {
		return nil, err
	}

	rows, err := s.reports.ServiceFrequency(ctx, from, to, categoryID)
	if err != nil {
		return nil, err
	}

	out := make([]FrequencyItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, FrequencyItem{FrequencyRow: row, CompletionRate: CompletionRate(row.Completed, row.TimesBooked)})
	}
	return out, nil
}

func (s *Service) Loyalty(ctx context.Context) ([]LoyaltyItem, error) {
	rows, err := s.reports.LoyaltyOverview(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]LoyaltyItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, LoyaltyItem{LoyaltyRow: row, Tier: domain.LoyaltyTierFor(row.CompletedReservations)})
	}
	return out, nil
}

func (s *Service) Reservations(ctx context.Context, r DateRange, professionalID int64, status string) ([]repository.ReservationReportRow, error) {
	from, to, err := normalizeRange(r)
	if err != nil {
		return nil, err
	}
	st := domain.ReservationStatus(status)
	if st != "" && !st.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	return s.reports.ReservationsByDateRange(ctx, repository.ReservationFilter{
		From:           from,
		To:             to,
		ProfessionalID: professionalID,
		Status:         st,
	})
}

func (s *Service) SearchUsers(ctx context.Context, name, email, role string) ([]repository.UserSearchRow, error) {
	r := domain.UserRole(role)
	if r != "" && !r.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	return s.reports.SearchUsers(ctx, repository.UserFilter{Name: name, Email: email, Role: r})
}

// AuditLog returns the newest deletions first. A non-positive limit means 10.
func (s *Service) AuditLog(ctx context.Context, limit int) ([]domain.ReservationAuditLog, error) {
	if limit <= 0 {
		limit = defaultAuditLog
	}
	if limit > maxAuditLog {
		limit = maxAuditLog
	}
	return s.audit.RecentAuditLog(ctx, limit)
}

// CompletionRate is completed/total as a percentage rounded to two decimals.
// It is zero when total is zero.
func CompletionRate(completed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*100*100) / 100
}

func normalizeRange(r DateRange) (string, string, error) {
	from, to := r.From, r.To
	if from == "" {
		from = openRangeStart
	}
	if to == "" {
		to = openRangeEnd
	}
	if _, err := time.Parse(domain.DateLayout, from); err != nil {
		return "", "", fmt.Errorf("%w: invalid from date %q", ErrValidation, r.From)
	}
	if _, err := time.Parse(domain.DateLayout, to); err != nil {
		return "", "", fmt.Errorf("%w: invalid to date %q", ErrValidation, r.To)
	}
	if from > to {
		return "", "", fmt.Errorf("%w: from must not be after to", ErrValidation)
	}
	return from, to, nil
}
