package reporting

import (
	"context"

	"servicebook/internal/domain"
	"servicebook/internal/repository"
)

type ReportStore interface {
	CountReservations(ctx context.Context, userID int64, status domain.ReservationStatus) (int64, error)
	LoyaltyOverview(ctx context.Context) ([]repository.LoyaltyRow, error)
	RevenueByCategory(ctx context.Context, from, to string, categoryID int64) ([]repository.RevenueRow, error)
	ServiceFrequency(ctx context.Context, from, to string, categoryID int64) ([]repository.FrequencyRow, error)
	ProfessionalEarnings(ctx context.Context, professionalID int64, from, to string) (float64, error)
	AdminOverview(ctx context.Context) (*repository.AdminOverview, error)
	ProfessionalOverview(ctx context.Context, professionalID int64) (*repository.ProfessionalOverview, error)
	ReservationsByDateRange(ctx context.Context, f repository.ReservationFilter) ([]repository.ReservationReportRow, error)
	SearchUsers(ctx context.Context, f repository.UserFilter) ([]repository.UserSearchRow, error)
}

type AuditLogReader interface {
	RecentAuditLog(ctx context.Context, limit int) ([]domain.ReservationAuditLog, error)
}
