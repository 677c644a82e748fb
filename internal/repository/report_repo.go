package repository

import (
	"context"
	"strings"

	"servicebook/internal/domain"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"gorm.io/gorm"
)

// ReportRepository runs read-only aggregate queries. Queries are built with
// goqu's default dialect (double-quoted identifiers, ? placeholders), which
// both PostgreSQL and SQLite accept once gorm rebinds the placeholders.
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

var (
	fullNameExpr  = goqu.L(`"u"."first_name" || ' ' || "u"."last_name"`)
	completedExpr = goqu.L(`COALESCE(SUM(CASE WHEN "r"."status" = 'completed' THEN 1 ELSE 0 END), 0)`)
	cancelledExpr = goqu.L(`COALESCE(SUM(CASE WHEN "r"."status" = 'cancelled' THEN 1 ELSE 0 END), 0)`)
)

func (r *ReportRepository) scan(ctx context.Context, op string, ds *goqu.SelectDataset, dest any) error {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return &StorageError{Op: op, Err: err}
	}
	return translate(op, r.db.WithContext(ctx).Raw(query, args...).Scan(dest).Error)
}

func dateRange(col, from, to string) exp.Expression {
	return goqu.I(col).Between(goqu.Range(from, to))
}

// CountReservations counts a user's reservations, optionally by status.
func (r *ReportRepository) CountReservations(ctx context.Context, userID int64, status domain.ReservationStatus) (int64, error) {
	ds := goqu.From(goqu.T("reservations").As("r")).
		Select(goqu.COUNT(goqu.I("r.id")).As("n")).
		Where(goqu.Ex{"r.user_id": userID})
	if status != "" {
		ds = ds.Where(goqu.Ex{"r.status": string(status)})
	}

	var out struct{ N int64 }
	if err := r.scan(ctx, "reports.count_reservations", ds, &out); err != nil {
		return 0, err
	}
	return out.N, nil
}

type LoyaltyRow struct {
	UserID                int64   `json:"user_id"`
	Name                  string  `json:"name"`
	Email                 string  `json:"email"`
	TotalReservations     int64   `json:"total_reservations"`
	CompletedReservations int64   `json:"completed_reservations"`
	TotalSpent            float64 `json:"total_spent"`
}

func (r *ReportRepository) LoyaltyOverview(ctx context.Context) ([]LoyaltyRow, error) {
	ds := goqu.From(goqu.T("users").As("u")).
		LeftJoin(goqu.T("reservations").As("r"), goqu.On(goqu.Ex{"r.user_id": goqu.I("u.id")})).
		Select(
			goqu.I("u.id").As("user_id"),
			fullNameExpr.As("name"),
			goqu.I("u.email"),
			goqu.COUNT(goqu.I("r.id")).As("total_reservations"),
			completedExpr.As("completed_reservations"),
			goqu.L(`COALESCE((SELECT SUM("pm"."amount") FROM "payments" AS "pm"
				JOIN "reservations" AS "rr" ON "rr"."id" = "pm"."reservation_id"
				WHERE "rr"."user_id" = "u"."id" AND "pm"."payment_status" = 'paid'), 0)`).As("total_spent"),
		).
		Where(goqu.Ex{"u.role": string(domain.RoleClient)}).
		GroupBy(goqu.I("u.id"), goqu.I("u.first_name"), goqu.I("u.last_name"), goqu.I("u.email")).
		Order(goqu.I("completed_reservations").Desc(), goqu.I("user_id").Asc())

	var rows []LoyaltyRow
	if err := r.scan(ctx, "reports.loyalty_overview", ds, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

type RevenueRow struct {
	CategoryID       int64   `json:"category_id"`
	CategoryName     string  `json:"category_name"`
	ReservationCount int64   `json:"reservation_count"`
	ClientCount      int64   `json:"client_count"`
	TotalRevenue     float64 `json:"total_revenue"`
	AveragePayment   float64 `json:"average_payment"`
}

// RevenueByCategory aggregates non-cancelled reservations dated within
// [from, to] and their paid payments per category. categoryID 0 means all.
func (r *ReportRepository) RevenueByCategory(ctx context.Context, from, to string, categoryID int64) ([]RevenueRow, error) {
	ds := goqu.From(goqu.T("reservations").As("r")).
		Join(goqu.T("services").As("s"), goqu.On(goqu.Ex{"s.id": goqu.I("r.service_id")})).
		Join(goqu.T("categories").As("c"), goqu.On(goqu.Ex{"c.id": goqu.I("s.category_id")})).
		LeftJoin(goqu.T("payments").As("p"), goqu.On(goqu.Ex{
			"p.reservation_id": goqu.I("r.id"),
			"p.payment_status": string(domain.PaymentPaid),
		})).
		Select(
			goqu.I("c.id").As("category_id"),
			goqu.I("c.name").As("category_name"),
			goqu.COUNT(goqu.DISTINCT(goqu.I("r.id"))).As("reservation_count"),
			goqu.COUNT(goqu.DISTINCT(goqu.I("r.user_id"))).As("client_count"),
			goqu.COALESCE(goqu.SUM(goqu.I("p.amount")), goqu.L("0")).As("total_revenue"),
			goqu.COALESCE(goqu.AVG(goqu.I("p.amount")), goqu.L("0")).As("average_payment"),
		).
		Where(
			dateRange("r.slot_date", from, to),
			goqu.I("r.status").Neq(string(domain.ReservationCancelled)),
		).
		GroupBy(goqu.I("c.id"), goqu.I("c.name")).
		Order(goqu.I("total_revenue").Desc(), goqu.I("category_name").Asc())
	if categoryID > 0 {
		ds = ds.Where(goqu.Ex{"c.id": categoryID})
	}

	var rows []RevenueRow
	if err := r.scan(ctx, "reports.revenue_by_category", ds, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

type FrequencyRow struct {
	ServiceID     int64  `json:"service_id"`
	ServiceName   string `json:"service_name"`
	CategoryName  string `json:"category_name"`
	TimesBooked   int64  `json:"times_booked"`
	UniqueClients int64  `json:"unique_clients"`
	Completed     int64  `json:"completed"`
	Cancelled     int64  `json:"cancelled"`
}

// ServiceFrequency counts reservations per service within [from, to]. Services
// without reservations in range produce no row.
func (r *ReportRepository) ServiceFrequency(ctx context.Context, from, to string, categoryID int64) ([]FrequencyRow, error) {
	ds := goqu.From(goqu.T("reservations").As("r")).
		Join(goqu.T("services").As("s"), goqu.On(goqu.Ex{"s.id": goqu.I("r.service_id")})).
		Join(goqu.T("categories").As("c"), goqu.On(goqu.Ex{"c.id": goqu.I("s.category_id")})).
		Select(
			goqu.I("s.id").As("service_id"),
			goqu.I("s.name").As("service_name"),
			goqu.I("c.name").As("category_name"),
			goqu.COUNT(goqu.I("r.id")).As("times_booked"),
			goqu.COUNT(goqu.DISTINCT(goqu.I("r.user_id"))).As("unique_clients"),
			completedExpr.As("completed"),
			cancelledExpr.As("cancelled"),
		).
		Where(dateRange("r.slot_date", from, to)).
		GroupBy(goqu.I("s.id"), goqu.I("s.name"), goqu.I("c.name")).
		Order(goqu.I("times_booked").Desc(), goqu.I("service_name").Asc())
	if categoryID > 0 {
		ds = ds.Where(goqu.Ex{"s.category_id": categoryID})
	}

	var rows []FrequencyRow
	if err := r.scan(ctx, "reports.service_frequency", ds, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ProfessionalEarnings sums paid payments of completed reservations dated in
// [from, to].
func (r *ReportRepository) ProfessionalEarnings(ctx context.Context, professionalID int64, from, to string) (float64, error) {
	ds := r.earningsQuery(professionalID).Where(dateRange("r.slot_date", from, to))

	var out struct{ Total float64 }
	if err := r.scan(ctx, "reports.professional_earnings", ds, &out); err != nil {
		return 0, err
	}
	return out.Total, nil
}

func (r *ReportRepository) earningsQuery(professionalID int64) *goqu.SelectDataset {
	return goqu.From(goqu.T("payments").As("p")).
		Join(goqu.T("reservations").As("r"), goqu.On(goqu.Ex{"r.id": goqu.I("p.reservation_id")})).
		Select(goqu.COALESCE(goqu.SUM(goqu.I("p.amount")), goqu.L("0")).As("total")).
		Where(goqu.Ex{
			"r.professional_id": professionalID,
			"r.status":          string(domain.ReservationCompleted),
			"p.payment_status":  string(domain.PaymentPaid),
		})
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type AdminOverview struct {
	TotalUsers           int64         `json:"total_users"`
	TotalClients         int64         `json:"total_clients"`
	TotalProfessionals   int64         `json:"total_professionals"`
	TotalRevenue         float64       `json:"total_revenue"`
	AverageRating        *float64      `json:"average_rating"`
	ReservationsByStatus []StatusCount `json:"reservations_by_status"`
}

func (r *ReportRepository) AdminOverview(ctx context.Context) (*AdminOverview, error) {
	var roles []struct {
		Role  string
		Count int64
	}
	rolesDS := goqu.From("users").
		Select(goqu.C("role"), goqu.COUNT(goqu.Star()).As("count")).
		GroupBy(goqu.C("role"))
	if err := r.scan(ctx, "reports.admin_overview.roles", rolesDS, &roles); err != nil {
		return nil, err
	}

	out := &AdminOverview{ReservationsByStatus: []StatusCount{}}
	for _, row := range roles {
		out.TotalUsers += row.Count
		switch domain.UserRole(row.Role) {
		case domain.RoleClient:
			out.TotalClients = row.Count
		case domain.RoleProfessional:
			out.TotalProfessionals = row.Count
		}
	}

	var revenue struct{ Total float64 }
	revenueDS := goqu.From("payments").
		Select(goqu.COALESCE(goqu.SUM(goqu.C("amount")), goqu.L("0")).As("total")).
		Where(goqu.Ex{"payment_status": string(domain.PaymentPaid)})
	if err := r.scan(ctx, "reports.admin_overview.revenue", revenueDS, &revenue); err != nil {
		return nil, err
	}
	out.TotalRevenue = revenue.Total

	var rating struct{ Average *float64 }
	ratingDS := goqu.From("reviews").Select(goqu.AVG(goqu.C("rating")).As("average"))
	if err := r.scan(ctx, "reports.admin_overview.rating", ratingDS, &rating); err != nil {
		return nil, err
	}
	out.AverageRating = rating.Average

	statusDS := goqu.From("reservations").
		Select(goqu.C("status"), goqu.COUNT(goqu.Star()).As("count")).
		GroupBy(goqu.C("status")).
		Order(goqu.C("status").Asc())
	if err := r.scan(ctx, "reports.admin_overview.statuses", statusDS, &out.ReservationsByStatus); err != nil {
		return nil, err
	}
	return out, nil
}

type ProfessionalOverview struct {
	ProfessionalID        int64    `json:"professional_id"`
	TotalReservations     int64    `json:"total_reservations"`
	CompletedReservations int64    `json:"completed_reservations"`
	AverageRating         *float64 `json:"average_rating"`
	TotalEarnings         float64  `json:"total_earnings"`
}

func (r *ReportRepository) ProfessionalOverview(ctx context.Context, professionalID int64) (*ProfessionalOverview, error) {
	out := &ProfessionalOverview{ProfessionalID: professionalID}

	var counts struct {
		Total     int64
		Completed int64
	}
	countsDS := goqu.From(goqu.T("reservations").As("r")).
		Select(goqu.COUNT(goqu.I("r.id")).As("total"), completedExpr.As("completed")).
		Where(goqu.Ex{"r.professional_id": professionalID})
	if err := r.scan(ctx, "reports.professional_overview.counts", countsDS, &counts); err != nil {
		return nil, err
	}
	out.TotalReservations = counts.Total
	out.CompletedReservations = counts.Completed

	var rating struct{ Average *float64 }
	ratingDS := goqu.From(goqu.T("reviews").As("rv")).
		Join(goqu.T("reservations").As("r"), goqu.On(goqu.Ex{"r.id": goqu.I("rv.reservation_id")})).
		Select(goqu.AVG(goqu.I("rv.rating")).As("average")).
		Where(goqu.Ex{"r.professional_id": professionalID})
	if err := r.scan(ctx, "reports.professional_overview.rating", ratingDS, &rating); err != nil {
		return nil, err
	}
	out.AverageRating = rating.Average

	var earnings struct{ Total float64 }
	if err := r.scan(ctx, "reports.professional_overview.earnings", r.earningsQuery(professionalID), &earnings); err != nil {
		return nil, err
	}
	out.TotalEarnings = earnings.Total
	return out, nil
}

type CatalogRow struct {
	CategoryName     string   `json:"category_name"`
	ServiceID        int64    `json:"service_id"`
	ServiceName      string   `json:"service_name"`
	Description      *string  `json:"description,omitempty"`
	ProfessionalID   int64    `json:"professional_id"`
	ProfessionalName string   `json:"professional_name"`
	ExperienceYears  int      `json:"experience_years"`
	Price            float64  `json:"price"`
	AverageRating    *float64 `json:"average_rating"`
	ReviewCount      int64    `json:"review_count"`
}

// ServiceCatalog lists offerings of verified professionals for active
// services with their effective price and rating rollup. An empty
// categoryName returns every category.
func (r *ReportRepository) ServiceCatalog(ctx context.Context, categoryName string) ([]CatalogRow, error) {
	ds := goqu.From(goqu.T("professional_services").As("ps")).
		Join(goqu.T("services").As("s"), goqu.On(goqu.Ex{"s.id": goqu.I("ps.service_id")})).
		Join(goqu.T("categories").As("c"), goqu.On(goqu.Ex{"c.id": goqu.I("s.category_id")})).
		Join(goqu.T("professionals").As("p"), goqu.On(goqu.Ex{"p.id": goqu.I("ps.professional_id")})).
		Join(goqu.T("users").As("u"), goqu.On(goqu.Ex{"u.id": goqu.I("p.user_id")})).
		LeftJoin(goqu.T("reservations").As("r"), goqu.On(goqu.Ex{
			"r.professional_id": goqu.I("ps.professional_id"),
			"r.service_id":      goqu.I("ps.service_id"),
		})).
		LeftJoin(goqu.T("reviews").As("rv"), goqu.On(goqu.Ex{"rv.reservation_id": goqu.I("r.id")})).
		Select(
			goqu.I("c.name").As("category_name"),
			goqu.I("s.id").As("service_id"),
			goqu.I("s.name").As("service_name"),
			goqu.I("s.description"),
			goqu.I("p.id").As("professional_id"),
			fullNameExpr.As("professional_name"),
			goqu.I("p.experience_years"),
			goqu.COALESCE(goqu.I("ps.custom_price"), goqu.I("s.base_price")).As("price"),
			goqu.AVG(goqu.I("rv.rating")).As("average_rating"),
			goqu.COUNT(goqu.I("rv.id")).As("review_count"),
		).
		Where(goqu.I("s.is_active").IsTrue(), goqu.I("p.is_verified").IsTrue()).
		GroupBy(
			goqu.I("c.name"), goqu.I("s.id"), goqu.I("s.name"), goqu.I("s.description"),
			goqu.I("p.id"), goqu.I("u.first_name"), goqu.I("u.last_name"), goqu.I("p.experience_years"),
			goqu.I("ps.custom_price"), goqu.I("s.base_price"),
		).
		Order(goqu.I("category_name").Asc(), goqu.I("service_name").Asc(), goqu.I("professional_name").Asc())
	if name := strings.TrimSpace(categoryName); name != "" {
		ds = ds.Where(goqu.Ex{"c.name": name})
	}

	var rows []CatalogRow
	if err := r.scan(ctx, "reports.service_catalog", ds, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

type ReservationFilter struct {
	From           string
	To             string
	ProfessionalID int64
	Status         domain.ReservationStatus
}

type ReservationReportRow struct {
	ID               int64  `json:"id"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	Status           string `json:"status"`
	PaymentStatus    string `json:"payment_status"`
	ServiceName      string `json:"service_name"`
	ClientName       string `json:"client_name"`
	ProfessionalID   int64  `json:"professional_id"`
	ProfessionalName string `json:"professional_name"`
}

func (r *ReportRepository) ReservationsByDateRange(ctx context.Context, f ReservationFilter) ([]ReservationReportRow, error) {
	ds := goqu.From(goqu.T("reservations").As("r")).
		Join(goqu.T("services").As("s"), goqu.On(goqu.Ex{"s.id": goqu.I("r.service_id")})).
		Join(goqu.T("users").As("u"), goqu.On(goqu.Ex{"u.id": goqu.I("r.user_id")})).
		Join(goqu.T("professionals").As("p"), goqu.On(goqu.Ex{"p.id": goqu.I("r.professional_id")})).
		Join(goqu.T("users").As("pu"), goqu.On(goqu.Ex{"pu.id": goqu.I("p.user_id")})).
		Select(
			goqu.I("r.id"),
			goqu.I("r.slot_date").As("date"),
			goqu.I("r.slot_time").As("time"),
			goqu.I("r.status"),
			goqu.I("r.payment_status"),
			goqu.I("s.name").As("service_name"),
			fullNameExpr.As("client_name"),
			goqu.I("r.professional_id"),
			goqu.L(`"pu"."first_name" || ' ' || "pu"."last_name"`).As("professional_name"),
		).
		Where(dateRange("r.slot_date", f.From, f.To)).
		Order(goqu.I("r.slot_date").Asc(), goqu.I("r.slot_time").Asc(), goqu.I("r.id").Asc())
	if f.ProfessionalID > 0 {
		ds = ds.Where(goqu.Ex{"r.professional_id": f.ProfessionalID})
	}
	if f.Status != "" {
		ds = ds.Where(goqu.Ex{"r.status": string(f.Status)})
	}

	var rows []ReservationReportRow
	if err := r.scan(ctx, "reports.reservations_by_date_range", ds, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

type UserFilter struct {
	Name  string
	Email string
	Role  domain.UserRole
}

type UserSearchRow struct {
	ID             int64  `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	IsActive       bool   `json:"is_active"`
	ProfessionalID *int64 `json:"professional_id,omitempty"`
	IsVerified     *bool  `json:"is_verified,omitempty"`
}

// SearchUsers matches name and email substrings case-insensitively. Every
// user-supplied value is bound as a parameter.
func (r *ReportRepository) SearchUsers(ctx context.Context, f UserFilter) ([]UserSearchRow, error) {
	ds := goqu.From(goqu.T("users").As("u")).
		LeftJoin(goqu.T("professionals").As("p"), goqu.On(goqu.Ex{"p.user_id": goqu.I("u.id")})).
		Select(
			goqu.I("u.id"),
			goqu.I("u.first_name"),
			goqu.I("u.last_name"),
			goqu.I("u.email"),
			goqu.I("u.role"),
			goqu.I("u.is_active"),
			goqu.I("p.id").As("professional_id"),
			goqu.I("p.is_verified"),
		).
		Order(goqu.I("u.role").Asc(), goqu.I("u.last_name").Asc(), goqu.I("u.id").Asc())

	if name := strings.ToLower(strings.TrimSpace(f.Name)); name != "" {
		ds = ds.Where(goqu.L(`LOWER("u"."first_name" || ' ' || "u"."last_name") LIKE ?`, "%"+name+"%"))
	}
	if email := strings.ToLower(strings.TrimSpace(f.Email)); email != "" {
		ds = ds.Where(goqu.L(`LOWER("u"."email") LIKE ?`, "%"+email+"%"))
	}
	if f.Role != "" {
		ds = ds.Where(goqu.Ex{"u.role": string(f.Role)})
	}

	var rows []UserSearchRow
	if err := r.scan(ctx, "reports.search_users", ds, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
