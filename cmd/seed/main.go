package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"servicebook/internal/config"
	"servicebook/internal/database"
	"servicebook/internal/domain"
	"servicebook/internal/pkg/logger"
	"servicebook/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var cleanupOrder = []string{
	"reservation_audit_log",
	"reviews",
	"payments",
	"reservations",
	"availability",
	"professional_services",
	"services",
	"categories",
	"professionals",
	"users",
}

type seeder struct {
	ctx          context.Context
	log          *zap.Logger
	users        *repository.UserRepository
	catalog      *repository.CatalogRepository
	availability *repository.AvailabilityRepository
	reservations *repository.ReservationRepository
	payments     *repository.PaymentRepository
	reviews      *repository.ReviewRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	lg, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, lg)
	if err != nil {
		lg.Fatal("db connect failed", zap.Error(err))
	}

	lg.Info("running migrations")
	if err := repository.AutoMigrate(db); err != nil {
		lg.Fatal("migration failed", zap.Error(err))
	}

	lg.Info("cleaning old data")
	for _, table := range cleanupOrder {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			lg.Fatal("cleanup failed", zap.String("table", table), zap.Error(err))
		}
	}

	s := newSeeder(db, lg)
	if err := s.run(); err != nil {
		lg.Fatal("seed failed", zap.Error(err))
	}
	lg.Info("seed completed")
}

func newSeeder(db *gorm.DB, lg *zap.Logger) *seeder {
	return &seeder{
		ctx:          context.Background(),
		log:          lg,
		users:        repository.NewUserRepository(db),
		catalog:      repository.NewCatalogRepository(db),
		availability: repository.NewAvailabilityRepository(db),
		reservations: repository.NewReservationRepository(db),
		payments:     repository.NewPaymentRepository(db),
		reviews:      repository.NewReviewRepository(db),
	}
}

func hash(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}

func (s *seeder) run() error {
	/* ---------- users ---------- */

	admin := &domain.User{
		FirstName:    "Site",
		LastName:     "Admin",
		Email:        "admin@servicebook.local",
		PasswordHash: hash("admin12345"),
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := s.users.Create(s.ctx, admin); err != nil {
		return fmt.Errorf("admin: %w", err)
	}
	s.log.Info("admin created", zap.String("email", admin.Email), zap.String("password", "admin12345"))

	clientNames := [][2]string{{"Anna", "Berg"}, {"Omar", "Haddad"}, {"Lena", "Kim"}, {"Marco", "Rossi"}}
	clients := make([]*domain.User, 0, len(clientNames))
	clientHash := hash("client12345")
	for i, n := range clientNames {
		u := &domain.User{
			FirstName:    n[0],
			LastName:     n[1],
			Email:        fmt.Sprintf("client%d@servicebook.local", i+1),
			PasswordHash: clientHash,
			Role:         domain.RoleClient,
			IsActive:     true,
		}
		if err := s.users.Create(s.ctx, u); err != nil {
			return fmt.Errorf("client %s: %w", u.Email, err)
		}
		clients = append(clients, u)
	}

	proNames := [][2]string{{"Sara", "Lind"}, {"David", "Okafor"}, {"Mia", "Novak"}}
	pros := make([]*domain.Professional, 0, len(proNames))
	proHash := hash("pro12345")
	for i, n := range proNames {
		u := &domain.User{
			FirstName:    n[0],
			LastName:     n[1],
			Email:        fmt.Sprintf("pro%d@servicebook.local", i+1),
			PasswordHash: proHash,
			Role:         domain.RoleProfessional,
			IsActive:     true,
		}
		p := &domain.Professional{
			IsVerified:      i != len(proNames)-1,
			ExperienceYears: 3 + i*4,
			Bio:             fmt.Sprintf("%s has worked in the trade for %d years.", n[0], 3+i*4),
		}
		if err := s.users.CreateProfessional(s.ctx, u, p); err != nil {
			return fmt.Errorf("professional %s: %w", u.Email, err)
		}
		pros = append(pros, p)
	}

	/* ---------- catalog ---------- */

	type serviceSeed struct {
		name  string
		price float64
	}
	catalog := []struct {
		category string
		services []serviceSeed
	}{
		{"Beauty", []serviceSeed{{"Haircut", 35}, {"Manicure", 25}, {"Facial", 60}}},
		{"Fitness", []serviceSeed{{"Personal training", 50}, {"Yoga session", 30}}},
		{"Home", []serviceSeed{{"Deep cleaning", 80}, {"Plumbing repair", 70}}},
	}

	var services []*domain.Service
	for _, c := range catalog {
		cat := &domain.Category{Name: c.category, Description: c.category + " services", IsActive: true}
		if err := s.catalog.CreateCategory(s.ctx, cat); err != nil {
			return fmt.Errorf("category %s: %w", c.category, err)
		}
		for _, sv := range c.services {
			svc := &domain.Service{CategoryID: cat.ID, Name: sv.name, BasePrice: sv.price, IsActive: true}
			if err := s.catalog.CreateService(s.ctx, svc); err != nil {
				return fmt.Errorf("service %s: %w", sv.name, err)
			}
			services = append(services, svc)
		}
	}

	offered := make(map[int64][]*domain.Service, len(pros))
	for i, svc := range services {
		p := pros[i%len(pros)]
		o := &domain.Offering{ProfessionalID: p.ID, ServiceID: svc.ID}
		if i%2 == 1 {
			custom := svc.BasePrice + 10
			o.CustomPrice = &custom
		}
		if err := s.catalog.CreateOffering(s.ctx, o); err != nil {
			return fmt.Errorf("offering %d/%d: %w", p.ID, svc.ID, err)
		}
		offered[p.ID] = append(offered[p.ID], svc)
	}

	/* ---------- availability ---------- */

	today := time.Now().UTC()
	for _, p := range pros {
		for d := 0; d < 7; d++ {
			date := today.AddDate(0, 0, d).Format(domain.DateLayout)
			windows := []domain.Availability{
				{ProfessionalID: p.ID, Date: date, StartTime: "09:00", EndTime: "13:00", Status: domain.AvailabilityAvailable},
				{ProfessionalID: p.ID, Date: date, StartTime: "14:00", EndTime: "18:00", Status: domain.AvailabilityAvailable},
			}
			if d == 3 {
				windows[1].Status = domain.AvailabilityUnavailable
			}
			for i := range windows {
				if err := s.availability.Create(s.ctx, &windows[i]); err != nil {
					return fmt.Errorf("availability: %w", err)
				}
			}
		}
	}

	/* ---------- reservations, payments, reviews ---------- */

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	hours := []string{"09:00", "10:00", "11:00", "12:00"}
	methods := []domain.PaymentMethod{domain.MethodCard, domain.MethodCash, domain.MethodPayPal}

	count := 0
	for ci, client := range clients {
		for k := 0; k < 3; k++ {
			p := pros[(ci+k)%len(pros)]
			list := offered[p.ID]
			if len(list) == 0 {
				continue
			}
			svc := list[rng.Intn(len(list))]

			res := &domain.Reservation{
				UserID:         client.ID,
				ProfessionalID: p.ID,
				ServiceID:      svc.ID,
				Date:           today.AddDate(0, 0, 1+k).Format(domain.DateLayout),
				Time:           hours[ci%len(hours)],
				Status:         domain.ReservationPending,
				PaymentStatus:  domain.PaymentPending,
			}
			if err := s.reservations.Book(s.ctx, res); err != nil {
				return fmt.Errorf("reservation: %w", err)
			}
			count++

			switch k {
			case 0:
				if err := s.complete(res, svc.BasePrice, methods[ci%len(methods)]); err != nil {
					return err
				}
				rv := &domain.Review{ReservationID: res.ID, Rating: 3 + rng.Intn(3), Comment: "Great service"}
				if err := s.reviews.Create(s.ctx, rv); err != nil {
					return fmt.Errorf("review: %w", err)
				}
			case 1:
				if err := s.setStatus(res.ID, domain.ReservationConfirmed); err != nil {
					return err
				}
			}
		}
	}

	s.log.Info("seed data created",
		zap.Int("clients", len(clients)),
		zap.Int("professionals", len(pros)),
		zap.Int("services", len(services)),
		zap.Int("reservations", count),
	)
	return nil
}

// complete pays for the reservation, which confirms it, then marks it completed.
func (s *seeder) complete(res *domain.Reservation, amount float64, method domain.PaymentMethod) error {
	p := &domain.Payment{ReservationID: res.ID, Amount: amount, Method: method}
	if _, err := s.payments.RecordPaid(s.ctx, p, func(domain.Reservation, bool) error { return nil }); err != nil {
		return fmt.Errorf("payment: %w", err)
	}
	return s.setStatus(res.ID, domain.ReservationCompleted)
}

func (s *seeder) setStatus(id int64, next domain.ReservationStatus) error {
	_, err := s.reservations.Transition(s.ctx, id, func(domain.Reservation) (domain.ReservationStatus, error) {
		return next, nil
	})
	if err != nil {
		return fmt.Errorf("reservation %d -> %s: %w", id, next, err)
	}
	return nil
}
