package repository

import (
	"context"
	"testing"

	"servicebook/internal/database"
	"servicebook/internal/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db             *gorm.DB
	clientID       int64
	proUserID      int64
	professionalID int64
	categoryID     int64
	serviceID      int64
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	db := newTestDB(t)

	users := NewUserRepository(db)
	client := &domain.User{
		FirstName: "Ann", LastName: "Client", Email: "ann@example.com",
		PasswordHash: "x", Role: domain.RoleClient, IsActive: true,
	}
	require.NoError(t, users.Create(ctx, client))

	proUser := &domain.User{
		FirstName: "Bob", LastName: "Barber", Email: "bob@example.com",
		PasswordHash: "x", Role: domain.RoleProfessional, IsActive: true,
	}
	pro := &domain.Professional{IsVerified: true, ExperienceYears: 7}
	require.NoError(t, users.CreateProfessional(ctx, proUser, pro))

	catalog := NewCatalogRepository(db)
	cat := &domain.Category{Name: "Beauty", IsActive: true}
	require.NoError(t, catalog.CreateCategory(ctx, cat))
	svc := &domain.Service{CategoryID: cat.ID, Name: "Haircut", BasePrice: 30, IsActive: true}
	require.NoError(t, catalog.CreateService(ctx, svc))
	require.NoError(t, catalog.CreateOffering(ctx, &domain.Offering{ProfessionalID: pro.ID, ServiceID: svc.ID}))

	return fixture{
		db:             db,
		clientID:       client.ID,
		proUserID:      proUser.ID,
		professionalID: pro.ID,
		categoryID:     cat.ID,
		serviceID:      svc.ID,
	}
}

func (f fixture) book(t *testing.T, date, clock string) *domain.Reservation {
	t.Helper()
	res := &domain.Reservation{
		UserID:         f.clientID,
		ProfessionalID: f.professionalID,
		ServiceID:      f.serviceID,
		Date:           date,
		Time:           clock,
		Status:         domain.ReservationPending,
		PaymentStatus:  domain.PaymentPending,
	}
	require.NoError(t, NewReservationRepository(f.db).Book(context.Background(), res))
	return res
}

func (f fixture) setStatus(t *testing.T, id int64, status domain.ReservationStatus) {
	t.Helper()
	_, err := NewReservationRepository(f.db).Transition(context.Background(), id,
		func(domain.Reservation) (domain.ReservationStatus, error) { return status, nil })
	require.NoError(t, err)
}
