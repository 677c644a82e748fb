package repository

import (
	"context"
	"errors"
	"testing"

	"servicebook/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationRepository_Book_RejectsTakenSlot(t *testing.T) {
	f := seedFixture(t)
	repo := NewReservationRepository(f.db)
	first := f.book(t, "2030-05-01", "10:00")
	assert.NotZero(t, first.ID)

	err := repo.Book(context.Background(), &domain.Reservation{
		UserID: f.clientID, ProfessionalID: f.professionalID, ServiceID: f.serviceID,
		Date: "2030-05-01", Time: "10:00",
		Status: domain.ReservationPending, PaymentStatus: domain.PaymentPending,
	})
	assert.ErrorIs(t, err, ErrSlotTaken)

	// a different time on the same day is free
	f.book(t, "2030-05-01", "10:30")
}

func TestReservationRepository_Book_CancelledSlotIsReusable(t *testing.T) {
	f := seedFixture(t)
	first := f.book(t, "2030-05-01", "10:00")
	f.setStatus(t, first.ID, domain.ReservationCancelled)

	second := f.book(t, "2030-05-01", "10:00")
	assert.NotEqual(t, first.ID, second.ID)
}

func TestActiveSlotIndex_RejectsDirectDuplicate(t *testing.T) {
	f := seedFixture(t)
	row := reservationModel{
		UserID: f.clientID, ProfessionalID: f.professionalID, ServiceID: f.serviceID,
		SlotDate: "2030-05-02", SlotTime: "09:00",
		Status: string(domain.ReservationConfirmed), PaymentStatus: string(domain.PaymentPending),
	}
	require.NoError(t, f.db.Create(&row).Error)

	dup := row
	dup.ID = 0
	err := f.db.Create(&dup).Error
	require.Error(t, err)
	assert.True(t, isUniqueViolation(err))

	cancelled := row
	cancelled.ID = 0
	cancelled.Status = string(domain.ReservationCancelled)
	assert.NoError(t, f.db.Create(&cancelled).Error)
}

func TestReservationRepository_Book_BlockedWindow(t *testing.T) {
	f := seedFixture(t)
	ctx := context.Background()
	avail := NewAvailabilityRepository(f.db)
	require.NoError(t, avail.Create(ctx, &domain.Availability{
		ProfessionalID: f.professionalID,
		Date:           "2030-05-03",
		StartTime:      "10:00",
		EndTime:        "12:00",
		Status:         domain.AvailabilityUnavailable,
	}))

	err := NewReservationRepository(f.db).Book(ctx, &domain.Reservation{
		UserID: f.clientID, ProfessionalID: f.professionalID, ServiceID: f.serviceID,
		Date: "2030-05-03", Time: "11:00",
		Status: domain.ReservationPending, PaymentStatus: domain.PaymentPending,
	})
	assert.ErrorIs(t, err, ErrSlotBlocked)

	// the window end is exclusive
	f.book(t, "2030-05-03", "12:00")
}

func TestReservationRepository_Transition(t *testing.T) {
	f := seedFixture(t)
	repo := NewReservationRepository(f.db)
	ctx := context.Background()
	res := f.book(t, "2030-05-04", "15:00")

	updated, err := repo.Transition(ctx, res.ID, func(cur domain.Reservation) (domain.ReservationStatus, error) {
		assert.Equal(t, domain.ReservationPending, cur.Status)
		return domain.ReservationConfirmed, nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationConfirmed, updated.Status)

	refusal := errors.New("refused")
	_, err = repo.Transition(ctx, res.ID, func(domain.Reservation) (domain.ReservationStatus, error) {
		return "", refusal
	})
	assert.Same(t, refusal, err)

	got, err := repo.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationConfirmed, got.Status)

	_, err = repo.Transition(ctx, 9999, func(domain.Reservation) (domain.ReservationStatus, error) {
		t.Fatal("decide must not run for a missing reservation")
		return "", nil
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReservationRepository_Delete_WritesOneAuditRow(t *testing.T) {
	f := seedFixture(t)
	ctx := context.Background()
	repo := NewReservationRepository(f.db)

	target := f.book(t, "2030-06-01", "10:00")
	other := f.book(t, "2030-06-01", "11:00")

	_, err := NewPaymentRepository(f.db).RecordPaid(ctx,
		&domain.Payment{ReservationID: target.ID, Amount: 30, Method: domain.MethodCard},
		func(domain.Reservation, bool) error { return nil })
	require.NoError(t, err)
	f.setStatus(t, target.ID, domain.ReservationCompleted)
	require.NoError(t, NewReviewRepository(f.db).Create(ctx, &domain.Review{ReservationID: target.ID, Rating: 5}))

	entry, err := repo.Delete(ctx, target.ID, 77)
	require.NoError(t, err)
	assert.Equal(t, target.ID, entry.ReservationID)
	assert.Equal(t, int64(77), entry.DeletedBy)
	assert.Equal(t, domain.ReservationCompleted, entry.Status)
	assert.Equal(t, "2030-06-01", entry.Date)

	_, err = repo.GetByID(ctx, target.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	still, err := repo.GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationPending, still.Status)

	payments, err := NewPaymentRepository(f.db).ListByReservation(ctx, target.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)

	log, err := repo.RecentAuditLog(ctx, 10)
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, target.ID, log[0].ReservationID)

	_, err = repo.Delete(ctx, target.ID, 77)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReservationRepository_Lists(t *testing.T) {
	f := seedFixture(t)
	ctx := context.Background()
	repo := NewReservationRepository(f.db)

	early := f.book(t, "2030-07-01", "09:00")
	late := f.book(t, "2030-07-02", "09:00")

	clientRows, err := repo.ListForClient(ctx, f.clientID)
	require.NoError(t, err)
	require.Len(t, clientRows, 2)
	assert.Equal(t, late.ID, clientRows[0].ID)
	assert.Equal(t, early.ID, clientRows[1].ID)
	assert.Equal(t, "Haircut", clientRows[0].ServiceName)
	assert.Equal(t, "Bob Barber", clientRows[0].ProfessionalName)
	assert.Nil(t, clientRows[0].AmountPaid)
	assert.Nil(t, clientRows[0].Rating)

	proRows, err := repo.ListForProfessional(ctx, f.professionalID)
	require.NoError(t, err)
	require.Len(t, proRows, 2)
	assert.Equal(t, "Ann Client", proRows[0].ClientName)
	assert.Equal(t, "ann@example.com", proRows[0].ClientEmail)
}
