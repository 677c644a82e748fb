package repository

import (
	"context"
	"errors"
	"testing"

	"servicebook/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentRepository_RecordPaid_ConfirmsPending(t *testing.T) {
	f := seedFixture(t)
	ctx := context.Background()
	repo := NewPaymentRepository(f.db)
	res := f.book(t, "2030-08-01", "10:00")

	var sawPaid []bool
	check := func(_ domain.Reservation, alreadyPaid bool) error {
		sawPaid = append(sawPaid, alreadyPaid)
		return nil
	}

	p := &domain.Payment{ReservationID: res.ID, Amount: 30, Method: domain.MethodCash}
	updated, err := repo.RecordPaid(ctx, p, check)
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, domain.PaymentPaid, p.Status)
	require.NotNil(t, p.PaidAt)
	assert.Equal(t, domain.ReservationConfirmed, updated.Status)
	assert.Equal(t, domain.PaymentPaid, updated.PaymentStatus)

	stored, err := NewReservationRepository(f.db).GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationConfirmed, stored.Status)
	assert.Equal(t, domain.PaymentPaid, stored.PaymentStatus)

	_, err = repo.RecordPaid(ctx, &domain.Payment{ReservationID: res.ID, Amount: 5, Method: domain.MethodCard}, check)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true}, sawPaid)

	payments, err := repo.ListByReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}

func TestPaymentRepository_RecordPaid_CheckRejects(t *testing.T) {
	f := seedFixture(t)
	ctx := context.Background()
	repo := NewPaymentRepository(f.db)
	res := f.book(t, "2030-08-02", "10:00")

	rejected := errors.New("rejected")
	_, err := repo.RecordPaid(ctx, &domain.Payment{ReservationID: res.ID, Amount: 30, Method: domain.MethodCard},
		func(domain.Reservation, bool) error { return rejected })
	assert.Same(t, rejected, err)

	payments, err := repo.ListByReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)

	_, err = repo.RecordPaid(ctx, &domain.Payment{ReservationID: 4242, Amount: 1, Method: domain.MethodCard},
		func(domain.Reservation, bool) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewRepository_OnePerReservation(t *testing.T) {
	f := seedFixture(t)
	ctx := context.Background()
	repo := NewReviewRepository(f.db)
	res := f.book(t, "2030-08-03", "10:00")

	require.NoError(t, repo.Create(ctx, &domain.Review{ReservationID: res.ID, Rating: 4, Comment: "good"}))
	err := repo.Create(ctx, &domain.Review{ReservationID: res.ID, Rating: 2})
	assert.ErrorIs(t, err, ErrDuplicate)

	exists, err := repo.ExistsForReservation(ctx, res.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	rows, err := repo.ListForProfessional(ctx, f.professionalID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].Rating)
	require.NotNil(t, rows[0].Comment)
	assert.Equal(t, "good", *rows[0].Comment)
	assert.Equal(t, "Ann Client", rows[0].ClientName)
}
