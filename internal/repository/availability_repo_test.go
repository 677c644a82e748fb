package repository

import (
	"context"
	"testing"

	"servicebook/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityRepository_DeleteIsScopedToOwner(t *testing.T) {
	ctx := context.Background()
	f := seedFixture(t)
	repo := NewAvailabilityRepository(f.db)

	a := &domain.Availability{ProfessionalID: f.professionalID, Date: "2030-01-10", StartTime: "09:00", EndTime: "12:00", Status: domain.AvailabilityAvailable}
	require.NoError(t, repo.Create(ctx, a))

	assert.ErrorIs(t, repo.Delete(ctx, f.professionalID+1, a.ID), ErrNotFound)
	require.NoError(t, repo.Delete(ctx, f.professionalID, a.ID))

	_, err := repo.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAvailabilityRepository_DeletePastAvailable(t *testing.T) {
	ctx := context.Background()
	f := seedFixture(t)
	repo := NewAvailabilityRepository(f.db)

	windows := []domain.Availability{
		{ProfessionalID: f.professionalID, Date: "2020-01-01", StartTime: "09:00", EndTime: "12:00", Status: domain.AvailabilityAvailable},
		{ProfessionalID: f.professionalID, Date: "2020-01-01", StartTime: "13:00", EndTime: "15:00", Status: domain.AvailabilityUnavailable},
		{ProfessionalID: f.professionalID, Date: "2030-01-01", StartTime: "09:00", EndTime: "12:00", Status: domain.AvailabilityAvailable},
	}
	for i := range windows {
		require.NoError(t, repo.Create(ctx, &windows[i]))
	}

	n, err := repo.DeletePastAvailable(ctx, "2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	left, err := repo.ListByProfessional(ctx, f.professionalID)
	require.NoError(t, err)
	require.Len(t, left, 2)
	assert.Equal(t, domain.AvailabilityUnavailable, left[0].Status)
	assert.Equal(t, "2030-01-01", left[1].Date)
}
