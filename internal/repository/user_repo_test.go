package repository

import (
	"context"
	"testing"

	"servicebook/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_EmailIsNormalizedAndUnique(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(newTestDB(t))

	u := &domain.User{FirstName: "Eve", Email: "  Eve@Example.COM ", PasswordHash: "x", Role: domain.RoleClient, IsActive: true}
	require.NoError(t, users.Create(ctx, u))
	assert.Equal(t, "eve@example.com", u.Email)

	got, err := users.GetByEmail(ctx, "EVE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	exists, err := users.ExistsByEmail(ctx, "eve@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	dup := &domain.User{FirstName: "Eve", Email: "eve@example.com", PasswordHash: "x", Role: domain.RoleClient}
	assert.ErrorIs(t, users.Create(ctx, dup), ErrDuplicate)
}

func TestUserRepository_CreateProfessional(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	pros := NewProfessionalRepository(db)

	u := &domain.User{FirstName: "Pat", Email: "pat@example.com", PasswordHash: "x", Role: domain.RoleProfessional, IsActive: true}
	p := &domain.Professional{ExperienceYears: 4, Bio: "Plumber"}
	require.NoError(t, users.CreateProfessional(ctx, u, p))
	assert.Equal(t, u.ID, p.UserID)

	got, err := pros.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "Plumber", got.Bio)
	assert.False(t, got.IsVerified)

	require.NoError(t, pros.SetVerified(ctx, p.ID, true))
	got, err = pros.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)

	assert.ErrorIs(t, pros.SetVerified(ctx, 999, true), ErrNotFound)
}

func TestUserRepository_SetActive(t *testing.T) {
	ctx := context.Background()
	f := seedFixture(t)
	users := NewUserRepository(f.db)

	require.NoError(t, users.SetActive(ctx, f.clientID, false))
	u, err := users.GetByID(ctx, f.clientID)
	require.NoError(t, err)
	assert.False(t, u.IsActive)

	assert.ErrorIs(t, users.SetActive(ctx, 999, false), ErrNotFound)

	_, err = users.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
