package availability

import (
	"context"
	"errors"
	"testing"

	"servicebook/internal/domain"
	"servicebook/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Create(ctx context.Context, a *domain.Availability) error {
	args := m.Called(ctx, a)
	if args.Error(0) == nil {
		a.ID = 3
	}
	return args.Error(0)
}

func (m *MockStore) ListByProfessional(ctx context.Context, professionalID int64) ([]domain.Availability, error) {
	args := m.Called(ctx, professionalID)
	return args.Get(0).([]domain.Availability), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, professionalID, id int64) error {
	return m.Called(ctx, professionalID, id).Error(0)
}

var pro = domain.Actor{UserID: 2, Role: domain.RoleProfessional, ProfessionalID: 5}

func TestAdd_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  AddRequest
	}{
		{"bad date", AddRequest{Date: "2030-13-01", StartTime: "09:00", EndTime: "10:00", Status: "available"}},
		{"bad start", AddRequest{Date: "2030-01-01", StartTime: "9am", EndTime: "10:00", Status: "available"}},
		{"bad end", AddRequest{Date: "2030-01-01", StartTime: "09:00", EndTime: "25:00", Status: "available"}},
		{"start equals end", AddRequest{Date: "2030-01-01", StartTime: "09:00", EndTime: "09:00", Status: "available"}},
		{"start after end", AddRequest{Date: "2030-01-01", StartTime: "11:00", EndTime: "10:00", Status: "available"}},
		{"unknown status", AddRequest{Date: "2030-01-01", StartTime: "09:00", EndTime: "10:00", Status: "busy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(new(MockStore), nil)
			_, err := svc.Add(context.Background(), pro, tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAdd_StoresForCaller(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	store.On("Create", ctx, mock.MatchedBy(func(a *domain.Availability) bool {
		return a.ProfessionalID == 5 && a.StartTime == "09:00" && a.EndTime == "12:00" && a.Status == domain.AvailabilityUnavailable
	})).Return(nil)

	a, err := NewService(store, nil).Add(ctx, pro, AddRequest{Date: "2030-01-01", StartTime: "09:00", EndTime: "12:00", Status: "unavailable"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), a.ID)
	store.AssertExpectations(t)
}

func TestAdd_RequiresProfessional(t *testing.T) {
	client := domain.Actor{UserID: 9, Role: domain.RoleClient}
	_, err := NewService(new(MockStore), nil).Add(context.Background(), client, AddRequest{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	store := new(MockStore)
	store.On("Delete", ctx, int64(5), int64(1)).Return(nil)
	store.On("Delete", ctx, int64(5), int64(2)).Return(repository.ErrNotFound)
	store.On("Delete", ctx, int64(5), int64(3)).Return(boom)
	svc := NewService(store, nil)

	assert.NoError(t, svc.Delete(ctx, pro, 1))
	assert.ErrorIs(t, svc.Delete(ctx, pro, 2), ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, pro, 3), boom)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	store := new(MockStore)
	store.On("ListByProfessional", ctx, int64(5)).Return([]domain.Availability{{ID: 1}, {ID: 2}}, nil)

	items, err := NewService(store, nil).List(ctx, pro)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
