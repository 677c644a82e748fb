package review

import (
	"context"
	"testing"

	"servicebook/internal/domain"
	"servicebook/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReviewStore struct {
	mock.Mock
}

func (m *MockReviewStore) Create(ctx context.Context, rv *domain.Review) error {
	args := m.Called(ctx, rv)
	if args.Error(0) == nil {
		rv.ID = 11
	}
	return args.Error(0)
}

func (m *MockReviewStore) ExistsForReservation(ctx context.Context, reservationID int64) (bool, error) {
	args := m.Called(ctx, reservationID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewStore) ListForProfessional(ctx context.Context, professionalID int64) ([]repository.ProfessionalReviewRow, error) {
	args := m.Called(ctx, professionalID)
	return args.Get(0).([]repository.ProfessionalReviewRow), args.Error(1)
}

type MockReservationGate struct {
	mock.Mock
}

func (m *MockReservationGate) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

var client = domain.Actor{UserID: 1, Role: domain.RoleClient}

func TestService_Submit_OnlyCompletedIsEligible(t *testing.T) {
	statuses := []domain.ReservationStatus{
		domain.ReservationPending,
		domain.ReservationConfirmed,
		domain.ReservationCompleted,
		domain.ReservationCancelled,
	}
	for _, status := range statuses {
		t.Run(string(status), func(t *testing.T) {
			reviews := new(MockReviewStore)
			gate := new(MockReservationGate)
			gate.On("GetByID", mock.Anything, int64(5)).Return(&domain.Reservation{ID: 5, UserID: 1, Status: status}, nil)
			reviews.On("ExistsForReservation", mock.Anything, int64(5)).Return(false, nil).Maybe()
			reviews.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()

			svc := NewService(reviews, gate, nil, nil)
			rv, err := svc.Submit(context.Background(), client, CreateReviewRequest{ReservationID: 5, Rating: 5})

			if status == domain.ReservationCompleted {
				require.NoError(t, err)
				assert.Equal(t, int64(11), rv.ID)
				return
			}
			assert.ErrorIs(t, err, ErrNotEligible)
			reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestService_Submit_RatingBounds(t *testing.T) {
	for _, rating := range []int{0, 6, -1} {
		svc := NewService(new(MockReviewStore), new(MockReservationGate), nil, nil)
		_, err := svc.Submit(context.Background(), client, CreateReviewRequest{ReservationID: 5, Rating: rating})
		assert.ErrorIs(t, err, ErrInvalidRequest, "rating %d", rating)
	}
}

func TestService_Submit_OnePerReservation(t *testing.T) {
	gate := new(MockReservationGate)
	gate.On("GetByID", mock.Anything, int64(5)).Return(&domain.Reservation{ID: 5, UserID: 1, Status: domain.ReservationCompleted}, nil)

	t.Run("pre-check", func(t *testing.T) {
		reviews := new(MockReviewStore)
		reviews.On("ExistsForReservation", mock.Anything, int64(5)).Return(true, nil)
		_, err := NewService(reviews, gate, nil, nil).Submit(context.Background(), client, CreateReviewRequest{ReservationID: 5, Rating: 3})
		assert.ErrorIs(t, err, ErrAlreadyReviewed)
	})

	t.Run("unique index", func(t *testing.T) {
		reviews := new(MockReviewStore)
		reviews.On("ExistsForReservation", mock.Anything, int64(5)).Return(false, nil)
		reviews.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)
		_, err := NewService(reviews, gate, nil, nil).Submit(context.Background(), client, CreateReviewRequest{ReservationID: 5, Rating: 3})
		assert.ErrorIs(t, err, ErrAlreadyReviewed)
	})
}

func TestService_Submit_OwnerOnly(t *testing.T) {
	gate := new(MockReservationGate)
	gate.On("GetByID", mock.Anything, int64(5)).Return(&domain.Reservation{ID: 5, UserID: 2, Status: domain.ReservationCompleted}, nil)
	gate.On("GetByID", mock.Anything, int64(6)).Return(nil, repository.ErrNotFound)
	svc := NewService(new(MockReviewStore), gate, nil, nil)

	_, err := svc.Submit(context.Background(), client, CreateReviewRequest{ReservationID: 5, Rating: 4})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Submit(context.Background(), client, CreateReviewRequest{ReservationID: 6, Rating: 4})
	assert.ErrorIs(t, err, ErrNotFound)
}
