package repository

import (
	"context"
	"time"

	"servicebook/internal/domain"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

type reviewModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	ReservationID int64     `gorm:"column:reservation_id;not null;uniqueIndex"`
	Rating        int       `gorm:"column:rating;not null"`
	Comment       *string   `gorm:"column:comment;type:text"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (reviewModel) TableName() string { return "reviews" }

func toDomainReview(m reviewModel) domain.Review {
	return domain.Review{
		ID:            m.ID,
		ReservationID: m.ReservationID,
		Rating:        m.Rating,
		Comment:       derefString(m.Comment),
		CreatedAt:     m.CreatedAt,
	}
}

// Create fails with ErrDuplicate when the reservation already has a review.
func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	m := reviewModel{ReservationID: rv.ReservationID, Rating: rv.Rating, Comment: optString(rv.Comment)}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate("reviews.create", err)
	}
	*rv = toDomainReview(m)
	return nil
}

func (r *ReviewRepository) ExistsForReservation(ctx context.Context, reservationID int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&reviewModel{}).
		Where("reservation_id = ?", reservationID).
		Count(&cnt).Error
	if err != nil {
		return false, translate("reviews.exists", err)
	}
	return cnt > 0, nil
}

type ProfessionalReviewRow struct {
	ID            int64     `json:"id"`
	ReservationID int64     `json:"reservation_id"`
	Rating        int       `json:"rating"`
	Comment       *string   `json:"comment,omitempty"`
	ServiceName   string    `json:"service_name"`
	ClientName    string    `json:"client_name"`
	CreatedAt     time.Time `json:"created_at"`
}

func (r *ReviewRepository) ListForProfessional(ctx context.Context, professionalID int64) ([]ProfessionalReviewRow, error) {
	var rows []ProfessionalReviewRow
	err := r.db.WithContext(ctx).
		Table("reviews rv").
		Select(`rv.id, rv.reservation_id, rv.rating, rv.comment, rv.created_at,
			s.name AS service_name, u.first_name || ' ' || u.last_name AS client_name`).
		Joins("JOIN reservations r ON r.id = rv.reservation_id").
		Joins("JOIN services s ON s.id = r.service_id").
		Joins("JOIN users u ON u.id = r.user_id").
		Where("r.professional_id = ?", professionalID).
		Order("rv.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate("reviews.list_for_professional", err)
	}
	return rows, nil
}
