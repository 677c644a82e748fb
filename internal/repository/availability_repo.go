package repository

import (
	"context"
	"time"

	"servicebook/internal/domain"

	"gorm.io/gorm"
)

type AvailabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

type availabilityModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	ProfessionalID int64     `gorm:"column:professional_id;not null;index:idx_availability_prof_date"`
	SlotDate       string    `gorm:"column:slot_date;size:10;not null;index:idx_availability_prof_date"`
	StartTime      string    `gorm:"column:start_time;size:5;not null"`
	EndTime        string    `gorm:"column:end_time;size:5;not null"`
	Status         string    `gorm:"column:status;size:20;not null"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (availabilityModel) TableName() string { return "availability" }

func toDomainAvailability(m availabilityModel) domain.Availability {
	return domain.Availability{
		ID:             m.ID,
		ProfessionalID: m.ProfessionalID,
		Date:           m.SlotDate,
		StartTime:      m.StartTime,
		EndTime:        m.EndTime,
		Status:         domain.AvailabilityStatus(m.Status),
		CreatedAt:      m.CreatedAt,
	}
}

func (r *AvailabilityRepository) Create(ctx context.Context, a *domain.Availability) error {
	m := availabilityModel{
		ProfessionalID: a.ProfessionalID,
		SlotDate:       a.Date,
		StartTime:      a.StartTime,
		EndTime:        a.EndTime,
		Status:         string(a.Status),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate("availability.create", err)
	}
	*a = toDomainAvailability(m)
	return nil
}

func (r *AvailabilityRepository) GetByID(ctx context.Context, id int64) (*domain.Availability, error) {
	var m availabilityModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate("availability.get", err)
	}
	a := toDomainAvailability(m)
	return &a, nil
}

func (r *AvailabilityRepository) ListByProfessional(ctx context.Context, professionalID int64) ([]domain.Availability, error) {
	var rows []availabilityModel
	err := r.db.WithContext(ctx).
		Where("professional_id = ?", professionalID).
		Order("slot_date, start_time").
		Find(&rows).Error
	if err != nil {
		return nil, translate("availability.list", err)
	}
	out := make([]domain.Availability, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainAvailability(m))
	}
	return out, nil
}

func (r *AvailabilityRepository) Delete(ctx context.Context, professionalID, id int64) error {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND professional_id = ?", id, professionalID).
		Delete(&availabilityModel{})
	if tx.Error != nil {
		return translate("availability.delete", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePastAvailable removes open windows dated before the given day.
// Blocked and booked windows are kept as history.
func (r *AvailabilityRepository) DeletePastAvailable(ctx context.Context, before string) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("slot_date < ? AND status = ?", before, string(domain.AvailabilityAvailable)).
		Delete(&availabilityModel{})
	if tx.Error != nil {
		return 0, translate("availability.delete_past", tx.Error)
	}
	return tx.RowsAffected, nil
}

func blockingWindowExists(tx *gorm.DB, professionalID int64, date, clock string) (bool, error) {
	var cnt int64
	err := tx.Model(&availabilityModel{}).
		Where("professional_id = ? AND slot_date = ? AND status = ?", professionalID, date, string(domain.AvailabilityUnavailable)).
		Where("start_time <= ? AND end_time > ?", clock, clock).
		Count(&cnt).Error
	return cnt > 0, err
}
