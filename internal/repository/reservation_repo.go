package repository

import (
	"context"
	"errors"
	"time"

	"servicebook/internal/domain"

	"gorm.io/gorm"
)

var (
	ErrSlotTaken   = errors.New("slot already reserved")
	ErrSlotBlocked = errors.New("slot blocked by professional")
	ErrStaleStatus = errors.New("reservation status changed concurrently")
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

type reservationModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	UserID         int64     `gorm:"column:user_id;not null;index"`
	ProfessionalID int64     `gorm:"column:professional_id;not null;index"`
	ServiceID      int64     `gorm:"column:service_id;not null;index"`
	SlotDate       string    `gorm:"column:slot_date;size:10;not null;index"`
	SlotTime       string    `gorm:"column:slot_time;size:5;not null"`
	Status         string    `gorm:"column:status;size:20;not null;index"`
	PaymentStatus  string    `gorm:"column:payment_status;size:20;not null"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (reservationModel) TableName() string { return "reservations" }

type auditLogModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	ReservationID  int64     `gorm:"column:reservation_id;not null;index"`
	UserID         int64     `gorm:"column:user_id;not null"`
	ProfessionalID int64     `gorm:"column:professional_id;not null"`
	SlotDate       string    `gorm:"column:slot_date;size:10;not null"`
	SlotTime       string    `gorm:"column:slot_time;size:5;not null"`
	Status         string    `gorm:"column:status;size:20;not null"`
	DeletedAt      time.Time `gorm:"column:deleted_at;not null;index"`
	DeletedBy      int64     `gorm:"column:deleted_by;not null"`
}

func (auditLogModel) TableName() string { return "reservation_audit_log" }

func toDomainReservation(m reservationModel) *domain.Reservation {
	return &domain.Reservation{
		ID:             m.ID,
		UserID:         m.UserID,
		ProfessionalID: m.ProfessionalID,
		ServiceID:      m.ServiceID,
		Date:           m.SlotDate,
		Time:           m.SlotTime,
		Status:         domain.ReservationStatus(m.Status),
		PaymentStatus:  domain.PaymentStatus(m.PaymentStatus),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toReservationModel(r *domain.Reservation) reservationModel {
	return reservationModel{
		ID:             r.ID,
		UserID:         r.UserID,
		ProfessionalID: r.ProfessionalID,
		ServiceID:      r.ServiceID,
		SlotDate:       r.Date,
		SlotTime:       r.Time,
		Status:         string(r.Status),
		PaymentStatus:  string(r.PaymentStatus),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func toDomainAuditLog(m auditLogModel) domain.ReservationAuditLog {
	return domain.ReservationAuditLog{
		ID:             m.ID,
		ReservationID:  m.ReservationID,
		UserID:         m.UserID,
		ProfessionalID: m.ProfessionalID,
		Date:           m.SlotDate,
		Time:           m.SlotTime,
		Status:         domain.ReservationStatus(m.Status),
		DeletedAt:      m.DeletedAt,
		DeletedBy:      m.DeletedBy,
	}
}

// Book inserts a reservation after checking, in the same transaction, that
// no other non-cancelled reservation holds the slot and that no unavailable
// window covers it. idx_reservations_active_slot catches concurrent inserts
// that pass the check.
func (r *ReservationRepository) Book(ctx context.Context, res *domain.Reservation) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&reservationModel{}).
			Where("professional_id = ? AND slot_date = ? AND slot_time = ? AND status <> ?",
				res.ProfessionalID, res.Date, res.Time, string(domain.ReservationCancelled)).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrSlotTaken
		}

		blocked, err := blockingWindowExists(tx, res.ProfessionalID, res.Date, res.Time)
		if err != nil {
			return err
		}
		if blocked {
			return ErrSlotBlocked
		}

		m := toReservationModel(res)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		*res = *toDomainReservation(m)
		return nil
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrSlotTaken), errors.Is(err, ErrSlotBlocked):
		return err
	case isUniqueViolation(err):
		return ErrSlotTaken
	}
	return translate("reservations.book", err)
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var m reservationModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate("reservations.get", err)
	}
	return toDomainReservation(m), nil
}

// Transition loads the reservation, asks decide for the next status and
// applies it only if the status has not changed since it was read. Errors
// from decide are returned unchanged.
func (r *ReservationRepository) Transition(
	ctx context.Context,
	id int64,
	decide func(current domain.Reservation) (domain.ReservationStatus, error),
) (*domain.Reservation, error) {
	var out *domain.Reservation
	var decideErr error

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m reservationModel
		if err := tx.First(&m, id).Error; err != nil {
			return err
		}
		current := toDomainReservation(m)

		next, err := decide(*current)
		if err != nil {
			decideErr = err
			return err
		}

		now := time.Now().UTC()
		upd := tx.Model(&reservationModel{}).
			Where("id = ? AND status = ?", id, m.Status).
			Updates(map[string]any{"status": string(next), "updated_at": now})
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return ErrStaleStatus
		}

		current.Status = next
		current.UpdatedAt = now
		out = current
		return nil
	})

	if decideErr != nil {
		return nil, decideErr
	}
	if errors.Is(err, ErrStaleStatus) {
		return nil, err
	}
	if err != nil {
		return nil, translate("reservations.transition", err)
	}
	return out, nil
}

// Delete removes the reservation with its payments and review and appends
// one audit row recording its last state and the deleting user.
func (r *ReservationRepository) Delete(ctx context.Context, id, deletedBy int64) (*domain.ReservationAuditLog, error) {
	var entry auditLogModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m reservationModel
		if err := tx.First(&m, id).Error; err != nil {
			return err
		}

		if err := tx.Where("reservation_id = ?", id).Delete(&paymentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("reservation_id = ?", id).Delete(&reviewModel{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&reservationModel{}, id).Error; err != nil {
			return err
		}

		entry = auditLogModel{
			ReservationID:  m.ID,
			UserID:         m.UserID,
			ProfessionalID: m.ProfessionalID,
			SlotDate:       m.SlotDate,
			SlotTime:       m.SlotTime,
			Status:         m.Status,
			DeletedAt:      time.Now().UTC(),
			DeletedBy:      deletedBy,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, translate("reservations.delete", err)
	}

	out := toDomainAuditLog(entry)
	return &out, nil
}

func (r *ReservationRepository) RecentAuditLog(ctx context.Context, limit int) ([]domain.ReservationAuditLog, error) {
	var rows []auditLogModel
	err := r.db.WithContext(ctx).
		Order("deleted_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, translate("audit_log.recent", err)
	}
	out := make([]domain.ReservationAuditLog, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainAuditLog(m))
	}
	return out, nil
}

type ClientReservationRow struct {
	ID               int64     `json:"id"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
	Status           string    `json:"status"`
	PaymentStatus    string    `json:"payment_status"`
	ServiceName      string    `json:"service_name"`
	ProfessionalName string    `json:"professional_name"`
	AmountPaid       *float64  `json:"amount_paid,omitempty"`
	Rating           *int      `json:"rating,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// ListForClient returns the client's reservations newest first, with the paid
// amount and review rating when present.
func (r *ReservationRepository) ListForClient(ctx context.Context, userID int64) ([]ClientReservationRow, error) {
	var rows []ClientReservationRow
	err := r.db.WithContext(ctx).
		Table("reservations r").
		Select(`r.id, r.slot_date AS date, r.slot_time AS time, r.status, r.payment_status, r.created_at,
			s.name AS service_name, u.first_name || ' ' || u.last_name AS professional_name,
			(SELECT SUM(pm.amount) FROM payments pm WHERE pm.reservation_id = r.id AND pm.payment_status = 'paid') AS amount_paid,
			rv.rating`).
		Joins("JOIN services s ON s.id = r.service_id").
		Joins("JOIN professionals p ON p.id = r.professional_id").
		Joins("JOIN users u ON u.id = p.user_id").
		Joins("LEFT JOIN reviews rv ON rv.reservation_id = r.id").
		Where("r.user_id = ?", userID).
		Order("r.slot_date DESC, r.slot_time DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate("reservations.list_for_client", err)
	}
	return rows, nil
}

type ProfessionalReservationRow struct {
	ID            int64     `json:"id"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	ServiceName   string    `json:"service_name"`
	ClientName    string    `json:"client_name"`
	ClientEmail   string    `json:"client_email"`
	CreatedAt     time.Time `json:"created_at"`
}

func (r *ReservationRepository) ListForProfessional(ctx context.Context, professionalID int64) ([]ProfessionalReservationRow, error) {
	var rows []ProfessionalReservationRow
	err := r.db.WithContext(ctx).
		Table("reservations r").
		Select(`r.id, r.slot_date AS date, r.slot_time AS time, r.status, r.payment_status, r.created_at,
			s.name AS service_name, u.first_name || ' ' || u.last_name AS client_name, u.email AS client_email`).
		Joins("JOIN services s ON s.id = r.service_id").
		Joins("JOIN users u ON u.id = r.user_id").
		Where("r.professional_id = ?", professionalID).
		Order("r.slot_date DESC, r.slot_time DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate("reservations.list_for_professional", err)
	}
	return rows, nil
}
