package repository

import (
	"context"
	"time"

	"servicebook/internal/domain"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

type paymentModel struct {
	ID            int64      `gorm:"column:id;primaryKey"`
	ReservationID int64      `gorm:"column:reservation_id;not null;index"`
	Amount        float64    `gorm:"column:amount;not null"`
	Method        string     `gorm:"column:method;size:20;not null"`
	PaymentStatus string     `gorm:"column:payment_status;size:20;not null"`
	PaidAt        *time.Time `gorm:"column:paid_at"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
}

func (paymentModel) TableName() string { return "payments" }

func toDomainPayment(m paymentModel) domain.Payment {
	return domain.Payment{
		ID:            m.ID,
		ReservationID: m.ReservationID,
		Amount:        m.Amount,
		Method:        domain.PaymentMethod(m.Method),
		Status:        domain.PaymentStatus(m.PaymentStatus),
		PaidAt:        m.PaidAt,
		CreatedAt:     m.CreatedAt,
	}
}

// PaymentCheck decides whether a payment may be recorded against the
// reservation. alreadyPaid reports an existing paid payment.
type PaymentCheck func(res domain.Reservation, alreadyPaid bool) error

// RecordPaid inserts p as a paid payment, marks the reservation paid and
// confirms it if it was still pending, all in one transaction. Errors from
// check are returned unchanged.
func (r *PaymentRepository) RecordPaid(ctx context.Context, p *domain.Payment, check PaymentCheck) (*domain.Reservation, error) {
	var out *domain.Reservation
	var checkErr error

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rm reservationModel
		if err := tx.First(&rm, p.ReservationID).Error; err != nil {
			return err
		}

		var paid int64
		if err := tx.Model(&paymentModel{}).
			Where("reservation_id = ? AND payment_status = ?", p.ReservationID, string(domain.PaymentPaid)).
			Count(&paid).Error; err != nil {
			return err
		}

		res := toDomainReservation(rm)
		if err := check(*res, paid > 0); err != nil {
			checkErr = err
			return err
		}

		now := time.Now().UTC()
		pm := paymentModel{
			ReservationID: p.ReservationID,
			Amount:        p.Amount,
			Method:        string(p.Method),
			PaymentStatus: string(domain.PaymentPaid),
			PaidAt:        &now,
		}
		if err := tx.Create(&pm).Error; err != nil {
			return err
		}

		updates := map[string]any{"payment_status": string(domain.PaymentPaid), "updated_at": now}
		if res.Status == domain.ReservationPending {
			updates["status"] = string(domain.ReservationConfirmed)
			res.Status = domain.ReservationConfirmed
		}
		if err := tx.Model(&reservationModel{}).Where("id = ?", rm.ID).Updates(updates).Error; err != nil {
			return err
		}

		res.PaymentStatus = domain.PaymentPaid
		res.UpdatedAt = now
		*p = toDomainPayment(pm)
		out = res
		return nil
	})

	if checkErr != nil {
		return nil, checkErr
	}
	if err != nil {
		return nil, translate("payments.record_paid", err)
	}
	return out, nil
}

func (r *PaymentRepository) ListByReservation(ctx context.Context, reservationID int64) ([]domain.Payment, error) {
	var rows []paymentModel
	err := r.db.WithContext(ctx).
		Where("reservation_id = ?", reservationID).
		Order("created_at, id").
		Find(&rows).Error
	if err != nil {
		return nil, translate("payments.list", err)
	}
	out := make([]domain.Payment, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainPayment(m))
	}
	return out, nil
}
