package repository

import "gorm.io/gorm"

const activeSlotIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_reservations_active_slot
ON reservations (professional_id, slot_date, slot_time)
WHERE status <> 'cancelled'`

// AutoMigrate creates or updates every table the repositories use, plus the
// partial unique index that guards against double-booking.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&userModel{},
		&professionalModel{},
		&categoryModel{},
		&serviceModel{},
		&offeringModel{},
		&availabilityModel{},
		&reservationModel{},
		&paymentModel{},
		&reviewModel{},
		&auditLogModel{},
	); err != nil {
		return err
	}
	return db.Exec(activeSlotIndex).Error
}
