package domain

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
)

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending:   {ReservationConfirmed, ReservationCancelled},
	ReservationConfirmed: {ReservationCompleted, ReservationCancelled},
}

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCompleted, ReservationCancelled:
		return true
	}
	return false
}

// Terminal statuses accept no further edits.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationCompleted || s == ReservationCancelled
}

func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Reservation struct {
	ID             int64             `json:"id"`
	UserID         int64             `json:"user_id"`
	ProfessionalID int64             `json:"professional_id"`
	ServiceID      int64             `json:"service_id"`
	Date           string            `json:"date"`
	Time           string            `json:"time"`
	Status         ReservationStatus `json:"status"`
	PaymentStatus  PaymentStatus     `json:"payment_status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

type ReservationAuditLog struct {
	ID             int64             `json:"id"`
	ReservationID  int64             `json:"reservation_id"`
	UserID         int64             `json:"user_id"`
	ProfessionalID int64             `json:"professional_id"`
	Date           string            `json:"date"`
	Time           string            `json:"time"`
	Status         ReservationStatus `json:"status"`
	DeletedAt      time.Time         `json:"deleted_at"`
	DeletedBy      int64             `json:"deleted_by"`
}

// ParseSlot validates a YYYY-MM-DD date and an HH:MM clock and returns them in
// canonical form.
func ParseSlot(date, clock string) (string, string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", "", fmt.Errorf("invalid date %q", date)
	}
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return "", "", fmt.Errorf("invalid time %q", clock)
	}
	return d.Format(DateLayout), t.Format(ClockLayout), nil
}
