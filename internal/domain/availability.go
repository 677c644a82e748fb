package domain

import "time"

type AvailabilityStatus string

const (
	AvailabilityAvailable   AvailabilityStatus = "available"
	AvailabilityUnavailable AvailabilityStatus = "unavailable"
	AvailabilityBooked      AvailabilityStatus = "booked"
)

func (s AvailabilityStatus) Valid() bool {
	switch s {
	case AvailabilityAvailable, AvailabilityUnavailable, AvailabilityBooked:
		return true
	}
	return false
}

type Availability struct {
	ID             int64              `json:"id"`
	ProfessionalID int64              `json:"professional_id"`
	Date           string             `json:"date"`
	StartTime      string             `json:"start_time"`
	EndTime        string             `json:"end_time"`
	Status         AvailabilityStatus `json:"status"`
	CreatedAt      time.Time          `json:"created_at"`
}
