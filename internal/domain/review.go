package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID            int64     `json:"id"`
	ReservationID int64     `json:"reservation_id"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
