package reporting

import (
	"servicebook/internal/domain"
	"servicebook/internal/repository"
)

// DateRange is an inclusive [From, To] span of YYYY-MM-DD days. Empty bounds
// are open.
type DateRange struct {
	From string `form:"from"`
	To   string `form:"to"`
}

type ClientDashboard struct {
	Tier                  domain.LoyaltyTier `json:"loyalty_tier"`
	TotalReservations     int64              `json:"total_reservations"`
	CompletedReservations int64              `json:"completed_reservations"`
	PendingReservations   int64              `json:"pending_reservations"`
}

type Earnings struct {
	ProfessionalID int64   `json:"professional_id"`
	From           string  `json:"from"`
	To             string  `json:"to"`
	Total          float64 `json:"total"`
}

type FrequencyItem struct {
	repository.FrequencyRow
	CompletionRate float64 `json:"completion_rate"`
}

type LoyaltyItem struct {
	repository.LoyaltyRow
	Tier domain.LoyaltyTier `json:"loyalty_tier"`
}
