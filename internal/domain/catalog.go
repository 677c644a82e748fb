package domain

import "time"

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type Service struct {
	ID          int64     `json:"id"`
	CategoryID  int64     `json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	BasePrice   float64   `json:"base_price"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Offering is a service offered by a professional. A nil CustomPrice means
// the service's base price applies.
type Offering struct {
	ProfessionalID int64     `json:"professional_id"`
	ServiceID      int64     `json:"service_id"`
	CustomPrice    *float64  `json:"custom_price,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func (o Offering) PriceOr(base float64) float64 {
	if o.CustomPrice != nil {
		return *o.CustomPrice
	}
	return base
}
