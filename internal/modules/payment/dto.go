package payment

import "servicebook/internal/domain"

type RecordPaymentRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Method string  `json:"method" validate:"required,oneof=card cash paypal"`
}

type RecordPaymentResponse struct {
	Payment     *domain.Payment     `json:"payment"`
	Reservation *domain.Reservation `json:"reservation"`
}
