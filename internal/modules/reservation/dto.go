package reservation

type BookRequest struct {
	ProfessionalID int64  `json:"professional_id" validate:"required,gt=0"`
	ServiceID      int64  `json:"service_id" validate:"required,gt=0"`
	Date           string `json:"date" validate:"required"`
	Time           string `json:"time" validate:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
