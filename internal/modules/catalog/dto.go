package catalog

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=2000"`
}

type CreateServiceRequest struct {
	CategoryID  int64   `json:"category_id" validate:"required,gt=0"`
	Name        string  `json:"name" validate:"required,max=150"`
	Description string  `json:"description" validate:"max=2000"`
	BasePrice   float64 `json:"base_price" validate:"required,gt=0"`
}

type AddOfferingRequest struct {
	ServiceID   int64    `json:"service_id" validate:"required,gt=0"`
	CustomPrice *float64 `json:"custom_price,omitempty" validate:"omitempty,gt=0"`
}
